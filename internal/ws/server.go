package ws

import (
	"net/http"
	"time"

	"crickmate/internal/services/leaderboard"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be < pongWait
)

type WsServer struct {
	registry   *Registry
	dispatcher *Dispatcher
	lifecycle  *Lifecycle
	listeners  *ListenerHub
	subMgr     *subscriptionManager
	upgrader   websocket.Upgrader
	readLimit  int64
}

// NewWsServer wires the relay around registry. rdc may be nil, in which
// case leaderboard listeners only receive what is broadcast in-process.
func NewWsServer(registry *Registry, rdc *redis.Client, readLimit int64) *WsServer {
	dispatcher := NewDispatcher(registry)
	listeners := NewListenerHub()
	return &WsServer{
		registry:   registry,
		dispatcher: dispatcher,
		lifecycle:  NewLifecycle(registry, dispatcher),
		listeners:  listeners,
		subMgr:     newSubscriptionManager(rdc, listeners),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true }, // CORS is enforced on the REST side
		},
		readLimit: readLimit,
	}
}

func (s *WsServer) Listeners() *ListenerHub { return s.listeners }

// ---------------------------------------------------------------------------
//  Public: Gin entry-points
// ---------------------------------------------------------------------------

// HandleRoom upgrades GET /ws/:room_code into a relay session.
func (s *WsServer) HandleRoom(ginCtx *gin.Context) {
	code := ginCtx.Param("room_code")
	if code == "" {
		ginCtx.JSON(http.StatusBadRequest, gin.H{"error": "room_code is required"})
		return
	}

	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	conn := newClientConn(rawConn)
	sess := NewSession(code, conn)

	// ─────────────────── Client joined ────────────────────────
	if err := s.lifecycle.Join(sess); err != nil {
		zap.L().Warn("ws.join", zap.String("room", code), zap.Error(err))
		_ = conn.Close()
		return
	}

	go s.reader(sess, conn)
	go s.pinger(conn)
}

// HandleLeaderboard upgrades GET /leaderboard/ws into a standings listener.
func (s *WsServer) HandleLeaderboard(ginCtx *gin.Context) {
	rawConn, err := s.upgrader.Upgrade(ginCtx.Writer, ginCtx.Request, nil)
	if err != nil {
		zap.L().Warn("ws.accept", zap.Error(err))
		return
	}
	conn := newClientConn(rawConn)
	s.listeners.add(conn)
	s.subMgr.Subscribe(leaderboard.Channel) // may be a no-op (already subscribed)

	go s.listen(conn)
	go s.pinger(conn)
}

// ---------------------------------------------------------------------------
//  Private helpers
// ---------------------------------------------------------------------------

// reader is the session's receive loop. Frames are dispatched in arrival
// order, so one sender's messages reach the room in the order sent.
func (s *WsServer) reader(sess *Session, conn *clientConn) {
	defer func() {
		s.lifecycle.Leave(sess)
		_ = conn.Close()
	}()

	s.prepareRead(conn)
	for {
		_, data, err := conn.rawConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("ws.read", zap.String("room", sess.Code), zap.String("conn", conn.ID()), zap.Error(err))
			}
			return // client closed or errored
		}
		s.dispatcher.Dispatch(sess.Code, data)
	}
}

// listen drains a leaderboard listener until it goes away; listeners only
// receive.
func (s *WsServer) listen(conn *clientConn) {
	defer func() {
		s.listeners.remove(conn)
		s.subMgr.Unsubscribe(leaderboard.Channel)
		_ = conn.Close()
	}()

	s.prepareRead(conn)
	for {
		if _, _, err := conn.rawConn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *WsServer) prepareRead(conn *clientConn) {
	if s.readLimit > 0 {
		conn.rawConn.SetReadLimit(s.readLimit)
	}
	_ = conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	conn.rawConn.SetPongHandler(func(string) error {
		return conn.rawConn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (s *WsServer) pinger(conn *clientConn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-conn.done:
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
