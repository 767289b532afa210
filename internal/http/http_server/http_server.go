package http_server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"crickmate/internal/http/accounthandler"
	"crickmate/internal/http/leaderboardhandler"
	"crickmate/internal/http/roomhandler"
	"crickmate/internal/services/account"
	"crickmate/internal/services/leaderboard"
	"crickmate/internal/services/room"
	"crickmate/internal/ws"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

type Services struct {
	Accounts    account.IAccountService
	Rooms       room.IRoomService
	Leaderboard leaderboard.ILeaderboardService
}

type httpServer struct {
	listenPort   uint16
	srv          http.Server
	ln           net.Listener
	svcs         Services
	db           *sql.DB
	wsSrv        *ws.WsServer
	allowOrigins []string
}

func NewHttpServer(listenPort uint16, wsSrv *ws.WsServer, db *sql.DB,
	svcs Services, allowOrigins []string) *httpServer {

	h := &httpServer{
		listenPort:   listenPort,
		wsSrv:        wsSrv,
		db:           db,
		svcs:         svcs,
		allowOrigins: allowOrigins,
	}
	h.srv.Handler = h.routes()
	return h
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	zap.L().Info("http_listen", zap.String("addr", listenAddr))

	if err := h.srv.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *httpServer) routes() *gin.Engine {
	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))
	routerEngine.Use(cors.New(h.corsConfig()))

	routerEngine.GET("/", h.root)
	routerEngine.GET("/test-db", h.testDB)

	// websocket endpoints
	routerEngine.GET("/ws/:room_code", h.wsSrv.HandleRoom)
	routerEngine.GET("/leaderboard/ws", h.wsSrv.HandleLeaderboard)

	// REST API
	accounthandler.New(h.svcs.Accounts).Register(routerEngine)
	roomhandler.New(h.svcs.Rooms).Register(routerEngine)
	leaderboardhandler.New(h.svcs.Leaderboard).Register(routerEngine)

	return routerEngine
}

func (h *httpServer) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AddAllowHeaders("Authorization")
	cfg.AllowCredentials = true
	if len(h.allowOrigins) == 0 || (len(h.allowOrigins) == 1 && h.allowOrigins[0] == "*") {
		// Credentials rule out a literal "*", so echo whatever origin asked.
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = h.allowOrigins
	}
	return cfg
}

func (h *httpServer) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "hello crickmate backend"})
}

// testDB reports which database the service is connected to.
func (h *httpServer) testDB(c *gin.Context) {
	var name string
	if err := h.db.QueryRowContext(c.Request.Context(), `SELECT current_database()`).Scan(&name); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected", "database": name})
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err // e.g. active conns didn't finish in time
	}
	return nil
}
