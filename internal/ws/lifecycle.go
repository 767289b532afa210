package ws

import (
	"errors"
	"sync/atomic"

	"go.uber.org/zap"
)

type SessionState int32

const (
	StateConnecting SessionState = iota
	StateJoined
	StateClosed
)

var ErrSessionReused = errors.New("session already joined or closed")

// Session is one relay connection, bound to one room code for its lifetime.
type Session struct {
	Code   string
	Member Member
	state  atomic.Int32
}

func NewSession(code string, m Member) *Session {
	return &Session{Code: code, Member: m}
}

func (s *Session) State() SessionState { return SessionState(s.state.Load()) }

// Lifecycle moves sessions through CONNECTING -> JOINED -> CLOSED and
// announces membership changes to the room.
type Lifecycle struct {
	registry   *Registry
	dispatcher *Dispatcher
}

func NewLifecycle(registry *Registry, dispatcher *Dispatcher) *Lifecycle {
	return &Lifecycle{registry: registry, dispatcher: dispatcher}
}

// Join registers the session and broadcasts player_joined to the whole room,
// the new member included. A session joins at most once. The session only
// becomes JOINED after its member is in the registry; a Leave that lands
// first closes it and Join then takes the member back out.
func (l *Lifecycle) Join(s *Session) error {
	if s.State() != StateConnecting {
		return ErrSessionReused
	}
	count, err := l.registry.AddMember(s.Code, s.Member)
	if err != nil {
		s.state.CompareAndSwap(int32(StateConnecting), int32(StateClosed))
		return err
	}
	if !s.state.CompareAndSwap(int32(StateConnecting), int32(StateJoined)) {
		l.registry.RemoveMember(s.Code, s.Member)
		return ErrSessionReused
	}
	zap.L().Debug("relay.join",
		zap.String("room", s.Code),
		zap.String("conn", s.Member.ID()),
		zap.Int("player_count", count),
	)
	l.dispatcher.BroadcastJSON(s.Code, PlayerCountEvent{Type: KindPlayerJoined, PlayerCount: count})
	return nil
}

// Leave deregisters the session. Only the first call for a joined session
// has an effect, so an explicit close racing a transport error removes the
// member once. player_left goes out only if someone is left to hear it.
func (l *Lifecycle) Leave(s *Session) bool {
	for !s.state.CompareAndSwap(int32(StateJoined), int32(StateClosed)) {
		// a session still joining is closed so Join rolls itself back
		if s.state.CompareAndSwap(int32(StateConnecting), int32(StateClosed)) || s.State() == StateClosed {
			return false
		}
	}
	count, removed := l.registry.RemoveMember(s.Code, s.Member)
	if !removed {
		return false
	}
	zap.L().Debug("relay.leave",
		zap.String("room", s.Code),
		zap.String("conn", s.Member.ID()),
		zap.Int("player_count", count),
	)
	if count > 0 {
		l.dispatcher.BroadcastJSON(s.Code, PlayerCountEvent{Type: KindPlayerLeft, PlayerCount: count})
	}
	return true
}
