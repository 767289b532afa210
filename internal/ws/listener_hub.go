package ws

import "sync"

// ListenerHub holds the connections of the shared leaderboard channel.
// Unlike relay rooms it is not scoped by room code.
type ListenerHub struct {
	mu    sync.RWMutex
	conns map[Member]struct{}
}

func NewListenerHub() *ListenerHub { return &ListenerHub{conns: map[Member]struct{}{}} }

func (h *ListenerHub) add(m Member) {
	h.mu.Lock()
	h.conns[m] = struct{}{}
	h.mu.Unlock()
}

func (h *ListenerHub) remove(m Member) {
	h.mu.Lock()
	delete(h.conns, m)
	h.mu.Unlock()
}

func (h *ListenerHub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast pushes msg to every listener, best-effort.
func (h *ListenerHub) Broadcast(msg []byte) BroadcastReport {
	// Take a quick snapshot of the current connections
	h.mu.RLock()
	conns := make([]Member, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	// Do the I/O outside the lock
	return fanOut(conns, msg)
}
