package ws

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// subscriptionManager guarantees that we have **exactly one** Redis
// subscription per channel, no matter how many websocket listeners are
// connected to it.
type subscriptionManager struct {
	rdb  *redis.Client
	hub  *ListenerHub
	mu   sync.Mutex
	subs map[string]*subEntry // channel -> subscription data
}

type subEntry struct {
	refCnt int
	cancel context.CancelFunc
}

func newSubscriptionManager(rdb *redis.Client, hub *ListenerHub) *subscriptionManager {
	return &subscriptionManager{
		rdb:  rdb,
		hub:  hub,
		subs: make(map[string]*subEntry),
	}
}

// Subscribe ensures that the process is subscribed to the channel;
// subsequent calls for the same channel only increment the ref-counter.
func (sm *subscriptionManager) Subscribe(channel string) {
	if sm.rdb == nil {
		return
	}

	sm.mu.Lock()
	if e, ok := sm.subs[channel]; ok {
		e.refCnt++
		sm.mu.Unlock()
		return
	}

	// First listener -> create Redis SUB and fan-out loop.
	ctx, cancel := context.WithCancel(context.Background())
	ps := sm.rdb.Subscribe(ctx, channel)

	sm.subs[channel] = &subEntry{refCnt: 1, cancel: cancel}
	sm.mu.Unlock()

	go func() {
		defer ps.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ps.Channel():
				if !ok { // Redis connection closed.
					return
				}
				report := sm.hub.Broadcast([]byte(m.Payload))
				zap.L().Debug("leaderboard.fanout",
					zap.String("channel", channel),
					zap.Int("delivered", report.Delivered()),
					zap.Int("skipped", report.Skipped()),
				)
			}
		}
	}()
}

// Unsubscribe decrements the ref-counter and tears the Redis SUB down when the
// last listener disconnects.
func (sm *subscriptionManager) Unsubscribe(channel string) {
	sm.mu.Lock()
	e, ok := sm.subs[channel]
	if !ok {
		sm.mu.Unlock()
		return
	}
	e.refCnt--
	if e.refCnt > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.subs, channel)
	sm.mu.Unlock()

	// Outside the lock -> stop the fan-out goroutine.
	e.cancel()
}
