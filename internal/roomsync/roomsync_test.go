package roomsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type staticCounts map[string]int

func (s staticCounts) Counts() map[string]int { return s }

type recordingSvc struct {
	mu    sync.Mutex
	calls []map[string]int
	err   error
}

func (r *recordingSvc) CreateRoom(context.Context, string) (string, error) { return "", nil }
func (r *recordingSvc) JoinRoom(context.Context, string, string) error     { return nil }
func (r *recordingSvc) Expire(context.Context, string) error               { return nil }

func (r *recordingSvc) SyncStatus(_ context.Context, counts map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, counts)
	return r.err
}

func (r *recordingSvc) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestSyncOnceSkipsWhenNoRooms(t *testing.T) {
	svc := &recordingSvc{}
	syncOnce(context.Background(), staticCounts{}, svc)
	assert.Equal(t, 0, svc.callCount())
}

func TestSyncOncePassesCounts(t *testing.T) {
	svc := &recordingSvc{err: errors.New("db down")}
	syncOnce(context.Background(), staticCounts{"ABC123": 2}, svc)

	assert.Equal(t, []map[string]int{{"ABC123": 2}}, svc.calls)
}

func TestRunTicksUntilCancelled(t *testing.T) {
	svc := &recordingSvc{}
	ctx, cancel := context.WithCancel(context.Background())

	Run(ctx, staticCounts{"ABC123": 2}, svc, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return svc.callCount() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
	settled := svc.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, svc.callCount())
}
