package roomsync

import (
	"context"
	"time"

	"crickmate/internal/services/room"

	"go.uber.org/zap"
)

// CountSource snapshots live relay membership per room code.
type CountSource interface {
	Counts() map[string]int
}

// Run mirrors relay membership into room status every interval until ctx
// is cancelled.
func Run(ctx context.Context, src CountSource, svc room.IRoomService, interval time.Duration) {
	tk := time.NewTicker(interval)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				syncOnce(ctx, src, svc)
			}
		}
	}()
}

func syncOnce(ctx context.Context, src CountSource, svc room.IRoomService) {
	counts := src.Counts()
	if len(counts) == 0 {
		return
	}
	if err := svc.SyncStatus(ctx, counts); err != nil {
		zap.L().Warn("roomsync.sync", zap.Int("rooms", len(counts)), zap.Error(err))
	}
}
