package roomwatcher

import (
	"context"
	"strings"

	"crickmate/internal/services/room"

	"github.com/redis/go-redis/v9"
)

// Run listens to key-expiry events and retires abandoned rooms.
// Run must be started once at service boot.
func Run(ctx context.Context, rdb *redis.Client, svc room.IRoomService) {
	_ = rdb.ConfigSet(ctx, "notify-keyspace-events", "Ex").Err()
	ps := rdb.PSubscribe(ctx, "__keyevent@*__:expired")
	defer ps.Close()

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			if code, ok := reservedCode(m.Payload); ok {
				_ = svc.Expire(ctx, code) // errors already logged in svc
			}
		}
	}
}

// reservedCode extracts the room code from an expired reservation key.
func reservedCode(key string) (string, bool) {
	if !strings.HasPrefix(key, room.ReservationKeyPrefix) {
		return "", false
	}
	code := strings.TrimPrefix(key, room.ReservationKeyPrefix)
	return code, code != ""
}
