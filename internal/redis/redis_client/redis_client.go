package redis_client

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"strconv"
	"time"

	"crickmate/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxAutoPool = 512
	pingTimeout = 5 * time.Second
)

// Options maps cfg onto the go-redis client options.
func Options(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, strconv.Itoa(int(cfg.RedisPort))),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: poolSize(cfg.RedisPoolSize, runtime.NumCPU()),
	}
}

// poolSize honours an explicit size; 0 means eight connections per CPU.
func poolSize(configured, cpus int) int {
	if configured > 0 {
		return configured
	}
	return min(cpus*8, maxAutoPool)
}

// NewRedisClient returns a pinged Redis client.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	opts := Options(cfg)
	rc := redis.NewClient(opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), pingTimeout)
	defer cancelFunc()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		err = fmt.Errorf("redis connection to %s failed: %w", opts.Addr, err)
		zap.L().Error("redis_connect", zap.Error(err))
		return nil, err
	}
	zap.L().Info("redis_connected", zap.String("addr", opts.Addr), zap.Int("pool_size", opts.PoolSize))
	return rc, nil
}
