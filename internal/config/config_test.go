package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, uint16(8000), cfg.HttpServerPort)
	assert.Equal(t, 6, cfg.RoomCodeLength)
	assert.Equal(t, 30*time.Minute, cfg.RoomWaitingTTL)
	assert.Equal(t, []string{"*"}, cfg.CorsAllowOrigins)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, 25, cfg.PostgresMaxOpenConns)
	assert.Equal(t, time.Minute, cfg.PostgresConnMaxIdleTime)
	assert.Zero(t, cfg.RedisPoolSize)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "DEV")
	t.Setenv("ROOM_CODE_LENGTH", "8")
	t.Setenv("ROOM_SYNC_INTERVAL", "2s")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsDev())
	assert.Equal(t, 8, cfg.RoomCodeLength)
	assert.Equal(t, 2*time.Second, cfg.RoomSyncInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsAllowOrigins)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"HTTP_SERVER_PORT": "80",
		"ROOM_CODE_LENGTH": "2",
		"APP_ENV":          "STAGING",
		"POSTGRES_SSLMODE": "sometimes",
		"REDIS_DB":         "99",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
