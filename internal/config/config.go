package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"PROD" validate:"oneof=DEV PROD"`

	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379"   validate:"min=1000,max=65535"`

	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB"        envDefault:"0" validate:"min=0,max=15"`
	// RedisPoolSize of 0 sizes the pool from the CPU count.
	RedisPoolSize int `env:"REDIS_POOL_SIZE" envDefault:"0" validate:"min=0"`

	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"crickmate_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"crickmate_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"crickmate_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"  validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	PostgresMaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS"     envDefault:"25" validate:"min=1"`
	PostgresMaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS"     envDefault:"5"  validate:"min=0"`
	PostgresConnMaxIdleTime time.Duration `env:"POSTGRES_CONN_MAX_IDLE_TIME" envDefault:"1m"`

	RoomCodeLength   int           `env:"ROOM_CODE_LENGTH"   envDefault:"6"   validate:"min=4,max=12"`
	RoomWaitingTTL   time.Duration `env:"ROOM_WAITING_TTL"   envDefault:"30m" validate:"gt=0"`
	RoomSyncInterval time.Duration `env:"ROOM_SYNC_INTERVAL" envDefault:"10s" validate:"gt=0"`

	WsMaxMessageBytes int64 `env:"WS_MAX_MESSAGE_BYTES" envDefault:"4096" validate:"min=128"`

	CorsAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8000" validate:"min=1000,max=65535"`
}

// IsDev reports whether mock data should be seeded at boot.
func (c *Config) IsDev() bool { return c.AppEnv == "DEV" }

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
