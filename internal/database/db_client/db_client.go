package db_client

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"

	"crickmate/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// DSN renders the pgx connection URL. Credentials are escaped, so
// passwords may carry URL metacharacters.
func DSN(cfg *config.Config) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.PostgresUser, cfg.PostgresPassword),
		Host:   net.JoinHostPort(cfg.PostgresHost, cfg.PostgresPort),
		Path:   "/" + cfg.PostgresDb,
	}
	if cfg.PostgresSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.PostgresSSLMode}}.Encode()
	}
	return u.String()
}

// Open returns a pinged pool sized from cfg.
func Open(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, err
	}
	configurePool(db, cfg)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping %s: %w", cfg.PostgresHost, err)
	}
	zap.L().Info("pg_connected",
		zap.String("host", cfg.PostgresHost),
		zap.String("database", cfg.PostgresDb),
		zap.Int("max_open_conns", cfg.PostgresMaxOpenConns),
	)
	return db, nil
}

func configurePool(db *sql.DB, cfg *config.Config) {
	db.SetMaxOpenConns(cfg.PostgresMaxOpenConns)
	db.SetMaxIdleConns(cfg.PostgresMaxIdleConns)
	db.SetConnMaxIdleTime(cfg.PostgresConnMaxIdleTime)
}
