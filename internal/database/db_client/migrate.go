package db_client

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

//go:embed seed.sql
var seed string

// Migrate creates the tables if they are missing. With withSeed the
// development accounts and their leaderboard rows are inserted as well.
func Migrate(ctx context.Context, db *sql.DB, withSeed bool) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	zap.L().Info("schema applied")

	if !withSeed {
		return nil
	}
	if _, err := db.ExecContext(ctx, seed); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	zap.L().Info("dev seed applied")
	return nil
}
