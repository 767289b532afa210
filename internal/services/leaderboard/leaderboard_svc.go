package leaderboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel carries standings snapshots to every instance's listeners.
const Channel = "leaderboard:events"

type StandingDTO struct {
	Username string  `json:"username"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Rating   float64 `json:"rating"`
}

// Order selects how standings are sorted.
type Order int

const (
	ByWins Order = iota
	ByRating
)

var ErrUnknownOrder = errors.New("unknown standings order")

type ILeaderboardService interface {
	Standings(ctx context.Context, order Order) ([]StandingDTO, error)
	// Publish fetches standings by wins and pushes them to all listeners.
	Publish(ctx context.Context) (int64, error)
}

type leaderboardService struct {
	rdc *redis.Client
	db  *sql.DB
}

var _ = (*leaderboardService)(nil)

func NewLeaderboardService(rdc *redis.Client, db *sql.DB) ILeaderboardService {
	return &leaderboardService{rdc: rdc, db: db}
}

const standingsQ = `SELECT u.username, l.wins, l.losses, l.rating
                      FROM leaderboard l
                      JOIN users u ON l.user_id = u.id`

func (svc *leaderboardService) Standings(ctx context.Context, order Order) ([]StandingDTO, error) {
	var q string
	switch order {
	case ByWins:
		q = standingsQ + " ORDER BY l.wins DESC"
	case ByRating:
		q = standingsQ + " ORDER BY l.rating DESC"
	default:
		return nil, ErrUnknownOrder
	}

	rows, err := svc.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]StandingDTO, 0)
	for rows.Next() {
		var s StandingDTO
		if err := rows.Scan(&s.Username, &s.Wins, &s.Losses, &s.Rating); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Publish returns the number of subscribed instances that received the snapshot.
func (svc *leaderboardService) Publish(ctx context.Context) (int64, error) {
	list, err := svc.Standings(ctx, ByWins)
	if err != nil {
		return 0, fmt.Errorf("load standings: %w", err)
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return 0, err
	}
	n, err := svc.rdc.Publish(ctx, Channel, string(payload)).Result()
	if err != nil {
		zap.L().Error("leaderboard.publish", zap.Error(err))
		return 0, err
	}
	zap.L().Debug("leaderboard.published", zap.Int("standings", len(list)), zap.Int64("receivers", n))
	return n, nil
}
