package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"crickmate/internal/services/account"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// ReservationKeyPrefix marks a room code as taken while the room waits
	// for its guest; the key's expiry retires abandoned rooms.
	ReservationKeyPrefix = "room_t:"

	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 8

	// expireRecheck re-arms the reservation of a room that still had
	// players when it expired, so it is checked again after they leave.
	expireRecheck = 2 * time.Minute
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomCodeExhausted = errors.New("could not allocate a free room code")
)

type IRoomService interface {
	CreateRoom(ctx context.Context, username string) (string, error)
	JoinRoom(ctx context.Context, username, code string) error
	// Expire retires a room whose reservation ran out, unless players are
	// still connected to it.
	Expire(ctx context.Context, code string) error
	// SyncStatus marks rooms with two or more live members as in progress.
	SyncStatus(ctx context.Context, counts map[string]int) error
}

// MemberCounter reports live relay membership for a room code.
type MemberCounter interface {
	MemberCount(code string) int
}

type roomService struct {
	rdc        *redis.Client
	db         *sql.DB
	users      account.IAccountService
	relay      MemberCounter
	codeLen    int
	waitingTTL time.Duration
	genCode    func(n int) string
}

var _ = (*roomService)(nil)

func NewRoomService(rdc *redis.Client, db *sql.DB, users account.IAccountService,
	relay MemberCounter, codeLen int, waitingTTL time.Duration) IRoomService {

	return &roomService{
		rdc:        rdc,
		db:         db,
		users:      users,
		relay:      relay,
		codeLen:    codeLen,
		waitingTTL: waitingTTL,
		genCode:    randomCode,
	}
}

func (svc *roomService) CreateRoom(ctx context.Context, username string) (string, error) {
	hostID, err := svc.users.ResolveUserID(ctx, username)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := svc.genCode(svc.codeLen)

		ok, err := svc.rdc.SetNX(ctx, ReservationKeyPrefix+code, hostID, svc.waitingTTL).Result()
		if err != nil {
			return "", fmt.Errorf("reserve room code: %w", err)
		}
		if !ok {
			continue // code reserved by a live room
		}

		_, err = svc.db.ExecContext(ctx,
			`INSERT INTO rooms (code, host_user_id) VALUES ($1, $2)`, code, hostID)
		if err != nil {
			_ = svc.rdc.Del(ctx, ReservationKeyPrefix+code).Err()
			if account.IsUniqueViolation(err) {
				continue // code used by a retired room
			}
			return "", fmt.Errorf("insert room: %w", err)
		}
		zap.L().Info("room.created", zap.String("code", code), zap.Int64("host_user_id", hostID))
		return code, nil
	}
	return "", ErrRoomCodeExhausted
}

func (svc *roomService) JoinRoom(ctx context.Context, username, code string) error {
	guestID, err := svc.users.ResolveUserID(ctx, username)
	if err != nil {
		return err
	}

	var roomID int64
	err = svc.db.QueryRowContext(ctx, `SELECT id FROM rooms WHERE code = $1`, code).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}

	_, err = svc.db.ExecContext(ctx,
		`INSERT INTO room_guests (room_id, guest_user_id) VALUES ($1, $2)`, roomID, guestID)
	return err
}

func (svc *roomService) Expire(ctx context.Context, code string) error {
	if n := svc.relay.MemberCount(code); n > 0 {
		zap.L().Debug("room.expire_deferred", zap.String("code", code), zap.Int("members", n))
		if err := svc.rdc.Set(ctx, ReservationKeyPrefix+code, n, expireRecheck).Err(); err != nil {
			zap.L().Error("room.expire_rearm", zap.String("code", code), zap.Error(err))
			return fmt.Errorf("re-arm reservation: %w", err)
		}
		return nil
	}
	res, err := svc.db.ExecContext(ctx,
		`UPDATE rooms SET status = 'finished' WHERE code = $1 AND status = 'waiting'`, code)
	if err != nil {
		zap.L().Error("room.expire", zap.String("code", code), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		zap.L().Info("room.expired", zap.String("code", code))
	}
	return nil
}

func (svc *roomService) SyncStatus(ctx context.Context, counts map[string]int) error {
	var started []string
	for code, n := range counts {
		if n >= 2 {
			started = append(started, code)
		}
	}
	if len(started) == 0 {
		return nil
	}
	slices.Sort(started)

	tx, err := svc.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `UPDATE rooms SET status = 'in_progress' WHERE code = $1 AND status = 'waiting'`
	for _, code := range started {
		if _, err := tx.ExecContext(ctx, q, code); err != nil {
			zap.L().Error("roomsync.update", zap.String("code", code), zap.Error(err))
			return err
		}
	}
	return tx.Commit()
}

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(b)
}
