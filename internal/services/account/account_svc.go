package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserDTO struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
}

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type IAccountService interface {
	Signup(ctx context.Context, username, password string) (*UserDTO, error)
	Login(ctx context.Context, username, password string) (*UserDTO, error)
	ResolveUserID(ctx context.Context, username string) (int64, error)
}

type accountService struct {
	db         *sql.DB
	bcryptCost int
}

var _ = (*accountService)(nil)

func NewAccountService(db *sql.DB, bcryptCost int) IAccountService {
	return &accountService{db: db, bcryptCost: bcryptCost}
}

func (svc *accountService) Signup(ctx context.Context, username, password string) (*UserDTO, error) {
	hash, err := HashPassword(password, svc.bcryptCost)
	if err != nil {
		return nil, err
	}

	dto := &UserDTO{Username: username}
	err = svc.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		username, hash,
	).Scan(&dto.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	zap.L().Info("account.signup", zap.String("username", username), zap.Int64("user_id", dto.ID))
	return dto, nil
}

func (svc *accountService) Login(ctx context.Context, username, password string) (*UserDTO, error) {
	dto := &UserDTO{Username: username}
	var hash string
	err := svc.db.QueryRowContext(ctx,
		`SELECT id, password FROM users WHERE username = $1`, username,
	).Scan(&dto.ID, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := ComparePassword(hash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return dto, nil
}

func (svc *accountService) ResolveUserID(ctx context.Context, username string) (int64, error) {
	var id int64
	err := svc.db.QueryRowContext(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return id, nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
