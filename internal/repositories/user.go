package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

// UserReadRepository handles user read operations.
type UserReadRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewUserReadRepository(db *sqlx.DB, log *zap.SugaredLogger) *UserReadRepository {
	return &UserReadRepository{db: db, log: log}
}

// GetByUsernameOrEmail returns the user matching either the username or
// the email. Returns nil when no such user exists.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, genre, role, created_at, updated_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)

	r.log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given id, or nil when missing.
func (r *UserReadRepository) GetByID(ctx context.Context, userID int64) (*models.UserDB, error) {
	const query = `
		SELECT user_id, username, email, password_hash, genre, role, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	r.log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	log      *zap.SugaredLogger
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, log *zap.SugaredLogger) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter, log: log}
}

// Save inserts a new user. Returns ErrAlreadyExists when the username or
// email unique constraint rejects the insert.
func (r *UserWriteRepository) Save(
	ctx context.Context,
	username, email, passwordHash string,
	genre models.Genre,
	role models.Role,
) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, genre, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING user_id, username, email, password_hash, genre, role, created_at, updated_at
	`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor, &user, query, username, email, passwordHash, genre, role)

	r.log.Debugw("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email, genre, role},
		"error", err,
	)

	if isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
