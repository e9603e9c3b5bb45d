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

// ReviewReadRepository handles review read operations.
type ReviewReadRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewReviewReadRepository(db *sqlx.DB, log *zap.SugaredLogger) *ReviewReadRepository {
	return &ReviewReadRepository{db: db, log: log}
}

// ListByBookID returns all reviews for a book ordered by creation time.
func (r *ReviewReadRepository) ListByBookID(ctx context.Context, bookID int64) ([]models.ReviewDB, error) {
	const query = `
		SELECT review_id, book_id, user_id, review_text, rating, created_at
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at
	`

	var reviews []models.ReviewDB
	err := r.db.SelectContext(ctx, &reviews, query, bookID)

	r.log.Debugw("review query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{bookID},
		"count", len(reviews),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetByBookAndUser returns the review a user left on a book, or nil.
func (r *ReviewReadRepository) GetByBookAndUser(ctx context.Context, bookID, userID int64) (*models.ReviewDB, error) {
	const query = `
		SELECT review_id, book_id, user_id, review_text, rating, created_at
		FROM reviews
		WHERE book_id = $1 AND user_id = $2
	`

	var review models.ReviewDB
	err := r.db.GetContext(ctx, &review, query, bookID, userID)

	r.log.Debugw("review query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{bookID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// GetAverageRating computes the arithmetic mean of all ratings for a
// book. Returns nil when the book has no reviews.
func (r *ReviewReadRepository) GetAverageRating(ctx context.Context, bookID int64) (*float64, error) {
	const query = `SELECT AVG(rating) FROM reviews WHERE book_id = $1`

	var avg sql.NullFloat64
	err := r.db.GetContext(ctx, &avg, query, bookID)

	r.log.Debugw("review aggregate",
		"query", query,
		"args", []any{bookID},
		"result", avg,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}

	return &avg.Float64, nil
}

// ReviewWriteRepository handles review write operations.
type ReviewWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	log      *zap.SugaredLogger
}

func NewReviewWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, log *zap.SugaredLogger) *ReviewWriteRepository {
	return &ReviewWriteRepository{db: db, txGetter: txGetter, log: log}
}

// Save inserts a review. The UNIQUE (book_id, user_id) constraint turns
// a duplicate-submission race into ErrAlreadyExists instead of a second
// row.
func (r *ReviewWriteRepository) Save(
	ctx context.Context,
	bookID, userID int64,
	rating int,
	reviewText string,
) (*models.ReviewDB, error) {
	const query = `
		INSERT INTO reviews (book_id, user_id, review_text, rating, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING review_id, book_id, user_id, review_text, rating, created_at
	`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	var review models.ReviewDB
	err := sqlx.GetContext(ctx, executor, &review, query, bookID, userID, reviewText, rating)

	r.log.Debugw("review insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{bookID, userID, rating},
		"error", err,
	)

	if isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}
