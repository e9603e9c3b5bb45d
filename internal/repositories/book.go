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

// BookReadRepository handles book read operations.
type BookReadRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewBookReadRepository(db *sqlx.DB, log *zap.SugaredLogger) *BookReadRepository {
	return &BookReadRepository{db: db, log: log}
}

// List returns all books ordered by id.
func (r *BookReadRepository) List(ctx context.Context) ([]models.BookDB, error) {
	const query = `
		SELECT book_id, title, author, genre, year_published, summary, created_at, updated_at
		FROM books
		ORDER BY book_id
	`

	var books []models.BookDB
	err := r.db.SelectContext(ctx, &books, query)

	r.log.Debugw("book query",
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(books),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetByID returns the book with the given id, or nil when missing.
func (r *BookReadRepository) GetByID(ctx context.Context, bookID int64) (*models.BookDB, error) {
	const query = `
		SELECT book_id, title, author, genre, year_published, summary, created_at, updated_at
		FROM books
		WHERE book_id = $1
	`

	var book models.BookDB
	err := r.db.GetContext(ctx, &book, query, bookID)

	r.log.Debugw("book query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{bookID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// BookWriteRepository handles book write operations.
type BookWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	log      *zap.SugaredLogger
}

func NewBookWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, log *zap.SugaredLogger) *BookWriteRepository {
	return &BookWriteRepository{db: db, txGetter: txGetter, log: log}
}

func (r *BookWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new book. Returns ErrAlreadyExists when the
// (title, author) unique constraint rejects the insert.
func (r *BookWriteRepository) Save(
	ctx context.Context,
	title, author string,
	genre models.Genre,
	yearPublished int,
) (*models.BookDB, error) {
	const query = `
		INSERT INTO books (title, author, genre, year_published, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '', NOW(), NOW())
		RETURNING book_id, title, author, genre, year_published, summary, created_at, updated_at
	`

	var book models.BookDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &book, query, title, author, genre, yearPublished)

	r.log.Debugw("book insert",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{title, author, genre, yearPublished},
		"error", err,
	)

	if isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// Update rewrites the mutable fields of an existing book.
// Returns nil when no book with the given id exists.
func (r *BookWriteRepository) Update(
	ctx context.Context,
	bookID int64,
	title, author string,
	genre models.Genre,
	yearPublished int,
) (*models.BookDB, error) {
	const query = `
		UPDATE books
		SET title = $2, author = $3, genre = $4, year_published = $5, updated_at = NOW()
		WHERE book_id = $1
		RETURNING book_id, title, author, genre, year_published, summary, created_at, updated_at
	`

	var book models.BookDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &book, query, bookID, title, author, genre, yearPublished)

	r.log.Debugw("book update",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{bookID, title, author, genre, yearPublished},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// Delete removes a book. Returns false when no book was deleted.
func (r *BookWriteRepository) Delete(ctx context.Context, bookID int64) (bool, error) {
	const query = `DELETE FROM books WHERE book_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, bookID)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	r.log.Debugw("book delete",
		"query", query,
		"args", []any{bookID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// SetSummary stores a generated summary for a book.
func (r *BookWriteRepository) SetSummary(ctx context.Context, bookID int64, summary string) error {
	const query = `
		UPDATE books
		SET summary = $2, updated_at = NOW()
		WHERE book_id = $1
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, bookID, summary)

	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	r.log.Debugw("book summary update",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{bookID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
