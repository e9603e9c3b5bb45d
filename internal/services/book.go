package services

import (
	"context"
	"errors"
	"math"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/facades"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrBookAlreadyExists   = errors.New("book with this title and author already exists")
	ErrInsufficientContent = errors.New("not enough content to generate a summary")
	ErrGatewayTimeout      = errors.New("text generation service timed out")
)

// BookReader defines book read operations used by services.
type BookReader interface {
	List(ctx context.Context) ([]models.BookDB, error)
	GetByID(ctx context.Context, bookID int64) (*models.BookDB, error)
}

// BookWriter defines book write operations used by services.
type BookWriter interface {
	Save(ctx context.Context, title, author string, genre models.Genre, yearPublished int) (*models.BookDB, error)
	Update(ctx context.Context, bookID int64, title, author string, genre models.Genre, yearPublished int) (*models.BookDB, error)
	Delete(ctx context.Context, bookID int64) (bool, error)
	SetSummary(ctx context.Context, bookID int64, summary string) error
}

// RatingReader computes review aggregates.
type RatingReader interface {
	GetAverageRating(ctx context.Context, bookID int64) (*float64, error)
}

// Summarizer generates book summaries via the external collaborator.
type Summarizer interface {
	Summarize(ctx context.Context, book *models.BookDB, content string) (string, error)
}

// BookService handles the catalog and summary generation.
type BookService struct {
	reader         BookReader
	writer         BookWriter
	ratings        RatingReader
	gateway        Summarizer
	gatewayTimeout time.Duration
	log            *zap.SugaredLogger
}

// NewBookService creates a new BookService. gatewayTimeout bounds a
// single collaborator call.
func NewBookService(
	reader BookReader,
	writer BookWriter,
	ratings RatingReader,
	gateway Summarizer,
	gatewayTimeout time.Duration,
	log *zap.SugaredLogger,
) *BookService {
	return &BookService{
		reader:         reader,
		writer:         writer,
		ratings:        ratings,
		gateway:        gateway,
		gatewayTimeout: gatewayTimeout,
		log:            log,
	}
}

// List returns all books in the catalog.
func (svc *BookService) List(ctx context.Context) ([]models.BookDB, error) {
	return svc.reader.List(ctx)
}

// Get returns a single book.
func (svc *BookService) Get(ctx context.Context, bookID int64) (*models.BookDB, error) {
	book, err := svc.reader.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// Create adds a new book to the catalog.
func (svc *BookService) Create(ctx context.Context, title, author string, genre models.Genre, yearPublished int) (*models.BookDB, error) {
	book, err := svc.writer.Save(ctx, title, author, genre, yearPublished)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, ErrBookAlreadyExists
		}
		svc.log.Errorw("failed to save book", "err", err)
		return nil, err
	}
	return book, nil
}

// Update rewrites an existing book.
func (svc *BookService) Update(ctx context.Context, bookID int64, title, author string, genre models.Genre, yearPublished int) (*models.BookDB, error) {
	book, err := svc.writer.Update(ctx, bookID, title, author, genre, yearPublished)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, ErrBookAlreadyExists
		}
		svc.log.Errorw("failed to update book", "err", err)
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// Delete removes a book and, via the foreign key, its reviews.
func (svc *BookService) Delete(ctx context.Context, bookID int64) error {
	deleted, err := svc.writer.Delete(ctx, bookID)
	if err != nil {
		svc.log.Errorw("failed to delete book", "err", err)
		return err
	}
	if !deleted {
		return ErrBookNotFound
	}
	return nil
}

// GetSummary returns the stored summary and the average rating rounded
// to 2 decimal places. The average is nil when the book has no reviews,
// which callers surface as "NA" rather than zero.
func (svc *BookService) GetSummary(ctx context.Context, bookID int64) (string, *float64, error) {
	book, err := svc.reader.GetByID(ctx, bookID)
	if err != nil {
		return "", nil, err
	}
	if book == nil {
		return "", nil, ErrBookNotFound
	}

	avg, err := svc.ratings.GetAverageRating(ctx, bookID)
	if err != nil {
		svc.log.Errorw("failed to compute average rating", "err", err)
		return "", nil, err
	}
	if avg != nil {
		rounded := math.Round(*avg*100) / 100
		avg = &rounded
	}

	return book.Summary, avg, nil
}

// GenerateSummary asks the collaborator to summarize the given content
// and persists the result. Nothing is persisted when the collaborator
// rejects the content or times out; no transaction is held across the
// collaborator call.
func (svc *BookService) GenerateSummary(ctx context.Context, bookID int64, content string) (string, error) {
	book, err := svc.reader.GetByID(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book == nil {
		return "", ErrBookNotFound
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, svc.gatewayTimeout)
	defer cancel()

	summary, err := svc.gateway.Summarize(gatewayCtx, book, content)
	if err != nil {
		if errors.Is(err, facades.ErrContentTooShort) {
			return "", ErrInsufficientContent
		}
		if isGatewayTimeout(err) {
			svc.log.Errorw("summary generation timed out", "book_id", bookID)
			return "", ErrGatewayTimeout
		}
		svc.log.Errorw("summary generation failed", "book_id", bookID, "err", err)
		return "", err
	}

	if err := svc.writer.SetSummary(ctx, bookID, summary); err != nil {
		svc.log.Errorw("failed to persist summary", "book_id", bookID, "err", err)
		return "", err
	}

	return summary, nil
}

// isGatewayTimeout reports whether an error from the collaborator is a
// deadline rather than a hard failure.
func isGatewayTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
