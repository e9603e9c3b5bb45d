package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
)

var (
	ErrReviewAlreadyExists = errors.New("user already reviewed this book")
	ErrInvalidRating       = errors.New("rating must be an integer between 1 and 5")
)

// ReviewReader defines review read operations used by services.
type ReviewReader interface {
	ListByBookID(ctx context.Context, bookID int64) ([]models.ReviewDB, error)
	GetByBookAndUser(ctx context.Context, bookID, userID int64) (*models.ReviewDB, error)
}

// ReviewWriter defines review write operations used by services.
type ReviewWriter interface {
	Save(ctx context.Context, bookID, userID int64, rating int, reviewText string) (*models.ReviewDB, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReviewService handles review submission and the one-review-per-user
// invariant.
type ReviewService struct {
	books       BookReader
	reader      ReviewReader
	writer      ReviewWriter
	kafkaWriter KafkaWriter
	log         *zap.SugaredLogger
}

// NewReviewService creates a new ReviewService. kafkaWriter may be nil
// when no broker is configured.
func NewReviewService(
	books BookReader,
	reader ReviewReader,
	writer ReviewWriter,
	kafkaWriter KafkaWriter,
	log *zap.SugaredLogger,
) *ReviewService {
	return &ReviewService{
		books:       books,
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
		log:         log,
	}
}

// Submit persists a review for a (book, user) pair. The duplicate check
// here is a fast path; the storage-level unique constraint is the
// authoritative guard, so two concurrent submissions cannot both land.
func (svc *ReviewService) Submit(ctx context.Context, bookID, userID int64, rating float64, reviewText string) (*models.ReviewDB, error) {
	book, err := svc.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	if rating != math.Trunc(rating) {
		return nil, ErrInvalidRating
	}
	r := int(rating)
	if r < 1 || r > 5 {
		return nil, ErrInvalidRating
	}

	existing, err := svc.reader.GetByBookAndUser(ctx, bookID, userID)
	if err != nil {
		svc.log.Errorw("failed to check existing review", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	review, err := svc.writer.Save(ctx, bookID, userID, r, reviewText)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, ErrReviewAlreadyExists
		}
		svc.log.Errorw("failed to save review", "err", err)
		return nil, err
	}

	svc.publishReviewCreated(ctx, review)

	return review, nil
}

// ListByBook returns all reviews for an existing book.
func (svc *ReviewService) ListByBook(ctx context.Context, bookID int64) ([]models.ReviewDB, error) {
	book, err := svc.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	return svc.reader.ListByBookID(ctx, bookID)
}

// publishReviewCreated publishes a review event to Kafka. Publishing is
// best-effort and never fails the submission.
func (svc *ReviewService) publishReviewCreated(ctx context.Context, review *models.ReviewDB) {
	if svc.kafkaWriter == nil {
		svc.log.Debugw("Kafka writer not configured, skipping publishing", "review_id", review.ReviewID)
		return
	}

	event := models.ReviewCreatedEvent{
		ReviewID:  review.ReviewID,
		BookID:    review.BookID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		CreatedAt: review.CreatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		svc.log.Errorw("failed to marshal review event", "review_id", review.ReviewID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(review.BookID, 10)),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		svc.log.Errorw("failed to publish review event", "review_id", review.ReviewID, "error", err)
	}
}
