package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
)

func newReviewService(t *testing.T) (*services.ReviewService, *services.MockBookReader, *services.MockReviewReader, *services.MockReviewWriter, *services.MockKafkaWriter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	books := services.NewMockBookReader(ctrl)
	reader := services.NewMockReviewReader(ctrl)
	writer := services.NewMockReviewWriter(ctrl)
	kafkaWriter := services.NewMockKafkaWriter(ctrl)

	svc := services.NewReviewService(books, reader, writer, kafkaWriter, zap.NewNop().Sugar())
	return svc, books, reader, writer, kafkaWriter
}

func TestReviewService_Submit_RatingBoundaries(t *testing.T) {
	book := &models.BookDB{BookID: 1}

	tests := []struct {
		name    string
		rating  float64
		wantErr error
	}{
		{name: "lower bound accepted", rating: 1},
		{name: "upper bound accepted", rating: 5},
		{name: "zero rejected", rating: 0, wantErr: services.ErrInvalidRating},
		{name: "six rejected", rating: 6, wantErr: services.ErrInvalidRating},
		{name: "non-integer rejected", rating: 3.5, wantErr: services.ErrInvalidRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, books, reader, writer, kafkaWriter := newReviewService(t)

			books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)

			if tt.wantErr == nil {
				reader.EXPECT().GetByBookAndUser(gomock.Any(), int64(1), int64(2)).Return(nil, nil)
				writer.EXPECT().
					Save(gomock.Any(), int64(1), int64(2), int(tt.rating), "nice").
					Return(&models.ReviewDB{ReviewID: 10, BookID: 1, UserID: 2, Rating: int(tt.rating)}, nil)
				kafkaWriter.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			}

			review, err := svc.Submit(context.Background(), 1, 2, tt.rating, "nice")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int(tt.rating), review.Rating)
			}
		})
	}
}

func TestReviewService_Submit_BookNotFound(t *testing.T) {
	svc, books, _, _, _ := newReviewService(t)

	books.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)

	review, err := svc.Submit(context.Background(), 404, 2, 4, "")
	assert.ErrorIs(t, err, services.ErrBookNotFound)
	assert.Nil(t, review)
}

func TestReviewService_Submit_Duplicate(t *testing.T) {
	book := &models.BookDB{BookID: 1}

	t.Run("fast path", func(t *testing.T) {
		svc, books, reader, _, _ := newReviewService(t)

		books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		reader.EXPECT().
			GetByBookAndUser(gomock.Any(), int64(1), int64(2)).
			Return(&models.ReviewDB{ReviewID: 5, BookID: 1, UserID: 2}, nil)

		review, err := svc.Submit(context.Background(), 1, 2, 4, "")
		assert.ErrorIs(t, err, services.ErrReviewAlreadyExists)
		assert.Nil(t, review)
	})

	t.Run("constraint backstop under race", func(t *testing.T) {
		// The existence check passed, but a concurrent submission
		// inserted first; the unique constraint rejects this one.
		svc, books, reader, writer, _ := newReviewService(t)

		books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		reader.EXPECT().GetByBookAndUser(gomock.Any(), int64(1), int64(2)).Return(nil, nil)
		writer.EXPECT().
			Save(gomock.Any(), int64(1), int64(2), 4, "").
			Return(nil, repositories.ErrAlreadyExists)

		review, err := svc.Submit(context.Background(), 1, 2, 4, "")
		assert.ErrorIs(t, err, services.ErrReviewAlreadyExists)
		assert.Nil(t, review)
	})
}

func TestReviewService_Submit_KafkaFailureDoesNotFailSubmission(t *testing.T) {
	svc, books, reader, writer, kafkaWriter := newReviewService(t)
	book := &models.BookDB{BookID: 1}

	books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
	reader.EXPECT().GetByBookAndUser(gomock.Any(), int64(1), int64(2)).Return(nil, nil)
	writer.EXPECT().
		Save(gomock.Any(), int64(1), int64(2), 4, "good").
		Return(&models.ReviewDB{ReviewID: 10, BookID: 1, UserID: 2, Rating: 4}, nil)
	kafkaWriter.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	review, err := svc.Submit(context.Background(), 1, 2, 4, "good")
	assert.NoError(t, err)
	assert.NotNil(t, review)
}

func TestReviewService_Submit_NilKafkaWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	books := services.NewMockBookReader(ctrl)
	reader := services.NewMockReviewReader(ctrl)
	writer := services.NewMockReviewWriter(ctrl)

	svc := services.NewReviewService(books, reader, writer, nil, zap.NewNop().Sugar())

	books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.BookDB{BookID: 1}, nil)
	reader.EXPECT().GetByBookAndUser(gomock.Any(), int64(1), int64(2)).Return(nil, nil)
	writer.EXPECT().
		Save(gomock.Any(), int64(1), int64(2), 3, "").
		Return(&models.ReviewDB{ReviewID: 10, BookID: 1, UserID: 2, Rating: 3}, nil)

	review, err := svc.Submit(context.Background(), 1, 2, 3, "")
	assert.NoError(t, err)
	assert.NotNil(t, review)
}

func TestReviewService_ListByBook(t *testing.T) {
	svc, books, reader, _, _ := newReviewService(t)
	ctx := context.Background()

	books.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)
	reviews, err := svc.ListByBook(ctx, 404)
	assert.ErrorIs(t, err, services.ErrBookNotFound)
	assert.Nil(t, reviews)

	want := []models.ReviewDB{{ReviewID: 1, BookID: 1, UserID: 2, Rating: 5}}
	books.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.BookDB{BookID: 1}, nil)
	reader.EXPECT().ListByBookID(gomock.Any(), int64(1)).Return(want, nil)

	reviews, err = svc.ListByBook(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, want, reviews)
}
