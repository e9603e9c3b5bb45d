package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/facades"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/repositories"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
)

func newBookService(t *testing.T) (*services.BookService, *services.MockBookReader, *services.MockBookWriter, *services.MockRatingReader, *services.MockSummarizer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reader := services.NewMockBookReader(ctrl)
	writer := services.NewMockBookWriter(ctrl)
	ratings := services.NewMockRatingReader(ctrl)
	gateway := services.NewMockSummarizer(ctrl)

	svc := services.NewBookService(reader, writer, ratings, gateway, time.Second, zap.NewNop().Sugar())
	return svc, reader, writer, ratings, gateway
}

func TestBookService_Get(t *testing.T) {
	svc, reader, _, _, _ := newBookService(t)
	ctx := context.Background()

	book := &models.BookDB{BookID: 1, Title: "The Silk Roads"}
	reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)

	got, err := svc.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, book, got)

	reader.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, nil)

	got, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, services.ErrBookNotFound)
	assert.Nil(t, got)
}

func TestBookService_Create_DuplicateTitleAuthor(t *testing.T) {
	svc, _, writer, _, _ := newBookService(t)

	writer.EXPECT().
		Save(gomock.Any(), "Dune", "Frank Herbert", models.GenreSciFi, 1965).
		Return(nil, repositories.ErrAlreadyExists)

	book, err := svc.Create(context.Background(), "Dune", "Frank Herbert", models.GenreSciFi, 1965)
	assert.ErrorIs(t, err, services.ErrBookAlreadyExists)
	assert.Nil(t, book)
}

func TestBookService_Update_NotFound(t *testing.T) {
	svc, _, writer, _, _ := newBookService(t)

	writer.EXPECT().
		Update(gomock.Any(), int64(42), "Dune", "Frank Herbert", models.GenreSciFi, 1965).
		Return(nil, nil)

	book, err := svc.Update(context.Background(), 42, "Dune", "Frank Herbert", models.GenreSciFi, 1965)
	assert.ErrorIs(t, err, services.ErrBookNotFound)
	assert.Nil(t, book)
}

func TestBookService_Delete(t *testing.T) {
	svc, _, writer, _, _ := newBookService(t)
	ctx := context.Background()

	writer.EXPECT().Delete(gomock.Any(), int64(1)).Return(true, nil)
	assert.NoError(t, svc.Delete(ctx, 1))

	writer.EXPECT().Delete(gomock.Any(), int64(2)).Return(false, nil)
	assert.ErrorIs(t, svc.Delete(ctx, 2), services.ErrBookNotFound)
}

func TestBookService_GetSummary(t *testing.T) {
	svc, reader, _, ratings, _ := newBookService(t)
	ctx := context.Background()
	book := &models.BookDB{BookID: 1, Summary: "stored summary"}

	t.Run("average rounded to 2 decimals", func(t *testing.T) {
		// Reviews [3,4,5] average exactly 4.00.
		avg := 4.0
		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		ratings.EXPECT().GetAverageRating(gomock.Any(), int64(1)).Return(&avg, nil)

		summary, got, err := svc.GetSummary(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "stored summary", summary)
		assert.Equal(t, 4.00, *got)
	})

	t.Run("repeating decimal rounded", func(t *testing.T) {
		avg := 11.0 / 3.0 // 3.666...
		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		ratings.EXPECT().GetAverageRating(gomock.Any(), int64(1)).Return(&avg, nil)

		_, got, err := svc.GetSummary(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, 3.67, *got)
	})

	t.Run("no reviews yields nil, never zero", func(t *testing.T) {
		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		ratings.EXPECT().GetAverageRating(gomock.Any(), int64(1)).Return(nil, nil)

		_, got, err := svc.GetSummary(ctx, 1)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("missing book", func(t *testing.T) {
		reader.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)

		_, _, err := svc.GetSummary(ctx, 404)
		assert.ErrorIs(t, err, services.ErrBookNotFound)
	})
}

func TestBookService_GenerateSummary(t *testing.T) {
	ctx := context.Background()
	book := &models.BookDB{BookID: 1, Title: "Dune"}

	t.Run("success persists summary", func(t *testing.T) {
		svc, reader, writer, _, gateway := newBookService(t)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		gateway.EXPECT().Summarize(gomock.Any(), book, "content").Return("a summary", nil)
		writer.EXPECT().SetSummary(gomock.Any(), int64(1), "a summary").Return(nil)

		summary, err := svc.GenerateSummary(ctx, 1, "content")
		assert.NoError(t, err)
		assert.Equal(t, "a summary", summary)
	})

	t.Run("too-short sentinel persists nothing", func(t *testing.T) {
		svc, reader, writer, _, gateway := newBookService(t)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		gateway.EXPECT().Summarize(gomock.Any(), book, "x").Return("", facades.ErrContentTooShort)
		writer.EXPECT().SetSummary(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		summary, err := svc.GenerateSummary(ctx, 1, "x")
		assert.ErrorIs(t, err, services.ErrInsufficientContent)
		assert.Empty(t, summary)
	})

	t.Run("gateway deadline persists nothing", func(t *testing.T) {
		svc, reader, writer, _, gateway := newBookService(t)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		gateway.EXPECT().Summarize(gomock.Any(), book, "content").Return("", context.DeadlineExceeded)
		writer.EXPECT().SetSummary(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		summary, err := svc.GenerateSummary(ctx, 1, "content")
		assert.ErrorIs(t, err, services.ErrGatewayTimeout)
		assert.Empty(t, summary)
	})

	t.Run("missing book skips gateway", func(t *testing.T) {
		svc, reader, _, _, gateway := newBookService(t)

		reader.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, nil)
		gateway.EXPECT().Summarize(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.GenerateSummary(ctx, 404, "content")
		assert.ErrorIs(t, err, services.ErrBookNotFound)
	})

	t.Run("gateway failure propagates", func(t *testing.T) {
		svc, reader, writer, _, gateway := newBookService(t)

		reader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(book, nil)
		gateway.EXPECT().Summarize(gomock.Any(), book, "content").Return("", errors.New("api error"))
		writer.EXPECT().SetSummary(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.GenerateSummary(ctx, 1, "content")
		assert.EqualError(t, err, "api error")
	})
}
