package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// SummaryReader returns the stored summary and average rating of a book.
type SummaryReader interface {
	GetSummary(ctx context.Context, bookID int64) (string, *float64, error)
}

// NewBookSummaryHandler godoc
// @Summary      Book summary and average rating
// @Description  Returns the stored summary and the average review rating; the rating is "NA" when the book has no reviews
// @Tags         books
// @Produce      json
// @Param        bookID path int true "Book ID"
// @Success      200 {object} models.BookSummaryResponse
// @Failure      400 {object} models.ErrorResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books/{bookID}/summary [get]
func NewBookSummaryHandler(svc SummaryReader, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		summary, avg, err := svc.GetSummary(r.Context(), bookID)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case err != nil:
			log.Errorw("get summary failed", "book_id", bookID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.NewBookSummaryResponse(summary, avg))
	}
}
