package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// ReviewLister returns all reviews of a book.
type ReviewLister interface {
	ListByBook(ctx context.Context, bookID int64) ([]models.ReviewDB, error)
}

// NewReviewListHandler godoc
// @Summary      List reviews of a book
// @Tags         reviews
// @Produce      json
// @Param        bookID path int true "Book ID"
// @Success      200 {array} models.ReviewResponse
// @Failure      400 {object} models.ErrorResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books/{bookID}/reviews [get]
func NewReviewListHandler(svc ReviewLister, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		reviews, err := svc.ListByBook(r.Context(), bookID)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case err != nil:
			log.Errorw("list reviews failed", "book_id", bookID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		resp := make([]models.ReviewResponse, 0, len(reviews))
		for i := range reviews {
			resp = append(resp, models.NewReviewResponse(&reviews[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
