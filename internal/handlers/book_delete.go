package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// BookDeleter removes a book and its reviews.
type BookDeleter interface {
	Delete(ctx context.Context, bookID int64) error
}

// NewBookDeleteHandler godoc
// @Summary      Delete a book
// @Tags         books
// @Param        bookID path int true "Book ID"
// @Success      204 "No Content"
// @Failure      400 {object} models.ErrorResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      403 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books/{bookID} [delete]
func NewBookDeleteHandler(svc BookDeleter, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		err = svc.Delete(r.Context(), bookID)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case err != nil:
			log.Errorw("delete book failed", "book_id", bookID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
