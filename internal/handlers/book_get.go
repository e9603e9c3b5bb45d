package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// BookGetter fetches a single book by id.
type BookGetter interface {
	Get(ctx context.Context, bookID int64) (*models.BookDB, error)
}

// NewBookGetHandler godoc
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        bookID path int true "Book ID"
// @Success      200 {object} models.BookResponse
// @Failure      400 {object} models.ErrorResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books/{bookID} [get]
func NewBookGetHandler(svc BookGetter, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		book, err := svc.Get(r.Context(), bookID)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case err != nil:
			log.Errorw("get book failed", "book_id", bookID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.NewBookResponse(book))
	}
}
