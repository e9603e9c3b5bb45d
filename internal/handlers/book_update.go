package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// BookUpdater replaces the catalog data of an existing book.
type BookUpdater interface {
	Update(ctx context.Context, bookID int64, title, author string, genre models.Genre, yearPublished int) (*models.BookDB, error)
}

// NewBookUpdateHandler godoc
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        bookID path int true "Book ID"
// @Param        request body models.BookRequest true "Book payload"
// @Success      200 {object} models.BookResponse
// @Failure      400 {object} models.ErrorResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      403 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books/{bookID} [put]
func NewBookUpdateHandler(svc BookUpdater, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		var req models.BookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Title == "" || req.Author == "" {
			writeError(w, http.StatusBadRequest, "title and author are required")
			return
		}

		genre, err := models.ParseGenre(req.Genre)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		book, err := svc.Update(r.Context(), bookID, req.Title, req.Author, genre, req.YearPublished)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case errors.Is(err, services.ErrBookAlreadyExists):
			writeError(w, http.StatusBadRequest, services.ErrBookAlreadyExists.Error())
			return
		case err != nil:
			log.Errorw("update book failed", "book_id", bookID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.NewBookResponse(book))
	}
}
