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

// BookCreator adds a new book to the catalog.
type BookCreator interface {
	Create(ctx context.Context, title, author string, genre models.Genre, yearPublished int) (*models.BookDB, error)
}

// NewBookCreateHandler godoc
// @Summary      Add a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body models.BookRequest true "Book payload"
// @Success      201 {object} models.BookResponse
// @Failure      400 {object} models.ErrorResponse "Invalid payload, unknown genre or duplicate title/author"
// @Failure      401 {object} models.ErrorResponse
// @Failure      403 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books [post]
func NewBookCreateHandler(svc BookCreator, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		book, err := svc.Create(r.Context(), req.Title, req.Author, genre, req.YearPublished)
		switch {
		case errors.Is(err, services.ErrBookAlreadyExists):
			writeError(w, http.StatusBadRequest, services.ErrBookAlreadyExists.Error())
			return
		case err != nil:
			log.Errorw("create book failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, models.NewBookResponse(book))
	}
}
