package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"go.uber.org/zap"
)

// BookLister returns all books in the catalog.
type BookLister interface {
	List(ctx context.Context) ([]models.BookDB, error)
}

// NewBookListHandler godoc
// @Summary      List books
// @Tags         books
// @Produce      json
// @Success      200 {array} models.BookResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books [get]
func NewBookListHandler(svc BookLister, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.List(r.Context())
		if err != nil {
			log.Errorw("list books failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		resp := make([]models.BookResponse, 0, len(books))
		for i := range books {
			resp = append(resp, models.NewBookResponse(&books[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
