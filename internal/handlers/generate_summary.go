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

// SummaryGenerator produces and stores an AI summary of a book.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, bookID int64, content string) (string, error)
}

// NewGenerateSummaryHandler godoc
// @Summary      Generate a book summary
// @Description  Sends the supplied content to the AI gateway and stores the generated summary on the book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        bookID path int true "Book ID"
// @Param        request body models.GenerateSummaryRequest true "Book content"
// @Success      200 {object} models.GenerateSummaryResponse
// @Failure      400 {object} models.ErrorResponse "Invalid payload or content too short to summarize"
// @Failure      401 {object} models.ErrorResponse
// @Failure      403 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Failure      504 {object} models.ErrorResponse "AI gateway timed out"
// @Security     BearerAuth
// @Router       /books/{bookID}/generate-summary [post]
func NewGenerateSummaryHandler(svc SummaryGenerator, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		var req models.GenerateSummaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		summary, err := svc.GenerateSummary(r.Context(), bookID, req.Content)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case errors.Is(err, services.ErrInsufficientContent):
			writeError(w, http.StatusBadRequest, services.ErrInsufficientContent.Error())
			return
		case errors.Is(err, services.ErrGatewayTimeout):
			writeError(w, http.StatusGatewayTimeout, services.ErrGatewayTimeout.Error())
			return
		case err != nil:
			log.Errorw("generate summary failed", "book_id", bookID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.GenerateSummaryResponse{Summary: summary})
	}
}
