package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/middlewares"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// ReviewSubmitter records a user's review of a book.
type ReviewSubmitter interface {
	Submit(ctx context.Context, bookID, userID int64, rating float64, reviewText string) (*models.ReviewDB, error)
}

// NewReviewCreateHandler godoc
// @Summary      Submit a review
// @Description  Records the caller's review of a book; each user may review a book once
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        bookID path int true "Book ID"
// @Param        request body models.ReviewRequest true "Review payload"
// @Success      201 {object} models.ReviewResponse
// @Failure      400 {object} models.ErrorResponse "Invalid rating or book already reviewed by this user"
// @Failure      401 {object} models.ErrorResponse
// @Failure      404 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /books/{bookID}/reviews [post]
func NewReviewCreateHandler(svc ReviewSubmitter, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		bookID, err := bookIDFromRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid book id")
			return
		}

		var req models.ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		review, err := svc.Submit(r.Context(), bookID, user.UserID, req.Rating, req.ReviewText)
		switch {
		case errors.Is(err, services.ErrBookNotFound):
			writeError(w, http.StatusNotFound, services.ErrBookNotFound.Error())
			return
		case errors.Is(err, services.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, services.ErrInvalidRating.Error())
			return
		case errors.Is(err, services.ErrReviewAlreadyExists):
			writeError(w, http.StatusBadRequest, services.ErrReviewAlreadyExists.Error())
			return
		case err != nil:
			log.Errorw("submit review failed", "book_id", bookID, "user_id", user.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, models.NewReviewResponse(review))
	}
}
