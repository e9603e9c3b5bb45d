package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/middlewares"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"go.uber.org/zap"
)

// Recommender suggests book titles for a genre.
type Recommender interface {
	Recommend(ctx context.Context, genre models.Genre) ([]string, error)
}

// NewRecommendationsHandler godoc
// @Summary      Personalized recommendations
// @Description  Returns up to ten recommended titles for the caller's preferred genre
// @Tags         recommendations
// @Produce      json
// @Success      200 {object} models.RecommendationsResponse
// @Failure      401 {object} models.ErrorResponse
// @Failure      500 {object} models.ErrorResponse
// @Failure      504 {object} models.ErrorResponse "AI gateway timed out"
// @Security     BearerAuth
// @Router       /recommendations [get]
func NewRecommendationsHandler(svc Recommender, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		titles, err := svc.Recommend(r.Context(), user.Genre)
		switch {
		case errors.Is(err, services.ErrGatewayTimeout):
			writeError(w, http.StatusGatewayTimeout, services.ErrGatewayTimeout.Error())
			return
		case err != nil:
			log.Errorw("recommendations failed", "user_id", user.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.RecommendationsResponse{Recommendations: titles})
	}
}
