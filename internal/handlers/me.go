package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/middlewares"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

// NewMeHandler godoc
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} models.UserResponse
// @Failure      401 {object} models.ErrorResponse
// @Security     BearerAuth
// @Router       /me [get]
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, models.NewUserResponse(user))
	}
}
