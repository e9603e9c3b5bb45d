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

// Registerer creates a new user account.
type Registerer interface {
	Register(ctx context.Context, username, password, email string, genre models.Genre) (*models.UserDB, error)
}

// NewRegisterHandler godoc
// @Summary      Register a new user
// @Description  Creates a user account with a preferred genre and returns the created profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.RegisterRequest true "Registration payload"
// @Success      201 {object} models.UserResponse
// @Failure      400 {object} models.ErrorResponse "Invalid payload, unknown genre or username/email already taken"
// @Failure      500 {object} models.ErrorResponse
// @Router       /register [post]
func NewRegisterHandler(svc Registerer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username, email and password are required")
			return
		}

		genre, err := models.ParseGenre(req.Genre)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := svc.Register(r.Context(), req.Username, req.Password, req.Email, genre)
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			writeError(w, http.StatusBadRequest, services.ErrUserAlreadyExists.Error())
			return
		case err != nil:
			log.Errorw("register failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, models.NewUserResponse(user))
	}
}
