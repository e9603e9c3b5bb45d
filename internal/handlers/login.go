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

// Loginer authenticates a user and issues an access token.
type Loginer interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// NewLoginHandler godoc
// @Summary      Log in
// @Description  Verifies credentials and returns a bearer access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.LoginRequest true "Credentials"
// @Success      200 {object} models.LoginResponse
// @Failure      400 {object} models.ErrorResponse "Invalid payload or bad credentials"
// @Failure      500 {object} models.ErrorResponse
// @Router       /login [post]
func NewLoginHandler(svc Loginer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		switch {
		case errors.Is(err, services.ErrUserDoesNotExist), errors.Is(err, services.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "incorrect username or password")
			return
		case err != nil:
			log.Errorw("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: token, TokenType: "bearer"})
	}
}
