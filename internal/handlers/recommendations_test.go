package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-book-catalog/internal/middlewares"
	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRecommendationsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRecommender(ctrl)
	handler := NewRecommendationsHandler(mockSvc, zap.NewNop().Sugar())

	caller := &models.UserDB{UserID: 7, Username: "john", Genre: models.GenreSciFi, Role: models.RoleUser}

	t.Run("uses caller genre", func(t *testing.T) {
		mockSvc.EXPECT().
			Recommend(gomock.Any(), models.GenreSciFi).
			Return([]string{"Dune", "Hyperion"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
		req = req.WithContext(middlewares.SetUserToContext(req.Context(), caller))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.RecommendationsResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"Dune", "Hyperion"}, resp.Recommendations)
	})

	t.Run("no identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("gateway timeout", func(t *testing.T) {
		mockSvc.EXPECT().
			Recommend(gomock.Any(), models.GenreSciFi).
			Return(nil, services.ErrGatewayTimeout)

		req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
		req = req.WithContext(middlewares.SetUserToContext(req.Context(), caller))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})
}

func TestMeHandler(t *testing.T) {
	handler := NewMeHandler()

	t.Run("success", func(t *testing.T) {
		caller := &models.UserDB{UserID: 7, Username: "john", Email: "john@example.com", Genre: models.GenreHistory, Role: models.RoleUser}

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(middlewares.SetUserToContext(req.Context(), caller))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp models.UserResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		assert.Equal(t, "john", resp.Username)
	})

	t.Run("no identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
