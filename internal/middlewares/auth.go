package middlewares

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
	"github.com/sbilibin2017/gw-book-catalog/internal/services"
)

// Tokener extracts the bearer token from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// UserResolver resolves a token into a live user record.
type UserResolver interface {
	ResolveUser(ctx context.Context, tokenString string) (*models.UserDB, error)
}

// AuthMiddleware validates the bearer token and stores the resolved
// user in the request context. Identity resolution always runs before
// any role check, so an invalid token yields 401 even on admin routes.
func AuthMiddleware(tokener Tokener, resolver UserResolver, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				log.Infow("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := resolver.ResolveUser(ctx, tokenString)
			if err != nil {
				if errors.Is(err, services.ErrUnauthorized) {
					log.Infow("authorization failed", "err", err)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				log.Errorw("identity resolution failed", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the resolved user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the resolved user. Returns nil outside
// the auth middleware.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
