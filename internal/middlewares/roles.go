package middlewares

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-book-catalog/internal/models"
)

// RequireRole allows only users with the given role. It must run inside
// the auth middleware: a request that never resolved an identity gets
// 401, a resolved identity with the wrong role gets 403.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if user.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: "Operation requires " + string(role) + " role",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
