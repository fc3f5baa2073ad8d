package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pesanort/tallergo/internal/models"
	"github.com/pesanort/tallergo/internal/utils"
	"gorm.io/gorm"
)

type contextKey string

const UserContextKey contextKey = "user"

// Auth verifies the JWT and resolves the acting user from the database once
// per request. Handlers downstream read the user from the context instead of
// re-deriving identity themselves.
func Auth(db *gorm.DB, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			id, _ := claims["id"].(string)
			if id == "" {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			var user models.User
			if err := db.Where("id = ? AND is_active = true", id).First(&user).Error; err != nil {
				http.Error(w, "User not found or inactive", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a handler to the given roles
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFrom(r.Context())
			if user == nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if !user.HasRole(roles...) {
				http.Error(w, "Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFrom returns the authenticated user stored in the context, or nil
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
