package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HamimSaadAlRaji/task-scheduler/logging"
	"github.com/HamimSaadAlRaji/task-scheduler/utils"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// AuthenticatedUser is the identity decoded from a valid session token.
// It lives in the request context for the lifetime of a single request.
type AuthenticatedUser struct {
	ID       primitive.ObjectID
	Email    string
	Username string
}

// UserFromContext returns the identity attached by JWTAuthMiddleware.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(userContextKey).(AuthenticatedUser)
	return user, ok
}

// extractToken picks the session token off the request. The accessToken
// cookie wins over the Authorization header when both are present.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message": "Unauthorized"}`))
}

// JWTAuthMiddleware authenticates every request before resource handlers run.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractToken(r)
		if tokenStr == "" {
			logging.Logger.Warnf("Event ID: AUTH_MISSING_TOKEN, Description: No session token on request to %s %s", r.Method, r.URL.Path)
			unauthorized(w)
			return
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_INVALID_TOKEN, Description: Invalid token on request to %s %s: %v", r.Method, r.URL.Path, err)
			unauthorized(w)
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			logging.Logger.Warnf("Event ID: AUTH_BAD_SUBJECT, Description: Token carries malformed user id on request to %s %s", r.Method, r.URL.Path)
			unauthorized(w)
			return
		}

		user := AuthenticatedUser{
			ID:       userID,
			Email:    claims.Email,
			Username: claims.Username,
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
