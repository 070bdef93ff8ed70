package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HamimSaadAlRaji/task-scheduler/models"
	"github.com/HamimSaadAlRaji/task-scheduler/utils"
)

func signedToken(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func authProbe(t *testing.T) (http.Handler, *AuthenticatedUser) {
	t.Helper()
	var seen AuthenticatedUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in request context")
		}
		seen = user
		w.WriteHeader(http.StatusOK)
	})
	return JWTAuthMiddleware(next), &seen
}

func TestJWTAuthMiddlewareCookie(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := models.User{ID: primitive.NewObjectID(), Username: "alice", Email: "alice@example.com"}
	handler, seen := authProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signedToken(t, user)})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != user.ID {
		t.Fatalf("unexpected user id in context: %s", seen.ID.Hex())
	}
	if seen.Email != user.Email || seen.Username != user.Username {
		t.Fatalf("unexpected identity in context: %+v", seen)
	}
}

func TestJWTAuthMiddlewareBearerHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := models.User{ID: primitive.NewObjectID(), Username: "bob", Email: "bob@example.com"}
	handler, seen := authProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, user))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != user.ID {
		t.Fatalf("unexpected user id in context: %s", seen.ID.Hex())
	}
}

func TestJWTAuthMiddlewareCookieTakesPrecedence(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cookieUser := models.User{ID: primitive.NewObjectID(), Username: "cookie", Email: "cookie@example.com"}
	headerUser := models.User{ID: primitive.NewObjectID(), Username: "header", Email: "header@example.com"}
	handler, seen := authProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signedToken(t, cookieUser)})
	req.Header.Set("Authorization", "Bearer "+signedToken(t, headerUser))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.ID != cookieUser.ID {
		t.Fatal("expected the cookie identity to win over the bearer header")
	}
}

func TestJWTAuthMiddlewareMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthMiddlewareWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	user := models.User{ID: primitive.NewObjectID(), Username: "eve", Email: "eve@example.com"}
	token := signedToken(t, user)

	t.Setenv("JWT_SECRET", "rotated-secret")
	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a token signed under another secret")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
