package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeUsers struct {
	repository.UserRepository
	user     models.User
	password string
}

func (f *fakeUsers) AuthenticateUser(_ context.Context, email, password string) (models.User, error) {
	if email != f.user.Email || password != f.password {
		return models.User{}, repository.ErrInvalidCredentials
	}
	return f.user, nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (models.User, error) {
	if id != f.user.ID {
		return models.User{}, sql.ErrNoRows
	}
	return f.user, nil
}

func newAuthHandler() *AuthHandler {
	users := &fakeUsers{
		user: models.User{
			ID:       "7d3f1c2e-6f0a-4c61-9a55-1f7a1d2b9e10",
			Name:     "Ops Admin",
			Email:    "admin@gpl.test",
			Role:     models.RoleAdmin,
			IsActive: true,
		},
		password: "correct-horse",
	}
	return NewAuthHandler(users, testSecret, time.Hour, zerolog.Nop())
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func meRouter(h *AuthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/api/auth/me", h.JWTMiddleware(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
	return router
}

func TestLogin(t *testing.T) {
	h := newAuthHandler()

	t.Run("valid credentials", func(t *testing.T) {
		rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login", h.Login, map[string]string{
			"email": " admin@gpl.test ", "password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		token, _ := body["token"].(string)
		require.NotEmpty(t, token)
		assert.NotContains(t, rec.Body.String(), "passwordHash")

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		me := httptest.NewRecorder()
		meRouter(h).ServeHTTP(me, req)
		assert.Equal(t, http.StatusOK, me.Code)
		assert.Equal(t, "admin@gpl.test", decodeBody(t, me)["email"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login", h.Login, map[string]string{
			"email": "admin@gpl.test", "password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login", h.Login, map[string]string{
			"email": "not-an-email", "password": "x",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", decodeBody(t, rec)["error"])
	})
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	h := newAuthHandler()
	userID := "7d3f1c2e-6f0a-4c61-9a55-1f7a1d2b9e10"

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID, "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"bad signature":  "Bearer " + otherKey,
		"expired":        "Bearer " + signToken(t, jwt.MapClaims{"sub": userID, "role": "admin", "exp": time.Now().Add(-time.Minute).Unix()}),
		"unknown role":   "Bearer " + signToken(t, jwt.MapClaims{"sub": userID, "role": "root", "exp": time.Now().Add(time.Hour).Unix()}),
		"no subject":     "Bearer " + signToken(t, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			meRouter(h).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
		})
	}
}
