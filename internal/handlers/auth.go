package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog"
	"github.com/stanstork/gpl-website-api/internal/authz"
	"github.com/stanstork/gpl-website-api/internal/models"
	"github.com/stanstork/gpl-website-api/internal/repository"
	"github.com/stanstork/gpl-website-api/internal/validation"
)

type AuthHandler struct {
	userRepository repository.UserRepository
	jwtSecret      string
	tokenTTL       time.Duration
	logger         zerolog.Logger
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func NewAuthHandler(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthHandler{
		userRepository: users,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		logger:         logger.With().Str("handler", "auth").Logger(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.Struct(req); err != nil {
		if verr, ok := validation.AsError(err); ok {
			writeValidationError(w, verr)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepository.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) || errors.Is(err, repository.ErrUserInactive) {
			h.logger.Info().Str("email", req.Email).Msg("login rejected")
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("failed to authenticate user")
		writeError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	expiresAt := time.Now().Add(h.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  expiresAt.Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to sign token")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: tokenString, ExpiresAt: expiresAt.UTC(), User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	user, err := h.userRepository.GetUserByID(r.Context(), userID)
	if err != nil {
		if repository.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "User no longer exists")
			return
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load current user")
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(h.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !claims.VerifyExpiresAt(time.Now().Unix(), true) {
			writeError(w, http.StatusUnauthorized, "Token expired")
			return
		}

		userID, _ := claims["sub"].(string)
		rawRole, _ := claims["role"].(string)
		role := models.UserRole(rawRole)
		if userID == "" || !models.IsValidRole(role) {
			writeError(w, http.StatusUnauthorized, "Missing token claim")
			return
		}

		ctx := authz.WithIdentity(r.Context(), userID, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
