// Package http provides the HTTP handlers and router of the development
// backend.
package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/middleware"
	"github.com/atinyakov/SecureVault/internal/service"
)

// AuthService defines the account operations required by the HTTP handlers.
type AuthService interface {
	// Register creates an account.
	Register(ctx context.Context, email, password string) error
	// Login returns a new bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// Logout revokes a bearer token.
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Log         *zap.Logger
}

// CredentialsRequest is the JSON payload of register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// Register handles POST /auth/register.
// Responds 201 on success, 400 if the email is taken and 422 for a malformed
// body, email or empty password.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	err := h.AuthService.Register(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeDetail(w, http.StatusUnprocessableEntity, "a valid email and a password are required")
	case errors.Is(err, service.ErrUserExists):
		writeDetail(w, http.StatusBadRequest, "Email already registered")
	case err != nil:
		internalError(w, h.Log, "register", err)
	default:
		writeJSON(w, http.StatusCreated, map[string]string{"email": req.Email})
	}
}

// Login handles POST /auth/login and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
	case err != nil:
		internalError(w, h.Log, "login", err)
	default:
		writeJSON(w, http.StatusOK, TokenResponse{Token: token, TokenType: "bearer"})
	}
}

// Logout handles POST /auth/logout. It must run behind BearerAuth.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		internalError(w, h.Log, "logout", err)
		return
	}
	writeDetail(w, http.StatusOK, "Logged out")
}
