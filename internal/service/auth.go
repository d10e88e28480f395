// Package service provides the business logic of the development backend:
// account handling, vault records and the password advisor. Persistence is
// delegated to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/SecureVault/internal/repository"
)

var (
	// ErrInvalidInput is returned when a required field is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized is returned by Authenticate for an unknown token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserExists is returned by Register for a taken email.
	ErrUserExists = repository.ErrUserExists
	// ErrNotFound is returned when a record to delete does not exist.
	ErrNotFound = repository.ErrNotFound
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// CreateUser stores a new account or fails with repository.ErrUserExists.
	CreateUser(ctx context.Context, email string, hash []byte) error
	// PasswordHash returns the stored hash or repository.ErrNotFound.
	PasswordHash(ctx context.Context, email string) ([]byte, error)
	// SaveToken binds a bearer token to a user.
	SaveToken(ctx context.Context, token, email string) error
	// UserByToken resolves a bearer token or fails with repository.ErrNotFound.
	UserByToken(ctx context.Context, token string) (string, error)
	// DeleteToken revokes a bearer token.
	DeleteToken(ctx context.Context, token string) error
}

// AuthService registers users, issues and revokes bearer tokens.
type AuthService struct {
	// repo performs the data-layer operations.
	repo AuthRepository
	// cost is the bcrypt work factor.
	cost int
}

// NewAuthService constructs an AuthService hashing with bcrypt.DefaultCost.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo, cost: bcrypt.DefaultCost}
}

// WithCost sets the bcrypt work factor. Tests use bcrypt.MinCost.
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register creates an account for email.
// Returns ErrInvalidInput for a malformed email or an empty password and
// ErrUserExists if the email is taken.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") || password == "" {
		return ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, email, hash)
}

// Login checks the password and issues a new random bearer token.
// Any mismatch, including an unknown email, yields ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	hash, err := s.repo.PasswordHash(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.repo.SaveToken(ctx, token, email); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// Logout revokes token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.repo.DeleteToken(ctx, token)
}

// Authenticate resolves token to its user or returns ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	user, err := s.repo.UserByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthorized
	}
	return user, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
