package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/atinyakov/SecureVault/internal/models"
)

// VaultRepository defines the persistence operations needed by the VaultService.
type VaultRepository interface {
	ListCredentials(ctx context.Context, userID string) ([]models.Credential, error)
	AddCredential(ctx context.Context, userID string, c models.Credential) error
	DeleteCredential(ctx context.Context, userID string, id models.ID) error
	ListSeeds(ctx context.Context, userID string) ([]models.SeedPhrase, error)
	AddSeed(ctx context.Context, userID string, p models.SeedPhrase) error
	DeleteSeed(ctx context.Context, userID string, id models.ID) error
}

// VaultService manages a user's credentials and seed phrases.
type VaultService struct {
	repo VaultRepository
	// newID assigns record ids.
	newID func() string
}

// NewVaultService constructs a VaultService assigning random UUID ids.
func NewVaultService(repo VaultRepository) *VaultService {
	return &VaultService{repo: repo, newID: uuid.NewString}
}

// ListCredentials returns the user's credentials in insertion order.
func (s *VaultService) ListCredentials(ctx context.Context, userID string) ([]models.Credential, error) {
	return s.repo.ListCredentials(ctx, userID)
}

// AddCredential stores in under a new id and returns the stored record.
// Title, username and password are required.
func (s *VaultService) AddCredential(ctx context.Context, userID string, in models.CredentialInput) (models.Credential, error) {
	if blank(in.Title) || blank(in.Username) || in.Password == "" {
		return models.Credential{}, ErrInvalidInput
	}
	c := models.Credential{
		ID:       models.ID(s.newID()),
		Title:    in.Title,
		Username: in.Username,
		Password: in.Password,
		URL:      in.URL,
		Notes:    in.Notes,
	}
	if err := s.repo.AddCredential(ctx, userID, c); err != nil {
		return models.Credential{}, err
	}
	return c, nil
}

// DeleteCredential removes a credential. Returns ErrNotFound if the user has
// no credential with that id.
func (s *VaultService) DeleteCredential(ctx context.Context, userID string, id models.ID) error {
	return s.repo.DeleteCredential(ctx, userID, id)
}

// ListSeeds returns the user's seed phrases in insertion order.
func (s *VaultService) ListSeeds(ctx context.Context, userID string) ([]models.SeedPhrase, error) {
	return s.repo.ListSeeds(ctx, userID)
}

// AddSeed stores in under a new id. Label and phrase are required.
func (s *VaultService) AddSeed(ctx context.Context, userID string, in models.SeedPhraseInput) (models.SeedPhrase, error) {
	if blank(in.Label) || blank(in.SeedPhrase) {
		return models.SeedPhrase{}, ErrInvalidInput
	}
	p := models.SeedPhrase{
		ID:         models.ID(s.newID()),
		Label:      in.Label,
		SeedPhrase: in.SeedPhrase,
	}
	if err := s.repo.AddSeed(ctx, userID, p); err != nil {
		return models.SeedPhrase{}, err
	}
	return p, nil
}

// DeleteSeed removes a seed phrase or returns ErrNotFound.
func (s *VaultService) DeleteSeed(ctx context.Context, userID string, id models.ID) error {
	return s.repo.DeleteSeed(ctx, userID, id)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
