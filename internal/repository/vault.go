package repository

import (
	"context"

	"github.com/atinyakov/SecureVault/internal/models"
)

// ListCredentials returns a copy of the user's credentials.
// A user without records gets an empty, non-nil slice.
func (s *MemoryStore) ListCredentials(_ context.Context, userID string) ([]models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Credential{}, s.credentials[userID]...), nil
}

// AddCredential appends c to the user's credentials. c.ID must be set.
func (s *MemoryStore) AddCredential(_ context.Context, userID string, c models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[userID] = append(s.credentials[userID], c)
	return nil
}

// DeleteCredential removes the credential with id, or returns ErrNotFound.
func (s *MemoryStore) DeleteCredential(_ context.Context, userID string, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.credentials[userID]
	for i := range list {
		if list[i].ID == id {
			s.credentials[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ListSeeds returns a copy of the user's seed phrases.
func (s *MemoryStore) ListSeeds(_ context.Context, userID string) ([]models.SeedPhrase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SeedPhrase{}, s.seeds[userID]...), nil
}

// AddSeed appends p to the user's seed phrases. p.ID must be set.
func (s *MemoryStore) AddSeed(_ context.Context, userID string, p models.SeedPhrase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds[userID] = append(s.seeds[userID], p)
	return nil
}

// DeleteSeed removes the seed phrase with id, or returns ErrNotFound.
func (s *MemoryStore) DeleteSeed(_ context.Context, userID string, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.seeds[userID]
	for i := range list {
		if list[i].ID == id {
			s.seeds[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
