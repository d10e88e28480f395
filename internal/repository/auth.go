package repository

import (
	"context"
)

// CreateUser stores a new account. It fails with ErrUserExists if email is
// already registered.
func (s *MemoryStore) CreateUser(_ context.Context, email string, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return ErrUserExists
	}
	s.users[email] = append([]byte(nil), hash...)
	return nil
}

// PasswordHash returns the stored hash for email, or ErrNotFound.
func (s *MemoryStore) PasswordHash(_ context.Context, email string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return hash, nil
}

// SaveToken binds token to the user.
func (s *MemoryStore) SaveToken(_ context.Context, token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = email
	return nil
}

// UserByToken returns the user owning token, or ErrNotFound.
func (s *MemoryStore) UserByToken(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.tokens[token]
	if !ok {
		return "", ErrNotFound
	}
	return email, nil
}

// DeleteToken revokes token. Revoking an unknown token is not an error.
func (s *MemoryStore) DeleteToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
