// Package repository provides the in-memory persistence used by the
// development backend: user accounts, issued tokens, and each user's
// credentials and seed phrases.
package repository

import (
	"errors"
	"sync"

	"github.com/atinyakov/SecureVault/internal/models"
)

var (
	// ErrUserExists is returned when registering an email that is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrNotFound is returned when a user, token or record does not exist.
	ErrNotFound = errors.New("not found")
)

// MemoryStore keeps everything in process memory. It is safe for concurrent
// use. Records are returned in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string][]byte // email -> bcrypt hash
	tokens      map[string]string // token -> email
	credentials map[string][]models.Credential
	seeds       map[string][]models.SeedPhrase
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string][]byte),
		tokens:      make(map[string]string),
		credentials: make(map[string][]models.Credential),
		seeds:       make(map[string][]models.SeedPhrase),
	}
}
