// Package vault holds the client's view of a user's credentials and seed
// phrases for one session.
//
// The view is never patched locally: every successful mutation is followed
// by Load, which re-reads both collections from the backend and replaces the
// snapshot. Each Load carries a generation number, and a snapshot older than
// the one on display is dropped, so overlapping mutations cannot leave a
// stale list behind.
package vault

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/SecureVault/internal/models"
)

// ErrClosed is returned by a Store used after Close.
var ErrClosed = errors.New("vault: store closed")

// API is the part of the backend the Store needs. Every call carries the
// session's bearer token.
type API interface {
	ListCredentials(ctx context.Context, token string) ([]models.Credential, error)
	AddCredential(ctx context.Context, token string, in models.CredentialInput) error
	DeleteCredential(ctx context.Context, token string, id models.ID) error
	ListSeeds(ctx context.Context, token string) ([]models.SeedPhrase, error)
	AddSeed(ctx context.Context, token string, in models.SeedPhraseInput) error
	DeleteSeed(ctx context.Context, token string, id models.ID) error
}

// Snapshot is the displayed state of the vault.
type Snapshot struct {
	Credentials []models.Credential
	Seeds       []models.SeedPhrase
	// Generation of the Load that produced this snapshot; 0 before the first.
	Generation uint64
	// Loaded is false until a Load has been applied.
	Loaded bool
}

// Store is the vault view bound to one session.
// It is safe for concurrent use.
type Store struct {
	api     API
	session models.Session
	log     *zap.Logger

	mu          sync.Mutex
	credentials []models.Credential
	seeds       []models.SeedPhrase
	credForm    models.CredentialInput
	seedForm    models.SeedPhraseInput
	issued      uint64
	applied     uint64
	closed      bool
}

// NewStore returns an empty Store for session. Call Load to mount it.
func NewStore(a API, session models.Session, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		api:         a,
		session:     session,
		log:         log,
		credentials: []models.Credential{},
		seeds:       []models.SeedPhrase{},
	}
}

// Load fetches both collections concurrently and, once both have answered,
// replaces the snapshot. A collection whose fetch failed is shown empty and
// the failure is returned as *LoadError. Results of a Load that was overtaken
// by a newer applied Load, or that finish after Close, are discarded.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.issued++
	gen := s.issued
	s.mu.Unlock()

	var (
		creds            []models.Credential
		seeds            []models.SeedPhrase
		credErr, seedErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		creds, credErr = s.api.ListCredentials(ctx, s.session.Token)
		return credErr
	})
	g.Go(func() error {
		seeds, seedErr = s.api.ListSeeds(ctx, s.session.Token)
		return seedErr
	})
	_ = g.Wait()

	if credErr != nil || creds == nil {
		creds = []models.Credential{}
	}
	if seedErr != nil || seeds == nil {
		seeds = []models.SeedPhrase{}
	}

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		s.log.Debug("discarding snapshot after close", zap.Uint64("generation", gen))
		return ErrClosed
	case gen <= s.applied:
		s.mu.Unlock()
		s.log.Debug("discarding stale snapshot",
			zap.Uint64("generation", gen),
			zap.Uint64("applied", s.applied),
		)
		return nil
	}
	s.credentials = creds
	s.seeds = seeds
	s.applied = gen
	s.mu.Unlock()

	if credErr != nil || seedErr != nil {
		lerr := &LoadError{Credentials: credErr, Seeds: seedErr}
		s.log.Warn("vault load failed", zap.Error(lerr))
		return lerr
	}
	s.log.Debug("vault loaded",
		zap.Uint64("generation", gen),
		zap.Int("credentials", len(creds)),
		zap.Int("seeds", len(seeds)),
	)
	return nil
}

// Snapshot returns a copy of the displayed collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Credentials: append(make([]models.Credential, 0, len(s.credentials)), s.credentials...),
		Seeds:       append(make([]models.SeedPhrase, 0, len(s.seeds)), s.seeds...),
		Generation:  s.applied,
		Loaded:      s.applied > 0,
	}
}

// CredentialForm returns the retained add-credential form.
func (s *Store) CredentialForm() models.CredentialInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credForm
}

// SeedForm returns the retained add-seed form.
func (s *Store) SeedForm() models.SeedPhraseInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seedForm
}

// AddCredential submits in. On success the form is cleared and the vault is
// reloaded; on failure the form keeps in and no reload happens.
func (s *Store) AddCredential(ctx context.Context, in models.CredentialInput) error {
	if err := s.setForm(func() { s.credForm = in }); err != nil {
		return err
	}
	if err := s.api.AddCredential(ctx, s.session.Token, in); err != nil {
		return s.mutationFailed(OpAddCredential, "", err)
	}
	s.mu.Lock()
	s.credForm = models.CredentialInput{}
	s.mu.Unlock()
	return s.Load(ctx)
}

// DeleteCredential deletes id and reloads whether or not the delete worked.
// A failed delete is reported after the reload.
func (s *Store) DeleteCredential(ctx context.Context, id models.ID) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	delErr := s.api.DeleteCredential(ctx, s.session.Token, id)
	return s.afterDelete(ctx, OpDeleteCredential, id, delErr)
}

// AddSeed submits in. On success the form is cleared and the vault is
// reloaded; on failure the form keeps in and no reload happens.
func (s *Store) AddSeed(ctx context.Context, in models.SeedPhraseInput) error {
	if err := s.setForm(func() { s.seedForm = in }); err != nil {
		return err
	}
	if err := s.api.AddSeed(ctx, s.session.Token, in); err != nil {
		return s.mutationFailed(OpAddSeed, "", err)
	}
	s.mu.Lock()
	s.seedForm = models.SeedPhraseInput{}
	s.mu.Unlock()
	return s.Load(ctx)
}

// DeleteSeed deletes id and reloads whether or not the delete worked.
func (s *Store) DeleteSeed(ctx context.Context, id models.ID) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	delErr := s.api.DeleteSeed(ctx, s.session.Token, id)
	return s.afterDelete(ctx, OpDeleteSeed, id, delErr)
}

// Close detaches the Store from its session. Loads still in flight are
// discarded when they complete, and further calls return ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) afterDelete(ctx context.Context, op Op, id models.ID, delErr error) error {
	loadErr := s.Load(ctx)
	if delErr != nil {
		return s.mutationFailed(op, id, delErr)
	}
	return loadErr
}

func (s *Store) setForm(set func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	set()
	return nil
}

func (s *Store) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *Store) mutationFailed(op Op, id models.ID, err error) error {
	merr := &MutationError{Op: op, ID: id, Err: err}
	s.log.Warn("vault mutation failed", zap.Stringer("op", op), zap.Error(err))
	return merr
}

// Op names a vault mutation.
type Op int

// Vault mutations.
const (
	OpAddCredential Op = iota
	OpDeleteCredential
	OpAddSeed
	OpDeleteSeed
)

func (o Op) String() string {
	switch o {
	case OpAddCredential:
		return "add credential"
	case OpDeleteCredential:
		return "delete credential"
	case OpAddSeed:
		return "add seed"
	case OpDeleteSeed:
		return "delete seed"
	default:
		return "unknown"
	}
}

// MutationError is returned when an add or delete was rejected.
// Nothing is retried.
type MutationError struct {
	Op Op
	// ID is set for deletes.
	ID  models.ID
	Err error
}

func (e *MutationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s failed: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// LoadError reports which collections could not be fetched. Failed
// collections are displayed empty.
type LoadError struct {
	Credentials error
	Seeds       error
}

func (e *LoadError) Error() string {
	switch {
	case e.Credentials != nil && e.Seeds != nil:
		return fmt.Sprintf("load vault: credentials: %v; seeds: %v", e.Credentials, e.Seeds)
	case e.Credentials != nil:
		return fmt.Sprintf("load vault: credentials: %v", e.Credentials)
	default:
		return fmt.Sprintf("load vault: seeds: %v", e.Seeds)
	}
}

// Unwrap exposes both underlying errors to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	var errs []error
	if e.Credentials != nil {
		errs = append(errs, e.Credentials)
	}
	if e.Seeds != nil {
		errs = append(errs, e.Seeds)
	}
	return errs
}
