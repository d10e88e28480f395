package vault

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/SecureVault/internal/client/api"
	"github.com/atinyakov/SecureVault/internal/models"
)

// fakeAPI is an in-memory backend that records every call.
type fakeAPI struct {
	mu     sync.Mutex
	creds  []models.Credential
	seeds  []models.SeedPhrase
	nextID int
	tokens []string
	calls  []string

	listCredErr error
	listSeedErr error
	addCredErr  error
	delCredErr  error
	addSeedErr  error
	delSeedErr  error

	// listCredHook runs after the credential list has been copied and
	// before it is returned; n counts ListCredentials calls from 1.
	listCredHook func(n int)
	listCredN    int
}

func (f *fakeAPI) record(token, call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) ListCredentials(_ context.Context, token string) ([]models.Credential, error) {
	f.record(token, "list credentials")
	f.mu.Lock()
	f.listCredN++
	n := f.listCredN
	out := append([]models.Credential(nil), f.creds...)
	err := f.listCredErr
	hook := f.listCredHook
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeAPI) AddCredential(_ context.Context, token string, in models.CredentialInput) error {
	f.record(token, "add credential")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addCredErr != nil {
		return f.addCredErr
	}
	f.nextID++
	f.creds = append(f.creds, models.Credential{
		ID:       models.ID(strconv.Itoa(f.nextID)),
		Title:    in.Title,
		Username: in.Username,
		Password: in.Password,
		URL:      in.URL,
		Notes:    in.Notes,
	})
	return nil
}

func (f *fakeAPI) DeleteCredential(_ context.Context, token string, id models.ID) error {
	f.record(token, "delete credential")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delCredErr != nil {
		return f.delCredErr
	}
	for i, c := range f.creds {
		if c.ID == id {
			f.creds = append(f.creds[:i], f.creds[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeAPI) ListSeeds(_ context.Context, token string) ([]models.SeedPhrase, error) {
	f.record(token, "list seeds")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listSeedErr != nil {
		return nil, f.listSeedErr
	}
	return append([]models.SeedPhrase(nil), f.seeds...), nil
}

func (f *fakeAPI) AddSeed(_ context.Context, token string, in models.SeedPhraseInput) error {
	f.record(token, "add seed")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addSeedErr != nil {
		return f.addSeedErr
	}
	f.nextID++
	f.seeds = append(f.seeds, models.SeedPhrase{
		ID:         models.ID(strconv.Itoa(f.nextID)),
		Label:      in.Label,
		SeedPhrase: in.SeedPhrase,
	})
	return nil
}

func (f *fakeAPI) DeleteSeed(_ context.Context, token string, id models.ID) error {
	f.record(token, "delete seed")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delSeedErr != nil {
		return f.delSeedErr
	}
	for i, s := range f.seeds {
		if s.ID == id {
			f.seeds = append(f.seeds[:i], f.seeds[i+1:]...)
			break
		}
	}
	return nil
}

func newStore(f *fakeAPI) *Store {
	return NewStore(f, models.Session{Token: "t1"}, nil)
}

func TestLoad_FullSnapshot(t *testing.T) {
	f := &fakeAPI{
		creds: []models.Credential{{ID: "1", Title: "mail"}},
		seeds: []models.SeedPhrase{{ID: "2", Label: "bank", SeedPhrase: "abc def"}},
	}
	s := newStore(f)

	before := s.Snapshot()
	assert.False(t, before.Loaded)
	assert.Empty(t, before.Credentials)

	require.NoError(t, s.Load(context.Background()))
	snap := s.Snapshot()
	assert.True(t, snap.Loaded)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Equal(t, f.creds, snap.Credentials)
	assert.Equal(t, f.seeds, snap.Seeds)

	for _, tok := range f.tokens {
		assert.Equal(t, "t1", tok)
	}
	assert.Equal(t, 1, f.count("list credentials"))
	assert.Equal(t, 1, f.count("list seeds"))
}

func TestSnapshot_EmptyVaultIsNonNil(t *testing.T) {
	s := newStore(&fakeAPI{})

	before := s.Snapshot()
	assert.NotNil(t, before.Credentials)
	assert.NotNil(t, before.Seeds)

	require.NoError(t, s.Load(context.Background()))
	snap := s.Snapshot()
	assert.True(t, snap.Loaded)
	assert.NotNil(t, snap.Credentials)
	assert.NotNil(t, snap.Seeds)
	assert.Empty(t, snap.Credentials)
	assert.Empty(t, snap.Seeds)
}

func TestLoad_NoCaching(t *testing.T) {
	f := &fakeAPI{}
	s := newStore(f)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	f.mu.Lock()
	f.creds = []models.Credential{{ID: "9", Title: "added elsewhere"}}
	f.mu.Unlock()
	require.NoError(t, s.Load(ctx))

	assert.Equal(t, 2, f.count("list credentials"))
	assert.Len(t, s.Snapshot().Credentials, 1)
}

func TestLoad_PartialFailure(t *testing.T) {
	credErr := errors.New("credentials unavailable")
	f := &fakeAPI{
		creds:       []models.Credential{{ID: "1"}},
		seeds:       []models.SeedPhrase{{ID: "2", Label: "bank"}},
		listCredErr: credErr,
	}
	s := newStore(f)

	err := s.Load(context.Background())
	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	assert.ErrorIs(t, err, credErr)
	assert.Nil(t, lerr.Seeds)
	assert.Contains(t, err.Error(), "credentials unavailable")

	snap := s.Snapshot()
	assert.True(t, snap.Loaded)
	assert.NotNil(t, snap.Credentials)
	assert.Empty(t, snap.Credentials, "failed collection is shown empty")
	assert.Len(t, snap.Seeds, 1)
}

func TestLoad_BothFail(t *testing.T) {
	f := &fakeAPI{
		listCredErr: &api.StatusError{StatusCode: 401},
		listSeedErr: &api.StatusError{StatusCode: 401},
	}
	s := newStore(f)
	err := s.Load(context.Background())
	require.Error(t, err)

	var se *api.StatusError
	assert.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "credentials")
	assert.Contains(t, err.Error(), "seeds")
}

func TestAddCredential_ReloadsAndClearsForm(t *testing.T) {
	f := &fakeAPI{}
	s := newStore(f)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	in := models.CredentialInput{Title: "mail", Username: "bob", Password: "pw", URL: "https://mail.example.com", Notes: "work"}
	require.NoError(t, s.AddCredential(ctx, in))

	assert.True(t, s.CredentialForm().IsZero(), "form cleared after success")
	assert.Equal(t, 2, f.count("list credentials"))

	snap := s.Snapshot()
	require.Len(t, snap.Credentials, 1)
	got := snap.Credentials[0]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "mail", got.Title)
	assert.Equal(t, "https://mail.example.com", got.URL)
	assert.Equal(t, "work", got.Notes)
}

func TestAddCredential_FailureKeepsFormAndSkipsLoad(t *testing.T) {
	f := &fakeAPI{
		creds:      []models.Credential{{ID: "1", Title: "old"}},
		addCredErr: &api.StatusError{StatusCode: 422, Detail: "title required"},
	}
	s := newStore(f)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	before := s.Snapshot()

	in := models.CredentialInput{Username: "bob", Password: "pw"}
	err := s.AddCredential(ctx, in)

	var merr *MutationError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, OpAddCredential, merr.Op)
	var se *api.StatusError
	assert.True(t, errors.As(err, &se))

	assert.Equal(t, in, s.CredentialForm(), "form keeps the submitted values")
	assert.Equal(t, 1, f.count("list credentials"), "no reload after a failed add")
	assert.Equal(t, before, s.Snapshot())
}

func TestDeleteCredential(t *testing.T) {
	f := &fakeAPI{creds: []models.Credential{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}}
	s := newStore(f)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.DeleteCredential(ctx, "1"))
	snap := s.Snapshot()
	require.Len(t, snap.Credentials, 1)
	assert.Equal(t, models.ID("2"), snap.Credentials[0].ID)
	assert.Equal(t, 2, f.count("list credentials"))
}

func TestDeleteCredential_FailureStillReloads(t *testing.T) {
	f := &fakeAPI{
		creds:      []models.Credential{{ID: "1"}},
		delCredErr: errors.New("gateway timeout"),
	}
	s := newStore(f)
	ctx := context.Background()

	err := s.DeleteCredential(ctx, "1")
	var merr *MutationError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, models.ID("1"), merr.ID)
	assert.Equal(t, "delete credential 1 failed: gateway timeout", err.Error())

	assert.Equal(t, 1, f.count("list credentials"), "delete is always followed by a reload")
	assert.Len(t, s.Snapshot().Credentials, 1)
}

func TestAddSeed(t *testing.T) {
	f := &fakeAPI{}
	s := newStore(f)
	ctx := context.Background()

	require.NoError(t, s.AddSeed(ctx, models.SeedPhraseInput{Label: "bank", SeedPhrase: "abc def"}))

	snap := s.Snapshot()
	require.Len(t, snap.Seeds, 1)
	assert.Equal(t, "bank", snap.Seeds[0].Label)
	assert.Equal(t, "abc def", snap.Seeds[0].SeedPhrase)
	assert.True(t, s.SeedForm().IsZero())
}

func TestAddSeed_FailureKeepsForm(t *testing.T) {
	f := &fakeAPI{addSeedErr: errors.New("nope")}
	s := newStore(f)

	in := models.SeedPhraseInput{Label: "bank", SeedPhrase: "abc def"}
	err := s.AddSeed(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, "add seed failed: nope", err.Error())
	assert.Equal(t, in, s.SeedForm())
	assert.Zero(t, f.count("list seeds"))
}

func TestDeleteSeed(t *testing.T) {
	f := &fakeAPI{seeds: []models.SeedPhrase{{ID: "s1", Label: "bank"}}}
	s := newStore(f)
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.DeleteSeed(ctx, "s1"))
	assert.Empty(t, s.Snapshot().Seeds)

	f.delSeedErr = errors.New("boom")
	err := s.DeleteSeed(ctx, "s1")
	var merr *MutationError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, OpDeleteSeed, merr.Op)
	assert.Equal(t, 3, f.count("list seeds"))
}

func TestLoad_DiscardsStaleSnapshot(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeAPI{
		creds: []models.Credential{{ID: "1", Title: "old"}},
		listCredHook: func(n int) {
			if n == 1 {
				close(started)
				<-release
			}
		},
	}
	s := newStore(f)
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- s.Load(ctx) }()
	<-started

	f.mu.Lock()
	f.creds = append(f.creds, models.Credential{ID: "2", Title: "new"})
	f.mu.Unlock()
	require.NoError(t, s.Load(ctx))
	require.Equal(t, uint64(2), s.Snapshot().Generation)

	close(release)
	select {
	case err := <-slow:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("slow load did not finish")
	}

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap.Generation, "older generation must not overwrite")
	assert.Len(t, snap.Credentials, 2)
}

func TestClose_DiscardsInFlightLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	f := &fakeAPI{
		creds: []models.Credential{{ID: "1"}},
		listCredHook: func(n int) {
			if n == 1 {
				close(started)
				<-release
			}
		},
	}
	s := newStore(f)

	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()
	<-started
	s.Close()
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("load did not finish")
	}
	assert.False(t, s.Snapshot().Loaded)

	assert.ErrorIs(t, s.AddCredential(context.Background(), models.CredentialInput{Title: "x"}), ErrClosed)
	assert.ErrorIs(t, s.DeleteSeed(context.Background(), "1"), ErrClosed)
	assert.ErrorIs(t, s.Load(context.Background()), ErrClosed)
	assert.Zero(t, f.count("add credential"))
}

func TestConcurrentMutations_ConvergeOnServerState(t *testing.T) {
	f := &fakeAPI{}
	s := newStore(f)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.AddCredential(ctx, models.CredentialInput{Title: fmt.Sprintf("c%d", i)}))
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Len(t, snap.Credentials, n)
	assert.Equal(t, uint64(n), snap.Generation)
}

func TestOp_String(t *testing.T) {
	assert.Equal(t, "add credential", OpAddCredential.String())
	assert.Equal(t, "delete credential", OpDeleteCredential.String())
	assert.Equal(t, "add seed", OpAddSeed.String())
	assert.Equal(t, "delete seed", OpDeleteSeed.String())
	assert.Equal(t, "unknown", Op(42).String())
}
