package shell

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/SecureVault/internal/client/api"
	"github.com/atinyakov/SecureVault/internal/repository"
	handler "github.com/atinyakov/SecureVault/internal/server/handler/http"
	"github.com/atinyakov/SecureVault/internal/service"
)

// newBackend starts the development backend. wrap, if set, can intercept
// requests before they reach the router.
func newBackend(t *testing.T, wrap func(next http.Handler) http.Handler) *api.Client {
	t.Helper()
	repo := repository.NewMemoryStore()
	auth := service.NewAuthService(repo).WithCost(bcrypt.MinCost)
	router := handler.NewRouter(
		&handler.AuthHandler{AuthService: auth},
		&handler.VaultHandler{VaultService: service.NewVaultService(repo)},
		&handler.AdvisorHandler{AdvisorService: service.NewAdvisorService()},
		auth,
		zap.NewNop(),
	)
	if wrap != nil {
		router = wrap(router)
	}
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return api.New(ts.URL, ts.Client(), nil)
}

// run feeds script to a fresh shell and returns it with everything it printed.
func run(t *testing.T, backend Backend, script ...string) (*Shell, string) {
	t.Helper()
	var out bytes.Buffer
	sh := New(backend, strings.NewReader(strings.Join(script, "\n")+"\n"), &out, nil)
	require.NoError(t, sh.Run(context.Background()))
	return sh, out.String()
}

func TestShell_FullSession(t *testing.T) {
	backend := newBackend(t, nil)

	sh, out := run(t, backend,
		"register a@b.com", "x",
		"add", "mail", "bob", "pw", "https://mail.example.com", "work",
		"seed-add", "bank", "abc def",
		"breach", "password123",
		"suggest", "weak password reuse",
		"logout",
		"list",
	)

	assert.Contains(t, out, "Logged in as a@b.com.")
	assert.Contains(t, out, "Credential added.")
	assert.Contains(t, out, "mail  bob • pw • https://mail.example.com")
	assert.Contains(t, out, "Seed phrase added.")
	assert.Contains(t, out, "bank: abc def")
	assert.Contains(t, out, "Found 57 breaches")

	first := strings.Index(out, "1. Use a passphrase")
	second := strings.Index(out, "2. Use a unique password")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)

	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Log in first.")
	assert.Equal(t, ViewLogin, sh.View())
}

func TestShell_LoginRejected(t *testing.T) {
	backend := newBackend(t, nil)

	sh, out := run(t, backend,
		"register a@b.com", "x",
		"logout",
		"login a@b.com", "wrong",
		"login ghost@b.com", "x",
	)
	assert.Equal(t, 2, strings.Count(out, "Invalid email or password"))
	assert.Equal(t, ViewLogin, sh.View())
}

func TestShell_RegisterTakenEmail(t *testing.T) {
	backend := newBackend(t, nil)
	_, _ = run(t, backend, "register a@b.com", "x")

	sh, out := run(t, backend, "register a@b.com", "y")
	assert.Contains(t, out, "Email already registered")
	assert.Equal(t, ViewLogin, sh.View())
}

func TestShell_LoginKeepsSessionAfterEOF(t *testing.T) {
	backend := newBackend(t, nil)
	_, _ = run(t, backend, "register a@b.com", "x")

	sh, out := run(t, backend, "login a@b.com", "x", "list")
	assert.Contains(t, out, "Credentials (0)")
	assert.Equal(t, ViewVault, sh.View())
}

func TestShell_FailedAddKeepsForm(t *testing.T) {
	backend := newBackend(t, nil)

	_, out := run(t, backend,
		"register a@b.com", "x",
		"add", "", "bob", "pw", "", "",
		"add", "mail", "", "", "", "",
	)

	assert.Contains(t, out, "Could not add credential: title, username and password are required")
	assert.Contains(t, out, "Username [bob] (- to clear): ")
	assert.Contains(t, out, "Password (enter to keep): ")
	assert.Contains(t, out, "Credential added.")
	assert.Contains(t, out, "mail  bob • pw")
	assert.Equal(t, 1, strings.Count(out, "Credential added."))
}

func TestShell_RetryCanClearOptionalFields(t *testing.T) {
	backend := newBackend(t, nil)

	_, out := run(t, backend,
		"register a@b.com", "x",
		"add", "", "bob", "pw", "https://x.example", "old note",
		"add", "mail", "", "", "-", "-",
	)

	assert.Contains(t, out, "URL (optional) [https://x.example] (- to clear): ")
	assert.Contains(t, out, "Credential added.")
	assert.Contains(t, out, "mail  bob • pw\n")
	assert.NotContains(t, out, "bob • pw • https://x.example")
	assert.NotContains(t, out, "      old note")
}

func TestShell_DeleteMissingStillReloads(t *testing.T) {
	var lists atomic.Int32
	backend := newBackend(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.URL.Path == "/vault" {
				lists.Add(1)
			}
			next.ServeHTTP(w, r)
		})
	})

	_, out := run(t, backend,
		"register a@b.com", "x",
		"delete nope",
	)
	assert.Contains(t, out, "Could not delete credential nope: Credential not found")
	assert.Equal(t, int32(2), lists.Load(), "mount load plus reload after delete")
}

func TestShell_PartialLoadFailure(t *testing.T) {
	backend := newBackend(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.URL.Path == "/seed" {
				http.Error(w, "", http.StatusBadGateway)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	_, out := run(t, backend,
		"register a@b.com", "x",
		"add", "mail", "bob", "pw", "", "",
	)
	assert.Contains(t, out, "Warning: could not load seed phrases: 502 Bad Gateway")
	assert.Contains(t, out, "Credential added.")
	assert.Contains(t, out, "mail  bob • pw")
	assert.Contains(t, out, "Seed phrases (0)")
}

func TestShell_EmptyBreachCheckKeepsResult(t *testing.T) {
	var breachCalls atomic.Int32
	backend := newBackend(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/breach/") {
				breachCalls.Add(1)
				assert.Empty(t, r.Header.Get("Authorization"))
			}
			next.ServeHTTP(w, r)
		})
	})

	_, out := run(t, backend,
		"register a@b.com", "x",
		"breach", "",
		"breach", "correct horse",
		"breach", "",
	)
	assert.Contains(t, out, "No result.")
	assert.Equal(t, 2, strings.Count(out, "No breach found in database"))
	assert.Equal(t, int32(1), breachCalls.Load())
}

func TestShell_Commands(t *testing.T) {
	backend := newBackend(t, nil)

	sh, out := run(t, backend,
		"help",
		"login",
		"bogus",
		"register a@b.com", "x",
		"help",
		"login a@b.com",
		"delete",
		"exit",
		"list",
	)
	assert.Contains(t, out, "register <email>")
	assert.Contains(t, out, "Usage: login <email>")
	assert.Contains(t, out, "Unknown command.")
	assert.Contains(t, out, "seed-delete <id>")
	assert.Contains(t, out, "Already logged in.")
	assert.Contains(t, out, "Usage: delete <id>")
	assert.True(t, strings.HasSuffix(out, "Bye\n"), "commands after exit are not read")
	assert.Equal(t, ViewVault, sh.View())
}

func TestShell_SecretReaderOption(t *testing.T) {
	backend := newBackend(t, nil)
	var labels []string
	secret := func(label string) (string, error) {
		labels = append(labels, label)
		return "x", nil
	}

	var out bytes.Buffer
	sh := New(backend, strings.NewReader("register a@b.com\n"), &out, nil, WithSecretReader(secret))
	require.NoError(t, sh.Run(context.Background()))

	assert.Equal(t, []string{"Password: "}, labels)
	assert.Equal(t, ViewVault, sh.View())
}

func TestView_String(t *testing.T) {
	assert.Equal(t, "login", ViewLogin.String())
	assert.Equal(t, "vault", ViewVault.String())
}
