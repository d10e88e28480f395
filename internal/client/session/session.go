// Package session implements the client's authentication state machine.
//
// A Manager moves between Anonymous, Authenticating and Authenticated. It is
// owned by a single scope (the shell), which is the only place a Session value
// is created or dropped; authenticated components receive the Session
// explicitly instead of reading shared state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/client/api"
	"github.com/atinyakov/SecureVault/internal/models"
)

// LogoutTimeout bounds the background logout notification.
const LogoutTimeout = 5 * time.Second

const (
	loginFallback    = "Login failed"
	registerFallback = "Registration failed"
)

// State is the authentication state of a Manager.
type State int

const (
	// Anonymous means no session exists.
	Anonymous State = iota
	// Authenticating means a login or register request is outstanding.
	Authenticating
	// Authenticated means a session token is held.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// AuthError is returned when the backend rejects a login or a registration.
type AuthError struct {
	// Message is what the login form displays.
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// AuthAPI is the part of the backend the Manager needs.
type AuthAPI interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

// Manager owns the current Session, if any.
type Manager struct {
	api AuthAPI
	log *zap.Logger

	mu      sync.Mutex
	state   State
	session *models.Session
	lastErr string
}

// NewManager returns a Manager in the Anonymous state.
func NewManager(a AuthAPI, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{api: a, log: log}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Session returns the current session and whether one exists.
func (m *Manager) Session() (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return models.Session{}, false
	}
	return *m.session, true
}

// LastError returns the message of the last failed login or registration.
// It is cleared by the next submit.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Login submits credentials and, on success, stores and returns the Session.
func (m *Manager) Login(ctx context.Context, email, password string) (models.Session, error) {
	if err := m.begin(); err != nil {
		return models.Session{}, err
	}
	return m.login(ctx, email, password)
}

// Register creates an account without logging in.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	if err := m.begin(); err != nil {
		return err
	}
	if err := m.register(ctx, email, password); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = Anonymous
	m.mu.Unlock()
	return nil
}

// RegisterAndLogin registers and then logs in with the same credentials.
// Login is not attempted when registration fails.
func (m *Manager) RegisterAndLogin(ctx context.Context, email, password string) (models.Session, error) {
	if err := m.begin(); err != nil {
		return models.Session{}, err
	}
	if err := m.register(ctx, email, password); err != nil {
		return models.Session{}, err
	}
	return m.login(ctx, email, password)
}

// Logout drops the local session immediately, whatever happens to the
// backend call, then notifies the backend in the background. The returned
// channel yields the outcome of that notification and is then closed; callers
// may ignore it.
func (m *Manager) Logout() <-chan error {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.state = Anonymous
	m.lastErr = ""
	m.mu.Unlock()

	done := make(chan error, 1)
	if sess == nil {
		close(done)
		return done
	}

	go func(token string) {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), LogoutTimeout)
		defer cancel()
		err := m.api.Logout(ctx, token)
		if err != nil {
			m.log.Warn("remote logout failed", zap.Error(err))
		}
		done <- err
	}(sess.Token)

	return done
}

// ErrBusy is returned when a submit is attempted while one is outstanding
// or a session already exists.
var ErrBusy = errors.New("session: already authenticating or authenticated")

func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Anonymous {
		return ErrBusy
	}
	m.state = Authenticating
	m.lastErr = ""
	return nil
}

func (m *Manager) register(ctx context.Context, email, password string) error {
	if err := m.api.Register(ctx, email, password); err != nil {
		return m.fail(authError(err, registerFallback))
	}
	m.log.Info("registered", zap.String("email", email))
	return nil
}

func (m *Manager) login(ctx context.Context, email, password string) (models.Session, error) {
	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, m.fail(authError(err, loginFallback))
	}

	sess := models.Session{Token: token}
	m.mu.Lock()
	m.session = &sess
	m.state = Authenticated
	m.mu.Unlock()
	m.log.Info("logged in", zap.String("email", email))
	return sess, nil
}

func (m *Manager) fail(err *AuthError) error {
	m.mu.Lock()
	m.state = Anonymous
	m.session = nil
	m.lastErr = err.Message
	m.mu.Unlock()
	m.log.Info("authentication rejected", zap.Error(err.Err))
	return err
}

// authError keeps the backend's detail message when there is one.
func authError(err error, fallback string) *AuthError {
	msg := fallback
	var se *api.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		msg = se.Detail
	}
	return &AuthError{Message: msg, Err: err}
}
