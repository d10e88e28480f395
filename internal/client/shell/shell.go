// Package shell is the interactive front end of the client. It owns the
// session: while no one is logged in it offers login and registration, and
// while a session exists it mounts a vault store and the query widgets for
// it and tears them down again on logout.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/client/session"
	"github.com/atinyakov/SecureVault/internal/client/vault"
	"github.com/atinyakov/SecureVault/internal/client/widget"
	"github.com/atinyakov/SecureVault/internal/models"
)

// Backend is everything the shell and its components call remotely.
// *api.Client implements it.
type Backend interface {
	session.AuthAPI
	vault.API
	widget.BreachAPI
	widget.SuggestAPI
}

// View is the screen the shell shows.
type View int

const (
	// ViewLogin is shown while there is no session.
	ViewLogin View = iota
	// ViewVault is shown while a session exists.
	ViewVault
)

func (v View) String() string {
	if v == ViewVault {
		return "vault"
	}
	return "login"
}

// Shell is a line-oriented REPL. Commands run one at a time.
type Shell struct {
	backend  Backend
	sessions *session.Manager
	log      *zap.Logger

	lines  *bufio.Scanner
	out    io.Writer
	st     styles
	secret func(label string) (string, error)

	// mounted while a session exists
	store   *vault.Store
	breach  *widget.BreachChecker
	suggest *widget.Suggestor

	logouts sync.WaitGroup
}

// Option configures a Shell.
type Option func(*Shell)

// WithSecretReader replaces the reader used for passwords and seed phrases.
func WithSecretReader(f func(label string) (string, error)) Option {
	return func(s *Shell) { s.secret = f }
}

// New returns a shell reading commands from in and writing to out.
func New(b Backend, in io.Reader, out io.Writer, log *zap.Logger, opts ...Option) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Shell{
		backend:  b,
		sessions: session.NewManager(b, log),
		log:      log,
		lines:    bufio.NewScanner(in),
		out:      out,
		st:       newStyles(lipgloss.NewRenderer(out)),
	}
	s.secret = s.secretReader(in)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View reports which screen is active. It depends only on whether a session
// exists.
func (s *Shell) View() View {
	if _, ok := s.sessions.Session(); ok {
		return ViewVault
	}
	return ViewLogin
}

// Run reads and executes commands until "exit" or end of input. Before
// returning it waits for pending logout requests, each bounded by
// session.LogoutTimeout.
func (s *Shell) Run(ctx context.Context) error {
	defer s.logouts.Wait()

	fmt.Fprintln(s.out, s.st.title.Render("SecureVault")+" Type 'help' for a list of commands.")
	for {
		fmt.Fprint(s.out, s.prompt())
		if !s.lines.Scan() {
			fmt.Fprintln(s.out)
			return s.lines.Err()
		}
		args := strings.Fields(s.lines.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" {
			fmt.Fprintln(s.out, "Bye")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch s.View() {
		case ViewVault:
			s.vaultCommand(ctx, args)
		default:
			s.loginCommand(ctx, args)
		}
	}
}

func (s *Shell) prompt() string {
	if s.View() == ViewVault {
		return "vault> "
	}
	return "securevault> "
}

// mount binds a fresh store and widgets to sess and loads the vault.
func (s *Shell) mount(ctx context.Context, sess models.Session) {
	s.store = vault.NewStore(s.backend, sess, s.log)
	s.breach = widget.NewBreachChecker(s.backend, s.log)
	s.suggest = widget.NewSuggestor(s.backend, s.log)
	s.notice(s.store.Load(ctx))
}

// unmount drops everything bound to the session. Responses still in flight
// for the old store are discarded by it.
func (s *Shell) unmount() {
	if s.store != nil {
		s.store.Close()
	}
	s.store, s.breach, s.suggest = nil, nil, nil
}

func (s *Shell) logout() {
	s.unmount()
	done := s.sessions.Logout()

	s.logouts.Add(1)
	go func() {
		defer s.logouts.Done()
		if err := <-done; err != nil {
			s.log.Warn("logout request failed", zap.Error(err))
		}
	}()
	fmt.Fprintln(s.out, s.st.ok.Render("Logged out."))
}
