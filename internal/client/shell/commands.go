package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/atinyakov/SecureVault/internal/client/api"
	"github.com/atinyakov/SecureVault/internal/client/vault"
	"github.com/atinyakov/SecureVault/internal/models"
)

const (
	loginHelp = `Available commands:
  login <email>      log in
  register <email>   create an account and log in
  help               show this help
  exit               quit`

	vaultHelp = `Available commands:
  list               show credentials and seed phrases
  reload             fetch the vault again
  add                add a credential
  delete <id>        delete a credential
  seed-add           add a seed phrase
  seed-delete <id>   delete a seed phrase
  breach             check a password against known breaches
  suggest            ask for security suggestions
  logout             end the session
  help               show this help
  exit               quit`
)

func (s *Shell) loginCommand(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, loginHelp)
	case "login", "register":
		if len(args) != 2 {
			fmt.Fprintf(s.out, "Usage: %s <email>\n", args[0])
			return
		}
		s.authenticate(ctx, args[0] == "register", args[1])
	case "list", "reload", "add", "delete", "seed-add", "seed-delete", "breach", "suggest", "logout":
		fmt.Fprintln(s.out, "Log in first. Type 'help' for a list of commands.")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *Shell) vaultCommand(ctx context.Context, args []string) {
	switch args[0] {
	case "help":
		fmt.Fprintln(s.out, vaultHelp)
	case "list":
		s.printVault()
	case "reload":
		s.notice(s.store.Load(ctx))
		s.printVault()
	case "add":
		s.addCredential(ctx)
	case "delete", "seed-delete":
		if len(args) != 2 {
			fmt.Fprintf(s.out, "Usage: %s <id>\n", args[0])
			return
		}
		id := models.ID(args[1])
		if args[0] == "delete" {
			s.notice(s.store.DeleteCredential(ctx, id))
		} else {
			s.notice(s.store.DeleteSeed(ctx, id))
		}
		s.printVault()
	case "seed-add":
		s.addSeed(ctx)
	case "breach":
		s.checkBreach(ctx)
	case "suggest":
		s.askSuggestions(ctx)
	case "logout":
		s.logout()
	case "login", "register":
		fmt.Fprintln(s.out, "Already logged in. Use 'logout' first.")
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for a list of commands.")
	}
}

func (s *Shell) authenticate(ctx context.Context, register bool, email string) {
	password, err := s.secret("Password: ")
	if err != nil {
		return
	}

	var sess models.Session
	if register {
		sess, err = s.sessions.RegisterAndLogin(ctx, email, password)
	} else {
		sess, err = s.sessions.Login(ctx, email, password)
	}
	if err != nil {
		fmt.Fprintln(s.out, s.st.err.Render(err.Error()))
		return
	}

	fmt.Fprintln(s.out, s.st.ok.Render("Logged in as "+email+"."))
	s.mount(ctx, sess)
	s.printVault()
}

// addCredential prompts for a credential. Fields start from the form kept
// after a failed attempt.
func (s *Shell) addCredential(ctx context.Context) {
	form := s.store.CredentialForm()
	var in models.CredentialInput
	var ok bool
	if in.Title, ok = s.readDefault("Title", form.Title); !ok {
		return
	}
	if in.Username, ok = s.readDefault("Username", form.Username); !ok {
		return
	}
	if in.Password, ok = s.readSecretDefault("Password", form.Password); !ok {
		return
	}
	if in.URL, ok = s.readDefault("URL (optional)", form.URL); !ok {
		return
	}
	if in.Notes, ok = s.readDefault("Notes (optional)", form.Notes); !ok {
		return
	}

	if s.notice(s.store.AddCredential(ctx, in)) {
		fmt.Fprintln(s.out, s.st.ok.Render("Credential added."))
	}
	s.printVault()
}

func (s *Shell) addSeed(ctx context.Context) {
	form := s.store.SeedForm()
	var in models.SeedPhraseInput
	var ok bool
	if in.Label, ok = s.readDefault("Label", form.Label); !ok {
		return
	}
	if in.SeedPhrase, ok = s.readSecretDefault("Seed phrase", form.SeedPhrase); !ok {
		return
	}

	if s.notice(s.store.AddSeed(ctx, in)) {
		fmt.Fprintln(s.out, s.st.ok.Render("Seed phrase added."))
	}
	s.printVault()
}

func (s *Shell) checkBreach(ctx context.Context) {
	password, err := s.secret("Password to check: ")
	if err != nil {
		return
	}
	if err := s.breach.Check(ctx, password); err != nil {
		fmt.Fprintln(s.out, s.st.err.Render("Breach check failed: "+err.Error()))
	}
	s.printBreach()
}

func (s *Shell) askSuggestions(ctx context.Context) {
	text, ok := s.readLine("Describe your concern: ")
	if !ok {
		return
	}
	if err := s.suggest.Suggest(ctx, text); err != nil {
		fmt.Fprintln(s.out, s.st.err.Render("Suggestions unavailable: "+err.Error()))
	}
	s.printSuggestions()
}

// notice prints err as a one-line message and reports whether the operation
// fully succeeded. A *vault.LoadError after a successful mutation is only a
// warning, so the mutation itself still counts as done.
func (s *Shell) notice(err error) bool {
	if err == nil {
		return true
	}
	var lerr *vault.LoadError
	var merr *vault.MutationError
	switch {
	case errors.As(err, &merr):
		what := merr.Op.String()
		if merr.ID != "" {
			what += " " + merr.ID.String()
		}
		fmt.Fprintln(s.out, s.st.err.Render(fmt.Sprintf("Could not %s: %s", what, reason(merr.Err))))
		return false
	case errors.As(err, &lerr):
		if lerr.Credentials != nil {
			fmt.Fprintln(s.out, s.st.warn.Render("Warning: could not load credentials: "+reason(lerr.Credentials)))
		}
		if lerr.Seeds != nil {
			fmt.Fprintln(s.out, s.st.warn.Render("Warning: could not load seed phrases: "+reason(lerr.Seeds)))
		}
		return true
	default:
		fmt.Fprintln(s.out, s.st.err.Render(err.Error()))
		return false
	}
}

// reason is the user-facing part of err: the backend's detail or status
// when there is one.
func reason(err error) string {
	var se *api.StatusError
	if !errors.As(err, &se) {
		return err.Error()
	}
	if se.Detail != "" {
		return se.Detail
	}
	return fmt.Sprintf("%d %s", se.StatusCode, http.StatusText(se.StatusCode))
}
