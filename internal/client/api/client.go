// Package api is a typed JSON-over-HTTP client for the vault backend.
//
// Every method maps to one backend endpoint. Non-2xx responses are returned as
// *StatusError. Request paths are never logged, only operation names, because
// the breach endpoint carries a password in its path.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/models"
)

const (
	pathRegister = "/auth/register"
	pathLogin    = "/auth/login"
	pathLogout   = "/auth/logout"
	pathVault    = "/vault"
	pathSeed     = "/seed"
	pathBreach   = "/breach/"
	pathSuggest  = "/ai/suggest"
)

// Client talks to the vault backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// New returns a Client for baseURL. A nil httpClient or logger is replaced
// with a default.
func New(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, "register", http.MethodPost, pathRegister, "", credentialsRequest{email, password}, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, "login", http.MethodPost, pathLogin, "", credentialsRequest{email, password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: invalid response: missing token")
	}
	return resp.Token, nil
}

// Logout invalidates token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "logout", http.MethodPost, pathLogout, token, nil, nil)
}

// ListCredentials returns every credential of the session's user.
func (c *Client) ListCredentials(ctx context.Context, token string) ([]models.Credential, error) {
	var out []models.Credential
	if err := c.do(ctx, "list credentials", http.MethodGet, pathVault, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddCredential stores a new credential; the backend assigns its id.
func (c *Client) AddCredential(ctx context.Context, token string, in models.CredentialInput) error {
	return c.do(ctx, "add credential", http.MethodPost, pathVault, token, in, nil)
}

// DeleteCredential removes the credential with the given id.
func (c *Client) DeleteCredential(ctx context.Context, token string, id models.ID) error {
	return c.do(ctx, "delete credential", http.MethodDelete, pathVault+"/"+url.PathEscape(id.String()), token, nil, nil)
}

// ListSeeds returns every seed phrase of the session's user.
func (c *Client) ListSeeds(ctx context.Context, token string) ([]models.SeedPhrase, error) {
	var out []models.SeedPhrase
	if err := c.do(ctx, "list seeds", http.MethodGet, pathSeed, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSeed stores a new seed phrase.
func (c *Client) AddSeed(ctx context.Context, token string, in models.SeedPhraseInput) error {
	return c.do(ctx, "add seed", http.MethodPost, pathSeed, token, in, nil)
}

// DeleteSeed removes the seed phrase with the given id.
func (c *Client) DeleteSeed(ctx context.Context, token string, id models.ID) error {
	return c.do(ctx, "delete seed", http.MethodDelete, pathSeed+"/"+url.PathEscape(id.String()), token, nil, nil)
}

// CheckBreach looks password up in the breach database. The password travels
// URL-encoded in the request path, as the backend expects.
func (c *Client) CheckBreach(ctx context.Context, password string) (models.BreachResult, error) {
	var out models.BreachResult
	err := c.do(ctx, "breach check", http.MethodGet, pathBreach+url.PathEscape(password), "", nil, &out)
	return out, err
}

// Suggest asks the backend for security tips about text.
func (c *Client) Suggest(ctx context.Context, text string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	req := struct {
		Context string `json:"context"`
	}{text}
	if err := c.do(ctx, "ai suggest", http.MethodPost, pathSuggest, "", req, &out); err != nil {
		return nil, err
	}
	if out.Suggestions == nil {
		return []string{}, nil
	}
	return out.Suggestions, nil
}

// do issues one request. op names the request in logs and errors.
// A non-empty token is sent as a bearer Authorization header.
func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// *url.Error repeats the request URL.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, newStatusError(resp))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: invalid response: %w", op, err)
	}
	return nil
}
