// Package models defines the core data structures exchanged with the vault backend.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque, server-assigned record identifier.
// Backends encode it either as a JSON string or as a JSON number; both decode
// into the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as rendered to the user.
func (id ID) String() string { return string(id) }

// Session is the authenticated context of a user.
// A zero Session (empty token) is never handed out.
type Session struct {
	// Token is the opaque bearer token returned by login.
	Token string `json:"token"`
}

// Credential is a stored password entry. URL and Notes are optional.
type Credential struct {
	// ID is assigned by the backend.
	ID       ID     `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// CredentialInput is a Credential without its id, as submitted by the add form.
type CredentialInput struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

// IsZero reports whether every field of the form is empty.
func (in CredentialInput) IsZero() bool {
	return in == CredentialInput{}
}

// SeedPhrase is a stored wallet seed phrase.
type SeedPhrase struct {
	ID         ID     `json:"id"`
	Label      string `json:"label"`
	SeedPhrase string `json:"seed_phrase"`
}

// SeedPhraseInput is a SeedPhrase without its id.
type SeedPhraseInput struct {
	Label      string `json:"label"`
	SeedPhrase string `json:"seed_phrase"`
}

// IsZero reports whether every field of the form is empty.
func (in SeedPhraseInput) IsZero() bool {
	return in == SeedPhraseInput{}
}

// BreachResult is the outcome of a single breach lookup.
type BreachResult struct {
	Breached bool `json:"breached"`
	// Count is the number of breaches the password was found in.
	Count int `json:"count"`
}
