package service

import (
	"context"
	"strings"

	"github.com/atinyakov/SecureVault/internal/models"
)

// knownBreaches maps leaked passwords to the number of breaches they appear in.
var knownBreaches = map[string]int{
	"123456":      412,
	"123456789":   188,
	"password":    151,
	"qwerty":      97,
	"password123": 57,
	"letmein":     44,
	"iloveyou":    39,
	"admin":       31,
	"welcome":     22,
	"monkey":      18,
}

type rule struct {
	keywords []string
	tip      string
}

// rules are evaluated in order; every matching rule contributes its tip once.
var rules = []rule{
	{[]string{"weak", "short", "simple", "common"}, "Use a passphrase of at least 12 characters mixing words, digits and symbols."},
	{[]string{"reuse", "same"}, "Use a unique password for every account and keep them in the vault."},
	{[]string{"phish", "link", "email"}, "Do not enter credentials from links in messages; open the site yourself."},
	{[]string{"seed", "wallet", "crypto"}, "Keep seed phrases offline and never type them into websites."},
	{[]string{"leak", "breach", "pwned"}, "Change any password that appeared in a breach right away."},
	{[]string{"2fa", "mfa", "two-factor", "otp"}, "Prefer an authenticator app over SMS codes."},
}

const defaultTip = "Enable two-factor authentication wherever it is offered."

// AdvisorService answers breach lookups and security tip requests.
type AdvisorService struct {
	breaches map[string]int
}

// NewAdvisorService returns an advisor backed by the built-in breach table.
func NewAdvisorService() *AdvisorService {
	return &AdvisorService{breaches: knownBreaches}
}

// CheckBreach reports whether password is in the breach table.
func (s *AdvisorService) CheckBreach(_ context.Context, password string) models.BreachResult {
	n := s.breaches[password]
	return models.BreachResult{Breached: n > 0, Count: n}
}

// Suggest returns the tips whose keywords occur in text, in rule order.
// Text that matches nothing, including empty text, gets a single general tip.
func (s *AdvisorService) Suggest(_ context.Context, text string) []string {
	lower := strings.ToLower(text)
	out := []string{}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, r.tip)
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, defaultTip)
	}
	return out
}
