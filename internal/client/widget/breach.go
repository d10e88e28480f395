// Package widget holds the stateless query helpers shown next to the vault:
// the breach checker and the security suggestion panel. Their results live
// only as long as the widget and every query replaces the previous answer.
package widget

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/models"
)

// BreachAPI looks a password up in the breach database.
type BreachAPI interface {
	CheckBreach(ctx context.Context, password string) (models.BreachResult, error)
}

// BreachChecker remembers the result of the last breach lookup.
type BreachChecker struct {
	api BreachAPI
	log *zap.Logger

	mu     sync.Mutex
	result models.BreachResult
	ok     bool
}

// NewBreachChecker returns a checker with no result yet.
func NewBreachChecker(a BreachAPI, log *zap.Logger) *BreachChecker {
	if log == nil {
		log = zap.NewNop()
	}
	return &BreachChecker{api: a, log: log}
}

// Check looks password up and replaces the last result. An empty password
// is ignored and the previous result stays. On failure the checker holds no
// result.
func (b *BreachChecker) Check(ctx context.Context, password string) error {
	if password == "" {
		return nil
	}
	res, err := b.api.CheckBreach(ctx, password)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.result, b.ok = models.BreachResult{}, false
		b.log.Warn("breach check failed", zap.Error(err))
		return err
	}
	b.result, b.ok = res, true
	return nil
}

// Result returns the last successful lookup, if any.
func (b *BreachChecker) Result() (models.BreachResult, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result, b.ok
}
