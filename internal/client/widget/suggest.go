package widget

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SuggestAPI asks the backend for security tips.
type SuggestAPI interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Suggestor displays the tips returned for the last submitted text.
type Suggestor struct {
	api SuggestAPI
	log *zap.Logger

	mu          sync.Mutex
	suggestions []string
}

// NewSuggestor returns a Suggestor with an empty list.
func NewSuggestor(a SuggestAPI, log *zap.Logger) *Suggestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Suggestor{api: a, log: log, suggestions: []string{}}
}

// Suggest submits text, empty or not, and replaces the displayed list with
// the answer. A failed request empties the list.
func (s *Suggestor) Suggest(ctx context.Context, text string) error {
	out, err := s.api.Suggest(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.suggestions = []string{}
		s.log.Warn("suggest failed", zap.Error(err))
		return err
	}
	s.suggestions = append([]string{}, out...)
	return nil
}

// Suggestions returns a copy of the displayed list, in backend order.
func (s *Suggestor) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.suggestions...)
}
