package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/SecureVault/internal/models"
)

// AdvisorService answers breach lookups and tip requests.
type AdvisorService interface {
	CheckBreach(ctx context.Context, password string) models.BreachResult
	Suggest(ctx context.Context, text string) []string
}

// AdvisorHandler serves the unauthenticated /breach and /ai routes.
type AdvisorHandler struct {
	AdvisorService AdvisorService
}

// SuggestRequest is the JSON payload of POST /ai/suggest.
type SuggestRequest struct {
	Context string `json:"context"`
}

// SuggestResponse lists tips in display order.
type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// Breach handles GET /breach/{password}.
func (h *AdvisorHandler) Breach(w http.ResponseWriter, r *http.Request) {
	password := chi.URLParam(r, "password")
	// chi matches on RawPath when it is set, leaving the param escaped.
	if r.URL.RawPath != "" {
		p, err := url.PathUnescape(password)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid password encoding")
			return
		}
		password = p
	}
	if password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "password is required")
		return
	}
	writeJSON(w, http.StatusOK, h.AdvisorService.CheckBreach(r.Context(), password))
}

// Suggest handles POST /ai/suggest.
func (h *AdvisorHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Suggestions: h.AdvisorService.Suggest(r.Context(), req.Context)})
}
