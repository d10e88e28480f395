package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/middleware"
	"github.com/atinyakov/SecureVault/internal/models"
	"github.com/atinyakov/SecureVault/internal/service"
)

// VaultService defines the record operations required by the VaultHandler.
// userID is the authenticated user taken from the request context.
type VaultService interface {
	ListCredentials(ctx context.Context, userID string) ([]models.Credential, error)
	AddCredential(ctx context.Context, userID string, in models.CredentialInput) (models.Credential, error)
	DeleteCredential(ctx context.Context, userID string, id models.ID) error
	ListSeeds(ctx context.Context, userID string) ([]models.SeedPhrase, error)
	AddSeed(ctx context.Context, userID string, in models.SeedPhraseInput) (models.SeedPhrase, error)
	DeleteSeed(ctx context.Context, userID string, id models.ID) error
}

// VaultHandler serves /vault and /seed. Every route runs behind BearerAuth.
type VaultHandler struct {
	VaultService VaultService
	Log          *zap.Logger
}

// ListCredentials handles GET /vault.
func (h *VaultHandler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	list, err := h.VaultService.ListCredentials(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		internalError(w, h.Log, "list credentials", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AddCredential handles POST /vault and responds 201 with the stored record.
func (h *VaultHandler) AddCredential(w http.ResponseWriter, r *http.Request) {
	var in models.CredentialInput
	if err := decodeBody(r, &in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	c, err := h.VaultService.AddCredential(r.Context(), middleware.GetUserIDFromContext(r.Context()), in)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeDetail(w, http.StatusUnprocessableEntity, "title, username and password are required")
	case err != nil:
		internalError(w, h.Log, "add credential", err)
	default:
		writeJSON(w, http.StatusCreated, c)
	}
}

// DeleteCredential handles DELETE /vault/{id}.
func (h *VaultHandler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	err := h.VaultService.DeleteCredential(r.Context(), middleware.GetUserIDFromContext(r.Context()), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Credential not found")
	case err != nil:
		internalError(w, h.Log, "delete credential", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListSeeds handles GET /seed.
func (h *VaultHandler) ListSeeds(w http.ResponseWriter, r *http.Request) {
	list, err := h.VaultService.ListSeeds(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		internalError(w, h.Log, "list seeds", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AddSeed handles POST /seed.
func (h *VaultHandler) AddSeed(w http.ResponseWriter, r *http.Request) {
	var in models.SeedPhraseInput
	if err := decodeBody(r, &in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	p, err := h.VaultService.AddSeed(r.Context(), middleware.GetUserIDFromContext(r.Context()), in)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeDetail(w, http.StatusUnprocessableEntity, "label and seed_phrase are required")
	case err != nil:
		internalError(w, h.Log, "add seed", err)
	default:
		writeJSON(w, http.StatusCreated, p)
	}
}

// DeleteSeed handles DELETE /seed/{id}.
func (h *VaultHandler) DeleteSeed(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	err := h.VaultService.DeleteSeed(r.Context(), middleware.GetUserIDFromContext(r.Context()), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Seed phrase not found")
	case err != nil:
		internalError(w, h.Log, "delete seed", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
