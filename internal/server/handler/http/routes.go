package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/SecureVault/internal/middleware"
)

// NewRouter constructs the backend API handler.
//
// Routes:
//
//	POST   /auth/register     → authHandler.Register
//	POST   /auth/login        → authHandler.Login
//	GET    /breach/{password} → advisorHandler.Breach
//	POST   /ai/suggest        → advisorHandler.Suggest
//	POST   /auth/logout       → authHandler.Logout        (bearer)
//	GET    /vault             → vaultHandler.ListCredentials (bearer)
//	POST   /vault             → vaultHandler.AddCredential   (bearer)
//	DELETE /vault/{id}        → vaultHandler.DeleteCredential (bearer)
//	GET    /seed              → vaultHandler.ListSeeds    (bearer)
//	POST   /seed              → vaultHandler.AddSeed      (bearer)
//	DELETE /seed/{id}         → vaultHandler.DeleteSeed   (bearer)
//
// Middleware chain (applied in order):
//  1. Recoverer
//  2. AllowContentType("application/json") for requests with a body
//  3. WithRequestLogging(logger)
//  4. BearerAuth(auth) on the protected group
func NewRouter(
	authHandler *AuthHandler,
	vaultHandler *VaultHandler,
	advisorHandler *AdvisorHandler,
	auth middleware.Authenticator,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(middleware.WithRequestLogging(logger))

	// Public endpoints
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Get("/breach/{password}", advisorHandler.Breach)
	r.Post("/ai/suggest", advisorHandler.Suggest)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(auth))

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/vault", vaultHandler.ListCredentials)
		r.Post("/vault", vaultHandler.AddCredential)
		r.Delete("/vault/{id}", vaultHandler.DeleteCredential)

		r.Get("/seed", vaultHandler.ListSeeds)
		r.Post("/seed", vaultHandler.AddSeed)
		r.Delete("/seed/{id}", vaultHandler.DeleteSeed)
	})

	return r
}
