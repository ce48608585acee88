// Package httpapi exposes the content-licensing program over HTTP. Reads are
// public; instructions require a bearer token whose subject is the signer.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/drm/internal/program"
)

// Handler binds HTTP routes to a Program.
type Handler struct {
	program  *program.Program
	auth     *Authenticator
	logger   *zap.Logger
	decimals int32
}

// NewHandler returns a Handler. decimals is the payment mint precision used
// to parse and format human token amounts.
func NewHandler(p *program.Program, auth *Authenticator, logger *zap.Logger, decimals int32) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{program: p, auth: auth, logger: logger, decimals: decimals}
}

// NewRouter registers routes and the middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", h.healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/registry", h.getRegistry)
		r.Get("/contents", h.listContents)
		r.Get("/contents/{contentID}", h.getContent)
		r.Get("/licenses", h.listLicenses)
		r.Get("/licenses/{licenseID}", h.getLicense)
		r.Get("/packages", h.listPackages)
		r.Get("/packages/{name}", h.getPackage)
		r.Get("/tokens", h.listBalances)
		r.Get("/tokens/{owner}", h.getBalance)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)
			r.Post("/registry", h.initialize)
			r.Post("/contents", h.createContent)
			r.Patch("/contents/{contentID}", h.updateContent)
			r.Post("/licenses", h.purchaseLicense)
			r.Post("/licenses/{licenseID}/verify", h.verifyAccess)
			r.Post("/licenses/{licenseID}/revoke", h.revokeLicense)
			r.Post("/packages", h.registerPackage)
			r.Patch("/packages/{name}", h.updatePackage)
			r.Post("/tokens", h.mintTokens)
		})
	})

	return r
}
