package api

import (
	"net/http"

	"github.com/phrazzld/scry-relay/internal/api/shared"
	"github.com/phrazzld/scry-relay/internal/generation"
)

// ProviderHandler reports which providers the server can use.
type ProviderHandler struct {
	registry *generation.Registry
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(registry *generation.Registry) *ProviderHandler {
	return &ProviderHandler{registry: registry}
}

// ListProviders handles GET /api/providers requests
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ProvidersResponse{
		Active:    h.registry.Active(),
		Available: h.registry.Names(),
	})
}
