package generation

import (
	"fmt"
	"sort"

	"github.com/phrazzld/scry-relay/internal/domain"
)

// Registry holds the available providers and the name of the active one.
// It is populated at startup and read-only afterwards, so concurrent requests
// may call Select freely.
type Registry struct {
	active  string
	entries map[string]entry
}

type entry struct {
	provider Provider
	rates    domain.Rates
}

// NewRegistry creates an empty registry whose Select returns the provider
// registered under active.
func NewRegistry(active string) *Registry {
	return &Registry{
		active:  active,
		entries: make(map[string]entry),
	}
}

// Register adds p, priced at rates, under p.Name(). A later registration with
// the same name replaces the earlier one.
func (r *Registry) Register(p Provider, rates domain.Rates) {
	r.entries[p.Name()] = entry{provider: p, rates: rates}
}

// Select returns the active provider and its rates. It returns
// ErrConfiguration if no provider is registered under the active name.
func (r *Registry) Select() (Provider, domain.Rates, error) {
	e, ok := r.entries[r.active]
	if !ok {
		return nil, domain.Rates{}, fmt.Errorf("%w: unknown provider %q", ErrConfiguration, r.active)
	}
	return e.provider, e.rates, nil
}

// Active returns the configured provider name.
func (r *Registry) Active() string {
	return r.active
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
