package provider

import (
	"fmt"
	"sort"

	"github.com/mhmtszr/concurrent-swiss-map"
)

type registryEntry struct {
	provider Provider
	priority int
	enabled  bool
	config   map[string]interface{}
}

// Registry manages all available providers
type Registry struct {
	entries *csmap.CsMap[string, *registryEntry]
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		entries: csmap.Create[string, *registryEntry](),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, provider Provider, priority int) error {
	if r.entries.Has(name) {
		return fmt.Errorf("provider %s already registered", name)
	}

	if err := ValidateCapabilities(provider.Capabilities()); err != nil {
		return fmt.Errorf("invalid provider capabilities for %s: %w", name, err)
	}

	r.entries.Store(name, &registryEntry{
		provider: provider,
		priority: priority,
	})
	return nil
}

// List returns all registered providers ordered by priority, then name
func (r *Registry) List() []Provider {
	type ranked struct {
		name     string
		priority int
		provider Provider
	}
	var all []ranked
	r.entries.Range(func(name string, entry *registryEntry) bool {
		all = append(all, ranked{name: name, priority: entry.priority, provider: entry.provider})
		return false
	})

	sort.Slice(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority > all[j].priority
		}
		return all[i].name < all[j].name
	})

	providers := make([]Provider, len(all))
	for i, rk := range all {
		providers[i] = rk.provider
	}
	return providers
}

// Configure applies configuration to a provider and stores it
func (r *Registry) Configure(name string, config map[string]interface{}) error {
	entry, ok := r.entries.Load(name)
	if !ok {
		return fmt.Errorf("provider %s not found", name)
	}

	if err := entry.provider.Configure(config); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}

	entry.config = config
	return nil
}

// Enable enables a provider. Providers that require auth must be configured first.
func (r *Registry) Enable(name string) error {
	entry, ok := r.entries.Load(name)
	if !ok {
		return fmt.Errorf("provider %s not found", name)
	}

	if entry.provider.Capabilities().RequiresAuth && len(entry.config) == 0 {
		return fmt.Errorf("provider %s requires configuration", name)
	}

	entry.enabled = true
	return nil
}

// Enabled returns a configured, enabled provider by name
func (r *Registry) Enabled(name string) (Provider, error) {
	entry, ok := r.entries.Load(name)
	if !ok {
		return nil, fmt.Errorf("provider %s not found", name)
	}
	if !entry.enabled {
		return nil, fmt.Errorf("provider %s is not enabled", name)
	}
	return entry.provider, nil
}
