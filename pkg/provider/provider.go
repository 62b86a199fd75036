package provider

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/input-output-hk/bitte/pkg/types"
)

// Source lists the running members of a cluster from a cloud inventory
type Source interface {
	Fetch(ctx context.Context, cluster string, regions []string) ([]*types.Node, error)
}

// Factory creates a Source
type Factory func() (Source, error)

// Registry maps provider names to inventory source factories.
// Use Default for the process-wide registry providers add themselves to,
// or NewRegistry for isolated instances in tests.
type Registry struct {
	mu        sync.RWMutex
	factories map[types.Provider]Factory
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry
func Default() *Registry {
	return defaultRegistry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[types.Provider]Factory),
	}
}

// Register adds a provider. Registering the same name twice is an error.
func (r *Registry) Register(p types.Provider, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[p]; exists {
		return fmt.Errorf("provider %q already registered", p)
	}

	r.factories[p] = f
	return nil
}

// MustRegister is like Register but panics on error
func (r *Registry) MustRegister(p types.Provider, f Factory) {
	if err := r.Register(p, f); err != nil {
		panic(fmt.Sprintf("failed to register provider: %v", err))
	}
}

// New creates the inventory source for p. Unregistered providers wrap
// types.ErrConfigInvalid.
func (r *Registry) New(p types.Provider) (Source, error) {
	r.mu.RLock()
	f, ok := r.factories[p]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unsupported provider %q (supported: %v)", types.ErrConfigInvalid, p, r.List())
	}

	src, err := f()
	if err != nil {
		return nil, fmt.Errorf("failed to create %s inventory source: %w", p, err)
	}
	return src, nil
}

// List returns the registered provider names in sorted order
func (r *Registry) List() []types.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.Provider, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Register adds a provider to the default registry
func Register(p types.Provider, f Factory) {
	defaultRegistry.MustRegister(p, f)
}

// New creates an inventory source from the default registry
func New(p types.Provider) (Source, error) {
	return defaultRegistry.New(p)
}
