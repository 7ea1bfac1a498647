package artifact

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Store persists a finished report artifact under its display name. The
// backend appends its own extension or key layout.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
}

// Factory builds a Store from a backend-specific target: a directory for fs,
// a bucket name for s3, a container URL for azblob.
type Factory func(target string) (Store, error)

// Registry manages artifact store factories keyed by backend name.
type Registry interface {
	// Register adds a new backend factory
	Register(backend string, factory Factory) error
	// Create instantiates a store for the specified backend and target
	Create(backend, target string) (Store, error)
	// ListBackends returns a sorted list of registered backends
	ListBackends() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new artifact store registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]Factory),
	}
}

func (r *registry) Register(backend string, factory Factory) error {
	if backend == "" {
		return fmt.Errorf("backend name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[backend]; exists {
		return fmt.Errorf("backend %q is already registered", backend)
	}

	r.factories[backend] = factory
	return nil
}

func (r *registry) Create(backend, target string) (Store, error) {
	r.mu.RLock()
	factory, exists := r.factories[backend]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("backend %q is not registered", backend)
	}

	return factory(target)
}

func (r *registry) ListBackends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backends := make([]string, 0, len(r.factories))
	for backend := range r.factories {
		backends = append(backends, backend)
	}
	sort.Strings(backends)
	return backends
}
