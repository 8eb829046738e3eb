package video

import (
	"fmt"
	"slices"
	"sync"
)

// Factory creates a fresh, uninitialized backend.
type Factory func() RenderBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
)

// Register makes a backend available by name. Backend packages call it from
// init(). Registering an existing name replaces it.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend. Used by tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// New creates an uninitialized backend by name.
func New(name string) (RenderBackend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrBackendNotAvailable, name, Available())
	}
	return factory(), nil
}
