package estimator

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs an estimator from a validated configuration.
type Factory func(cfg Config) (Estimator, error)

// Registry maps estimator names to factories. Construct one at startup and
// pass it to the controllers; there is no package-global registry, so tests
// can build isolated instances.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("estimator name must not be empty")
	}
	if f == nil {
		return fmt.Errorf("estimator %q: factory must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("estimator %q is already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New constructs the named estimator with cfg. An unregistered name is an
// error, never a silent no-op.
func (r *Registry) New(name string, cfg Config) (Estimator, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("estimator %q is not registered", name)
	}

	est, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("constructing estimator %q: %w", name, err)
	}
	return est, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with every built-in estimator registered.
func Default() *Registry {
	r := NewRegistry()
	builtins := map[string]Factory{
		TickAverageRealisedVariance:         newTickRealisedVariance,
		CloseToCloseStdDeviation:            newCloseToCloseStd,
		CloseToCloseAverageRealisedVariance: newCloseToCloseRealisedVariance,
		YangZhang:                           newYangZhang,
	}
	for name, f := range builtins {
		if err := r.Register(name, f); err != nil {
			// Built-in names are distinct; a collision is a programming error.
			panic(err)
		}
	}
	return r
}
