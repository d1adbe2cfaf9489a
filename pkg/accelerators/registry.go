package accelerators

import (
	"sync"
)

// Registry holds the known accelerators in probe priority order. The order of
// registration is the order in which FirstAvailable probes; the auto selection
// therefore prefers accelerators registered earlier.
type Registry struct {
	mu    sync.RWMutex
	order []string
	accs  map[string]Accelerator
}

// NewRegistry creates an empty accelerator registry.
func NewRegistry() *Registry {
	return &Registry{
		accs: make(map[string]Accelerator),
	}
}

// Register adds an accelerator. Re-registering a name replaces the previous
// entry but keeps its original priority position.
func (r *Registry) Register(acc Accelerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := acc.Name()
	if _, ok := r.accs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.accs[name] = acc
}

// Get returns the accelerator registered under name.
func (r *Registry) Get(name string) (Accelerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accs[name]
	return acc, ok
}

// Names lists the registered accelerator names in priority order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Lookup resolves an explicit accelerator name, failing with
// InvalidAcceleratorError for unknown names and AcceleratorUnavailableError
// when the probe fails.
func (r *Registry) Lookup(name string) (Accelerator, error) {
	acc, ok := r.Get(name)
	if !ok {
		return nil, &InvalidAcceleratorError{Name: name, Known: r.Names()}
	}
	if !acc.IsAvailable() {
		return nil, &AcceleratorUnavailableError{Name: name}
	}
	return acc, nil
}

// FirstAvailable probes accelerators in priority order and returns the first
// one whose availability probe succeeds.
func (r *Registry) FirstAvailable() (Accelerator, error) {
	r.mu.RLock()
	ordered := make([]Accelerator, 0, len(r.order))
	for _, name := range r.order {
		ordered = append(ordered, r.accs[name])
	}
	r.mu.RUnlock()

	for _, acc := range ordered {
		if acc.IsAvailable() {
			return acc, nil
		}
	}
	return nil, &AcceleratorUnavailableError{Name: "auto"}
}
