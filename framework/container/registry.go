package container

import (
	"fmt"
	"sync"
)

// serviceRegistry is the concurrent map from ServiceKey to Registration.
// The lock is held only for the duration of a single map operation, never
// across a resolve, so nested resolution cannot deadlock on it.
type serviceRegistry struct {
	mu      sync.RWMutex
	entries map[ServiceKey]*Registration
}

func newServiceRegistry() *serviceRegistry {
	return &serviceRegistry{entries: make(map[ServiceKey]*Registration)}
}

// Add inserts reg atomically, failing if its key is already taken.
func (r *serviceRegistry) Add(reg *Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[reg.Key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, reg.Key)
	}
	r.entries[reg.Key] = reg
	return nil
}

// TryGet looks a registration up by key.
func (r *serviceRegistry) TryGet(key ServiceKey) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[key]
	return reg, ok
}

// Contains reports whether a registration exists for key.
func (r *serviceRegistry) Contains(key ServiceKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns a snapshot of every registered key.
func (r *serviceRegistry) Keys() []ServiceKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]ServiceKey, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all registrations.
func (r *serviceRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[ServiceKey]*Registration)
}
