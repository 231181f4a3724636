package controller

import (
	"fmt"
	"sort"
	"sync"
)

// Subsystem describes one robot subsystem visible to the terminal.
type Subsystem struct {
	Name        string
	Description string
	Status      string
}

// Device describes one hardware device visible to the terminal.
type Device struct {
	Name string
	Type string
	Port int
}

// Registry is a named collection of items owned by the robot program
// and read by remote commands. Registration happens during robot init;
// lookups may come from the executor at any time afterwards.
type Registry[T any] struct {
	kind string

	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry creates an empty registry. kind names the item type in
// error messages ("subsystem", "device").
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

// Add registers an item under a unique name.
func (r *Registry[T]) Add(name string, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[name]; exists {
		return fmt.Errorf("%s %q already registered", r.kind, name)
	}
	r.items[name] = item
	return nil
}

// Get looks an item up by name.
func (r *Registry[T]) Get(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[name]
	return item, ok
}

// Names returns all registered names, sorted.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered items.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
