package action

import "sync"

// Registry holds action definitions keyed by type name. Register is
// last-writer-wins: a new definition under an existing name replaces the old
// one atomically, and in-flight dispatches keep the definition they already
// resolved.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
	}
}

// Register installs or replaces the definition for def.Type.
func (r *Registry) Register(def Definition) {
	r.mu.Lock()
	r.definitions[def.Type] = def
	r.mu.Unlock()
}

// Unregister removes the definition for a type; absent types are a no-op.
func (r *Registry) Unregister(actionType string) {
	r.mu.Lock()
	delete(r.definitions, actionType)
	r.mu.Unlock()
}

// Resolve returns the definition for a type.
func (r *Registry) Resolve(actionType string) (Definition, bool) {
	r.mu.RLock()
	def, ok := r.definitions[actionType]
	r.mu.RUnlock()
	return def, ok
}

// Has reports whether a type is registered.
func (r *Registry) Has(actionType string) bool {
	_, ok := r.Resolve(actionType)
	return ok
}

// Types returns a snapshot of all registered type names.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		out = append(out, name)
	}
	return out
}
