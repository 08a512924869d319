package refract

import (
	"sync"

	"github.com/apib/refract/warning"
)

// Registry is the name → owned element map populated by the caller before
// lowering begins and treated as read-only afterward. Access is guarded by
// a mutex even though a single conversion is single-threaded end to end;
// this keeps the type safe to share across conversions run from separate
// goroutines.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Element
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Element)}
}

// Add registers e under its meta.id. It returns a *warning.RegistryNoIDError
// if e has no meta.id, and a *warning.RegistryReservedIDError if meta.id
// names a reserved variant. It returns (false, nil) if the id was already present
// — the first definition wins — and (true, nil) on insert.
func (r *Registry) Add(e *Element) (bool, error) {
	id, ok := e.MetaID()
	if !ok || id == "" {
		return false, &warning.RegistryNoIDError{}
	}
	if IsReserved(id) {
		return false, &warning.RegistryReservedIDError{Name: id}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[id]; exists {
		return false, nil
	}
	r.byName[id] = e
	return true, nil
}

// Find returns the element registered under name, if any. The returned
// pointer is borrowed and valid for the Registry's lifetime.
func (r *Registry) Find(name string) (*Element, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// RootAncestor follows name's element-name chain through the registry
// until it reaches an element whose own name is reserved, or a cycle, or
// an unregistered name.
func (r *Registry) RootAncestor(name string) *Element {
	seen := map[string]bool{}
	cur := name
	var last *Element
	for {
		el, ok := r.Find(cur)
		if !ok {
			return last
		}
		last = el
		if IsReserved(el.ElementName) {
			return el
		}
		if seen[cur] {
			return last
		}
		seen[cur] = true
		cur = el.ElementName
	}
}
