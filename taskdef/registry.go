package taskdef

import (
	"sort"
	"sync"
)

// Entry is what a Registry keeps about a definition.
type Entry interface {
	TaskName() string
	OutputTemplates() []string
}

// Registry records definitions by name so tools can look them up.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds e. A later entry with the same name replaces the earlier one.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := e.TaskName()
	if _, ok := r.entries[name]; !ok {
		r.order = append(r.order, name)
	}
	r.entries[name] = e
}

// Get retrieves an entry by name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// List returns sorted names of all registered entries.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Suggest returns, in registration order, the entries with an output
// template that could expand to path.
func (r *Registry) Suggest(path string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for _, name := range r.order {
		for _, tmpl := range r.entries[name].OutputTemplates() {
			if Pattern(tmpl).MatchString(path) {
				names = append(names, name)
				break
			}
		}
	}
	return names
}
