package personality

// Registry exposes personality lookup for the relay and HTTP handlers.
type Registry interface {
	Resolve(id string) Descriptor
	List() []Summary
	Has(id string) bool
}

// MemoryRegistry implements Registry over a fixed in-memory table.
type MemoryRegistry struct {
	items    []Descriptor
	index    map[string]int
	fallback Descriptor
}

// NewMemoryRegistry returns a registry preloaded with the supplied descriptors.
// The descriptor with DefaultID is the fallback; if it is missing the first
// item is used instead.
func NewMemoryRegistry(items []Descriptor) *MemoryRegistry {
	r := &MemoryRegistry{
		items: append([]Descriptor(nil), items...),
		index: make(map[string]int, len(items)),
	}
	for i, item := range r.items {
		if _, dup := r.index[item.ID]; dup {
			continue
		}
		r.index[item.ID] = i
	}

	if i, ok := r.index[DefaultID]; ok {
		r.fallback = r.items[i]
	} else if len(r.items) > 0 {
		r.fallback = r.items[0]
	}
	return r
}

// Resolve returns the descriptor for id, or the default one when id is unknown.
func (r *MemoryRegistry) Resolve(id string) Descriptor {
	if i, ok := r.index[id]; ok {
		return r.items[i]
	}
	return r.fallback
}

// Has reports whether id is registered.
func (r *MemoryRegistry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// List returns the registered personalities in table order.
func (r *MemoryRegistry) List() []Summary {
	out := make([]Summary, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item.Summary())
	}
	return out
}
