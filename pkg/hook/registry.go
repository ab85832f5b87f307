// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"iter"
	"maps"
	"slices"

	"github.com/hookwire/hookwire/pkg/vid"
)

// Registry maps virtual identifiers to hooks in a fixed iteration order.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	ids   []vid.ID
	hooks map[vid.ID]*Hook
}

// NewRegistry keys each hook by its prefixed absolute identifier. A later
// hook with the same identifier replaces an earlier one but keeps the
// earlier one's position. Nil hooks are skipped.
func NewRegistry(gen vid.Generator, hooks ...*Hook) *Registry {
	r := &Registry{hooks: make(map[vid.ID]*Hook, len(hooks))}
	for _, h := range hooks {
		if h == nil {
			continue
		}
		id := gen.Generate(h.FilePath, vid.AbsolutePrefixed)
		if _, exists := r.hooks[id]; !exists {
			r.ids = append(r.ids, id)
		}
		r.hooks[id] = h
	}
	return r
}

// RegistryFromMap uses an already-keyed map as-is. Keys are trusted and not
// re-derived. Iteration order is lexical by identifier.
func RegistryFromMap(m map[vid.ID]*Hook) *Registry {
	r := &Registry{
		ids:   slices.Sorted(maps.Keys(m)),
		hooks: make(map[vid.ID]*Hook, len(m)),
	}
	maps.Copy(r.hooks, m)
	return r
}

// Get returns the hook registered under id.
func (r *Registry) Get(id vid.ID) (*Hook, bool) {
	h, ok := r.hooks[id]
	return h, ok
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int { return len(r.ids) }

// IDs returns the registered identifiers in iteration order.
func (r *Registry) IDs() []vid.ID { return slices.Clone(r.ids) }

// All iterates identifiers and hooks in registry order.
func (r *Registry) All() iter.Seq2[vid.ID, *Hook] {
	return func(yield func(vid.ID, *Hook) bool) {
		for _, id := range r.ids {
			if !yield(id, r.hooks[id]) {
				return
			}
		}
	}
}
