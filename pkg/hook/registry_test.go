// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"slices"
	"testing"

	"github.com/hookwire/hookwire/pkg/vid"
)

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	gen := vid.Generator{Root: "/proj"}
	first := &Hook{FilePath: "src/a.scss"}
	second := &Hook{FilePath: "/proj/src/b.scss"}
	replacement := &Hook{FilePath: "/proj/src/a.scss"}

	r := NewRegistry(gen, first, nil, second, replacement)

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	want := []vid.ID{"virtual:hookwire:/proj/src/a.scss", "virtual:hookwire:/proj/src/b.scss"}
	if got := r.IDs(); !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}

	h, ok := r.Get(want[0])
	if !ok || h != replacement {
		t.Errorf("Get(%s) = %p, want later duplicate %p", want[0], h, replacement)
	}

	for id, h := range r.All() {
		if key := gen.Generate(h.FilePath, vid.AbsolutePrefixed); key != id {
			t.Errorf("registry key %s does not match its hook (%s)", id, key)
		}
	}
}

func TestRegistryFromMap(t *testing.T) {
	t.Parallel()

	a := &Hook{FilePath: "a"}
	b := &Hook{FilePath: "b"}
	// Keys are trusted as given, even when they do not match the path.
	m := map[vid.ID]*Hook{"zeta": a, "alpha": b}

	r := RegistryFromMap(m)
	if got, want := r.IDs(), []vid.ID{"alpha", "zeta"}; !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
	if h, _ := r.Get("zeta"); h != a {
		t.Error("Get(zeta) did not return the mapped hook")
	}

	// Mutating the source map after construction must not leak in.
	m["beta"] = a
	if _, ok := r.Get("beta"); ok {
		t.Error("registry observed a later map mutation")
	}
}

func TestRegistry_AllStopsEarly(t *testing.T) {
	t.Parallel()

	r := NewRegistry(vid.Generator{Root: "/"}, &Hook{FilePath: "/a"}, &Hook{FilePath: "/b"}, &Hook{FilePath: "/c"})
	n := 0
	for range r.All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterations = %d, want 1", n)
	}
}
