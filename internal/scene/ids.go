package scene

import "fmt"

var idPrefixes = map[Kind]string{
	KindRectangle: "rect",
	KindCircle:    "circle",
	KindTriangle:  "triangle",
	KindLine:      "line",
	KindText:      "text",
}

// idAllocator hands out shape ids unique among the live shapes of one store.
// Counters are per kind and never go backwards.
type idAllocator struct {
	counters map[Kind]int
	live     map[string]struct{}
}

func newIDAllocator() *idAllocator {
	return &idAllocator{
		counters: make(map[Kind]int),
		live:     make(map[string]struct{}),
	}
}

// next returns "<prefix>-<n>" for the kind's next free counter value.
func (a *idAllocator) next(kind Kind) string {
	prefix, ok := idPrefixes[kind]
	if !ok {
		prefix = "shape"
	}
	for {
		a.counters[kind]++
		id := fmt.Sprintf("%s-%d", prefix, a.counters[kind])
		if !a.taken(id) {
			return id
		}
	}
}

// copyOf derives an id for a duplicate: "<id>-copy", then "<id>-copy-2"...
func (a *idAllocator) copyOf(id string) string {
	candidate := id + "-copy"
	for n := 2; a.taken(candidate); n++ {
		candidate = fmt.Sprintf("%s-copy-%d", id, n)
	}
	return candidate
}

func (a *idAllocator) taken(id string) bool {
	_, ok := a.live[id]
	return ok
}

func (a *idAllocator) reserve(id string) {
	a.live[id] = struct{}{}
}

func (a *idAllocator) release(id string) {
	delete(a.live, id)
}
