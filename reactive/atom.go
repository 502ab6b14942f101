package reactive

// Atom is a mutable observable cell. Reading it under a tracking scope
// records a dependency; writing it invalidates everything that depends on
// it, directly or through computed values.
type Atom struct {
	g         *Graph
	value     any
	observers map[observer]struct{}
}

// NewAtom creates an atom holding the given initial value.
func (g *Graph) NewAtom(value any) *Atom {
	return &Atom{g: g, value: value, observers: map[observer]struct{}{}}
}

// Get returns the current value, recording a dependency when evaluated
// under a tracking scope.
func (a *Atom) Get() any {
	a.g.record(a)
	return a.value
}

// Peek returns the current value without dependency tracking.
func (a *Atom) Peek() any { return a.value }

// Set replaces the value. Writes of a value identical to the current one do
// not propagate. The invalidation runs inside an implicit batch, so calling
// Set outside an explicit Batch still flushes reactions exactly once.
func (a *Atom) Set(value any) {
	if identical(a.value, value) {
		return
	}
	a.value = value

	a.g.startBatch()
	for o := range a.observers {
		o.invalidate()
	}
	a.g.endBatch()
}

func (a *Atom) addObserver(o observer)    { a.observers[o] = struct{}{} }
func (a *Atom) removeObserver(o observer) { delete(a.observers, o) }
