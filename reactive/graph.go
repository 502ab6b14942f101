package reactive

import "reflect"

// Graph owns all reactive state: the tracking scope, the batch depth and
// the set of reactions pending a re-run. Atoms, computeds and reactions
// belong to exactly one graph; linking state across graphs is a programming
// error.
type Graph struct {
	active     *tracker // derivation currently collecting dependencies
	batchDepth int
	pending    []*Reaction
	flushing   bool
}

// NewGraph creates an empty reactive graph.
func NewGraph() *Graph { return &Graph{} }

// source is anything a derivation can depend on.
type source interface {
	addObserver(observer)
	removeObserver(observer)
}

// observer is anything that reacts to a source invalidation.
type observer interface {
	invalidate()
}

// tracker collects the dependencies observed while a derivation runs.
type tracker struct {
	owner observer
	deps  map[source]struct{}
}

// Batch opens a transaction boundary. Mutations performed inside fn
// invalidate derivations immediately but reactions only run once, when the
// outermost batch exits. Listeners therefore never observe a
// partially-applied multi-step mutation.
func (g *Graph) Batch(fn func()) {
	g.batchDepth++
	defer g.endBatch()
	fn()
}

func (g *Graph) startBatch() { g.batchDepth++ }

func (g *Graph) endBatch() {
	g.batchDepth--
	if g.batchDepth == 0 {
		g.flush()
	}
}

// Untracked runs fn without dependency collection. Reads performed inside
// fn do not become dependencies of the enclosing derivation.
func (g *Graph) Untracked(fn func()) {
	prev := g.active
	g.active = nil
	defer func() { g.active = prev }()
	fn()
}

// track runs fn collecting its source reads into t, then drops edges to
// sources the run no longer touched.
func (g *Graph) track(t *tracker, fn func()) {
	old := t.deps
	t.deps = make(map[source]struct{}, len(old))

	prev := g.active
	g.active = t
	defer func() {
		g.active = prev
		for s := range old {
			if _, still := t.deps[s]; !still {
				s.removeObserver(t.owner)
			}
		}
	}()

	fn()
}

// record registers s as a dependency of the active derivation, if any.
func (g *Graph) record(s source) {
	if g.active == nil {
		return
	}
	if _, ok := g.active.deps[s]; ok {
		return
	}
	g.active.deps[s] = struct{}{}
	s.addObserver(g.active.owner)
}

func (g *Graph) schedule(r *Reaction) {
	if r.scheduled || r.disposed {
		return
	}
	r.scheduled = true
	g.pending = append(g.pending, r)
}

// flush runs pending reactions until the set drains. Reactions may mutate
// atoms and thereby schedule further reactions; those are picked up by the
// outer loop rather than recursing.
func (g *Graph) flush() {
	if g.flushing {
		return
	}
	g.flushing = true
	defer func() { g.flushing = false }()

	for len(g.pending) > 0 {
		batch := g.pending
		g.pending = nil
		for _, r := range batch {
			r.scheduled = false
			if !r.disposed {
				r.run()
			}
		}
	}
}

// identical reports whether two values are the same by identity/value
// equality. Values of non-comparable dynamic types (slices, maps, funcs)
// are never identical; change detection for those is the caller's concern.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
