package reactive

// Reaction is an effect tied to the graph: its function runs under
// dependency tracking, and whenever one of the observed sources changes the
// function is scheduled to run again at the end of the outermost batch.
type Reaction struct {
	g         *Graph
	fn        func()
	tracker   tracker
	scheduled bool
	disposed  bool
}

// NewReaction creates a reaction without running it. Call Run to execute it
// once and establish its initial dependency set.
func (g *Graph) NewReaction(fn func()) *Reaction {
	r := &Reaction{g: g, fn: fn}
	r.tracker.owner = r
	return r
}

// Run executes the reaction immediately, re-establishing its dependencies.
func (r *Reaction) Run() {
	if r.disposed {
		return
	}
	r.run()
}

func (r *Reaction) run() {
	r.g.track(&r.tracker, r.fn)
}

// invalidate schedules the reaction for the end of the outermost batch.
func (r *Reaction) invalidate() {
	r.g.schedule(r)
}

// Dispose unhooks the reaction from all of its dependencies. A disposed
// reaction never runs again; Dispose is idempotent.
func (r *Reaction) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for s := range r.tracker.deps {
		s.removeObserver(r)
	}
	r.tracker.deps = nil
}
