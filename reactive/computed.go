package reactive

// Computed is a derived value: a function over other observables whose
// result is memoized. Invalidation is pushed eagerly through the computed
// chain when a dependency changes; recomputation happens lazily on the next
// Get, never eagerly on every write.
type Computed struct {
	g         *Graph
	fn        func() any
	value     any
	stale     bool
	computed  bool
	tracker   tracker
	observers map[observer]struct{}
}

// NewComputed creates a computed value over fn. fn runs under dependency
// tracking on each (re)computation, so its dependency set follows whatever
// it actually reads.
func (g *Graph) NewComputed(fn func() any) *Computed {
	c := &Computed{g: g, fn: fn, stale: true, observers: map[observer]struct{}{}}
	c.tracker.owner = c
	return c
}

// Get returns the memoized value, recomputing first if a dependency changed
// since the last computation. Reading under a tracking scope records a
// dependency on this computed.
func (c *Computed) Get() any {
	c.g.record(c)
	if c.stale || !c.computed {
		c.g.track(&c.tracker, func() { c.value = c.fn() })
		c.stale = false
		c.computed = true
	}
	return c.value
}

// invalidate marks the value stale and propagates to observers. A computed
// already marked stale stops the wave: its observers were notified when it
// first went stale.
func (c *Computed) invalidate() {
	if c.stale {
		return
	}
	c.stale = true
	for o := range c.observers {
		o.invalidate()
	}
}

func (c *Computed) addObserver(o observer)    { c.observers[o] = struct{}{} }
func (c *Computed) removeObserver(o observer) { delete(c.observers, o) }
