// Package statetree provides a high-level façade over the model and store
// administration layers (reactive entity trees, identifier registries,
// snapshots and keyed reconciliation). Most applications interact with
// this package by:
//  1. Creating a StateTree via New() (optionally overriding the logger)
//  2. Declaring model types (model.NewType) and store types (store.NewType)
//  3. Creating model trees (CreateModel / model.Type.Create) and mounting
//     store trees from descriptors (Mount)
//
// The façade bundles the reactive graph all entities share and keeps setup
// ergonomics concise. All defaults are safe for local development and
// testing; applications that want structured output supply a logger.
package statetree

import (
	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/logging"
	"github.com/hupe1980/statetree/model"
	"github.com/hupe1980/statetree/reactive"
	"github.com/hupe1980/statetree/store"
)

// Snapshot is re-exported for convenience.
type Snapshot = core.Snapshot

// Options configures the StateTree instance.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// StateTree bundles the shared reactive graph and logger. All entities
// created through one StateTree belong to the same single-threaded
// cooperative universe; trees from different StateTrees cannot be linked.
type StateTree struct {
	graph  *reactive.Graph
	logger logging.Logger
}

// New creates a StateTree with optional overrides.
func New(opts *Options) *StateTree {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &StateTree{graph: reactive.NewGraph(), logger: logger}
}

// Graph returns the shared reactive graph.
func (st *StateTree) Graph() *reactive.Graph { return st.graph }

// Logger returns the configured logger.
func (st *StateTree) Logger() logging.Logger { return st.logger }

// Batch runs fn inside one transaction: listeners observe either none or
// all of its mutations.
func (st *StateTree) Batch(fn func()) { st.graph.Batch(fn) }

// CreateModel constructs a model instance of t on this tree's graph,
// applying snap first when non-nil.
func (st *StateTree) CreateModel(t *model.Type, snap core.Snapshot, args ...any) (*model.Model, error) {
	return t.Create(st.graph, snap, args...)
}

// Mount realizes a store descriptor as a root store and mounts it.
func (st *StateTree) Mount(desc *store.Descriptor) *store.Store {
	return store.Mount(st.graph, desc)
}

// Unmount tears down a mounted store tree.
func (st *StateTree) Unmount(s *store.Store) {
	store.Unmount(s)
}

// Autorun registers a standalone reaction: fn runs once immediately and
// again whenever a tracked dependency changes. The returned disposer stops
// it.
func (st *StateTree) Autorun(fn func()) func() {
	r := st.graph.NewReaction(fn)
	r.Run()
	return r.Dispose
}

// OnSnapshotChange subscribes cb to snapshot changes of m, one call per
// completed transaction. The returned disposer stops the notifications.
func (st *StateTree) OnSnapshotChange(m *model.Model, cb func(snap core.Snapshot, instance *model.Model)) func() {
	return m.OnSnapshotChange(cb)
}
