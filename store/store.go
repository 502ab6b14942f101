package store

import (
	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/model"
	"github.com/hupe1980/statetree/reactive"
)

// Store is a node in a presentation tree, parallel in shape to a model
// tree but reconciled rather than directly mutated. Calling code never
// constructs one; describe it with a Descriptor and let Mount or a parent
// getter realize it.
type Store struct {
	instID string
	typ    *Type
	g      *reactive.Graph
	key    string

	props map[string]*reactive.Atom

	parent *Store
	slot   string

	ctx      *reactive.Computed
	children map[string]*childSlot

	mounted   bool
	reactions []*reactive.Reaction
}

func realize(g *reactive.Graph, desc *Descriptor) *Store {
	s := &Store{
		instID:   core.NewID(),
		typ:      desc.Type,
		g:        g,
		key:      desc.Key,
		props:    map[string]*reactive.Atom{},
		children: map[string]*childSlot{},
	}
	for k, v := range desc.Props {
		s.props[k] = g.NewAtom(v)
	}
	return s
}

// Type returns the store's type.
func (s *Store) Type() *Type { return s.typ }

// Key returns the identity hint the store was described with ("" when
// unkeyed).
func (s *Store) Key() string { return s.key }

// InstanceID returns the unique instance identifier assigned at
// realization.
func (s *Store) InstanceID() string { return s.instID }

// Parent returns the parent store, or nil for a root.
func (s *Store) Parent() *Store { return s.parent }

// Mounted reports whether the store is currently mounted.
func (s *Store) Mounted() bool { return s.mounted }

func (s *Store) ensureProp(name string) *reactive.Atom {
	a, ok := s.props[name]
	if !ok {
		// a missing prop still gets an atom so readers observe it
		// appearing in a later update
		a = s.g.NewAtom(nil)
		s.props[name] = a
	}
	return a
}

// Prop reads a prop value. Tracked: getters and reactions reading a prop
// re-evaluate when the reconciler refreshes it.
func (s *Store) Prop(name string) any {
	return s.ensureProp(name).Get()
}

// Model reads a model-binding prop as a typed pointer (nil when absent or
// not a model).
func (s *Store) Model(name string) *model.Model {
	m, _ := s.Prop(name).(*model.Model)
	return m
}

// UpdateProps refreshes the store's props in place from a descriptor's
// prop set: provided keys are written (identical values do not propagate),
// previously present keys absent from the update are cleared to nil. This
// is the "stable identity, refreshed props" path — no remount happens.
func (s *Store) UpdateProps(props map[string]any) {
	s.g.Batch(func() {
		for k, v := range props {
			s.ensureProp(k).Set(v)
		}
		for k, a := range s.props {
			if _, ok := props[k]; !ok {
				a.Set(nil)
			}
		}
	})
}

// Context returns the read-only context: the parent's context merged with
// this store's own declared contribution. It is only meaningful once the
// store is mounted; before that it returns nil. Tracked.
func (s *Store) Context() map[string]any {
	if s.ctx == nil {
		return nil
	}
	ctx, _ := s.ctx.Get().(map[string]any)
	return ctx
}

// Children returns the materialized child stores for a declared getter, in
// descriptor order. Tracked: the list republishes when a child is added,
// removed or a keyed child changes position.
func (s *Store) Children(name string) []*Store {
	slot, ok := s.children[name]
	if !ok {
		return nil
	}
	stores, _ := slot.out.Get().([]*Store)
	return append([]*Store(nil), stores...)
}

// Child returns the single materialized child for a declared getter, or
// nil. Tracked.
func (s *Store) Child(name string) *Store {
	stores := s.Children(name)
	if len(stores) == 0 {
		return nil
	}
	return stores[0]
}

// Autorun registers an ad hoc reaction owned by this store: fn runs once
// immediately and again whenever a tracked dependency changes. The
// reaction is disposed automatically on unmount; the returned disposer
// stops it earlier.
func (s *Store) Autorun(fn func()) func() {
	r := s.g.NewReaction(fn)
	s.reactions = append(s.reactions, r)
	r.Run()
	return r.Dispose
}
