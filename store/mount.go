package store

import "github.com/hupe1980/statetree/reactive"

// Mount realizes a descriptor as a root store and mounts it: child getters
// start their tracked listeners (recursively materializing and mounting
// the initial child tree), then the did-mount hooks run, all inside one
// transaction.
func Mount(g *reactive.Graph, desc *Descriptor) *Store {
	var s *Store
	g.Batch(func() {
		s = realize(g, desc)
		s.mount(nil, "")
	})
	return s
}

// Unmount tears a store down: will-unmount hooks run, children unmount
// recursively, reconciliation listeners and ad hoc reactions are disposed
// and the store detaches from its parent, all inside one transaction.
// Unmounting an already unmounted store is a no-op.
func Unmount(s *Store) {
	s.g.Batch(s.unmount)
}

func (s *Store) mountChild(slot string, desc *Descriptor) *Store {
	child := realize(s.g, desc)
	child.mount(s, slot)
	return child
}

func (s *Store) mount(parent *Store, slot string) {
	s.parent = parent
	s.slot = slot

	s.ctx = s.g.NewComputed(func() any {
		merged := map[string]any{}
		if s.parent != nil {
			for k, v := range s.parent.Context() {
				merged[k] = v
			}
		}
		if s.typ.context != nil {
			for k, v := range s.typ.context(s) {
				merged[k] = v
			}
		}
		return merged
	})

	for _, spec := range s.typ.children {
		s.startSlot(spec)
	}

	s.mounted = true
	if s.typ.didMount != nil {
		s.typ.didMount(s)
	}
	s.typ.logger.Debug("store mounted", "type", s.typ.name, "slot", slot, "key", s.key)
}

func (s *Store) unmount() {
	if !s.mounted {
		return
	}

	if s.typ.willUnmount != nil {
		s.typ.willUnmount(s)
	}

	for _, slot := range s.children {
		slot.reaction.Dispose()
		for _, mc := range slot.mounted {
			mc.store.unmount()
		}
		slot.mounted = nil
	}
	for _, r := range s.reactions {
		r.Dispose()
	}
	s.reactions = nil

	s.mounted = false
	s.parent = nil
	s.typ.logger.Debug("store unmounted", "type", s.typ.name, "key", s.key)
}
