package store

import "github.com/hupe1980/statetree/reactive"

// childSlot holds the reconciliation state for one declared getter: the
// tracked listener, the currently mounted children and the published
// materialized list.
type childSlot struct {
	name     string
	spec     childSpec
	reaction *reactive.Reaction
	out      *reactive.Atom // []*Store, republished when membership or keyed order changes
	mounted  []*mountedChild
}

// mountedChild pairs a live child store with the identity information the
// diff matches on. The key is taken from the descriptor at mount time;
// descriptors produced later with the same key adopt this instance.
type mountedChild struct {
	store *Store
	key   string
	keyed bool
}

// startSlot installs the tracked listener for one getter and runs it once,
// materializing the initial children. Only the getter evaluation is
// tracked; the mounting and diffing work runs untracked so prop reads
// during mounting do not become dependencies of the listener.
func (s *Store) startSlot(spec childSpec) {
	slot := &childSlot{name: spec.name, spec: spec, out: s.g.NewAtom([]*Store{})}
	s.children[spec.name] = slot

	slot.reaction = s.g.NewReaction(func() {
		if spec.single != nil {
			desc := spec.single(s)
			s.g.Untracked(func() {
				s.g.Batch(func() { s.reconcileSingle(slot, desc) })
			})
			return
		}
		descs := spec.list(s)
		s.g.Untracked(func() {
			s.g.Batch(func() { s.reconcileList(slot, descs) })
		})
	})
	slot.reaction.Run()
}

// reconcileSingle diffs a single descriptor against the mounted child.
// Same key and same runtime type update the existing instance's props in
// place; anything else unmounts the old child (if any) and mounts a fresh
// instance from the descriptor.
func (s *Store) reconcileSingle(slot *childSlot, desc *Descriptor) {
	var cur *mountedChild
	if len(slot.mounted) > 0 {
		cur = slot.mounted[0]
	}

	if desc == nil {
		if cur != nil {
			cur.store.unmount()
			slot.mounted = nil
			slot.out.Set([]*Store{})
			s.typ.logger.Debug("reconciled slot", "slot", slot.name, "mounted", 0, "unmounted", 1)
		}
		return
	}

	if cur != nil && cur.store.typ == desc.Type && cur.key == desc.Key {
		cur.store.UpdateProps(desc.Props)
		return
	}

	unmounted := 0
	if cur != nil {
		cur.store.unmount()
		unmounted = 1
	}
	child := s.mountChild(slot.name, desc)
	slot.mounted = []*mountedChild{{store: child, key: desc.Key, keyed: desc.Key != ""}}
	slot.out.Set([]*Store{child})
	s.typ.logger.Debug("reconciled slot", "slot", slot.name, "mounted", 1, "unmounted", unmounted)
}

// reconcileList performs the keyed diff. For each descriptor position in
// order: keyed descriptors adopt a previously mounted child with the same
// key and runtime type wherever it sat; unkeyed descriptors only match the
// child previously at the same index with the same type. Unmatched
// previous children unmount. The materialized list republishes when any
// child was added or removed, or when a keyed child changed position among
// the keyed children — ordering is observable even when membership is not.
func (s *Store) reconcileList(slot *childSlot, descs []*Descriptor) {
	compact := descs[:0:0]
	for _, d := range descs {
		if d != nil {
			compact = append(compact, d)
		}
	}

	prev := slot.mounted
	prevByKey := make(map[string]*mountedChild, len(prev))
	prevKeyedIndex := make(map[*mountedChild]int, len(prev))
	ki := 0
	for _, mc := range prev {
		if mc.keyed {
			prevByKey[mc.key] = mc
			prevKeyedIndex[mc] = ki
			ki++
		}
	}

	used := make(map[*mountedChild]bool, len(prev))
	next := make([]*mountedChild, 0, len(compact))
	changed := false
	mountedN, unmountedN := 0, 0
	nextKeyed := 0

	for i, desc := range compact {
		if desc.Key == "" {
			if i < len(prev) && !prev[i].keyed && !used[prev[i]] && prev[i].store.typ == desc.Type {
				mc := prev[i]
				used[mc] = true
				mc.store.UpdateProps(desc.Props)
				next = append(next, mc)
				continue
			}
			child := s.mountChild(slot.name, desc)
			next = append(next, &mountedChild{store: child})
			changed = true
			mountedN++
			continue
		}

		if mc := prevByKey[desc.Key]; mc != nil && !used[mc] && mc.store.typ == desc.Type {
			used[mc] = true
			mc.store.UpdateProps(desc.Props)
			if prevKeyedIndex[mc] != nextKeyed {
				changed = true
			}
			next = append(next, mc)
			nextKeyed++
			continue
		}
		child := s.mountChild(slot.name, desc)
		next = append(next, &mountedChild{store: child, key: desc.Key, keyed: true})
		changed = true
		mountedN++
		nextKeyed++
	}

	for _, mc := range prev {
		if !used[mc] && !contains(next, mc) {
			mc.store.unmount()
			changed = true
			unmountedN++
		}
	}

	slot.mounted = next
	if changed {
		stores := make([]*Store, len(next))
		for i, mc := range next {
			stores[i] = mc.store
		}
		slot.out.Set(stores)
	}
	if mountedN > 0 || unmountedN > 0 {
		s.typ.logger.Debug("reconciled slot", "slot", slot.name, "mounted", mountedN, "unmounted", unmountedN)
	}
}

func contains(mcs []*mountedChild, mc *mountedChild) bool {
	for _, c := range mcs {
		if c == mc {
			return true
		}
	}
	return false
}
