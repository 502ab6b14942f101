package model

import (
	"fmt"
	"sort"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/snapshot"
)

type snapResult struct {
	snap core.Snapshot
	err  error
}

// GetSnapshot returns the plain-data projection of the model's configured
// properties. The result is memoized against the contributing observable
// state: it recomputes lazily on the next call after an invalidation, never
// eagerly on every write. Child snapshots nest through the children's own
// memos, so an untouched subtree costs nothing to re-serialize.
//
// A value outside the JSON-safe set fails the computation with the
// offending path in the error.
func (m *Model) GetSnapshot() (core.Snapshot, error) {
	m.ensureValid()
	if m.snap == nil {
		m.snap = m.g.NewComputed(m.computeSnapshot)
	}
	res := m.snap.Get().(snapResult)
	return res.snap, res.err
}

func (m *Model) computeSnapshot() any {
	out := core.Snapshot{}

	names := make([]string, 0, len(m.props))
	for name := range m.props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := m.props[name]
		switch p.spec.Kind {
		case core.State:
			cloned, err := snapshot.Clone(p.atom.Get())
			if err != nil {
				return snapResult{err: fmt.Errorf("%s.%s: %w", m.typ.name, name, err)}
			}
			out[name] = cloned

		case core.Identifier:
			if id, _ := p.atom.Get().(string); id != "" {
				out[name] = id
			}

		case core.Child:
			c, _ := p.atom.Get().(*Model)
			if c == nil {
				out[name] = nil
				continue
			}
			sub, err := c.GetSnapshot()
			if err != nil {
				return snapResult{err: fmt.Errorf("%s.%s: %w", m.typ.name, name, err)}
			}
			out[name] = sub

		case core.ChildList:
			items := p.list.Items()
			arr := make([]any, len(items))
			for i, c := range items {
				sub, err := c.GetSnapshot()
				if err != nil {
					return snapResult{err: fmt.Errorf("%s.%s[%d]: %w", m.typ.name, name, i, err)}
				}
				arr[i] = sub
			}
			out[name] = arr

		case core.Reference:
			if id, _ := p.atom.Get().(string); id != "" {
				out[name] = id
			} else {
				out[name] = nil
			}

		case core.ReferenceList:
			ids, _ := p.atom.Get().([]string)
			arr := make([]any, len(ids))
			for i, id := range ids {
				arr[i] = id
			}
			out[name] = arr
		}
		// observable, computed and model-binding props never snapshot
	}

	return snapResult{snap: out}
}

// LoadSnapshot applies data to the model inside one transaction: listeners
// observe either the prior state or the fully-loaded one, never an
// intermediate. Keys absent from the configuration are warned about and
// ignored; per-kind application otherwise follows the same logic as
// property writes, with reuse semantics for children (see loadChild).
//
// Duplicate-identifier errors arising mid-load are deferred until the
// outermost load at this model's root completes, so two members may
// legitimately swap ids within one load. Duplicates still present at the
// end raise ErrDuplicateID.
func (m *Model) LoadSnapshot(data core.Snapshot) error {
	m.ensureValid()

	var err error
	m.g.Batch(func() {
		root := m.rootPeek()
		root.loading++
		err = m.applySnapshot(data)
		root.loading--
		if root.loading == 0 {
			if vErr := root.validatePendingDuplicates(); err == nil {
				err = vErr
			}
		}
	})

	if err != nil {
		m.typ.logger.Error("snapshot load failed", "type", m.typ.name, "error", err)
		return err
	}
	m.typ.logger.Debug("snapshot loaded", "type", m.typ.name, "keys", len(data))
	return nil
}

func (m *Model) applySnapshot(data core.Snapshot) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val := data[name]
		p, ok := m.props[name]
		if !ok || !p.spec.Kind.Snapshotted() {
			m.typ.logger.Warn("ignoring unknown snapshot key", "type", m.typ.name, "key", name)
			continue
		}

		switch p.spec.Kind {
		case core.State:
			p.atom.Set(val)

		case core.Identifier:
			id, ok := val.(string)
			if !ok {
				return fmt.Errorf("%s.%s: identifier must be a string, got %T", m.typ.name, name, val)
			}
			if err := m.setIdentifier(p, name, id); err != nil {
				return err
			}

		case core.Reference:
			if val == nil {
				p.atom.Set("")
				continue
			}
			id, ok := val.(string)
			if !ok {
				return fmt.Errorf("%s.%s: reference must be an identifier string, got %T", m.typ.name, name, val)
			}
			p.atom.Set(id)

		case core.ReferenceList:
			ids, err := snapshotIDs(val)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", m.typ.name, name, err)
			}
			p.atom.Set(ids)

		case core.Child:
			if err := m.loadChild(p, name, val); err != nil {
				return err
			}

		case core.ChildList:
			if err := m.loadChildList(p, name, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadChild applies a nested snapshot to a child slot. When the existing
// child in this same named slot resolves to the same identifier as the
// incoming snapshot (or the child type has no identifier at all), the load
// recurses into it in place, preserving instance identity; otherwise a
// fresh child is created through its own factory. Matching is confined to
// this slot on this parent, so a sibling's child is never silently adopted.
func (m *Model) loadChild(p *prop, name string, val any) error {
	if val == nil {
		return m.setChild(p, name, nil)
	}
	sub, ok := asSnapshot(val)
	if !ok {
		return fmt.Errorf("%s.%s: child snapshot must be an object, got %T", m.typ.name, name, val)
	}

	ct := m.typ.childType(name)
	existing, _ := p.atom.Peek().(*Model)
	if existing != nil && existing.typ == ct && reusable(existing, ct, sub) {
		return existing.LoadSnapshot(sub)
	}

	child, err := ct.Create(m.g, sub)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", m.typ.name, name, err)
	}
	return m.setChild(p, name, child)
}

// loadChildList reconciles a child-list slot against incoming member
// snapshots: members with a matching identifier are reloaded in place,
// identifier-less members reuse by position, and everything else is
// created fresh. Members absent from the incoming list are detached by
// the final list replacement.
func (m *Model) loadChildList(p *prop, name string, val any) error {
	if val == nil {
		return m.setChildList(p, name, nil)
	}
	arr, ok := val.([]any)
	if !ok {
		return fmt.Errorf("%s.%s: child-list snapshot must be an array, got %T", m.typ.name, name, val)
	}

	ct := m.typ.childType(name)
	cur := p.list.peek()

	byID := map[string]*Model{}
	if ct.idProp != "" {
		for _, c := range cur {
			if id := c.idPeek(); id != "" {
				byID[id] = c
			}
		}
	}
	usedIdx := map[int]bool{}

	items := make([]*Model, 0, len(arr))
	for i, ev := range arr {
		sub, ok := asSnapshot(ev)
		if !ok {
			return fmt.Errorf("%s.%s[%d]: child snapshot must be an object, got %T", m.typ.name, name, i, ev)
		}

		var reuse *Model
		if ct.idProp != "" {
			if id, _ := sub[ct.idProp].(string); id != "" {
				if ex := byID[id]; ex != nil && ex.typ == ct {
					reuse = ex
					delete(byID, id)
				}
			}
		} else if i < len(cur) && !usedIdx[i] && cur[i].typ == ct {
			reuse = cur[i]
			usedIdx[i] = true
		}

		if reuse != nil {
			if err := reuse.LoadSnapshot(sub); err != nil {
				return err
			}
			items = append(items, reuse)
			continue
		}

		child, err := ct.Create(m.g, sub)
		if err != nil {
			return fmt.Errorf("%s.%s[%d]: %w", m.typ.name, name, i, err)
		}
		items = append(items, child)
	}

	return m.setChildList(p, name, items)
}

// OnSnapshotChange registers cb to run whenever any property contributing
// to the model's snapshot changes, batched to one call per transaction with
// the fully-updated snapshot. The returned disposer stops the notifications.
func (m *Model) OnSnapshotChange(cb func(snap core.Snapshot, instance *Model)) func() {
	m.ensureValid()

	first := true
	r := m.g.NewReaction(func() {
		snap, err := m.GetSnapshot()
		if first {
			// the initial run only establishes the dependency set
			first = false
			return
		}
		if err == nil {
			cb(snap, m)
		}
	})
	r.Run()
	return r.Dispose
}

// reusable reports whether an existing child can absorb sub in place: the
// ids must match and be non-empty, or the type must have no identifier
// property at all.
func reusable(existing *Model, ct *Type, sub core.Snapshot) bool {
	if ct.idProp == "" {
		return true
	}
	id, _ := sub[ct.idProp].(string)
	return id != "" && existing.idPeek() == id
}

func asSnapshot(v any) (core.Snapshot, bool) {
	switch t := v.(type) {
	case core.Snapshot:
		return t, true
	case map[string]any:
		return core.Snapshot(t), true
	default:
		return nil, false
	}
}

func snapshotIDs(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), t...), nil
	case []any:
		ids := make([]string, len(t))
		for i, e := range t {
			id, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("reference-list entry %d must be a string, got %T", i, e)
			}
			ids[i] = id
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("reference-list must be an array of strings, got %T", v)
	}
}
