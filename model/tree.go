package model

import (
	"fmt"

	"github.com/hupe1980/statetree/core"
)

// Parent returns the current parent model, or nil for a root. Tracked.
func (m *Model) Parent() *Model {
	m.ensureValid()
	if link, ok := m.parent.Get().(parentLink); ok {
		return link.parent
	}
	return nil
}

// Slot returns the name of the parent property this model occupies, or ""
// when detached. Tracked.
func (m *Model) Slot() string {
	m.ensureValid()
	if link, ok := m.parent.Get().(parentLink); ok {
		return link.slot
	}
	return ""
}

// Attached reports whether the model currently has a parent. Tracked.
func (m *Model) Attached() bool {
	m.ensureValid()
	_, ok := m.parent.Get().(parentLink)
	return ok
}

// Root returns the topmost model of the tree this model belongs to (itself
// when detached). The walk reads every parent link, so derivations
// re-evaluate when the model moves between trees.
func (m *Model) Root() *Model {
	m.ensureValid()
	if link, ok := m.parent.Get().(parentLink); ok {
		return link.parent.Root()
	}
	return m
}

// Resolve looks up a model by identifier within the tree this model
// belongs to. The read is tracked: it re-evaluates when the id binds,
// unbinds or the model moves to another tree.
func (m *Model) Resolve(id string) *Model {
	m.ensureValid()
	return m.Root().registry.Resolve(id)
}

// Detach unlinks the model from its parent, making it the root of its own
// subtree. The will-detach hook runs first, then the subtree's identifiers
// are deregistered from every old ancestor, then the structural links are
// cleared, all inside one transaction. Detaching a root is a no-op.
func (m *Model) Detach() {
	m.ensureValid()
	m.g.Batch(m.detach)
}

func (m *Model) attachedPeek() bool {
	_, ok := m.parent.Peek().(parentLink)
	return ok
}

func (m *Model) parentModelPeek() *Model {
	if link, ok := m.parent.Peek().(parentLink); ok {
		return link.parent
	}
	return nil
}

func (m *Model) rootPeek() *Model {
	if p := m.parentModelPeek(); p != nil {
		return p.rootPeek()
	}
	return m
}

// attach links m under parent at the named slot. Ordering per the
// transaction contract: structural parent update first, then registry
// merging, then the attach hook. Registry collisions abort with the
// structure already updated; the caller must discard the tree.
func (m *Model) attach(parent *Model, slot string) error {
	if m.attachedPeek() {
		return fmt.Errorf("%s: %w", m.typ.name, core.ErrAlreadyAttached)
	}

	m.parent.Set(parentLink{parent: parent, slot: slot})

	if err := registerSubtree(m, parent); err != nil {
		return err
	}

	if m.typ.onAttach != nil {
		m.typ.onAttach(m)
	}
	m.typ.logger.Debug("node attached", "type", m.typ.name, "slot", slot, "parent", parent.typ.name)
	return nil
}

// detach runs the will-detach hook, deregisters the subtree's ids from the
// old ancestor chain, clears the parent link and removes this model from
// the parent's slot storage.
func (m *Model) detach() {
	link, ok := m.parent.Peek().(parentLink)
	if !ok {
		return
	}

	if m.typ.onDetach != nil {
		m.typ.onDetach(m)
	}

	unregisterSubtree(m, link.parent)
	m.parent.Set(nil)

	// keep the parent's storage in sync with the structural unlink
	if pp, ok := link.parent.props[link.slot]; ok {
		switch pp.spec.Kind {
		case core.Child:
			if cur, _ := pp.atom.Peek().(*Model); cur == m {
				pp.atom.Set((*Model)(nil))
			}
		case core.ChildList:
			pp.list.removeStorage(m)
		}
	}

	m.typ.logger.Debug("node detached", "type", m.typ.name, "slot", link.slot)
}

// setChild replaces a child slot: the previous child (if any) is detached,
// the new one attached. Assigning the current instance is a no-op.
func (m *Model) setChild(p *prop, name string, c *Model) error {
	old, _ := p.atom.Peek().(*Model)
	if old == c {
		return nil
	}
	if c != nil && c.attachedPeek() {
		return fmt.Errorf("%s.%s: %w", m.typ.name, name, core.ErrAlreadyAttached)
	}

	if old != nil {
		old.detach()
	}
	p.atom.Set(c)
	if c != nil {
		return c.attach(m, name)
	}
	return nil
}

// setChildList replaces a child-list slot wholesale. Members are diffed by
// reference identity: removed members are detached, surviving members keep
// their attachment (and identity), added members are attached.
func (m *Model) setChildList(p *prop, name string, items []*Model) error {
	cur := p.list.peek()

	curSet := make(map[*Model]struct{}, len(cur))
	for _, c := range cur {
		curSet[c] = struct{}{}
	}
	newSet := make(map[*Model]struct{}, len(items))
	for _, c := range items {
		if c == nil {
			return fmt.Errorf("%s.%s: child-list may not contain nil", m.typ.name, name)
		}
		if _, dup := newSet[c]; dup {
			return fmt.Errorf("%s.%s: child-list contains the same instance twice", m.typ.name, name)
		}
		newSet[c] = struct{}{}
		if _, kept := curSet[c]; !kept && c.attachedPeek() {
			return fmt.Errorf("%s.%s: %w", m.typ.name, name, core.ErrAlreadyAttached)
		}
	}

	// detach-before-attach: removed members leave the registry before any
	// new member registers, so an id is never observed bound twice
	for _, c := range cur {
		if _, kept := newSet[c]; !kept {
			c.detach()
		}
	}

	p.list.replaceStorage(items)

	for _, c := range items {
		if _, existed := curSet[c]; !existed {
			if err := c.attach(m, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerSubtree merges every identifier bound in m's subtree into each
// ancestor registry from parent up to the root.
func registerSubtree(m *Model, parent *Model) error {
	bound := m.registry.boundPeek()
	if len(bound) == 0 {
		return nil
	}
	for a := parent; a != nil; a = a.parentModelPeek() {
		for id, holder := range bound {
			if err := a.registry.bind(id, holder); err != nil {
				return err
			}
		}
	}
	return nil
}

// unregisterSubtree removes every identifier bound in m's subtree from each
// old ancestor registry. Entries are kept as explicit "no holder" markers
// so reactive consumers observe the id becoming unbound.
func unregisterSubtree(m *Model, parent *Model) {
	bound := m.registry.boundPeek()
	if len(bound) == 0 {
		return
	}
	for a := parent; a != nil; a = a.parentModelPeek() {
		for id, holder := range bound {
			a.registry.unbind(id, holder)
		}
	}
}

// findByID collects the attached models in m's subtree (including m) whose
// identifier equals id. Used for end-of-load duplicate validation.
func (m *Model) findByID(id string, out []*Model) []*Model {
	if m.idPeek() == id {
		out = append(out, m)
	}
	for _, p := range m.props {
		switch p.spec.Kind {
		case core.Child:
			if c, _ := p.atom.Peek().(*Model); c != nil {
				out = c.findByID(id, out)
			}
		case core.ChildList:
			for _, c := range p.list.peek() {
				out = c.findByID(id, out)
			}
		}
	}
	return out
}
