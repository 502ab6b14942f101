package model

import (
	"fmt"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/reactive"
)

// List is the live value of a child-list property. In-place mutation
// (Append, Insert, RemoveAt, Set) produces the same incremental
// attach/detach effects as replacing the whole list, and every mutation is
// observable: snapshots and reactions depending on the list re-evaluate.
type List struct {
	owner *Model
	name  string
	atom  *reactive.Atom // []*Model, replaced copy-on-write
}

func newList(owner *Model, name string) *List {
	return &List{owner: owner, name: name, atom: owner.g.NewAtom([]*Model{})}
}

// Items returns a copy of the current members. Tracked.
func (l *List) Items() []*Model {
	items, _ := l.atom.Get().([]*Model)
	return append([]*Model(nil), items...)
}

// Len returns the current member count. Tracked.
func (l *List) Len() int {
	items, _ := l.atom.Get().([]*Model)
	return len(items)
}

// At returns the member at index i. Tracked.
func (l *List) At(i int) *Model {
	items, _ := l.atom.Get().([]*Model)
	if i < 0 || i >= len(items) {
		panic(fmt.Errorf("list %s.%s: index %d out of range [0,%d)", l.owner.typ.name, l.name, i, len(items)))
	}
	return items[i]
}

// Append attaches children at the end of the list.
func (l *List) Append(children ...*Model) error {
	var err error
	l.owner.g.Batch(func() {
		for _, c := range children {
			if c == nil {
				err = fmt.Errorf("list %s.%s: nil child", l.owner.typ.name, l.name)
				return
			}
			if c.attachedPeek() {
				err = fmt.Errorf("list %s.%s: %w", l.owner.typ.name, l.name, core.ErrAlreadyAttached)
				return
			}
		}
		cur := l.peek()
		l.replaceStorage(append(append([]*Model(nil), cur...), children...))
		for _, c := range children {
			if err = c.attach(l.owner, l.name); err != nil {
				return
			}
		}
	})
	return err
}

// Insert attaches a child at index i, shifting later members right.
func (l *List) Insert(i int, c *Model) error {
	var err error
	l.owner.g.Batch(func() {
		cur := l.peek()
		if i < 0 || i > len(cur) {
			err = fmt.Errorf("list %s.%s: insert index %d out of range [0,%d]", l.owner.typ.name, l.name, i, len(cur))
			return
		}
		if c == nil {
			err = fmt.Errorf("list %s.%s: nil child", l.owner.typ.name, l.name)
			return
		}
		if c.attachedPeek() {
			err = fmt.Errorf("list %s.%s: %w", l.owner.typ.name, l.name, core.ErrAlreadyAttached)
			return
		}
		next := make([]*Model, 0, len(cur)+1)
		next = append(next, cur[:i]...)
		next = append(next, c)
		next = append(next, cur[i:]...)
		l.replaceStorage(next)
		err = c.attach(l.owner, l.name)
	})
	return err
}

// RemoveAt detaches the member at index i.
func (l *List) RemoveAt(i int) error {
	var err error
	l.owner.g.Batch(func() {
		cur := l.peek()
		if i < 0 || i >= len(cur) {
			err = fmt.Errorf("list %s.%s: remove index %d out of range [0,%d)", l.owner.typ.name, l.name, i, len(cur))
			return
		}
		cur[i].detach() // detach clears the storage slot
	})
	return err
}

// Set replaces the member at index i: the old member is detached and the
// new one attached in its place. Setting the current member is a no-op.
func (l *List) Set(i int, c *Model) error {
	var err error
	l.owner.g.Batch(func() {
		cur := l.peek()
		if i < 0 || i >= len(cur) {
			err = fmt.Errorf("list %s.%s: index %d out of range [0,%d)", l.owner.typ.name, l.name, i, len(cur))
			return
		}
		old := cur[i]
		if old == c {
			return
		}
		if c == nil {
			err = fmt.Errorf("list %s.%s: nil child; use RemoveAt", l.owner.typ.name, l.name)
			return
		}
		if c.attachedPeek() {
			err = fmt.Errorf("list %s.%s: %w", l.owner.typ.name, l.name, core.ErrAlreadyAttached)
			return
		}

		old.detach() // shrinks storage at i
		after := l.peek()
		next := make([]*Model, 0, len(after)+1)
		next = append(next, after[:i]...)
		next = append(next, c)
		next = append(next, after[i:]...)
		l.replaceStorage(next)
		err = c.attach(l.owner, l.name)
	})
	return err
}

func (l *List) peek() []*Model {
	items, _ := l.atom.Peek().([]*Model)
	return items
}

// replaceStorage publishes a new member slice without attach/detach side
// effects; callers are responsible for structural bookkeeping.
func (l *List) replaceStorage(items []*Model) {
	l.atom.Set(append([]*Model(nil), items...))
}

// removeStorage drops m from the member slice without side effects. Called
// from detach to keep slot storage in sync.
func (l *List) removeStorage(m *Model) {
	cur := l.peek()
	for i, c := range cur {
		if c == m {
			next := make([]*Model, 0, len(cur)-1)
			next = append(next, cur[:i]...)
			next = append(next, cur[i+1:]...)
			l.atom.Set(next)
			return
		}
	}
}
