package model

import (
	"fmt"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/reactive"
)

// Registry maps identifiers to their holder models within the subtree
// rooted at its owner. Every model owns one; in practice only the registry
// of a tree's current root is consulted for resolution, but keeping the
// map per-node means a detached subtree is immediately resolvable as a
// root of its own, and attach merges its entries upward in one pass.
//
// Entries are reactive and persistent: once an id has been observed (bound
// or merely resolved), its entry is kept as an explicit "no holder" marker
// rather than deleted, so consumers can react to the id becoming unbound
// and later rebound.
type Registry struct {
	g       *reactive.Graph
	owner   *Model
	entries map[string]*regEntry
}

type regEntry struct {
	holder *reactive.Atom // *Model or nil
}

func newRegistry(g *reactive.Graph, owner *Model) *Registry {
	return &Registry{g: g, owner: owner, entries: map[string]*regEntry{}}
}

// entry returns the entry for id, creating a kept "no holder" marker when
// it does not exist yet.
func (r *Registry) entry(id string) *regEntry {
	e, ok := r.entries[id]
	if !ok {
		e = &regEntry{holder: r.g.NewAtom((*Model)(nil))}
		r.entries[id] = e
	}
	return e
}

// Resolve returns the model currently holding id within the owner's
// subtree, or nil. The read is tracked, so derivations re-evaluate when the
// binding changes.
func (r *Registry) Resolve(id string) *Model {
	h, _ := r.entry(id).holder.Get().(*Model)
	return h
}

// bind claims id for m. A collision with a different live holder is
// immediately fatal unless a snapshot load is in progress at this
// registry's root, in which case the id is flagged for validation when the
// outermost load completes and the newer claimant wins provisionally.
func (r *Registry) bind(id string, m *Model) error {
	e := r.entry(id)
	cur, _ := e.holder.Peek().(*Model)
	if cur == m {
		return nil
	}
	if cur != nil {
		root := r.owner.rootPeek()
		if root.loading > 0 {
			if root.pendingDups == nil {
				root.pendingDups = map[string]struct{}{}
			}
			root.pendingDups[id] = struct{}{}
			e.holder.Set(m)
			return nil
		}
		return fmt.Errorf("id %q claimed by %s and %s: %w", id, cur.typ.name, m.typ.name, core.ErrDuplicateID)
	}
	e.holder.Set(m)
	return nil
}

// unbind releases id if m is its current holder. The entry survives as a
// "no holder" marker. An id once freed simply becomes absent; the registry
// never reassigns it on its own.
func (r *Registry) unbind(id string, m *Model) {
	e, ok := r.entries[id]
	if !ok {
		return
	}
	if cur, _ := e.holder.Peek().(*Model); cur == m {
		e.holder.Set((*Model)(nil))
	}
}

// boundPeek returns the currently bound id → holder pairs, untracked.
func (r *Registry) boundPeek() map[string]*Model {
	out := make(map[string]*Model, len(r.entries))
	for id, e := range r.entries {
		if h, _ := e.holder.Peek().(*Model); h != nil {
			out[id] = h
		}
	}
	return out
}

// validatePendingDuplicates runs when the outermost load at this root
// completes. For each flagged id the subtree is the ground truth: more
// than one attached holder is a hard error; exactly one (the legitimate
// outcome of a transient swap) repairs the root entry; zero clears it.
func (m *Model) validatePendingDuplicates() error {
	if len(m.pendingDups) == 0 {
		m.pendingDups = nil
		return nil
	}
	dups := m.pendingDups
	m.pendingDups = nil

	for id := range dups {
		holders := m.findByID(id, nil)
		switch len(holders) {
		case 0:
			m.registry.entry(id).holder.Set((*Model)(nil))
		case 1:
			m.registry.entry(id).holder.Set(holders[0])
		default:
			return fmt.Errorf("id %q held by %d models after load: %w", id, len(holders), core.ErrDuplicateID)
		}
	}
	return nil
}
