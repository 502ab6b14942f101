// Package store implements the presentation-tree side of statetree. Stores
// are never instantiated directly by calling code: they are described by
// Descriptors (constructor + props + optional key) and realized by the
// reconciler or the mount controller.
//
// Each child-producing getter declared on a store type is evaluated under a
// tracked listener. When a dependency of the getter changes, the reconciler
// re-evaluates it and diffs the resulting descriptor (or descriptor list)
// against the currently mounted children by key, type and position,
// mounting, updating and unmounting so that instance identity is preserved
// wherever possible — the way a diffing list renderer preserves DOM node
// identity.
//
// Context is a read-only computed value merging the parent's context with
// the store's own declared contribution; it is only meaningful once the
// store is mounted under a parent.
package store
