package testutil

import (
	"github.com/hupe1980/statetree/core"
)

// SnapshotBuilder helps construct snapshots with fluent chaining for tests.
// Example:
//
//	snap := NewSnapshotBuilder().Set("title", "a").Child("owner", sub).Build()
type SnapshotBuilder struct {
	data core.Snapshot
}

// NewSnapshotBuilder creates a new builder for an empty snapshot.
func NewSnapshotBuilder() *SnapshotBuilder {
	return &SnapshotBuilder{data: core.Snapshot{}}
}

// Set sets or overwrites a plain value (chainable).
func (b *SnapshotBuilder) Set(key string, val any) *SnapshotBuilder {
	b.data[key] = val
	return b
}

// Child nests a sub-snapshot under key (chainable).
func (b *SnapshotBuilder) Child(key string, sub core.Snapshot) *SnapshotBuilder {
	b.data[key] = sub
	return b
}

// Children nests a list of sub-snapshots under key (chainable).
func (b *SnapshotBuilder) Children(key string, subs ...core.Snapshot) *SnapshotBuilder {
	arr := make([]any, len(subs))
	for i, s := range subs {
		arr[i] = s
	}
	b.data[key] = arr
	return b
}

// Build returns the accumulated snapshot.
func (b *SnapshotBuilder) Build() core.Snapshot {
	return b.data
}
