// Package model implements the administration layer for domain-tree
// entities. It covers four concerns:
//
//  1. Factory construction (Type.Create) with optional initial snapshot
//  2. Property interception: every read/write of a configured property is
//     dispatched through kind-specific logic (state, identifier, child,
//     child-list, reference, reference-list, observable, computed)
//  3. The attach/detach state machine with parent/root bookkeeping and the
//     per-root identifier registry that backs reference resolution
//  4. Snapshot orchestration: memoized serialization (GetSnapshot),
//     transactional loading with child reuse (LoadSnapshot) and batched
//     change notification (OnSnapshotChange)
//
// Design principles:
//   - No hidden global state: every model belongs to one reactive.Graph
//     and identifier registries are owned by the tree roots themselves
//   - Single-parent invariant: a model has at most one parent; moving a
//     model between parents requires an explicit detach first
//   - Transactional mutation: every multi-step operation runs inside one
//     Batch so listeners never observe a partial attach/detach or a
//     half-loaded snapshot
//
// Models are never constructed directly; obtain them through Type.Create.
package model
