// Package core provides the foundational domain types shared by the
// statetree packages. It defines the core abstractions for:
//
//   - Property kinds (the closed set of behaviors a configured property
//     can have: state, identifier, child, child-list, reference, ...)
//   - Entity configurations (the per-constructor property → kind mapping
//     produced by an external annotation layer and consumed here)
//   - Snapshots (plain, JSON-safe projections of a model subtree)
//   - The shared error taxonomy for lifecycle and identifier violations
//
// The package intentionally keeps implementation concerns (reactivity,
// entity administration, reconciliation) out of scope, exposing small types
// so the model and store packages can interoperate without cyclic deps.
package core
