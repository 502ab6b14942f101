// Package reactive implements the observable substrate consumed by the
// model and store packages: mutable cells (Atom), derived values (Computed),
// effects (Reaction) and a transactional batching boundary (Graph.Batch).
//
// The design is an explicit dependency-tracking graph with push-based
// invalidation and pull-based (lazy) recomputation:
//
//   - Reading an Atom or Computed under a tracking scope records a
//     dependency edge from the current derivation to the source.
//   - Writing an Atom invalidates its transitive Computed observers and
//     schedules affected Reactions.
//   - Scheduled Reactions run when the outermost Batch exits (or
//     immediately when no batch is open), re-reading their dependencies and
//     thereby re-establishing their edges.
//
// The whole graph is single-threaded cooperative: all mutation and
// recomputation happens synchronously on one logical goroutine. None of the
// types in this package are safe for concurrent use.
package reactive
