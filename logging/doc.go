// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug
// any structured logger. It also offers a richer StateTreeLogger with
// contextual helpers (component, node) and domain specific logging helpers
// for attach/detach cycles, snapshot loads and reconciliation passes.
package logging
