package core

import "github.com/google/uuid"

// Snapshot is the plain, acyclic, JSON-safe projection of a model's
// configured properties. State and identifier fields are copied by value,
// child fields nest the child's snapshot, and reference fields carry the
// referenced identifier rather than the referenced data.
type Snapshot map[string]any

// NewID generates a unique instance identifier. Instance ids identify the
// live object (for logging and reconciliation bookkeeping); they are
// unrelated to the user-assigned identifier property.
func NewID() string { return uuid.NewString() }
