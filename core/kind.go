package core

import "fmt"

// Kind enumerates the closed set of property behaviors a configuration can
// assign. Every read/write of a configured property is dispatched through
// kind-specific logic before it touches the underlying storage.
//
// The set is closed: configurations carrying an unknown kind are rejected
// at validation time, not silently tolerated at use time.
type Kind int

const (
	// State is a plain observable value that participates in snapshots.
	// Writes only propagate when the new value differs from the old one.
	State Kind = iota
	// Identifier is the model's stable id. At most one per configuration.
	// Once set it is immutable while the model is attached.
	Identifier
	// Child is an owned sub-model. Assignment detaches the previous child
	// (if any) and attaches the new one under the owning model.
	Child
	// ChildList is an ordered collection of owned sub-models with
	// incremental attach/detach on in-place mutation.
	ChildList
	// Reference stores another model's identifier rather than an ownership
	// link. Reads resolve the live model at the holder's current root.
	Reference
	// ReferenceList stores an ordered set of identifiers.
	ReferenceList
	// Observable is a plain observable value excluded from snapshots.
	Observable
	// Computed is a derived read-only value produced by a compute function.
	Computed
	// ModelBinding is a non-owning observable reference to a model
	// instance, typically used by store props. Excluded from snapshots.
	ModelBinding
)

// String returns the configuration-syntax name of the kind.
func (k Kind) String() string {
	switch k {
	case State:
		return "state"
	case Identifier:
		return "identifier"
	case Child:
		return "child"
	case ChildList:
		return "child-list"
	case Reference:
		return "reference"
	case ReferenceList:
		return "reference-list"
	case Observable:
		return "observable"
	case Computed:
		return "computed"
	case ModelBinding:
		return "model-binding"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is a member of the closed kind set.
func (k Kind) Valid() bool { return k >= State && k <= ModelBinding }

// Snapshotted reports whether properties of this kind contribute to a
// model's snapshot.
func (k Kind) Snapshotted() bool {
	switch k {
	case State, Identifier, Child, ChildList, Reference, ReferenceList:
		return true
	default:
		return false
	}
}
