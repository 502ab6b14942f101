package core

import "errors"

// Error taxonomy for lifecycle and identifier violations. All of these are
// fatal to the triggering operation; effects already applied in the same
// transaction are not rolled back, so callers that catch one of these must
// treat the whole transaction as failed.
var (
	// ErrNotViaFactory reports construction of an entity outside its
	// type's factory.
	ErrNotViaFactory = errors.New("entity must be created through its type factory")

	// ErrDuplicateID reports two live claims to one identifier within a
	// single root outside an in-progress load.
	ErrDuplicateID = errors.New("duplicate identifier within root")

	// ErrIDChange reports clearing or changing an identifier while the
	// model is attached. Re-setting the same value is a no-op, not an error.
	ErrIDChange = errors.New("identifier is immutable while attached")

	// ErrUnidentifiedReference reports assigning a reference to a model
	// that has no identifier.
	ErrUnidentifiedReference = errors.New("reference target has no identifier")

	// ErrAlreadyAttached reports attaching a model that already has a
	// different parent. Call sites must detach first or use a reference.
	ErrAlreadyAttached = errors.New("model is already attached to a parent")

	// ErrNotSerializable reports a snapshot computation hitting a value
	// outside the JSON-safe set.
	ErrNotSerializable = errors.New("value is not snapshot-serializable")

	// ErrUnknownKind reports a configuration carrying a kind outside the
	// closed kind set.
	ErrUnknownKind = errors.New("unknown property kind")

	// ErrUnknownProperty reports access to a property name absent from the
	// entity's configuration.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrReadOnlyProperty reports a write to a computed property.
	ErrReadOnlyProperty = errors.New("property is read-only")
)
