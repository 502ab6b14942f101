package core

import "fmt"

// PropSpec describes the configured behavior of a single property.
//
// Child carries the child constructor for Child/ChildList kinds. It is typed
// as any to keep this package free of a model dependency; the model package
// accepts either a *model.Type or a func() *model.Type (the latter enables
// self-referential tree types).
type PropSpec struct {
	Kind Kind

	// Child is the constructor for owned sub-models. Required for Child and
	// ChildList kinds, ignored otherwise.
	Child any

	// Compute derives the property value from the owning entity. Required
	// for Computed kind, ignored otherwise. The argument is the owning
	// *model.Model.
	Compute func(owner any) any
}

// Config maps property names to their configured behavior. It is the effect
// of the external annotation syntax: the administration layer only reads it.
type Config map[string]PropSpec

// Validate checks structural soundness of the configuration: every kind must
// be a member of the closed kind set, Child/ChildList specs must carry a
// child constructor, Computed specs must carry a compute function, and at
// most one property may be the identifier.
func (c Config) Validate() error {
	idProps := 0

	for name, spec := range c {
		if !spec.Kind.Valid() {
			return fmt.Errorf("property %q: %w: %s", name, ErrUnknownKind, spec.Kind)
		}

		switch spec.Kind {
		case Identifier:
			idProps++
			if idProps > 1 {
				return fmt.Errorf("property %q: configuration declares more than one identifier", name)
			}
		case Child, ChildList:
			if spec.Child == nil {
				return fmt.Errorf("property %q: %s kind requires a child constructor", name, spec.Kind)
			}
		case Computed:
			if spec.Compute == nil {
				return fmt.Errorf("property %q: computed kind requires a compute function", name)
			}
		}
	}

	return nil
}

// IdentifierProp returns the name of the identifier property, or "" when the
// configuration has none.
func (c Config) IdentifierProp() string {
	for name, spec := range c {
		if spec.Kind == Identifier {
			return name
		}
	}
	return ""
}
