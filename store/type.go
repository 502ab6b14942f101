package store

import (
	"github.com/hupe1980/statetree/logging"
)

// Type is a store constructor: a name plus the declared child getters,
// context contribution and mount hooks. One Type is shared by every
// instance the reconciler realizes from it.
type Type struct {
	name        string
	children    []childSpec
	context     func(s *Store) map[string]any
	didMount    func(s *Store)
	willUnmount func(s *Store)
	logger      logging.Logger
}

// childSpec declares one child-producing getter. Exactly one of single or
// list is set.
type childSpec struct {
	name   string
	single func(s *Store) *Descriptor
	list   func(s *Store) []*Descriptor
}

// TypeOption customizes a Type during construction.
type TypeOption func(*Type)

// WithChild declares a single-child getter. The getter runs under a
// tracked listener; returning nil unmounts the current child.
func WithChild(name string, getter func(s *Store) *Descriptor) TypeOption {
	return func(t *Type) {
		t.children = append(t.children, childSpec{name: name, single: getter})
	}
}

// WithChildren declares a list-child getter. Nil descriptors in the result
// are dropped before diffing.
func WithChildren(name string, getter func(s *Store) []*Descriptor) TypeOption {
	return func(t *Type) {
		t.children = append(t.children, childSpec{name: name, list: getter})
	}
}

// WithContext declares the store's context contribution, merged over the
// parent's context for this store and its descendants.
func WithContext(fn func(s *Store) map[string]any) TypeOption {
	return func(t *Type) { t.context = fn }
}

// WithDidMount registers a hook invoked after the store and its initially
// materialized children have mounted.
func WithDidMount(fn func(s *Store)) TypeOption {
	return func(t *Type) { t.didMount = fn }
}

// WithWillUnmount registers a hook invoked before the store's children are
// unmounted and its listeners disposed.
func WithWillUnmount(fn func(s *Store)) TypeOption {
	return func(t *Type) { t.willUnmount = fn }
}

// WithLogger overrides the type's logger (defaults to NoOpLogger).
func WithLogger(logger logging.Logger) TypeOption {
	return func(t *Type) { t.logger = logger }
}

// NewType creates a store type.
func NewType(name string, opts ...TypeOption) *Type {
	t := &Type{name: name, logger: logging.NoOpLogger{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Descriptor describes what the reconciler should render as a child store:
// a constructor, plain props (optionally including model bindings) and an
// optional key used as the identity hint during keyed diffing. A
// descriptor is a value; it only becomes a live Store when realized.
type Descriptor struct {
	Type  *Type
	Props map[string]any
	Key   string
}

// New describes an unkeyed store. Unkeyed children track by position.
func New(t *Type, props map[string]any) *Descriptor {
	return &Descriptor{Type: t, Props: props}
}

// NewKeyed describes a keyed store. Keyed children keep their identity
// across reordering.
func NewKeyed(t *Type, key string, props map[string]any) *Descriptor {
	return &Descriptor{Type: t, Key: key, Props: props}
}
