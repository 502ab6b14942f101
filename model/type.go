package model

import (
	"fmt"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/logging"
	"github.com/hupe1980/statetree/reactive"
)

// Type is a model constructor: a name, a validated configuration and the
// optional lifecycle hooks. One Type is shared by every instance it creates.
type Type struct {
	name     string
	config   core.Config
	idProp   string
	init     func(m *Model, args ...any)
	onAttach func(m *Model)
	onDetach func(m *Model)
	logger   logging.Logger
}

// TypeOption customizes a Type during construction.
type TypeOption func(*Type)

// WithInit registers a post-construction hook. It runs after the initial
// snapshot (if any) has been applied, receiving the extra Create arguments.
func WithInit(fn func(m *Model, args ...any)) TypeOption {
	return func(t *Type) { t.init = fn }
}

// WithOnAttach registers a hook invoked after a model of this type has been
// attached under a parent and its identifiers registered.
func WithOnAttach(fn func(m *Model)) TypeOption {
	return func(t *Type) { t.onAttach = fn }
}

// WithOnDetach registers a will-detach hook, invoked before the model is
// deregistered and unlinked from its parent.
func WithOnDetach(fn func(m *Model)) TypeOption {
	return func(t *Type) { t.onDetach = fn }
}

// WithLogger overrides the type's logger (defaults to NoOpLogger).
func WithLogger(logger logging.Logger) TypeOption {
	return func(t *Type) { t.logger = logger }
}

// NewType creates a model type from a configuration. The configuration is
// validated eagerly: unknown kinds, missing child constructors or multiple
// identifier properties are construction-time errors, never use-time
// surprises.
//
// Child constructors in the configuration may be a *Type or a func() *Type;
// the function form enables self-referential tree types.
func NewType(name string, config core.Config, opts ...TypeOption) (*Type, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("type %q: %w", name, err)
	}

	for prop, spec := range config {
		switch spec.Kind {
		case core.Child, core.ChildList:
			switch spec.Child.(type) {
			case *Type, func() *Type:
			default:
				return nil, fmt.Errorf("type %q: property %q: child constructor must be *Type or func() *Type, got %T", name, prop, spec.Child)
			}
		}
	}

	t := &Type{
		name:   name,
		config: config,
		idProp: config.IdentifierProp(),
		logger: logging.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// MustNewType is NewType that panics on configuration errors. Intended for
// package-level type declarations.
func MustNewType(name string, config core.Config, opts ...TypeOption) *Type {
	t, err := NewType(name, config, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the type name.
func (t *Type) Name() string { return t.name }

// Config returns the type's configuration. Callers must not mutate it.
func (t *Type) Config() core.Config { return t.config }

// Create constructs an instance, applies snap if non-nil, then invokes the
// init hook with the remaining arguments. It is the only way to obtain a
// usable *Model; methods on a zero Model panic with ErrNotViaFactory.
//
// The whole construction runs inside one transaction, so listeners observe
// either no model or a fully-initialized one.
func (t *Type) Create(g *reactive.Graph, snap core.Snapshot, args ...any) (*Model, error) {
	m := t.instantiate(g)

	var err error
	g.Batch(func() {
		if snap != nil {
			err = m.LoadSnapshot(snap)
		}
		if err == nil && t.init != nil {
			t.init(m, args...)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", t.name, err)
	}

	return m, nil
}

// childType resolves the child constructor configured for prop, handling
// the late-bound func() *Type form.
func (t *Type) childType(prop string) *Type {
	switch c := t.config[prop].Child.(type) {
	case *Type:
		return c
	case func() *Type:
		return c()
	default:
		return nil
	}
}

// instantiate allocates the instance with one backing observable per
// configured property.
func (t *Type) instantiate(g *reactive.Graph) *Model {
	m := &Model{
		instID: core.NewID(),
		typ:    t,
		g:      g,
		props:  make(map[string]*prop, len(t.config)),
	}
	m.parent = g.NewAtom(nil)
	m.registry = newRegistry(g, m)

	for name, spec := range t.config {
		p := &prop{spec: spec}
		switch spec.Kind {
		case core.ChildList:
			p.list = newList(m, name)
		case core.Computed:
			compute := spec.Compute
			p.computed = g.NewComputed(func() any { return compute(m) })
		case core.Identifier:
			p.atom = g.NewAtom("")
		default:
			p.atom = g.NewAtom(nil)
		}
		m.props[name] = p
	}

	return m
}
