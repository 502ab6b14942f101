package model

import (
	"fmt"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/reactive"
)

// Model is a node in a domain tree: a set of observable properties
// dispatched by configuration kind, an optional identifier, and at most one
// parent. Instances are created exclusively through Type.Create.
//
// All methods must be called from the graph's single logical thread.
type Model struct {
	instID string
	typ    *Type
	g      *reactive.Graph

	props  map[string]*prop
	parent *reactive.Atom // parentLink or nil

	// registry maps identifiers bound anywhere in the subtree rooted here.
	registry *Registry

	snap *reactive.Computed // lazily created snapshot memo

	// loading counts in-progress snapshot loads rooted at this model.
	// While it is non-zero, duplicate-identifier detection in the subtree
	// is deferred; pendingDups accumulates the ids to validate when the
	// outermost load completes.
	loading     int
	pendingDups map[string]struct{}
}

// prop bundles a property's configured behavior with its backing storage.
// Exactly one of atom, computed or list is set, depending on the kind.
type prop struct {
	spec     core.PropSpec
	atom     *reactive.Atom
	computed *reactive.Computed
	list     *List
}

// parentLink records the parent model and the named slot (property) this
// model occupies on it.
type parentLink struct {
	parent *Model
	slot   string
}

func (m *Model) ensureValid() {
	if m == nil || m.typ == nil || m.g == nil {
		panic(core.ErrNotViaFactory)
	}
}

// Type returns the model's type.
func (m *Model) Type() *Type {
	m.ensureValid()
	return m.typ
}

// InstanceID returns the unique instance identifier assigned at creation.
// It identifies the live object; it is unrelated to the identifier property.
func (m *Model) InstanceID() string {
	m.ensureValid()
	return m.instID
}

// Graph returns the reactive graph this model belongs to.
func (m *Model) Graph() *reactive.Graph {
	m.ensureValid()
	return m.g
}

// ID returns the identifier property value, or "" when the type has no
// identifier property or it is unset. The read is tracked.
func (m *Model) ID() string {
	m.ensureValid()
	if m.typ.idProp == "" {
		return ""
	}
	id, _ := m.props[m.typ.idProp].atom.Get().(string)
	return id
}

func (m *Model) idPeek() string {
	if m.typ.idProp == "" {
		return ""
	}
	id, _ := m.props[m.typ.idProp].atom.Peek().(string)
	return id
}

// Get reads a configured property, dispatching by kind:
//
//   - state / observable / model-binding: the stored value
//   - identifier: the id string ("" when unset)
//   - child: the attached *Model or nil
//   - child-list: the *List (use Items/At for the members)
//   - reference: the resolved *Model at the current root, or nil
//   - reference-list: the resolved []*Model (unresolved ids omitted)
//   - computed: the derived value
//
// Reads are tracked: evaluated under a reaction or computed they become
// dependencies. Get panics on property names absent from the configuration;
// that is programmer error, unlike unknown snapshot keys which are merely
// warned about during loads.
func (m *Model) Get(name string) any {
	m.ensureValid()
	p, ok := m.props[name]
	if !ok {
		panic(fmt.Errorf("%s.%s: %w", m.typ.name, name, core.ErrUnknownProperty))
	}

	switch p.spec.Kind {
	case core.State, core.Observable, core.ModelBinding:
		return p.atom.Get()
	case core.Identifier:
		id, _ := p.atom.Get().(string)
		return id
	case core.Child:
		c, _ := p.atom.Get().(*Model)
		if c == nil {
			return nil
		}
		return c
	case core.ChildList:
		return p.list
	case core.Reference:
		id, _ := p.atom.Get().(string)
		if id == "" {
			return nil
		}
		if ref := m.Root().registry.Resolve(id); ref != nil {
			return ref
		}
		return nil
	case core.ReferenceList:
		ids, _ := p.atom.Get().([]string)
		root := m.Root()
		out := make([]*Model, 0, len(ids))
		for _, id := range ids {
			if ref := root.registry.Resolve(id); ref != nil {
				out = append(out, ref)
			}
		}
		return out
	case core.Computed:
		return p.computed.Get()
	default:
		panic(fmt.Errorf("%s.%s: %w: %s", m.typ.name, name, core.ErrUnknownKind, p.spec.Kind))
	}
}

// Child returns a child property as a typed pointer (nil when empty).
func (m *Model) Child(name string) *Model {
	c, _ := m.Get(name).(*Model)
	return c
}

// Children returns a child-list property's list.
func (m *Model) Children(name string) *List {
	l, _ := m.Get(name).(*List)
	return l
}

// Ref returns a reference property resolved to a live model, or nil when
// the id is unset or currently unresolvable at this model's root.
func (m *Model) Ref(name string) *Model {
	r, _ := m.Get(name).(*Model)
	return r
}

// Refs returns a reference-list property resolved to live models.
func (m *Model) Refs(name string) []*Model {
	r, _ := m.Get(name).([]*Model)
	return r
}

// Set writes a configured property, dispatching by kind. The whole write,
// including any attach/detach side effects, runs inside one transaction.
//
//   - state / observable: stored; identical values do not propagate
//   - identifier: stamps the id; immutable while attached
//   - child: detaches the previous child, attaches the new one
//   - child-list: accepts []*Model; set-difference attach/detach
//   - reference / reference-list: accepts *Model (must carry an id),
//     identifier strings, or nil to clear
//   - model-binding: stored without ownership effects
//   - computed: rejected, read-only
func (m *Model) Set(name string, value any) error {
	m.ensureValid()
	p, ok := m.props[name]
	if !ok {
		return fmt.Errorf("%s.%s: %w", m.typ.name, name, core.ErrUnknownProperty)
	}

	var err error
	m.g.Batch(func() { err = m.set(p, name, value) })
	return err
}

func (m *Model) set(p *prop, name string, value any) error {
	switch p.spec.Kind {
	case core.State, core.Observable, core.ModelBinding:
		p.atom.Set(value)
		return nil

	case core.Computed:
		return fmt.Errorf("%s.%s: %w", m.typ.name, name, core.ErrReadOnlyProperty)

	case core.Identifier:
		id, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s.%s: identifier must be a string, got %T", m.typ.name, name, value)
		}
		return m.setIdentifier(p, name, id)

	case core.Child:
		c, err := asModel(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", m.typ.name, name, err)
		}
		return m.setChild(p, name, c)

	case core.ChildList:
		items, err := asModels(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", m.typ.name, name, err)
		}
		return m.setChildList(p, name, items)

	case core.Reference:
		id, err := refID(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", m.typ.name, name, err)
		}
		p.atom.Set(id)
		return nil

	case core.ReferenceList:
		ids, err := refIDs(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", m.typ.name, name, err)
		}
		p.atom.Set(ids)
		return nil

	default:
		return fmt.Errorf("%s.%s: %w: %s", m.typ.name, name, core.ErrUnknownKind, p.spec.Kind)
	}
}

// setIdentifier stamps the model's id. Re-setting the current value is a
// no-op; changing or clearing an already-set id while attached is rejected.
// The new id is (re)bound in this model's own registry and, when attached,
// in every ancestor registry up to the root.
func (m *Model) setIdentifier(p *prop, name, id string) error {
	cur, _ := p.atom.Peek().(string)
	if id == cur {
		return nil
	}
	if cur != "" && m.attachedPeek() {
		return fmt.Errorf("%s.%s (%q -> %q): %w", m.typ.name, name, cur, id, core.ErrIDChange)
	}

	p.atom.Set(id)

	for n := m; n != nil; n = n.parentModelPeek() {
		if cur != "" {
			n.registry.unbind(cur, m)
		}
	}
	if id != "" {
		for n := m; n != nil; n = n.parentModelPeek() {
			if err := n.registry.bind(id, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func asModel(v any) (*Model, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case *Model:
		return t, nil
	default:
		return nil, fmt.Errorf("child value must be a *Model or nil, got %T", v)
	}
}

func asModels(v any) ([]*Model, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []*Model:
		return t, nil
	default:
		return nil, fmt.Errorf("child-list value must be []*Model, got %T", v)
	}
}

// refID extracts the identifier a reference property should store. Models
// without an identifier cannot be referenced.
func refID(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case *Model:
		if t == nil {
			return "", nil
		}
		id := t.idPeek()
		if id == "" {
			return "", fmt.Errorf("%s: %w", t.typ.name, core.ErrUnidentifiedReference)
		}
		return id, nil
	default:
		return "", fmt.Errorf("reference value must be a *Model or identifier string, got %T", v)
	}
}

func refIDs(v any) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), t...), nil
	case []*Model:
		ids := make([]string, 0, len(t))
		for _, m := range t {
			id, err := refID(m)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("reference-list value must be []*Model or []string, got %T", v)
	}
}
