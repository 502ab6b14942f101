package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/reactive"
)

func TestNewType_RejectsBadChildConstructor(t *testing.T) {
	_, err := NewType("bad", core.Config{
		"child": {Kind: core.Child, Child: "not a type"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "child constructor")
}

func TestNewType_AcceptsLateBoundChildConstructor(t *testing.T) {
	var self *Type
	self = MustNewType("tree", core.Config{
		"sub": {Kind: core.Child, Child: func() *Type { return self }},
	})

	g := reactive.NewGraph()
	root := mustCreate(t, self, g, core.Snapshot{
		"sub": core.Snapshot{"sub": nil},
	})
	require.NotNil(t, root.Child("sub"))
	assert.Same(t, self, root.Child("sub").Type())
}

func TestZeroModel_PanicsNotViaFactory(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, core.ErrNotViaFactory)
	}()
	var m Model
	m.Get("title")
}

func TestGet_UnknownPropertyPanics(t *testing.T) {
	g := reactive.NewGraph()
	m := mustCreate(t, itemType, g, nil)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, core.ErrUnknownProperty)
	}()
	m.Get("nope")
}

func TestSet_StateAndComputed(t *testing.T) {
	g := reactive.NewGraph()
	m := mustCreate(t, itemType, g, nil)

	require.NoError(t, m.Set("title", "hello"))
	assert.Equal(t, "hello", m.Get("title"))
	assert.Equal(t, "HELLO", m.Get("upper"))

	err := m.Set("upper", "X")
	assert.ErrorIs(t, err, core.ErrReadOnlyProperty)
}

func TestSet_UnknownPropertyReturnsError(t *testing.T) {
	g := reactive.NewGraph()
	m := mustCreate(t, itemType, g, nil)
	assert.ErrorIs(t, m.Set("nope", 1), core.ErrUnknownProperty)
}

func TestIdentifier_ImmutableWhileAttached(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, nil)
	item := mustCreate(t, itemType, g, core.Snapshot{"id": "a"})
	require.NoError(t, box.Set("left", item))

	// re-setting the current value is a no-op
	require.NoError(t, item.Set("id", "a"))

	err := item.Set("id", "b")
	assert.ErrorIs(t, err, core.ErrIDChange)
	assert.Equal(t, "a", item.ID())
}

func TestIdentifier_ChangeableWhileDetached(t *testing.T) {
	g := reactive.NewGraph()
	item := mustCreate(t, itemType, g, core.Snapshot{"id": "a"})
	require.NoError(t, item.Set("id", "b"))
	assert.Equal(t, "b", item.ID())
	assert.Same(t, item, item.Resolve("b"))
	assert.Nil(t, item.Resolve("a"))
}

func TestChild_AttachAndReplace(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, nil)
	first := mustCreate(t, itemType, g, nil)
	second := mustCreate(t, itemType, g, nil)

	require.NoError(t, box.Set("left", first))
	assert.Same(t, first, box.Child("left"))
	assert.Same(t, box, first.Parent())
	assert.Equal(t, "left", first.Slot())
	assert.True(t, first.Attached())
	assert.Same(t, box, first.Root())

	require.NoError(t, box.Set("left", second))
	assert.Same(t, second, box.Child("left"))
	assert.False(t, first.Attached())
	assert.Same(t, first, first.Root())
}

func TestChild_AlreadyAttachedRejected(t *testing.T) {
	g := reactive.NewGraph()
	box1 := mustCreate(t, boxType, g, nil)
	box2 := mustCreate(t, boxType, g, nil)
	item := mustCreate(t, itemType, g, nil)

	require.NoError(t, box1.Set("left", item))
	err := box2.Set("left", item)
	assert.ErrorIs(t, err, core.ErrAlreadyAttached)
	assert.Same(t, box1, item.Parent())
}

func TestChild_SetSameInstanceIsNoOp(t *testing.T) {
	g := reactive.NewGraph()
	detached := 0
	leaf := MustNewType("leaf", core.Config{}, WithOnDetach(func(*Model) { detached++ }))
	holder := MustNewType("holder", core.Config{
		"c": {Kind: core.Child, Child: leaf},
	})

	box := mustCreate(t, holder, g, nil)
	item := mustCreate(t, leaf, g, nil)
	require.NoError(t, box.Set("c", item))

	require.NoError(t, box.Set("c", item))
	assert.Same(t, item, box.Child("c"))
	assert.True(t, item.Attached())
	assert.Zero(t, detached)
}

func TestDetach_RootIsNoOp(t *testing.T) {
	g := reactive.NewGraph()
	item := mustCreate(t, itemType, g, nil)
	item.Detach()
	assert.False(t, item.Attached())
}

func TestLifecycleHooks_Order(t *testing.T) {
	g := reactive.NewGraph()
	var events []string
	ty := MustNewType("hooked", core.Config{
		"id": {Kind: core.Identifier},
	},
		WithInit(func(m *Model, args ...any) { events = append(events, "init") }),
		WithOnAttach(func(m *Model) {
			events = append(events, "attach")
			// identifiers are registered before the hook runs
			assert.Same(t, m, m.Resolve("h1"))
		}),
		WithOnDetach(func(m *Model) {
			events = append(events, "detach")
			// still attached while the hook runs
			assert.True(t, m.Attached())
		}),
	)
	boxed := MustNewType("hookedbox", core.Config{
		"c": {Kind: core.Child, Child: ty},
	})

	box := mustCreate(t, boxed, g, nil)
	child, err := ty.Create(g, core.Snapshot{"id": "h1"})
	require.NoError(t, err)
	require.NoError(t, box.Set("c", child))
	child.Detach()

	assert.Equal(t, []string{"init", "attach", "detach"}, events)
}

func TestReferenceList_OmitsUnresolved(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, nil)
	a := mustCreate(t, itemType, g, core.Snapshot{"id": "a"})
	require.NoError(t, box.Children("items").Append(a))

	require.NoError(t, box.Set("picks", []string{"a", "ghost"}))
	refs := box.Refs("picks")
	require.Len(t, refs, 1)
	assert.Same(t, a, refs[0])
}

func TestReference_RequiresIdentifiedTarget(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, nil)
	anon := mustCreate(t, itemType, g, nil)

	err := box.Set("fav", anon)
	assert.True(t, errors.Is(err, core.ErrUnidentifiedReference))
}
