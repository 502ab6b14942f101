package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/model"
	"github.com/hupe1980/statetree/reactive"
)

func TestMount_HookOrder(t *testing.T) {
	g := reactive.NewGraph()
	var events []string
	child := NewType("child",
		WithDidMount(func(*Store) { events = append(events, "child:did") }),
		WithWillUnmount(func(*Store) { events = append(events, "child:will") }),
	)
	parent := NewType("parent",
		WithChild("c", func(*Store) *Descriptor { return New(child, nil) }),
		WithDidMount(func(*Store) { events = append(events, "parent:did") }),
		WithWillUnmount(func(*Store) { events = append(events, "parent:will") }),
	)

	root := Mount(g, New(parent, nil))
	require.True(t, root.Mounted())
	// children materialize before the parent's did-mount; teardown runs
	// parent-first
	Unmount(root)
	assert.Equal(t, []string{"child:did", "parent:did", "parent:will", "child:will"}, events)
	assert.False(t, root.Mounted())
}

func TestUnmount_Idempotent(t *testing.T) {
	g := reactive.NewGraph()
	unmounts := 0
	ty := NewType("plain", WithWillUnmount(func(*Store) { unmounts++ }))

	root := Mount(g, New(ty, nil))
	Unmount(root)
	Unmount(root)
	assert.Equal(t, 1, unmounts)
}

func TestContext_MergesDownAndOverrides(t *testing.T) {
	g := reactive.NewGraph()
	leaf := NewType("leaf")
	section := NewType("section",
		WithContext(func(s *Store) map[string]any {
			return map[string]any{"depth": 2}
		}),
		WithChild("leaf", func(*Store) *Descriptor { return New(leaf, nil) }),
	)
	app := NewType("app",
		WithContext(func(s *Store) map[string]any {
			return map[string]any{"theme": "dark", "depth": 1}
		}),
		WithChild("section", func(*Store) *Descriptor { return New(section, nil) }),
	)

	root := Mount(g, New(app, nil))
	inner := root.Child("section").Child("leaf")
	require.NotNil(t, inner)

	ctx := inner.Context()
	assert.Equal(t, "dark", ctx["theme"])
	assert.Equal(t, 2, ctx["depth"], "nearer provider wins")
}

func TestContext_ReactsToProviderChange(t *testing.T) {
	g := reactive.NewGraph()
	leaf := NewType("leaf")
	app := NewType("app",
		WithContext(func(s *Store) map[string]any {
			return map[string]any{"theme": s.Prop("theme")}
		}),
		WithChild("leaf", func(*Store) *Descriptor { return New(leaf, nil) }),
	)

	root := Mount(g, New(app, map[string]any{"theme": "dark"}))
	inner := root.Child("leaf")

	var seen []any
	dispose := inner.Autorun(func() { seen = append(seen, inner.Context()["theme"]) })
	defer dispose()
	require.Equal(t, []any{"dark"}, seen)

	root.UpdateProps(map[string]any{"theme": "light"})
	assert.Equal(t, []any{"dark", "light"}, seen)
}

func TestAutorun_DisposedOnUnmount(t *testing.T) {
	g := reactive.NewGraph()
	ty := NewType("plain")
	root := Mount(g, New(ty, map[string]any{"n": 1}))

	runs := 0
	root.Autorun(func() {
		root.Prop("n")
		runs++
	})
	require.Equal(t, 1, runs)

	root.UpdateProps(map[string]any{"n": 2})
	require.Equal(t, 2, runs)

	Unmount(root)
	root.UpdateProps(map[string]any{"n": 3})
	assert.Equal(t, 2, runs, "reactions must not outlive the store")
}

var todoModel = model.MustNewType("todo", core.Config{
	"id":    {Kind: core.Identifier},
	"title": {Kind: core.State},
	"done":  {Kind: core.State},
})

func TestModelBinding_DrivesReconciliation(t *testing.T) {
	g := reactive.NewGraph()
	m, err := todoModel.Create(g, core.Snapshot{"id": "t1", "title": "write", "done": false})
	require.NoError(t, err)

	badge := NewType("badge")
	view := NewType("todoview",
		WithChild("badge", func(s *Store) *Descriptor {
			done, _ := s.Model("todo").Get("done").(bool)
			if !done {
				return nil
			}
			return New(badge, map[string]any{"for": s.Model("todo").ID()})
		}),
	)

	root := Mount(g, New(view, map[string]any{"todo": m}))
	assert.Same(t, m, root.Model("todo"))
	assert.Nil(t, root.Child("badge"))

	// the getter tracked the model's property; mutating it reconciles
	require.NoError(t, m.Set("done", true))
	b := root.Child("badge")
	require.NotNil(t, b)
	assert.Equal(t, "t1", b.Prop("for"))

	require.NoError(t, m.Set("done", false))
	assert.Nil(t, root.Child("badge"))
}

func TestUpdateProps_ClearsAbsentKeys(t *testing.T) {
	g := reactive.NewGraph()
	ty := NewType("plain")
	root := Mount(g, New(ty, map[string]any{"a": 1, "b": 2}))

	root.UpdateProps(map[string]any{"a": 10})
	assert.Equal(t, 10, root.Prop("a"))
	assert.Nil(t, root.Prop("b"))
}
