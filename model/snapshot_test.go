package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/internal/testutil"
	"github.com/hupe1980/statetree/reactive"
	"github.com/hupe1980/statetree/snapshot"
)

func boxSnap() core.Snapshot {
	return testutil.NewSnapshotBuilder().
		Set("id", "root").
		Child("left", core.Snapshot{"id": "a", "title": "alpha"}).
		Child("right", core.Snapshot{"id": "b", "title": "beta"}).
		Children("items",
			core.Snapshot{"id": "c", "title": "gamma"},
			core.Snapshot{"id": "d", "title": "delta"},
		).
		Set("fav", "a").
		Set("picks", []any{"c", "d"}).
		Build()
}

func TestGetSnapshot_RoundTrip(t *testing.T) {
	g := reactive.NewGraph()
	first := mustCreate(t, boxType, g, boxSnap())
	s1, err := first.GetSnapshot()
	require.NoError(t, err)

	second := mustCreate(t, boxType, g, s1)
	s2, err := second.GetSnapshot()
	require.NoError(t, err)

	assert.True(t, snapshot.Equal(s1, s2))
	assert.Equal(t, "root", s1["id"])
	assert.Equal(t, "a", s1["fav"])

	left, ok := s1["left"].(core.Snapshot)
	require.True(t, ok)
	assert.Equal(t, "alpha", left["title"])
}

func TestGetSnapshot_OmitsUnsetIdentifier(t *testing.T) {
	g := reactive.NewGraph()
	m := mustCreate(t, itemType, g, core.Snapshot{"title": "x"})
	s, err := m.GetSnapshot()
	require.NoError(t, err)
	_, present := s["id"]
	assert.False(t, present)
}

func TestGetSnapshot_Memoized(t *testing.T) {
	g := reactive.NewGraph()
	m := mustCreate(t, itemType, g, core.Snapshot{"title": "x"})

	s1, err := m.GetSnapshot()
	require.NoError(t, err)
	s2, err := m.GetSnapshot()
	require.NoError(t, err)
	// no contributing change between the calls: same memoized map
	assert.Equal(t, reflect.ValueOf(s1).Pointer(), reflect.ValueOf(s2).Pointer())

	require.NoError(t, m.Set("title", "y"))
	s3, err := m.GetSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "y", s3["title"])
}

func TestGetSnapshot_NonSerializableReportsPath(t *testing.T) {
	g := reactive.NewGraph()
	m := mustCreate(t, itemType, g, nil)
	require.NoError(t, m.Set("title", func() {}))

	_, err := m.GetSnapshot()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotSerializable)
	assert.Contains(t, err.Error(), "title")
}

func TestLoadSnapshot_UnknownKeysWarnedAndIgnored(t *testing.T) {
	g := reactive.NewGraph()
	capture := testutil.NewCaptureLogger()
	ty := MustNewType("lenient", core.Config{
		"title": {Kind: core.State},
	}, WithLogger(capture))

	m := mustCreate(t, ty, g, nil)
	require.NoError(t, m.LoadSnapshot(core.Snapshot{"title": "ok", "ghost": 1}))

	assert.Equal(t, "ok", m.Get("title"))
	require.Len(t, capture.Warns, 1)
	assert.Contains(t, capture.Warns[0], "ghost")
}

func TestLoadSnapshot_ReusesChildrenByID(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, testutil.NewSnapshotBuilder().
		Children("items",
			core.Snapshot{"id": "a", "title": "one"},
			core.Snapshot{"id": "b", "title": "two"},
		).Build())

	items := box.Children("items").Items()
	require.Len(t, items, 2)
	a, b := items[0], items[1]

	// reorder plus content change: matching ids keep their instances
	require.NoError(t, box.LoadSnapshot(testutil.NewSnapshotBuilder().
		Children("items",
			core.Snapshot{"id": "b", "title": "two'"},
			core.Snapshot{"id": "a", "title": "one'"},
		).Build()))

	after := box.Children("items").Items()
	require.Len(t, after, 2)
	assert.Same(t, b, after[0])
	assert.Same(t, a, after[1])
	assert.Equal(t, "two'", after[0].Get("title"))
	assert.Equal(t, "one'", after[1].Get("title"))
}

func TestLoadSnapshot_IdentifierlessChildrenReuseByPosition(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, testutil.NewSnapshotBuilder().
		Children("notes",
			core.Snapshot{"text": "first"},
			core.Snapshot{"text": "second"},
		).Build())

	before := box.Children("notes").Items()
	require.Len(t, before, 2)

	require.NoError(t, box.LoadSnapshot(testutil.NewSnapshotBuilder().
		Children("notes",
			core.Snapshot{"text": "first'"},
			core.Snapshot{"text": "second'"},
			core.Snapshot{"text": "third"},
		).Build()))

	after := box.Children("notes").Items()
	require.Len(t, after, 3)
	assert.Same(t, before[0], after[0])
	assert.Same(t, before[1], after[1])
	assert.Equal(t, "first'", after[0].Get("text"))
}

func TestLoadSnapshot_AllowsIDSwapWithinOneLoad(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, testutil.NewSnapshotBuilder().
		Child("left", core.Snapshot{"id": "1"}).
		Child("right", core.Snapshot{"id": "2"}).
		Build())

	require.NoError(t, box.LoadSnapshot(testutil.NewSnapshotBuilder().
		Child("left", core.Snapshot{"id": "2"}).
		Child("right", core.Snapshot{"id": "1"}).
		Build()))

	assert.Equal(t, "2", box.Child("left").ID())
	assert.Equal(t, "1", box.Child("right").ID())
	assert.Same(t, box.Child("left"), box.Resolve("2"))
	assert.Same(t, box.Child("right"), box.Resolve("1"))
}

func TestLoadSnapshot_LingeringDuplicateFails(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, nil)

	err := box.LoadSnapshot(testutil.NewSnapshotBuilder().
		Child("left", core.Snapshot{"id": "x"}).
		Child("right", core.Snapshot{"id": "x"}).
		Build())
	assert.ErrorIs(t, err, core.ErrDuplicateID)
}

func TestOnSnapshotChange_OncePerTransaction(t *testing.T) {
	g := reactive.NewGraph()
	box := mustCreate(t, boxType, g, boxSnap())

	var calls int
	var last core.Snapshot
	dispose := box.OnSnapshotChange(func(snap core.Snapshot, instance *Model) {
		calls++
		last = snap
		assert.Same(t, box, instance)
	})
	defer dispose()
	require.Zero(t, calls, "registration must not invoke the callback")

	// several mutations in one transaction collapse to one notification
	g.Batch(func() {
		require.NoError(t, box.Child("left").Set("title", "alpha'"))
		require.NoError(t, box.Child("right").Set("title", "beta'"))
	})
	require.Equal(t, 1, calls)
	left, _ := last["left"].(core.Snapshot)
	assert.Equal(t, "alpha'", left["title"])

	// a whole load is likewise a single notification
	require.NoError(t, box.LoadSnapshot(boxSnap()))
	require.Equal(t, 2, calls)

	dispose()
	require.NoError(t, box.Child("left").Set("title", "silent"))
	assert.Equal(t, 2, calls)
}
