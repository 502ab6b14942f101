package statetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/statetree/core"
	"github.com/hupe1980/statetree/model"
	"github.com/hupe1980/statetree/store"
)

var taskType = model.MustNewType("task", core.Config{
	"id":    {Kind: core.Identifier},
	"title": {Kind: core.State},
})

func TestStateTree_EndToEnd(t *testing.T) {
	st := New(nil)

	task, err := st.CreateModel(taskType, Snapshot{"id": "t1", "title": "ship it"})
	require.NoError(t, err)

	row := store.NewType("taskrow")
	appType := store.NewType("app",
		store.WithChild("row", func(s *store.Store) *store.Descriptor {
			return store.New(row, map[string]any{"title": s.Model("task").Get("title")})
		}),
	)

	app := st.Mount(store.New(appType, map[string]any{"task": task}))
	require.NotNil(t, app.Child("row"))
	assert.Equal(t, "ship it", app.Child("row").Prop("title"))

	// model mutation flows through the binding into the store tree
	require.NoError(t, task.Set("title", "shipped"))
	assert.Equal(t, "shipped", app.Child("row").Prop("title"))

	st.Unmount(app)
	assert.False(t, app.Mounted())
}

func TestStateTree_BatchCollapsesNotifications(t *testing.T) {
	st := New(nil)
	task, err := st.CreateModel(taskType, Snapshot{"title": "a"})
	require.NoError(t, err)

	runs := 0
	dispose := st.Autorun(func() {
		task.Get("title")
		runs++
	})
	defer dispose()
	require.Equal(t, 1, runs)

	st.Batch(func() {
		require.NoError(t, task.Set("title", "b"))
		require.NoError(t, task.Set("title", "c"))
	})
	assert.Equal(t, 2, runs)
	assert.Equal(t, "c", task.Get("title"))
}
