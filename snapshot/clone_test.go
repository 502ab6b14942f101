package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/statetree/core"
)

func TestClone_PlainValues(t *testing.T) {
	in := map[string]any{
		"title": "hello",
		"count": 3,
		"ratio": 0.5,
		"done":  true,
		"none":  nil,
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"x": 1},
	}

	out, err := Clone(in)
	require.NoError(t, err)
	assert.True(t, Equal(in, out))

	// deep copy: mutating the clone must not leak back
	out.(map[string]any)["meta"].(map[string]any)["x"] = 99
	assert.Equal(t, 1, in["meta"].(map[string]any)["x"])
}

func TestClone_TimeSerializesToRFC3339(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	out, err := Clone(map[string]any{"at": ts})
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:30:00Z", out.(map[string]any)["at"])
}

func TestClone_RejectsWithOffendingPath(t *testing.T) {
	in := map[string]any{
		"ok": 1,
		"nested": map[string]any{
			"fns": []any{0, func() {}},
		},
	}
	_, err := Clone(in)
	require.ErrorIs(t, err, core.ErrNotSerializable)
	assert.Contains(t, err.Error(), "nested.fns[1]")
}

func TestClone_RejectsNonStringKeyedMap(t *testing.T) {
	_, err := Clone(map[string]any{"bad": map[int]string{1: "x"}})
	require.ErrorIs(t, err, core.ErrNotSerializable)
	assert.Contains(t, err.Error(), "bad")
}

func TestEqual_NormalizesNumericTypes(t *testing.T) {
	assert.True(t, Equal(map[string]any{"n": 1}, map[string]any{"n": float64(1)}))
	assert.False(t, Equal(map[string]any{"n": 1}, map[string]any{"n": 2}))
}
