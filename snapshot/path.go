package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/hupe1980/statetree/core"
)

// Marshal encodes a snapshot to its canonical JSON form.
func Marshal(snap core.Snapshot) ([]byte, error) {
	cloned, err := Clone(map[string]any(snap))
	if err != nil {
		return nil, err
	}
	return json.Marshal(cloned)
}

// Unmarshal decodes the canonical JSON form back into a snapshot. Numbers
// decode as float64, matching the normalization applied by Equal.
func Unmarshal(data []byte) (core.Snapshot, error) {
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// Get addresses a value inside a snapshot by gjson path syntax, e.g.
// "todos.1.title". The second return reports whether the path exists.
func Get(snap core.Snapshot, path string) (any, bool) {
	data, err := Marshal(snap)
	if err != nil {
		return nil, false
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// Set returns a copy of the snapshot with the value at the given sjson path
// replaced. The input snapshot is not modified; the result is suitable for
// feeding back into LoadSnapshot.
func Set(snap core.Snapshot, path string, value any) (core.Snapshot, error) {
	data, err := Marshal(snap)
	if err != nil {
		return nil, err
	}
	patched, err := sjson.SetBytes(data, path, value)
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", path, err)
	}
	return Unmarshal(patched)
}

// Delete returns a copy of the snapshot with the value at the given path
// removed.
func Delete(snap core.Snapshot, path string) (core.Snapshot, error) {
	data, err := Marshal(snap)
	if err != nil {
		return nil, err
	}
	patched, err := sjson.DeleteBytes(data, path)
	if err != nil {
		return nil, fmt.Errorf("delete %q: %w", path, err)
	}
	return Unmarshal(patched)
}
