package snapshot

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/hupe1980/statetree/core"
)

// Change records one structural difference between two snapshots. From is
// nil for additions, To is nil for removals.
type Change struct {
	Path string
	From any
	To   any
}

// Diff computes the changed leaf paths between two snapshots. The engine
// never deep-diffs on its own during change propagation; this explicit
// entry point exists for callers that want a structural delta (audit
// trails, targeted patches via Set).
func Diff(old, new core.Snapshot) []Change {
	var changes []Change
	diffValue("", normalize(cloneLenient(map[string]any(old))), normalize(cloneLenient(map[string]any(new))), &changes)
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

// cloneLenient is Clone with the error collapsed: non-serializable input
// yields nil, which Diff then reports as a whole-value change.
func cloneLenient(v any) any {
	cloned, err := Clone(v)
	if err != nil {
		return nil
	}
	return cloned
}

func diffValue(path string, old, new any, out *[]Change) {
	if reflect.DeepEqual(old, new) {
		return
	}

	om, oOK := old.(map[string]any)
	nm, nOK := new.(map[string]any)
	if oOK && nOK {
		keys := map[string]struct{}{}
		for k := range om {
			keys[k] = struct{}{}
		}
		for k := range nm {
			keys[k] = struct{}{}
		}
		for k := range keys {
			diffValue(joinPath(path, k), om[k], nm[k], out)
		}
		return
	}

	ol, oOK := old.([]any)
	nl, nOK := new.([]any)
	if oOK && nOK {
		n := len(ol)
		if len(nl) > n {
			n = len(nl)
		}
		for i := 0; i < n; i++ {
			var ov, nv any
			if i < len(ol) {
				ov = ol[i]
			}
			if i < len(nl) {
				nv = nl[i]
			}
			diffValue(fmt.Sprintf("%s[%d]", path, i), ov, nv, out)
		}
		return
	}

	if path == "" {
		path = "."
	}
	*out = append(*out, Change{Path: path, From: old, To: new})
}
