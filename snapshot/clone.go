package snapshot

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hupe1980/statetree/core"
)

// Clone deep-copies v into the JSON-safe value set: nil, booleans, strings,
// integer and float numbers, string-keyed maps and slices/arrays of the
// same. time.Time values serialize to RFC 3339 strings. Anything else —
// functions, channels, errors, complex numbers, structs, non-string-keyed
// maps — is rejected with an error naming the offending path.
func Clone(v any) (any, error) {
	return cloneAt("", v)
}

func cloneAt(path string, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t := v.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t, nil
	case time.Time:
		return t.Format(time.RFC3339Nano), nil
	case error:
		return nil, pathErr(path, v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, pathErr(path, v)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			cloned, err := cloneAt(joinPath(path, key), iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[key] = cloned
		}
		return out, nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			cloned, err := cloneAt(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = cloned
		}
		return out, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return cloneAt(path, rv.Elem().Interface())
	default:
		return nil, pathErr(path, v)
	}
}

func pathErr(path string, v any) error {
	if path == "" {
		path = "."
	}
	return fmt.Errorf("%s: %w (%T)", path, core.ErrNotSerializable, v)
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Equal reports deep structural equality of two snapshot values after
// normalization through Clone. Values rejected by Clone are never equal.
func Equal(a, b any) bool {
	ca, errA := Clone(a)
	cb, errB := Clone(b)
	if errA != nil || errB != nil {
		return false
	}
	return reflect.DeepEqual(normalize(ca), normalize(cb))
}

// normalize converts numeric leaves to float64 so snapshots survive a JSON
// round trip (where all numbers decode as float64) without losing equality.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case core.Snapshot:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}
