package normalize

import "encoding/json"

// wrapperKeys are probed before any entity-specific hint keys. The order is
// a priority list: when several plausible collections coexist in one payload,
// the earlier key wins, and changing the order changes the result.
var wrapperKeys = []string{"data", "content"}

// idKeys identify a payload that is itself a single record rather than a
// wrapper around a collection.
var idKeys = []string{"id", "_id", "merchantId", "merchant_id"}

// maxProbeDepth bounds recursion into nested wrappers.
const maxProbeDepth = 8

// Unwrap locates the actual collection inside an arbitrary decoded JSON
// payload. Strings are re-parsed as JSON (some clusters double-encode
// responses); arrays are returned as-is; objects are probed for a wrapped
// collection under "data", "content", then each hint key in order, recursing
// into nested wrappers. An object carrying an identifying key is treated as
// a single record and returned as a singleton. Anything else unwraps to an
// empty slice: "nothing found" is zero results, never an error.
func Unwrap(raw any, hints []string) []any {
	return unwrap(raw, hints, 0)
}

// UnwrapOne reduces a payload to a single raw record, or nil when the
// payload contains none. Used by get-by-id style fetches.
func UnwrapOne(raw any, hints []string) map[string]any {
	items := Unwrap(raw, hints)
	if len(items) == 0 {
		return nil
	}
	if m, ok := items[0].(map[string]any); ok {
		return m
	}
	return nil
}

func unwrap(raw any, hints []string, depth int) []any {
	if depth > maxProbeDepth {
		return []any{}
	}

	switch v := raw.(type) {
	case string:
		var reparsed any
		if err := json.Unmarshal([]byte(v), &reparsed); err != nil {
			// Opaque string, not double-encoded JSON.
			return []any{}
		}
		return unwrap(reparsed, hints, depth+1)

	case []any:
		return v

	case map[string]any:
		for _, key := range append(append([]string{}, wrapperKeys...), hints...) {
			inner, ok := v[key]
			if !ok || inner == nil {
				continue
			}
			if arr, isArr := inner.([]any); isArr {
				return arr
			}
			// Nested wrapper ({"data":{"content":[...]}}) or a
			// double-encoded inner value.
			if found := unwrap(inner, hints, depth+1); len(found) > 0 {
				return found
			}
		}
		for _, key := range idKeys {
			if _, ok := v[key]; ok {
				return []any{v}
			}
		}
		return []any{}

	default:
		return []any{}
	}
}

// AsObject coerces a decoded JSON value to an object, re-parsing
// double-encoded strings. Returns nil when the value is not an object.
func AsObject(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case string:
		var reparsed any
		if err := json.Unmarshal([]byte(v), &reparsed); err != nil {
			return nil
		}
		if m, ok := reparsed.(map[string]any); ok {
			return m
		}
	}
	return nil
}
