package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FirstString resolves a canonical field from an ordered list of candidate
// source keys: the first present, non-empty value wins. Numeric values are
// stringified since clusters disagree on whether IDs are strings or numbers.
func FirstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		case float64:
			// JSON numbers decode as float64; render integers without
			// a trailing fraction.
			if s == float64(int64(s)) {
				return strconv.FormatInt(int64(s), 10)
			}
			return strconv.FormatFloat(s, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(s)
		}
	}
	return ""
}

// FirstBool resolves a boolean from candidate keys. Returns the value and
// whether any candidate carried a usable boolean signal ("true"/"false"
// strings count).
func FirstBool(raw map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b, true
		case string:
			if parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(b))); err == nil {
				return parsed, true
			}
		}
	}
	return false, false
}

// FirstDate resolves and normalizes a timestamp from candidate keys.
// Returns "" when no candidate parses.
func FirstDate(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := FirstString(raw, key); s != "" {
			if iso := NormalizeDate(s); iso != "" {
				return iso
			}
		}
	}
	return ""
}

// StringMap coerces a value that should be a string-keyed map but may arrive
// as an object, a JSON-encoded string, or garbage. Values are stringified.
func StringMap(v any) map[string]string {
	obj, ok := v.(map[string]any)
	if !ok {
		if s, isStr := v.(string); isStr {
			var reparsed map[string]any
			if err := json.Unmarshal([]byte(s), &reparsed); err != nil {
				return nil
			}
			obj = reparsed
		} else {
			return nil
		}
	}
	out := make(map[string]string, len(obj))
	for k, val := range obj {
		switch s := val.(type) {
		case string:
			out[k] = s
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprintf("%v", s)
		}
	}
	return out
}

// Extras returns the input fields not consumed by the canonical mapping, so
// open entities keep backend-specific extras accessible. Returns nil when
// nothing is left over.
func Extras(raw map[string]any, consumed ...string) map[string]any {
	taken := make(map[string]struct{}, len(consumed))
	for _, k := range consumed {
		taken[k] = struct{}{}
	}
	var out map[string]any
	for k, v := range raw {
		if _, ok := taken[k]; ok {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = v
	}
	return out
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldName lowercases, strips diacritics and collapses whitespace so that
// merchant names coming from different clusters compare equal.
func FoldName(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
