// Package jsonval walks decoded JSON trees. encoding/json produces exactly
// six shapes (nil, bool, float64, string, []any, map[string]any); every
// switch in this package covers all of them so cleaners never have to guess.
package jsonval

// Normalize strips empty leaves from a decoded JSON tree: nil, empty strings,
// empty arrays, and objects that become empty once their members are
// normalized. The second return is false when the value itself should be
// dropped by its parent. Normalize(Normalize(v)) == Normalize(v).
func Normalize(v any) (any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case string:
		if val == "" {
			return nil, false
		}
		return val, true
	case bool, float64:
		return val, true
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if n, ok := Normalize(item); ok {
				out = append(out, n)
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if n, ok := Normalize(item); ok {
				out[k] = n
			}
		}
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	default:
		// Non-JSON values (json.Number, ints from hand-built maps) pass
		// through so callers can feed test literals without float casts.
		return val, true
	}
}

// StripKeys removes every occurrence of the denied field names, at any depth.
// The input tree is not modified.
func StripKeys(v any, deny map[string]struct{}) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			out = append(out, StripKeys(item, deny))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if _, denied := deny[k]; denied {
				continue
			}
			out[k] = StripKeys(item, deny)
		}
		return out
	default:
		return val
	}
}

// DenySet builds a lookup set from a deny-list slice.
func DenySet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
