package mapper

import (
	"regexp"
	"time"
)

// isoTimestamp is the strict wire pattern for serialized dates. Anything that
// matches is revived to time.Time; anything else stays a plain string.
var isoTimestamp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d{1,3})?Z$`)

// Str returns the first non-empty string under any of the candidate keys.
// Candidates are ordered: canonical spelling first, legacy aliases after.
func Str(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := data[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Float returns the first numeric value under any of the candidate keys.
func Float(data map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if f, ok := toFloat(data[k]); ok {
			return f
		}
	}
	return 0
}

// Int returns the first numeric value under any of the candidate keys,
// truncated to an integer.
func Int(data map[string]any, keys ...string) int {
	return int(Float(data, keys...))
}

// OptionalInt distinguishes a missing value from zero.
func OptionalInt(data map[string]any, keys ...string) *int {
	for _, k := range keys {
		if f, ok := toFloat(data[k]); ok {
			n := int(f)
			return &n
		}
	}
	return nil
}

// OptionalFloat distinguishes a missing value from zero.
func OptionalFloat(data map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		if f, ok := toFloat(data[k]); ok {
			return &f
		}
	}
	return nil
}

// StrSlice accepts []string, []any of strings, or a singular string value.
func StrSlice(data map[string]any, keys ...string) []string {
	for _, k := range keys {
		switch v := data[k].(type) {
		case []string:
			if len(v) > 0 {
				out := make([]string, len(v))
				copy(out, v)
				return out
			}
		case []any:
			var out []string
			for _, e := range v {
				if s, ok := e.(string); ok && s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		case string:
			if v != "" {
				return []string{v}
			}
		}
	}
	return nil
}

// Time revives the first timestamp under any of the candidate keys: native
// time.Time passes through, strings matching the strict ISO pattern are
// parsed, everything else yields the zero time.
func Time(data map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		switch v := data[k].(type) {
		case time.Time:
			return v
		case string:
			if isoTimestamp.MatchString(v) {
				if t, err := time.Parse(time.RFC3339, v); err == nil {
					return t
				}
			}
		}
	}
	return time.Time{}
}

// FloatMap decodes a string-keyed numeric map (per-item discounts).
func FloatMap(data map[string]any, keys ...string) map[string]float64 {
	for _, k := range keys {
		raw, ok := data[k].(map[string]any)
		if !ok {
			continue
		}
		out := make(map[string]float64, len(raw))
		for key, v := range raw {
			if f, fok := toFloat(v); fok {
				out[key] = f
			}
		}
		return out
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
