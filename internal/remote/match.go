package remote

import "time"

// matches reports whether a document satisfies every filter of the query.
// Shared by the in-memory store, the Postgres adapter and the subscription
// notifier so all paths agree on query semantics.
func matches(q Query, doc Document) bool {
	for _, f := range q.Filters {
		var field any
		if f.Field == FieldDocumentID {
			field = doc.ID
		} else {
			field = doc.Data[f.Field]
		}
		switch f.Op {
		case "==":
			if !valuesEqual(field, f.Value) {
				return false
			}
		case "in":
			vals, _ := f.Value.([]string)
			found := false
			for _, v := range vals {
				if valuesEqual(field, v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// valuesEqual compares payload values across the representations JSON decoding
// and Go writers produce (int vs float64, time.Time vs RFC3339 string).
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Equal(bt)
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
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
