package graph

import "reflect"

// EqualsFunc decides whether a new value is "the same" as the old one for
// dedupe purposes. Must be pure; dedupe correctness is undefined otherwise.
type EqualsFunc[T any] func(a, b T) bool

// NeverEqual disables dedupe: every write and every recompute counts as a
// change. Useful for container types whose identity is stable while their
// contents mutate.
func NeverEqual[T any](a, b T) bool { return false }

// DefaultEquals is structural equality with fast paths for the common
// scalar kinds and a reflect.DeepEqual fallback for everything else.
func DefaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
