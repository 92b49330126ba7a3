// Package nestedmap resolves key paths against nested map values.
package nestedmap

import "reflect"

// Mapping is implemented by values that support key lookup during traversal.
type Mapping[K comparable] interface {
	Lookup(key K) (any, bool)
}

// Access walks m by applying each key of path in order and returns the value reached.
// An empty path returns m itself. The first key that cannot be resolved fails with
// a *KeyNotFoundError carrying exactly that key.
func Access[K comparable](m map[K]any, path ...K) (any, error) {
	return Walk(m, path...)
}

// Walk is Access over an untyped root such as a decoded JSON or YAML document.
func Walk[K comparable](root any, path ...K) (any, error) {
	cursor := root
	for _, key := range path {
		next, ok := lookup(cursor, key)
		if !ok {
			return nil, &KeyNotFoundError[K]{Key: key}
		}
		cursor = next
	}
	return cursor, nil
}

// lookup resolves key against cursor; non-map cursors never contain a key.
func lookup[K comparable](cursor any, key K) (any, bool) {
	switch c := cursor.(type) {
	case map[K]any:
		v, ok := c[key]
		return v, ok
	case map[any]any:
		v, ok := c[key]
		return v, ok
	case Mapping[K]:
		return c.Lookup(key)
	default:
		return lookupReflect(cursor, key)
	}
}

// lookupReflect handles maps with typed values such as map[string]int.
func lookupReflect(cursor, key any) (any, bool) {
	rv := reflect.ValueOf(cursor)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	kv := reflect.ValueOf(key)
	if !kv.IsValid() || !kv.Type().AssignableTo(rv.Type().Key()) {
		return nil, false
	}
	v := rv.MapIndex(kv)
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}

// AccessAs resolves path and asserts the result to T.
func AccessAs[T any, K comparable](m map[K]any, path ...K) (T, error) {
	var zero T
	v, err := Access(m, path...)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, &TypeMismatchError{Path: anySlice(path), Want: reflect.TypeOf((*T)(nil)).Elem(), Got: v}
	}
	return out, nil
}

func anySlice[K comparable](path []K) []any {
	out := make([]any, len(path))
	for i, k := range path {
		out[i] = k
	}
	return out
}
