package nestedmap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrKeyNotFound matches every *KeyNotFoundError via errors.Is.
	ErrKeyNotFound = errors.New("key not found")
	// ErrTypeMismatch matches every *TypeMismatchError via errors.Is.
	ErrTypeMismatch = errors.New("type mismatch")
)

// KeyNotFoundError reports the single path segment that could not be resolved.
type KeyNotFoundError[K comparable] struct {
	Key K
}

func (e *KeyNotFoundError[K]) Error() string {
	return fmt.Sprintf("key not found: %#v", e.Key)
}

func (e *KeyNotFoundError[K]) Is(target error) bool { return target == ErrKeyNotFound }

// MissingKey returns the unresolved key from err when it is a KeyNotFoundError of any key type.
func MissingKey(err error) (any, bool) {
	var keyed interface{ missingKey() any }
	if errors.As(err, &keyed) {
		return keyed.missingKey(), true
	}
	return nil, false
}

func (e *KeyNotFoundError[K]) missingKey() any { return e.Key }

// TypeMismatchError is returned by AccessAs when the resolved value has another type.
type TypeMismatchError struct {
	Path []any
	Want reflect.Type
	Got  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("value at %v is %T, want %v", e.Path, e.Got, e.Want)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }
