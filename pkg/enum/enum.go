package enum

import (
	"fmt"
	"reflect"
)

// members holds the registered values of every enum type, keyed by the type
// itself so that equally named types of different packages don't collide.
var members = map[reflect.Type]map[string]any{}

// New registers value as a member of its type and returns it. It is only
// called from package-level var blocks, so the registry needs no lock.
func New[T ~string](value T) T {
	t := reflect.TypeOf(value)
	if members[t] == nil {
		members[t] = map[string]any{}
	}

	members[t][string(value)] = value
	return value
}

// ToEnum parses s into a registered member of T. The match is exact.
func ToEnum[T ~string](s string) (T, error) {
	var zero T
	values, ok := members[reflect.TypeOf(zero)]
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := values[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value.(T), nil
}
