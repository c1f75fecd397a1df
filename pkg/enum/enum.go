// Package enum keeps a registry of string-backed enum values per Go type, so
// user input can be converted back to a typed value safely.
package enum

import (
	"fmt"
	"reflect"
)

var registry = map[reflect.Type]any{}

type valueSet[T comparable] map[string]T

// New registers a value into the enum set of its type. The returned value is
// the registered one, so declarations can be written as assignments.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	set, ok := registry[t].(valueSet[T])
	if !ok {
		set = make(valueSet[T])
		registry[t] = set
	}

	set[reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum converts a string to a registered enum value of type T.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	set, ok := registry[reflect.TypeOf(zero)].(valueSet[T])
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := set[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
