package helper

import (
	"errors"
	"fmt"
)

var ErrUnexpectedType = errors.New("unexpected type")

// As narrows the (value, error) result of an effect to T.
// A non-nil err is returned unchanged.
func As[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnexpectedType, v)
	}
	return typed, nil
}

// MustAs is As for lookups that cannot fail once the program is wired, such as
// finding an installed effect handler. It panics with the error.
func MustAs[T any](v any, err error) T {
	typed, err := As[T](v, err)
	if err != nil {
		panic(err)
	}
	return typed
}
