package binding

import (
	"context"

	"github.com/on-the-ground/effect_ive_ui/shared/helper"
)

// GetFromBindingEffect fetches a typed value from the Binding effect using the provided key.
// Returns a zero value and error if the key is not found or the type is mismatched.
func GetFromBindingEffect[T any](ctx context.Context, key string) (T, error) {
	return helper.As[T](Effect(ctx, key))
}

// MustGetFromBindingEffect is the panic-on-failure variant of GetFromBindingEffect.
func MustGetFromBindingEffect[T any](ctx context.Context, key string) T {
	return helper.MustAs[T](Effect(ctx, key))
}

// GetOrDefault returns the typed value bound to key, or def when no binding
// handler is installed, the key is unbound, or the value has another type.
func GetOrDefault[T any](ctx context.Context, key string, def T) T {
	if !HasHandler(ctx) {
		return def
	}
	v, err := GetFromBindingEffect[T](ctx, key)
	if err != nil {
		return def
	}
	return v
}
