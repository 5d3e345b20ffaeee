package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/effect_ive_ui/effects"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
)

// ErrKeyNotFound is returned when neither this scope nor any upper scope binds a key.
var ErrKeyNotFound = errors.New("key not found")

// Payload is the key to look up.
type Payload string

func (bp Payload) PartitionKey() string {
	return string(bp)
}

// WithEffectHandler registers a resumable, partitionable lookup handler over bindingMap.
//
//   - Keys missing locally are delegated to the binding handler of an upper scope.
//   - The map is read-only once registered.
//   - The teardown closes the handler and returns the upper context.
func WithEffectHandler(
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	bindingMap map[string]any,
) (context.Context, func() context.Context) {
	bindingHandler := bindingHandler{
		bindingMap: normalizeBindingMap(bindingMap),
	}
	return effects.WithResumablePartitionableEffectHandler[Payload, any](
		ctx,
		config,
		effectmodel.EffectBinding,
		bindingHandler.handle,
	)
}

// Effect looks key up through the binding handler in ctx.
// Panics if no binding handler is registered.
func Effect(ctx context.Context, key string) (any, error) {
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectBinding, Payload(key))
}

func normalizeBindingMap(bm map[string]any) map[string]any {
	if bm == nil {
		return map[string]any{}
	}
	copied := make(map[string]any, len(bm))
	for k, v := range bm {
		copied[k] = v
	}
	return copied
}

type bindingHandler struct {
	bindingMap map[string]any
}

// handle answers from the local map, then from the upper scope if there is one.
// ctx here is the handler's own context, which only sees upper scopes.
func (bh bindingHandler) handle(ctx context.Context, payload Payload) (any, error) {
	key := string(payload)
	if v, ok := bh.bindingMap[key]; ok {
		return v, nil
	}
	if effects.HasHandler(ctx, effectmodel.EffectBinding) {
		return Effect(ctx, key)
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// HasHandler reports whether a binding handler is reachable from ctx.
func HasHandler(ctx context.Context) bool {
	return effects.HasHandler(ctx, effectmodel.EffectBinding)
}
