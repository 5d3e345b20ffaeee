package effects

import (
	"context"
	"fmt"

	"github.com/on-the-ground/effect_ive_ui/effects/internal/handlers"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
	"github.com/on-the-ground/effect_ive_ui/shared/helper"
	"go.uber.org/zap"
)

var scopeLogger, _ = zap.NewProduction()

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler supports hash-based partitioning via PartitionKey(), and is suitable for effects
// like cache updates where per-key ordering matters.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler.EffectId, "resumable", handler, handler.Close)
}

// WithResumableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler is suitable for effects that don't require ordering by key.
func WithResumableEffectHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler.EffectId, "resumable", handler, handler.Close)
}

// PerformResumableEffect sends a payload to the resumable effect handler.
//
// The returned channel yields the handler's result, or is closed without one when
// the context ends first. Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan effectmodel.ResumableResult[R] {
	handler := helper.MustAs[handlers.ResumableHandler[P, R]](getHandler(ctx, enum))
	return handler.PerformEffect(ctx, payload)
}

// AwaitResumableEffect performs the effect and blocks until its result or the end of ctx.
func AwaitResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) (R, error) {
	select {
	case res, ok := <-PerformResumableEffect[P, R](ctx, enum, payload):
		if ok {
			return res.Value, res.Err
		}
	case <-ctx.Done():
	}
	if err := ctx.Err(); err != nil {
		return *new(R), err
	}
	return *new(R), fmt.Errorf("%w: %v is closed", effectmodel.ErrNoEffectHandler, enum)
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging or spawning background work.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, normalizeTeardown(teardown))
	return register(ctx, enum, handler.EffectId, "fire/forget", handler, handler.Close)
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
// It reports false when the payload was dropped because ctx or the handler ended.
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) bool {
	handler := helper.MustAs[handlers.FireAndForgetHandler[P]](getHandler(ctx, enum))
	return handler.FireAndForgetEffect(ctx, payload)
}

// HasHandler reports whether a handler for enum is reachable from ctx.
func HasHandler(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return ctx.Value(enum) != nil
}

func register(
	ctx context.Context,
	enum effectmodel.EffectEnum,
	effectId string,
	kind string,
	handler any,
	closeFn func(),
) (context.Context, func() context.Context) {
	ctxWith := context.WithValue(ctx, enum, handler)
	scopeLogger.Debug("created effect handler",
		zap.String("kind", kind),
		zap.String("effectId", effectId),
		zap.String("enum", string(enum)),
	)
	return ctxWith, func() context.Context {
		closeFn()
		scopeLogger.Debug("closed effect handler",
			zap.String("kind", kind),
			zap.String("effectId", effectId),
			zap.String("enum", string(enum)),
		)
		return ctx
	}
}

// getHandler checks whether a handler for the given EffectEnum is registered in the context.
func getHandler(ctx context.Context, enum effectmodel.EffectEnum) (any, error) {
	raw := ctx.Value(enum)
	if raw == nil {
		return nil, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, enum)
	}
	return raw, nil
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
