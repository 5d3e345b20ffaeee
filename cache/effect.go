package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/on-the-ground/effect_ive_ui/effects"
	"github.com/on-the-ground/effect_ive_ui/effects/log"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
	"github.com/on-the-ground/effect_ive_ui/shared/helper"
)

// WithEffectHandler exposes tc as the cache effect of the returned context.
//
// Operations are handled by config.NumWorkers workers; every key is owned by one
// worker, so a Set followed by an Invalidate of the same key is never reordered.
// The cache itself outlives the handler.
func WithEffectHandler(
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	tc *TimedCache,
) (context.Context, func() context.Context) {
	h := cacheHandler{tc: tc}
	return effects.WithResumablePartitionableEffectHandler[Payload, any](
		ctx,
		config,
		effectmodel.EffectCache,
		h.handle,
	)
}

func EffectGet(ctx context.Context, key string) (Entry, bool, error) {
	res, err := helper.As[lookup](effect(ctx, Get{Key: key}))
	return res.entry, res.found, err
}

func EffectIsValid(ctx context.Context, key string, maxAge time.Duration) (bool, error) {
	return helper.As[bool](effect(ctx, IsValid{Key: key, MaxAge: maxAge}))
}

func EffectSet(ctx context.Context, key string, value any) error {
	_, err := effect(ctx, Set{Key: key, Value: value})
	return err
}

func EffectInvalidate(ctx context.Context, key string) error {
	_, err := effect(ctx, Invalidate{Key: key})
	return err
}

// effect performs a cache operation using the EffectCache handler.
// Panics if no cache handler is registered.
func effect(ctx context.Context, payload Payload) (any, error) {
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectCache, payload)
}

type cacheHandler struct {
	tc *TimedCache
}

func (h cacheHandler) handle(ctx context.Context, payload Payload) (any, error) {
	switch payload := payload.(type) {
	case Get:
		e, ok := h.tc.Get(payload.Key)
		return lookup{entry: e, found: ok}, nil
	case IsValid:
		return h.tc.IsValid(payload.Key, payload.MaxAge), nil
	case Set:
		h.tc.Set(payload.Key, payload.Value)
		return nil, nil
	case Invalidate:
		h.tc.Invalidate(payload.Key)
		log.TryEffect(ctx, log.LogDebug, "cache key invalidated", map[string]interface{}{
			"key": payload.Key,
		})
		return nil, nil
	default:
		panic(fmt.Sprintf("exhaustive match fallback, payload type: %T", payload))
	}
}
