package cache

import (
	"context"

	"github.com/on-the-ground/effect_ive_ui/effects/binding"
	"github.com/on-the-ground/effect_ive_ui/effects/configkeys"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
)

// OptionsFromBindings reads the store and event settings from the binding effect.
// Unbound keys leave the defaults in place.
func OptionsFromBindings(ctx context.Context) []Option {
	var opts []Option
	if n := binding.GetOrDefault(ctx, configkeys.ConfigCacheShardCount, 0); n > 0 {
		opts = append(opts, WithStore(NewShardedStore(n)))
	}
	if size := binding.GetOrDefault(ctx, configkeys.ConfigCacheEventBuffer, 0); size > 0 {
		opts = append(opts, WithEventSink(size))
	}
	return opts
}

// EffectConfigFromBindings sizes the cache effect handler from the binding effect.
func EffectConfigFromBindings(ctx context.Context) effectmodel.EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(
		binding.GetOrDefault(ctx, configkeys.ConfigEffectCacheHandlerBufferSize, 1),
		binding.GetOrDefault(ctx, configkeys.ConfigEffectCacheHandlerNumWorkers, 1),
	)
}
