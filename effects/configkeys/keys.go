package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectCachePrefix = ConfigEffectPrefix + delimiter + "cache"

	ConfigEffectCacheHandlerPrefix     = ConfigEffectCachePrefix + delimiter + "handler"
	ConfigEffectCacheHandlerBufferSize = ConfigEffectCacheHandlerPrefix + delimiter + "buffer_size"
	ConfigEffectCacheHandlerNumWorkers = ConfigEffectCacheHandlerPrefix + delimiter + "num_workers"

	ConfigEffectLogPrefix = ConfigEffectPrefix + delimiter + "log"

	ConfigEffectLogHandlerPrefix     = ConfigEffectLogPrefix + delimiter + "handler"
	ConfigEffectLogHandlerBufferSize = ConfigEffectLogHandlerPrefix + delimiter + "buffer_size"

	ConfigEffectTaskPrefix = ConfigEffectPrefix + delimiter + "task"

	ConfigEffectTaskHandlerPrefix     = ConfigEffectTaskPrefix + delimiter + "handler"
	ConfigEffectTaskHandlerBufferSize = ConfigEffectTaskHandlerPrefix + delimiter + "buffer_size"

	ConfigEffectConcurrencyPrefix = ConfigEffectPrefix + delimiter + "concurrency"

	ConfigEffectConcurrencyHandlerPrefix     = ConfigEffectConcurrencyPrefix + delimiter + "handler"
	ConfigEffectConcurrencyHandlerBufferSize = ConfigEffectConcurrencyHandlerPrefix + delimiter + "buffer_size"

	ConfigCachePrefix      = ConfigPrefix + delimiter + "cache"
	ConfigCacheShardCount  = ConfigCachePrefix + delimiter + "shard_count"
	ConfigCacheEventBuffer = ConfigCachePrefix + delimiter + "event_buffer"

	ConfigFetchPrefix        = ConfigPrefix + delimiter + "fetch"
	ConfigFetchDefaultMaxAge = ConfigFetchPrefix + delimiter + "default_max_age"
	ConfigFetchKeepStaleData = ConfigFetchPrefix + delimiter + "keep_stale_data"
)
