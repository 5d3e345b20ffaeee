// Package effects is the context-scoped effect handler core the UI state packages run on.
//
// A handler is registered with `WithXxxEffectHandler(ctx, ...)`, which returns a derived
// context carrying the handler and a teardown that closes it. Code performs an effect by
// enum through that context and never touches the handler directly:
//
//   - resumable effects (`PerformResumableEffect`, `AwaitResumableEffect`) answer with a value
//   - fire-and-forget effects (`FireAndForgetEffect`) only enqueue
//
// Partitionable handlers route payloads by `PartitionKey()` through xxhash, so payloads for
// one key are handled in the order they were sent.
//
// Built-in handlers live in the sub packages: log, concurrency, task and binding.
// The cache package registers its own handler on top of this core.
//
// Example:
//
//	ctx, endOfLog := log.WithZapEffectHandler(ctx, 16, logger)
//	defer endOfLog()
//
//	ctx, endOfTask := task.WithEffectHandler(ctx, 16)
//	defer endOfTask()
//
//	res := <-task.Effect(ctx, func(ctx context.Context) (int, error) { return 42, nil })
package effects
