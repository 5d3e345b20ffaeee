package effectmodel

import "errors"

type EffectEnum string

const (
	EffectLog         EffectEnum = "effect_ive_ui_effect_enum_log"
	EffectConcurrency EffectEnum = "effect_ive_ui_effect_enum_concurrency"
	EffectTask        EffectEnum = "effect_ive_ui_effect_enum_task"
	EffectBinding     EffectEnum = "effect_ive_ui_effect_enum_binding"
	EffectCache       EffectEnum = "effect_ive_ui_effect_enum_cache"
)

// ErrNoEffectHandler is raised when an effect is performed in a context
// that has no handler registered for its enum.
var ErrNoEffectHandler = errors.New("no effect handler registered for this effect")

type EffectScopeConfig struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

func NewEffectScopeConfig(bufferSize int, numWorkers int) EffectScopeConfig {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return EffectScopeConfig{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}

type Partitionable interface {
	PartitionKey() string
}

// ResumableResult represents the result of a handled effect.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}
