package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WithConsoleEffectHandler installs a development logger writing to stdout at level and above.
// A logger that cannot be built is replaced by a no-op one.
func WithConsoleEffectHandler(
	ctx context.Context,
	bufferSize int,
	level zapcore.Level,
) (context.Context, func() context.Context) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stdout"}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return WithZapEffectHandler(ctx, bufferSize, logger)
}

// WithTestEffectHandler is WithConsoleEffectHandler at debug level.
func WithTestEffectHandler(ctx context.Context) (context.Context, func() context.Context) {
	return WithConsoleEffectHandler(ctx, 1, zap.DebugLevel)
}
