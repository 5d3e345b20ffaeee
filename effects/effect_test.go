package effects_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_ui/effects"
	effectmodel "github.com/on-the-ground/effect_ive_ui/effects/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const effectTest effectmodel.EffectEnum = "effect_ive_ui_effect_enum_test"

type keyedInt struct {
	key string
	n   int
}

func (k keyedInt) PartitionKey() string { return k.key }

func TestResumableEffect_AnswersThroughContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, effects.HasHandler(ctx, effectTest))

	ctx, end := effects.WithResumableEffectHandler(ctx, 1, effectTest,
		func(_ context.Context, n int) (int, error) {
			if n < 0 {
				return 0, errors.New("negative")
			}
			return n * 2, nil
		},
	)
	defer end()
	assert.True(t, effects.HasHandler(ctx, effectTest))

	v, err := effects.AwaitResumableEffect[int, int](ctx, effectTest, 21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = effects.AwaitResumableEffect[int, int](ctx, effectTest, -1)
	assert.EqualError(t, err, "negative")
}

func TestPartitionableEffect_KeepsOrderPerKey(t *testing.T) {
	ctx := context.Background()

	var seen []int
	ctx, end := effects.WithResumablePartitionableEffectHandler(ctx,
		effectmodel.NewEffectScopeConfig(4, 4),
		effectTest,
		func(_ context.Context, k keyedInt) (int, error) {
			seen = append(seen, k.n)
			return len(seen), nil
		},
	)
	defer end()

	for i := 1; i <= 5; i++ {
		v, err := effects.AwaitResumableEffect[keyedInt, int](ctx, effectTest, keyedInt{key: "users", n: i})
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, seen)
}

func TestPerformEffect_PanicsWithoutHandler(t *testing.T) {
	assert.PanicsWithError(t,
		"no effect handler registered for this effect: "+string(effectTest),
		func() {
			effects.PerformResumableEffect[int, int](context.Background(), effectTest, 1)
		},
	)
	assert.Panics(t, func() {
		effects.FireAndForgetEffect(context.Background(), effectTest, 1)
	})
}

func TestTeardown_ReturnsUpperContextAndRunsOnce(t *testing.T) {
	upper := context.Background()

	torndown := 0
	ctx, end := effects.WithFireAndForgetEffectHandler(upper, 1, effectTest,
		func(context.Context, string) {},
		func() { torndown++ },
	)

	assert.Equal(t, upper, end())
	end()
	assert.Equal(t, 1, torndown)

	assert.False(t, effects.FireAndForgetEffect(ctx, effectTest, "late"))

	_, err := effects.AwaitResumableEffect[int, int](withClosedResumable(t), effectTest, 1)
	assert.ErrorIs(t, err, effectmodel.ErrNoEffectHandler)
}

func TestAwaitResumableEffect_CallerGivesUp(t *testing.T) {
	ctx := context.Background()
	block := make(chan struct{})
	defer close(block)

	ctx, end := effects.WithResumableEffectHandler(ctx, 1, effectTest,
		func(_ context.Context, n int) (int, error) {
			<-block
			return n, nil
		},
	)
	defer end()

	callerCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	_, err := effects.AwaitResumableEffect[int, int](callerCtx, effectTest, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func withClosedResumable(t *testing.T) context.Context {
	t.Helper()
	ctx, end := effects.WithResumableEffectHandler(context.Background(), 1, effectTest,
		func(_ context.Context, n int) (int, error) { return n, nil },
	)
	end()
	return ctx
}
