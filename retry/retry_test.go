package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/geophone/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1.5,
		MaxElapsed:      time.Second,
	}
}

func TestDo_Success(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls, notified := 0, 0
	err := retry.Do(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(error, time.Duration) { notified++ })
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notified)
}

func TestDo_MaxTries(t *testing.T) {
	p := fastPolicy()
	p.MaxTries = 4

	calls := 0
	err := retry.Do(context.Background(), p, func(context.Context) error {
		calls++
		return errors.New("down")
	}, nil)
	require.EqualError(t, err, "down")
	assert.Equal(t, 4, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("missing table")
	calls := 0
	err := retry.Do(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		return retry.Permanent(sentinel)
	}, nil)
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := fastPolicy()
	p.MaxElapsed = time.Minute

	err := retry.Do(ctx, p, func(context.Context) error {
		return errors.New("fail")
	}, nil)
	require.Error(t, err)
	assert.Error(t, ctx.Err())
}

func TestPermanent(t *testing.T) {
	assert.Nil(t, retry.Permanent(nil))

	base := errors.New("x")
	p := retry.Permanent(base)
	assert.True(t, retry.IsPermanent(p))
	again := retry.Permanent(p)
	assert.Equal(t, p, again)
	var pe retry.PermanentError
	require.ErrorAs(t, again, &pe)
	assert.Equal(t, base, errors.Unwrap(pe))
	assert.ErrorIs(t, p, base)
	assert.False(t, retry.IsPermanent(base))
}
