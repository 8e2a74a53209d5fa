package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is an exponential backoff schedule. Zero fields take the
// DefaultPolicy values.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Randomization   float64
	MaxElapsed      time.Duration
	// MaxTries bounds attempts; 0 means only MaxElapsed applies.
	MaxTries uint
}

// DefaultPolicy suits startup work such as loading the range table.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		Randomization:   0.5,
		MaxElapsed:      20 * time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.InitialInterval <= 0 {
		p.InitialInterval = d.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = d.MaxInterval
	}
	if p.Multiplier < 1 {
		p.Multiplier = d.Multiplier
	}
	if p.Randomization < 0 || p.Randomization > 1 {
		p.Randomization = d.Randomization
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = d.MaxElapsed
	}
	return p
}

// PermanentError wraps a non-retryable error.
type PermanentError struct {
	err error
}

func (e PermanentError) Error() string {
	if e.err == nil {
		return "permanent error"
	}
	return e.err.Error()
}

func (e PermanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable. Permanent(nil) is nil.
func Permanent(err error) error {
	if err == nil || IsPermanent(err) {
		return err
	}
	return PermanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent or
// backoff.Permanent.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}
	var bpe *backoff.PermanentError
	return errors.As(err, &bpe)
}

// Notify is called before each wait with the failed attempt's error.
type Notify func(err error, next time.Duration)

// Do runs fn until it succeeds, returns a permanent error, ctx ends, or the
// policy gives up. The returned error is the last one fn produced, with
// the Permanent wrapper removed.
func Do(ctx context.Context, p Policy, fn func(context.Context) error, notify Notify) error {
	p = p.withDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.Multiplier = p.Multiplier
	exp.RandomizationFactor = p.Randomization
	exp.Reset()

	op := func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		err := fn(ctx)
		if err != nil && IsPermanent(err) {
			return struct{}{}, backoff.Permanent(unwrapPermanent(err))
		}
		return struct{}{}, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	}
	if p.MaxTries > 0 {
		opts = append(opts, backoff.WithMaxTries(p.MaxTries))
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(backoff.Notify(notify)))
	}

	_, err := backoff.Retry(ctx, op, opts...)
	return err
}

func unwrapPermanent(err error) error {
	var pe PermanentError
	if errors.As(err, &pe) && pe.err != nil {
		return pe.err
	}
	return err
}
