package rangesource

import (
	"context"
	"errors"
	"time"

	"github.com/vortex-fintech/geophone/logger"
	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/retry"
)

// Source produces a provider range table.
type Source interface {
	Name() string
	Load(ctx context.Context) (phone.Table, error)
}

type loadOptions struct {
	policy retry.Policy
}

// LoadOption tunes Load.
type LoadOption func(*loadOptions)

// WithPolicy overrides the retry schedule.
func WithPolicy(p retry.Policy) LoadOption {
	return func(o *loadOptions) { o.policy = p }
}

// Load fetches a table from src, retrying transient failures, and
// validates it. Malformed or invalid tables are not retried.
func Load(ctx context.Context, src Source, log logger.LoggerInterface, opts ...LoadOption) (phone.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logger.Nop()
	}
	o := loadOptions{policy: retry.DefaultPolicy()}
	for _, opt := range opts {
		opt(&o)
	}

	log = log.With("source", src.Name())
	started := time.Now()

	var table phone.Table
	err := retry.Do(ctx, o.policy, func(ctx context.Context) error {
		t, err := src.Load(ctx)
		if err != nil {
			if errors.Is(err, phone.ErrInvalidTable) {
				return retry.Permanent(err)
			}
			return err
		}
		if err := t.Validate(); err != nil {
			return retry.Permanent(err)
		}
		table = t
		return nil
	}, func(err error, next time.Duration) {
		log.Warnw("range table load failed, retrying", "error", err, "retry_in", next)
	})
	if err != nil {
		log.Errorw("range table load failed", "error", err, "elapsed", time.Since(started))
		return nil, err
	}

	log.Infow("range table loaded",
		"providers", len(table),
		"ranges", table.RangeCount(),
		"elapsed", time.Since(started),
	)
	return table, nil
}
