package rangesource_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vortex-fintech/geophone/logger"
	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/rangesource"
	"github.com/vortex-fintech/geophone/retry"
)

type flakySource struct {
	failures int
	err      error
	table    phone.Table
	calls    int
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) Load(context.Context) (phone.Table, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.table, nil
}

func fastPolicy() rangesource.LoadOption {
	return rangesource.WithPolicy(retry.Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsed:      time.Second,
		MaxTries:        5,
	})
}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestLoad_RetriesTransientFailures(t *testing.T) {
	src := &flakySource{failures: 2, err: errors.New("connection refused"), table: rangesource.Default()}
	log, logs := observed()

	table, err := rangesource.Load(context.Background(), src, log, fastPolicy())
	require.NoError(t, err)
	assert.Equal(t, 3, src.calls)
	assert.Equal(t, rangesource.Default(), table)

	assert.Equal(t, 2, logs.FilterMessage("range table load failed, retrying").Len())
	loaded := logs.FilterMessage("range table loaded").All()
	require.Len(t, loaded, 1)
	fields := loaded[0].ContextMap()
	assert.Equal(t, "flaky", fields["source"])
	assert.EqualValues(t, 3, fields["providers"])
}

func TestLoad_InvalidTableIsNotRetried(t *testing.T) {
	src := &flakySource{table: phone.Table{{Name: "Magti", Ranges: []phone.Range{{Start: 2, End: 1}}}}}
	log, logs := observed()

	_, err := rangesource.Load(context.Background(), src, log, fastPolicy())
	require.Error(t, err)
	assert.ErrorIs(t, err, phone.ErrInvalidTable)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, logs.FilterMessage("range table load failed").Len())
}

func TestLoad_DecodeErrorIsNotRetried(t *testing.T) {
	src := &flakySource{failures: 10, err: errors.Join(phone.ErrInvalidTable, errors.New("bad doc"))}

	_, err := rangesource.Load(context.Background(), src, nil, fastPolicy())
	require.Error(t, err)
	assert.Equal(t, 1, src.calls)
}

func TestLoad_GivesUp(t *testing.T) {
	src := &flakySource{failures: 100, err: errors.New("timeout")}

	_, err := rangesource.Load(context.Background(), src, logger.Nop(), fastPolicy())
	require.EqualError(t, err, "timeout")
	assert.Equal(t, 5, src.calls)
}

func TestLoad_Embedded(t *testing.T) {
	table, err := rangesource.Load(context.Background(), rangesource.Embedded(), logger.Nop())
	require.NoError(t, err)
	assert.Len(t, table, 3)
}
