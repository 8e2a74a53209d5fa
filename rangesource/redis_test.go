package rangesource

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/retry"
)

func TestRedisConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  RedisConfig
		err  error
	}{
		{name: "no address", cfg: RedisConfig{}, err: errAddressRequired},
		{name: "negative db", cfg: RedisConfig{Addr: "a:1", DB: -1}, err: errInvalidDB},
		{name: "single with many", cfg: RedisConfig{Addrs: []string{"a:1", "b:1"}}, err: errSingleModeAddrCount},
		{name: "single with master", cfg: RedisConfig{Addr: "a:1", MasterName: "m"}, err: errMasterNameUnexpected},
		{name: "cluster with one", cfg: RedisConfig{Mode: "cluster", Addr: "a:1"}, err: errClusterModeAddrCount},
		{name: "cluster db", cfg: RedisConfig{Mode: "Cluster", Addrs: []string{"a:1", "b:1"}, DB: 2}, err: errClusterDBUnsupported},
		{name: "sentinel without master", cfg: RedisConfig{Mode: "sentinel", Addr: "a:1"}, err: errMasterNameRequired},
		{name: "unknown mode", cfg: RedisConfig{Mode: "ring", Addr: "a:1"}, err: errUnsupportedMode},
		{name: "single ok", cfg: RedisConfig{Addr: " a:1 "}},
		{name: "sentinel ok", cfg: RedisConfig{Mode: "sentinel", Addrs: []string{"a:1"}, MasterName: "m"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNewRedisClient_PassesOptions(t *testing.T) {
	var captured *goredis.UniversalOptions
	orig := newUniversal
	newUniversal = func(opt *goredis.UniversalOptions) goredis.UniversalClient {
		captured = opt
		return goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	}
	t.Cleanup(func() { newUniversal = orig })

	_, err := NewRedisClient(context.Background(), RedisConfig{
		Addr:        "10.0.0.1:6379",
		DB:          3,
		TLSEnabled:  true,
		DialTimeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, []string{"10.0.0.1:6379"}, captured.Addrs)
	assert.Equal(t, 3, captured.DB)
	require.NotNil(t, captured.TLSConfig)
}

func TestRedis_Load(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set(DefaultRedisKey, string(embeddedRanges))

	client, err := NewRedisClient(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	table, err := Redis{Client: client}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Default(), table)
}

func TestRedis_CustomKeyJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set("tables:ge", `{"Magti":[{"start":995555000000,"end":995555999999}]}`)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	table, err := Redis{Client: client, Key: "tables:ge"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{phone.Magti}, table.Providers())
}

func TestRedis_Errors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	_, err := Redis{Client: client}.Load(context.Background())
	require.ErrorContains(t, err, "not found")
	assert.True(t, retry.IsPermanent(err))

	mr.Set("broken", "[")
	_, err = Redis{Client: client, Key: "broken"}.Load(context.Background())
	require.ErrorIs(t, err, phone.ErrInvalidTable)

	mr.Close()
	_, err = Redis{Client: client, Key: "broken"}.Load(context.Background())
	require.Error(t, err)
	assert.False(t, retry.IsPermanent(err))

	_, err = Redis{}.Load(context.Background())
	assert.True(t, retry.IsPermanent(err))
}
