package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyjsbell/zksol/pkg/config"
)

func TestConfigDoesntExist(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"
	c := NewConfig(env)

	t.Setenv(env, "default")

	v, err := c.Get(context.Background())
	assert.Equal(t, []byte("default"), v)
	assert.Nil(t, err)

	t.Setenv(env, "  ")

	v, err = c.Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestTypedConfigs(t *testing.T) {
	const (
		uint64Env = "ENV_CONFIG_TEST_UINT64"
		boolEnv   = "ENV_CONFIG_TEST_BOOL"
	)

	uint64Config := NewUint64Config(uint64Env, 64)
	boolConfig := NewBoolConfig(boolEnv, true)

	assert.EqualValues(t, 64, uint64Config.Get(context.Background()))
	assert.True(t, boolConfig.Get(context.Background()))

	t.Setenv(uint64Env, "4096")
	t.Setenv(boolEnv, "false")

	assert.EqualValues(t, 4096, uint64Config.Get(context.Background()))
	assert.False(t, boolConfig.Get(context.Background()))

	t.Setenv(uint64Env, "-1")

	val, err := uint64Config.GetSafe(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 4096, val)
}
