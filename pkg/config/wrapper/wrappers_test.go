package wrapper

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyjsbell/zksol/pkg/config"
	"github.com/andyjsbell/zksol/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	defaultValue := true
	overridenValue := false
	mock := memory.NewConfig(nil)
	wrapper := NewBoolConfig(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// The overriden value is returned when set
	mock.SetValue(overridenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(context.Background()))

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(context.Background()))

	// The default value is returned when the override no longer has a value
	mock.StopInducingErrors()
	mock.ClearValue()
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Text values are parsed
	for _, text := range []string{"false", "0", "F"} {
		mock.SetValue([]byte(text))
		assert.False(t, wrapper.Get(context.Background()), text)
	}
	mock.SetValue("true")
	assert.True(t, wrapper.Get(context.Background()))

	// Unparseable text keeps the last value
	mock.SetValue([]byte("maybe"))
	val, err = wrapper.GetSafe(context.Background())
	assert.Error(t, err)
	assert.True(t, val)

	// Return an unsupported source value type
	mock.SetValue(1.5)
	val, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, err, ErrUnsuportedConversion)
	assert.True(t, val)
}

func TestUint64Config(t *testing.T) {
	defaultValue := uint64(200_000)
	overridenValue := uint64(math.MaxUint64)
	mock := memory.NewConfig(nil)
	wrapper := NewUint64Config(mock, defaultValue)

	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	for _, override := range []interface{}{
		overridenValue,
		[]byte(strconv.FormatUint(overridenValue, 10)),
		strconv.FormatUint(overridenValue, 10),
	} {
		mock.SetValue(override)
		val, err = wrapper.GetSafe(context.Background())
		require.NoError(t, err)
		assert.Equal(t, overridenValue, val)
	}

	mock.SetValue(uint(42))
	assert.EqualValues(t, 42, wrapper.Get(context.Background()))
	mock.SetValue(int(43))
	assert.EqualValues(t, 43, wrapper.Get(context.Background()))

	// Invalid values keep the last value
	for _, override := range []interface{}{
		-1,
		[]byte("-1"),
		[]byte("1e3"),
		[]byte("18446744073709551616"),
	} {
		mock.SetValue(override)
		val, err = wrapper.GetSafe(context.Background())
		assert.Error(t, err)
		assert.EqualValues(t, 43, val)
	}

	mock.SetValue(int64(1))
	_, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, ErrUnsuportedConversion, err)

	mock.ClearValue()
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))
}

func TestShutdown(t *testing.T) {
	mock := memory.NewConfig(uint64(1))
	wrapper := NewUint64Config(mock, 2)
	assert.EqualValues(t, 1, wrapper.Get(context.Background()))

	wrapper.Shutdown()
	val, err := wrapper.GetSafe(context.Background())
	assert.Equal(t, config.ErrShutdown, err)
	assert.EqualValues(t, 1, val)
}

func TestNoopOverride(t *testing.T) {
	boolConfig := NewBoolConfig(config.NoopConfig, true)
	val, err := boolConfig.GetSafe(context.Background())
	require.NoError(t, err)
	assert.True(t, val)

	uint64Config := NewUint64Config(config.NoopConfig, 200_000)
	count, err := uint64Config.GetSafe(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 200_000, count)
	assert.EqualValues(t, 200_000, uint64Config.Get(context.Background()))

	uint64Config.Shutdown()
	boolConfig.Shutdown()
}
