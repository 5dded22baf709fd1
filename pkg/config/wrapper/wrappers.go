package wrapper

import (
	"context"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/andyjsbell/zksol/pkg/config"
)

// ErrUnsuportedConversion indicates the wrapper does not implement conversion from the source type
var ErrUnsuportedConversion = errors.New("config: wrapper conversion from source type not implemented")

// converter turns a raw config value into T
type converter[T any] func(raw interface{}) (T, error)

// typedConfig wraps a config.Config, falling back to a default value when the
// override has no value and to the last good value when it fails
type typedConfig[T any] struct {
	override     config.Config
	defaultValue T
	convert      converter[T]

	stateMu   sync.RWMutex
	lastValue T
}

func newTypedConfig[T any](override config.Config, defaultValue T, convert converter[T]) config.Typed[T] {
	return &typedConfig[T]{
		override:     override,
		defaultValue: defaultValue,
		convert:      convert,
		lastValue:    defaultValue,
	}
}

// NewBoolConfig returns a new bool config utility wrapper
func NewBoolConfig(override config.Config, defaultValue bool) config.Bool {
	return newTypedConfig(override, defaultValue, toBool)
}

// NewUint64Config returns a new uint64 config utility wrapper
func NewUint64Config(override config.Config, defaultValue uint64) config.Uint64 {
	return newTypedConfig(override, defaultValue, toUint64)
}

// GetSafe gets a config value and propagates any errors that arise. A best-effort
// attempt is made to return the last known value
func (c *typedConfig[T]) GetSafe(ctx context.Context) (T, error) {
	raw, err := c.override.Get(ctx)
	if errors.Is(err, config.ErrNoValue) {
		c.setLastValue(c.defaultValue)
		return c.defaultValue, nil
	} else if err != nil {
		return c.getLastValue(), err
	}

	newValue, err := c.convert(raw)
	if err != nil {
		return c.getLastValue(), err
	}

	c.setLastValue(newValue)
	return newValue, nil
}

// Get is a wrapper for GetSafe that ignores the returned error
func (c *typedConfig[T]) Get(ctx context.Context) T {
	val, _ := c.GetSafe(ctx)
	return val
}

// Shutdown signals the config to stop all underlying resources
func (c *typedConfig[T]) Shutdown() {
	c.override.Shutdown()
}

func (c *typedConfig[T]) getLastValue() T {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.lastValue
}

func (c *typedConfig[T]) setLastValue(value T) {
	c.stateMu.Lock()
	c.lastValue = value
	c.stateMu.Unlock()
}

func toBool(raw interface{}) (bool, error) {
	switch typed := raw.(type) {
	case []byte:
		return strconv.ParseBool(string(typed))
	case string:
		return strconv.ParseBool(typed)
	case bool:
		return typed, nil
	default:
		return false, ErrUnsuportedConversion
	}
}

func toUint64(raw interface{}) (uint64, error) {
	switch typed := raw.(type) {
	case []byte:
		return strconv.ParseUint(string(typed), 10, 64)
	case string:
		return strconv.ParseUint(typed, 10, 64)
	case uint64:
		return typed, nil
	case uint:
		return uint64(typed), nil
	case int:
		if typed < 0 {
			return 0, errors.Errorf("config: negative value %d for uint64", typed)
		}
		return uint64(typed), nil
	default:
		return 0, ErrUnsuportedConversion
	}
}
