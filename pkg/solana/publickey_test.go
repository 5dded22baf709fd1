package solana

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKey_RoundTrip(t *testing.T) {
	var raw [PublicKeySize]byte
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	encoded := base58.Encode(raw[:])

	fromString, err := NewPublicKeyFromString(encoded)
	require.NoError(t, err)

	fromBytes, err := NewPublicKeyFromBytes(raw[:])
	require.NoError(t, err)

	for _, key := range []PublicKey{fromString, fromBytes} {
		assert.EqualValues(t, raw[:], key.ToBytes())
		assert.Equal(t, encoded, key.ToBase58())
		assert.Equal(t, encoded, key.String())
		assert.False(t, key.IsZero())
	}
	assert.True(t, fromString == fromBytes)
}

func TestPublicKey_SystemProgram(t *testing.T) {
	key, err := NewPublicKeyFromString("11111111111111111111111111111111")
	require.NoError(t, err)
	assert.True(t, key.IsZero())
	assert.Equal(t, PublicKey{}, key)
}

func TestPublicKey_InvalidEncoding(t *testing.T) {
	for _, value := range []string{
		"",
		"invalid-key",
		"0OIl",
		base58.Encode(make([]byte, 31)),
		base58.Encode(append([]byte{1}, make([]byte, 32)...)),
	} {
		_, err := NewPublicKeyFromString(value)
		require.Error(t, err, value)
		assert.True(t, errors.Is(err, ErrInvalidEncoding), value)
	}

	for _, value := range [][]byte{nil, make([]byte, 31), make([]byte, 33)} {
		_, err := NewPublicKeyFromBytes(value)
		assert.True(t, errors.Is(err, ErrInvalidEncoding))
	}

	assert.Panics(t, func() {
		MustPublicKeyFromString("invalid-key")
	})
}

func TestDefaultProgramID(t *testing.T) {
	assert.False(t, DefaultProgramID.IsZero())
	assert.Equal(t, "zkRXxvKMqQYgPRAkBHwYKCvnF8YjVtXW1BK4VCXpkeo", DefaultProgramID.ToBase58())
}
