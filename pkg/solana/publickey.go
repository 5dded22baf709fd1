package solana

import (
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// PublicKeySize is the size, in bytes, of a Solana address
const PublicKeySize = 32

var (
	// ErrInvalidEncoding indicates a public key could not be decoded from its
	// text or byte form
	ErrInvalidEncoding = errors.New("invalid public key encoding")
)

// DefaultProgramID is the program id used when a run provides no explicit input
var DefaultProgramID = MustPublicKeyFromString("zkRXxvKMqQYgPRAkBHwYKCvnF8YjVtXW1BK4VCXpkeo")

// PublicKey is a 32 byte account address
type PublicKey [PublicKeySize]byte

// NewPublicKeyFromString decodes a base58 encoded address
func NewPublicKeyFromString(value string) (PublicKey, error) {
	var key PublicKey

	decoded, err := base58.Decode(value)
	if err != nil {
		return key, errors.Wrapf(ErrInvalidEncoding, "'%s' is not valid base58", value)
	}

	if len(decoded) != PublicKeySize {
		return key, errors.Wrapf(ErrInvalidEncoding, "'%s' decodes to %d bytes", value, len(decoded))
	}

	copy(key[:], decoded)
	return key, nil
}

// NewPublicKeyFromBytes copies a raw 32 byte address
func NewPublicKeyFromBytes(value []byte) (PublicKey, error) {
	var key PublicKey
	if len(value) != PublicKeySize {
		return key, errors.Wrapf(ErrInvalidEncoding, "got %d bytes", len(value))
	}

	copy(key[:], value)
	return key, nil
}

// MustPublicKeyFromString is like NewPublicKeyFromString, but panics on a
// malformed value. It is intended for hardcoded addresses.
func MustPublicKeyFromString(value string) PublicKey {
	key, err := NewPublicKeyFromString(value)
	if err != nil {
		panic(err)
	}
	return key
}

// ToBytes returns the raw address bytes
func (k PublicKey) ToBytes() []byte {
	return k[:]
}

// ToBase58 returns the base58 text form of the address
func (k PublicKey) ToBase58() string {
	return base58.Encode(k[:])
}

func (k PublicKey) String() string {
	return k.ToBase58()
}

// IsZero returns whether every byte of the address is zero
func (k PublicKey) IsZero() bool {
	return k == PublicKey{}
}
