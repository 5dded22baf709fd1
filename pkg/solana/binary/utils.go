package binary

import (
	"encoding/binary"

	"github.com/andyjsbell/zksol/pkg/solana"
)

// Helpers for encoding Solana's little-endian account layouts. Each helper
// writes at, or reads from, the current offset and advances it. Callers size
// the destination up front; writing past the end panics.

func PutKey32(dst []byte, src solana.PublicKey, offset *int) {
	copy(dst[*offset:*offset+solana.PublicKeySize], src[:])
	*offset += solana.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func PutBool(dst []byte, v bool, offset *int) {
	var b uint8
	if v {
		b = 1
	}
	PutUint8(dst, b, offset)
}

func PutBytes(dst []byte, src []byte, offset *int) {
	copy(dst[*offset:*offset+len(src)], src)
	*offset += len(src)
}

// PutZeros zero fills n bytes
func PutZeros(dst []byte, n int, offset *int) {
	clear(dst[*offset : *offset+n])
	*offset += n
}

func GetKey32(src []byte, dst *solana.PublicKey, offset *int) {
	copy(dst[:], src[*offset:*offset+solana.PublicKeySize])
	*offset += solana.PublicKeySize
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func GetBool(src []byte, dst *bool, offset *int) {
	*dst = src[*offset] != 0
	*offset += 1
}

// GetBytes copies length bytes into a newly allocated slice
func GetBytes(src []byte, dst *[]byte, length int, offset *int) {
	*dst = make([]byte, length)
	copy(*dst, src[*offset:*offset+length])
	*offset += length
}
