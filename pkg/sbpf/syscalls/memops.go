package syscalls

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
)

// Memcpy implements sol_memcpy_, copying n bytes from src to dst
func Memcpy(env *Env, dst, src, n, _, _ uint64) (uint64, error) {
	env.Meter.Charge(n)

	dstBytes, srcBytes, err := mapCopyRanges(env, dst, src, n)
	if err != nil {
		return 0, err
	}

	copy(dstBytes, srcBytes)
	return 0, nil
}

// Memmove implements sol_memmove_. Unlike memcpy the ranges may overlap.
func Memmove(env *Env, dst, src, n, _, _ uint64) (uint64, error) {
	env.Meter.Charge(n)

	env.Log.WithFields(logrus.Fields{
		"syscall": "sol_memmove_",
		"dst":     hex(dst),
		"src":     hex(src),
		"len":     n,
	}).Debug("moving memory")

	dstBytes, srcBytes, err := mapCopyRanges(env, dst, src, n)
	if err != nil {
		return 0, err
	}

	// copy has memmove semantics
	copy(dstBytes, srcBytes)
	return 0, nil
}

// Memset implements sol_memset_, filling n bytes at dst with the low byte of c
func Memset(env *Env, dst, c, n, _, _ uint64) (uint64, error) {
	env.Meter.Charge(n)

	env.Log.WithFields(logrus.Fields{
		"syscall": "sol_memset_",
		"addr":    hex(dst),
		"val":     c,
		"len":     n,
	}).Debug("setting memory")

	dstBytes, err := env.Mapping.Map(memory.AccessStore, dst, n)
	if err != nil {
		return 0, err
	}

	b := byte(c)
	for i := range dstBytes {
		dstBytes[i] = b
	}
	return 0, nil
}

// Memcmp implements sol_memcmp_. The result is -1, 0 or 1 as a sign extended
// 32 bit value.
func Memcmp(env *Env, a, b, n, _, _ uint64) (uint64, error) {
	env.Meter.Charge(n)

	env.Log.WithFields(logrus.Fields{
		"syscall": "sol_memcmp_",
		"addr1":   hex(a),
		"addr2":   hex(b),
		"len":     n,
	}).Debug("comparing memory")

	aBytes, err := env.Mapping.Map(memory.AccessLoad, a, n)
	if err != nil {
		return 0, err
	}

	bBytes, err := env.Mapping.Map(memory.AccessLoad, b, n)
	if err != nil {
		return 0, err
	}

	result := int32(bytes.Compare(aBytes, bBytes))
	return uint64(int64(result)), nil
}

// mapCopyRanges resolves both ranges before either is touched, so a fault
// leaves memory unchanged.
func mapCopyRanges(env *Env, dst, src, n uint64) ([]byte, []byte, error) {
	dstBytes, err := env.Mapping.Map(memory.AccessStore, dst, n)
	if err != nil {
		return nil, nil, err
	}

	srcBytes, err := env.Mapping.Map(memory.AccessLoad, src, n)
	if err != nil {
		return nil, nil, err
	}

	return dstBytes, srcBytes, nil
}

func hex(v uint64) string {
	return fmt.Sprintf("0x%x", v)
}
