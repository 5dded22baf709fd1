package syscalls

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
)

const logCost = 1

// Log implements sol_log_, sending the UTF-8 text at [a1, a1+a2) to the log sink
func Log(env *Env, addr, length, _, _, _ uint64) (uint64, error) {
	env.Meter.Charge(logCost)

	message, err := env.Mapping.Map(memory.AccessLoad, addr, length)
	if err != nil {
		return 0, err
	}

	if !utf8.Valid(message) {
		return 0, errors.Wrapf(ErrInvalidText, "%d bytes at 0x%x", length, addr)
	}

	env.Logs.Log(string(message))
	return 0, nil
}
