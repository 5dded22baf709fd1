package testutil

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/andyjsbell/zksol/pkg/sbpf/compute"
	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
	"github.com/andyjsbell/zksol/pkg/sbpf/syscalls"
)

// NewSyscallEnv builds an execution environment over the given regions with a
// recorder capturing program logs.
func NewSyscallEnv(t *testing.T, budget uint64, regions ...*memory.Region) (*syscalls.Env, *syscalls.LogRecorder) {
	mapping, err := memory.NewMapping(regions)
	require.NoError(t, err)

	log := logrus.StandardLogger().WithField("test", t.Name())
	recorder := syscalls.NewLogRecorder(log)

	return &syscalls.Env{
		Mapping:           mapping,
		Meter:             compute.NewMeter(budget),
		Logs:              recorder,
		Log:               log,
		TraceInstructions: true,
	}, recorder
}

// SequentialBytes returns n bytes counting up from zero
func SequentialBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}
