package executor

import (
	"context"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/andyjsbell/zksol/pkg/config"
	"github.com/andyjsbell/zksol/pkg/config/env"
	"github.com/andyjsbell/zksol/pkg/config/memory"
	"github.com/andyjsbell/zksol/pkg/config/wrapper"
	"github.com/andyjsbell/zksol/pkg/sbpf"
	"github.com/andyjsbell/zksol/pkg/sbpf/compute"
)

const (
	envConfigPrefix = "SBPF_EXECUTOR_"

	ComputeBudgetConfigEnvName = envConfigPrefix + "COMPUTE_BUDGET"
	defaultComputeBudget       = compute.DefaultBudget

	HeapSizeConfigEnvName = envConfigPrefix + "HEAP_SIZE"
	defaultHeapSize       = sbpf.DefaultHeapSize

	StackFrameSizeConfigEnvName = envConfigPrefix + "STACK_FRAME_SIZE"
	defaultStackFrameSize       = sbpf.DefaultStackFrameSize

	MaxCallDepthConfigEnvName = envConfigPrefix + "MAX_CALL_DEPTH"
	defaultMaxCallDepth       = sbpf.DefaultMaxCallDepth

	EnableStackFrameGapsConfigEnvName = envConfigPrefix + "ENABLE_STACK_FRAME_GAPS"
	defaultEnableStackFrameGaps       = true

	EnableInstructionTracingConfigEnvName = envConfigPrefix + "ENABLE_INSTRUCTION_TRACING"
	defaultEnableInstructionTracing       = true

	EnableSymbolAndSectionLabelsConfigEnvName = envConfigPrefix + "ENABLE_SYMBOL_AND_SECTION_LABELS"
	defaultEnableSymbolAndSectionLabels       = true

	RejectBrokenElfsConfigEnvName = envConfigPrefix + "REJECT_BROKEN_ELFS"
	defaultRejectBrokenElfs       = true
)

type conf struct {
	computeBudget                config.Uint64
	heapSize                     config.Uint64
	stackFrameSize               config.Uint64
	maxCallDepth                 config.Uint64
	enableStackFrameGaps         config.Bool
	enableInstructionTracing     config.Bool
	enableSymbolAndSectionLabels config.Bool
	rejectBrokenElfs             config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			computeBudget:                env.NewUint64Config(ComputeBudgetConfigEnvName, defaultComputeBudget),
			heapSize:                     env.NewUint64Config(HeapSizeConfigEnvName, defaultHeapSize),
			stackFrameSize:               env.NewUint64Config(StackFrameSizeConfigEnvName, defaultStackFrameSize),
			maxCallDepth:                 env.NewUint64Config(MaxCallDepthConfigEnvName, defaultMaxCallDepth),
			enableStackFrameGaps:         env.NewBoolConfig(EnableStackFrameGapsConfigEnvName, defaultEnableStackFrameGaps),
			enableInstructionTracing:     env.NewBoolConfig(EnableInstructionTracingConfigEnvName, defaultEnableInstructionTracing),
			enableSymbolAndSectionLabels: env.NewBoolConfig(EnableSymbolAndSectionLabelsConfigEnvName, defaultEnableSymbolAndSectionLabels),
			rejectBrokenElfs:             env.NewBoolConfig(RejectBrokenElfsConfigEnvName, defaultRejectBrokenElfs),
		}
	}
}

type testOverrides struct {
	computeBudget        uint64
	heapSize             uint64
	stackFrameSize       uint64
	maxCallDepth         uint64
	disableStackGaps     bool
	disableTracing       bool
	allowBrokenElfs      bool
	invalidComputeBudget bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		computeBudget := memory.NewConfig(nil)
		if overrides.computeBudget > 0 {
			computeBudget.SetValue(overrides.computeBudget)
		}
		if overrides.invalidComputeBudget {
			computeBudget.SetValue([]byte("lots"))
		}

		heapSize := memory.NewConfig(nil)
		if overrides.heapSize > 0 {
			heapSize.SetValue(overrides.heapSize)
		}

		stackFrameSize := memory.NewConfig(nil)
		if overrides.stackFrameSize > 0 {
			stackFrameSize.SetValue(overrides.stackFrameSize)
		}

		maxCallDepth := memory.NewConfig(nil)
		if overrides.maxCallDepth > 0 {
			maxCallDepth.SetValue(overrides.maxCallDepth)
		}

		return &conf{
			computeBudget:                wrapper.NewUint64Config(computeBudget, defaultComputeBudget),
			heapSize:                     wrapper.NewUint64Config(heapSize, defaultHeapSize),
			stackFrameSize:               wrapper.NewUint64Config(stackFrameSize, defaultStackFrameSize),
			maxCallDepth:                 wrapper.NewUint64Config(maxCallDepth, defaultMaxCallDepth),
			enableStackFrameGaps:         wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableStackGaps), defaultEnableStackFrameGaps),
			enableInstructionTracing:     wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableTracing), defaultEnableInstructionTracing),
			enableSymbolAndSectionLabels: wrapper.NewBoolConfig(memory.NewConfig(defaultEnableSymbolAndSectionLabels), defaultEnableSymbolAndSectionLabels),
			rejectBrokenElfs:             wrapper.NewBoolConfig(memory.NewConfig(!overrides.allowBrokenElfs), defaultRejectBrokenElfs),
		}
	}
}

// runConfig is a validated snapshot of conf taken at the start of a run
type runConfig struct {
	computeBudget uint64
	heapSize      uint64
	vm            sbpf.Config
}

func (c *conf) snapshot(ctx context.Context) (*runConfig, error) {
	var snapshot runConfig
	var err error

	for _, v := range []struct {
		name  string
		value config.Uint64
		dst   *uint64
	}{
		{ComputeBudgetConfigEnvName, c.computeBudget, &snapshot.computeBudget},
		{HeapSizeConfigEnvName, c.heapSize, &snapshot.heapSize},
		{StackFrameSizeConfigEnvName, c.stackFrameSize, &snapshot.vm.StackFrameSize},
		{MaxCallDepthConfigEnvName, c.maxCallDepth, &snapshot.vm.MaxCallDepth},
	} {
		*v.dst, err = v.value.GetSafe(ctx)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s: %s", v.name, err.Error())
		}
		if *v.dst == 0 {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s must be positive", v.name)
		}
	}

	for _, v := range []struct {
		name  string
		value config.Bool
		dst   *bool
	}{
		{EnableStackFrameGapsConfigEnvName, c.enableStackFrameGaps, &snapshot.vm.EnableStackFrameGaps},
		{EnableInstructionTracingConfigEnvName, c.enableInstructionTracing, &snapshot.vm.EnableInstructionTracing},
		{EnableSymbolAndSectionLabelsConfigEnvName, c.enableSymbolAndSectionLabels, &snapshot.vm.EnableSymbolAndSectionLabels},
		{RejectBrokenElfsConfigEnvName, c.rejectBrokenElfs, &snapshot.vm.RejectBrokenElfs},
	} {
		*v.dst, err = v.value.GetSafe(ctx)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%s: %s", v.name, err.Error())
		}
	}

	if snapshot.vm.EnableStackFrameGaps && bits.OnesCount64(snapshot.vm.StackFrameSize) != 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "stack frame size %d must be a power of two when gaps are enabled", snapshot.vm.StackFrameSize)
	}

	if snapshot.heapSize > sbpf.MMRegionSize {
		return nil, errors.Wrapf(ErrInvalidConfig, "heap size %d exceeds the heap region", snapshot.heapSize)
	}

	// A gapped stack occupies twice its size in the address space
	maxStackSize := sbpf.MMRegionSize / 2
	if snapshot.vm.StackFrameSize > maxStackSize || snapshot.vm.MaxCallDepth > maxStackSize/snapshot.vm.StackFrameSize {
		return nil, errors.Wrapf(
			ErrInvalidConfig,
			"stack of %d frames of %d bytes exceeds the stack region",
			snapshot.vm.MaxCallDepth,
			snapshot.vm.StackFrameSize,
		)
	}

	return &snapshot, nil
}
