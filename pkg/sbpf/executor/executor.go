package executor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/andyjsbell/zksol/pkg/metrics"
	"github.com/andyjsbell/zksol/pkg/sbpf"
	"github.com/andyjsbell/zksol/pkg/sbpf/compute"
	"github.com/andyjsbell/zksol/pkg/sbpf/layout"
	"github.com/andyjsbell/zksol/pkg/sbpf/serializer"
	"github.com/andyjsbell/zksol/pkg/sbpf/syscalls"
)

const (
	metricsStructName = "sbpf.executor"

	instructionCountMetricName = "Sbpf/Executor/Instructions"
	computeUnitsMetricName     = "Sbpf/Executor/ComputeUnits"
	runDurationMetricName      = "Sbpf/Executor/RunDuration"
	executionFaultEventName    = "SbpfExecutionFault"
)

// Executor runs sBPF programs against a freshly assembled address space. It
// holds no per-run state and is safe for concurrent use.
type Executor struct {
	log    *logrus.Entry
	conf   *conf
	loader Loader
	engine Engine
}

func New(loader Loader, engine Engine, configProvider ConfigProvider) *Executor {
	return &Executor{
		log:    logrus.StandardLogger().WithField("type", "sbpf/executor"),
		conf:   configProvider(),
		loader: loader,
		engine: engine,
	}
}

// Run executes bytecode with the given input, or with no accounts under
// solana.DefaultProgramID when input is nil.
//
// An error is returned only when the run could not be set up. A program that
// faults yields a Result with Success set to false.
func (e *Executor) Run(ctx context.Context, bytecode []byte, input *Input) (*Result, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Run")
	defer tracer.End()

	start := time.Now()
	runID := uuid.New()

	log := e.log.WithFields(logrus.Fields{
		"method": "Run",
		"run_id": runID.String(),
	})
	tracer.AddAttribute("run_id", runID.String())

	if input == nil {
		input = defaultInput()
	}

	result, err := e.run(ctx, log, runID, bytecode, input)
	if err != nil {
		log.WithError(err).Error("failure setting up program execution")
		tracer.OnError(err)
		return nil, err
	}

	log = log.WithFields(logrus.Fields{
		"instructions":            result.InstructionCount,
		"compute_units_consumed":  result.ComputeUnitsConsumed,
		"compute_units_remaining": result.ComputeUnitsRemaining,
	})

	if result.Success {
		log.Debug("program execution succeeded")
	} else {
		log.WithError(result.Err).Info("program execution failed")
		tracer.OnError(result.Err)
		recordExecutionFaultEvent(ctx, result)
	}

	metrics.RecordCount(ctx, instructionCountMetricName, result.InstructionCount)
	metrics.RecordCount(ctx, computeUnitsMetricName, result.ComputeUnitsConsumed)
	metrics.RecordDuration(ctx, runDurationMetricName, time.Since(start))

	return result, nil
}

func (e *Executor) run(ctx context.Context, log *logrus.Entry, runID uuid.UUID, bytecode []byte, input *Input) (*Result, error) {
	runConfig, err := e.conf.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	table, err := syscalls.DefaultTable()
	if err != nil {
		return nil, errors.Wrap(err, "error building syscall table")
	}

	executable, err := e.loader.Load(bytecode, runConfig.vm, table)
	if err != nil {
		return nil, errors.Wrap(err, "error loading executable")
	}
	if executable == nil || executable.ReadOnlyRegion() == nil {
		return nil, errors.Wrap(ErrInvalidExecutable, "executable has no read-only region")
	}
	if executable.ReadOnlyRegion().VMAddr != sbpf.MMProgramStart {
		return nil, errors.Wrapf(ErrInvalidExecutable, "read-only region starts at 0x%x", executable.ReadOnlyRegion().VMAddr)
	}

	log = log.WithField("version", executable.Version().String())

	_, inputRegions, accounts := serializer.SerializeParameters(input.Accounts, input.InstructionData, input.ProgramID)

	memoryLayout, err := layout.New(layout.Params{
		Code:     executable.ReadOnlyRegion(),
		Version:  executable.Version(),
		Config:   runConfig.vm,
		HeapSize: runConfig.heapSize,
		Input:    inputRegions,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error assembling memory layout")
	}

	meter := compute.NewMeter(runConfig.computeBudget)
	logs := syscalls.NewLogRecorder(log)

	env := &syscalls.Env{
		Mapping:           memoryLayout.Mapping,
		Meter:             meter,
		Logs:              logs,
		Log:               log,
		TraceInstructions: runConfig.vm.EnableInstructionTracing,
	}

	instructionCount, err := e.engine.Execute(ctx, executable, table, env)

	return &Result{
		RunID:                 runID,
		InstructionCount:      instructionCount,
		Success:               err == nil,
		Err:                   err,
		ComputeUnitsConsumed:  meter.Consumed(),
		ComputeUnitsRemaining: meter.Remaining(),
		Logs:                  logs.Messages(),
		Accounts:              accounts,
	}, nil
}

func recordExecutionFaultEvent(ctx context.Context, result *Result) {
	metrics.RecordEvent(ctx, executionFaultEventName, map[string]interface{}{
		"run_id":                 result.RunID.String(),
		"instructions":           result.InstructionCount,
		"compute_units_consumed": result.ComputeUnitsConsumed,
		"error":                  result.Err.Error(),
	})
}
