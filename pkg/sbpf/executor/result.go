package executor

import (
	"github.com/google/uuid"

	"github.com/andyjsbell/zksol/pkg/sbpf/serializer"
	"github.com/andyjsbell/zksol/pkg/solana"
)

// Input is the account set and instruction a program is invoked with
type Input struct {
	Accounts        []*solana.Account
	InstructionData []byte
	ProgramID       solana.PublicKey
}

func defaultInput() *Input {
	return &Input{
		ProgramID: solana.DefaultProgramID,
	}
}

// Result is the outcome of a run that got as far as executing the program
type Result struct {
	RunID uuid.UUID

	InstructionCount uint64

	// Success is false when the program faulted. Err holds the reason.
	Success bool
	Err     error

	ComputeUnitsConsumed  uint64
	ComputeUnitsRemaining uint64

	// Logs are the messages the program emitted via sol_log_
	Logs []string

	// Accounts locates each serialized account in the input region
	Accounts []serializer.SerializedAccount
}

// Committed is the outcome persisted beyond the run
func (r *Result) Committed() bool {
	return r.Success
}
