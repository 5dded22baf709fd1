package executor

import (
	"context"

	"github.com/andyjsbell/zksol/pkg/sbpf"
	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
	"github.com/andyjsbell/zksol/pkg/sbpf/syscalls"
)

// Executable is a parsed and verified program image
type Executable interface {
	// Version is the sBPF version the program was compiled for
	Version() sbpf.Version

	// ReadOnlyRegion maps the program's code and read-only data at
	// sbpf.MMProgramStart
	ReadOnlyRegion() *memory.Region
}

// Loader parses and validates an ELF image, resolving its syscall references
// against the table.
type Loader interface {
	Load(bytecode []byte, config sbpf.Config, table *syscalls.Table) (Executable, error)
}

// Engine interprets an executable to completion. It returns the number of
// instructions executed, and a non-nil error if the program faulted, aborted or
// ran out of compute units.
type Engine interface {
	Execute(ctx context.Context, executable Executable, table *syscalls.Table, env *syscalls.Env) (uint64, error)
}
