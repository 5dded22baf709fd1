package syscalls

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateSyscall indicates a syscall name, or its symbol hash, was
	// registered more than once
	ErrDuplicateSyscall = errors.New("duplicate syscall")

	// ErrUnknownSyscall indicates a call to a name the table does not hold
	ErrUnknownSyscall = errors.New("unknown syscall")

	// ErrInvalidText indicates a logged message was not valid UTF-8
	ErrInvalidText = errors.New("invalid utf-8 in log message")

	// ErrProgramAborted is matched by every AbortError
	ErrProgramAborted = errors.New("program aborted")
)

// AbortError is returned by abort and sol_panic_ with the arguments the program
// passed to them.
type AbortError struct {
	Name string
	Args [5]uint64
}

func (e *AbortError) Error() string {
	return fmt.Sprintf(
		"%s: %s(0x%x, 0x%x, 0x%x, 0x%x, 0x%x)",
		ErrProgramAborted.Error(),
		e.Name,
		e.Args[0],
		e.Args[1],
		e.Args[2],
		e.Args[3],
		e.Args[4],
	)
}

// Is allows errors.Is(err, ErrProgramAborted) to match
func (e *AbortError) Is(target error) bool {
	return target == ErrProgramAborted
}
