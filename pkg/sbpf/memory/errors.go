package memory

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMemoryFault is matched by every failed address translation
	ErrMemoryFault = errors.New("memory access violation")

	// ErrLayoutConflict indicates two regions claim overlapping virtual addresses
	ErrLayoutConflict = errors.New("memory layout conflict")

	// ErrInvalidRegion indicates a nil or empty region was supplied to a mapping
	ErrInvalidRegion = errors.New("invalid memory region")
)

// AccessViolation describes a translation that could not be satisfied
type AccessViolation struct {
	Access AccessType
	VMAddr uint64
	Len    uint64
	Reason string
}

func (e *AccessViolation) Error() string {
	return fmt.Sprintf("%s: %s of %d bytes at 0x%x: %s", ErrMemoryFault.Error(), e.Access, e.Len, e.VMAddr, e.Reason)
}

// Is allows errors.Is(err, ErrMemoryFault) to match
func (e *AccessViolation) Is(target error) bool {
	return target == ErrMemoryFault
}

func newAccessViolation(access AccessType, vmAddr, length uint64, reason string) error {
	return &AccessViolation{
		Access: access,
		VMAddr: vmAddr,
		Len:    length,
		Reason: reason,
	}
}
