// Package sbpf holds the address space conventions and configuration shared by
// the Solana sBPF runtime components.
//
// The virtual address space is split into 4 GiB regions:
//   - Program (0x100000000): read-only code and data from the executable
//   - Stack   (0x200000000): call frames, optionally separated by gaps
//   - Heap    (0x300000000): program heap
//   - Input   (0x400000000): serialized accounts and instruction data
package sbpf

import "fmt"

const (
	// VirtualAddressBits is the number of bits addressing within a region
	VirtualAddressBits = 32

	MMRegionSize   = uint64(1) << VirtualAddressBits
	MMProgramStart = MMRegionSize * 1
	MMStackStart   = MMRegionSize * 2
	MMHeapStart    = MMRegionSize * 3
	MMInputStart   = MMRegionSize * 4
)

const (
	DefaultStackFrameSize = 4 * 1024
	DefaultMaxCallDepth   = 64
	DefaultHeapSize       = 32 * 1024
)

// Version is the sBPF version an executable was compiled for
type Version uint8

const (
	V0 Version = iota
	V1
	V2
	V3
)

// DynamicStackFrames reports whether the version sizes stack frames at runtime
// rather than using fixed frames.
func (v Version) DynamicStackFrames() bool {
	return v >= V1
}

func (v Version) String() string {
	return fmt.Sprintf("SBPFv%d", uint8(v))
}

// Config is the loader and VM configuration for a run
type Config struct {
	StackFrameSize               uint64
	MaxCallDepth                 uint64
	EnableStackFrameGaps         bool
	EnableInstructionTracing     bool
	EnableSymbolAndSectionLabels bool
	RejectBrokenElfs             bool
}

// DefaultConfig returns the configuration the runtime uses when nothing is
// overridden.
func DefaultConfig() Config {
	return Config{
		StackFrameSize:               DefaultStackFrameSize,
		MaxCallDepth:                 DefaultMaxCallDepth,
		EnableStackFrameGaps:         true,
		EnableInstructionTracing:     true,
		EnableSymbolAndSectionLabels: true,
		RejectBrokenElfs:             true,
	}
}

// StackSize is the number of host bytes backing the stack
func (c Config) StackSize() uint64 {
	return c.StackFrameSize * c.MaxCallDepth
}

// StackGapSize is the size of the unmapped gap between stack frames for the
// given version, or zero when frames are contiguous.
func (c Config) StackGapSize(version Version) uint64 {
	if !version.DynamicStackFrames() && c.EnableStackFrameGaps {
		return c.StackFrameSize
	}
	return 0
}
