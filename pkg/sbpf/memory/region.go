package memory

import (
	"fmt"
	"math/bits"
)

// AccessType is the kind of access a translation is performed for
type AccessType uint8

const (
	AccessLoad AccessType = iota
	AccessStore
)

func (a AccessType) String() string {
	switch a {
	case AccessLoad:
		return "load"
	case AccessStore:
		return "store"
	default:
		return fmt.Sprintf("access(%d)", uint8(a))
	}
}

// Region binds a contiguous range of virtual addresses to a host buffer.
//
// A gapped region interleaves frames of VMGapSize host bytes with unmapped
// gaps of the same size, so its virtual extent is twice its host length.
type Region struct {
	VMAddr    uint64
	Len       uint64
	VMGapSize uint64
	Writable  bool

	data []byte
}

// NewReadOnlyRegion maps data at vmAddr for loads only
func NewReadOnlyRegion(data []byte, vmAddr uint64) *Region {
	return newRegion(data, vmAddr, 0, false)
}

// NewWritableRegion maps data at vmAddr for loads and stores
func NewWritableRegion(data []byte, vmAddr uint64) *Region {
	return newRegion(data, vmAddr, 0, true)
}

// NewWritableGappedRegion maps data at vmAddr in frames of gapSize bytes, each
// followed by an unmapped gap of gapSize bytes. gapSize must be a power of two.
func NewWritableGappedRegion(data []byte, vmAddr, gapSize uint64) *Region {
	if gapSize > 0 && bits.OnesCount64(gapSize) != 1 {
		panic(fmt.Sprintf("gap size %d is not a power of two", gapSize))
	}
	return newRegion(data, vmAddr, gapSize, true)
}

func newRegion(data []byte, vmAddr, gapSize uint64, writable bool) *Region {
	return &Region{
		VMAddr:    vmAddr,
		Len:       uint64(len(data)),
		VMGapSize: gapSize,
		Writable:  writable,
		data:      data,
	}
}

// VMEnd returns the first virtual address past the region
func (r *Region) VMEnd() uint64 {
	if r.VMGapSize > 0 {
		return r.VMAddr + 2*r.Len
	}
	return r.VMAddr + r.Len
}

// Contains reports whether vmAddr falls within the region's virtual extent
func (r *Region) Contains(vmAddr uint64) bool {
	return vmAddr >= r.VMAddr && vmAddr < r.VMEnd()
}

// Bytes returns the host buffer backing the region
func (r *Region) Bytes() []byte {
	return r.data
}

func (r *Region) String() string {
	mode := "ro"
	if r.Writable {
		mode = "rw"
	}
	return fmt.Sprintf("Region{vm=[0x%x,0x%x),len=%d,gap=%d,%s}", r.VMAddr, r.VMEnd(), r.Len, r.VMGapSize, mode)
}

// translate resolves [vmAddr, vmAddr+length) to host bytes. The caller has
// already established that vmAddr is not below the region start.
func (r *Region) translate(access AccessType, vmAddr, length uint64) ([]byte, error) {
	if access == AccessStore && !r.Writable {
		return nil, newAccessViolation(access, vmAddr, length, "region is read-only")
	}

	offset := vmAddr - r.VMAddr
	hostOffset := offset
	if r.VMGapSize > 0 {
		frame := offset / (2 * r.VMGapSize)
		inner := offset % (2 * r.VMGapSize)
		if inner >= r.VMGapSize {
			return nil, newAccessViolation(access, vmAddr, length, "address is in a stack gap")
		}
		if length > r.VMGapSize-inner {
			return nil, newAccessViolation(access, vmAddr, length, "range crosses a stack gap")
		}
		hostOffset = frame*r.VMGapSize + inner
	}

	if hostOffset > r.Len || length > r.Len-hostOffset {
		return nil, newAccessViolation(access, vmAddr, length, "range exceeds region")
	}

	end := hostOffset + length
	return r.data[hostOffset:end:end], nil
}
