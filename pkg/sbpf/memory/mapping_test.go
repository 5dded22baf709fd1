package memory

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgramStart = uint64(0x1_0000_0000)
	testStackStart   = uint64(0x2_0000_0000)
	testHeapStart    = uint64(0x3_0000_0000)
)

func sequentialBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestMapping_Map(t *testing.T) {
	code := sequentialBytes(64)
	heap := make([]byte, 128)

	mapping, err := NewMapping([]*Region{
		NewWritableRegion(heap, testHeapStart),
		NewReadOnlyRegion(code, testProgramStart),
	})
	require.NoError(t, err)

	regions := mapping.Regions()
	require.Len(t, regions, 2)
	assert.Equal(t, testProgramStart, regions[0].VMAddr)
	assert.Equal(t, testHeapStart, regions[1].VMAddr)

	b, err := mapping.Map(AccessLoad, testProgramStart+10, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 11, 12, 13}, b)
	assert.Equal(t, 4, cap(b))

	b, err = mapping.Map(AccessStore, testHeapStart+120, 8)
	require.NoError(t, err)
	b[0] = 0xff
	assert.EqualValues(t, 0xff, heap[120])

	// Whole region
	b, err = mapping.Map(AccessLoad, testProgramStart, 64)
	require.NoError(t, err)
	assert.Equal(t, code, b)
}

func TestMapping_Faults(t *testing.T) {
	code := sequentialBytes(64)
	heap := make([]byte, 128)

	mapping, err := NewMapping([]*Region{
		NewReadOnlyRegion(code, testProgramStart),
		NewWritableRegion(heap, testHeapStart),
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		access AccessType
		addr   uint64
		len    uint64
	}{
		{AccessStore, testProgramStart, 1},          // read-only
		{AccessLoad, testProgramStart + 60, 5},      // past region end
		{AccessLoad, testProgramStart + 64, 1},      // first byte after region
		{AccessLoad, testProgramStart - 1, 2},       // before region
		{AccessLoad, testStackStart, 1},             // unmapped
		{AccessLoad, 0, 1},                          // null
		{AccessStore, testHeapStart + 1, 128},       // off by one
		{AccessLoad, math.MaxUint64 - 1, 4},         // overflow
		{AccessLoad, testHeapStart, math.MaxUint64}, // overflow
	} {
		b, err := mapping.Map(tc.access, tc.addr, tc.len)
		require.Error(t, err, "%s 0x%x %d", tc.access, tc.addr, tc.len)
		assert.True(t, errors.Is(err, ErrMemoryFault))
		assert.Nil(t, b)

		var violation *AccessViolation
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, tc.access, violation.Access)
		assert.Equal(t, tc.addr, violation.VMAddr)
		assert.Equal(t, tc.len, violation.Len)
	}

	assert.Equal(t, sequentialBytes(64), code)
	assert.Equal(t, make([]byte, 128), heap)
}

func TestMapping_ZeroLength(t *testing.T) {
	mapping, err := NewMapping([]*Region{
		NewReadOnlyRegion(make([]byte, 8), testProgramStart),
		NewWritableRegion(make([]byte, 8), testHeapStart),
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		access AccessType
		addr   uint64
	}{
		{AccessLoad, testProgramStart},
		{AccessLoad, testProgramStart + 7},
		{AccessStore, testHeapStart},
		{AccessLoad, testHeapStart + 4},
	} {
		b, err := mapping.Map(tc.access, tc.addr, 0)
		require.NoError(t, err, "%s 0x%x", tc.access, tc.addr)
		assert.NotNil(t, b)
		assert.Empty(t, b)
	}

	for _, tc := range []struct {
		access AccessType
		addr   uint64
	}{
		{AccessStore, testProgramStart}, // read-only
		{AccessLoad, 0},                 // null
		{AccessLoad, math.MaxUint64},    // unmapped
		{AccessLoad, testStackStart},    // unmapped
		{AccessLoad, testHeapStart + 8}, // first byte after region
	} {
		b, err := mapping.Map(tc.access, tc.addr, 0)
		require.Error(t, err, "%s 0x%x", tc.access, tc.addr)
		assert.True(t, errors.Is(err, ErrMemoryFault))
		assert.Nil(t, b)

		var violation *AccessViolation
		require.True(t, errors.As(err, &violation))
		assert.Equal(t, tc.addr, violation.VMAddr)
		assert.Zero(t, violation.Len)
	}
}

func TestMapping_GappedStack(t *testing.T) {
	const frameSize = 16
	stack := make([]byte, frameSize*4)

	mapping, err := NewMapping([]*Region{
		NewWritableGappedRegion(stack, testStackStart, frameSize),
	})
	require.NoError(t, err)

	region, ok := mapping.Region(testStackStart)
	require.True(t, ok)
	assert.Equal(t, testStackStart+2*uint64(len(stack)), region.VMEnd())

	// Frame 0 maps to host [0, 16)
	b, err := mapping.Map(AccessStore, testStackStart, frameSize)
	require.NoError(t, err)
	b[0] = 1

	// Frame 1 starts after the first gap and maps to host [16, 32)
	b, err = mapping.Map(AccessStore, testStackStart+2*frameSize+3, 2)
	require.NoError(t, err)
	b[0] = 2
	assert.EqualValues(t, 1, stack[0])
	assert.EqualValues(t, 2, stack[frameSize+3])

	// Last frame
	_, err = mapping.Map(AccessLoad, testStackStart+6*frameSize, frameSize)
	require.NoError(t, err)

	for _, tc := range []struct {
		addr uint64
		len  uint64
	}{
		{testStackStart + frameSize, 1},       // inside the gap
		{testStackStart + 2*frameSize - 1, 1}, // last byte of the gap
		{testStackStart + frameSize - 1, 2},   // crosses into the gap
		{testStackStart, frameSize + 1},       // crosses into the gap
		{testStackStart + 7*frameSize, 1},     // trailing gap
		{testStackStart + 8*frameSize, 1},     // past the region
	} {
		_, err := mapping.Map(AccessLoad, tc.addr, tc.len)
		assert.True(t, errors.Is(err, ErrMemoryFault), "0x%x %d", tc.addr, tc.len)
	}
}

func TestMapping_UngappedStack(t *testing.T) {
	stack := make([]byte, 64)

	mapping, err := NewMapping([]*Region{
		NewWritableGappedRegion(stack, testStackStart, 0),
	})
	require.NoError(t, err)

	b, err := mapping.Map(AccessStore, testStackStart, 64)
	require.NoError(t, err)
	assert.Len(t, b, 64)

	_, err = mapping.Map(AccessStore, testStackStart+64, 1)
	assert.True(t, errors.Is(err, ErrMemoryFault))
}

func TestNewWritableGappedRegion_InvalidGap(t *testing.T) {
	assert.Panics(t, func() {
		NewWritableGappedRegion(make([]byte, 24), testStackStart, 12)
	})
}

func TestNewMapping_Conflicts(t *testing.T) {
	for _, regions := range [][]*Region{
		{
			NewReadOnlyRegion(make([]byte, 16), testProgramStart),
			NewWritableRegion(make([]byte, 16), testProgramStart+8),
		},
		{
			NewWritableRegion(make([]byte, 16), testHeapStart),
			NewReadOnlyRegion(make([]byte, 16), testHeapStart),
		},
		{
			// The gapped extent is twice the host length
			NewWritableGappedRegion(make([]byte, 32), testStackStart, 16),
			NewWritableRegion(make([]byte, 16), testStackStart+48),
		},
	} {
		_, err := NewMapping(regions)
		assert.True(t, errors.Is(err, ErrLayoutConflict))
	}

	// Adjacent regions are fine
	_, err := NewMapping([]*Region{
		NewReadOnlyRegion(make([]byte, 16), testProgramStart),
		NewWritableRegion(make([]byte, 16), testProgramStart+16),
	})
	assert.NoError(t, err)
}

func TestNewMapping_InvalidRegions(t *testing.T) {
	_, err := NewMapping([]*Region{nil})
	assert.True(t, errors.Is(err, ErrInvalidRegion))

	_, err = NewMapping([]*Region{NewWritableRegion(nil, testHeapStart)})
	assert.True(t, errors.Is(err, ErrInvalidRegion))

	_, err = NewMapping([]*Region{NewWritableRegion(make([]byte, 16), math.MaxUint64-4)})
	assert.True(t, errors.Is(err, ErrInvalidRegion))
}

func TestAccessType_String(t *testing.T) {
	assert.Equal(t, "load", AccessLoad.String())
	assert.Equal(t, "store", AccessStore.String())
}
