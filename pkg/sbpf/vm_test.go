package sbpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddressSpace(t *testing.T) {
	assert.EqualValues(t, 0x1_0000_0000, MMProgramStart)
	assert.EqualValues(t, 0x2_0000_0000, MMStackStart)
	assert.EqualValues(t, 0x3_0000_0000, MMHeapStart)
	assert.EqualValues(t, 0x4_0000_0000, MMInputStart)
}

func TestConfig_Stack(t *testing.T) {
	config := DefaultConfig()
	assert.EqualValues(t, 4096*64, config.StackSize())

	assert.EqualValues(t, 4096, config.StackGapSize(V0))
	assert.EqualValues(t, 0, config.StackGapSize(V1))
	assert.EqualValues(t, 0, config.StackGapSize(V3))

	config.EnableStackFrameGaps = false
	assert.EqualValues(t, 0, config.StackGapSize(V0))
}

func TestVersion(t *testing.T) {
	assert.False(t, V0.DynamicStackFrames())
	assert.True(t, V1.DynamicStackFrames())
	assert.True(t, V2.DynamicStackFrames())
	assert.Equal(t, "SBPFv2", V2.String())
}
