package layout

import (
	"github.com/pkg/errors"

	"github.com/andyjsbell/zksol/pkg/sbpf"
	"github.com/andyjsbell/zksol/pkg/sbpf/memory"
)

// Params are the inputs to assembling a run's address space
type Params struct {
	// Code is the executable's read-only region at sbpf.MMProgramStart
	Code *memory.Region

	Version sbpf.Version
	Config  sbpf.Config

	// HeapSize defaults to sbpf.DefaultHeapSize when zero
	HeapSize uint64

	// Input holds the serialized parameter regions
	Input []*memory.Region
}

// Layout is the assembled address space and the buffers this package allocated
type Layout struct {
	Mapping *memory.Mapping
	Stack   []byte
	Heap    []byte
}

// New allocates a zeroed stack and heap and maps them alongside the code and
// input regions. Overlapping regions fail with memory.ErrLayoutConflict.
func New(params Params) (*Layout, error) {
	if params.Code == nil {
		return nil, errors.Wrap(memory.ErrInvalidRegion, "code region is required")
	}

	heapSize := params.HeapSize
	if heapSize == 0 {
		heapSize = sbpf.DefaultHeapSize
	}

	stack := make([]byte, params.Config.StackSize())
	heap := make([]byte, heapSize)

	regions := make([]*memory.Region, 0, 3+len(params.Input))
	regions = append(
		regions,
		params.Code,
		memory.NewWritableGappedRegion(stack, sbpf.MMStackStart, params.Config.StackGapSize(params.Version)),
		memory.NewWritableRegion(heap, sbpf.MMHeapStart),
	)
	regions = append(regions, params.Input...)

	mapping, err := memory.NewMapping(regions)
	if err != nil {
		return nil, errors.Wrap(err, "error creating memory mapping")
	}

	return &Layout{
		Mapping: mapping,
		Stack:   stack,
		Heap:    heap,
	}, nil
}
