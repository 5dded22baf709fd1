package memory

import (
	"cmp"
	"math"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Mapping is the virtual address space of a single run. It is the only way
// syscalls obtain host bytes: every access is resolved against the region
// that contains it, with the region's bounds and mutability enforced.
type Mapping struct {
	regions []*Region
	index   *redblacktree.Tree // start address -> *Region
}

// NewMapping orders the regions by start address and verifies no two of them
// overlap.
func NewMapping(regions []*Region) (*Mapping, error) {
	sorted := make([]*Region, len(regions))
	copy(sorted, regions)

	for i, region := range sorted {
		if region == nil {
			return nil, errors.Wrapf(ErrInvalidRegion, "region %d is nil", i)
		}
		if region.Len == 0 {
			return nil, errors.Wrapf(ErrInvalidRegion, "region at 0x%x is empty", region.VMAddr)
		}
		if region.VMEnd() < region.VMAddr {
			return nil, errors.Wrapf(ErrInvalidRegion, "region at 0x%x wraps the address space", region.VMAddr)
		}
	}

	slices.SortFunc(sorted, func(a, b *Region) int {
		return cmp.Compare(a.VMAddr, b.VMAddr)
	})

	index := redblacktree.NewWith(utils.UInt64Comparator)
	for i, region := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			if prev.VMEnd() > region.VMAddr {
				return nil, errors.Wrapf(ErrLayoutConflict, "%s overlaps %s", prev, region)
			}
		}
		index.Put(region.VMAddr, region)
	}

	return &Mapping{
		regions: sorted,
		index:   index,
	}, nil
}

// Map resolves length bytes starting at vmAddr for the given access. The
// returned slice aliases the region's buffer and is capped to length, so it
// cannot be used to reach neighbouring bytes. A zero length access must
// still name a mapped address with a matching mutability, and resolves to an
// empty slice.
func (m *Mapping) Map(access AccessType, vmAddr, length uint64) ([]byte, error) {
	if length > 0 && length-1 > math.MaxUint64-vmAddr {
		return nil, newAccessViolation(access, vmAddr, length, "address overflow")
	}

	region, ok := m.Region(vmAddr)
	if !ok {
		return nil, newAccessViolation(access, vmAddr, length, "address is not mapped")
	}

	return region.translate(access, vmAddr, length)
}

// Region returns the region whose virtual extent contains vmAddr
func (m *Mapping) Region(vmAddr uint64) (*Region, bool) {
	node, found := m.index.Floor(vmAddr)
	if !found {
		return nil, false
	}

	region := node.Value.(*Region)
	if !region.Contains(vmAddr) {
		return nil, false
	}
	return region, true
}

// Regions returns the mapped regions ordered by start address
func (m *Mapping) Regions() []*Region {
	return slices.Clone(m.regions)
}
