package allocation

import (
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// ExtentResolver resolves HFS forks through their inline extent records.
// Only forks that fit in their first extent can be read; the rest of a
// fragmented fork lives in extents the resolver does not follow.
type ExtentResolver struct {
	base       int64
	allocStart int64
	blockSize  int64
	blockCount uint32
}

// NewExtentResolver returns a resolver for a volume starting at device
// offset base
func NewExtentResolver(base int64, mdb interfaces.MasterDirectoryBlockReader) *ExtentResolver {
	return &ExtentResolver{
		base:       base,
		allocStart: int64(mdb.AllocationStart()) * types.SectorSize,
		blockSize:  int64(mdb.AllocationBlockSize()),
		blockCount: uint32(mdb.AllocationBlockCount()),
	}
}

// Region returns the device byte range of the allocation blocks
func (r *ExtentResolver) Region() (start, end int64) {
	start = r.base + r.allocStart
	return start, start + int64(r.blockCount)*r.blockSize
}

// Resolve maps the fork's bytes to a single run inside its first extent
func (r *ExtentResolver) Resolve(fork types.ForkDescriptor) ([]Run, error) {
	for i, e := range fork.Extents {
		if e.IsEmpty() {
			continue
		}
		if uint32(e.StartBlock)+uint32(e.BlockCount) > r.blockCount {
			return nil, errs.Corrupt("extent %d (start %d, %d blocks) runs past the %d allocation blocks",
				i, e.StartBlock, e.BlockCount, r.blockCount)
		}
	}

	length := int64(fork.Length)
	if length == 0 {
		return nil, nil
	}

	capacity := int64(fork.Extents.TotalBlocks()) * r.blockSize
	if length > capacity {
		return nil, errs.Corrupt("fork length %d exceeds the %d bytes of its extents", length, capacity)
	}

	first := fork.Extents[0]
	if length > int64(first.BlockCount)*r.blockSize {
		return nil, errs.Unsupported("fork of %d bytes spans more than its first extent (%d blocks)", length, first.BlockCount)
	}

	start, _ := r.Region()
	return []Run{{
		Logical:  0,
		Physical: start + int64(first.StartBlock)*r.blockSize,
		Length:   length,
	}}, nil
}
