package allocation

import (
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/parsers/mfs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// ChainResolver resolves MFS forks by following block map chains
type ChainResolver struct {
	base       int64
	allocStart int64
	blockSize  int64
	blocks     mfs.BlockMap
}

// NewChainResolver returns a resolver over blocks for a volume starting at
// device offset base. The map is shared, so links made by the writer are
// seen by later calls.
func NewChainResolver(base int64, info interfaces.MFSVolumeInfoReader, blocks mfs.BlockMap) *ChainResolver {
	return &ChainResolver{
		base:       base,
		allocStart: int64(info.AllocationStart()) * types.SectorSize,
		blockSize:  int64(info.AllocationBlockSize()),
		blocks:     blocks,
	}
}

// Region returns the device byte range of the allocation blocks
func (r *ChainResolver) Region() (start, end int64) {
	start = r.base + r.allocStart
	return start, start + int64(len(r.blocks))*r.blockSize
}

// BlockSize returns the allocation block size in bytes
func (r *ChainResolver) BlockSize() int64 {
	return r.blockSize
}

// BlockOffset returns the device offset of allocation block n
func (r *ChainResolver) BlockOffset(n uint16) int64 {
	start, _ := r.Region()
	return start + int64(n-types.MFSFirstAllocationBlock)*r.blockSize
}

// Blocks returns the chain starting at start in chain order. A start of 0
// is an empty chain. Every block is visited at most once, so a cycle or a
// link outside the map is reported instead of looping.
func (r *ChainResolver) Blocks(start uint16) ([]uint16, error) {
	if start == types.MFSBlockFree {
		return nil, nil
	}

	var chain []uint16
	visited := make(map[uint16]bool)
	for cur := start; ; {
		if !r.blocks.Contains(cur) {
			return nil, errs.Corrupt("chain from block %d links to block %d outside the block map", start, cur)
		}
		if visited[cur] {
			return nil, errs.Corrupt("chain from block %d revisits block %d", start, cur)
		}
		visited[cur] = true
		chain = append(chain, cur)

		next := r.blocks[cur-types.MFSFirstAllocationBlock]
		if next == types.MFSBlockFree || next == types.MFSBlockEnd {
			return chain, nil
		}
		cur = next
	}
}

// Resolve maps the fork's bytes through its chain, merging physically
// adjacent blocks
func (r *ChainResolver) Resolve(fork types.ForkDescriptor) ([]Run, error) {
	chain, err := r.Blocks(fork.StartBlock)
	if err != nil {
		return nil, err
	}

	length := int64(fork.Length)
	if capacity := int64(len(chain)) * r.blockSize; length > capacity {
		return nil, errs.Corrupt("fork length %d exceeds the %d bytes of its %d-block chain", length, capacity, len(chain))
	}

	var runs []Run
	for i, b := range chain {
		logical := int64(i) * r.blockSize
		if logical >= length {
			break
		}
		n := r.blockSize
		if logical+n > length {
			n = length - logical
		}
		runs = appendRun(runs, Run{Logical: logical, Physical: r.BlockOffset(b), Length: n})
	}
	return runs, nil
}
