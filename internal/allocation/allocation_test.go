package allocation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/parsers/mfs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

type stubMDB struct {
	interfaces.MasterDirectoryBlockReader
	allocStart uint16
	blockSize  uint32
	blockCount uint16
}

func (s stubMDB) AllocationStart() uint16      { return s.allocStart }
func (s stubMDB) AllocationBlockSize() uint32  { return s.blockSize }
func (s stubMDB) AllocationBlockCount() uint16 { return s.blockCount }

type stubVolumeInfo struct {
	interfaces.MFSVolumeInfoReader
	allocStart uint16
	blockSize  uint32
}

func (s stubVolumeInfo) AllocationStart() uint16     { return s.allocStart }
func (s stubVolumeInfo) AllocationBlockSize() uint32 { return s.blockSize }

func extents(start, count uint16, more ...uint16) types.ExtentRecord {
	var rec types.ExtentRecord
	rec[0] = types.ExtentDescriptor{StartBlock: start, BlockCount: count}
	for i := 0; i+1 < len(more) && i/2+1 < len(rec); i += 2 {
		rec[i/2+1] = types.ExtentDescriptor{StartBlock: more[i], BlockCount: more[i+1]}
	}
	return rec
}

func TestExtentResolver(t *testing.T) {
	// allocation region starts at sector 6 of a volume at device offset 4096
	r := NewExtentResolver(4096, stubMDB{allocStart: 6, blockSize: 1024, blockCount: 100})

	start, end := r.Region()
	assert.Equal(t, int64(4096+6*512), start)
	assert.Equal(t, start+100*1024, end)

	testCases := []struct {
		name     string
		fork     types.ForkDescriptor
		wantRuns []Run
		code     string
	}{
		{
			name:     "fits first extent",
			fork:     types.ForkDescriptor{Length: 1500, Extents: extents(10, 2)},
			wantRuns: []Run{{Logical: 0, Physical: start + 10*1024, Length: 1500}},
		},
		{
			name: "empty fork",
			fork: types.ForkDescriptor{},
		},
		{
			name: "needs second extent",
			fork: types.ForkDescriptor{Length: 3000, Extents: extents(10, 2, 40, 1)},
			code: "UNSUPPORTED_FEATURE",
		},
		{
			name: "longer than every extent",
			fork: types.ForkDescriptor{Length: 5000, Extents: extents(10, 2, 40, 1)},
			code: "STRUCTURAL_CORRUPTION",
		},
		{
			name: "extent past block count",
			fork: types.ForkDescriptor{Length: 100, Extents: extents(99, 2)},
			code: "STRUCTURAL_CORRUPTION",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runs, err := r.Resolve(tc.fork)
			if tc.code != "" {
				assert.Equal(t, tc.code, string(errs.Code(err)))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRuns, runs)
		})
	}
}

func TestChainResolver(t *testing.T) {
	// chains: 2 -> 3 -> 5 -> end, 4 -> end, 6 -> 7 -> 6 (cycle), 8 -> 40 (outside)
	blocks := mfs.BlockMap{3, 5, 1, 1, 7, 6, 40, 0}
	r := NewChainResolver(0, stubVolumeInfo{allocStart: 10, blockSize: 512}, blocks)
	start, _ := r.Region()
	require.Equal(t, int64(10*512), start)

	chain, err := r.Blocks(2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{2, 3, 5}, chain)

	chain, err = r.Blocks(0)
	require.NoError(t, err)
	assert.Empty(t, chain)

	_, err = r.Blocks(6)
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))
	_, err = r.Blocks(8)
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))

	runs, err := r.Resolve(types.ForkDescriptor{Length: 1300, StartBlock: 2})
	require.NoError(t, err)
	assert.Equal(t, []Run{
		{Logical: 0, Physical: start, Length: 1024},
		{Logical: 1024, Physical: start + 3*512, Length: 276},
	}, runs)

	_, err = r.Resolve(types.ForkDescriptor{Length: 1600, StartBlock: 2})
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))

	_, err = r.Resolve(types.ForkDescriptor{Length: 10, StartBlock: 0})
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))
}

func TestLocate(t *testing.T) {
	runs := []Run{
		{Logical: 0, Physical: 100, Length: 10},
		{Logical: 10, Physical: 500, Length: 5},
		{Logical: 20, Physical: 900, Length: 4},
	}

	tests := []struct {
		name string
		off  int64
		want int
	}{
		{"first byte", 0, 0},
		{"last byte of first run", 9, 0},
		{"start of second run", 10, 1},
		{"inside second run", 12, 1},
		{"gap between runs", 17, -1},
		{"last run", 23, 2},
		{"past the end", 24, -1},
		{"negative", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(runs, tt.off)
			if tt.want < 0 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, runs[tt.want], got)
		})
	}

	_, ok := Locate(nil, 0)
	assert.False(t, ok)
	assert.Equal(t, int64(19), Length(runs))
}

// randomChains fills a block map with disjoint chains over a shuffled set of
// blocks and returns the head of each chain with its block count
func randomChains(rng *rand.Rand, count int) (mfs.BlockMap, map[uint16]int) {
	blocks := make(mfs.BlockMap, count)
	order := rng.Perm(count)
	heads := make(map[uint16]int)

	for i := 0; i < len(order); {
		n := 1 + rng.Intn(6)
		if i+n > len(order) {
			n = len(order) - i
		}
		chain := order[i : i+n]
		for j, idx := range chain {
			if j == len(chain)-1 {
				blocks[idx] = types.MFSBlockEnd
			} else {
				blocks[idx] = uint16(chain[j+1] + types.MFSFirstAllocationBlock)
			}
		}
		heads[uint16(chain[0]+types.MFSFirstAllocationBlock)] = n
		i += n + rng.Intn(2) // leave some blocks free
	}
	return blocks, heads
}

func TestChainResolverRunsStayInRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 100; iter++ {
		count := 1 + rng.Intn(300)
		blocks, heads := randomChains(rng, count)
		r := NewChainResolver(int64(rng.Intn(8))*512, stubVolumeInfo{allocStart: uint16(4 + rng.Intn(20)), blockSize: 512 * uint32(1+rng.Intn(4))}, blocks)
		lo, hi := r.Region()

		for head, n := range heads {
			capacity := int64(n) * r.BlockSize()
			length := rng.Int63n(capacity + 1)
			runs, err := r.Resolve(types.ForkDescriptor{Length: uint32(length), StartBlock: head})
			require.NoError(t, err)
			require.Equal(t, length, Length(runs))
			for _, run := range runs {
				require.GreaterOrEqual(t, run.Physical, lo)
				require.LessOrEqual(t, run.Physical+run.Length, hi)
			}
		}
	}
}
