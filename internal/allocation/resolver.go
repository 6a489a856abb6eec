// Package allocation maps a fork's logical bytes to byte ranges of the
// volume, either through inline extents (HFS) or by following a block map
// chain (MFS).
package allocation

import (
	"sort"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

// Run maps Length bytes of a fork starting at Logical to the device offset
// Physical
type Run struct {
	// Offset within the fork
	Logical int64

	// Offset within the device
	Physical int64

	// Number of bytes covered
	Length int64
}

// End returns the logical offset one past the run
func (r Run) End() int64 {
	return r.Logical + r.Length
}

// Resolver resolves a fork into an ordered list of runs covering exactly
// the fork's length
type Resolver interface {
	Resolve(fork types.ForkDescriptor) ([]Run, error)

	// Region returns the device byte range of the allocation region
	Region() (start, end int64)
}

// Locate returns the run holding the logical offset off
func Locate(runs []Run, off int64) (Run, bool) {
	i := sort.Search(len(runs), func(i int) bool {
		return runs[i].End() > off
	})
	if i == len(runs) || off < runs[i].Logical {
		return Run{}, false
	}
	return runs[i], true
}

// Length returns the total number of bytes the runs cover
func Length(runs []Run) int64 {
	var n int64
	for _, r := range runs {
		n += r.Length
	}
	return n
}

// appendRun appends a run, merging it into the previous one when both are
// contiguous on the device
func appendRun(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		if last.End() == r.Logical && last.Physical+last.Length == r.Physical {
			last.Length += r.Length
			return runs
		}
	}
	return append(runs, r)
}
