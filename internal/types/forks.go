package types

import (
	"fmt"
	"strings"
)

// Fork selects one of a file's two byte streams
type Fork uint8

const (
	// DataFork holds the file's unstructured contents
	DataFork Fork = iota
	// ResourceFork holds the file's resources
	ResourceFork
)

// String returns the fork's name
func (f Fork) String() string {
	switch f {
	case DataFork:
		return "data"
	case ResourceFork:
		return "resource"
	}
	return fmt.Sprintf("fork(%d)", uint8(f))
}

// ParseFork parses "data"/"d" or "resource"/"rsrc"/"r"
func ParseFork(s string) (Fork, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "data", "d", "":
		return DataFork, nil
	case "resource", "rsrc", "r":
		return ResourceFork, nil
	}
	return 0, fmt.Errorf("unknown fork %q (use data or rsrc)", s)
}

// ExtentDescriptor is a contiguous run of allocation blocks
type ExtentDescriptor struct {
	// First allocation block of the run (xdrStABN)
	StartBlock uint16

	// Number of allocation blocks in the run (xdrNumABlks)
	BlockCount uint16
}

// IsEmpty reports whether the descriptor covers no blocks
func (e ExtentDescriptor) IsEmpty() bool {
	return e.BlockCount == 0
}

// ExtentRecord holds the three inline extents of an HFS fork
type ExtentRecord [3]ExtentDescriptor

// ExtentRecordSize is the on-disk size of an ExtentRecord in bytes
const ExtentRecordSize = 12

// TotalBlocks returns the number of blocks covered by all three extents
func (r ExtentRecord) TotalBlocks() uint32 {
	var n uint32
	for _, e := range r {
		n += uint32(e.BlockCount)
	}
	return n
}

// ForkDescriptor locates one fork on disk. HFS forks are described by
// Extents, MFS forks by StartBlock (the head of a block map chain).
type ForkDescriptor struct {
	// Logical length of the fork in bytes
	Length uint32

	// Inline extents (HFS)
	Extents ExtentRecord

	// First allocation block of the chain, 0 for an empty fork (MFS)
	StartBlock uint16
}
