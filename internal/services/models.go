package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

// VolumeInfo summarises an opened volume
type VolumeInfo struct {
	SessionID  uuid.UUID
	Format     types.VolumeFormat
	Name       string
	Offset     int64
	BlockSize  uint32
	BlockCount uint32
	FreeBlocks uint32
	FileCount  int
	DirCount   int
	Created    time.Time
	Modified   time.Time
	Backup     time.Time
	Locked     bool
	Writable   bool
	BootSystem string
}

// FreeBytes returns the free space in bytes
func (vi VolumeInfo) FreeBytes() int64 {
	return int64(vi.FreeBlocks) * int64(vi.BlockSize)
}

// TotalBytes returns the size of the allocation region in bytes
func (vi VolumeInfo) TotalBytes() int64 {
	return int64(vi.BlockCount) * int64(vi.BlockSize)
}

// ExtractOptions controls how files are written out by Extract
type ExtractOptions struct {
	// Skip resource forks
	DataOnly bool

	// Appended to a file's name to hold its resource fork
	ResourceSuffix string
}

// ExtractStats counts what Extract wrote
type ExtractStats struct {
	Files       int
	Directories int
	Bytes       int64
}
