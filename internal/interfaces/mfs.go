// File: internal/interfaces/mfs.go
package interfaces

import (
	"time"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

// MFSVolumeInfoReader provides methods for reading the MFS volume information block
type MFSVolumeInfoReader interface {
	// VolumeInfo returns the decoded volume information
	VolumeInfo() *types.MFSVolumeInfo

	// VolumeName returns the volume name
	VolumeName() string

	// AllocationBlockSize returns the size of an allocation block in bytes
	AllocationBlockSize() uint32

	// AllocationBlockCount returns the number of allocation blocks
	AllocationBlockCount() uint16

	// AllocationStart returns the first 512-byte sector of the allocation region
	AllocationStart() uint16

	// DirectoryStart returns the first sector of the file directory
	DirectoryStart() uint16

	// DirectoryLength returns the length of the file directory in sectors
	DirectoryLength() uint16

	// FileCount returns the number of files on the volume
	FileCount() uint16

	// FreeBlocks returns the number of unused allocation blocks
	FreeBlocks() uint16

	// BlockMapSize returns the size of the packed block map in bytes
	BlockMapSize() int

	// CreateDate returns the volume initialization time
	CreateDate() time.Time

	// BackupDate returns the time of last backup
	BackupDate() time.Time
}

// BootBlockReader provides methods for reading the boot blocks
type BootBlockReader interface {
	// Header returns the decoded boot block header
	Header() types.BootBlockHeader

	// IsBootable checks for the "LK" signature
	IsBootable() bool

	// SystemName returns the name of the system file
	SystemName() string
}
