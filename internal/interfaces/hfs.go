// File: internal/interfaces/hfs.go
package interfaces

import (
	"time"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

// MasterDirectoryBlockReader provides methods for reading the HFS volume header
type MasterDirectoryBlockReader interface {
	// MDB returns the decoded master directory block
	MDB() *types.MasterDirectoryBlock

	// VolumeName returns the volume name
	VolumeName() string

	// AllocationBlockSize returns the size of an allocation block in bytes
	AllocationBlockSize() uint32

	// AllocationBlockCount returns the number of allocation blocks
	AllocationBlockCount() uint16

	// AllocationStart returns the first 512-byte sector of the allocation region
	AllocationStart() uint16

	// FreeBlocks returns the number of unused allocation blocks
	FreeBlocks() uint16

	// FileCount returns the number of files on the volume
	FileCount() uint32

	// DirCount returns the number of directories on the volume
	DirCount() uint32

	// CatalogFork returns the descriptor of the catalog file
	CatalogFork() types.ForkDescriptor

	// ExtentsFork returns the descriptor of the extents overflow file
	ExtentsFork() types.ForkDescriptor

	// CreateDate returns the volume creation time
	CreateDate() time.Time

	// ModifyDate returns the time of last modification
	ModifyDate() time.Time

	// BackupDate returns the time of last backup
	BackupDate() time.Time

	// IsLocked checks if the volume is hardware or software locked
	IsLocked() bool

	// WasCleanlyUnmounted checks if the volume was unmounted cleanly
	WasCleanlyUnmounted() bool
}

// BTreeNodeReader provides methods for reading an HFS B-tree node
type BTreeNodeReader interface {
	// Descriptor returns the node descriptor
	Descriptor() types.NodeDescriptor

	// Kind returns the node type
	Kind() types.NodeKind

	// ForwardLink returns the next node of the same kind, 0 when none
	ForwardLink() uint32

	// BackwardLink returns the previous node of the same kind, 0 when none
	BackwardLink() uint32

	// Height returns the level of the node, leaves are 1
	Height() uint8

	// RecordCount returns the number of records in the node
	RecordCount() uint16

	// RecordOffsets returns the record start offsets in record order
	RecordOffsets() []uint16

	// Record returns the raw bytes of record i
	Record(i int) ([]byte, error)

	// IsLeaf checks if the node is a leaf node
	IsLeaf() bool

	// IsIndex checks if the node is an index node
	IsIndex() bool

	// IsHeader checks if the node is the header node
	IsHeader() bool

	// Header returns the header record of a header node
	Header() (*types.HeaderRecord, error)

	// MapRecord returns the node allocation bitmap of a header or map node
	MapRecord() ([]byte, error)

	// LeafRecords returns the decoded catalog records of a leaf node
	LeafRecords() []types.CatalogLeafRecord

	// IndexRecords returns the decoded records of an index node
	IndexRecords() []types.CatalogIndexRecord
}

// CatalogReader provides access to a decoded HFS catalog file
type CatalogReader interface {
	// Header returns the catalog B-tree header record
	Header() *types.HeaderRecord

	// NodeCount returns the number of nodes held in the catalog file
	NodeCount() uint32

	// Node reads and decodes node i
	Node(i uint32) (BTreeNodeReader, error)

	// Records returns all leaf records in leaf chain order
	Records() []types.CatalogLeafRecord

	// LookupByID returns the directory or file record with the given id
	LookupByID(id types.CNID) (types.CatalogLeafRecord, bool)

	// IsNodeUsed checks the header node's allocation bitmap for node i
	IsNodeUsed(i uint32) bool
}
