package types

import "fmt"

// CNIDKind classifies a catalog node identifier
type CNIDKind uint8

const (
	// CNIDKindOther is an ordinary file or directory id
	CNIDKindOther CNIDKind = iota
	// CNIDKindParentOfRoot is the parent id recorded for the root directory
	CNIDKindParentOfRoot
	// CNIDKindRootDirectory is the root directory
	CNIDKindRootDirectory
	// CNIDKindExtentsFile is the extents overflow B-tree file
	CNIDKindExtentsFile
	// CNIDKindCatalogFile is the catalog B-tree file
	CNIDKindCatalogFile
	// CNIDKindBadBlocksFile is the bad allocation block file
	CNIDKindBadBlocksFile
)

// Raw values of the reserved catalog node ids.
const (
	ParentOfRootID  uint32 = 1
	RootDirectoryID uint32 = 2
	ExtentsFileID   uint32 = 3
	CatalogFileID   uint32 = 4
	BadBlocksFileID uint32 = 5
)

// CNID is a catalog node identifier. The reserved ids are distinguished by
// kind so the tree builder can match on them without comparing magic
// numbers; every other id is opaque.
//
// CNID is comparable and can be used as a map key.
type CNID struct {
	kind CNIDKind
	raw  uint32
}

// Well-known catalog node ids.
var (
	ParentOfRoot    = CNID{kind: CNIDKindParentOfRoot, raw: ParentOfRootID}
	RootDirectory   = CNID{kind: CNIDKindRootDirectory, raw: RootDirectoryID}
	ExtentsFile     = CNID{kind: CNIDKindExtentsFile, raw: ExtentsFileID}
	CatalogFileNode = CNID{kind: CNIDKindCatalogFile, raw: CatalogFileID}
	BadBlocksFile   = CNID{kind: CNIDKindBadBlocksFile, raw: BadBlocksFileID}
)

// NewCNID classifies a raw catalog id read from disk
func NewCNID(raw uint32) CNID {
	switch raw {
	case ParentOfRootID:
		return ParentOfRoot
	case RootDirectoryID:
		return RootDirectory
	case ExtentsFileID:
		return ExtentsFile
	case CatalogFileID:
		return CatalogFileNode
	case BadBlocksFileID:
		return BadBlocksFile
	}
	return CNID{kind: CNIDKindOther, raw: raw}
}

// OpaqueID wraps a number that is not a catalog id (for example an MFS
// file number) so it never collides with a reserved kind.
func OpaqueID(raw uint32) CNID {
	return CNID{kind: CNIDKindOther, raw: raw}
}

// Kind returns the id's classification
func (c CNID) Kind() CNIDKind {
	return c.kind
}

// Raw returns the on-disk value
func (c CNID) Raw() uint32 {
	return c.raw
}

// IsReserved reports whether the id is one of the five reserved ids
func (c CNID) IsReserved() bool {
	return c.kind != CNIDKindOther
}

// String returns a readable form of the id
func (c CNID) String() string {
	switch c.kind {
	case CNIDKindParentOfRoot:
		return "ParentOfRoot"
	case CNIDKindRootDirectory:
		return "RootDirectory"
	case CNIDKindExtentsFile:
		return "ExtentsFile"
	case CNIDKindCatalogFile:
		return "CatalogFile"
	case CNIDKindBadBlocksFile:
		return "BadBlocksFile"
	}
	return fmt.Sprintf("%#x", c.raw)
}
