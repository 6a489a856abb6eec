package types

import "strings"

// HFS catalog file records (Inside Macintosh: Files, 2-79)

// CatalogRecordType is the in-band discriminant of a catalog leaf record (cdrType)
type CatalogRecordType uint8

const (
	// DirectoryRecord describes a directory
	DirectoryRecord CatalogRecordType = 1
	// FileRecord describes a file
	FileRecord CatalogRecordType = 2
	// DirectoryThreadRecord links a directory id back to its parent and name
	DirectoryThreadRecord CatalogRecordType = 3
	// FileThreadRecord links a file id back to its parent and name
	FileThreadRecord CatalogRecordType = 4
)

// String returns the record type's name
func (t CatalogRecordType) String() string {
	switch t {
	case DirectoryRecord:
		return "directory"
	case FileRecord:
		return "file"
	case DirectoryThreadRecord:
		return "directory thread"
	case FileThreadRecord:
		return "file thread"
	}
	return "unknown"
}

// On-disk sizes of the catalog data records.
const (
	CatalogDirectorySize = 70
	CatalogFileSize      = 102
	CatalogThreadSize    = 46

	// CatalogKeyMaxNameLength is the longest name a catalog key holds
	CatalogKeyMaxNameLength = 31

	// CatalogIndexKeyLength is the fixed key length of index records
	CatalogIndexKeyLength = 37
)

// File flag bits (filFlags).
const (
	// FileLocked is set when the file is locked
	FileLocked uint8 = 0x01
	// FileThreadExists is set when the file has a thread record
	FileThreadExists uint8 = 0x02
	// FileRecordUsed is set when the record is in use
	FileRecordUsed uint8 = 0x80
)

// FourCC is a four character type or creator code
type FourCC [4]byte

// NewFourCC builds a code from a string, padding with spaces
func NewFourCC(s string) FourCC {
	c := FourCC{' ', ' ', ' ', ' '}
	copy(c[:], s)
	return c
}

// String returns the code as text, non-printable bytes as '?'
func (c FourCC) String() string {
	var b strings.Builder
	for _, ch := range c {
		if ch < 0x20 || ch > 0x7e {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// Point is a QuickDraw point
type Point struct {
	V int16
	H int16
}

// FileInfo is the Finder information of a file (FInfo)
type FileInfo struct {
	// File type (fdType)
	Type FourCC

	// File creator (fdCreator)
	Creator FourCC

	// Finder flags (fdFlags)
	Flags uint16

	// Location in the window (fdLocation)
	Location Point

	// Window containing the file (fdFldr)
	Folder int16
}

// CatalogRecord is one decoded catalog leaf data record. It is implemented
// only by *CatalogDirectory, *CatalogFile and *CatalogThread.
type CatalogRecord interface {
	// RecordType returns the record's discriminant
	RecordType() CatalogRecordType

	catalogRecord()
}

// CatalogDirectory is a directory record (cdrDirRec)
type CatalogDirectory struct {
	// Directory flags (dirFlags)
	Flags uint16

	// Number of entries in the directory (dirVal)
	Valence uint16

	// Directory id (dirDirID)
	ID CNID

	// Date and time of creation (dirCrDat)
	CreateDate MacTime

	// Date and time of last modification (dirMdDat)
	ModifyDate MacTime

	// Date and time of last backup (dirBkDat)
	BackupDate MacTime

	// Finder information (dirUsrInfo)
	FinderInfo [16]byte

	// Additional Finder information (dirFndrInfo)
	ExtendedFinderInfo [16]byte
}

// RecordType returns DirectoryRecord
func (*CatalogDirectory) RecordType() CatalogRecordType { return DirectoryRecord }

func (*CatalogDirectory) catalogRecord() {}

// CatalogFile is a file record (cdrFilRec)
type CatalogFile struct {
	// File flags (filFlags)
	Flags uint8

	// File type, always zero (filTyp)
	FileType uint8

	// Finder information (filUsrWds)
	FinderInfo FileInfo

	// File id (filFlNum)
	ID CNID

	// First allocation block of the data fork (filStBlk)
	DataStartBlock uint16

	// Logical end of file of the data fork (filLgLen)
	DataLogicalLength uint32

	// Physical end of file of the data fork (filPyLen)
	DataPhysicalLength uint32

	// First allocation block of the resource fork (filRStBlk)
	ResourceStartBlock uint16

	// Logical end of file of the resource fork (filRLgLen)
	ResourceLogicalLength uint32

	// Physical end of file of the resource fork (filRPyLen)
	ResourcePhysicalLength uint32

	// Date and time of creation (filCrDat)
	CreateDate MacTime

	// Date and time of last modification (filMdDat)
	ModifyDate MacTime

	// Date and time of last backup (filBkDat)
	BackupDate MacTime

	// Additional Finder information (filFndrInfo)
	ExtendedFinderInfo [16]byte

	// File clump size (filClpSize)
	ClumpSize uint16

	// First data fork extent record (filExtRec)
	DataExtents ExtentRecord

	// First resource fork extent record (filRExtRec)
	ResourceExtents ExtentRecord
}

// RecordType returns FileRecord
func (*CatalogFile) RecordType() CatalogRecordType { return FileRecord }

func (*CatalogFile) catalogRecord() {}

// IsLocked reports whether the file is locked
func (f *CatalogFile) IsLocked() bool {
	return f.Flags&FileLocked != 0
}

// Fork returns the descriptor of the requested fork
func (f *CatalogFile) Fork(which Fork) ForkDescriptor {
	if which == ResourceFork {
		return ForkDescriptor{Length: f.ResourceLogicalLength, Extents: f.ResourceExtents}
	}
	return ForkDescriptor{Length: f.DataLogicalLength, Extents: f.DataExtents}
}

// CatalogThread is a directory or file thread record (cdrThdRec, cdrFThdRec)
type CatalogThread struct {
	// DirectoryThreadRecord or FileThreadRecord
	Kind CatalogRecordType

	// Parent id of the directory or file (thdParID)
	ParentID CNID

	// Name of the directory or file (thdCName)
	Name string
}

// RecordType returns the thread's kind
func (t *CatalogThread) RecordType() CatalogRecordType { return t.Kind }

func (*CatalogThread) catalogRecord() {}

// CatalogLeafRecord is a leaf record with its key
type CatalogLeafRecord struct {
	// Parent id from the key (ckrParID)
	ParentID CNID

	// Name from the key (ckrCName); empty for thread records
	Name string

	// Decoded data record
	Record CatalogRecord
}

// CatalogIndexRecord is an index node record
type CatalogIndexRecord struct {
	// Parent id from the key
	ParentID CNID

	// Name from the key
	Name string

	// Node number of the child node
	Child uint32
}
