package types

// MFS volume structures (Inside Macintosh II, 119-125)

const (
	// MFSSignature is the volume info signature of an MFS volume
	MFSSignature uint16 = 0xD2D7

	// MFSVolumeInfoSize is the size of the volume information block
	MFSVolumeInfoSize = 64

	// MFSBlockMapOffset is the offset of the block map from the volume start
	MFSBlockMapOffset = VolumeHeaderOffset + MFSVolumeInfoSize

	// MFSMaxNameLength is the longest volume name
	MFSMaxNameLength = 27

	// MFSFileEntryFixedSize is the size of a file directory entry before its name
	MFSFileEntryFixedSize = 50

	// MFSFirstAllocationBlock is the number of the first allocation block
	MFSFirstAllocationBlock = 2
)

// Block map entry values.
const (
	// MFSBlockFree marks an unused allocation block
	MFSBlockFree uint16 = 0
	// MFSBlockEnd marks the last block of a chain
	MFSBlockEnd uint16 = 1
	// MFSBlockMaxEntry is the largest value a 12-bit entry holds
	MFSBlockMaxEntry uint16 = 0x0FFF
)

// File directory entry flag bits (flFlags).
const (
	// MFSEntryUsed is set on every used entry
	MFSEntryUsed uint8 = 0x80
	// MFSEntryLocked is set on locked files
	MFSEntryLocked uint8 = 0x01
)

// MFSVolumeInfo is the MFS volume information block
type MFSVolumeInfo struct {
	// Volume signature, 0xD2D7 (drSigWord)
	Signature uint16

	// Date and time of initialization (drCrDate)
	CreateDate MacTime

	// Date and time of last backup (drLsBkUp)
	BackupDate MacTime

	// Volume attributes (drAtrb)
	Attributes uint16

	// Number of files in the directory (drNmFls)
	FileCount uint16

	// First sector of the file directory (drDirSt)
	DirectoryStart uint16

	// Length of the file directory in sectors (drBlLen)
	DirectoryLength uint16

	// Number of allocation blocks on the volume (drNmAlBlks)
	AllocationBlockCount uint16

	// Size of an allocation block in bytes (drAlBlkSiz)
	AllocationBlockSize uint32

	// Bytes to allocate at a time (drClpSiz)
	ClumpSize uint32

	// First sector of the allocation region (drAlBlSt)
	AllocationStart uint16

	// Next unused file number (drNxtFNum)
	NextFileNumber uint32

	// Number of unused allocation blocks (drFreeBks)
	FreeBlocks uint16

	// Volume name (drVN), decoded from Mac Roman
	Name string
}

// MFSFileEntry is one entry of the MFS file directory
type MFSFileEntry struct {
	// Entry flags (flFlags)
	Flags uint8

	// Version number, normally 0 (flTyp)
	Version uint8

	// Finder information (flUsrWds)
	FinderInfo FileInfo

	// File number (flFlNum)
	FileNumber uint32

	// First allocation block of the data fork, 0 if empty (flStBlk)
	DataStartBlock uint16

	// Logical end of file of the data fork (flLgLen)
	DataLength uint32

	// Physical end of file of the data fork (flPyLen)
	DataAllocated uint32

	// First allocation block of the resource fork, 0 if empty (flRStBlk)
	ResourceStartBlock uint16

	// Logical end of file of the resource fork (flRLgLen)
	ResourceLength uint32

	// Physical end of file of the resource fork (flRPyLen)
	ResourceAllocated uint32

	// Date and time of creation (flCrDat)
	CreateDate MacTime

	// Date and time of last modification (flMdDat)
	ModifyDate MacTime

	// File name (flNam), decoded from Mac Roman
	Name string
}

// IsLocked reports whether the file is locked
func (e *MFSFileEntry) IsLocked() bool {
	return e.Flags&MFSEntryLocked != 0
}

// Fork returns the descriptor of the requested fork
func (e *MFSFileEntry) Fork(which Fork) ForkDescriptor {
	if which == ResourceFork {
		return ForkDescriptor{Length: e.ResourceLength, StartBlock: e.ResourceStartBlock}
	}
	return ForkDescriptor{Length: e.DataLength, StartBlock: e.DataStartBlock}
}
