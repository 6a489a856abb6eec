package types

// HFS Master Directory Block (Inside Macintosh: Files, 2-56)
// The MDB sits at offset 1024 of the volume and is 162 bytes long. All
// fields are big-endian.

const (
	// HFSSignature is the MDB signature of an HFS volume ("BD")
	HFSSignature uint16 = 0x4244

	// HFSPlusSignature is the volume header signature of HFS Plus ("H+")
	HFSPlusSignature uint16 = 0x482B

	// HFSXSignature is the volume header signature of HFSX ("HX")
	HFSXSignature uint16 = 0x4858

	// MDBSize is the number of bytes decoded from the MDB
	MDBSize = 162
)

// Volume attribute bits (drAtrb).
const (
	// VolumeHardwareLocked is set when the volume is locked by hardware
	VolumeHardwareLocked uint16 = 1 << 7
	// VolumeUnmounted is set when the volume was cleanly unmounted
	VolumeUnmounted uint16 = 1 << 8
	// VolumeSparedBadBlocks is set when the bad block file holds blocks
	VolumeSparedBadBlocks uint16 = 1 << 9
	// VolumeSoftwareLocked is set when the volume is locked by software
	VolumeSoftwareLocked uint16 = 1 << 15
)

// MasterDirectoryBlock is the HFS volume header
type MasterDirectoryBlock struct {
	// Volume signature, 0x4244 (drSigWord)
	Signature uint16

	// Date and time of volume creation (drCrDate)
	CreateDate MacTime

	// Date and time of last modification (drLsMod)
	ModifyDate MacTime

	// Volume attributes (drAtrb)
	Attributes uint16

	// Number of files in the root directory (drNmFls)
	RootFileCount uint16

	// First sector of the volume bitmap (drVBMSt)
	BitmapStart uint16

	// Start of next allocation search (drAllocPtr)
	AllocPtr uint16

	// Number of allocation blocks in the volume (drNmAlBlks)
	AllocationBlockCount uint16

	// Size of an allocation block in bytes (drAlBlkSiz)
	AllocationBlockSize uint32

	// Default clump size (drClpSiz)
	ClumpSize uint32

	// First sector of the allocation region (drAlBlSt)
	AllocationStart uint16

	// Next unused catalog node id (drNxtCNID)
	NextCatalogID uint32

	// Number of unused allocation blocks (drFreeBks)
	FreeBlocks uint16

	// Volume name (drVN), decoded from Mac Roman
	Name string

	// Date and time of last backup (drVolBkUp)
	BackupDate MacTime

	// Volume backup sequence number (drVSeqNum)
	BackupSequence uint16

	// Volume write count (drWrCnt)
	WriteCount uint32

	// Clump size of the extents overflow file (drXTClpSiz)
	ExtentsClumpSize uint32

	// Clump size of the catalog file (drCTClpSiz)
	CatalogClumpSize uint32

	// Number of directories in the root directory (drNmRtDirs)
	RootDirCount uint16

	// Number of files on the volume (drFilCnt)
	FileCount uint32

	// Number of directories on the volume (drDirCnt)
	DirCount uint32

	// Finder information (drFndrInfo)
	FinderInfo [8]uint32

	// Size of the volume cache (drVCSize)
	VolumeCacheSize uint16

	// Size of the volume bitmap cache (drVBMCSize)
	BitmapCacheSize uint16

	// Size of the common volume cache (drCtlCSize)
	CommonCacheSize uint16

	// Logical size of the extents overflow file (drXTFlSize)
	ExtentsFileSize uint32

	// First extent record of the extents overflow file (drXTExtRec)
	ExtentsFileExtents ExtentRecord

	// Logical size of the catalog file (drCTFlSize)
	CatalogFileSize uint32

	// First extent record of the catalog file (drCTExtRec)
	CatalogFileExtents ExtentRecord
}
