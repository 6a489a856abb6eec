package hfs

import (
	"io"
	"time"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// mdbReader implements the MasterDirectoryBlockReader interface
type mdbReader struct {
	mdb *types.MasterDirectoryBlock
}

// NewMDBReader decodes the master directory block. data starts at the MDB
// (volume offset 1024).
func NewMDBReader(data []byte) (interfaces.MasterDirectoryBlockReader, error) {
	if len(data) < types.MDBSize {
		return nil, errs.IO(io.ErrUnexpectedEOF, "data too small for master directory block: %d bytes", len(data))
	}

	mdb, err := parseMDB(data)
	if err != nil {
		return nil, err
	}

	if mdb.Signature != types.HFSSignature {
		return nil, errs.FormatMismatch("invalid HFS signature: %#04x", mdb.Signature)
	}
	if mdb.AllocationBlockSize == 0 || mdb.AllocationBlockSize%types.SectorSize != 0 {
		return nil, errs.FormatMismatch("invalid allocation block size: %d", mdb.AllocationBlockSize)
	}

	return &mdbReader{mdb: mdb}, nil
}

// parseMDB parses raw bytes into a MasterDirectoryBlock structure
func parseMDB(data []byte) (*types.MasterDirectoryBlock, error) {
	br := helpers.NewBinaryReader(data, types.VolumeHeaderOffset)
	mdb := &types.MasterDirectoryBlock{}

	var raw struct {
		Signature            uint16
		CreateDate           uint32
		ModifyDate           uint32
		Attributes           uint16
		RootFileCount        uint16
		BitmapStart          uint16
		AllocPtr             uint16
		AllocationBlockCount uint16
		AllocationBlockSize  uint32
		ClumpSize            uint32
		AllocationStart      uint16
		NextCatalogID        uint32
		FreeBlocks           uint16
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}
	mdb.Signature = raw.Signature
	mdb.CreateDate = types.MacTime(raw.CreateDate)
	mdb.ModifyDate = types.MacTime(raw.ModifyDate)
	mdb.Attributes = raw.Attributes
	mdb.RootFileCount = raw.RootFileCount
	mdb.BitmapStart = raw.BitmapStart
	mdb.AllocPtr = raw.AllocPtr
	mdb.AllocationBlockCount = raw.AllocationBlockCount
	mdb.AllocationBlockSize = raw.AllocationBlockSize
	mdb.ClumpSize = raw.ClumpSize
	mdb.AllocationStart = raw.AllocationStart
	mdb.NextCatalogID = raw.NextCatalogID
	mdb.FreeBlocks = raw.FreeBlocks

	name, err := br.ReadPascalField(28)
	if err != nil {
		return nil, err
	}
	mdb.Name = name

	var tail struct {
		BackupDate       uint32
		BackupSequence   uint16
		WriteCount       uint32
		ExtentsClumpSize uint32
		CatalogClumpSize uint32
		RootDirCount     uint16
		FileCount        uint32
		DirCount         uint32
		FinderInfo       [8]uint32
		VolumeCacheSize  uint16
		BitmapCacheSize  uint16
		CommonCacheSize  uint16
		ExtentsFileSize  uint32
	}
	if err := br.Read(&tail); err != nil {
		return nil, err
	}
	mdb.BackupDate = types.MacTime(tail.BackupDate)
	mdb.BackupSequence = tail.BackupSequence
	mdb.WriteCount = tail.WriteCount
	mdb.ExtentsClumpSize = tail.ExtentsClumpSize
	mdb.CatalogClumpSize = tail.CatalogClumpSize
	mdb.RootDirCount = tail.RootDirCount
	mdb.FileCount = tail.FileCount
	mdb.DirCount = tail.DirCount
	mdb.FinderInfo = tail.FinderInfo
	mdb.VolumeCacheSize = tail.VolumeCacheSize
	mdb.BitmapCacheSize = tail.BitmapCacheSize
	mdb.CommonCacheSize = tail.CommonCacheSize
	mdb.ExtentsFileSize = tail.ExtentsFileSize

	if mdb.ExtentsFileExtents, err = readExtentRecord(br); err != nil {
		return nil, err
	}
	if mdb.CatalogFileSize, err = br.ReadUint32(); err != nil {
		return nil, err
	}
	if mdb.CatalogFileExtents, err = readExtentRecord(br); err != nil {
		return nil, err
	}

	return mdb, nil
}

// readExtentRecord reads three extent descriptors
func readExtentRecord(br *helpers.BinaryReader) (types.ExtentRecord, error) {
	var raw [6]uint16
	if err := br.Read(&raw); err != nil {
		return types.ExtentRecord{}, err
	}
	return extentRecordFromRaw(raw), nil
}

// MDB returns the decoded master directory block
func (r *mdbReader) MDB() *types.MasterDirectoryBlock {
	return r.mdb
}

// VolumeName returns the volume name
func (r *mdbReader) VolumeName() string {
	return r.mdb.Name
}

// AllocationBlockSize returns the size of an allocation block in bytes
func (r *mdbReader) AllocationBlockSize() uint32 {
	return r.mdb.AllocationBlockSize
}

// AllocationBlockCount returns the number of allocation blocks
func (r *mdbReader) AllocationBlockCount() uint16 {
	return r.mdb.AllocationBlockCount
}

// AllocationStart returns the first 512-byte sector of the allocation region
func (r *mdbReader) AllocationStart() uint16 {
	return r.mdb.AllocationStart
}

// FreeBlocks returns the number of unused allocation blocks
func (r *mdbReader) FreeBlocks() uint16 {
	return r.mdb.FreeBlocks
}

// FileCount returns the number of files on the volume
func (r *mdbReader) FileCount() uint32 {
	return r.mdb.FileCount
}

// DirCount returns the number of directories on the volume
func (r *mdbReader) DirCount() uint32 {
	return r.mdb.DirCount
}

// CatalogFork returns the descriptor of the catalog file
func (r *mdbReader) CatalogFork() types.ForkDescriptor {
	return types.ForkDescriptor{Length: r.mdb.CatalogFileSize, Extents: r.mdb.CatalogFileExtents}
}

// ExtentsFork returns the descriptor of the extents overflow file
func (r *mdbReader) ExtentsFork() types.ForkDescriptor {
	return types.ForkDescriptor{Length: r.mdb.ExtentsFileSize, Extents: r.mdb.ExtentsFileExtents}
}

// CreateDate returns the volume creation time
func (r *mdbReader) CreateDate() time.Time {
	return r.mdb.CreateDate.Time()
}

// ModifyDate returns the time of last modification
func (r *mdbReader) ModifyDate() time.Time {
	return r.mdb.ModifyDate.Time()
}

// BackupDate returns the time of last backup
func (r *mdbReader) BackupDate() time.Time {
	return r.mdb.BackupDate.Time()
}

// IsLocked checks if the volume is hardware or software locked
func (r *mdbReader) IsLocked() bool {
	return r.mdb.Attributes&(types.VolumeHardwareLocked|types.VolumeSoftwareLocked) != 0
}

// WasCleanlyUnmounted checks if the volume was unmounted cleanly
func (r *mdbReader) WasCleanlyUnmounted() bool {
	return r.mdb.Attributes&types.VolumeUnmounted != 0
}
