package mfs

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// volumeInfoReader implements the MFSVolumeInfoReader interface
type volumeInfoReader struct {
	info *types.MFSVolumeInfo
}

// NewVolumeInfoReader decodes the MFS volume information block. data
// starts at volume offset 1024.
func NewVolumeInfoReader(data []byte) (interfaces.MFSVolumeInfoReader, error) {
	if len(data) < types.MFSVolumeInfoSize {
		return nil, errs.IO(io.ErrUnexpectedEOF, "data too small for MFS volume info: %d bytes", len(data))
	}

	info, err := parseVolumeInfo(data)
	if err != nil {
		return nil, err
	}

	if info.Signature != types.MFSSignature {
		return nil, errs.FormatMismatch("invalid MFS signature: %#04x", info.Signature)
	}
	if info.AllocationBlockSize == 0 || info.AllocationBlockSize%types.SectorSize != 0 {
		return nil, errs.FormatMismatch("invalid allocation block size: %d", info.AllocationBlockSize)
	}
	if info.AllocationBlockCount > types.MFSBlockMaxEntry-types.MFSFirstAllocationBlock {
		return nil, errs.FormatMismatch("allocation block count %d does not fit a 12-bit block map", info.AllocationBlockCount)
	}

	return &volumeInfoReader{info: info}, nil
}

// parseVolumeInfo parses raw bytes into an MFSVolumeInfo structure
func parseVolumeInfo(data []byte) (*types.MFSVolumeInfo, error) {
	br := helpers.NewBinaryReader(data, types.VolumeHeaderOffset)

	var raw struct {
		Signature            uint16
		CreateDate           uint32
		BackupDate           uint32
		Attributes           uint16
		FileCount            uint16
		DirectoryStart       uint16
		DirectoryLength      uint16
		AllocationBlockCount uint16
		AllocationBlockSize  uint32
		ClumpSize            uint32
		AllocationStart      uint16
		NextFileNumber       uint32
		FreeBlocks           uint16
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}
	name, err := br.ReadPascalField(types.MFSMaxNameLength + 1)
	if err != nil {
		return nil, err
	}

	return &types.MFSVolumeInfo{
		Signature:            raw.Signature,
		CreateDate:           types.MacTime(raw.CreateDate),
		BackupDate:           types.MacTime(raw.BackupDate),
		Attributes:           raw.Attributes,
		FileCount:            raw.FileCount,
		DirectoryStart:       raw.DirectoryStart,
		DirectoryLength:      raw.DirectoryLength,
		AllocationBlockCount: raw.AllocationBlockCount,
		AllocationBlockSize:  raw.AllocationBlockSize,
		ClumpSize:            raw.ClumpSize,
		AllocationStart:      raw.AllocationStart,
		NextFileNumber:       raw.NextFileNumber,
		FreeBlocks:           raw.FreeBlocks,
		Name:                 name,
	}, nil
}

// EncodeVolumeInfo serialises volume information back to its 64-byte form
func EncodeVolumeInfo(info *types.MFSVolumeInfo) ([]byte, error) {
	name, err := helpers.EncodePascalString(info.Name, types.MFSMaxNameLength)
	if err != nil {
		return nil, err
	}

	data := make([]byte, types.MFSVolumeInfoSize)
	be := binary.BigEndian
	be.PutUint16(data[0:2], info.Signature)
	be.PutUint32(data[2:6], uint32(info.CreateDate))
	be.PutUint32(data[6:10], uint32(info.BackupDate))
	be.PutUint16(data[10:12], info.Attributes)
	be.PutUint16(data[12:14], info.FileCount)
	be.PutUint16(data[14:16], info.DirectoryStart)
	be.PutUint16(data[16:18], info.DirectoryLength)
	be.PutUint16(data[18:20], info.AllocationBlockCount)
	be.PutUint32(data[20:24], info.AllocationBlockSize)
	be.PutUint32(data[24:28], info.ClumpSize)
	be.PutUint16(data[28:30], info.AllocationStart)
	be.PutUint32(data[30:34], info.NextFileNumber)
	be.PutUint16(data[34:36], info.FreeBlocks)
	copy(data[36:], name)
	return data, nil
}

// VolumeInfo returns the decoded volume information
func (r *volumeInfoReader) VolumeInfo() *types.MFSVolumeInfo {
	return r.info
}

// VolumeName returns the volume name
func (r *volumeInfoReader) VolumeName() string {
	return r.info.Name
}

// AllocationBlockSize returns the size of an allocation block in bytes
func (r *volumeInfoReader) AllocationBlockSize() uint32 {
	return r.info.AllocationBlockSize
}

// AllocationBlockCount returns the number of allocation blocks
func (r *volumeInfoReader) AllocationBlockCount() uint16 {
	return r.info.AllocationBlockCount
}

// AllocationStart returns the first 512-byte sector of the allocation region
func (r *volumeInfoReader) AllocationStart() uint16 {
	return r.info.AllocationStart
}

// DirectoryStart returns the first sector of the file directory
func (r *volumeInfoReader) DirectoryStart() uint16 {
	return r.info.DirectoryStart
}

// DirectoryLength returns the length of the file directory in sectors
func (r *volumeInfoReader) DirectoryLength() uint16 {
	return r.info.DirectoryLength
}

// FileCount returns the number of files on the volume
func (r *volumeInfoReader) FileCount() uint16 {
	return r.info.FileCount
}

// FreeBlocks returns the number of unused allocation blocks
func (r *volumeInfoReader) FreeBlocks() uint16 {
	return r.info.FreeBlocks
}

// BlockMapSize returns the size of the packed block map in bytes
func (r *volumeInfoReader) BlockMapSize() int {
	return BlockMapSize(int(r.info.AllocationBlockCount))
}

// CreateDate returns the volume initialization time
func (r *volumeInfoReader) CreateDate() time.Time {
	return r.info.CreateDate.Time()
}

// BackupDate returns the time of last backup
func (r *volumeInfoReader) BackupDate() time.Time {
	return r.info.BackupDate.Time()
}
