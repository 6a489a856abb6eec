package device

import "github.com/deploymenttheory/go-macfs/internal/types"

// StaticPartition is a partition whose location comes from configuration
// rather than a partition table
type StaticPartition struct {
	Offset int64
	Block  uint32
}

// VolumeOffset returns the byte offset of the volume
func (p StaticPartition) VolumeOffset() int64 {
	return p.Offset
}

// BlockSize returns the partition's block size, 512 when unset
func (p StaticPartition) BlockSize() uint32 {
	if p.Block == 0 {
		return types.SectorSize
	}
	return p.Block
}
