// File: internal/interfaces/block_device.go
package interfaces

import (
	"io"
)

// BlockDevice is the byte store holding a disk image
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Size returns the size of the device in bytes
	Size() int64

	// Writable reports whether WriteAt is permitted
	Writable() bool
}

// PartitionLocator locates an embedded volume within a larger disk image.
// It is supplied by a partition map reader or by configuration.
type PartitionLocator interface {
	// VolumeOffset returns the byte offset of the volume within the image
	VolumeOffset() int64

	// BlockSize returns the partition map's block size in bytes
	BlockSize() uint32
}
