package device

import (
	"io"

	"github.com/deploymenttheory/go-macfs/internal/errs"
)

// MemoryDevice is a fixed-size image held in memory
type MemoryDevice struct {
	data     []byte
	writable bool
}

// NewMemoryDevice wraps data. Writes go straight into data.
func NewMemoryDevice(data []byte, writable bool) *MemoryDevice {
	return &MemoryDevice{data: data, writable: writable}
}

// ReadAt implements io.ReaderAt
func (d *MemoryDevice) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errs.InvalidInput("negative offset %d", off)
	}
	if off >= int64(len(d.data)) {
		return 0, io.EOF
	}
	n := copy(p, d.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt. The image never grows.
func (d *MemoryDevice) WriteAt(p []byte, off int64) (int, error) {
	if !d.writable {
		return 0, errs.Forbidden("memory image is read-only")
	}
	if off < 0 || off+int64(len(p)) > int64(len(d.data)) {
		return 0, errs.InvalidInput("write of %d bytes at %d outside the %d-byte image", len(p), off, len(d.data))
	}
	return copy(d.data[off:], p), nil
}

// Size returns the image size in bytes
func (d *MemoryDevice) Size() int64 {
	return int64(len(d.data))
}

// Writable reports whether writes are allowed
func (d *MemoryDevice) Writable() bool {
	return d.writable
}

// Bytes returns the backing buffer
func (d *MemoryDevice) Bytes() []byte {
	return d.data
}

// Close is a no-op
func (d *MemoryDevice) Close() error {
	return nil
}
