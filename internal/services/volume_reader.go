package services

import (
	"io"
	"sync"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// VolumeReader is the single cursor over a volume's device. Every read
// positions the cursor first and never relies on where a previous call
// left it. Offsets are device offsets.
type VolumeReader struct {
	dev    interfaces.BlockDevice
	base   int64
	mu     sync.Mutex
	cursor int64
}

// NewVolumeReader returns a reader over dev for a volume starting at base
func NewVolumeReader(dev interfaces.BlockDevice, base int64) (*VolumeReader, error) {
	if dev == nil {
		return nil, errs.InvalidInput("device cannot be nil")
	}
	if base < 0 || base+types.VolumeHeaderOffset >= dev.Size() {
		return nil, errs.IO(io.ErrUnexpectedEOF, "volume offset %d outside the %d-byte device", base, dev.Size())
	}
	return &VolumeReader{dev: dev, base: base}, nil
}

// Base returns the device offset of the volume
func (vr *VolumeReader) Base() int64 {
	return vr.base
}

// Size returns the device size in bytes
func (vr *VolumeReader) Size() int64 {
	return vr.dev.Size()
}

// Writable reports whether the device accepts writes
func (vr *VolumeReader) Writable() bool {
	return vr.dev.Writable()
}

// seek must be called with mu held
func (vr *VolumeReader) seek(off int64) error {
	if off < 0 || off > vr.dev.Size() {
		return errs.IO(io.ErrUnexpectedEOF, "seek to %d outside the %d-byte device", off, vr.dev.Size())
	}
	vr.cursor = off
	return nil
}

// ReadAt fills p from device offset off. Anything short of len(p) is an
// IO_ERROR.
func (vr *VolumeReader) ReadAt(p []byte, off int64) (int, error) {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	if err := vr.seek(off); err != nil {
		return 0, err
	}
	n, err := vr.dev.ReadAt(p, vr.cursor)
	vr.cursor += int64(n)
	if n < len(p) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return n, errs.IO(err, "read of %d bytes at %d returned %d", len(p), off, n)
	}
	return n, nil
}

// ReadRegion reads n bytes at device offset off
func (vr *VolumeReader) ReadRegion(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := vr.ReadAt(buf, off); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadSectors reads count 512-byte sectors, numbered from the volume start
func (vr *VolumeReader) ReadSectors(sector, count int64) ([]byte, error) {
	if count == 0 {
		return []byte{}, nil
	}
	return vr.ReadRegion(vr.base+sector*types.SectorSize, int(count*types.SectorSize))
}

// WriteAt writes p at device offset off
func (vr *VolumeReader) WriteAt(p []byte, off int64) (int, error) {
	vr.mu.Lock()
	defer vr.mu.Unlock()

	if !vr.dev.Writable() {
		return 0, errs.Forbidden("device is read-only")
	}
	if err := vr.seek(off); err != nil {
		return 0, err
	}
	n, err := vr.dev.WriteAt(p, vr.cursor)
	vr.cursor += int64(n)
	if err != nil {
		return n, errs.IO(err, "write of %d bytes at %d failed after %d", len(p), off, n)
	}
	if n < len(p) {
		return n, errs.IO(io.ErrShortWrite, "write of %d bytes at %d wrote %d", len(p), off, n)
	}
	return n, nil
}

// Close closes the device
func (vr *VolumeReader) Close() error {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	return vr.dev.Close()
}
