package boot

import (
	"io"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// bootBlockHeaderSize covers bbID through bbShellName
const bootBlockHeaderSize = 42

// bootBlockReader implements the BootBlockReader interface
type bootBlockReader struct {
	header types.BootBlockHeader
}

// NewBootBlockReader decodes the head of the boot blocks. Both MFS and HFS
// volumes share the layout. Volumes without boot code have no "LK"
// signature, which is not an error.
func NewBootBlockReader(data []byte) (interfaces.BootBlockReader, error) {
	if len(data) < bootBlockHeaderSize {
		return nil, errs.IO(io.ErrUnexpectedEOF, "data too small for boot blocks: %d bytes", len(data))
	}

	br := helpers.NewBinaryReader(data, 0)
	var raw struct {
		Signature  uint16
		EntryPoint uint32
		Version    uint16
		PageFlags  uint16
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}

	r := &bootBlockReader{header: types.BootBlockHeader{
		Signature:  raw.Signature,
		EntryPoint: raw.EntryPoint,
		Version:    raw.Version,
	}}
	if raw.Signature != types.BootBlockSignature {
		return r, nil
	}

	var err error
	if r.header.SystemName, err = br.ReadPascalField(16); err != nil {
		return nil, err
	}
	if r.header.ShellName, err = br.ReadPascalField(16); err != nil {
		return nil, err
	}
	return r, nil
}

// Header returns the decoded boot block header
func (r *bootBlockReader) Header() types.BootBlockHeader {
	return r.header
}

// IsBootable checks for the "LK" signature
func (r *bootBlockReader) IsBootable() bool {
	return r.header.Signature == types.BootBlockSignature
}

// SystemName returns the name of the system file, empty when not bootable
func (r *bootBlockReader) SystemName() string {
	return r.header.SystemName
}
