package services

import (
	"encoding/binary"
	"log/slog"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/parsers/boot"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// Volume is an opened MFS or HFS volume. Implementations serialise all
// calls with a single mutex.
type Volume interface {
	// Format returns the on-disk format
	Format() types.VolumeFormat

	// Info returns the volume summary
	Info() VolumeInfo

	// Root returns the root directory
	Root() *tree.Directory

	// LookupPath resolves path segments from the root to a directory or file
	LookupPath(segments []string) (*tree.Directory, *tree.File, error)

	// List returns a directory's files and subdirectories
	List(dir *tree.Directory) ([]*tree.File, []*tree.Directory)

	// ReadFork reads a whole fork
	ReadFork(file *tree.File, fork types.Fork) ([]byte, error)

	// OpenFork returns a seekable reader over a fork
	OpenFork(file *tree.File, fork types.Fork) (*ForkReader, error)

	// Append adds data to the end of a fork
	Append(file *tree.File, fork types.Fork, data []byte) error

	// AddFile creates an empty file in the root directory
	AddFile(name string, fileType, creator types.FourCC) (*tree.File, error)

	// Flush writes pending changes to the device
	Flush() error

	// Close flushes pending changes when the device is writable and closes it
	Close() error
}

// Option configures Open
type Option func(*options)

type options struct {
	logger    *slog.Logger
	partition interfaces.PartitionLocator
}

// WithLogger sets the logger used while loading and modifying the volume
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPartition locates the volume inside a larger disk image
func WithPartition(p interfaces.PartitionLocator) Option {
	return func(o *options) {
		o.partition = p
	}
}

// DetectFormat identifies a volume from the two signature bytes at volume
// offset 1024
func DetectFormat(sig []byte) types.VolumeFormat {
	if len(sig) < 2 {
		return types.FormatUnknown
	}
	switch binary.BigEndian.Uint16(sig) {
	case types.MFSSignature:
		return types.FormatMFS
	case types.HFSSignature:
		return types.FormatHFS
	case types.HFSPlusSignature, types.HFSXSignature:
		return types.FormatHFSPlus
	}
	return types.FormatUnknown
}

// Open detects the format of the volume on dev and loads it eagerly. The
// returned volume owns dev and closes it on Close.
func Open(dev interfaces.BlockDevice, opts ...Option) (Volume, error) {
	o := &options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(o)
	}

	var base int64
	if o.partition != nil {
		base = o.partition.VolumeOffset()
	}

	vr, err := NewVolumeReader(dev, base)
	if err != nil {
		return nil, err
	}

	sig, err := vr.ReadRegion(base+types.VolumeHeaderOffset, 2)
	if err != nil {
		return nil, err
	}

	session := uuid.New()
	logger := o.logger.With("session", session.String(), "offset", base)

	format := DetectFormat(sig)
	logger.Debug("detected volume format", "format", format.String())

	switch format {
	case types.FormatMFS:
		return openMFS(vr, session, logger)
	case types.FormatHFS:
		return openHFS(vr, session, logger)
	case types.FormatHFSPlus:
		return nil, errs.FormatMismatch("HFS Plus volume (signature %q) is not supported", string(sig))
	}
	return nil, errs.FormatMismatch("no MFS or HFS signature at offset %d: %#04x", base+types.VolumeHeaderOffset, binary.BigEndian.Uint16(sig))
}

// readBootSystem returns the system file named by the boot blocks, if any
func readBootSystem(vr *VolumeReader) string {
	data, err := vr.ReadRegion(vr.Base(), types.BootBlocksSize)
	if err != nil {
		return ""
	}
	r, err := boot.NewBootBlockReader(data)
	if err != nil || !r.IsBootable() {
		return ""
	}
	return r.SystemName()
}

// lookupPath walks segments from root
func lookupPath(root *tree.Directory, segments []string) (*tree.Directory, *tree.File, error) {
	dir := root
	for i, name := range segments {
		sub, file := childBySegment(dir, name)
		switch {
		case sub != nil:
			dir = sub
		case file != nil:
			if i == len(segments)-1 {
				return nil, file, nil
			}
			return nil, nil, errs.NotADirectory("%q is a file", joinPath(segments[:i+1]))
		default:
			return nil, nil, errs.NotFound("%q not found", joinPath(segments[:i+1]))
		}
	}
	return dir, nil, nil
}
