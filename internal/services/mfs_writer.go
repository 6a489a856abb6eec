package services

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/parsers/mfs"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// AddFile creates an empty file in the volume. The file directory must
// have room for the new entry.
func (v *MFSVolume) AddFile(name string, fileType, creator types.FourCC) (*tree.File, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if name == "" {
		return nil, errs.InvalidInput("file name cannot be empty")
	}
	if strings.Contains(name, ":") {
		return nil, errs.InvalidInput("file name %q contains ':'", name)
	}
	if _, err := helpers.EncodePascalString(name, mfs.MaxFileNameLength); err != nil {
		return nil, err
	}
	if _, existing := v.root.Child(name); existing != nil {
		return nil, errs.AlreadyExists("file %q already exists", name)
	}

	number, err := v.nextFileNumber()
	if err != nil {
		return nil, err
	}

	now := types.MacTimeFrom(time.Now())
	e := &types.MFSFileEntry{
		Flags: types.MFSEntryUsed,
		FinderInfo: types.FileInfo{
			Type:    fileType,
			Creator: creator,
		},
		FileNumber: number,
		CreateDate: now,
		ModifyDate: now,
		Name:       name,
	}

	entries := append(append([]*types.MFSFileEntry(nil), v.entries...), e)
	if _, err := mfs.EncodeFileDirectory(entries, int(v.info.DirectoryLength)); err != nil {
		return nil, err
	}

	v.entries = entries
	v.byNumber[e.FileNumber] = e
	v.info.NextFileNumber = number + 1
	v.info.FileCount++
	v.dirty = true

	file := fileFromEntry(e)
	v.root.Files = append(v.root.Files, file)
	v.logger.Debug("added file", "name", name, "file_number", e.FileNumber)
	return file, nil
}

// nextFileNumber returns the volume's next file number, moved past every
// number already in use when the volume info lags behind the directory
func (v *MFSVolume) nextFileNumber() (uint32, error) {
	next := v.info.NextFileNumber
	for n := range v.byNumber {
		if n >= next {
			if n == math.MaxUint32 {
				return 0, errs.NoSpace("file numbers exhausted")
			}
			next = n + 1
		}
	}
	if next != v.info.NextFileNumber {
		v.logger.Warn("next file number is already in use",
			"recorded", v.info.NextFileNumber, "using", next)
	}
	return next, nil
}

// Append adds data to the end of a fork. Free space in the fork's last
// block is used first; new blocks are taken from the block map in
// ascending order. The fork length only changes once the blocks are
// linked and the bytes copied. If the volume lacks space nothing changes.
func (v *MFSVolume) Append(file *tree.File, fork types.Fork, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.appendFork(file, fork, data)
}

func (v *MFSVolume) appendFork(file *tree.File, fork types.Fork, data []byte) error {
	e, err := v.entry(file)
	if err != nil {
		return err
	}
	if e.IsLocked() {
		return errs.Forbidden("file %q is locked", e.Name)
	}
	if len(data) == 0 {
		return nil
	}

	desc := e.Fork(fork)
	chain, err := v.resolver.Blocks(desc.StartBlock)
	if err != nil {
		return err
	}

	blockSize := v.resolver.BlockSize()
	length := int64(desc.Length)
	newLength := length + int64(len(data))
	if newLength > math.MaxUint32 {
		return errs.InvalidInput("fork of %q would exceed 4 GiB", e.Name)
	}

	needed := int((newLength+blockSize-1)/blockSize) - len(chain)
	var fresh []uint16
	if needed > 0 {
		fresh, err = v.blocks.FindFree(needed)
		if err != nil {
			return fmt.Errorf("failed to grow %s fork of %q: %w", fork, e.Name, err)
		}
	}

	// link the new blocks, then hang them off the chain
	for i, b := range fresh {
		next := uint16(types.MFSBlockEnd)
		if i+1 < len(fresh) {
			next = fresh[i+1]
		}
		if err := v.blocks.Link(b, next); err != nil {
			return err
		}
	}
	start := desc.StartBlock
	if len(fresh) > 0 {
		if len(chain) == 0 {
			start = fresh[0]
		} else if err := v.blocks.Link(chain[len(chain)-1], fresh[0]); err != nil {
			return err
		}
	}
	chain = append(chain, fresh...)

	for written := 0; written < len(data); {
		pos := length + int64(written)
		block := chain[pos/blockSize]
		off := v.resolver.BlockOffset(block) - v.region.start + pos%blockSize
		n := copy(v.region.data[off:off+blockSize-pos%blockSize], data[written:])
		written += n
	}

	allocated := uint32(int64(len(chain)) * blockSize)
	now := types.MacTimeFrom(time.Now())
	switch fork {
	case types.ResourceFork:
		e.ResourceStartBlock = start
		e.ResourceAllocated = allocated
		e.ResourceLength = uint32(newLength)
		file.ResourceLength = e.ResourceLength
	default:
		e.DataStartBlock = start
		e.DataAllocated = allocated
		e.DataLength = uint32(newLength)
		file.DataLength = e.DataLength
	}
	e.ModifyDate = now
	file.Modified = now.Time()
	v.info.FreeBlocks = uint16(v.blocks.FreeCount())
	v.dirty = true

	v.logger.Debug("appended to fork",
		"file", e.Name, "fork", fork.String(), "bytes", len(data),
		"new_blocks", len(fresh), "length", newLength)
	return nil
}

// Writer returns an io.Writer that appends to a fork
func (v *MFSVolume) Writer(file *tree.File, fork types.Fork) io.Writer {
	return &forkWriter{volume: v, file: file, fork: fork}
}

type forkWriter struct {
	volume *MFSVolume
	file   *tree.File
	fork   types.Fork
}

func (w *forkWriter) Write(p []byte) (int, error) {
	if err := w.volume.Append(w.file, w.fork, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush writes the volume info, block map, file directory and allocation
// region back to the device. The device must be writable.
func (v *MFSVolume) Flush() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.flush()
}

func (v *MFSVolume) flush() error {
	if !v.reader.Writable() {
		return errs.Unsupported("volume %q is on a read-only device", v.info.Name)
	}

	base := v.reader.Base()
	v.info.FreeBlocks = uint16(v.blocks.FreeCount())
	info, err := mfs.EncodeVolumeInfo(v.info)
	if err != nil {
		return err
	}
	directory, err := mfs.EncodeFileDirectory(v.entries, int(v.info.DirectoryLength))
	if err != nil {
		return err
	}

	writes := []struct {
		what string
		off  int64
		data []byte
	}{
		{"volume info", base + types.VolumeHeaderOffset, info},
		{"block map", base + types.MFSBlockMapOffset, v.blocks.Pack()},
		{"file directory", base + int64(v.info.DirectoryStart)*types.SectorSize, directory},
		{"allocation region", v.region.start, v.region.data},
	}
	for _, w := range writes {
		if _, err := v.reader.WriteAt(w.data, w.off); err != nil {
			return fmt.Errorf("failed to write %s: %w", w.what, err)
		}
	}

	v.dirty = false
	v.logger.Info("flushed volume", "name", v.info.Name, "files", len(v.entries))
	return nil
}
