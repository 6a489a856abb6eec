package services

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-macfs/internal/allocation"
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/parsers/mfs"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// MFSVolume is an MFS volume held in memory: volume info, block map, file
// directory and the whole allocation region. Changes stay in memory until
// Flush.
type MFSVolume struct {
	mu         sync.Mutex
	session    uuid.UUID
	reader     *VolumeReader
	info       *types.MFSVolumeInfo
	blocks     mfs.BlockMap
	resolver   *allocation.ChainResolver
	region     *regionBuffer
	entries    []*types.MFSFileEntry
	byNumber   map[uint32]*types.MFSFileEntry
	root       *tree.Directory
	bootSystem string
	dirty      bool
	logger     *slog.Logger
}

// regionBuffer is the allocation region addressed by device offset
type regionBuffer struct {
	start int64
	data  []byte
}

// ReadAt implements io.ReaderAt
func (rb *regionBuffer) ReadAt(p []byte, off int64) (int, error) {
	rel := off - rb.start
	if rel < 0 || rel > int64(len(rb.data)) {
		return 0, errs.Corrupt("offset %d outside the allocation region", off)
	}
	n := copy(p, rb.data[rel:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func openMFS(vr *VolumeReader, session uuid.UUID, logger *slog.Logger) (*MFSVolume, error) {
	base := vr.Base()

	data, err := vr.ReadRegion(base+types.VolumeHeaderOffset, types.MFSVolumeInfoSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read volume info: %w", err)
	}
	infoReader, err := mfs.NewVolumeInfoReader(data)
	if err != nil {
		return nil, err
	}

	raw, err := vr.ReadRegion(base+types.MFSBlockMapOffset, infoReader.BlockMapSize())
	if err != nil {
		return nil, fmt.Errorf("failed to read block map: %w", err)
	}
	blocks, err := mfs.UnpackBlockMap(raw, int(infoReader.AllocationBlockCount()))
	if err != nil {
		return nil, err
	}

	dirData, err := vr.ReadSectors(int64(infoReader.DirectoryStart()), int64(infoReader.DirectoryLength()))
	if err != nil {
		return nil, fmt.Errorf("failed to read file directory: %w", err)
	}
	entries, err := mfs.DecodeFileDirectory(dirData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file directory: %w", err)
	}

	resolver := allocation.NewChainResolver(base, infoReader, blocks)
	start, end := resolver.Region()
	regionData, err := vr.ReadRegion(start, int(end-start))
	if err != nil {
		return nil, fmt.Errorf("failed to read allocation region: %w", err)
	}

	v := &MFSVolume{
		session:    session,
		reader:     vr,
		info:       infoReader.VolumeInfo(),
		blocks:     blocks,
		resolver:   resolver,
		region:     &regionBuffer{start: start, data: regionData},
		entries:    entries,
		byNumber:   make(map[uint32]*types.MFSFileEntry, len(entries)),
		bootSystem: readBootSystem(vr),
		logger:     logger,
	}

	if err := v.checkChains(); err != nil {
		return nil, err
	}
	if err := v.buildTree(); err != nil {
		return nil, err
	}

	if int(v.info.FileCount) != len(entries) {
		logger.Warn("volume info file count differs from the file directory",
			"entries", len(entries), "info", v.info.FileCount)
	}
	if free := blocks.FreeCount(); free != int(v.info.FreeBlocks) {
		logger.Warn("volume info free block count differs from the block map",
			"map", free, "info", v.info.FreeBlocks)
	}
	logger.Info("opened MFS volume", "name", v.info.Name, "files", len(entries))

	return v, nil
}

// checkChains resolves every fork once so a broken chain fails the load,
// and rejects blocks shared by two forks
func (v *MFSVolume) checkChains() error {
	owner := make(map[uint16]string)
	for _, e := range v.entries {
		for _, fork := range []types.Fork{types.DataFork, types.ResourceFork} {
			desc := e.Fork(fork)
			if _, err := v.resolver.Resolve(desc); err != nil {
				return fmt.Errorf("%s fork of %q: %w", fork, e.Name, err)
			}
			chain, _ := v.resolver.Blocks(desc.StartBlock)
			where := fmt.Sprintf("%s fork of %q", fork, e.Name)
			for _, b := range chain {
				if prev, dup := owner[b]; dup {
					return errs.Corrupt("block %d belongs to both the %s and the %s", b, prev, where)
				}
				owner[b] = where
			}
			v.logger.Debug("resolved chain", "file", e.Name, "fork", fork.String(), "blocks", len(chain))
		}
	}
	return nil
}

// buildTree places every file under a single root directory named after
// the volume
func (v *MFSVolume) buildTree() error {
	root := &tree.Directory{
		Name:     v.info.Name,
		ID:       types.RootDirectory,
		Created:  v.info.CreateDate.Time(),
		Modified: v.info.CreateDate.Time(),
	}

	files := make([]tree.PendingFile, 0, len(v.entries))
	for _, e := range v.entries {
		if _, dup := v.byNumber[e.FileNumber]; dup {
			return errs.Corrupt("file number %d used twice (%q)", e.FileNumber, e.Name)
		}
		v.byNumber[e.FileNumber] = e
		files = append(files, tree.PendingFile{ParentID: types.RootDirectory, File: fileFromEntry(e)})
	}

	built, err := tree.Build([]tree.PendingDirectory{{ParentID: types.ParentOfRoot, Dir: root}}, files)
	if err != nil {
		return err
	}
	v.root = built
	return nil
}

func fileFromEntry(e *types.MFSFileEntry) *tree.File {
	return &tree.File{
		Name:           e.Name,
		ID:             types.OpaqueID(e.FileNumber),
		DataLength:     e.DataLength,
		ResourceLength: e.ResourceLength,
		Type:           e.FinderInfo.Type,
		Creator:        e.FinderInfo.Creator,
		Locked:         e.IsLocked(),
		Created:        e.CreateDate.Time(),
		Modified:       e.ModifyDate.Time(),
	}
}

// Format returns types.FormatMFS
func (v *MFSVolume) Format() types.VolumeFormat {
	return types.FormatMFS
}

// Info returns the volume summary
func (v *MFSVolume) Info() VolumeInfo {
	v.mu.Lock()
	defer v.mu.Unlock()

	return VolumeInfo{
		SessionID:  v.session,
		Format:     types.FormatMFS,
		Name:       v.info.Name,
		Offset:     v.reader.Base(),
		BlockSize:  v.info.AllocationBlockSize,
		BlockCount: uint32(v.info.AllocationBlockCount),
		FreeBlocks: uint32(v.blocks.FreeCount()),
		FileCount:  len(v.entries),
		Created:    v.info.CreateDate.Time(),
		Backup:     v.info.BackupDate.Time(),
		Locked:     v.info.Attributes&types.VolumeSoftwareLocked != 0 || v.info.Attributes&types.VolumeHardwareLocked != 0,
		Writable:   v.reader.Writable(),
		BootSystem: v.bootSystem,
	}
}

// Root returns the root directory. Its child slices grow as files are
// added; use List for a stable snapshot.
func (v *MFSVolume) Root() *tree.Directory {
	return v.root
}

// Entries returns the file directory entries
func (v *MFSVolume) Entries() []*types.MFSFileEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*types.MFSFileEntry(nil), v.entries...)
}

// LookupPath resolves segments from the root
func (v *MFSVolume) LookupPath(segments []string) (*tree.Directory, *tree.File, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return lookupPath(v.root, segments)
}

// List returns the files of the root directory
func (v *MFSVolume) List(dir *tree.Directory) ([]*tree.File, []*tree.Directory) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*tree.File(nil), dir.Files...), append([]*tree.Directory(nil), dir.Directories...)
}

func (v *MFSVolume) entry(file *tree.File) (*types.MFSFileEntry, error) {
	e, ok := v.byNumber[file.ID.Raw()]
	if !ok {
		return nil, errs.NotFound("no file directory entry for %q (file number %d)", file.Name, file.ID.Raw())
	}
	return e, nil
}

func (v *MFSVolume) openFork(file *tree.File, fork types.Fork) (*ForkReader, error) {
	e, err := v.entry(file)
	if err != nil {
		return nil, err
	}
	desc := e.Fork(fork)
	runs, err := v.resolver.Resolve(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s fork of %q: %w", fork, file.Name, err)
	}
	return NewForkReader(v.region, runs, int64(desc.Length)), nil
}

// OpenFork returns a reader over a fork. The reader sees the fork as it
// is when opened.
func (v *MFSVolume) OpenFork(file *tree.File, fork types.Fork) (*ForkReader, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.openFork(file, fork)
}

// ReadFork reads a whole fork
func (v *MFSVolume) ReadFork(file *tree.File, fork types.Fork) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fr, err := v.openFork(file, fork)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(fr)
}

// Close flushes pending changes when the device is writable and closes it
func (v *MFSVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.dirty && v.reader.Writable() {
		if err := v.flush(); err != nil {
			v.reader.Close()
			return err
		}
	}
	return v.reader.Close()
}
