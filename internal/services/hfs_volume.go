package services

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-macfs/internal/allocation"
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/parsers/hfs"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// HFSVolume is a read-only HFS volume
type HFSVolume struct {
	mu         sync.Mutex
	session    uuid.UUID
	reader     *VolumeReader
	mdb        interfaces.MasterDirectoryBlockReader
	resolver   *allocation.ExtentResolver
	catalog    interfaces.CatalogReader
	root       *tree.Directory
	bootSystem string
	logger     *slog.Logger
}

func openHFS(vr *VolumeReader, session uuid.UUID, logger *slog.Logger) (*HFSVolume, error) {
	data, err := vr.ReadRegion(vr.Base()+types.VolumeHeaderOffset, types.MDBSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read master directory block: %w", err)
	}
	mdb, err := hfs.NewMDBReader(data)
	if err != nil {
		return nil, err
	}

	resolver := allocation.NewExtentResolver(vr.Base(), mdb)
	catalogFork := mdb.CatalogFork()
	runs, err := resolver.Resolve(catalogFork)
	if err != nil {
		return nil, fmt.Errorf("failed to locate catalog file: %w", err)
	}

	catalog, err := hfs.NewCatalogReader(NewForkReader(vr, runs, int64(catalogFork.Length)), int64(catalogFork.Length))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	logger.Debug("read catalog",
		"nodes", catalog.NodeCount(),
		"records", len(catalog.Records()),
		"depth", catalog.Header().Depth)
	if got, want := len(catalog.Records()), catalog.Header().LeafRecords; uint32(got) != want {
		logger.Warn("leaf chain record count differs from catalog header", "found", got, "header", want)
	}

	root, err := buildHFSTree(catalog.Records())
	if err != nil {
		return nil, err
	}

	files, dirs := root.Count()
	if uint32(files) != mdb.FileCount() || uint32(dirs) != mdb.DirCount() {
		logger.Warn("master directory block counters differ from the catalog",
			"files", files, "mdb_files", mdb.FileCount(),
			"dirs", dirs, "mdb_dirs", mdb.DirCount())
	}
	logger.Info("opened HFS volume", "name", mdb.VolumeName(), "files", files, "dirs", dirs)

	return &HFSVolume{
		session:    session,
		reader:     vr,
		mdb:        mdb,
		resolver:   resolver,
		catalog:    catalog,
		root:       root,
		bootSystem: readBootSystem(vr),
		logger:     logger,
	}, nil
}

// buildHFSTree turns catalog leaf records into the directory hierarchy.
// Thread records carry nothing the tree needs.
func buildHFSTree(records []types.CatalogLeafRecord) (*tree.Directory, error) {
	var dirs []tree.PendingDirectory
	var files []tree.PendingFile

	for _, rec := range records {
		switch r := rec.Record.(type) {
		case *types.CatalogDirectory:
			dirs = append(dirs, tree.PendingDirectory{
				ParentID: rec.ParentID,
				Dir: &tree.Directory{
					Name:     rec.Name,
					ID:       r.ID,
					Created:  r.CreateDate.Time(),
					Modified: r.ModifyDate.Time(),
				},
			})
		case *types.CatalogFile:
			files = append(files, tree.PendingFile{
				ParentID: rec.ParentID,
				File: &tree.File{
					Name:           rec.Name,
					ID:             r.ID,
					DataLength:     r.DataLogicalLength,
					ResourceLength: r.ResourceLogicalLength,
					Type:           r.FinderInfo.Type,
					Creator:        r.FinderInfo.Creator,
					Locked:         r.IsLocked(),
					Created:        r.CreateDate.Time(),
					Modified:       r.ModifyDate.Time(),
				},
			})
		}
	}

	return tree.Build(dirs, files)
}

// Format returns types.FormatHFS
func (v *HFSVolume) Format() types.VolumeFormat {
	return types.FormatHFS
}

// Info returns the volume summary
func (v *HFSVolume) Info() VolumeInfo {
	v.mu.Lock()
	defer v.mu.Unlock()

	files, dirs := v.root.Count()
	return VolumeInfo{
		SessionID:  v.session,
		Format:     types.FormatHFS,
		Name:       v.mdb.VolumeName(),
		Offset:     v.reader.Base(),
		BlockSize:  v.mdb.AllocationBlockSize(),
		BlockCount: uint32(v.mdb.AllocationBlockCount()),
		FreeBlocks: uint32(v.mdb.FreeBlocks()),
		FileCount:  files,
		DirCount:   dirs,
		Created:    v.mdb.CreateDate(),
		Modified:   v.mdb.ModifyDate(),
		Backup:     v.mdb.BackupDate(),
		Locked:     v.mdb.IsLocked(),
		BootSystem: v.bootSystem,
	}
}

// Root returns the root directory
func (v *HFSVolume) Root() *tree.Directory {
	return v.root
}

// Catalog returns the decoded catalog
func (v *HFSVolume) Catalog() interfaces.CatalogReader {
	return v.catalog
}

// LookupPath resolves segments from the root
func (v *HFSVolume) LookupPath(segments []string) (*tree.Directory, *tree.File, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return lookupPath(v.root, segments)
}

// List returns a directory's files and subdirectories
func (v *HFSVolume) List(dir *tree.Directory) ([]*tree.File, []*tree.Directory) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]*tree.File(nil), dir.Files...), append([]*tree.Directory(nil), dir.Directories...)
}

// OpenFork returns a reader over one of the file's forks. A fork spread
// over more than its first extent is UNSUPPORTED_FEATURE.
func (v *HFSVolume) OpenFork(file *tree.File, fork types.Fork) (*ForkReader, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.openFork(file, fork)
}

func (v *HFSVolume) openFork(file *tree.File, fork types.Fork) (*ForkReader, error) {
	rec, ok := v.catalog.LookupByID(file.ID)
	if !ok {
		return nil, errs.NotFound("no catalog record for file %q (id %s)", file.Name, file.ID)
	}
	cf, ok := rec.Record.(*types.CatalogFile)
	if !ok {
		return nil, errs.InvalidInput("catalog id %s is not a file", file.ID)
	}

	desc := cf.Fork(fork)
	runs, err := v.resolver.Resolve(desc)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s fork of %q: %w", fork, file.Name, err)
	}
	return NewForkReader(v.reader, runs, int64(desc.Length)), nil
}

// ReadFork reads a whole fork
func (v *HFSVolume) ReadFork(file *tree.File, fork types.Fork) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fr, err := v.openFork(file, fork)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(fr)
}

// Append is not supported on HFS
func (v *HFSVolume) Append(file *tree.File, fork types.Fork, data []byte) error {
	return errs.Unsupported("appending to HFS files is not supported")
}

// AddFile is not supported on HFS
func (v *HFSVolume) AddFile(name string, fileType, creator types.FourCC) (*tree.File, error) {
	return nil, errs.Unsupported("creating HFS files is not supported")
}

// Flush is not supported on HFS
func (v *HFSVolume) Flush() error {
	return errs.Unsupported("HFS volumes are read-only")
}

// Close closes the device
func (v *HFSVolume) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reader.Close()
}
