// Package tree holds the in-memory directory hierarchy of a volume and
// rebuilds it from the flat, parent-tagged records a catalog yields.
package tree

import (
	"strings"
	"time"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

// File is a file handle. Fork contents are not held here; the volume
// resolves them from ID on demand.
type File struct {
	Name           string
	ID             types.CNID
	DataLength     uint32
	ResourceLength uint32
	Type           types.FourCC
	Creator        types.FourCC
	Locked         bool
	Created        time.Time
	Modified       time.Time
}

// Directory owns its children. There are no parent pointers.
type Directory struct {
	Name        string
	ID          types.CNID
	Created     time.Time
	Modified    time.Time
	Files       []*File
	Directories []*Directory
}

// Child returns the file or subdirectory called name. Names compare case
// insensitively, as on the volume.
func (d *Directory) Child(name string) (*Directory, *File) {
	for _, sub := range d.Directories {
		if strings.EqualFold(sub.Name, name) {
			return sub, nil
		}
	}
	for _, f := range d.Files {
		if strings.EqualFold(f.Name, name) {
			return nil, f
		}
	}
	return nil, nil
}

// Count returns the number of files and directories below d, d excluded
func (d *Directory) Count() (files, dirs int) {
	files = len(d.Files)
	for _, sub := range d.Directories {
		f, s := sub.Count()
		files += f
		dirs += s + 1
	}
	return files, dirs
}

// Size returns the combined fork lengths of the file
func (f *File) Size() int64 {
	return int64(f.DataLength) + int64(f.ResourceLength)
}
