package tree

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// PendingDirectory is a directory not yet placed, tagged with the parent
// id read from its catalog key
type PendingDirectory struct {
	ParentID types.CNID
	Dir      *Directory
}

// PendingFile is a file not yet placed
type PendingFile struct {
	ParentID types.CNID
	File     *File
}

// maxReported caps the orphans named in an error
const maxReported = 8

// Build assembles the hierarchy. Records may come in any order. Every
// directory and file must end up in the tree exactly once, otherwise the
// catalog is corrupt and Build names the records it could not place.
func Build(dirs []PendingDirectory, files []PendingFile) (*Directory, error) {
	byID := make(map[types.CNID]int, len(dirs))
	for i, d := range dirs {
		if j, dup := byID[d.Dir.ID]; dup {
			return nil, errs.Corrupt("directory id %s used by both %q and %q", d.Dir.ID, dirs[j].Dir.Name, d.Dir.Name)
		}
		byID[d.Dir.ID] = i
	}

	filePending := make([]bool, len(files))
	for i, f := range files {
		j, ok := byID[f.ParentID]
		if !ok {
			filePending[i] = true
			continue
		}
		dirs[j].Dir.Files = append(dirs[j].Dir.Files, f.File)
	}

	root := -1
	for i, d := range dirs {
		if d.ParentID != types.ParentOfRoot {
			continue
		}
		if root >= 0 {
			return nil, errs.Corrupt("two root directories: %q and %q", dirs[root].Dir.Name, d.Dir.Name)
		}
		root = i
	}
	if root < 0 {
		return nil, errs.Corrupt("no root directory among %d directories", len(dirs))
	}

	dirPending := make([]bool, len(dirs))
	remaining := 0
	for i := range dirs {
		if i != root {
			dirPending[i] = true
			remaining++
		}
	}

	// breadth-first over placed directories until nothing more attaches
	queue := []int{root}
	for len(queue) > 0 && remaining > 0 {
		parent := dirs[queue[0]].Dir
		queue = queue[1:]
		for i := range dirs {
			if !dirPending[i] || dirs[i].ParentID != parent.ID {
				continue
			}
			parent.Directories = append(parent.Directories, dirs[i].Dir)
			dirPending[i] = false
			remaining--
			queue = append(queue, i)
		}
	}

	var orphans []string
	for i, pending := range dirPending {
		if pending {
			orphans = append(orphans, fmt.Sprintf("directory %q (id %s, parent %s)", dirs[i].Dir.Name, dirs[i].Dir.ID, dirs[i].ParentID))
		}
	}
	for i, pending := range filePending {
		if pending {
			orphans = append(orphans, fmt.Sprintf("file %q (id %s, parent %s)", files[i].File.Name, files[i].File.ID, files[i].ParentID))
		}
	}
	if len(orphans) > 0 {
		total := len(orphans)
		if total > maxReported {
			orphans = append(orphans[:maxReported], "...")
		}
		return nil, errs.Corrupt("%d catalog records not reachable from the root: %s", total, strings.Join(orphans, ", "))
	}

	return dirs[root].Dir, nil
}
