package services

import (
	"io"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// Extract copies the file or directory at p into dst, recursively for
// directories. The resource fork of a file is written next to it with
// the resource suffix appended.
func Extract(vol Volume, p string, dst billy.Filesystem, opts ExtractOptions) (ExtractStats, error) {
	var stats ExtractStats
	if opts.ResourceSuffix == "" {
		opts.ResourceSuffix = ".rsrc"
	}

	dir, file, err := vol.LookupPath(SplitPath(p))
	if err != nil {
		return stats, err
	}
	if file != nil {
		err = extractFile(vol, file, dst, PathName(file.Name), opts, &stats)
		return stats, err
	}

	target := ""
	if dir != vol.Root() {
		target = PathName(dir.Name)
	}
	err = extractDir(vol, dir, dst, target, opts, &stats)
	return stats, err
}

func extractDir(vol Volume, dir *tree.Directory, dst billy.Filesystem, target string, opts ExtractOptions, stats *ExtractStats) error {
	if target != "" {
		if err := dst.MkdirAll(target, 0o755); err != nil {
			return errs.IO(err, "failed to create directory %s", target)
		}
		stats.Directories++
	}

	files, dirs := vol.List(dir)
	for _, f := range files {
		if err := extractFile(vol, f, dst, dst.Join(target, PathName(f.Name)), opts, stats); err != nil {
			return err
		}
	}
	for _, sub := range dirs {
		if err := extractDir(vol, sub, dst, dst.Join(target, PathName(sub.Name)), opts, stats); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(vol Volume, file *tree.File, dst billy.Filesystem, target string, opts ExtractOptions, stats *ExtractStats) error {
	if err := writeFork(vol, file, types.DataFork, dst, target, stats); err != nil {
		return err
	}
	if !opts.DataOnly && file.ResourceLength > 0 {
		if err := writeFork(vol, file, types.ResourceFork, dst, target+opts.ResourceSuffix, stats); err != nil {
			return err
		}
	}
	stats.Files++
	return nil
}

func writeFork(vol Volume, file *tree.File, fork types.Fork, dst billy.Filesystem, target string, stats *ExtractStats) error {
	fr, err := vol.OpenFork(file, fork)
	if err != nil {
		return err
	}

	out, err := dst.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.IO(err, "failed to create %s", target)
	}
	n, err := io.Copy(out, fr)
	stats.Bytes += n
	if cerr := out.Close(); err == nil && cerr != nil {
		err = errs.IO(cerr, "failed to close %s", target)
	}
	if err != nil {
		return err
	}
	if !file.Modified.IsZero() {
		if ch, ok := dst.(billy.Change); ok {
			_ = ch.Chtimes(target, file.Modified, file.Modified)
		}
	}
	return nil
}
