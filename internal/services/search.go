package services

import (
	"path"
	"strings"

	"github.com/gobwas/glob"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/tree"
)

// WalkFunc is called for every directory and file below the root. Exactly
// one of dir and file is set. Returning an error stops the walk.
type WalkFunc func(p string, dir *tree.Directory, file *tree.File) error

// SplitPath splits a slash separated path into segments, dropping empty
// ones
func SplitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	return segments
}

// PathName returns the path segment for a volume name. Slashes are legal
// in Mac names and colons are not, so a slash is written as a colon.
func PathName(name string) string {
	return strings.ReplaceAll(name, "/", ":")
}

// childBySegment finds the entry a path segment names, trying the segment
// as written before reading its colons as slashes
func childBySegment(dir *tree.Directory, segment string) (*tree.Directory, *tree.File) {
	sub, file := dir.Child(segment)
	if sub == nil && file == nil && strings.Contains(segment, ":") {
		sub, file = dir.Child(strings.ReplaceAll(segment, ":", "/"))
	}
	return sub, file
}

func joinPath(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// Walk visits the tree depth first, files before subdirectories. Paths
// are slash separated, start with "/" and are built from PathName.
func Walk(vol Volume, fn WalkFunc) error {
	return walkDir(vol, vol.Root(), "/", fn)
}

func walkDir(vol Volume, dir *tree.Directory, p string, fn WalkFunc) error {
	files, dirs := vol.List(dir)
	for _, f := range files {
		if err := fn(path.Join(p, PathName(f.Name)), nil, f); err != nil {
			return err
		}
	}
	for _, sub := range dirs {
		subPath := path.Join(p, PathName(sub.Name))
		if err := fn(subPath, sub, nil); err != nil {
			return err
		}
		if err := walkDir(vol, sub, subPath, fn); err != nil {
			return err
		}
	}
	return nil
}

// Match is an entry found by FindMatches. Exactly one of Dir and File is
// set.
type Match struct {
	Path string
	Dir  *tree.Directory
	File *tree.File
}

// FindMatches returns the entries matching a glob pattern. A pattern
// containing a slash is matched against the whole path, anything else
// against the entry's path segment.
func FindMatches(vol Volume, pattern string) ([]Match, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, errs.InvalidInput("invalid pattern %q: %v", pattern, err)
	}
	fullPath := strings.Contains(pattern, "/")

	var matches []Match
	err = Walk(vol, func(p string, dir *tree.Directory, file *tree.File) error {
		subject := path.Base(p)
		if fullPath {
			subject = p
		}
		if g.Match(subject) {
			matches = append(matches, Match{Path: p, Dir: dir, File: file})
		}
		return nil
	})
	return matches, err
}

// Find returns the paths matching a glob pattern
func Find(vol Volume, pattern string) ([]string, error) {
	matches, err := FindMatches(vol, pattern)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, m := range matches {
		paths = append(paths, m.Path)
	}
	return paths, nil
}
