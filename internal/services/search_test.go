package services

import (
	"errors"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

func TestSplitPath(t *testing.T) {
	testCases := []struct {
		in   string
		want []string
	}{
		{"/a/b", []string{"a", "b"}},
		{"a//b/", []string{"a", "b"}},
		{"/", nil},
		{"", nil},
		{"./Read Me", []string{"Read Me"}},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, SplitPath(tc.in), "SplitPath(%q)", tc.in)
	}
}

func TestWalk(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))

	var paths []string
	require.NoError(t, Walk(vol, func(p string, dir *tree.Directory, file *tree.File) error {
		paths = append(paths, p)
		return nil
	}))
	assert.Equal(t, []string{"/Big", "/Read Me", "/Games", "/Games/Tetris"}, paths)

	stop := errors.New("stop")
	err := Walk(vol, func(p string, dir *tree.Directory, file *tree.File) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestFind(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))

	testCases := []struct {
		pattern string
		want    []string
	}{
		{"*e*", []string{"/Read Me", "/Games", "/Games/Tetris"}},
		{"T*", []string{"/Games/Tetris"}},
		{"/Games/*", []string{"/Games/Tetris"}},
		{"/*", []string{"/Big", "/Read Me", "/Games"}},
		{"{Big,Games}", []string{"/Big", "/Games"}},
		{"nothing", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.pattern, func(t *testing.T) {
			got, err := Find(vol, tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := Find(vol, "[")
	assert.Equal(t, errs.CodeInvalidInput, errs.Code(err))
}

func TestSlashInName(t *testing.T) {
	files := append(defaultMFSFiles(), mfsTestFile{name: "1/2 Notes", typ: "TEXT", creator: "MACA", data: []byte("half")})
	vol := openTestMFS(t, buildMFSImage(t, files), false)

	matches, err := FindMatches(vol, "*Notes")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "/Notes", matches[0].Path)
	assert.Equal(t, "/1:2 Notes", matches[1].Path)
	require.NotNil(t, matches[1].File)
	assert.Equal(t, "1/2 Notes", matches[1].File.Name)

	_, file, err := vol.LookupPath(SplitPath(matches[1].Path))
	require.NoError(t, err)
	assert.Same(t, matches[1].File, file)

	got, err := vol.ReadFork(file, types.DataFork)
	require.NoError(t, err)
	assert.Equal(t, []byte("half"), got)
}

func TestExtract(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))

	fs := memfs.New()
	stats, err := Extract(vol, "/Games", fs, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, ExtractStats{Files: 1, Directories: 1, Bytes: int64(len(hfsTetrisData))}, stats)

	data, err := util.ReadFile(fs, "Games/Tetris")
	require.NoError(t, err)
	assert.Equal(t, hfsTetrisData, data)

	fs = memfs.New()
	_, err = Extract(vol, "/Read Me", fs, ExtractOptions{ResourceSuffix: "#rsrc"})
	require.NoError(t, err)
	data, err = util.ReadFile(fs, "Read Me")
	require.NoError(t, err)
	assert.Equal(t, hfsReadMeData, data)
	data, err = util.ReadFile(fs, "Read Me#rsrc")
	require.NoError(t, err)
	assert.Equal(t, hfsReadMeRsrc, data)

	fs = memfs.New()
	_, err = Extract(vol, "/Read Me", fs, ExtractOptions{DataOnly: true})
	require.NoError(t, err)
	_, err = fs.Stat("Read Me.rsrc")
	assert.Error(t, err)
}

func TestExtractWholeVolumeStopsOnUnsupportedFork(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))

	_, err := Extract(vol, "/", memfs.New(), ExtractOptions{})
	assert.Equal(t, errs.CodeUnsupportedFeature, errs.Code(err))
}

func TestExtractMFS(t *testing.T) {
	vol := openTestMFS(t, buildMFSImage(t, defaultMFSFiles()), false)

	fs := memfs.New()
	stats, err := Extract(vol, "/", fs, ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 0, stats.Directories)

	f, err := fs.Open("Read Me.rsrc")
	require.NoError(t, err)
	defer f.Close()
	rsrc, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, mfsReadMeRsrc, rsrc)
}
