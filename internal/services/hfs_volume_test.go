package services

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/internal/device"
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

func openTestHFS(t *testing.T, image []byte, opts ...Option) Volume {
	t.Helper()
	vol, err := Open(device.NewMemoryDevice(image, false), opts...)
	require.NoError(t, err)
	require.Equal(t, types.FormatHFS, vol.Format())
	return vol
}

func TestHFSVolumeOpen(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()), WithLogger(logger))

	info := vol.Info()
	assert.Equal(t, "Disk", info.Name)
	assert.Equal(t, uint32(hfsBlockSize), info.BlockSize)
	assert.Equal(t, uint32(hfsBlockCount), info.BlockCount)
	assert.Equal(t, 3, info.FileCount)
	assert.Equal(t, 1, info.DirCount)
	assert.Equal(t, 2000, info.Created.Year())
	assert.Empty(t, info.BootSystem)

	assert.Contains(t, logs.String(), "opened HFS volume")
	assert.NotContains(t, logs.String(), "counters differ")

	root := vol.Root()
	assert.Equal(t, "Disk", root.Name)
	files, dirs := vol.List(root)
	require.Len(t, dirs, 1)
	assert.Equal(t, "Games", dirs[0].Name)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"Big", "Read Me"}, names)
}

func TestHFSVolumeReadFork(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))

	testCases := []struct {
		path string
		fork types.Fork
		want []byte
	}{
		{"/Read Me", types.DataFork, hfsReadMeData},
		{"/Read Me", types.ResourceFork, hfsReadMeRsrc},
		{"/Games/Tetris", types.DataFork, hfsTetrisData},
		{"/games/tetris", types.ResourceFork, []byte{}},
	}
	for _, tc := range testCases {
		t.Run(tc.path+"/"+tc.fork.String(), func(t *testing.T) {
			got, err := vol.ReadFork(lookupFile(t, vol, tc.path), tc.fork)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHFSVolumeMultiExtentFork(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))
	big := lookupFile(t, vol, "Big")

	_, err := vol.ReadFork(big, types.DataFork)
	assert.Equal(t, errs.CodeUnsupportedFeature, errs.Code(err))

	// the failure stays local to the file
	data, err := vol.ReadFork(lookupFile(t, vol, "Read Me"), types.DataFork)
	require.NoError(t, err)
	assert.Equal(t, hfsReadMeData, data)
}

func TestHFSVolumeLookupErrors(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))

	testCases := []struct {
		path string
		code string
	}{
		{"/Nope", "NOT_FOUND"},
		{"/Games/Nope", "NOT_FOUND"},
		{"/Read Me/inside", "NOT_A_DIRECTORY"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			_, _, err := vol.LookupPath(SplitPath(tc.path))
			assert.Equal(t, tc.code, string(errs.Code(err)))
		})
	}

	dir, file, err := vol.LookupPath(SplitPath("/Games/"))
	require.NoError(t, err)
	assert.Nil(t, file)
	assert.Equal(t, "Games", dir.Name)

	dir, _, err = vol.LookupPath(nil)
	require.NoError(t, err)
	assert.Same(t, vol.Root(), dir)
}

func TestHFSVolumeIsReadOnly(t *testing.T) {
	vol := openTestHFS(t, buildHFSImage(t, defaultHFSCatalog()))
	readMe := lookupFile(t, vol, "Read Me")

	assert.Equal(t, errs.CodeUnsupportedFeature, errs.Code(vol.Append(readMe, types.DataFork, []byte("x"))))
	_, err := vol.AddFile("new", types.FourCC{}, types.FourCC{})
	assert.Equal(t, errs.CodeUnsupportedFeature, errs.Code(err))
	assert.Equal(t, errs.CodeUnsupportedFeature, errs.Code(vol.Flush()))
	assert.NoError(t, vol.Close())
}

func TestHFSVolumeOrphanRecord(t *testing.T) {
	catalog := defaultHFSCatalog()
	catalog.leaves[1][1] = hfsFile(99, "Tetris", 18, uint32(len(hfsTetrisData)), extent(7, 2), 0, types.ExtentRecord{})

	_, err := Open(device.NewMemoryDevice(buildHFSImage(t, catalog), false))
	require.Error(t, err)
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))
	assert.Contains(t, err.Error(), "Tetris")
}

func TestHFSVolumeWarnsOnCounterMismatch(t *testing.T) {
	image := buildHFSImage(t, defaultHFSCatalog())
	be.PutUint32(image[types.VolumeHeaderOffset+84:], 9)

	var logs bytes.Buffer
	openTestHFS(t, image, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	assert.Contains(t, logs.String(), "counters differ")
}
