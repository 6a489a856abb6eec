package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/internal/device"
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

func TestDetectFormat(t *testing.T) {
	testCases := []struct {
		sig  []byte
		want types.VolumeFormat
	}{
		{[]byte{0xD2, 0xD7}, types.FormatMFS},
		{[]byte("BD"), types.FormatHFS},
		{[]byte("H+"), types.FormatHFSPlus},
		{[]byte("HX"), types.FormatHFSPlus},
		{[]byte{0, 0}, types.FormatUnknown},
		{[]byte{0xD2}, types.FormatUnknown},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, DetectFormat(tc.sig), "signature % x", tc.sig)
	}
}

func TestOpenRejectsUnknownFormats(t *testing.T) {
	hfsPlus := make([]byte, 8192)
	copy(hfsPlus[types.VolumeHeaderOffset:], "H+")

	testCases := []struct {
		name  string
		image []byte
		code  string
		msg   string
	}{
		{"HFS Plus", hfsPlus, "FORMAT_MISMATCH", "HFS Plus"},
		{"blank", make([]byte, 8192), "FORMAT_MISMATCH", "no MFS or HFS signature"},
		{"too small", make([]byte, 600), "IO_ERROR", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vol, err := Open(device.NewMemoryDevice(tc.image, false))
			require.Error(t, err)
			assert.Nil(t, vol)
			assert.Equal(t, tc.code, string(errs.Code(err)))
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestOpenWithPartition(t *testing.T) {
	// DiskCopy 4.2 images carry an 84-byte header before the volume
	image := append(make([]byte, 84), buildMFSImage(t, defaultMFSFiles())...)

	_, err := Open(device.NewMemoryDevice(image, false))
	assert.Equal(t, errs.CodeFormatMismatch, errs.Code(err))

	vol, err := Open(device.NewMemoryDevice(image, false), WithPartition(device.StaticPartition{Offset: 84}))
	require.NoError(t, err)
	assert.Equal(t, int64(84), vol.Info().Offset)

	data, err := vol.ReadFork(lookupFile(t, vol, "Read Me"), types.DataFork)
	require.NoError(t, err)
	assert.Equal(t, mfsReadMeData, data)
}

func TestOpenReadsBootBlocks(t *testing.T) {
	image := buildHFSImage(t, defaultHFSCatalog())
	be.PutUint16(image[0:2], types.BootBlockSignature)
	image[10] = byte(len("System"))
	copy(image[11:], "System")

	vol := openTestHFS(t, image)
	assert.Equal(t, "System", vol.Info().BootSystem)
}

func TestVolumeReader(t *testing.T) {
	image := buildMFSImage(t, defaultMFSFiles())
	vr, err := NewVolumeReader(device.NewMemoryDevice(image, false), 0)
	require.NoError(t, err)

	sector, err := vr.ReadSectors(2, 1)
	require.NoError(t, err)
	assert.Equal(t, image[1024:1536], sector)

	_, err = vr.ReadRegion(int64(len(image))-10, 20)
	assert.Equal(t, errs.CodeIO, errs.Code(err))

	_, err = vr.WriteAt([]byte("x"), 0)
	assert.Equal(t, errs.CodeForbidden, errs.Code(err))

	_, err = NewVolumeReader(device.NewMemoryDevice(image, false), int64(len(image)))
	assert.Equal(t, errs.CodeIO, errs.Code(err))
}
