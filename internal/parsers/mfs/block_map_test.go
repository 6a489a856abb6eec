package mfs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/internal/errs"
)

func TestUnpackBlockMap(t *testing.T) {
	testCases := []struct {
		name  string
		raw   []byte
		count int
		want  BlockMap
	}{
		{
			name:  "two entries share three bytes",
			raw:   []byte{0x00, 0x30, 0x01},
			count: 2,
			want:  BlockMap{0x003, 0x001},
		},
		{
			name:  "full 12-bit values",
			raw:   []byte{0xAB, 0xCD, 0xEF},
			count: 2,
			want:  BlockMap{0xABC, 0xDEF},
		},
		{
			name:  "odd count uses the high nibble only",
			raw:   []byte{0x00, 0x30, 0x04, 0x00, 0x10},
			count: 3,
			want:  BlockMap{0x003, 0x004, 0x001},
		},
		{
			name:  "empty",
			raw:   []byte{},
			count: 0,
			want:  BlockMap{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := UnpackBlockMap(tc.raw, tc.count)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m)
			assert.Equal(t, tc.raw[:BlockMapSize(tc.count)], m.Pack()[:BlockMapSize(tc.count)])
		})
	}
}

func TestUnpackBlockMapShort(t *testing.T) {
	_, err := UnpackBlockMap([]byte{0x00, 0x30}, 2)
	assert.Equal(t, errs.CodeIO, errs.Code(err))
}

func TestBlockMapPackRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 50; iter++ {
		count := rng.Intn(400)
		m := make(BlockMap, count)
		for i := range m {
			m[i] = uint16(rng.Intn(0x1000))
		}
		got, err := UnpackBlockMap(m.Pack(), count)
		require.NoError(t, err)
		require.Equal(t, m, got, "count %d", count)
	}
}

func TestBlockMapOperations(t *testing.T) {
	m := BlockMap{3, 1, 0, 0, 1, 0}

	next, err := m.Next(2)
	require.NoError(t, err)
	assert.Equal(t, uint16(3), next)

	_, err = m.Next(1)
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))
	_, err = m.Next(8)
	assert.Equal(t, errs.CodeStructuralCorruption, errs.Code(err))

	assert.Equal(t, 3, m.FreeCount())

	free, err := m.FindFree(2)
	require.NoError(t, err)
	assert.Equal(t, []uint16{4, 5}, free)
	assert.Equal(t, 3, m.FreeCount(), "FindFree must not claim blocks")

	_, err = m.FindFree(4)
	assert.Equal(t, errs.CodeNoSpace, errs.Code(err))

	require.NoError(t, m.Link(4, 5))
	assert.Equal(t, uint16(5), m[2])
	assert.Error(t, m.Link(4, 0x1000))
	assert.Error(t, m.Link(20, 1))
}
