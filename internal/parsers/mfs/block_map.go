package mfs

import (
	"io"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// BlockMap is the unpacked MFS allocation block map. Entry i describes
// allocation block i+2: 0 free, 1 last block of a chain, otherwise the
// number of the next block in the chain.
type BlockMap []uint16

// BlockMapSize returns the packed size in bytes of a map with count entries
func BlockMapSize(count int) int {
	return (count*3 + 1) / 2
}

// UnpackBlockMap unpacks count 12-bit entries. Every three bytes hold two
// entries: the first is byte 0 and the high nibble of byte 1, the second is
// the low nibble of byte 1 and byte 2.
func UnpackBlockMap(raw []byte, count int) (BlockMap, error) {
	if len(raw) < BlockMapSize(count) {
		return nil, errs.IO(io.ErrUnexpectedEOF, "block map needs %d bytes for %d entries, have %d", BlockMapSize(count), count, len(raw))
	}

	m := make(BlockMap, count)
	for i := 0; i < count; i++ {
		j := i / 2 * 3
		if i%2 == 0 {
			m[i] = uint16(raw[j])<<4 | uint16(raw[j+1])>>4
		} else {
			m[i] = uint16(raw[j+1]&0x0F)<<8 | uint16(raw[j+2])
		}
	}
	return m, nil
}

// Pack returns the map in its on-disk form
func (m BlockMap) Pack() []byte {
	raw := make([]byte, BlockMapSize(len(m)))
	for i, v := range m {
		j := i / 2 * 3
		if i%2 == 0 {
			raw[j] = byte(v >> 4)
			raw[j+1] = raw[j+1]&0x0F | byte(v&0x0F)<<4
		} else {
			raw[j+1] = raw[j+1]&0xF0 | byte(v>>8)&0x0F
			raw[j+2] = byte(v)
		}
	}
	return raw
}

// Contains reports whether block is an allocation block described by the map
func (m BlockMap) Contains(block uint16) bool {
	return block >= types.MFSFirstAllocationBlock && int(block) < len(m)+types.MFSFirstAllocationBlock
}

// Next returns the entry for block
func (m BlockMap) Next(block uint16) (uint16, error) {
	if !m.Contains(block) {
		return 0, errs.Corrupt("block %d outside the block map (%d entries)", block, len(m))
	}
	return m[block-types.MFSFirstAllocationBlock], nil
}

// Link sets the entry for block to next
func (m BlockMap) Link(block, next uint16) error {
	if !m.Contains(block) {
		return errs.Corrupt("block %d outside the block map (%d entries)", block, len(m))
	}
	if next > types.MFSBlockMaxEntry {
		return errs.InvalidInput("block map entry %d does not fit in 12 bits", next)
	}
	m[block-types.MFSFirstAllocationBlock] = next
	return nil
}

// FreeCount returns the number of free blocks
func (m BlockMap) FreeCount() int {
	n := 0
	for _, v := range m {
		if v == types.MFSBlockFree {
			n++
		}
	}
	return n
}

// FindFree returns the numbers of the first n free blocks in ascending
// order without claiming them
func (m BlockMap) FindFree(n int) ([]uint16, error) {
	if n <= 0 {
		return nil, nil
	}
	blocks := make([]uint16, 0, n)
	for i, v := range m {
		if v != types.MFSBlockFree {
			continue
		}
		blocks = append(blocks, uint16(i+types.MFSFirstAllocationBlock))
		if len(blocks) == n {
			return blocks, nil
		}
	}
	return nil, errs.NoSpace("need %d free blocks, volume has %d", n, len(blocks))
}
