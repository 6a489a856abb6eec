package services

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/internal/parsers/mfs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

var be = binary.BigEndian

// pattern returns n bytes of a repeating, position dependent pattern
func pattern(n int, seed byte) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = seed + byte(i*7)
	}
	return data
}

// MFS test volume: 1024-byte blocks, 20 of them, file directory in
// sectors 4-7, allocation region from sector 12
const (
	mfsBlockSize   = 1024
	mfsBlockCount  = 20
	mfsDirStart    = 4
	mfsDirLength   = 4
	mfsAllocStart  = 12
	mfsImageSize   = mfsAllocStart*types.SectorSize + mfsBlockCount*mfsBlockSize
	mfsRegionStart = mfsAllocStart * types.SectorSize
)

type mfsTestFile struct {
	name    string
	typ     string
	creator string
	data    []byte
	rsrc    []byte
}

var (
	mfsReadMeData = []byte("Hello from MFS")
	mfsReadMeRsrc = pattern(1500, 3)
	mfsNotesData  = pattern(2000, 11)
)

func defaultMFSFiles() []mfsTestFile {
	return []mfsTestFile{
		{name: "Read Me", typ: "TEXT", creator: "MACA", data: mfsReadMeData, rsrc: mfsReadMeRsrc},
		{name: "Notes", typ: "TEXT", creator: "MACA", data: mfsNotesData},
	}
}

// buildMFSImage lays the forks out in consecutive blocks starting at
// block 2, in file order, data fork before resource fork
func buildMFSImage(t *testing.T, files []mfsTestFile) []byte {
	t.Helper()

	image := make([]byte, mfsImageSize)
	blocks := make(mfs.BlockMap, mfsBlockCount)
	next := uint16(types.MFSFirstAllocationBlock)

	place := func(data []byte) (start uint16, allocated uint32) {
		if len(data) == 0 {
			return 0, 0
		}
		n := (len(data) + mfsBlockSize - 1) / mfsBlockSize
		start = next
		for i := 0; i < n; i++ {
			b := next
			next++
			link := uint16(types.MFSBlockEnd)
			if i+1 < n {
				link = next
			}
			require.NoError(t, blocks.Link(b, link))
			off := mfsRegionStart + int(b-types.MFSFirstAllocationBlock)*mfsBlockSize
			end := (i + 1) * mfsBlockSize
			if end > len(data) {
				end = len(data)
			}
			copy(image[off:], data[i*mfsBlockSize:end])
		}
		return start, uint32(n * mfsBlockSize)
	}

	var entries []*types.MFSFileEntry
	for i, f := range files {
		e := &types.MFSFileEntry{
			Flags:      types.MFSEntryUsed,
			FinderInfo: types.FileInfo{Type: types.NewFourCC(f.typ), Creator: types.NewFourCC(f.creator)},
			FileNumber: uint32(i + 1),
			DataLength: uint32(len(f.data)),
			CreateDate: 0xB492F400,
			ModifyDate: 0xB492F400,
			Name:       f.name,
		}
		e.DataStartBlock, e.DataAllocated = place(f.data)
		e.ResourceLength = uint32(len(f.rsrc))
		e.ResourceStartBlock, e.ResourceAllocated = place(f.rsrc)
		entries = append(entries, e)
	}

	info, err := mfs.EncodeVolumeInfo(&types.MFSVolumeInfo{
		Signature:            types.MFSSignature,
		CreateDate:           0xB492F400,
		FileCount:            uint16(len(files)),
		DirectoryStart:       mfsDirStart,
		DirectoryLength:      mfsDirLength,
		AllocationBlockCount: mfsBlockCount,
		AllocationBlockSize:  mfsBlockSize,
		ClumpSize:            mfsBlockSize * 4,
		AllocationStart:      mfsAllocStart,
		NextFileNumber:       uint32(len(files) + 1),
		FreeBlocks:           uint16(blocks.FreeCount()),
		Name:                 "MFS Disk",
	})
	require.NoError(t, err)
	copy(image[types.VolumeHeaderOffset:], info)
	copy(image[types.MFSBlockMapOffset:], blocks.Pack())

	directory, err := mfs.EncodeFileDirectory(entries, mfsDirLength)
	require.NoError(t, err)
	copy(image[mfsDirStart*types.SectorSize:], directory)

	return image
}

// setMFSBlockLink rewrites one block map entry of an MFS image
func setMFSBlockLink(t *testing.T, image []byte, block, next uint16) {
	t.Helper()
	raw := image[types.MFSBlockMapOffset : types.MFSBlockMapOffset+mfs.BlockMapSize(mfsBlockCount)]
	blocks, err := mfs.UnpackBlockMap(raw, mfsBlockCount)
	require.NoError(t, err)
	require.NoError(t, blocks.Link(block, next))
	copy(raw, blocks.Pack())
}

// HFS test volume: 512-byte blocks, 40 of them from sector 5. The catalog
// occupies blocks 0-3: header node, two chained leaves and a free node.
const (
	hfsBlockSize   = 512
	hfsBlockCount  = 40
	hfsAllocStart  = 5
	hfsRegionStart = hfsAllocStart * types.SectorSize
	hfsImageSize   = hfsRegionStart + hfsBlockCount*hfsBlockSize
)

var (
	hfsReadMeData = []byte("Hello from HFS")
	hfsReadMeRsrc = pattern(600, 5)
	hfsTetrisData = pattern(700, 9)
	hfsBigData    = pattern(1000, 1)
)

type hfsCatalog struct {
	leaves [][][]byte
}

func hfsKey(parent uint32, name string) []byte {
	key := []byte{byte(6 + len(name)), 0, 0, 0, 0, 0, byte(len(name))}
	be.PutUint32(key[2:6], parent)
	key = append(key, name...)
	if len(key)%2 != 0 {
		key = append(key, 0)
	}
	return key
}

func hfsDirectory(parent uint32, name string, id uint32) []byte {
	data := make([]byte, types.CatalogDirectorySize)
	data[0] = byte(types.DirectoryRecord)
	be.PutUint32(data[6:10], id)
	be.PutUint32(data[10:14], 0xB492F400)
	return append(hfsKey(parent, name), data...)
}

func hfsFile(parent uint32, name string, id uint32, dataLen uint32, dataExt types.ExtentRecord, rsrcLen uint32, rsrcExt types.ExtentRecord) []byte {
	data := make([]byte, types.CatalogFileSize)
	data[0] = byte(types.FileRecord)
	data[2] = types.FileRecordUsed
	copy(data[4:8], "TEXT")
	copy(data[8:12], "ttxt")
	be.PutUint32(data[20:24], id)
	be.PutUint32(data[26:30], dataLen)
	be.PutUint32(data[36:40], rsrcLen)
	be.PutUint32(data[44:48], 0xB492F400)
	be.PutUint32(data[48:52], 0xB492F500)
	for i, e := range dataExt {
		be.PutUint16(data[74+4*i:], e.StartBlock)
		be.PutUint16(data[76+4*i:], e.BlockCount)
	}
	for i, e := range rsrcExt {
		be.PutUint16(data[86+4*i:], e.StartBlock)
		be.PutUint16(data[88+4*i:], e.BlockCount)
	}
	return append(hfsKey(parent, name), data...)
}

func hfsThread(id, parent uint32, name string) []byte {
	data := make([]byte, types.CatalogThreadSize)
	data[0] = byte(types.DirectoryThreadRecord)
	be.PutUint32(data[10:14], parent)
	data[14] = byte(len(name))
	copy(data[15:], name)
	return append(hfsKey(id, ""), data...)
}

func extent(start, count uint16) types.ExtentRecord {
	return types.ExtentRecord{{StartBlock: start, BlockCount: count}}
}

func defaultHFSCatalog() hfsCatalog {
	return hfsCatalog{leaves: [][][]byte{
		{
			hfsDirectory(types.ParentOfRootID, "Disk", types.RootDirectoryID),
			hfsThread(types.RootDirectoryID, types.ParentOfRootID, "Disk"),
			hfsFile(types.RootDirectoryID, "Big", 19, uint32(len(hfsBigData)),
				types.ExtentRecord{{StartBlock: 9, BlockCount: 1}, {StartBlock: 11, BlockCount: 1}}, 0, types.ExtentRecord{}),
			hfsDirectory(types.RootDirectoryID, "Games", 17),
		},
		{
			hfsFile(types.RootDirectoryID, "Read Me", 16, uint32(len(hfsReadMeData)), extent(4, 1), uint32(len(hfsReadMeRsrc)), extent(5, 2)),
			hfsFile(17, "Tetris", 18, uint32(len(hfsTetrisData)), extent(7, 2), 0, types.ExtentRecord{}),
		},
	}}
}

func hfsNode(kind types.NodeKind, height uint8, fLink, bLink uint32, records ...[]byte) []byte {
	node := make([]byte, types.BTreeNodeSize)
	be.PutUint32(node[0:4], fLink)
	be.PutUint32(node[4:8], bLink)
	node[8] = byte(kind)
	node[9] = height
	be.PutUint16(node[10:12], uint16(len(records)))

	off := types.NodeDescriptorSize
	for i, rec := range records {
		copy(node[off:], rec)
		be.PutUint16(node[types.BTreeNodeSize-2*(i+1):], uint16(off))
		off += len(rec)
	}
	return node
}

// bytes builds the catalog file: header node 0, leaves from node 1 and a
// trailing free node
func (c hfsCatalog) bytes() []byte {
	nodes := uint32(len(c.leaves) + 2)
	var leafRecords int
	for _, l := range c.leaves {
		leafRecords += len(l)
	}

	hdr := make([]byte, types.HeaderRecordSize)
	be.PutUint16(hdr[0:2], 1)
	be.PutUint32(hdr[2:6], 1)
	be.PutUint32(hdr[6:10], uint32(leafRecords))
	be.PutUint32(hdr[10:14], 1)
	be.PutUint32(hdr[14:18], uint32(len(c.leaves)))
	be.PutUint16(hdr[18:20], types.BTreeNodeSize)
	be.PutUint16(hdr[20:22], types.CatalogIndexKeyLength)
	be.PutUint32(hdr[22:26], nodes)
	be.PutUint32(hdr[26:30], 1)
	bitmap := make([]byte, types.BTreeMapRecordSize)
	for n := uint32(0); n < nodes-1; n++ {
		bitmap[n/8] |= 0x80 >> (n % 8)
	}

	var buf bytes.Buffer
	buf.Write(hfsNode(types.HeaderNode, 0, 0, 0, hdr, make([]byte, 128), bitmap))
	for i, records := range c.leaves {
		var fLink uint32
		if i+1 < len(c.leaves) {
			fLink = uint32(i + 2)
		}
		buf.Write(hfsNode(types.LeafNode, 1, fLink, uint32(i), records...))
	}
	buf.Write(make([]byte, types.BTreeNodeSize))
	return buf.Bytes()
}

// buildHFSImage writes the MDB, the catalog at block 0 and the fork
// contents of the default catalog
func buildHFSImage(t *testing.T, catalog hfsCatalog) []byte {
	t.Helper()

	image := make([]byte, hfsImageSize)
	cat := catalog.bytes()
	catBlocks := uint16(len(cat) / hfsBlockSize)

	mdb := image[types.VolumeHeaderOffset : types.VolumeHeaderOffset+types.MDBSize]
	be.PutUint16(mdb[0:2], types.HFSSignature)
	be.PutUint32(mdb[2:6], 0xB492F400)
	be.PutUint32(mdb[6:10], 0xB492F500)
	be.PutUint16(mdb[10:12], types.VolumeUnmounted)
	be.PutUint16(mdb[12:14], 2)
	be.PutUint16(mdb[14:16], 3)
	be.PutUint16(mdb[18:20], hfsBlockCount)
	be.PutUint32(mdb[20:24], hfsBlockSize)
	be.PutUint32(mdb[24:28], hfsBlockSize*4)
	be.PutUint16(mdb[28:30], hfsAllocStart)
	be.PutUint32(mdb[30:34], 20)
	be.PutUint16(mdb[34:36], 27)
	mdb[36] = byte(len("Disk"))
	copy(mdb[37:], "Disk")
	be.PutUint32(mdb[84:88], 3) // files
	be.PutUint32(mdb[88:92], 1) // directories below the root
	be.PutUint32(mdb[146:150], uint32(len(cat)))
	be.PutUint16(mdb[150:152], 0)
	be.PutUint16(mdb[152:154], catBlocks)

	put := func(block int, data []byte) {
		copy(image[hfsRegionStart+block*hfsBlockSize:], data)
	}
	put(0, cat)
	put(4, hfsReadMeData)
	put(5, hfsReadMeRsrc)
	put(7, hfsTetrisData)
	put(9, hfsBigData[:hfsBlockSize])
	put(11, hfsBigData[hfsBlockSize:])
	return image
}
