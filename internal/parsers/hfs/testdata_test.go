package hfs

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

var be = binary.BigEndian

// createTestMDBData builds a 162-byte master directory block
func createTestMDBData(name string, blockSize uint32, blockCount, allocStart uint16, catalog types.ExtentDescriptor, catalogSize uint32) []byte {
	data := make([]byte, types.MDBSize)
	be.PutUint16(data[0:2], types.HFSSignature)
	be.PutUint32(data[2:6], 0xB492F400)  // create date
	be.PutUint32(data[6:10], 0xB492F500) // modify date
	be.PutUint16(data[10:12], types.VolumeUnmounted)
	be.PutUint16(data[12:14], 2)
	be.PutUint16(data[14:16], 3)
	be.PutUint16(data[18:20], blockCount)
	be.PutUint32(data[20:24], blockSize)
	be.PutUint32(data[24:28], blockSize*4)
	be.PutUint16(data[28:30], allocStart)
	be.PutUint32(data[30:34], 100)
	be.PutUint16(data[34:36], blockCount/2)
	data[36] = byte(len(name))
	copy(data[37:64], name)
	be.PutUint32(data[84:88], 5) // file count
	be.PutUint32(data[88:92], 3) // dir count
	be.PutUint32(data[130:134], 512)
	be.PutUint16(data[134:136], 1)
	be.PutUint16(data[136:138], 1)
	be.PutUint32(data[146:150], catalogSize)
	be.PutUint16(data[150:152], catalog.StartBlock)
	be.PutUint16(data[152:154], catalog.BlockCount)
	return data
}

// catalogKey builds a leaf key padded so the data starts on an even offset
func catalogKeyBytes(parent uint32, name string) []byte {
	key := []byte{byte(6 + len(name)), 0, 0, 0, 0, 0, byte(len(name))}
	be.PutUint32(key[2:6], parent)
	key = append(key, name...)
	if len(key)%2 != 0 {
		key = append(key, 0)
	}
	return key
}

func leafDirectory(parent uint32, name string, id uint32, valence uint16) []byte {
	data := make([]byte, types.CatalogDirectorySize)
	data[0] = byte(types.DirectoryRecord)
	be.PutUint16(data[4:6], valence)
	be.PutUint32(data[6:10], id)
	be.PutUint32(data[10:14], 0xB492F400)
	return append(catalogKeyBytes(parent, name), data...)
}

func leafFile(parent uint32, name string, id uint32, fileType, creator string, dataLen uint32, dataExt types.ExtentDescriptor, rsrcLen uint32, rsrcExt types.ExtentDescriptor) []byte {
	data := make([]byte, types.CatalogFileSize)
	data[0] = byte(types.FileRecord)
	data[2] = types.FileRecordUsed
	copy(data[4:8], fileType)
	copy(data[8:12], creator)
	be.PutUint32(data[20:24], id)
	be.PutUint16(data[24:26], dataExt.StartBlock)
	be.PutUint32(data[26:30], dataLen)
	be.PutUint32(data[30:34], uint32(dataExt.BlockCount)*512)
	be.PutUint16(data[34:36], rsrcExt.StartBlock)
	be.PutUint32(data[36:40], rsrcLen)
	be.PutUint32(data[40:44], uint32(rsrcExt.BlockCount)*512)
	be.PutUint32(data[44:48], 0xB492F400)
	be.PutUint16(data[74:76], dataExt.StartBlock)
	be.PutUint16(data[76:78], dataExt.BlockCount)
	be.PutUint16(data[86:88], rsrcExt.StartBlock)
	be.PutUint16(data[88:90], rsrcExt.BlockCount)
	return append(catalogKeyBytes(parent, name), data...)
}

func leafThread(kind types.CatalogRecordType, id, parent uint32, name string) []byte {
	data := make([]byte, types.CatalogThreadSize)
	data[0] = byte(kind)
	be.PutUint32(data[10:14], parent)
	data[14] = byte(len(name))
	copy(data[15:], name)
	return append(catalogKeyBytes(id, ""), data...)
}

func indexRecord(parent uint32, name string, child uint32) []byte {
	rec := make([]byte, 1+types.CatalogIndexKeyLength+4)
	rec[0] = types.CatalogIndexKeyLength
	be.PutUint32(rec[2:6], parent)
	rec[6] = byte(len(name))
	copy(rec[7:], name)
	be.PutUint32(rec[38:42], child)
	return rec
}

// buildNode lays records out from the descriptor onward and writes the
// reversed offset table at the end of the node
func buildNode(kind types.NodeKind, height uint8, fLink, bLink uint32, records ...[]byte) []byte {
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

// buildHeaderNode builds node 0 of a catalog tree
func buildHeaderNode(firstLeaf, lastLeaf, leafRecords, totalNodes uint32, nodeSize uint16, usedNodes ...uint32) []byte {
	hdr := make([]byte, types.HeaderRecordSize)
	be.PutUint16(hdr[0:2], 1)
	be.PutUint32(hdr[2:6], firstLeaf)
	be.PutUint32(hdr[6:10], leafRecords)
	be.PutUint32(hdr[10:14], firstLeaf)
	be.PutUint32(hdr[14:18], lastLeaf)
	be.PutUint16(hdr[18:20], nodeSize)
	be.PutUint16(hdr[20:22], types.CatalogIndexKeyLength)
	be.PutUint32(hdr[22:26], totalNodes)
	be.PutUint32(hdr[26:30], totalNodes-uint32(len(usedNodes)))

	bitmap := make([]byte, types.BTreeMapRecordSize)
	for _, n := range usedNodes {
		bitmap[n/8] |= 0x80 >> (n % 8)
	}
	return buildNode(types.HeaderNode, 0, 0, 0, hdr, make([]byte, 128), bitmap)
}
