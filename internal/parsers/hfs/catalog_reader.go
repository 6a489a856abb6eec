package hfs

import (
	"io"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// catalogReader implements the CatalogReader interface
type catalogReader struct {
	r         io.ReaderAt
	nodeCount uint32
	header    *types.HeaderRecord
	bitmap    []byte
	records   []types.CatalogLeafRecord
	byID      map[types.CNID]int
}

// NewCatalogReader reads the catalog B-tree stored in r (the catalog file's
// bytes, size long). It decodes the header node and flattens every leaf
// record by following the leaf chain from the first leaf.
func NewCatalogReader(r io.ReaderAt, size int64) (interfaces.CatalogReader, error) {
	if size < types.BTreeNodeSize {
		return nil, errs.IO(io.ErrUnexpectedEOF, "catalog file too small: %d bytes", size)
	}

	cr := &catalogReader{
		r:         r,
		nodeCount: uint32(size / types.BTreeNodeSize),
		byID:      make(map[types.CNID]int),
	}

	headerNode, err := cr.Node(0)
	if err != nil {
		return nil, err
	}
	if !headerNode.IsHeader() {
		return nil, errs.FormatMismatch("catalog node 0 is a %s node, not a header node", headerNode.Kind())
	}
	if cr.header, err = headerNode.Header(); err != nil {
		return nil, err
	}
	if cr.bitmap, err = headerNode.MapRecord(); err != nil {
		return nil, err
	}
	if cr.header.TotalNodes > 0 && cr.header.TotalNodes < cr.nodeCount {
		cr.nodeCount = cr.header.TotalNodes
	}

	if err := cr.flattenLeaves(); err != nil {
		return nil, err
	}

	return cr, nil
}

// flattenLeaves walks the leaf chain and collects every record
func (cr *catalogReader) flattenLeaves() error {
	visited := make(map[uint32]bool)
	for node := cr.header.FirstLeaf; node != 0; {
		if visited[node] {
			return errs.Corrupt("catalog leaf chain revisits node %d", node)
		}
		visited[node] = true

		leaf, err := cr.Node(node)
		if err != nil {
			return err
		}
		if !leaf.IsLeaf() {
			return errs.Corrupt("catalog leaf chain reaches %s node %d", leaf.Kind(), node)
		}

		for _, rec := range leaf.LeafRecords() {
			switch r := rec.Record.(type) {
			case *types.CatalogDirectory:
				cr.index(r.ID)
			case *types.CatalogFile:
				cr.index(r.ID)
			}
			cr.records = append(cr.records, rec)
		}

		node = leaf.ForwardLink()
	}
	return nil
}

func (cr *catalogReader) index(id types.CNID) {
	if _, ok := cr.byID[id]; !ok {
		cr.byID[id] = len(cr.records)
	}
}

// Header returns the catalog B-tree header record
func (cr *catalogReader) Header() *types.HeaderRecord {
	h := *cr.header
	return &h
}

// NodeCount returns the number of nodes held in the catalog file
func (cr *catalogReader) NodeCount() uint32 {
	return cr.nodeCount
}

// Node reads and decodes node i
func (cr *catalogReader) Node(i uint32) (interfaces.BTreeNodeReader, error) {
	if i >= cr.nodeCount {
		return nil, errs.Corrupt("catalog node %d out of range (%d nodes)", i, cr.nodeCount)
	}
	buf := make([]byte, types.BTreeNodeSize)
	off := int64(i) * types.BTreeNodeSize
	if n, err := cr.r.ReadAt(buf, off); n < len(buf) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, errs.IO(err, "read catalog node %d at %d", i, off)
	}
	node, err := NewBTreeNodeReader(buf)
	if err != nil {
		return nil, errs.With(err, "node", i)
	}
	return node, nil
}

// Records returns all leaf records in leaf chain order
func (cr *catalogReader) Records() []types.CatalogLeafRecord {
	return cr.records
}

// LookupByID returns the directory or file record with the given id
func (cr *catalogReader) LookupByID(id types.CNID) (types.CatalogLeafRecord, bool) {
	i, ok := cr.byID[id]
	if !ok {
		return types.CatalogLeafRecord{}, false
	}
	return cr.records[i], true
}

// IsNodeUsed checks the header node's allocation bitmap for node i. Nodes
// tracked by map nodes past the header report false.
func (cr *catalogReader) IsNodeUsed(i uint32) bool {
	byteIdx := i / 8
	if int(byteIdx) >= len(cr.bitmap) {
		return false
	}
	return cr.bitmap[byteIdx]&(0x80>>(i%8)) != 0
}
