package hfs

import (
	"io"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/interfaces"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// Offsets of the three header node records.
const (
	headerRecordOffset   = types.NodeDescriptorSize
	headerReservedOffset = headerRecordOffset + types.HeaderRecordSize
	headerMapOffset      = headerReservedOffset + 128
)

// btreeNodeReader implements the BTreeNodeReader interface
type btreeNodeReader struct {
	desc         types.NodeDescriptor
	data         []byte
	offsets      []uint16
	ends         []int64
	header       *types.HeaderRecord
	leafRecords  []types.CatalogLeafRecord
	indexRecords []types.CatalogIndexRecord
}

// NewBTreeNodeReader decodes a 512-byte catalog B-tree node.
//
// Records are decoded in order from the end of the descriptor, then the
// reader seeks to the offset table at the end of the node and checks that
// every record started where the table says it does.
func NewBTreeNodeReader(data []byte) (interfaces.BTreeNodeReader, error) {
	if len(data) < types.BTreeNodeSize {
		return nil, errs.IO(io.ErrUnexpectedEOF, "data too small for B-tree node: %d bytes", len(data))
	}
	data = data[:types.BTreeNodeSize]

	br := helpers.NewBinaryReader(data, 0)
	desc, err := parseNodeDescriptor(br)
	if err != nil {
		return nil, err
	}
	if !desc.Kind.Valid() {
		return nil, errs.FormatMismatch("unknown B-tree node type %#02x", uint8(desc.Kind))
	}

	n := int(desc.RecordCount)
	tableStart := int64(types.BTreeNodeSize - 2*n)
	if tableStart < types.NodeDescriptorSize {
		return nil, errs.Corrupt("B-tree node claims %d records", n)
	}

	node := &btreeNodeReader{desc: desc, data: data}

	// First pass: records in order.
	var starts []int64
	switch desc.Kind {
	case types.HeaderNode:
		starts, err = node.decodeHeaderRecords(br, n)
	case types.LeafNode:
		starts, err = node.decodeRecords(br, n, func() error {
			rec, err := decodeLeafRecord(br)
			if err == nil {
				node.leafRecords = append(node.leafRecords, rec)
			}
			return err
		})
	case types.IndexNode:
		starts, err = node.decodeRecords(br, n, func() error {
			rec, err := decodeIndexRecord(br)
			if err == nil {
				node.indexRecords = append(node.indexRecords, rec)
			}
			return err
		})
	}
	if err != nil {
		return nil, err
	}
	if starts != nil && br.Position() > tableStart {
		return nil, errs.Corrupt("%s node records run into the offset table (%d > %d)", desc.Kind, br.Position(), tableStart)
	}

	// Second pass: the offset table, stored last record first.
	if err := br.SeekTo(tableStart); err != nil {
		return nil, err
	}
	table := make([]uint16, n)
	if err := br.Read(table); err != nil {
		return nil, err
	}
	node.offsets = make([]uint16, n)
	for i := range table {
		node.offsets[i] = table[n-1-i]
	}

	if starts == nil {
		// map nodes carry no record lengths of their own
		if err := node.deriveEnds(tableStart); err != nil {
			return nil, err
		}
		return node, nil
	}
	for i, start := range starts {
		if int64(node.offsets[i]) != start {
			return nil, errs.Corrupt("%s node record %d decoded at offset %d, offset table says %d", desc.Kind, i, start, node.offsets[i])
		}
	}

	return node, nil
}

// parseNodeDescriptor reads the 14-byte node descriptor
func parseNodeDescriptor(br *helpers.BinaryReader) (types.NodeDescriptor, error) {
	var raw struct {
		ForwardLink  uint32
		BackwardLink uint32
		Kind         int8
		Height       uint8
		RecordCount  uint16
		Reserved     uint16
	}
	if err := br.Read(&raw); err != nil {
		return types.NodeDescriptor{}, err
	}
	return types.NodeDescriptor{
		ForwardLink:  raw.ForwardLink,
		BackwardLink: raw.BackwardLink,
		Kind:         types.NodeKind(raw.Kind),
		Height:       raw.Height,
		RecordCount:  raw.RecordCount,
		Reserved:     raw.Reserved,
	}, nil
}

// decodeRecords runs decode n times, recording where each record started
// and ended
func (n *btreeNodeReader) decodeRecords(br *helpers.BinaryReader, count int, decode func() error) ([]int64, error) {
	starts := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		starts = append(starts, br.Position())
		if err := decode(); err != nil {
			return nil, err
		}
		n.ends = append(n.ends, br.Position())
	}
	return starts, nil
}

// decodeHeaderRecords decodes the header record, skips the reserved
// record and steps over the map record
func (n *btreeNodeReader) decodeHeaderRecords(br *helpers.BinaryReader, count int) ([]int64, error) {
	if count != 3 {
		return nil, errs.Corrupt("header node has %d records, want 3", count)
	}

	var raw struct {
		Depth        uint16
		Root         uint32
		LeafRecords  uint32
		FirstLeaf    uint32
		LastLeaf     uint32
		NodeSize     uint16
		MaxKeyLength uint16
		TotalNodes   uint32
		FreeNodes    uint32
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}
	if raw.NodeSize != types.BTreeNodeSize {
		return nil, errs.FormatMismatch("B-tree node size is %d, only %d is supported", raw.NodeSize, types.BTreeNodeSize)
	}
	n.header = &types.HeaderRecord{
		Depth:        raw.Depth,
		Root:         raw.Root,
		LeafRecords:  raw.LeafRecords,
		FirstLeaf:    raw.FirstLeaf,
		LastLeaf:     raw.LastLeaf,
		NodeSize:     raw.NodeSize,
		MaxKeyLength: raw.MaxKeyLength,
		TotalNodes:   raw.TotalNodes,
		FreeNodes:    raw.FreeNodes,
	}

	if err := br.SeekTo(headerMapOffset + types.BTreeMapRecordSize); err != nil {
		return nil, err
	}
	n.ends = []int64{headerReservedOffset, headerMapOffset, headerMapOffset + types.BTreeMapRecordSize}
	return []int64{headerRecordOffset, headerReservedOffset, headerMapOffset}, nil
}

// deriveEnds computes record bounds from the offset table alone
func (n *btreeNodeReader) deriveEnds(tableStart int64) error {
	n.ends = make([]int64, len(n.offsets))
	for i, off := range n.offsets {
		end := tableStart
		if i+1 < len(n.offsets) {
			end = int64(n.offsets[i+1])
		}
		if int64(off) < types.NodeDescriptorSize || int64(off) > end {
			return errs.Corrupt("%s node record %d has offset %d", n.desc.Kind, i, off)
		}
		n.ends[i] = end
	}
	return nil
}

// Descriptor returns the node descriptor
func (n *btreeNodeReader) Descriptor() types.NodeDescriptor {
	return n.desc
}

// Kind returns the node type
func (n *btreeNodeReader) Kind() types.NodeKind {
	return n.desc.Kind
}

// ForwardLink returns the next node of the same kind, 0 when none
func (n *btreeNodeReader) ForwardLink() uint32 {
	return n.desc.ForwardLink
}

// BackwardLink returns the previous node of the same kind, 0 when none
func (n *btreeNodeReader) BackwardLink() uint32 {
	return n.desc.BackwardLink
}

// Height returns the level of the node, leaves are 1
func (n *btreeNodeReader) Height() uint8 {
	return n.desc.Height
}

// RecordCount returns the number of records in the node
func (n *btreeNodeReader) RecordCount() uint16 {
	return n.desc.RecordCount
}

// RecordOffsets returns the record start offsets in record order
func (n *btreeNodeReader) RecordOffsets() []uint16 {
	return append([]uint16(nil), n.offsets...)
}

// Record returns the raw bytes of record i
func (n *btreeNodeReader) Record(i int) ([]byte, error) {
	if i < 0 || i >= len(n.offsets) {
		return nil, errs.NotFound("record %d not in %s node with %d records", i, n.desc.Kind, len(n.offsets))
	}
	return append([]byte(nil), n.data[n.offsets[i]:n.ends[i]]...), nil
}

// IsLeaf checks if the node is a leaf node
func (n *btreeNodeReader) IsLeaf() bool {
	return n.desc.Kind == types.LeafNode
}

// IsIndex checks if the node is an index node
func (n *btreeNodeReader) IsIndex() bool {
	return n.desc.Kind == types.IndexNode
}

// IsHeader checks if the node is the header node
func (n *btreeNodeReader) IsHeader() bool {
	return n.desc.Kind == types.HeaderNode
}

// Header returns the header record of a header node
func (n *btreeNodeReader) Header() (*types.HeaderRecord, error) {
	if n.header == nil {
		return nil, errs.InvalidInput("%s node has no header record", n.desc.Kind)
	}
	h := *n.header
	return &h, nil
}

// MapRecord returns the node allocation bitmap of a header or map node
func (n *btreeNodeReader) MapRecord() ([]byte, error) {
	switch n.desc.Kind {
	case types.HeaderNode:
		return n.Record(2)
	case types.MapNode:
		return n.Record(0)
	}
	return nil, errs.InvalidInput("%s node has no map record", n.desc.Kind)
}

// LeafRecords returns the decoded catalog records of a leaf node
func (n *btreeNodeReader) LeafRecords() []types.CatalogLeafRecord {
	return n.leafRecords
}

// IndexRecords returns the decoded records of an index node
func (n *btreeNodeReader) IndexRecords() []types.CatalogIndexRecord {
	return n.indexRecords
}
