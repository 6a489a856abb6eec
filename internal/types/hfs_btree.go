package types

// HFS B-trees (Inside Macintosh: Files, 2-65)
// Every node is 512 bytes: a 14-byte descriptor, the records, free space
// and a table of record offsets growing backwards from the end of the node.

const (
	// BTreeNodeSize is the only node size HFS uses
	BTreeNodeSize = 512

	// NodeDescriptorSize is the size of the descriptor at the start of each node
	NodeDescriptorSize = 14

	// BTreeMapRecordSize is the size of the node allocation bitmap in the header node
	BTreeMapRecordSize = 256

	// HeaderRecordSize is the size of the header record that follows the descriptor
	HeaderRecordSize = 106
)

// NodeKind is the type byte of a B-tree node (ndType)
type NodeKind int8

const (
	// IndexNode holds keys pointing at child nodes
	IndexNode NodeKind = 0x00
	// HeaderNode is node 0 of every B-tree
	HeaderNode NodeKind = 0x01
	// MapNode holds overflow allocation bitmap
	MapNode NodeKind = 0x02
	// LeafNode holds the data records
	LeafNode NodeKind = -1
)

// String returns the node kind's name
func (k NodeKind) String() string {
	switch k {
	case IndexNode:
		return "index"
	case HeaderNode:
		return "header"
	case MapNode:
		return "map"
	case LeafNode:
		return "leaf"
	}
	return "unknown"
}

// Valid reports whether k is one of the four defined node kinds
func (k NodeKind) Valid() bool {
	switch k {
	case IndexNode, HeaderNode, MapNode, LeafNode:
		return true
	}
	return false
}

// NodeDescriptor is the fixed header of every B-tree node
type NodeDescriptor struct {
	// Next node of this kind (ndFLink), 0 at the end of the chain
	ForwardLink uint32

	// Previous node of this kind (ndBLink)
	BackwardLink uint32

	// Node type (ndType)
	Kind NodeKind

	// Depth of the node in the tree, leaves are 1 (ndNHeight)
	Height uint8

	// Number of records in the node (ndNRecs)
	RecordCount uint16

	// Reserved (ndResv2)
	Reserved uint16
}

// HeaderRecord is the first record of the header node
type HeaderRecord struct {
	// Current depth of the tree (bthDepth)
	Depth uint16

	// Node number of the root node (bthRoot)
	Root uint32

	// Number of leaf records in the tree (bthNRecs)
	LeafRecords uint32

	// Node number of the first leaf node (bthFNode)
	FirstLeaf uint32

	// Node number of the last leaf node (bthLNode)
	LastLeaf uint32

	// Node size in bytes (bthNodeSize)
	NodeSize uint16

	// Maximum key length (bthKeyLen)
	MaxKeyLength uint16

	// Total number of nodes in the tree (bthNNodes)
	TotalNodes uint32

	// Number of free nodes (bthFree)
	FreeNodes uint32
}
