package hfs

import (
	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// minCatalogKeyLength covers the reserved byte, parent id and name length
const minCatalogKeyLength = 6

// catalogKey is the key of a catalog record
type catalogKey struct {
	parentID types.CNID
	name     string
}

// readCatalogKey reads a catalog key and leaves the cursor at the start of
// the record data, which begins at the next even offset.
func readCatalogKey(br *helpers.BinaryReader) (catalogKey, error) {
	start := br.Position()
	var key catalogKey

	keyLen, err := br.ReadUint8()
	if err != nil {
		return key, err
	}
	if keyLen < minCatalogKeyLength {
		return key, errs.Corrupt("catalog key at node offset %d has length %d", start, keyLen)
	}
	if _, err := br.ReadUint8(); err != nil {
		return key, err
	}
	parentID, err := br.ReadUint32()
	if err != nil {
		return key, err
	}
	nameLen, err := br.PeekBytes(1)
	if err != nil {
		return key, err
	}
	if nameLen[0] > types.CatalogKeyMaxNameLength || int(nameLen[0]) > int(keyLen)-minCatalogKeyLength {
		return key, errs.Corrupt("catalog key at node offset %d has name length %d for key length %d", start, nameLen[0], keyLen)
	}
	name, err := br.ReadPascalString()
	if err != nil {
		return key, err
	}

	if err := br.SeekTo(start + 1 + int64(keyLen)); err != nil {
		return key, err
	}
	if err := br.AlignEven(); err != nil {
		return key, err
	}

	key.parentID = types.NewCNID(parentID)
	key.name = name
	return key, nil
}

// decodeLeafRecord decodes one catalog leaf record at the cursor. The
// record type byte is validated before the payload is decoded.
func decodeLeafRecord(br *helpers.BinaryReader) (types.CatalogLeafRecord, error) {
	key, err := readCatalogKey(br)
	if err != nil {
		return types.CatalogLeafRecord{}, err
	}

	dataStart := br.Position()
	tag, err := br.PeekBytes(1)
	if err != nil {
		return types.CatalogLeafRecord{}, err
	}

	var rec types.CatalogRecord
	switch kind := types.CatalogRecordType(tag[0]); kind {
	case types.DirectoryRecord:
		rec, err = decodeDirectoryRecord(br)
	case types.FileRecord:
		rec, err = decodeFileRecord(br)
	case types.DirectoryThreadRecord, types.FileThreadRecord:
		rec, err = decodeThreadRecord(br, kind)
	default:
		return types.CatalogLeafRecord{}, errs.FormatMismatch("unknown catalog record type %#02x at node offset %d", tag[0], dataStart)
	}
	if err != nil {
		return types.CatalogLeafRecord{}, err
	}

	return types.CatalogLeafRecord{
		ParentID: key.parentID,
		Name:     key.name,
		Record:   rec,
	}, nil
}

func decodeDirectoryRecord(br *helpers.BinaryReader) (*types.CatalogDirectory, error) {
	var raw struct {
		Type       uint8
		Reserved   uint8
		Flags      uint16
		Valence    uint16
		DirID      uint32
		CreateDate uint32
		ModifyDate uint32
		BackupDate uint32
		UserInfo   [16]byte
		FinderInfo [16]byte
		Reserved2  [16]byte
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}
	return &types.CatalogDirectory{
		Flags:              raw.Flags,
		Valence:            raw.Valence,
		ID:                 types.NewCNID(raw.DirID),
		CreateDate:         types.MacTime(raw.CreateDate),
		ModifyDate:         types.MacTime(raw.ModifyDate),
		BackupDate:         types.MacTime(raw.BackupDate),
		FinderInfo:         raw.UserInfo,
		ExtendedFinderInfo: raw.FinderInfo,
	}, nil
}

func decodeFileRecord(br *helpers.BinaryReader) (*types.CatalogFile, error) {
	var raw struct {
		Type                   uint8
		Reserved               uint8
		Flags                  uint8
		FileType               uint8
		FdType                 [4]byte
		FdCreator              [4]byte
		FdFlags                uint16
		FdLocation             types.Point
		FdFolder               int16
		FileID                 uint32
		DataStartBlock         uint16
		DataLogicalLength      uint32
		DataPhysicalLength     uint32
		ResourceStartBlock     uint16
		ResourceLogicalLength  uint32
		ResourcePhysicalLength uint32
		CreateDate             uint32
		ModifyDate             uint32
		BackupDate             uint32
		FinderInfo             [16]byte
		ClumpSize              uint16
		DataExtents            [6]uint16
		ResourceExtents        [6]uint16
		Reserved2              uint32
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}
	return &types.CatalogFile{
		Flags:    raw.Flags,
		FileType: raw.FileType,
		FinderInfo: types.FileInfo{
			Type:     raw.FdType,
			Creator:  raw.FdCreator,
			Flags:    raw.FdFlags,
			Location: raw.FdLocation,
			Folder:   raw.FdFolder,
		},
		ID:                     types.NewCNID(raw.FileID),
		DataStartBlock:         raw.DataStartBlock,
		DataLogicalLength:      raw.DataLogicalLength,
		DataPhysicalLength:     raw.DataPhysicalLength,
		ResourceStartBlock:     raw.ResourceStartBlock,
		ResourceLogicalLength:  raw.ResourceLogicalLength,
		ResourcePhysicalLength: raw.ResourcePhysicalLength,
		CreateDate:             types.MacTime(raw.CreateDate),
		ModifyDate:             types.MacTime(raw.ModifyDate),
		BackupDate:             types.MacTime(raw.BackupDate),
		ExtendedFinderInfo:     raw.FinderInfo,
		ClumpSize:              raw.ClumpSize,
		DataExtents:            extentRecordFromRaw(raw.DataExtents),
		ResourceExtents:        extentRecordFromRaw(raw.ResourceExtents),
	}, nil
}

func decodeThreadRecord(br *helpers.BinaryReader, kind types.CatalogRecordType) (*types.CatalogThread, error) {
	if err := br.Skip(2 + 8); err != nil {
		return nil, err
	}
	parentID, err := br.ReadUint32()
	if err != nil {
		return nil, err
	}
	name, err := br.ReadPascalField(32)
	if err != nil {
		return nil, err
	}
	return &types.CatalogThread{
		Kind:     kind,
		ParentID: types.NewCNID(parentID),
		Name:     name,
	}, nil
}

// decodeIndexRecord decodes one index node record at the cursor
func decodeIndexRecord(br *helpers.BinaryReader) (types.CatalogIndexRecord, error) {
	key, err := readCatalogKey(br)
	if err != nil {
		return types.CatalogIndexRecord{}, err
	}
	child, err := br.ReadUint32()
	if err != nil {
		return types.CatalogIndexRecord{}, err
	}
	return types.CatalogIndexRecord{
		ParentID: key.parentID,
		Name:     key.name,
		Child:    child,
	}, nil
}

func extentRecordFromRaw(raw [6]uint16) types.ExtentRecord {
	var rec types.ExtentRecord
	for i := range rec {
		rec[i] = types.ExtentDescriptor{StartBlock: raw[2*i], BlockCount: raw[2*i+1]}
	}
	return rec
}
