package mfs

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/helpers"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// MaxFileNameLength is the longest file name an entry holds
const MaxFileNameLength = 255

// EntrySize returns the on-disk size of an entry with a name of nameLen
// bytes, padded to an even length
func EntrySize(nameLen int) int {
	n := types.MFSFileEntryFixedSize + 1 + nameLen
	return n + n%2
}

// DecodeFileDirectory decodes every used entry of the file directory.
// Entries never cross a 512-byte sector; a zero flags byte ends the
// entries of a sector.
func DecodeFileDirectory(data []byte) ([]*types.MFSFileEntry, error) {
	var entries []*types.MFSFileEntry

	for sector := 0; sector+types.SectorSize <= len(data); sector += types.SectorSize {
		buf := data[sector : sector+types.SectorSize]
		for pos := 0; pos < types.SectorSize; {
			if buf[pos] == 0 {
				break
			}
			if pos+types.MFSFileEntryFixedSize+1 > types.SectorSize {
				return nil, errs.Corrupt("file directory entry at sector offset %d crosses the sector boundary", sector+pos)
			}
			size := EntrySize(int(buf[pos+types.MFSFileEntryFixedSize]))
			if pos+size > types.SectorSize {
				return nil, errs.Corrupt("file directory entry at offset %d crosses the sector boundary", sector+pos)
			}

			entry, err := decodeFileEntry(buf[pos:pos+size], int64(sector+pos))
			if err != nil {
				return nil, err
			}
			if entry.Flags&types.MFSEntryUsed != 0 {
				entries = append(entries, entry)
			}
			pos += size
		}
	}

	return entries, nil
}

// decodeFileEntry decodes a single file directory entry
func decodeFileEntry(data []byte, base int64) (*types.MFSFileEntry, error) {
	br := helpers.NewBinaryReader(data, base)

	var raw struct {
		Flags              uint8
		Version            uint8
		Type               [4]byte
		Creator            [4]byte
		FinderFlags        uint16
		Location           types.Point
		Folder             int16
		FileNumber         uint32
		DataStartBlock     uint16
		DataLength         uint32
		DataAllocated      uint32
		ResourceStartBlock uint16
		ResourceLength     uint32
		ResourceAllocated  uint32
		CreateDate         uint32
		ModifyDate         uint32
	}
	if err := br.Read(&raw); err != nil {
		return nil, err
	}
	name, err := br.ReadPascalString()
	if err != nil {
		return nil, err
	}

	return &types.MFSFileEntry{
		Flags:   raw.Flags,
		Version: raw.Version,
		FinderInfo: types.FileInfo{
			Type:     raw.Type,
			Creator:  raw.Creator,
			Flags:    raw.FinderFlags,
			Location: raw.Location,
			Folder:   raw.Folder,
		},
		FileNumber:         raw.FileNumber,
		DataStartBlock:     raw.DataStartBlock,
		DataLength:         raw.DataLength,
		DataAllocated:      raw.DataAllocated,
		ResourceStartBlock: raw.ResourceStartBlock,
		ResourceLength:     raw.ResourceLength,
		ResourceAllocated:  raw.ResourceAllocated,
		CreateDate:         types.MacTime(raw.CreateDate),
		ModifyDate:         types.MacTime(raw.ModifyDate),
		Name:               name,
	}, nil
}

// EncodeFileEntry serialises one entry, padded to an even length
func EncodeFileEntry(e *types.MFSFileEntry) ([]byte, error) {
	name, err := helpers.EncodePascalString(e.Name, MaxFileNameLength)
	if err != nil {
		return nil, err
	}

	data := make([]byte, EntrySize(len(name)-1))
	be := binary.BigEndian
	data[0] = e.Flags
	data[1] = e.Version
	copy(data[2:6], e.FinderInfo.Type[:])
	copy(data[6:10], e.FinderInfo.Creator[:])
	be.PutUint16(data[10:12], e.FinderInfo.Flags)
	be.PutUint16(data[12:14], uint16(e.FinderInfo.Location.V))
	be.PutUint16(data[14:16], uint16(e.FinderInfo.Location.H))
	be.PutUint16(data[16:18], uint16(e.FinderInfo.Folder))
	be.PutUint32(data[18:22], e.FileNumber)
	be.PutUint16(data[22:24], e.DataStartBlock)
	be.PutUint32(data[24:28], e.DataLength)
	be.PutUint32(data[28:32], e.DataAllocated)
	be.PutUint16(data[32:34], e.ResourceStartBlock)
	be.PutUint32(data[34:38], e.ResourceLength)
	be.PutUint32(data[38:42], e.ResourceAllocated)
	be.PutUint32(data[42:46], uint32(e.CreateDate))
	be.PutUint32(data[46:50], uint32(e.ModifyDate))
	copy(data[types.MFSFileEntryFixedSize:], name)
	return data, nil
}

// EncodeFileDirectory lays entries out over sectors sectors. An entry that
// does not fit in the rest of a sector starts the next one.
func EncodeFileDirectory(entries []*types.MFSFileEntry, sectors int) ([]byte, error) {
	data := make([]byte, sectors*types.SectorSize)
	sector, pos := 0, 0

	for _, e := range entries {
		raw, err := EncodeFileEntry(e)
		if err != nil {
			return nil, err
		}
		if raw[0] == 0 {
			return nil, errs.InvalidInput("file %q has no flags set", e.Name)
		}
		if pos+len(raw) > types.SectorSize {
			sector, pos = sector+1, 0
		}
		if sector >= sectors {
			return nil, errs.NoSpace("file directory of %d sectors is full", sectors)
		}
		copy(data[sector*types.SectorSize+pos:], raw)
		pos += len(raw)
	}

	return data, nil
}
