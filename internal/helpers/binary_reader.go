package helpers

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/deploymenttheory/go-macfs/internal/errs"
)

// BinaryReader reads big-endian fields from an in-memory structure. It
// keeps an explicit cursor so callers can peek, decode tentatively and then
// seek to a computed offset.
type BinaryReader struct {
	buf   *bytes.Reader
	order binary.ByteOrder
	base  int64
}

// NewBinaryReader creates a big-endian reader over data. base is added to
// offsets in error messages so they point into the volume.
func NewBinaryReader(data []byte, base int64) *BinaryReader {
	return &BinaryReader{
		buf:   bytes.NewReader(data),
		order: binary.BigEndian,
		base:  base,
	}
}

// Len returns the size of the underlying buffer
func (br *BinaryReader) Len() int64 {
	return br.buf.Size()
}

// Position returns the current cursor offset
func (br *BinaryReader) Position() int64 {
	pos, _ := br.buf.Seek(0, io.SeekCurrent)
	return pos
}

// Remaining returns the number of unread bytes
func (br *BinaryReader) Remaining() int {
	return br.buf.Len()
}

// SeekTo moves the cursor to an absolute offset
func (br *BinaryReader) SeekTo(offset int64) error {
	if offset < 0 || offset > br.buf.Size() {
		return errs.IO(io.ErrUnexpectedEOF, "seek to %d outside %d byte structure at %#x", offset, br.buf.Size(), br.base)
	}
	_, err := br.buf.Seek(offset, io.SeekStart)
	return err
}

// Skip advances the cursor by n bytes
func (br *BinaryReader) Skip(n int) error {
	return br.SeekTo(br.Position() + int64(n))
}

// AlignEven advances the cursor to the next even offset
func (br *BinaryReader) AlignEven() error {
	if br.Position()%2 != 0 {
		return br.Skip(1)
	}
	return nil
}

// Read reads a fixed-size value or slice of fixed-size values
func (br *BinaryReader) Read(data interface{}) error {
	pos := br.Position()
	if err := binary.Read(br.buf, br.order, data); err != nil {
		return errs.IO(err, "read at %#x", br.base+pos)
	}
	return nil
}

// ReadUint8 reads a uint8
func (br *BinaryReader) ReadUint8() (uint8, error) {
	var val uint8
	err := br.Read(&val)
	return val, err
}

// ReadInt8 reads an int8
func (br *BinaryReader) ReadInt8() (int8, error) {
	var val int8
	err := br.Read(&val)
	return val, err
}

// ReadUint16 reads a uint16
func (br *BinaryReader) ReadUint16() (uint16, error) {
	var val uint16
	err := br.Read(&val)
	return val, err
}

// ReadInt16 reads an int16
func (br *BinaryReader) ReadInt16() (int16, error) {
	var val int16
	err := br.Read(&val)
	return val, err
}

// ReadUint32 reads a uint32
func (br *BinaryReader) ReadUint32() (uint32, error) {
	var val uint32
	err := br.Read(&val)
	return val, err
}

// ReadBytes reads a slice of bytes with the specified length
func (br *BinaryReader) ReadBytes(length int) ([]byte, error) {
	pos := br.Position()
	buf := make([]byte, length)
	if _, err := io.ReadFull(br.buf, buf); err != nil {
		return nil, errs.IO(err, "read %d bytes at %#x", length, br.base+pos)
	}
	return buf, nil
}

// PeekBytes returns the next n bytes without advancing the cursor
func (br *BinaryReader) PeekBytes(n int) ([]byte, error) {
	pos := br.Position()
	buf, err := br.ReadBytes(n)
	if _, serr := br.buf.Seek(pos, io.SeekStart); serr != nil && err == nil {
		err = serr
	}
	return buf, err
}

// ReadPascalString reads a length-prefixed Mac Roman string
func (br *BinaryReader) ReadPascalString() (string, error) {
	n, err := br.ReadUint8()
	if err != nil {
		return "", err
	}
	raw, err := br.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return DecodeMacRoman(raw), nil
}

// ReadPascalField reads a Pascal string stored in a fixed-size field of
// fieldLen bytes including the length byte. Length bytes larger than the
// field are clipped.
func (br *BinaryReader) ReadPascalField(fieldLen int) (string, error) {
	raw, err := br.ReadBytes(fieldLen)
	if err != nil {
		return "", err
	}
	return PascalFieldString(raw), nil
}

// PascalFieldString decodes a Pascal string from a fixed-size field
func PascalFieldString(field []byte) string {
	if len(field) == 0 {
		return ""
	}
	n := int(field[0])
	if n > len(field)-1 {
		n = len(field) - 1
	}
	return DecodeMacRoman(field[1 : 1+n])
}
