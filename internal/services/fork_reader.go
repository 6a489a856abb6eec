package services

import (
	"io"

	"github.com/deploymenttheory/go-macfs/internal/allocation"
	"github.com/deploymenttheory/go-macfs/internal/errs"
)

// ForkReader reads one fork through its resolved runs. Reads are bounded
// to the fork's declared length.
type ForkReader struct {
	src    io.ReaderAt
	runs   []allocation.Run
	size   int64
	offset int64
}

// NewForkReader returns a reader over size bytes mapped by runs
func NewForkReader(src io.ReaderAt, runs []allocation.Run, size int64) *ForkReader {
	return &ForkReader{src: src, runs: runs, size: size}
}

// Size returns the fork length
func (fr *ForkReader) Size() int64 {
	return fr.size
}

// ReadAt implements io.ReaderAt. A read that reaches the end of the fork
// returns the remaining bytes with io.EOF.
func (fr *ForkReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errs.InvalidInput("negative offset: %d", off)
	}
	if off >= fr.size {
		return 0, io.EOF
	}

	want := p
	if remaining := fr.size - off; int64(len(want)) > remaining {
		want = want[:remaining]
	}

	n := 0
	for n < len(want) {
		pos := off + int64(n)
		run, ok := allocation.Locate(fr.runs, pos)
		if !ok {
			return n, errs.Corrupt("fork offset %d is not mapped", pos)
		}
		chunk := want[n:]
		if avail := run.End() - pos; int64(len(chunk)) > avail {
			chunk = chunk[:avail]
		}
		m, err := fr.src.ReadAt(chunk, run.Physical+pos-run.Logical)
		n += m
		if err != nil && m < len(chunk) {
			return n, err
		}
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Read implements io.Reader. Reading past the end returns 0, io.EOF.
func (fr *ForkReader) Read(p []byte) (int, error) {
	if fr.offset >= fr.size {
		return 0, io.EOF
	}

	n, err := fr.ReadAt(p, fr.offset)
	fr.offset += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// Seek implements io.Seeker
func (fr *ForkReader) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64

	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = fr.offset + offset
	case io.SeekEnd:
		newOffset = fr.size + offset
	default:
		return 0, errs.InvalidInput("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, errs.InvalidInput("negative offset: %d", newOffset)
	}

	fr.offset = newOffset
	return newOffset, nil
}
