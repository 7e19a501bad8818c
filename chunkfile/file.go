package chunkfile

import (
	"io"
	"os"
	"strings"

	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/format"
	"github.com/kjoti/gt3/header"
	"github.com/kjoti/gt3/record"
)

const chunkCountUnknown = -1

// File navigates a gt3 container's sequence of chunks, one header plus one
// codec-dependent body each. It is not safe for concurrent use from
// multiple goroutines, matching the original library's single-threaded
// file handle.
type File struct {
	path string
	f    *os.File
	size int64

	curr     int
	off      int64
	numChunk int
	hist     bool

	tag    format.Tag
	dimlen [3]int
	chsize int64
}

// Open opens path and reads its first chunk's header, deriving the format
// tag, dimensions, and byte size of the first chunk.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	cf := &File{
		path:     path,
		f:        f,
		size:     st.Size(),
		numChunk: chunkCountUnknown,
	}

	if err := cf.update(); err != nil {
		f.Close()
		return nil, err
	}

	return cf, nil
}

// OpenHistory opens path as a history-file: a uniform sequence of
// identically-shaped chunks, letting Seek compute any target chunk's
// offset by multiplication instead of walking chunk by chunk. Fails if the
// file size is not an exact multiple of the first chunk's size.
func OpenHistory(path string) (*File, error) {
	cf, err := Open(path)
	if err != nil {
		return nil, err
	}

	if cf.size%cf.chsize != 0 {
		cf.Close()
		return nil, errs.Wrap(errs.ErrNotUniformFile, "%s", path)
	}

	cf.hist = true
	cf.numChunk = int(cf.size / cf.chsize)
	return cf, nil
}

// CountChunks opens path, walks every chunk to end-of-file, and returns
// the total chunk count, matching GT3_countChunk's own private handle.
func CountChunks(path string) (int, error) {
	cf, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer cf.Close()

	for !cf.Eof() {
		if err := cf.Next(); err != nil {
			return 0, err
		}
	}
	return cf.curr, nil
}

// Close releases the underlying file handle.
func (cf *File) Close() error {
	return cf.f.Close()
}

// Eof reports whether the navigator sits at end-of-file.
func (cf *File) Eof() bool {
	return cf.off == cf.size
}

// IsHistFile reports whether cf was opened via OpenHistory.
func (cf *File) IsHistFile() bool {
	return cf.hist
}

// Curr returns the current chunk index, 0-based.
func (cf *File) Curr() int {
	return cf.curr
}

// Format returns the current chunk's format tag.
func (cf *File) Format() format.Tag {
	return cf.tag
}

// Dims returns the current chunk's (nx, ny, nz).
func (cf *File) Dims() (nx, ny, nz int) {
	return cf.dimlen[0], cf.dimlen[1], cf.dimlen[2]
}

// Reader exposes the underlying file handle for package codec to decode a
// chunk body from, once Header has positioned it at the body's first byte.
func (cf *File) Reader() io.ReadSeeker {
	return cf.f
}

// Header reads the current chunk's header, leaving the underlying file
// positioned at the first byte of the chunk's body.
func (cf *File) Header() (*header.Header, error) {
	if _, err := cf.f.Seek(cf.off, io.SeekStart); err != nil {
		return nil, err
	}
	payload, err := record.ReadExactBytes(cf.f, header.Size)
	if err != nil {
		return nil, wrapBroken(cf.path, err)
	}
	h, err := header.Parse(payload)
	if err != nil {
		return nil, err
	}
	if !h.IsValid() {
		return nil, errs.Wrap(errs.ErrNotAContainer, "%s", cf.path)
	}
	return h, nil
}

// update reads the header at cf.off, derives the format/dims it describes,
// and computes the resulting chunk's byte size, refreshing cf's cached
// navigation fields. Grounded on file.c's update().
func (cf *File) update() error {
	h, err := cf.Header()
	if err != nil {
		return err
	}

	tag, dims, err := deriveLayout(h)
	if err != nil {
		return err
	}

	size, err := cf.bodySize(tag, dims)
	if err != nil {
		return err
	}

	cf.tag = tag
	cf.dimlen = dims
	cf.chsize = headerFrameSize + size
	return nil
}

// bodySize computes the current chunk's body size. For masked formats
// (content-dependent packed length) cf.f must already sit at the body's
// first byte, i.e. immediately after a call to Header.
func (cf *File) bodySize(tag format.Tag, dims [3]int) (int64, error) {
	if size, ok := fixedBodySize(tag, dims[0], dims[1], dims[2]); ok {
		return size, nil
	}
	return walkedBodySize(cf.f, tag)
}

func deriveLayout(h *header.Header) (format.Tag, [3]int, error) {
	dfmt, err := h.GetString("DFMT")
	if err != nil {
		return 0, [3]int{}, err
	}
	tag, err := format.Parse(strings.TrimSpace(dfmt))
	if err != nil {
		return 0, [3]int{}, err
	}

	var dims [3]int
	bounds := [][2]string{{"ASTR1", "AEND1"}, {"ASTR2", "AEND2"}, {"ASTR3", "AEND3"}}
	for i, b := range bounds {
		start, err := h.GetInt(b[0])
		if err != nil {
			return 0, [3]int{}, err
		}
		end, err := h.GetInt(b[1])
		if err != nil {
			return 0, [3]int{}, err
		}
		dims[i] = end - start + 1
		if dims[i] < 1 {
			return 0, [3]int{}, errs.Wrap(errs.ErrInvalidSlotValue, "dim %d: %d-%d", i, start, end)
		}
	}

	return tag, dims, nil
}

// Next advances to the following chunk. At end-of-file it is a no-op. If
// the next header is missing its magic, or the predicted chunk size would
// overrun the file, the navigator's position is left unchanged and an
// error is returned.
func (cf *File) Next() error {
	if cf.Eof() {
		return nil
	}

	nextoff := cf.off + cf.chsize

	savedOff, savedCurr, savedTag, savedDims, savedChsize := cf.off, cf.curr, cf.tag, cf.dimlen, cf.chsize

	if nextoff < cf.size {
		cf.off = nextoff
		if err := cf.update(); err != nil {
			cf.off, cf.curr, cf.tag, cf.dimlen, cf.chsize = savedOff, savedCurr, savedTag, savedDims, savedChsize
			cf.f.Seek(cf.off, io.SeekStart)
			return err
		}
		if nextoff+cf.chsize > cf.size {
			cf.off, cf.curr, cf.tag, cf.dimlen, cf.chsize = savedOff, savedCurr, savedTag, savedDims, savedChsize
			cf.f.Seek(cf.off, io.SeekStart)
			return errs.Wrap(errs.ErrChunkOverrunsFile, "%s: chunk %d", cf.path, cf.curr+1)
		}
	} else {
		cf.off = nextoff
	}

	cf.curr++
	if cf.Eof() {
		cf.numChunk = cf.curr
	}
	return nil
}

// Rewind returns the navigator to chunk 0.
func (cf *File) Rewind() error {
	cf.off = 0
	cf.curr = 0
	return cf.update()
}

// Whence values for Seek, mirroring io.Seek*.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Seek moves the navigator to an absolute, relative, or from-end chunk
// index. For a history file this is O(1); otherwise backward seeks rewind
// and walk forward, forward seeks walk chunk by chunk.
func (cf *File) Seek(dest int, whence int) error {
	switch whence {
	case SeekStart:
	case SeekCurrent:
		dest += cf.curr
	case SeekEnd:
		if cf.numChunk == chunkCountUnknown {
			cnt, err := CountChunks(cf.path)
			if err != nil {
				return err
			}
			cf.numChunk = cnt
		}
		dest += cf.numChunk
	}

	if dest < 0 || (cf.numChunk != chunkCountUnknown && dest > cf.numChunk) {
		return errs.Wrap(errs.ErrIndexOutOfRange, "Seek(%d)", dest)
	}

	if cf.hist {
		nextoff := int64(dest) * cf.chsize
		if _, err := cf.f.Seek(nextoff, io.SeekStart); err != nil {
			return err
		}
		cf.curr = dest
		cf.off = nextoff
		return nil
	}

	if dest < cf.curr {
		if err := cf.Rewind(); err != nil {
			return err
		}
	}

	for cf.curr < dest && !cf.Eof() {
		if err := cf.Next(); err != nil {
			return err
		}
	}
	if cf.curr != dest {
		return errs.Wrap(errs.ErrIndexOutOfRange, "Seek(%d)", dest)
	}

	_, err := cf.f.Seek(cf.off, io.SeekStart)
	return err
}

// SkipZ seeks the underlying file to the byte offset of z-plane z within
// the current chunk. Only the formats with a content-independent per-plane
// layout support this directly (UR4, UR8, URC, URC1, URX, URY); the masked
// formats have no fixed-function offset, matching the original zslice
// table's own scope.
func (cf *File) SkipZ(z int) error {
	if z < 0 || z >= cf.dimlen[2] {
		return errs.Wrap(errs.ErrIndexOutOfRange, "SkipZ(%d)", z)
	}

	rel, ok := zsliceOffset(cf.tag, cf.dimlen[0], cf.dimlen[1], cf.dimlen[2], z)
	if !ok {
		return errs.Wrap(errs.ErrInvalidArgument, "SkipZ: %s has no fixed per-plane offset", cf.tag)
	}

	_, err := cf.f.Seek(cf.off+rel, io.SeekStart)
	return err
}
