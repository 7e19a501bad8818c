// Package record implements the word-oriented record envelope that wraps
// every header and body in a gt3 container: a 32-bit big-endian byte-count
// prefix, the payload, and an identical suffix, mimicking a Fortran
// unformatted-sequential record. It is grounded on the original library's
// record.c (read_from_record, read_words_from_record,
// read_dwords_from_record, write_into_record, write_words_into_record,
// write_dwords_into_record).
package record

import (
	"io"

	"github.com/kjoti/gt3/endian"
	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/internal/pool"
)

// stagingSize mirrors record.c's IO_BUF_SIZE: writes stream through a
// fixed-size buffer instead of allocating one big byte-swapped copy of the
// payload, regardless of how large the record is.
const stagingSize = 64 * 1024

// order is the container's on-disk word order. A gt3 file is always
// big-endian regardless of host order, so every frame/word/dword helper in
// this file reads and writes through it.
var order = endian.GetBigEndianEngine()

// ReadFrame reads the 4-byte big-endian record length prefix at the
// reader's current position.
func ReadFrame(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return order.Uint32(b[:]), nil
}

// VerifySuffix reads the 4-byte big-endian suffix and checks it equals the
// length carried by the prefix, reporting errs.ErrRecordFrameMismatch
// otherwise (the original's "prefix disagrees with its suffix" broken-file
// condition).
func VerifySuffix(r io.Reader, length uint32) error {
	got, err := ReadFrame(r)
	if err != nil {
		return err
	}
	if got != length {
		return errs.Wrap(errs.ErrRecordFrameMismatch, "prefix=%d suffix=%d", length, got)
	}

	return nil
}

// ReadBytes reads one complete record (prefix, payload, suffix) and returns
// the payload.
func ReadBytes(r io.Reader) ([]byte, error) {
	length, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	if err := VerifySuffix(r, length); err != nil {
		return nil, err
	}

	return payload, nil
}

// ReadExactBytes reads one complete record and requires its payload length
// to equal want, reporting errs.ErrRecordLengthMismatch otherwise.
func ReadExactBytes(r io.Reader, want int) ([]byte, error) {
	length, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	if int(length) != want {
		return nil, errs.Wrap(errs.ErrRecordLengthMismatch, "want=%d got=%d", want, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	if err := VerifySuffix(r, length); err != nil {
		return nil, err
	}

	return payload, nil
}

// ReadWords reads one complete record as big-endian uint32 words, skipping
// the first `skip` words and filling dst with the next len(dst) words, then
// seeking past any remaining words and the suffix. r must support Seek so
// trailing words that the caller does not need are never copied into
// memory, matching read_words_from_record's skip+count-clamp contract.
func ReadWords(r io.ReadSeeker, skip int, dst []uint32) error {
	length, err := ReadFrame(r)
	if err != nil {
		return err
	}
	total := int(length) / 4
	if skip+len(dst) > total {
		return errs.Wrap(errs.ErrRecordLengthMismatch, "skip=%d want=%d total=%d", skip, len(dst), total)
	}

	if skip > 0 {
		if _, err := r.Seek(int64(skip)*4, io.SeekCurrent); err != nil {
			return err
		}
	}

	buf := make([]byte, len(dst)*4)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = order.Uint32(buf[i*4:])
	}

	remaining := total - skip - len(dst)
	if remaining > 0 {
		if _, err := r.Seek(int64(remaining)*4, io.SeekCurrent); err != nil {
			return err
		}
	}

	return VerifySuffix(r, length)
}

// ReadDwords is ReadWords at 8-byte width, used for the (offset, scale)
// dma pairs shared by URX/URY/MRX/MRY.
func ReadDwords(r io.ReadSeeker, skip int, dst []uint64) error {
	length, err := ReadFrame(r)
	if err != nil {
		return err
	}
	total := int(length) / 8
	if skip+len(dst) > total {
		return errs.Wrap(errs.ErrRecordLengthMismatch, "skip=%d want=%d total=%d", skip, len(dst), total)
	}

	if skip > 0 {
		if _, err := r.Seek(int64(skip)*8, io.SeekCurrent); err != nil {
			return err
		}
	}

	buf := make([]byte, len(dst)*8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = order.Uint64(buf[i*8:])
	}

	remaining := total - skip - len(dst)
	if remaining > 0 {
		if _, err := r.Seek(int64(remaining)*8, io.SeekCurrent); err != nil {
			return err
		}
	}

	return VerifySuffix(r, length)
}

// WriteBytes writes prefix + payload + suffix verbatim.
func WriteBytes(w io.Writer, payload []byte) error {
	var lb [4]byte
	order.PutUint32(lb[:], uint32(len(payload)))

	if _, err := w.Write(lb[:]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write(lb[:])

	return err
}

// WriteWords writes prefix + len(values)*4 big-endian bytes + suffix,
// streaming the byte-swap through a fixed-size staging buffer (a
// pool.ByteBuffer allocated once per call) so a record with
// millions of words never requires one giant intermediate allocation.
func WriteWords(w io.Writer, values []uint32) error {
	length := uint32(len(values)) * 4

	var lb [4]byte
	order.PutUint32(lb[:], length)
	if _, err := w.Write(lb[:]); err != nil {
		return err
	}

	staging := pool.NewByteBuffer(stagingSize)
	perWord := 4
	perChunk := stagingSize / perWord

	for start := 0; start < len(values); start += perChunk {
		end := start + perChunk
		if end > len(values) {
			end = len(values)
		}
		staging.Reset()
		for _, v := range values[start:end] {
			var b [4]byte
			order.PutUint32(b[:], v)
			staging.MustWrite(b[:])
		}
		if _, err := w.Write(staging.Bytes()); err != nil {
			return err
		}
	}

	_, err := w.Write(lb[:])

	return err
}

// WriteDwords is WriteWords at 8-byte width.
func WriteDwords(w io.Writer, values []uint64) error {
	length := uint32(len(values)) * 8

	var lb [4]byte
	order.PutUint32(lb[:], length)
	if _, err := w.Write(lb[:]); err != nil {
		return err
	}

	staging := pool.NewByteBuffer(stagingSize)
	perWord := 8
	perChunk := stagingSize / perWord

	for start := 0; start < len(values); start += perChunk {
		end := start + perChunk
		if end > len(values) {
			end = len(values)
		}
		staging.Reset()
		for _, v := range values[start:end] {
			var b [8]byte
			order.PutUint64(b[:], v)
			staging.MustWrite(b[:])
		}
		if _, err := w.Write(staging.Bytes()); err != nil {
			return err
		}
	}

	_, err := w.Write(lb[:])

	return err
}
