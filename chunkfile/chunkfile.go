// Package chunkfile implements the chunk navigator: opening a gt3
// container, walking its sequence of fixed-position chunks (each one
// header plus one codec-dependent body), and a cached variable buffer that
// decodes a chunk's grid on demand. Grounded on the original library's
// file.c (GT3_open, update, chunk_size, zslice_offset, GT3_next, GT3_seek,
// GT3_skipZ, GT3_rewind, GT3_countChunk, GT3_openHistFile) and varbuf.c
// (GT3_getVarbuf, GT3_readVarZ/ZY, GT3_readVar, update_varbuf).
package chunkfile

import (
	"io"

	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/header"
)

// headerFrameSize is GT3_HEADER_SIZE + 2*sizeof(FTN_HEAD): the byte span of
// a chunk's header record including its record-frame prefix and suffix.
const headerFrameSize = int64(header.Size) + 8

// ftnHead is sizeof(fort_size_t): the width of one record-frame word.
const ftnHead = 4

func wrapBroken(path string, err error) error {
	return errs.Wrap(errs.ErrChunkOverrunsFile, "%s: %v", path, err)
}

// skipRecord reads one record's length prefix at r's current position,
// seeks past its payload and suffix, and returns the total number of bytes
// the record occupied (prefix+payload+suffix). Used to walk a chunk whose
// body size cannot be predicted from the header alone (the masked
// formats, whose packed length depends on how many samples are present).
func skipRecord(r io.ReadSeeker) (int64, error) {
	var lb [4]byte
	if _, err := io.ReadFull(r, lb[:]); err != nil {
		return 0, err
	}
	length := int64(lb[0])<<24 | int64(lb[1])<<16 | int64(lb[2])<<8 | int64(lb[3])
	if _, err := r.Seek(length+4, io.SeekCurrent); err != nil {
		return 0, err
	}
	return 4 + length + 4, nil
}
