package chunkfile

import (
	"io"

	"github.com/kjoti/gt3/format"
	"github.com/kjoti/gt3/internal/bitpack"
)

// maskedRecordCount is the number of Fortran records a masked chunk's body
// occupies after its header, matching write_mr4/write_mr8 (count, mask,
// compacted body) and write_mrx/write_mry (packed-length total, per-z
// count, per-z packed-length, per-z dma, per-z mask, packed body).
func maskedRecordCount(f format.Family) int {
	if f == format.MR4 || f == format.MR8 {
		return 3
	}
	return 6
}

// fixedBodySize returns the body's byte size (everything between the
// header frame and the next chunk's header) for the formats whose layout
// is a pure function of nx/ny/nz/width — every family except the masked
// ones, whose packed length depends on how many samples are present.
// Grounded on file.c's chunk_size, extended to URY (absent from the
// original table, sharing URX's wire shape exactly) since chunk_size only
// ever covered the formats that existed when it was written.
func fixedBodySize(tag format.Tag, nx, ny, nz int) (int64, bool) {
	nelem := int64(nx) * int64(ny) * int64(nz)
	zelem := int64(nx) * int64(ny)

	switch tag.Family() {
	case format.UR4:
		return 4*nelem + 2*ftnHead, true
	case format.UR8:
		return 8*nelem + 2*ftnHead, true
	case format.URC, format.URC1:
		return int64(nz) * (8 + 4 + 4 + 2*zelem + 8*ftnHead), true
	case format.URX, format.URY:
		plen := int64(bitpack.Len(int(zelem), tag.Width()))
		return 8*2*int64(nz) + 2*ftnHead + 4*plen*int64(nz) + 2*ftnHead, true
	default:
		return 0, false
	}
}

// walkedBodySize computes a masked chunk's body size by reading through
// its sequence of records from r (positioned at the first byte after the
// header frame), since the packed-value record's length is content-
// dependent and cannot be predicted from nx/ny/nz alone.
func walkedBodySize(r io.ReadSeeker, tag format.Tag) (int64, error) {
	var total int64
	for i := 0; i < maskedRecordCount(tag.Family()); i++ {
		n, err := skipRecord(r)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// zsliceOffset returns the byte offset, relative to the start of the
// chunk's header frame, of z-plane zpos's first data byte. Grounded on
// file.c's zslice_offset; like fixedBodySize, only meaningful for the
// formats whose per-plane layout does not depend on which samples are
// present (the masked formats have no such fixed-function offset, mirroring
// the original's own gap — there the switch only ever covered UR4, URC,
// URC1, UR8 and URX).
func zsliceOffset(tag format.Tag, nx, ny, nz, zpos int) (int64, bool) {
	zelem := int64(nx) * int64(ny)
	off := headerFrameSize

	switch tag.Family() {
	case format.UR4:
		return off + ftnHead + 4*zelem*int64(zpos), true
	case format.UR8:
		return off + ftnHead + 8*zelem*int64(zpos), true
	case format.URC, format.URC1:
		return off + int64(zpos)*(8+4+4+2*zelem+8*ftnHead), true
	case format.URX, format.URY:
		plen := int64(bitpack.Len(int(zelem), tag.Width()))
		off += 8*2*int64(nz) + 2*ftnHead // the whole DMA record
		off += ftnHead                  // the packed-body record's own prefix
		off += int64(zpos) * 4 * plen
		return off, true
	default:
		return 0, false
	}
}
