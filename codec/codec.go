// Package codec implements the eight on-disk storage formats a gt3 chunk
// body can carry: UR4/UR8 (dense, unquantized), URC1/URC2 (16-bit linear
// packing with per-plane power-of-ten/power-of-two factors), URX/URY (auto-scaled N-bit linear
// quantization, dense per z-plane), and MR4/MR8/MRX/MRY (the masked
// counterparts, which compact out missing values before storage). Grounded
// on the original library's write.c (the format dispatch table in
// GT3_write) and its decode counterparts spread across read_urx.c,
// read_ury.c, read_urc.c and varbuf.c.
package codec

import (
	"io"

	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/format"
)

// Grid is one chunk body: nx*ny*nz samples in z-major, then y, then x
// order (the same layout GT3_write receives), plus the sentinel that marks
// a missing sample.
type Grid struct {
	Nx, Ny, Nz int
	Data       []float64
	Miss       float64
}

func (g Grid) zelem() int   { return g.Nx * g.Ny }
func (g Grid) nelems() int  { return g.Nx * g.Ny * g.Nz }
func (g Grid) zplane(z int) []float64 {
	ze := g.zelem()
	return g.Data[z*ze : (z+1)*ze]
}

// Encode writes g's body to w in the wire shape tag names. It does not
// write the container's 1024-byte header; callers write that separately
// via package header.
func Encode(w io.Writer, tag format.Tag, g Grid) error {
	if len(g.Data) != g.nelems() {
		return errs.Wrap(errs.ErrInvalidArgument, "grid has %d samples, want %d", len(g.Data), g.nelems())
	}

	switch tag.Family() {
	case format.UR4:
		return encodeUR4(w, g)
	case format.UR8:
		return encodeUR8(w, g)
	case format.URC1:
		return encodeURC(w, g, urc1)
	case format.URC:
		return encodeURC(w, g, urc2)
	case format.URX:
		return encodeURX(w, g, tag.Width())
	case format.URY:
		return encodeURY(w, g, tag.Width())
	case format.MR4:
		return encodeMR(w, g, 4)
	case format.MR8:
		return encodeMR(w, g, 8)
	case format.MRX:
		return encodeMRXY(w, g, tag.Width(), urxVariant)
	case format.MRY:
		return encodeMRXY(w, g, tag.Width(), uryVariant)
	default:
		return errs.Wrap(errs.ErrUnknownFormat, "family=%d", tag.Family())
	}
}

// Decode reads a chunk body of nx*ny*nz samples under format tag from r,
// whose current position must sit exactly at the first byte of the body
// (immediately after the header record).
func Decode(r io.ReadSeeker, tag format.Tag, nx, ny, nz int, miss float64) (Grid, error) {
	g := Grid{Nx: nx, Ny: ny, Nz: nz, Miss: miss}

	var err error
	switch tag.Family() {
	case format.UR4:
		g.Data, err = decodeUR4(r, g.nelems())
	case format.UR8:
		g.Data, err = decodeUR8(r, g.nelems())
	case format.URC1:
		g.Data, err = decodeURC(r, g, urc1)
	case format.URC:
		g.Data, err = decodeURC(r, g, urc2)
	case format.URX:
		g.Data, err = decodeURX(r, g, tag.Width())
	case format.URY:
		g.Data, err = decodeURY(r, g, tag.Width())
	case format.MR4:
		g.Data, err = decodeMR(r, g, 4)
	case format.MR8:
		g.Data, err = decodeMR(r, g, 8)
	case format.MRX:
		g.Data, err = decodeMRXY(r, g, tag.Width(), urxVariant)
	case format.MRY:
		g.Data, err = decodeMRXY(r, g, tag.Width(), uryVariant)
	default:
		return Grid{}, errs.Wrap(errs.ErrUnknownFormat, "family=%d", tag.Family())
	}
	if err != nil {
		return Grid{}, err
	}

	return g, nil
}
