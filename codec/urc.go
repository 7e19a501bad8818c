package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/kjoti/gt3/record"
)

// urcIMiss/urcMaxAvail are URC's reserved 16-bit sentinel and the largest
// representable packed value below it, matching IMISS/MAX_AVAIL.
const (
	urcIMiss    = 65534
	urcMaxAvail = 65533
)

// urcVariant is the single difference between URC1 (deprecated, truncating)
// and URC2 (rounding): how a scaled value becomes a 16-bit code, and how a
// code is converted back, matching urc1_packing/urc1_unpack vs.
// urc2_packing/urc2_unpack.
type urcVariant struct {
	pack   func(x float64) uint32
	unpack func(ref, base, scal, code float64) float64
}

var urc1 = urcVariant{
	pack: func(x float64) uint32 { return uint32(int64(x)) },
	unpack: func(ref, base, scal, code float64) float64 {
		if ref != 0 {
			return (ref + (code+0.5)*base) * scal
		}
		d := code
		if code != 0 {
			d = code + 0.5
		}
		return d * base * scal
	},
}

var urc2 = urcVariant{
	pack: func(x float64) uint32 { return uint32(int64(math.Round(x))) },
	unpack: func(ref, base, scal, code float64) float64 {
		return (ref + code*base) * scal
	},
}

// calcURCParam picks the decimal-shift/binary-exponent pair (nd, ne) that
// packs [vmin, vmax] as tightly as possible into 16 bits, matching
// calc_urc_param/scalefac.
func calcURCParam(vals []float64, miss float64) (rmin, facE, facD float64, ne, nd int) {
	vmin, vmax, ok := findExtent(vals, miss)
	rmin = vmin
	facE, facD, ne, nd = math.Inf(1), 1.0, urcIMiss, 0
	if ok && vmax > vmin {
		ne, nd, facE, facD = scalefac(vmin, vmax)
	}
	return
}

func scalefac(rmin, rmax float64) (ne, nd int, facE, facD float64) {
	rdelta := math.Inf(1)
	for n := -16; n < 17; n++ {
		fac := math.Pow(10, float64(n))
		x := (rmax - rmin) * fac / urcMaxAvail
		e := math.Ilogb(x) + 1
		fe := math.Ldexp(1, e)
		r := fe / fac
		if r < rdelta {
			rdelta = r
			ne, nd, facE, facD = e, n, fe, fac
		}
	}
	return
}

// encodeURC writes g one z-plane at a time, matching write_urc_via_float/
// write_urc_via_double (which call write_urc_zslice per z-plane).
func encodeURC(w io.Writer, g Grid, variant urcVariant) error {
	for z := 0; z < g.Nz; z++ {
		if err := encodeURCPlane(w, g.zplane(z), g.Miss, variant); err != nil {
			return err
		}
	}
	return nil
}

func encodeURCPlane(w io.Writer, vals []float64, miss float64, variant urcVariant) error {
	rmin, facE, facD, ne, nd := calcURCParam(vals, miss)
	ref := rmin * facD

	if err := writeURCHeader(w, ref, nd, ne); err != nil {
		return err
	}

	n := len(vals)
	payload := make([]byte, 2*n)
	for i, v := range vals {
		code := uint16(urcIMiss)
		if v != miss {
			code = uint16(variant.pack(facD * (v - rmin) / facE))
		}
		binary.BigEndian.PutUint16(payload[2*i:], code)
	}

	return record.WriteBytes(w, payload)
}

func writeURCHeader(w io.Writer, ref float64, nd, ne int) error {
	var refBuf [8]byte
	binary.BigEndian.PutUint64(refBuf[:], math.Float64bits(ref))
	if err := record.WriteBytes(w, refBuf[:]); err != nil {
		return err
	}

	var ndBuf [4]byte
	binary.BigEndian.PutUint32(ndBuf[:], uint32(int32(nd)))
	if err := record.WriteBytes(w, ndBuf[:]); err != nil {
		return err
	}

	var neBuf [4]byte
	binary.BigEndian.PutUint32(neBuf[:], uint32(int32(ne)))
	return record.WriteBytes(w, neBuf[:])
}

func readURCHeader(r io.Reader) (ref float64, nd, ne int, err error) {
	var refBytes, ndBytes, neBytes []byte

	if refBytes, err = record.ReadBytes(r); err != nil {
		return
	}
	ref = math.Float64frombits(binary.BigEndian.Uint64(refBytes))

	if ndBytes, err = record.ReadBytes(r); err != nil {
		return
	}
	nd = int(int32(binary.BigEndian.Uint32(ndBytes)))

	if neBytes, err = record.ReadBytes(r); err != nil {
		return
	}
	ne = int(int32(binary.BigEndian.Uint32(neBytes)))

	return
}

// decodeURC is the inverse of encodeURC: one z-plane at a time, matching
// read_URC1/read_URC2 (both routed through the shared read_URCv).
func decodeURC(r io.ReadSeeker, g Grid, variant urcVariant) ([]float64, error) {
	ze := g.zelem()
	out := make([]float64, 0, g.nelems())

	for z := 0; z < g.Nz; z++ {
		plane, err := decodeURCPlane(r, g.Miss, ze, variant)
		if err != nil {
			return nil, err
		}
		out = append(out, plane...)
	}
	return out, nil
}

func decodeURCPlane(r io.ReadSeeker, miss float64, n int, variant urcVariant) ([]float64, error) {
	ref, nd, ne, err := readURCHeader(r)
	if err != nil {
		return nil, err
	}

	payload, err := record.ReadExactBytes(r, 2*n)
	if err != nil {
		return nil, err
	}

	base, scal := 0.0, 1.0
	if ne != urcIMiss {
		base = math.Ldexp(1, ne)
		scal = math.Pow(10, float64(-nd))
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		code := binary.BigEndian.Uint16(payload[2*i:])
		if code == urcIMiss {
			out[i] = miss
			continue
		}
		out[i] = variant.unpack(ref, base, scal, float64(code))
	}
	return out, nil
}
