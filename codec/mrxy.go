package codec

import (
	"io"

	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/internal/bitpack"
	"github.com/kjoti/gt3/record"
)

// encodeMRXY writes g as the masked counterpart of a dense quantized
// format (MRX for URX, MRY for URY): a total-packed-word-count word, a
// per-z-plane non-missing count, a per-z-plane packed-word-length, a
// per-z-plane (offset, dma) pair, a per-z-plane population bitmap, and
// finally one packed record of the compacted, quantized values — matching
// write_mrx/write_mry.
func encodeMRXY(w io.Writer, g Grid, nbits uint, v xyVariant) error {
	imiss, num := levels(nbits)
	nz := g.Nz
	zelem := g.zelem()

	cnt := make([]uint32, nz)
	plen := make([]uint32, nz)
	dma := make([]float64, 2*nz)
	present := make([]uint32, 0, zelem*nz)

	for z := 0; z < nz; z++ {
		plane := g.zplane(z)
		flags := presentFlags(plane, g.Miss)
		present = append(present, flags...)

		n := 0
		for _, f := range flags {
			if f == 1 {
				n++
			}
		}
		cnt[z] = uint32(n)
		plen[z] = uint32(bitpack.Len(n, nbits))

		dma[2*z], dma[2*z+1] = planeDMA(plane, g.Miss, num, v)
	}

	var plenAll uint64
	for _, p := range plen {
		plenAll += uint64(p)
	}

	if err := record.WriteWords(w, []uint32{uint32(plenAll)}); err != nil {
		return err
	}
	if err := record.WriteWords(w, cnt); err != nil {
		return err
	}
	if err := record.WriteWords(w, plen); err != nil {
		return err
	}
	if err := writeDoubles(w, dma); err != nil {
		return err
	}
	if err := writeMaskRecord(w, present, zelem, nz); err != nil {
		return err
	}

	all := make([]uint32, 0, plenAll)
	for z := 0; z < nz; z++ {
		plane := g.zplane(z)
		compact := make([]float64, 0, cnt[z])
		for _, val := range plane {
			if val != g.Miss {
				compact = append(compact, val)
			}
		}

		effScale := v.effScale(dma[2*z+1], imiss, true)
		codes := quantizeCompact(compact, dma[2*z], effScale, imiss)
		packed, err := bitpack.Pack(codes, nbits)
		if err != nil {
			return err
		}
		all = append(all, packed...)
	}

	return record.WriteWords(w, all)
}

// decodeMRXY is the inverse of encodeMRXY, matching read_MRX/read_MRY:
// unpack each z-plane's compacted values, then scatter them back across
// the plane's population bitmap, filling the gaps with the missing value.
func decodeMRXY(r io.ReadSeeker, g Grid, nbits uint, v xyVariant) ([]float64, error) {
	imiss, num := levels(nbits)
	nz := g.Nz
	zelem := g.zelem()

	var plenAllBuf [1]uint32
	if err := record.ReadWords(r, 0, plenAllBuf[:]); err != nil {
		return nil, err
	}

	cnt := make([]uint32, nz)
	if err := record.ReadWords(r, 0, cnt); err != nil {
		return nil, err
	}
	plen := make([]uint32, nz)
	if err := record.ReadWords(r, 0, plen); err != nil {
		return nil, err
	}
	dma, err := readDoubles(r, 0, 2*nz)
	if err != nil {
		return nil, err
	}

	present, err := readMaskRecord(r, zelem, nz)
	if err != nil {
		return nil, err
	}

	var plenAll int
	for _, p := range plen {
		plenAll += int(p)
	}
	all := make([]uint32, plenAll)
	if err := record.ReadWords(r, 0, all); err != nil {
		return nil, err
	}

	out := make([]float64, 0, g.nelems())
	wordOff := 0
	for z := 0; z < nz; z++ {
		words := int(plen[z])
		codes, err := bitpack.Unpack(all[wordOff:wordOff+words], int(cnt[z]), nbits)
		if err != nil {
			return nil, err
		}
		wordOff += words

		effScale := v.effScale(dma[2*z+1], imiss, false)
		values := dequantizePlane(codes, imiss, dma[2*z], effScale, g.Miss, v, num)

		flags := present[z*zelem : (z+1)*zelem]
		pop := 0
		for _, f := range flags {
			if f == 1 {
				pop++
			}
		}
		if pop != int(cnt[z]) {
			return nil, errs.Wrap(errs.ErrMaskPopulationMismatch, "plane %d: count=%d bitmap=%d", z, cnt[z], pop)
		}
		plane := make([]float64, zelem)
		n := 0
		for i, f := range flags {
			if f == 1 {
				plane[i] = values[n]
				n++
			} else {
				plane[i] = g.Miss
			}
		}
		out = append(out, plane...)
	}
	return out, nil
}
