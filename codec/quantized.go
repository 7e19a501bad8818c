package codec

import (
	"io"

	"github.com/kjoti/gt3/internal/bitpack"
	"github.com/kjoti/gt3/record"
)

// xyVariant captures the one genuine difference between the URX/MRX family
// and the URY/MRY family: what the on-disk dma[1] dword holds. URX/MRX
// store the total representable extent (per-step scale times the number of
// levels); URY/MRY store the per-step scale directly. Grounded on
// write-urx.c's get_urx_parameterf (which does "dma[1] *= num" after
// scaling_parameters) vs. write-ury.c's get_ury_parameterf (which does
// not), and on read_urx.c's read_urx_packed (which divides the stored
// value by imiss-1 to recover the per-step scale) vs. read_ury.c's
// read_ury_packed (which uses the stored value as-is).
type xyVariant struct {
	store    func(offset, perStep float64, num int) (storedOffset, storedScale float64)
	effScale func(stored float64, imiss uint32, forWrite bool) float64

	// zeroPreserving marks URY/MRY: read_ury.c additionally substitutes a
	// zero-centered decode when the scaling interval admits an exact
	// integer zero level, so a true 0.0 round-trips exactly. read_urx.c has
	// no equivalent branch, so URX/MRX never sets this.
	zeroPreserving bool
}

var urxVariant = xyVariant{
	store: func(offset, perStep float64, num int) (float64, float64) {
		return offset, perStep * float64(num)
	},
	effScale: func(stored float64, imiss uint32, forWrite bool) float64 {
		return stored * urxScale0(imiss, forWrite)
	},
}

var uryVariant = xyVariant{
	store: func(offset, perStep float64, num int) (float64, float64) {
		return offset, perStep
	},
	effScale: func(stored float64, imiss uint32, _ bool) float64 {
		return stored
	},
	zeroPreserving: true,
}

// levels returns the missing-value sentinel code and the number of
// quantization steps below it, matching write-urx.c's "num" (imiss-1
// wherever nbits leaves at least one real level).
func levels(nbits uint) (imiss uint32, num int) {
	imiss = uint32(1)<<nbits - 1
	num = int(imiss) - 1
	if num < 1 {
		num = 1
	}
	return
}

// urxScale0 mirrors write_urx's scale0 and read_urx_packed's matching
// guard: dividing the stored total extent by (imiss-1) is undefined when
// imiss==1 (a 1-bit format has no dynamic range at all), so both paths
// fall back to a fixed constant instead, and the constant differs between
// write (1, so the stored extent itself becomes the degenerate scale) and
// read (0, so every code dequantizes to the bare offset).
func urxScale0(imiss uint32, forWrite bool) float64 {
	if imiss != 1 {
		return 1 / float64(imiss-1)
	}
	if forWrite {
		return 1
	}
	return 0
}

func planeDMA(vals []float64, miss float64, num int, v xyVariant) (offset, stored float64) {
	vmin, vmax, ok := findExtent(vals, miss)
	if !ok {
		return 0, 0
	}
	po, ps := scalingParameters(vmin, vmax, num)
	return v.store(po, ps, num)
}

func quantizePlane(vals []float64, miss, offset, effScale float64, imiss uint32) []uint32 {
	iscale := invScale(effScale)
	out := make([]uint32, len(vals))
	for i, v := range vals {
		out[i] = quantize(v, miss, offset, iscale, imiss)
	}
	return out
}

// quantizeCompact is masked_scaling/masked_scalingf: every input value is
// already known to be present (missing samples were filtered out before
// compaction), so unlike quantizePlane there is no per-element miss check.
func quantizeCompact(vals []float64, offset, effScale float64, imiss uint32) []uint32 {
	iscale := invScale(effScale)
	out := make([]uint32, len(vals))
	for i, v := range vals {
		x := (v-offset)*iscale + 0.5
		switch {
		case x < 0:
			out[i] = 0
		case x > float64(imiss-1):
			out[i] = imiss - 1
		default:
			out[i] = uint32(x)
		}
	}
	return out
}

func dequantizePlane(codes []uint32, imiss uint32, offset, effScale, miss float64, v xyVariant, count int) []float64 {
	idx, ok := uint32(0), false
	if v.zeroPreserving {
		idx, ok = zeroIndex(offset, effScale, count)
	}

	out := make([]float64, len(codes))
	for i, c := range codes {
		if ok {
			out[i] = dequantizeZero(c, imiss, idx, effScale, miss)
		} else {
			out[i] = dequantize(c, imiss, offset, effScale, miss)
		}
	}
	return out
}

// encodeDense writes g as a dense (unmasked) quantized format: one
// (offset, dma) pair per z-plane followed by one packed record spanning
// every z-plane, matching write_urx/write_ury.
func encodeDense(w io.Writer, g Grid, nbits uint, v xyVariant) error {
	imiss, num := levels(nbits)

	nz := g.Nz
	dma := make([]float64, 2*nz)
	for z := 0; z < nz; z++ {
		dma[2*z], dma[2*z+1] = planeDMA(g.zplane(z), g.Miss, num, v)
	}
	if err := writeDoubles(w, dma); err != nil {
		return err
	}

	zelem := g.zelem()
	packedLen := bitpack.Len(zelem, nbits)
	all := make([]uint32, 0, packedLen*nz)

	for z := 0; z < nz; z++ {
		effScale := v.effScale(dma[2*z+1], imiss, true)
		codes := quantizePlane(g.zplane(z), g.Miss, dma[2*z], effScale, imiss)
		packed, err := bitpack.Pack(codes, nbits)
		if err != nil {
			return err
		}
		all = append(all, packed...)
	}

	return record.WriteWords(w, all)
}

// decodeDense is the inverse of encodeDense, matching read_URX/read_URY.
func decodeDense(r io.ReadSeeker, g Grid, nbits uint, v xyVariant) ([]float64, error) {
	imiss, num := levels(nbits)
	nz := g.Nz

	dma, err := readDoubles(r, 0, 2*nz)
	if err != nil {
		return nil, err
	}

	zelem := g.zelem()
	packedLen := bitpack.Len(zelem, nbits)
	all := make([]uint32, packedLen*nz)
	if err := record.ReadWords(r, 0, all); err != nil {
		return nil, err
	}

	out := make([]float64, 0, g.nelems())
	for z := 0; z < nz; z++ {
		codes, err := bitpack.Unpack(all[z*packedLen:(z+1)*packedLen], zelem, nbits)
		if err != nil {
			return nil, err
		}
		effScale := v.effScale(dma[2*z+1], imiss, false)
		out = append(out, dequantizePlane(codes, imiss, dma[2*z], effScale, g.Miss, v, num)...)
	}
	return out, nil
}
