package codec

import (
	"io"
	"math"

	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/internal/pool"
	"github.com/kjoti/gt3/record"
)

// encodeMR writes g as MR4 (width 4, float32 body) or MR8 (width 8,
// float64 body): a single non-missing count word, one combined bitmap
// spanning the whole chunk (nsets=1, unlike MRX/MRY's per-z-plane masks),
// and the compacted values in their original order with no quantization,
// matching write_mr4/write_mr8.
func encodeMR(w io.Writer, g Grid, width int) error {
	n := g.nelems()
	flags := presentFlags(g.Data, g.Miss)

	var cnt uint32
	for _, f := range flags {
		if f == 1 {
			cnt++
		}
	}
	if err := record.WriteWords(w, []uint32{cnt}); err != nil {
		return err
	}
	if err := writeMaskRecord(w, flags, n, 1); err != nil {
		return err
	}

	compact := make([]float64, 0, cnt)
	for _, v := range g.Data {
		if v != g.Miss {
			compact = append(compact, v)
		}
	}

	if width == 4 {
		words := make([]uint32, len(compact))
		for i, v := range compact {
			words[i] = math.Float32bits(float32(v))
		}
		return record.WriteWords(w, words)
	}
	return writeDoubles(w, compact)
}

// decodeMR is the inverse of encodeMR, matching read_MR4/read_MR8 (built
// from the writer's own record layout, not from GT3_loadMask's offset
// arithmetic, which disagrees with it by one record-frame pair).
func decodeMR(r io.ReadSeeker, g Grid, width int) ([]float64, error) {
	n := g.nelems()

	var cntBuf [1]uint32
	if err := record.ReadWords(r, 0, cntBuf[:]); err != nil {
		return nil, err
	}
	cnt := int(cntBuf[0])

	present, err := readMaskRecord(r, n, 1)
	if err != nil {
		return nil, err
	}
	pop := 0
	for _, f := range present {
		if f == 1 {
			pop++
		}
	}
	if pop != cnt {
		return nil, errs.Wrap(errs.ErrMaskPopulationMismatch, "count=%d bitmap=%d", cnt, pop)
	}

	var compact []float64
	if width == 4 {
		words := make([]uint32, cnt)
		if err := record.ReadWords(r, 0, words); err != nil {
			return nil, err
		}
		scratch, cleanup := pool.GetFloat64Slice(cnt)
		defer cleanup()
		for i, w := range words {
			scratch[i] = float64(math.Float32frombits(w))
		}
		compact = scratch
	} else {
		compact, err = readDoubles(r, 0, cnt)
		if err != nil {
			return nil, err
		}
	}

	out := make([]float64, n)
	i := 0
	for idx, f := range present {
		if f == 1 {
			out[idx] = compact[i]
			i++
		} else {
			out[idx] = g.Miss
		}
	}
	return out, nil
}
