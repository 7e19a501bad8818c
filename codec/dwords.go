package codec

import (
	"io"
	"math"

	"github.com/kjoti/gt3/record"
)

// writeDoubles writes vals as one dense record of big-endian float64
// words, used for the (offset, scale) dma pairs shared by URX/URY/MRX/MRY.
func writeDoubles(w io.Writer, vals []float64) error {
	raw := make([]uint64, len(vals))
	for i, v := range vals {
		raw[i] = math.Float64bits(v)
	}
	return record.WriteDwords(w, raw)
}

// readDoubles reads n float64 words starting at word offset skip within
// one dense record.
func readDoubles(r io.ReadSeeker, skip, n int) ([]float64, error) {
	raw := make([]uint64, n)
	if err := record.ReadDwords(r, skip, raw); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, u := range raw {
		out[i] = math.Float64frombits(u)
	}
	return out, nil
}
