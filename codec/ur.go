package codec

import (
	"io"
	"math"

	"github.com/kjoti/gt3/record"
)

// encodeUR4 writes g as a single dense record of big-endian float32
// values, matching write_ur4_via_float/write_ur4_via_double.
func encodeUR4(w io.Writer, g Grid) error {
	words := make([]uint32, len(g.Data))
	for i, v := range g.Data {
		words[i] = math.Float32bits(float32(v))
	}
	return record.WriteWords(w, words)
}

func decodeUR4(r io.ReadSeeker, n int) ([]float64, error) {
	words := make([]uint32, n)
	if err := record.ReadWords(r, 0, words); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, w := range words {
		out[i] = float64(math.Float32frombits(w))
	}
	return out, nil
}

// encodeUR8 writes g as a single dense record of big-endian float64
// values, matching write_ur8_via_float/write_ur8_via_double.
func encodeUR8(w io.Writer, g Grid) error {
	words := make([]uint64, len(g.Data))
	for i, v := range g.Data {
		words[i] = math.Float64bits(v)
	}
	return record.WriteDwords(w, words)
}

func decodeUR8(r io.ReadSeeker, n int) ([]float64, error) {
	words := make([]uint64, n)
	if err := record.ReadDwords(r, 0, words); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, w := range words {
		out[i] = math.Float64frombits(w)
	}
	return out, nil
}
