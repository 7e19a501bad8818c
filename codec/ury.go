package codec

import "io"

// encodeURY/decodeURY implement the URY family: dense per-z-plane
// auto-scaled quantization where the stored dma[1] dword is the per-step
// scale directly, matching write_ury/read_URY. URY supersedes URX in the
// original library but the container format keeps both as distinct wire
// formats, so both are preserved here bit-for-bit.
func encodeURY(w io.Writer, g Grid, nbits uint) error {
	return encodeDense(w, g, nbits, uryVariant)
}

func decodeURY(r io.ReadSeeker, g Grid, nbits uint) ([]float64, error) {
	return decodeDense(r, g, nbits, uryVariant)
}
