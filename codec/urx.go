package codec

import "io"

// encodeURX/decodeURX implement the URX family: dense per-z-plane
// auto-scaled quantization where the stored dma[1] dword is the total
// representable extent, matching write_urx/read_URX.
func encodeURX(w io.Writer, g Grid, nbits uint) error {
	return encodeDense(w, g, nbits, urxVariant)
}

func decodeURX(r io.ReadSeeker, g Grid, nbits uint) ([]float64, error) {
	return decodeDense(r, g, nbits, urxVariant)
}
