// Package bitpack packs and unpacks streams of N-bit unsigned values
// (1 <= N <= 31) into 32-bit words, most-significant-bit first, with zero
// padding in the last word. It is grounded on the original library's
// int_pack.c (pack_bits_into32/unpack_bits_from32/pack32_len) but expressed
// as a left-justified uint64 bit accumulator in the style of the teacher
// repo's Gorilla float encoder (a 64-bit accumulator plus a valid-bit
// count, flushed to the output in 32-bit words), rather than a direct
// transliteration of the source's pointer arithmetic.
package bitpack

import "github.com/kjoti/gt3/errs"

// Len returns the number of 32-bit words needed to pack n values of width
// nbit, using the overflow-avoiding formula from pack32_len: split n into a
// multiple of 32 plus a remainder before multiplying by nbit.
func Len(n int, nbit uint) int {
	whole := n / 32
	rem := n - whole*32

	return int(nbit)*whole + (int(nbit)*rem+31)/32
}

// Pack packs values (each truncated to its low nbit bits) into a newly
// allocated []uint32 of length Len(len(values), nbit).
func Pack(values []uint32, nbit uint) ([]uint32, error) {
	if nbit == 0 || nbit > 31 {
		return nil, errs.Wrap(errs.ErrBitWidthOutOfRange, "nbit=%d", nbit)
	}

	out := make([]uint32, 0, Len(len(values), nbit))
	var w writer
	for _, v := range values {
		w.push(v, nbit)
	}
	out = append(out, w.flush()...)

	return out, nil
}

// Unpack unpacks n values of width nbit from packed.
func Unpack(packed []uint32, n int, nbit uint) ([]uint32, error) {
	if nbit == 0 || nbit > 31 {
		return nil, errs.Wrap(errs.ErrBitWidthOutOfRange, "nbit=%d", nbit)
	}

	out := make([]uint32, n)
	r := reader{in: packed}
	for i := 0; i < n; i++ {
		out[i] = r.pull(nbit)
	}

	return out, nil
}

// writer is a left-justified bit accumulator: the nbits valid bits occupy
// the top of acc (bits 63 down to 64-nbits). Pushing a width-w value
// MSB-first shifts it into place just below the current valid bits.
type writer struct {
	out   []uint32
	acc   uint64
	nbits uint
}

func (w *writer) push(value uint32, width uint) {
	mask := uint32(1)<<width - 1
	v := value & mask

	w.acc |= uint64(v) << (64 - w.nbits - width)
	w.nbits += width

	for w.nbits >= 32 {
		w.out = append(w.out, uint32(w.acc>>32))
		w.acc <<= 32
		w.nbits -= 32
	}
}

func (w *writer) flush() []uint32 {
	if w.nbits > 0 {
		w.out = append(w.out, uint32(w.acc>>32))
		w.acc = 0
		w.nbits = 0
	}

	return w.out
}

// reader mirrors writer: acc holds up to 64 valid bits, left-justified, and
// refills 32 bits at a time from in as they're consumed.
type reader struct {
	in    []uint32
	pos   int
	acc   uint64
	nbits uint
}

func (r *reader) pull(width uint) uint32 {
	if r.nbits < width {
		var word uint32
		if r.pos < len(r.in) {
			word = r.in[r.pos]
			r.pos++
		}
		r.acc |= uint64(word) << (64 - r.nbits - 32)
		r.nbits += 32
	}

	value := uint32(r.acc >> (64 - width))
	r.acc <<= width
	r.nbits -= width

	return value
}
