package codec

import (
	"io"

	"github.com/kjoti/gt3/internal/bitpack"
	"github.com/kjoti/gt3/record"
)

// packMaskWords packs a run of present/absent flags (1 = present) into the
// on-disk MSB-first bitmap convention, matching mask.c's getbit
// (mask[i>>5] >> (31-(i&31)) & 1): bitpack.Pack at width 1 produces exactly
// this layout, since it is the same left-justified-bit scheme the original
// library's own pack_bools_into32 uses.
func packMaskWords(present []uint32) ([]uint32, error) {
	return bitpack.Pack(present, 1)
}

func unpackMaskWords(packed []uint32, n int) ([]uint32, error) {
	return bitpack.Unpack(packed, n, 1)
}

// presentFlags builds the 0/1 flag array write_mask's get_flag_for_mask
// derives from the raw samples: 1 where the sample is not the missing
// value, 0 where it is.
func presentFlags(vals []float64, miss float64) []uint32 {
	out := make([]uint32, len(vals))
	for i, v := range vals {
		if v != miss {
			out[i] = 1
		}
	}
	return out
}

// writeMaskRecord writes one combined record of nsets back-to-back
// per-plane bitmaps, matching write_mask (common to MR4, MR8, and MRX/MRY,
// the only difference being nsets: 1 for the whole-chunk MR4/MR8 mask, nz
// for the per-z-plane MRX/MRY masks).
func writeMaskRecord(w io.Writer, present []uint32, planeLen, nsets int) error {
	all := make([]uint32, 0, planeLen*nsets/32+nsets)
	for s := 0; s < nsets; s++ {
		packed, err := packMaskWords(present[s*planeLen : (s+1)*planeLen])
		if err != nil {
			return err
		}
		all = append(all, packed...)
	}
	return record.WriteWords(w, all)
}

// readMaskRecord reads the same layout back and unpacks every plane's
// flags, returning one combined []uint32 of length planeLen*nsets.
func readMaskRecord(r io.ReadSeeker, planeLen, nsets int) ([]uint32, error) {
	wordsPerPlane := bitpack.Len(planeLen, 1)

	raw := make([]uint32, wordsPerPlane*nsets)
	if err := record.ReadWords(r, 0, raw); err != nil {
		return nil, err
	}

	out := make([]uint32, 0, planeLen*nsets)
	for s := 0; s < nsets; s++ {
		plane, err := unpackMaskWords(raw[s*wordsPerPlane:(s+1)*wordsPerPlane], planeLen)
		if err != nil {
			return nil, err
		}
		out = append(out, plane...)
	}
	return out, nil
}
