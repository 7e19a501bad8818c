package codec

import "math"

// scalingParameters reconstructs the original library's scaling_parameters,
// whose definition is not present in any retrieved source file despite
// being called from both the URX and URY writers. Its contract is pinned
// down by its two call sites in write-urx.c/write-ury.c: given the
// non-missing extent [vmin, vmax] of a z-plane and the number of available
// quantization steps num, it must produce an (offset, scale) pair such
// that (v-offset)/scale lands in [0, num] for every v in [vmin, vmax],
// with vmin itself mapping to 0.
func scalingParameters(vmin, vmax float64, num int) (offset, scale float64) {
	offset = vmin
	if vmax > vmin {
		scale = (vmax - vmin) / float64(num)
	}
	return offset, scale
}

// findExtent scans vals for its non-missing minimum and maximum, matching
// find_min_float/find_max_float (and their double counterparts) called
// together. ok is false when every sample is missing.
func findExtent(vals []float64, miss float64) (vmin, vmax float64, ok bool) {
	vmin, vmax = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if v == miss {
			continue
		}
		if v < vmin {
			vmin = v
		}
		if v > vmax {
			vmax = v
		}
		ok = true
	}
	return vmin, vmax, ok
}

// quantize maps v onto a code in [0, imiss-1], or imiss itself if v is
// missing, matching scaling()/scalingf(). The caller supplies 1/scale as
// iscale to match the source's single division-by-zero guard.
func quantize(v, miss, offset, iscale float64, imiss uint32) uint32 {
	if v == miss {
		return imiss
	}
	x := (v-offset)*iscale + 0.5
	switch {
	case x < 0:
		return 0
	case x > float64(imiss-1):
		return imiss - 1
	default:
		return uint32(x)
	}
}

// dequantize is the inverse of quantize, matching the shared
// "dma[0] + idata[i]*scale" reconstruction used by both URX's and URY's
// readers (only the scale each format stores on disk differs).
func dequantize(code, imiss uint32, offset, scale, miss float64) float64 {
	if code == imiss {
		return miss
	}
	return offset + float64(code)*scale
}

// zeroIndex finds an integer quantization level i that reconstructs to
// exact zero, matching read_ury.c's get_zero_index: i = round(-offset/scale)
// must land within the plane's real quantization levels (1..count) and the
// residual from substituting it back must fall within a 1e-7 relative
// tolerance of scale. ok is false when no such level exists.
func zeroIndex(offset, scale float64, count int) (idx uint32, ok bool) {
	if scale == 0 {
		return 0, false
	}
	i := math.Round(-offset / scale)
	if i < 1 || i > float64(count) {
		return 0, false
	}
	if math.Abs(offset+i*scale) >= 1e-7*math.Abs(scale) {
		return 0, false
	}
	return uint32(i), true
}

// dequantizeZero is read_ury.c's zero-preserving reconstruction, used in
// place of dequantize whenever zeroIndex finds a valid level: the decode
// drops the offset term entirely and centers on idx instead, so code==idx
// reconstructs to precisely 0.0.
func dequantizeZero(code, imiss, idx uint32, scale, miss float64) float64 {
	if code == imiss {
		return miss
	}
	return (float64(code) - float64(idx)) * scale
}

func invScale(scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return 1 / scale
}
