// Package axis generates and loads the coordinate arrays ("dims" in the
// original library) attached to a variable's spatial grid: built-in
// families computed in closed form (longitude, latitude, Gaussian
// latitude, a single-point surface marker, plain numbering) plus a
// file-backed fallback for anything else, searched through GTAX_PATH, the
// current directory, GTAXDIR, and a compile-time default directory.
// Grounded on the original library's gtdim.c (parse_axisname, make_glon,
// make_glat, make_ggla, make_sfc1, make_num, open_axisfile,
// open_axisfile2, GT3_getDim, GT3_loadDim).
package axis

import (
	"math"
	"strconv"
	"strings"

	"github.com/kjoti/gt3/errs"
)

// flag bits parsed from an axis name's optional suffix letters.
const (
	flagInvert = 1 << iota // "I": reverse point order
	flagMid                // "M": shift to cell midpoints
	flagSigned             // "C": centered [-180,180] range instead of [0,360]
)

// Axis is one spatial coordinate array: its name, sample values, the
// nominal lower/upper bound of the axis, whether it wraps around (cyclic
// longitude), and an optional human-readable title/unit pulled from a
// file-backed axis's header.
type Axis struct {
	Name   string
	Values []float64
	Lower  float64
	Upper  float64
	Cyclic bool
	Title  string
	Unit   string
}

// parsedName is the decomposition of an axis name into generator base,
// sample count, sub-division factor, and flag bits, matching
// parse_axisname. ok is false if any part of the suffix failed to parse
// (a well-formed base+length is still returned even then, matching the
// original's behavior of reporting a parse error without discarding what
// it already had).
type parsedName struct {
	base string
	len  int
	idiv int
	flag uint
	ok   bool
}

func parseName(name string) parsedName {
	name = strings.TrimLeft(name, " ")

	i := 0
	for i < len(name) && i < 16 && !isDigit(name[i]) {
		i++
	}
	p := parsedName{base: name[:i], len: 1, idiv: 1, ok: true}
	rest := name[i:]

	j := 0
	for j < len(rest) && isDigit(rest[j]) {
		j++
	}
	if j > 0 {
		n, err := strconv.Atoi(rest[:j])
		if err != nil {
			p.ok = false
		}
		p.len = n
		rest = rest[j:]
	}
	if p.len < 1 {
		p.ok = false
	}

	for len(rest) > 0 {
		switch {
		case rest[0] == 'x' && len(rest) > 1 && isDigit(rest[1]):
			rest = rest[1:]
			k := 0
			for k < len(rest) && isDigit(rest[k]) {
				k++
			}
			n, err := strconv.Atoi(rest[:k])
			if err != nil {
				p.ok = false
			}
			p.idiv = n
			rest = rest[k:]
		case rest[0] == 'I':
			p.flag |= flagInvert
			rest = rest[1:]
		case rest[0] == 'M':
			p.flag |= flagMid
			rest = rest[1:]
		case rest[0] == 'C':
			p.flag |= flagSigned
			rest = rest[1:]
		default:
			p.ok = false
			rest = rest[1:]
		}
	}
	return p
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// Get resolves name into an Axis, first trying the built-in generators and
// falling back to a file-backed lookup (see LoadFile) when the name does
// not parse into a recognized base or the generator rejects the parsed
// parameters. Matches GT3_getDim.
func Get(name string) (Axis, error) {
	p := parseName(name)

	if p.ok {
		if a, ok := builtin(p); ok {
			a.Name = name
			return a, nil
		}
	}
	return LoadFile(name)
}

func builtin(p parsedName) (Axis, bool) {
	switch p.base {
	case "GLON":
		return makeGlon(p.len, p.idiv, p.flag)
	case "GLAT":
		return makeGlat(p.len, p.idiv, p.flag)
	case "GGLA":
		return makeGgla(p.len, p.idiv, p.flag)
	case "SFC":
		return makeSfc1(p.len, p.idiv, p.flag)
	case "NUMBER", "":
		return makeNum(p.len, p.idiv, p.flag)
	default:
		return Axis{}, false
	}
}

// GetWeight resolves name into a weight array over the axis's samples.
// GLAT and GGLA weights sum to 1; GLON weights have one entry per sample
// including the cyclic end point, 360/n for each of the n cells and 0 for
// the end point, so they sum to 360. Any other name falls back to
// LoadWeightFile.
// Matches GT3_getDimWeight.
func GetWeight(name string) ([]float64, error) {
	p := parseName(name)

	if p.ok {
		switch p.base {
		case "GLON":
			return weightGlon(p.len, p.idiv), nil
		case "GLAT":
			return weightGlat(p.len, p.idiv, p.flag)
		case "GGLA":
			return weightGgla(p.len, p.idiv), nil
		}
	}
	return LoadWeightFile(name)
}

func invert(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

// uniformBnd fills n cell-boundary points evenly spaced between lo and hi
// inclusive, matching the original's uniform_bnd.
func uniformBnd(lo, hi float64, n int) []float64 {
	v := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range v {
		v[i] = lo + step*float64(i)
	}
	return v
}

// uniformCenter fills n cell-center points evenly spaced between lo and hi
// inclusive of the outermost cell centers, matching uniform_center.
func uniformCenter(lo, hi float64, n int) []float64 {
	v := make([]float64, n)
	step := (hi - lo) / float64(n)
	for i := range v {
		v[i] = lo + step*(float64(i)+0.5)
	}
	return v
}

func makeGlon(length, idiv int, flag uint) (Axis, bool) {
	mlen := length*idiv + 1
	lo, hi := 0.0, 360.0
	if flag&flagSigned != 0 {
		lo, hi = -180.0, 180.0
	}

	v := uniformBnd(lo, hi, mlen)
	if idiv > 1 {
		offset := (1 - 1/float64(idiv)) * 180 / float64(length)
		for i := range v {
			v[i] -= offset
		}
	}
	if flag&flagMid != 0 {
		delta := 180.0 / float64(length*idiv)
		for i := range v {
			v[i] += delta
		}
	}

	return Axis{
		Values: v,
		Lower:  lo,
		Upper:  hi,
		Cyclic: true,
		Title:  "longitude",
		Unit:   "degree",
	}, true
}

func makeGlat(length, idiv int, flag uint) (Axis, bool) {
	if idiv > 1 {
		return Axis{}, false
	}

	var v []float64
	if flag&flagMid == 0 && length%2 == 1 && length > 2 {
		v = uniformBnd(90, -90, length)
	} else {
		v = uniformCenter(90, -90, length)
	}
	if flag&flagInvert != 0 {
		invert(v)
	}

	return Axis{
		Values: v,
		Lower:  -90,
		Upper:  90,
		Title:  "latitude",
		Unit:   "degree",
	}, true
}

func makeGgla(length, idiv int, flag uint) (Axis, bool) {
	if flag&flagMid != 0 {
		return Axis{}, false
	}

	mlen := length * idiv
	grid, wght := gaussLegendre(length)

	if idiv > 1 {
		mosaic := make([]float64, mlen)
		latitudeMosaic(mosaic, wght, length, idiv)
		grid = mosaic
	} else {
		for i := range grid {
			grid[i] = muToLatitude(grid[i])
		}
	}

	// GGLA runs north to south, opposite mu's [-1, 1] orientation.
	if flag&flagInvert == 0 {
		invert(grid)
	}

	return Axis{
		Values: grid,
		Lower:  -90,
		Upper:  90,
		Title:  "latitude",
		Unit:   "degree",
	}, true
}

const twoOverPi = 0.63661977236758134308

func muToLatitude(mu float64) float64 {
	return 90 * (1 - math.Acos(mu)*twoOverPi)
}

// latitudeMosaic expands len Gauss-Legendre points into len*idiv interior
// mosaic points by interpolating between each pair of cell boundaries
// (the boundaries derived from the cumulative weights), matching
// latitude_mosaic.
func latitudeMosaic(grid, wght []float64, length, idiv int) {
	bnd := make([]float64, length+1)
	bnd[0] = -1
	bnd[length] = 1
	for i := 1; i < length/2; i++ {
		bnd[i] = bnd[i-1] + wght[i-1]
		bnd[length-i] = -bnd[i]
	}
	if length%2 == 0 {
		bnd[length/2] = 0
	}
	for i := range bnd {
		bnd[i] = muToLatitude(bnd[i])
	}

	rdiv := 1.0 / (2.0 * float64(idiv))
	for m := 0; m < idiv; m++ {
		coef := (2*float64(m) + 1) * rdiv
		for i := 0; i < length; i++ {
			grid[i*idiv+m] = (1-coef)*bnd[i] + coef*bnd[i+1]
		}
	}
}

func makeSfc1(length, idiv int, flag uint) (Axis, bool) {
	if length != 1 || idiv != 1 || flag != 0 {
		return Axis{}, false
	}
	return Axis{Values: []float64{1}}, true
}

func makeNum(length, idiv int, flag uint) (Axis, bool) {
	if idiv != 1 {
		return Axis{}, false
	}

	v := make([]float64, length)
	for i := range v {
		v[i] = float64(i)
	}
	if flag&flagMid != 0 {
		for i := range v {
			v[i] += 0.5
		}
	}
	lo, hi := v[0], v[length-1]
	if flag&flagInvert != 0 {
		invert(v)
	}
	return Axis{Values: v, Lower: lo, Upper: hi}, true
}

func weightGlon(length, idiv int) []float64 {
	n := length * idiv
	w := make([]float64, n+1)
	step := 360.0 / float64(n)
	for i := 0; i < n; i++ {
		w[i] = step
	}
	return w
}

func weightGgla(length, idiv int) []float64 {
	_, wght := gaussLegendre(length)
	w := make([]float64, length*idiv)
	fact := 0.5 / float64(idiv)
	for i := range w {
		w[i] = fact * wght[i/idiv]
	}
	return w
}

func weightGlat(length, idiv int, flag uint) ([]float64, error) {
	a, ok := makeGlat(length, idiv, flag)
	if !ok {
		return nil, errs.Wrap(errs.ErrUnknownAxisName, "GLAT weight: invalid parameters")
	}

	lat := a.Values
	n := len(lat)
	half := (n + 1) / 2

	bnd := make([]float64, half+1)
	fact := 0.5
	if lat[0] < lat[1] {
		fact = -0.5
	}
	for i := 1; i < half+1; i++ {
		bnd[i] = fact * (lat[i-1] + lat[i])
		bnd[i] = math.Pi / 180 * (90 - bnd[i])
	}

	w := make([]float64, n)
	for i := 0; i < half; i++ {
		w[i] = 0.5 * (math.Cos(bnd[i]) - math.Cos(bnd[i+1]))
	}
	for i := half; i < n; i++ {
		w[i] = w[n-1-i]
	}
	return w, nil
}
