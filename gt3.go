// Package gt3 provides convenient top-level wrappers around the chunkfile,
// catalog, and axis packages for reading gt3 scientific-data containers: a
// sequence of record-framed chunks, each one header plus one codec-encoded
// grid of samples.
//
// # Basic Usage
//
// Reading one chunk's grid together with the coordinate axes its header
// names:
//
//	r, err := gt3.Open("T.jan")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	grid, err := r.Grid()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d x %d x %d\n", grid.Item, grid.Nx, grid.Ny, grid.Nz)
//	fmt.Println(grid.Lon.Values, grid.Lat.Values)
//
// Concatenating a time-ordered run of container files into one chunk index
// space:
//
//	cat, err := gt3.OpenCatalog([]string{"T.jan", "T.feb", "T.mar"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cat.Close()
//
//	grid, err := cat.Grid(40) // chunk index 40 (0-based) across all three files
//
// # Package Structure
//
// This package is a thin convenience layer. For fine-grained chunk
// navigation, use package chunkfile directly; for multi-file concatenation,
// package catalog; for coordinate generation and lookup, package axis.
package gt3

import (
	"context"
	"strings"

	"github.com/kjoti/gt3/axis"
	"github.com/kjoti/gt3/catalog"
	"github.com/kjoti/gt3/chunkfile"
	"github.com/kjoti/gt3/internal/options"
)

// config holds the settings Option functions configure on a Reader or
// CatalogReader at construction time.
type config struct {
	skipAxes bool
}

// Option configures a Reader or CatalogReader built by Open, OpenHistory,
// OpenCatalog, or OpenCatalogConcurrent.
type Option = options.Option[*config]

// WithoutAxisResolution skips resolving AITM1/AITM2/AITM3 into coordinate
// arrays on every Grid call, leaving Grid.Lon/Lat/Lev zero-valued. Useful
// when a caller only wants the decoded samples: a file-backed axis name
// falls back to disk (see axis.LoadFile), work worth skipping when nothing
// reads Lon/Lat/Lev.
func WithoutAxisResolution() Option {
	return options.NoError[*config](func(c *config) { c.skipAxes = true })
}

func applyOptions(opts []Option) (*config, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Grid is one chunk's decoded samples together with the coordinate axes its
// header names and the descriptive slots (DSET, ITEM, TITLE, UNIT, DATE)
// carried alongside it.
type Grid struct {
	Dset  string
	Item  string
	Title string
	Unit  string
	Date  string

	Nx, Ny, Nz int
	Miss       float64
	Data       []float64

	Lon, Lat, Lev axis.Axis
}

// Value returns the sample at (x, y, z).
func (g Grid) Value(x, y, z int) float64 {
	return g.Data[z*g.Nx*g.Ny+y*g.Nx+x]
}

// Plane returns z-plane z as a slice into Data.
func (g Grid) Plane(z int) []float64 {
	n := g.Nx * g.Ny
	return g.Data[z*n : (z+1)*n]
}

// Reader wraps a *chunkfile.File with axis resolution, giving each Grid
// call the coordinate arrays its chunk's AITM1/AITM2/AITM3 slots name. This
// is gt3's analogue of a self-describing decoder: a convenient surface over
// the lower-level chunkfile package for the common case of reading a
// variable together with the axes that locate it in space.
type Reader struct {
	path     string
	cf       *chunkfile.File
	v        *chunkfile.Varbuf
	skipAxes bool
}

// Open opens path and attaches a decoder to its first chunk, matching
// GT3_open plus an eagerly attached GT3_Varbuf.
//
// Parameters:
//   - path: the container file to open
//   - opts: optional configuration (see WithoutAxisResolution)
//
// Returns:
//   - *Reader: positioned at the file's first chunk
//   - error: if path cannot be opened or its first header is malformed
func Open(path string, opts ...Option) (*Reader, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	cf, err := chunkfile.Open(path)
	if err != nil {
		return nil, err
	}
	v, err := chunkfile.GetVarbuf(cf)
	if err != nil {
		cf.Close()
		return nil, err
	}
	return &Reader{path: path, cf: cf, v: v, skipAxes: cfg.skipAxes}, nil
}

// OpenHistory opens path as a uniform history file, letting Seek locate a
// target chunk in constant time instead of walking chunk by chunk. See
// chunkfile.OpenHistory.
func OpenHistory(path string, opts ...Option) (*Reader, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	cf, err := chunkfile.OpenHistory(path)
	if err != nil {
		return nil, err
	}
	v, err := chunkfile.GetVarbuf(cf)
	if err != nil {
		cf.Close()
		return nil, err
	}
	return &Reader{path: path, cf: cf, v: v, skipAxes: cfg.skipAxes}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.cf.Close()
}

// Next advances to the following chunk.
func (r *Reader) Next() error {
	return r.cf.Next()
}

// Seek moves to an absolute, relative, or from-end chunk index; see
// chunkfile.File.Seek and its SeekStart/SeekCurrent/SeekEnd constants.
func (r *Reader) Seek(dest int, whence int) error {
	return r.cf.Seek(dest, whence)
}

// Dims returns the current chunk's (nx, ny, nz).
func (r *Reader) Dims() (nx, ny, nz int) {
	return r.cf.Dims()
}

// NumChunks walks the file once to count its total chunk count, matching
// GT3_countChunk.
func (r *Reader) NumChunks() (int, error) {
	return chunkfile.CountChunks(r.path)
}

// Grid decodes the current chunk and resolves the coordinate axes its
// AITM1/AITM2/AITM3 header slots name. An axis slot left blank resolves to
// a zero-value axis.Axis rather than an error, and WithoutAxisResolution
// skips the lookup entirely.
func (r *Reader) Grid() (Grid, error) {
	return buildGrid(r.v, r.skipAxes)
}

// CatalogReader is Reader's analogue over a catalog.Catalog: a single chunk
// index space spanning an ordered run of container files.
type CatalogReader struct {
	cat      *catalog.Catalog
	v        *chunkfile.Varbuf
	skipAxes bool
}

// OpenCatalog opens an ordered run of container files as one chunk index
// space, matching GT3_newVCatFile plus a GT3_vcatFile call per path.
func OpenCatalog(paths []string, opts ...Option) (*CatalogReader, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	for _, p := range paths {
		if err := cat.Add(p); err != nil {
			cat.Close()
			return nil, err
		}
	}
	return &CatalogReader{cat: cat, skipAxes: cfg.skipAxes}, nil
}

// OpenCatalogConcurrent is OpenCatalog for a batch of paths known up front,
// counting each path's chunks concurrently via catalog.PrefetchHeaders
// rather than one at a time.
func OpenCatalogConcurrent(ctx context.Context, paths []string, opts ...Option) (*CatalogReader, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	if err := cat.PrefetchHeaders(ctx, paths); err != nil {
		return nil, err
	}
	return &CatalogReader{cat: cat, skipAxes: cfg.skipAxes}, nil
}

// Close releases the catalog's currently open file handle, if any.
func (r *CatalogReader) Close() error {
	return r.cat.Close()
}

// NumChunks returns the catalog's total chunk count across every path.
func (r *CatalogReader) NumChunks() int {
	return r.cat.NumChunks()
}

// Grid decodes the chunk at global index tpos, opening or switching the
// underlying file as needed, and resolves its coordinate axes exactly as
// Reader.Grid does.
func (r *CatalogReader) Grid(tpos int) (Grid, error) {
	v, err := r.cat.Varbuf(r.v, tpos)
	if err != nil {
		return Grid{}, err
	}
	r.v = v
	return buildGrid(v, r.skipAxes)
}

func buildGrid(v *chunkfile.Varbuf, skipAxes bool) (Grid, error) {
	nx, ny, nz := v.Dims()

	data := make([]float64, nx*ny*nz)
	for z := 0; z < nz; z++ {
		plane, err := v.Plane(z)
		if err != nil {
			return Grid{}, err
		}
		copy(data[z*nx*ny:(z+1)*nx*ny], plane)
	}

	var lon, lat, lev axis.Axis
	if !skipAxes {
		var err error
		lon, err = resolveAxis(v, "AITM1")
		if err != nil {
			return Grid{}, err
		}
		lat, err = resolveAxis(v, "AITM2")
		if err != nil {
			return Grid{}, err
		}
		lev, err = resolveAxis(v, "AITM3")
		if err != nil {
			return Grid{}, err
		}
	}

	g := Grid{
		Nx:   nx,
		Ny:   ny,
		Nz:   nz,
		Miss: v.Miss(),
		Data: data,
		Lon:  lon,
		Lat:  lat,
		Lev:  lev,
	}
	g.Dset, _ = v.AttrString("DSET")
	g.Item, _ = v.AttrString("ITEM")
	g.Title, _ = v.AttrString("TITLE")
	g.Unit, _ = v.AttrString("UNIT")
	g.Date, _ = v.AttrString("DATE")
	return g, nil
}

func resolveAxis(v *chunkfile.Varbuf, key string) (axis.Axis, error) {
	name, err := v.AttrString(key)
	if err != nil {
		return axis.Axis{}, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return axis.Axis{}, nil
	}
	return axis.Get(name)
}

// ResolveAxis resolves name into a coordinate array, trying the built-in
// generators (GLON, GLAT, GGLA, SFC, NUMBER) before falling back to a
// file-backed lookup through GTAX_PATH/GTAXDIR. See axis.Get.
func ResolveAxis(name string) (axis.Axis, error) {
	return axis.Get(name)
}

// ResolveWeight resolves name into a quadrature weight array over its
// samples. See axis.GetWeight.
func ResolveWeight(name string) ([]float64, error) {
	return axis.GetWeight(name)
}
