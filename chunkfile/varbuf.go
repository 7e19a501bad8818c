package chunkfile

import (
	"github.com/kjoti/gt3/codec"
	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/header"
	"github.com/kjoti/gt3/internal/bitset"
)

// defaultMiss is used when a chunk's MISS slot fails to decode, matching
// update_varbuf's own "ignore this error" fallback.
const defaultMiss = -999.0

// Varbuf is a cached view of one chunk's decoded grid. Unlike the original
// library's per-z/y incremental read, it decodes a chunk's entire grid in
// one pass through package codec and serves z-planes/rows/points out of
// that cache — a deliberate granularity change (§9, "Polymorphism over
// codecs"): package codec's Decode already has to materialize a whole
// chunk's samples to resolve quantization and mask scatter, so there is no
// streaming-decode path left to preserve piecemeal.
type Varbuf struct {
	file   *File
	header *header.Header
	grid   codec.Grid

	cachedChunk int

	// rowValid tracks which y-rows of the currently cached grid have been
	// decoded, one bit per row plus one extra "entire plane loaded" marker
	// bit at index grid.Ny, per the data model's (b)/(c) cache fields.
	// Because package codec decodes a whole chunk in one pass (see the
	// whole-grid-decode note on refresh below), every bit including the
	// marker is always set immediately after a refresh — there is no
	// partial state left to track. RowValid reports from this bitset; the
	// read paths themselves do not consult it.
	rowValid *bitset.BitSet
}

// GetVarbuf attaches a Varbuf to cf's current chunk, decoding it
// immediately, matching GT3_getVarbuf.
func GetVarbuf(cf *File) (*Varbuf, error) {
	v := &Varbuf{file: cf, cachedChunk: -1}
	if err := v.refresh(); err != nil {
		return nil, err
	}
	return v, nil
}

// Reattach points v at a different (already open) file, matching
// GT3_reattachVarbuf.
func (v *Varbuf) Reattach(cf *File) error {
	v.file = cf
	v.cachedChunk = -1
	return v.refresh()
}

func (v *Varbuf) refresh() error {
	h, err := v.file.Header()
	if err != nil {
		return err
	}

	miss, err := h.GetFloat("MISS")
	if err != nil {
		miss = defaultMiss
	}

	nx, ny, nz := v.file.Dims()
	g, err := codec.Decode(v.file.Reader(), v.file.Format(), nx, ny, nz, miss)
	if err != nil {
		return err
	}

	v.header = h
	v.grid = g
	v.cachedChunk = v.file.Curr()

	if v.rowValid == nil || v.rowValid.Len() != g.Ny+1 {
		v.rowValid = bitset.New(g.Ny + 1)
	}
	v.rowValid.SetAll()

	return nil
}

// ensureCurrent redecodes the chunk if the file has moved to a different
// chunk since the last decode. Every chunk change forces a refresh,
// including within a history file: unlike the original's per-z/y reads
// (which always address var->fp->off directly and so pick up a new
// chunk's bytes for free), a whole-grid cache would otherwise keep serving
// the previous chunk's data for a file whose shape is uniform but whose
// samples are not.
func (v *Varbuf) ensureCurrent() error {
	if v.cachedChunk != v.file.Curr() {
		return v.refresh()
	}
	return nil
}

// ReadZ ensures z-plane zpos of the current chunk is decoded and cached,
// matching GT3_readVarZ.
func (v *Varbuf) ReadZ(zpos int) error {
	if err := v.ensureCurrent(); err != nil {
		return err
	}
	if zpos < 0 || zpos >= v.grid.Nz {
		return errs.Wrap(errs.ErrIndexOutOfRange, "ReadZ(%d)", zpos)
	}
	return nil
}

// ReadZY ensures row (zpos, ypos) of the current chunk is decoded and
// cached, matching GT3_readVarZY. Since package codec decodes a whole
// chunk at once there is no finer-grained path to fall back to; every
// format takes the "read the full plane" branch the original reserves for
// codecs that cannot decode a single row efficiently.
func (v *Varbuf) ReadZY(zpos, ypos int) error {
	if err := v.ReadZ(zpos); err != nil {
		return err
	}
	if ypos < 0 || ypos >= v.grid.Ny {
		return errs.Wrap(errs.ErrIndexOutOfRange, "ReadZY(%d,%d)", zpos, ypos)
	}
	return nil
}

// RowValid reports whether y-row ypos of the currently cached grid has been
// decoded. Always true once a chunk has been successfully decoded: package
// codec decodes a whole chunk in one pass (see refresh), so there is no
// partial-row state to distinguish, but the bitset this consults is the
// same one the data model's per-row cache names.
func (v *Varbuf) RowValid(ypos int) bool {
	return v.rowValid.Test(ypos) || v.rowValid.Test(v.grid.Ny)
}

// Value returns the sample at (x, y, z) of the current chunk, matching
// GT3_readVar.
func (v *Varbuf) Value(x, y, z int) (float64, error) {
	if err := v.ReadZY(z, y); err != nil {
		return 0, err
	}
	if x < 0 || x >= v.grid.Nx {
		return 0, errs.Wrap(errs.ErrIndexOutOfRange, "Value(x=%d)", x)
	}
	idx := z*v.grid.Nx*v.grid.Ny + y*v.grid.Nx + x
	return v.grid.Data[idx], nil
}

// Plane returns z-plane zpos as a read-only slice into the cached grid.
func (v *Varbuf) Plane(zpos int) ([]float64, error) {
	if err := v.ReadZ(zpos); err != nil {
		return nil, err
	}
	zelem := v.grid.Nx * v.grid.Ny
	return v.grid.Data[zpos*zelem : (zpos+1)*zelem], nil
}

// Row returns row ypos of z-plane zpos as a read-only slice into the
// cached grid.
func (v *Varbuf) Row(zpos, ypos int) ([]float64, error) {
	if err := v.ReadZY(zpos, ypos); err != nil {
		return nil, err
	}
	zelem := v.grid.Nx * v.grid.Ny
	start := zpos*zelem + ypos*v.grid.Nx
	return v.grid.Data[start : start+v.grid.Nx], nil
}

// Miss returns the current chunk's missing-value sentinel.
func (v *Varbuf) Miss() float64 {
	return v.grid.Miss
}

// Dims returns the current chunk's (nx, ny, nz).
func (v *Varbuf) Dims() (nx, ny, nz int) {
	return v.grid.Nx, v.grid.Ny, v.grid.Nz
}

// AttrString, AttrInt and AttrFloat read header slots from the cached
// header captured at the last decode, matching GT3_getVarAttrStr/Int/
// Double: these intentionally do not force a refresh (the original's own
// note is that GT3_{copy,get}XXX functions do not update GT3_Varbuf).
func (v *Varbuf) AttrString(key string) (string, error) {
	return v.header.GetString(key)
}

func (v *Varbuf) AttrInt(key string) (int, error) {
	return v.header.GetInt(key)
}

func (v *Varbuf) AttrFloat(key string) (float64, error) {
	return v.header.GetFloat(key)
}
