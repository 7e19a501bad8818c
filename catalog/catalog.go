// Package catalog implements a virtual concatenation of gt3 container
// files: a single chunk-index space spanning an ordered list of paths, at
// most one of which has an open file handle at any moment. Grounded on
// the original library's vcat.c (GT3_newVCatFile, GT3_vcatFile,
// select_file, GT3_setVarbuf_VF, GT3_numChunk_VF).
package catalog

import (
	"context"

	"github.com/kjoti/gt3/chunkfile"
	"github.com/kjoti/gt3/errs"
	"golang.org/x/sync/errgroup"
)

// Catalog is an ordered list of container paths addressed as one
// contiguous chunk index space. Not safe for concurrent use from multiple
// goroutines (matches the single-threaded-per-handle invariant the
// navigator itself carries).
type Catalog struct {
	paths []string
	index []int // prefix sums: index[i] is the first global chunk index of paths[i]; len(index) == len(paths)+1

	opened  int // index into paths of the currently open file, or -1
	current *chunkfile.File
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{index: []int{0}, opened: -1}
}

// Add appends path to the catalog, opening it just long enough to count
// its chunks via chunkfile.CountChunks, matching GT3_vcatFile.
func (c *Catalog) Add(path string) error {
	n, err := chunkfile.CountChunks(path)
	if err != nil {
		return err
	}

	c.paths = append(c.paths, path)
	c.index = append(c.index, c.index[len(c.index)-1]+n)
	return nil
}

// PrefetchHeaders counts the chunks of every path in paths concurrently
// via errgroup, then appends them to the catalog in the given order
// (not the order in which they finish), before any file in the catalog
// has been opened for reading. Supplements Add for a batch of paths known
// up front, grounded on the domain stack's errgroup pairing with the
// virtual catalog (SPEC_FULL.md §4.9).
func (c *Catalog) PrefetchHeaders(ctx context.Context, paths []string) error {
	if c.opened >= 0 {
		return errs.Wrap(errs.ErrInvalidArgument, "PrefetchHeaders: catalog already has an open file")
	}

	counts := make([]int, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			n, err := chunkfile.CountChunks(p)
			if err != nil {
				return err
			}
			counts[i] = n
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, p := range paths {
		c.paths = append(c.paths, p)
		c.index = append(c.index, c.index[len(c.index)-1]+counts[i])
	}
	return nil
}

// NumChunks returns the catalog's total chunk count across every path,
// matching GT3_numChunk_VF.
func (c *Catalog) NumChunks() int {
	return c.index[len(c.index)-1]
}

// Close releases the currently open file handle, if any.
func (c *Catalog) Close() error {
	if c.opened < 0 {
		return nil
	}
	err := c.current.Close()
	c.opened = -1
	c.current = nil
	return err
}

// selectFile ensures the file owning global chunk index tpos is open and
// seeked to its corresponding local chunk, matching select_file: a
// within-file move delegates to the already-open navigator, a cross-file
// move closes the old handle and opens the new one.
func (c *Catalog) selectFile(tpos int) (*chunkfile.File, error) {
	if tpos < 0 || tpos >= c.NumChunks() {
		return nil, errs.Wrap(errs.ErrIndexOutOfRange, "catalog: chunk %d", tpos)
	}

	i := c.fileOf(tpos)

	if i != c.opened {
		cf, err := chunkfile.Open(c.paths[i])
		if err != nil {
			return nil, err
		}
		if c.opened >= 0 {
			c.current.Close()
		}
		c.opened = i
		c.current = cf
	}

	local := tpos - c.index[i]
	if err := c.current.Seek(local, chunkfile.SeekStart); err != nil {
		return nil, err
	}
	return c.current, nil
}

// fileOf returns the index into paths owning global chunk index tpos, via
// a linear scan of the prefix-sum index (mirroring select_file's own
// linear scan; the file count in a typical catalog is small enough that a
// binary search buys nothing worth the extra code).
func (c *Catalog) fileOf(tpos int) int {
	for i := 0; i < len(c.paths); i++ {
		if tpos >= c.index[i] && tpos < c.index[i+1] {
			return i
		}
	}
	return -1
}

// File returns the navigator positioned at global chunk index tpos,
// opening or switching the underlying file as needed. The returned
// *chunkfile.File is owned by the catalog and is only valid until the
// next call to File or Close.
func (c *Catalog) File(tpos int) (*chunkfile.File, error) {
	return c.selectFile(tpos)
}

// Varbuf returns a Varbuf attached to the file owning global chunk index
// tpos, reattaching v (if non-nil) rather than allocating a new one,
// matching GT3_setVarbuf_VF's reuse of its caller-supplied GT3_Varbuf.
func (c *Catalog) Varbuf(v *chunkfile.Varbuf, tpos int) (*chunkfile.Varbuf, error) {
	cf, err := c.selectFile(tpos)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return chunkfile.GetVarbuf(cf)
	}
	if err := v.Reattach(cf); err != nil {
		return nil, err
	}
	return v, nil
}
