package axis

import (
	"math"
	"os"
	"strings"
	"sync"

	"github.com/kjoti/gt3/chunkfile"
	"github.com/kjoti/gt3/errs"
	"github.com/kjoti/gt3/internal/hash"
)

// DefaultDir is the last place searched for axis files when GTAX_PATH is
// unset (see resolvePath for the full search order). Exported so a caller
// can override the compile-time default without an environment variable.
var DefaultDir = "/usr/local/share/gt3"

const (
	envGtaxPath = "GTAX_PATH"
	envGtaxDir  = "GTAXDIR"
)

// resolveCache memoizes (name, kind) -> resolved path, keyed by
// xxhash.Sum64String, avoiding a repeated filesystem search for axes
// looked up many times within a process (e.g. once per opened file in a
// catalog). Grounded on §2.2's domain-stack note pairing xxhash with
// axis-file lookup.
var resolveCache sync.Map // map[uint64]string

func cacheKey(name, kind string) uint64 {
	return hash.ID(kind + ":" + name)
}

// resolvePath finds the on-disk path for a GTAXLOC.<name> or
// GTAXWGT.<name> file. When GTAX_PATH is set, only its colon-separated
// directories are searched; otherwise the current directory, then GTAXDIR,
// then DefaultDir are tried, matching open_axisfile. Returns "" if no
// candidate exists.
func resolvePath(name, kind string) string {
	key := cacheKey(name, kind)
	if v, ok := resolveCache.Load(key); ok {
		return v.(string)
	}

	path := searchPath(name, kind)
	resolveCache.Store(key, path)
	return path
}

func searchPath(name, kind string) string {
	if gtaxPath, ok := os.LookupEnv(envGtaxPath); ok {
		for _, dir := range strings.Split(gtaxPath, ":") {
			if dir == "" {
				continue
			}
			p := dir + "/" + kind + "." + name
			if fileExists(p) {
				return p
			}
		}
		return ""
	}

	p := kind + "." + name
	if fileExists(p) {
		return p
	}

	if gtaxDir, ok := os.LookupEnv(envGtaxDir); ok {
		p = gtaxDir + "/" + kind + "." + name
		if fileExists(p) {
			return p
		}
	}

	p = DefaultDir + "/" + kind + "." + name
	if fileExists(p) {
		return p
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadFile loads an axis from its GTAXLOC.<name> file, populating Title/
// Unit from the file's header and falling back to ±infinity bounds when
// DMIN/DMAX are blank, matching GT3_loadDim.
func LoadFile(name string) (Axis, error) {
	path := resolvePath(name, "GTAXLOC")
	if path == "" {
		return Axis{}, errs.Wrap(errs.ErrAxisFileNotFound, "%s", name)
	}

	cf, err := chunkfile.Open(path)
	if err != nil {
		return Axis{}, err
	}
	defer cf.Close()

	h, err := cf.Header()
	if err != nil {
		return Axis{}, err
	}

	v, err := chunkfile.GetVarbuf(cf)
	if err != nil {
		return Axis{}, err
	}

	nx, _, _ := v.Dims()
	plane, err := v.Plane(0)
	if err != nil {
		return Axis{}, err
	}
	values := make([]float64, nx)
	copy(values, plane[:nx])

	dset, _ := h.GetString("DSET")
	cyclic := strings.HasPrefix(dset, "C")

	miss := v.Miss()
	lower, upper := -math.Inf(1), math.Inf(1)
	if dmin, err := h.GetFloat("DMIN"); err == nil && dmin != miss {
		lower = dmin
	}
	if dmax, err := h.GetFloat("DMAX"); err == nil && dmax != miss {
		upper = dmax
	}

	title, _ := h.GetString("TITLE")
	unit, _ := h.GetString("UNIT")

	return Axis{
		Name:   name,
		Values: values,
		Lower:  lower,
		Upper:  upper,
		Cyclic: cyclic,
		Title:  strings.TrimSpace(title),
		Unit:   strings.TrimSpace(unit),
	}, nil
}

// LoadWeightFile loads a weight array from its GTAXWGT.<name> file,
// matching GT3_loadDimWeight.
func LoadWeightFile(name string) ([]float64, error) {
	path := resolvePath(name, "GTAXWGT")
	if path == "" {
		return nil, errs.Wrap(errs.ErrAxisFileNotFound, "%s", name)
	}

	cf, err := chunkfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer cf.Close()

	v, err := chunkfile.GetVarbuf(cf)
	if err != nil {
		return nil, err
	}

	nx, _, _ := v.Dims()
	plane, err := v.Plane(0)
	if err != nil {
		return nil, err
	}
	w := make([]float64, nx)
	copy(w, plane[:nx])
	return w, nil
}
