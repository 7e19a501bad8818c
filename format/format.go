// Package format implements the DFMT format-tag encoding: an integer that
// packs the storage family (UR4, UR8, URC1, URC2, URX, MR4, MR8, MRX, URY,
// MRY) into its low 8 bits and, for the quantized families, the packed bit
// width N (1-31) into the bits above that. Grounded on the original
// library's file.c (GT3_format, the GT3_FMT_* family constants and
// GT3_FMT_MBIT width) and write.c (GT3_output_format's read/write asymmetry
// for the bare "URC" name).
package format

import (
	"strconv"
	"strings"

	"github.com/kjoti/gt3/errs"
)

// Family identifies a storage codec, independent of its packed bit width.
type Family uint8

const (
	UR4 Family = iota
	URC        // version 2
	URC1       // version 1, deprecated
	UR8
	URX
	MR4
	MR8
	MRX
	URY
	MRY
)

func (f Family) String() string {
	switch f {
	case UR4:
		return "UR4"
	case URC:
		return "URC2"
	case URC1:
		return "URC1"
	case UR8:
		return "UR8"
	case URX:
		return "URX"
	case MR4:
		return "MR4"
	case MR8:
		return "MR8"
	case MRX:
		return "MRX"
	case URY:
		return "URY"
	case MRY:
		return "MRY"
	default:
		return "?"
	}
}

// mbit is the bit width of the family field within a Tag, matching
// GT3_FMT_MBIT.
const mbit = 8

const familyMask = (1 << mbit) - 1

// Tag is the packed integer representation of a format: Family in the low
// 8 bits, quantization bit width (for URX/URY/MRX/MRY) in the bits above.
type Tag uint32

// NewTag builds a Tag for family with the given quantization width. width is
// ignored (and should be passed 0) for families that carry no width.
func NewTag(family Family, width uint) Tag {
	return Tag(uint32(family) | uint32(width)<<mbit)
}

// Family returns the storage family of t.
func (t Tag) Family() Family {
	return Family(uint32(t) & familyMask)
}

// Width returns the packed bit width of t. It is meaningless for families
// that do not carry one (UR4, UR8, URC, URC1, MR4, MR8).
func (t Tag) Width() uint {
	return uint(uint32(t) >> mbit)
}

// HasWidth reports whether family carries a per-file quantization width.
func (f Family) HasWidth() bool {
	switch f {
	case URX, URY, MRX, MRY:
		return true
	default:
		return false
	}
}

// IsMasked reports whether family stores its grid as a population bitmap
// plus a compacted value record (MR4, MR8, MRX, MRY), rather than one dense
// record per z-plane.
func (f Family) IsMasked() bool {
	switch f {
	case MR4, MR8, MRX, MRY:
		return true
	default:
		return false
	}
}

// String renders t back into its canonical on-disk DFMT spelling, e.g.
// "URX12". URC1 is the one family whose written spelling differs from its
// name: the deprecated version-1 encoding writes the bare string "URC"
// (matching GT3_output_format's write-side asymmetry; see Parse, which
// reads that same bare "URC" back as URC1).
func (t Tag) String() string {
	f := t.Family()
	if f == URC1 {
		return "URC"
	}
	if f.HasWidth() {
		return f.String() + strconv.Itoa(int(t.Width()))
	}
	return f.String()
}

var fixedNames = map[string]Family{
	"UR4":  UR4,
	"URC2": URC,
	"UI2":  URC1, // deprecated alias
	"UR8":  UR8,
	"MR4":  MR4,
	"MR8":  MR8,
}

// Parse decodes a DFMT string the way a reader must: the bare name "URC"
// means the deprecated version-1 encoding, for compatibility with files
// written by older tools that never learned about URC2 (matches
// GT3_format). Use ResolveForWrite for the opposite bias used when a new
// file is being created from a user-supplied format name.
func Parse(str string) (Tag, error) {
	if f, ok := fixedNames[str]; ok {
		return NewTag(f, 0), nil
	}
	if str == "URC" {
		return NewTag(URC1, 0), nil
	}

	if width, ok := stripWidth(str, "URX"); ok {
		return widthTag(URX, width)
	}
	if width, ok := stripWidth(str, "URY"); ok {
		return widthTag(URY, width)
	}
	if width, ok := stripWidth(str, "MRX"); ok {
		return widthTag(MRX, width)
	}
	if width, ok := stripWidth(str, "MRY"); ok {
		return widthTag(MRY, width)
	}

	return 0, errs.Wrap(errs.ErrUnknownFormat, "%s", str)
}

// ResolveForWrite decodes a user-supplied format name the way a writer
// must: the bare name "URC" is treated as the current version-2 encoding,
// while "URC1" must be spelled out explicitly to get the deprecated form
// (matches GT3_output_format).
func ResolveForWrite(str string) (Tag, error) {
	switch str {
	case "URC1":
		return NewTag(URC1, 0), nil
	case "URC":
		return NewTag(URC, 0), nil
	default:
		return Parse(str)
	}
}

func stripWidth(str, prefix string) (string, bool) {
	if !strings.HasPrefix(str, prefix) {
		return "", false
	}
	return str[len(prefix):], true
}

func widthTag(family Family, digits string) (Tag, error) {
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil || n > 31 {
		return 0, errs.Wrap(errs.ErrUnknownFormat, "%s%s", family, digits)
	}
	return NewTag(family, uint(n)), nil
}
