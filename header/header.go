// Package header implements the typed accessor layer over the container's
// fixed 1024-byte positional metadata block: 64 slots of 16 bytes each
// (one logical slot, TITLE, spans two physical slots). It is grounded on
// the original library's header.c (elemdict[], GT3_copyHeaderItem,
// GT3_decodeHeaderInt/Double, GT3_initHeader, GT3_setHeaderString/Int/
// Double, GT3_mergeHeader, GT3_copyHeader, GT3_getHeaderItemID), restyled
// after section.NumericHeader's byte-offset-annotated struct and
// Parse/Bytes round-trip methods.
package header

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kjoti/gt3/errs"
)

// Header is the raw 1024-byte positional metadata block.
type Header struct {
	raw [Size]byte
}

// New returns a Header initialized the way GT3_initHeader does: every slot
// blank-filled with spaces, defaults copied in where the directory declares
// one, and the magic token written into slot 0.
func New() *Header {
	h := &Header{}
	for i := range h.raw {
		h.raw[i] = ' '
	}
	for _, d := range directory {
		if d.Default != "" {
			copy(h.raw[d.ID*SlotSize:], []byte(d.Default))
		}
	}
	copy(h.raw[:SlotSize], []byte(Magic))

	return h
}

// Parse reads a Header from exactly Size bytes of slot data (the record
// payload, i.e. with the frame's prefix/suffix already stripped).
func Parse(data []byte) (*Header, error) {
	if len(data) != Size {
		return nil, errs.Wrap(errs.ErrInvalidHeaderSize, "got %d bytes", len(data))
	}
	h := &Header{}
	copy(h.raw[:], data)

	return h, nil
}

// IsValid reports whether the header's magic slot matches the expected token.
func (h *Header) IsValid() bool {
	return string(h.raw[:SlotSize]) == Magic
}

// Bytes returns the raw 1024-byte slot payload (no frame).
func (h *Header) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, h.raw[:])

	return out
}

func (h *Header) slotBytes(d slotDef) []byte {
	n := SlotSize
	if d.Type == typeStr2 {
		n = 2 * SlotSize
	}

	return h.raw[d.ID*SlotSize : d.ID*SlotSize+n]
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' {
			return false
		}
	}

	return true
}

// GetString returns the trimmed, control-character-sanitized text of key,
// substituting the directory's default literal when the stored slot is
// blank, matching GT3_copyHeaderItem.
func (h *Header) GetString(key string) (string, error) {
	d, ok := lookup(key)
	if !ok {
		return "", errs.Wrap(errs.ErrUnknownSlot, "%s", key)
	}

	raw := h.slotBytes(d)
	if d.Default != "" && isBlank(raw) {
		raw = []byte(d.Default)
	}

	s := strings.TrimSpace(string(raw))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0o40 || r == 0o177 {
			b.WriteByte('#')
		} else {
			b.WriteRune(r)
		}
	}

	return b.String(), nil
}

// GetInt decodes an integer-typed slot, matching GT3_decodeHeaderInt.
func (h *Header) GetInt(key string) (int, error) {
	d, ok := lookup(key)
	if !ok {
		return 0, errs.Wrap(errs.ErrUnknownSlot, "%s", key)
	}
	if d.Type != typeInt {
		return 0, errs.Wrap(errs.ErrSlotTypeMismatch, "%s is not an integer slot", key)
	}

	raw := h.slotBytes(d)
	if d.Default != "" && isBlank(raw) {
		raw = []byte(d.Default)
	}

	v, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, errs.Wrap(errs.ErrInvalidSlotValue, "%s: %q", key, raw)
	}

	return v, nil
}

// GetFloat decodes a real-typed slot, matching GT3_decodeHeaderDouble.
func (h *Header) GetFloat(key string) (float64, error) {
	d, ok := lookup(key)
	if !ok {
		return 0, errs.Wrap(errs.ErrUnknownSlot, "%s", key)
	}
	if d.Type != typeFloat {
		return 0, errs.Wrap(errs.ErrSlotTypeMismatch, "%s is not a float slot", key)
	}

	raw := h.slotBytes(d)
	if d.Default != "" && isBlank(raw) {
		raw = []byte(d.Default)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrInvalidSlotValue, "%s: %q", key, raw)
	}

	return v, nil
}

// SetString writes str into key's slot(s), space-padded/truncated to the
// slot width, matching GT3_setHeaderString.
func (h *Header) SetString(key, str string) error {
	d, ok := lookup(key)
	if !ok {
		return errs.Wrap(errs.ErrUnknownSlot, "%s", key)
	}

	dst := h.slotBytes(d)
	for i := range dst {
		dst[i] = ' '
	}
	copy(dst, []byte(str))

	return nil
}

// SetInt writes val right-justified in a 16-column field, matching
// GT3_setHeaderInt's "%16d" format.
func (h *Header) SetInt(key string, val int) error {
	d, ok := lookup(key)
	if !ok || d.Type != typeInt {
		return errs.Wrap(errs.ErrUnknownSlot, "SetInt(%s)", key)
	}

	text := fmt.Sprintf("%16d", val)
	if len(text) != SlotSize {
		text = text[len(text)-SlotSize:]
	}
	copy(h.raw[d.ID*SlotSize:], []byte(text))

	return nil
}

// SetFloat writes val in 16-column scientific notation with seven
// fractional digits, matching GT3_setHeaderDouble's "%16.7E" format.
func (h *Header) SetFloat(key string, val float64) error {
	d, ok := lookup(key)
	if !ok || d.Type != typeFloat {
		return errs.Wrap(errs.ErrUnknownSlot, "SetFloat(%s)", key)
	}

	text := formatScientific16_7(val)
	copy(h.raw[d.ID*SlotSize:], []byte(text))

	return nil
}

// formatScientific16_7 renders val as C's "%16.7E" would: sign-or-space,
// one integer digit, '.', seven fractional digits, 'E', exponent sign, at
// least two exponent digits, right-justified (space-padded) to 16 columns.
func formatScientific16_7(val float64) string {
	s := strconv.FormatFloat(val, 'E', 7, 64)
	// Go renders e.g. "-9.9900000E+02"; C guarantees a 2-digit exponent, which
	// Go's FormatFloat already does for this magnitude range used by gt3
	// (exponents stay within [-99,99] for all legitimate header values).
	if len(s) < SlotSize {
		s = strings.Repeat(" ", SlotSize-len(s)) + s
	}
	if len(s) > SlotSize {
		s = s[len(s)-SlotSize:]
	}

	return s
}

// Merge fills blank slots in h from src, matching GT3_mergeHeader,
// including its special-case skip of the second physical TITLE slot (it is
// filled together with the first as one 32-byte unit).
func (h *Header) Merge(src *Header) {
	for id := 0; id < NumSlots; id++ {
		if id == slotTITL2 {
			continue
		}
		n := SlotSize
		if id == slotTITL1 {
			n = 2 * SlotSize
		}

		dst := h.raw[id*SlotSize : id*SlotSize+n]
		if isBlank(dst) {
			copy(dst, src.raw[id*SlotSize:id*SlotSize+n])
		}
	}
}

// CopyFrom replaces h's entire contents with src's, matching GT3_copyHeader.
func (h *Header) CopyFrom(src *Header) {
	h.raw = src.raw
}

// ItemID returns the slot index for name, or -1 if unknown, matching
// GT3_getHeaderItemID.
func ItemID(name string) int {
	if d, ok := lookup(name); ok {
		return d.ID
	}

	return -1
}

// SetMissingValue sets MISS and, for any of DMIN/DMAX/DIVS/DIVL currently
// equal to the prior missing value, updates them to the new value too, so a
// bound that was "unset" (tracking the sentinel) keeps tracking it (§4.5).
func (h *Header) SetMissingValue(val float64) error {
	prev, err := h.GetFloat("MISS")
	if err != nil {
		return err
	}

	for _, key := range []string{"DMIN", "DMAX", "DIVS", "DIVL"} {
		cur, err := h.GetFloat(key)
		if err != nil {
			return err
		}
		if cur == prev {
			if err := h.SetFloat(key, val); err != nil {
				return err
			}
		}
	}

	return h.SetFloat("MISS", val)
}

// axisSlots maps an axis dimension (1, 2, or 3) to its ASTR/AEND keys.
func axisSlots(dim int) (start, end string) {
	return fmt.Sprintf("ASTR%d", dim), fmt.Sprintf("AEND%d", dim)
}

// SetAxisStart sets the 1-based start index of axis dim and shifts its end
// index by the same delta, preserving the axis length (§4.5).
func (h *Header) SetAxisStart(dim, start int) error {
	startKey, endKey := axisSlots(dim)

	oldStart, err := h.GetInt(startKey)
	if err != nil {
		return err
	}
	oldEnd, err := h.GetInt(endKey)
	if err != nil {
		return err
	}

	delta := start - oldStart
	if err := h.SetInt(startKey, start); err != nil {
		return err
	}

	return h.SetInt(endKey, oldEnd+delta)
}
