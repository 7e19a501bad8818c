package header

// slotType is the logical type of a header slot's textual content.
type slotType uint8

const (
	typeStr   slotType = iota // 16-char text
	typeStr2                  // 32-char text (two adjacent slots, e.g. TITLE)
	typeInt                   // right-justified decimal integer
	typeFloat                 // 16-column scientific notation, 7 fractional digits
)

// SlotSize is the byte width of one positional slot.
const SlotSize = 16

// NumSlots is the number of positional slots in a header.
const NumSlots = 64

// Size is the total byte size of a header block.
const Size = SlotSize * NumSlots

// Magic is the fixed literal that identifies a valid gt3 header.
const Magic = "            9010"

const (
	blankInt   = "               0"
	blankOne   = "               1"
	blankMiss  = "  -9.9900000E+02"
	blankZeroF = "   0.0000000E+00"
	blankDFMT  = "UR4             "
)

// slotDef is one entry of the header's sorted symbol directory, grounded on
// header.c's elemdict[] table (kept sorted by Name to document the original
// binary-search invariant, though Go's lookup is a map).
type slotDef struct {
	Name    string
	ID      int
	Type    slotType
	Default string // empty means no default
}

// Slot IDs, named for readability; values match the original's enum.
const (
	slotIDFM  = 0
	slotDSET  = 1
	slotITEM  = 2
	slotFNUM  = 11
	slotDNUM  = 12
	slotTITL1 = 13
	slotTITL2 = 14
	slotUNIT  = 15
	slotTIME  = 24
	slotUTIM  = 25
	slotDATE  = 26
	slotTDUR  = 27
	slotAITM1 = 28
	slotASTR1 = 29
	slotAEND1 = 30
	slotAITM2 = 31
	slotASTR2 = 32
	slotAEND2 = 33
	slotAITM3 = 34
	slotASTR3 = 35
	slotAEND3 = 36
	slotDFMT  = 37
	slotMISS  = 38
	slotDMIN  = 39
	slotDMAX  = 40
	slotDIVS  = 41
	slotDIVL  = 42
	slotSTYP  = 43
	slotCOPTN = 44
	slotIOPTN = 45
	slotROPTN = 46
	slotDATE1 = 47
	slotDATE2 = 48
	slotCDATE = 59
	slotCSIGN = 60
	slotMDATE = 61
	slotMSIGN = 62
	slotSIZE  = 63
)

// directory is the name -> slotDef table. It must stay sorted by Name to
// match the original's bsearch-based lookup, though Go code here uses a map.
var directory = buildDirectory()

func buildDirectory() map[string]slotDef {
	entries := []slotDef{
		{"AEND1", slotAEND1, typeInt, ""},
		{"AEND2", slotAEND2, typeInt, ""},
		{"AEND3", slotAEND3, typeInt, ""},
		{"AITM1", slotAITM1, typeStr, ""},
		{"AITM2", slotAITM2, typeStr, ""},
		{"AITM3", slotAITM3, typeStr, ""},
		{"ASTR1", slotASTR1, typeInt, blankOne},
		{"ASTR2", slotASTR2, typeInt, blankOne},
		{"ASTR3", slotASTR3, typeInt, blankOne},
		{"CDATE", slotCDATE, typeStr, ""},
		{"COPTN", slotCOPTN, typeStr, ""},
		{"CSIGN", slotCSIGN, typeStr, ""},
		{"DATE", slotDATE, typeStr, ""},
		{"DATE1", slotDATE1, typeStr, ""},
		{"DATE2", slotDATE2, typeStr, ""},
		{"DFMT", slotDFMT, typeStr, blankDFMT},
		{"DIVL", slotDIVL, typeFloat, blankMiss},
		{"DIVS", slotDIVS, typeFloat, blankMiss},
		{"DMAX", slotDMAX, typeFloat, blankMiss},
		{"DMIN", slotDMIN, typeFloat, blankMiss},
		{"DNUM", slotDNUM, typeInt, blankInt},
		{"DSET", slotDSET, typeStr, ""},
		{"EDIT1", 3, typeStr, ""},
		{"EDIT2", 4, typeStr, ""},
		{"EDIT3", 5, typeStr, ""},
		{"EDIT4", 6, typeStr, ""},
		{"EDIT5", 7, typeStr, ""},
		{"EDIT6", 8, typeStr, ""},
		{"EDIT7", 9, typeStr, ""},
		{"EDIT8", 10, typeStr, ""},
		{"ETTL1", 16, typeStr, ""},
		{"ETTL2", 17, typeStr, ""},
		{"ETTL3", 18, typeStr, ""},
		{"ETTL4", 19, typeStr, ""},
		{"ETTL5", 20, typeStr, ""},
		{"ETTL6", 21, typeStr, ""},
		{"ETTL7", 22, typeStr, ""},
		{"ETTL8", 23, typeStr, ""},
		{"FNUM", slotFNUM, typeInt, blankInt},
		{"IDFM", slotIDFM, typeInt, ""},
		{"IOPTN", slotIOPTN, typeInt, blankInt},
		{"ITEM", slotITEM, typeStr, ""},
		{"MDATE", slotMDATE, typeStr, ""},
		{"MEMO1", 49, typeStr, ""},
		{"MEMO10", 58, typeStr, ""},
		{"MEMO2", 50, typeStr, ""},
		{"MEMO3", 51, typeStr, ""},
		{"MEMO4", 52, typeStr, ""},
		{"MEMO5", 53, typeStr, ""},
		{"MEMO6", 54, typeStr, ""},
		{"MEMO7", 55, typeStr, ""},
		{"MEMO8", 56, typeStr, ""},
		{"MEMO9", 57, typeStr, ""},
		{"MISS", slotMISS, typeFloat, blankMiss},
		{"MSIGN", slotMSIGN, typeStr, ""},
		{"ROPTN", slotROPTN, typeFloat, blankZeroF},
		{"SIZE", slotSIZE, typeInt, blankInt},
		{"STYP", slotSTYP, typeInt, blankOne},
		{"TDUR", slotTDUR, typeInt, blankInt},
		{"TIME", slotTIME, typeInt, blankInt},
		{"TITL1", slotTITL1, typeStr, ""},
		{"TITL2", slotTITL2, typeStr, ""},
		{"TITLE", slotTITL1, typeStr2, ""}, // alias over TITL1+TITL2
		{"UNIT", slotUNIT, typeStr, ""},
		{"UTIM", slotUTIM, typeStr, ""},
	}

	m := make(map[string]slotDef, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}

	return m
}

func lookup(key string) (slotDef, bool) {
	d, ok := directory[key]

	return d, ok
}
