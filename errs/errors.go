package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors. Each maps to exactly one ErrorKind via the kindOf table below
// so that callers can branch on Kind(err) without a parallel switch.
var (
	ErrNotAContainer      = errors.New("gt3: header magic does not match")
	ErrInvalidHeaderSize  = errors.New("gt3: header is not 1024 bytes")
	ErrInvalidHeaderFrame = errors.New("gt3: header record prefix/suffix mismatch")
	ErrUnknownSlot        = errors.New("gt3: unknown header slot name")
	ErrSlotTypeMismatch   = errors.New("gt3: header slot has the wrong type for this accessor")
	ErrInvalidSlotValue   = errors.New("gt3: header slot value could not be decoded")
	ErrMissingAxisBound   = errors.New("gt3: required axis endpoint is missing from header")

	ErrUnknownFormat     = errors.New("gt3: unrecognized DFMT format string")
	ErrRecordFrameMismatch = errors.New("gt3: record length prefix and suffix disagree")
	ErrRecordLengthMismatch = errors.New("gt3: record length does not match format's declared size")
	ErrMaskPopulationMismatch = errors.New("gt3: bitmap population count disagrees with compacted value count")
	ErrChunkOverrunsFile = errors.New("gt3: predicted chunk size exceeds remaining file length")
	ErrNotUniformFile    = errors.New("gt3: file size is not an exact multiple of the first chunk size")

	ErrIndexOutOfRange = errors.New("gt3: index out of range")
	ErrInvalidArgument = errors.New("gt3: invalid argument")

	ErrBitWidthOutOfRange = errors.New("gt3: bit width must be between 1 and 31")

	ErrAxisFileNotFound = errors.New("gt3: no axis file found for name")
	ErrUnknownAxisName  = errors.New("gt3: axis name did not parse into a known generator")

	ErrInvalidDate    = errors.New("gt3: date is out of range for its calendar kind")
	ErrCalendarMismatch = errors.New("gt3: dates belong to different calendar kinds")
	ErrCalendarUnresolved = errors.New("gt3: no calendar kind is consistent with the given dates")
)

var kindOf = map[error]ErrorKind{
	ErrNotAContainer: KindNotAContainer,

	ErrInvalidHeaderSize:  KindInvalidHeader,
	ErrInvalidHeaderFrame: KindBrokenFile,
	ErrUnknownSlot:        KindInvalidCall,
	ErrSlotTypeMismatch:   KindInvalidCall,
	ErrInvalidSlotValue:   KindInvalidHeader,
	ErrMissingAxisBound:   KindInvalidHeader,

	ErrUnknownFormat:          KindInvalidHeader,
	ErrRecordFrameMismatch:    KindBrokenFile,
	ErrRecordLengthMismatch:   KindBrokenFile,
	ErrMaskPopulationMismatch: KindBrokenFile,
	ErrChunkOverrunsFile:      KindBrokenFile,
	ErrNotUniformFile:         KindInvalidCall,

	ErrIndexOutOfRange: KindIndexOutOfRange,
	ErrInvalidArgument: KindInvalidCall,

	ErrBitWidthOutOfRange: KindInvalidCall,

	ErrAxisFileNotFound: KindInvalidCall,
	ErrUnknownAxisName:  KindInvalidCall,

	ErrInvalidDate:        KindInvalidCall,
	ErrCalendarMismatch:   KindInvalidCall,
	ErrCalendarUnresolved: KindInvalidHeader,
}

// Kind extracts the taxonomy ErrorKind of err by unwrapping until a known
// sentinel is found. It returns KindNone if err is nil and KindSystem if err
// is non-nil but carries none of the sentinels above (the system-call
// fallback case, mirroring SYSERR in the original error stack).
func Kind(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	for sentinel, kind := range kindOf {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	return KindSystem
}

// Wrap annotates a sentinel error with contextual auxiliary information
// (a path, a slot name, an index), matching the aux-message half of the
// original library's push_errcode(code, aux).
func Wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
