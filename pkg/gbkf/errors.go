package gbkf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the codec. Decode failures are wrapped in a
// *FormatError; match them with errors.Is.
var (
	ErrTruncated          = errors.New("gbkf: truncated input")
	ErrBadMagic           = errors.New("gbkf: bad magic")
	ErrUnsupportedVersion = errors.New("gbkf: unsupported format version")
	ErrUnknownTypeTag     = errors.New("gbkf: unknown type tag")
	ErrTrailingBytes      = errors.New("gbkf: trailing bytes after document")
	ErrDuplicateKey       = errors.New("gbkf: duplicate key")
	ErrTypeMismatch       = errors.New("gbkf: type mismatch")
	ErrUnsupportedType    = errors.New("gbkf: unsupported value type")
	ErrChecksumMismatch   = errors.New("gbkf: checksum mismatch")
)

// FormatError reports where in the byte stream a codec failure was
// detected. Offset is the byte position of the offending field; Key is the
// entry key being processed when known, empty otherwise.
type FormatError struct {
	Offset int
	Key    string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%v (key %q, offset %d)", e.Err, e.Key, e.Offset)
	}
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *FormatError) Unwrap() error { return e.Err }
