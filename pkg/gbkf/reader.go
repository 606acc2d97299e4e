package gbkf

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Decode parses a complete GBKF buffer into a Document. The whole buffer
// must be available: the format has no incremental decode mode.
//
// Decode makes exactly one forward pass, never backtracks, and returns
// either a fully valid Document or an error; a partially populated
// Document is never returned. Failures are wrapped in a *FormatError and
// match the package sentinels with errors.Is.
func Decode(data []byte) (*Document, error) {
	r := cursor{data: data}

	if err := r.need(len(magic)); err != nil {
		return nil, err
	}
	if string(r.data[:len(magic)]) != magic {
		return nil, &FormatError{Offset: 0, Err: ErrBadMagic}
	}
	r.pos = len(magic)

	version, err := r.u8("")
	if err != nil {
		return nil, err
	}
	if version != FormatVersion {
		return nil, &FormatError{Offset: r.pos - 1, Err: ErrUnsupportedVersion}
	}

	specID, err := r.u32("")
	if err != nil {
		return nil, err
	}
	specVersion, err := r.u16("")
	if err != nil {
		return nil, err
	}
	count, err := r.u32("")
	if err != nil {
		return nil, err
	}

	// Capacity hint only; a hostile count must not drive allocation.
	capHint := int(count)
	if capHint < 0 || capHint > 1024 {
		capHint = 1024
	}
	doc := NewDocument(specID, specVersion)
	doc.Entries = make([]Entry, 0, capHint)
	seen := make(map[string]struct{}, capHint)

	for i := uint32(0); i < count; i++ {
		key, err := r.key()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			return nil, &FormatError{Offset: r.pos - len(key), Key: key, Err: ErrDuplicateKey}
		}
		seen[key] = struct{}{}

		tagOffset := r.pos
		tag, err := r.u8(key)
		if err != nil {
			return nil, err
		}
		if !ValueType(tag).Valid() {
			return nil, &FormatError{Offset: tagOffset, Key: key, Err: ErrUnknownTypeTag}
		}

		value, err := r.payload(ValueType(tag), key)
		if err != nil {
			return nil, err
		}
		doc.Entries = append(doc.Entries, Entry{Key: key, Value: value})
	}

	// Exactly the 32-byte digest must remain.
	rem := len(r.data) - r.pos
	switch {
	case rem < checksumSize:
		return nil, &FormatError{Offset: len(r.data), Err: ErrTruncated}
	case rem > checksumSize:
		return nil, &FormatError{Offset: r.pos + checksumSize, Err: ErrTrailingBytes}
	}
	sum := sha256.Sum256(r.data[:r.pos])
	if string(sum[:]) != string(r.data[r.pos:]) {
		return nil, &FormatError{Offset: r.pos, Err: ErrChecksumMismatch}
	}

	return doc, nil
}

// cursor is a forward-only reader over the input buffer. Every read checks
// availability first so a short buffer always surfaces as ErrTruncated at
// the offset of the field that could not be completed.
type cursor struct {
	data []byte
	pos  int
}

func (r *cursor) need(n int) error {
	if len(r.data)-r.pos < n {
		return &FormatError{Offset: r.pos, Err: ErrTruncated}
	}
	return nil
}

func (r *cursor) u8(key string) (uint8, error) {
	if err := r.need(1); err != nil {
		err.(*FormatError).Key = key
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *cursor) u16(key string) (uint16, error) {
	if err := r.need(2); err != nil {
		err.(*FormatError).Key = key
		return 0, err
	}
	n := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return n, nil
}

func (r *cursor) u32(key string) (uint32, error) {
	if err := r.need(4); err != nil {
		err.(*FormatError).Key = key
		return 0, err
	}
	n := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return n, nil
}

func (r *cursor) u64(key string) (uint64, error) {
	if err := r.need(8); err != nil {
		err.(*FormatError).Key = key
		return 0, err
	}
	n := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return n, nil
}

func (r *cursor) key() (string, error) {
	n, err := r.u8("")
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", &FormatError{Offset: r.pos - 1, Err: ErrTypeMismatch}
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	key := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return key, nil
}

func (r *cursor) payload(t ValueType, key string) (Value, error) {
	switch t {
	case TypeBool:
		b, err := r.u8(key)
		if err != nil {
			return Value{}, err
		}
		if b > 1 {
			return Value{}, &FormatError{Offset: r.pos - 1, Key: key, Err: ErrTypeMismatch}
		}
		return BoolValue(b == 1), nil

	case TypeInt8:
		b, err := r.u8(key)
		if err != nil {
			return Value{}, err
		}
		return Int8Value(int8(b)), nil
	case TypeInt16:
		n, err := r.u16(key)
		if err != nil {
			return Value{}, err
		}
		return Int16Value(int16(n)), nil
	case TypeInt32:
		n, err := r.u32(key)
		if err != nil {
			return Value{}, err
		}
		return Int32Value(int32(n)), nil
	case TypeInt64:
		n, err := r.u64(key)
		if err != nil {
			return Value{}, err
		}
		return Int64Value(int64(n)), nil

	case TypeUint8:
		b, err := r.u8(key)
		if err != nil {
			return Value{}, err
		}
		return Uint8Value(b), nil
	case TypeUint16:
		n, err := r.u16(key)
		if err != nil {
			return Value{}, err
		}
		return Uint16Value(n), nil
	case TypeUint32:
		n, err := r.u32(key)
		if err != nil {
			return Value{}, err
		}
		return Uint32Value(n), nil
	case TypeUint64:
		n, err := r.u64(key)
		if err != nil {
			return Value{}, err
		}
		return Uint64Value(n), nil

	case TypeFloat32:
		// Decoded to the exact stored 32-bit IEEE-754 value; any widening
		// to float64 happens in the accessor and is bit-exact.
		n, err := r.u32(key)
		if err != nil {
			return Value{}, err
		}
		return Float32Value(math.Float32frombits(n)), nil
	case TypeFloat64:
		n, err := r.u64(key)
		if err != nil {
			return Value{}, err
		}
		return Float64Value(math.Float64frombits(n)), nil

	case TypeString:
		b, err := r.lengthPrefixed(key)
		if err != nil {
			return Value{}, err
		}
		return StringValue(string(b)), nil
	case TypeBlob:
		b, err := r.lengthPrefixed(key)
		if err != nil {
			return Value{}, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return BlobValue(out), nil

	default:
		return Value{}, &FormatError{Offset: r.pos, Key: key, Err: ErrUnknownTypeTag}
	}
}

func (r *cursor) lengthPrefixed(key string) ([]byte, error) {
	n, err := r.u32(key)
	if err != nil {
		return nil, err
	}
	// Compare in uint64 so a huge declared length cannot overflow int on
	// 32-bit platforms.
	if uint64(n) > uint64(len(r.data)-r.pos) {
		return nil, &FormatError{Offset: r.pos, Key: key, Err: ErrTruncated}
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}
