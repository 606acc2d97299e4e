package gbkf

import (
	"fmt"
	"math"
)

// ValueType identifies which variant a Value holds. The tag numbers are
// wire-format constants; the gaps in the numbering are part of the format
// and must not be compacted.
type ValueType uint8

const (
	TypeBlob   ValueType = 1
	TypeBool   ValueType = 2
	TypeString ValueType = 10

	TypeInt8  ValueType = 20
	TypeInt32 ValueType = 21
	TypeInt16 ValueType = 22
	TypeInt64 ValueType = 23

	TypeUint8  ValueType = 30
	TypeUint16 ValueType = 31
	TypeUint32 ValueType = 33
	TypeUint64 ValueType = 34

	TypeFloat32 ValueType = 40
	TypeFloat64 ValueType = 41
)

// Valid reports whether t is a member of the closed tag set.
func (t ValueType) Valid() bool {
	switch t {
	case TypeBlob, TypeBool, TypeString,
		TypeInt8, TypeInt16, TypeInt32, TypeInt64,
		TypeUint8, TypeUint16, TypeUint32, TypeUint64,
		TypeFloat32, TypeFloat64:
		return true
	}
	return false
}

// String returns the type name.
func (t ValueType) String() string {
	switch t {
	case TypeBlob:
		return "blob"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Value is a tagged union over the primitive types GBKF supports. The zero
// Value has no type and is rejected by the Writer.
type Value struct {
	typ ValueType

	// Only one of these is meaningful, based on typ. Integer and boolean
	// payloads live in num (two's complement for signed widths).
	num uint64
	f32 float32
	f64 float64
	str string
	raw []byte
}

// Type returns the value's type tag.
func (v Value) Type() ValueType { return v.typ }

func Int8Value(n int8) Value   { return Value{typ: TypeInt8, num: uint64(int64(n))} }
func Int16Value(n int16) Value { return Value{typ: TypeInt16, num: uint64(int64(n))} }
func Int32Value(n int32) Value { return Value{typ: TypeInt32, num: uint64(int64(n))} }
func Int64Value(n int64) Value { return Value{typ: TypeInt64, num: uint64(n)} }

func Uint8Value(n uint8) Value   { return Value{typ: TypeUint8, num: uint64(n)} }
func Uint16Value(n uint16) Value { return Value{typ: TypeUint16, num: uint64(n)} }
func Uint32Value(n uint32) Value { return Value{typ: TypeUint32, num: uint64(n)} }
func Uint64Value(n uint64) Value { return Value{typ: TypeUint64, num: n} }

// Float32Value stores n as IEEE-754 single precision. The stored 32 bits
// round-trip exactly; the original decimal literal does not.
func Float32Value(n float32) Value { return Value{typ: TypeFloat32, f32: n} }

func Float64Value(n float64) Value { return Value{typ: TypeFloat64, f64: n} }

func BoolValue(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{typ: TypeBool, num: n}
}

func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

func BlobValue(b []byte) Value { return Value{typ: TypeBlob, raw: b} }

// NewValue constructs a Value of type t from a host value. It fails with
// ErrTypeMismatch when v is of the wrong kind for t or outside the
// representable range of the chosen width.
func NewValue(t ValueType, v any) (Value, error) {
	switch t {
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		return BoolValue(b), nil

	case TypeString:
		s, ok := v.(string)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		return StringValue(s), nil

	case TypeBlob:
		b, ok := v.([]byte)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		return BlobValue(b), nil

	case TypeFloat32:
		f, ok := toFloat64(v)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		n := float32(f)
		if math.IsInf(float64(n), 0) && !math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("%w: %v overflows float32", ErrTypeMismatch, f)
		}
		return Float32Value(n), nil

	case TypeFloat64:
		f, ok := toFloat64(v)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		return Float64Value(f), nil

	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		n, ok := toInt64(v)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		lo, hi := signedBounds(t)
		if n < lo || n > hi {
			return Value{}, fmt.Errorf("%w: %d out of range for %s", ErrTypeMismatch, n, t)
		}
		return Value{typ: t, num: uint64(n)}, nil

	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		n, ok := toUint64(v)
		if !ok {
			return Value{}, mismatch(t, v)
		}
		if hi := unsignedMax(t); n > hi {
			return Value{}, fmt.Errorf("%w: %d out of range for %s", ErrTypeMismatch, n, t)
		}
		return Value{typ: t, num: n}, nil

	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownTypeTag, uint8(t))
	}
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, error) {
	if v.typ != TypeBool {
		return false, accessErr(v.typ, TypeBool)
	}
	return v.num != 0, nil
}

// Int returns the payload of any signed integer variant, widened to int64.
func (v Value) Int() (int64, error) {
	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return int64(v.num), nil
	}
	return 0, accessErr(v.typ, TypeInt64)
}

// Uint returns the payload of any unsigned integer variant, widened to uint64.
func (v Value) Uint() (uint64, error) {
	switch v.typ {
	case TypeUint8, TypeUint16, TypeUint32, TypeUint64:
		return v.num, nil
	}
	return 0, accessErr(v.typ, TypeUint64)
}

// Float32 returns the exact 32-bit payload of a float32 value.
func (v Value) Float32() (float32, error) {
	if v.typ != TypeFloat32 {
		return 0, accessErr(v.typ, TypeFloat32)
	}
	return v.f32, nil
}

// Float64 returns the payload of a float64 value, or the exactly widened
// payload of a float32 value. The widening preserves the stored bit
// pattern; it does not recover the decimal the float32 was built from.
func (v Value) Float64() (float64, error) {
	switch v.typ {
	case TypeFloat64:
		return v.f64, nil
	case TypeFloat32:
		return float64(v.f32), nil
	}
	return 0, accessErr(v.typ, TypeFloat64)
}

// Text returns the payload of a string value.
func (v Value) Text() (string, error) {
	if v.typ != TypeString {
		return "", accessErr(v.typ, TypeString)
	}
	return v.str, nil
}

// Blob returns the payload of a blob value. The returned slice is the
// value's backing storage; callers must not modify it.
func (v Value) Blob() ([]byte, error) {
	if v.typ != TypeBlob {
		return nil, accessErr(v.typ, TypeBlob)
	}
	return v.raw, nil
}

// EncodedSize returns the encoded payload width in bytes: the fixed width
// implied by the tag, or the length prefix plus data for string and blob
// values. Invalid values report zero.
func (v Value) EncodedSize() int {
	switch v.typ {
	case TypeBool, TypeInt8, TypeUint8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat32:
		return 4
	case TypeInt64, TypeUint64, TypeFloat64:
		return 8
	case TypeString:
		return lenPrefixSize + len(v.str)
	case TypeBlob:
		return lenPrefixSize + len(v.raw)
	default:
		return 0
	}
}

func signedBounds(t ValueType) (int64, int64) {
	switch t {
	case TypeInt8:
		return math.MinInt8, math.MaxInt8
	case TypeInt16:
		return math.MinInt16, math.MaxInt16
	case TypeInt32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

func unsignedMax(t ValueType) uint64 {
	switch t {
	case TypeUint8:
		return math.MaxUint8
	case TypeUint16:
		return math.MaxUint16
	case TypeUint32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int8:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int16:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch f := v.(type) {
	case float32:
		return float64(f), true
	case float64:
		return f, true
	}
	return 0, false
}

func mismatch(t ValueType, v any) error {
	return fmt.Errorf("%w: %T is not assignable to %s", ErrTypeMismatch, v, t)
}

func accessErr(got, want ValueType) error {
	return fmt.Errorf("%w: value is %s, not %s", ErrTypeMismatch, got, want)
}
