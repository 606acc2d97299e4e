package gbkf

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	magic      = "gbkf"
	headerSize = 4 + 1 + 4 + 2 + 4 // magic + version + spec_id + spec_version + entry_count

	checksumSize  = sha256.Size
	lenPrefixSize = 4
)

// Encode serialises a Document into a complete GBKF buffer. Output is
// deterministic: encoding the same document twice yields byte-identical
// buffers. Encode holds no state across calls and retains no reference to
// doc after returning.
//
// Encode fails with ErrDuplicateKey if the document repeats a key and with
// ErrUnsupportedType if an entry holds a value outside the closed type set
// (a zero Value, for instance). A failing Encode yields no bytes.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("gbkf: nil document")
	}
	if uint64(len(doc.Entries)) > math.MaxUint32 {
		return nil, fmt.Errorf("gbkf: entry count %d exceeds uint32", len(doc.Entries))
	}

	// Validate and size in one pass so the buffer is allocated exactly once.
	size := headerSize
	seen := make(map[string]struct{}, len(doc.Entries))
	for i := range doc.Entries {
		e := &doc.Entries[i]
		if err := validateKey(e.Key); err != nil {
			return nil, err
		}
		if _, dup := seen[e.Key]; dup {
			return nil, &FormatError{Key: e.Key, Err: ErrDuplicateKey}
		}
		seen[e.Key] = struct{}{}
		if !e.Value.typ.Valid() {
			return nil, &FormatError{Key: e.Key, Err: ErrUnsupportedType}
		}
		size += 1 + len(e.Key) + 1 + e.Value.EncodedSize()
	}

	buf := make([]byte, 0, size+checksumSize)
	buf = append(buf, magic...)
	buf = append(buf, FormatVersion)
	buf = binary.LittleEndian.AppendUint32(buf, doc.SpecID)
	buf = binary.LittleEndian.AppendUint16(buf, doc.SpecVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(doc.Entries)))

	for i := range doc.Entries {
		e := &doc.Entries[i]
		buf = append(buf, byte(len(e.Key)))
		buf = append(buf, e.Key...)
		buf = append(buf, byte(e.Value.typ))
		buf = appendPayload(buf, e.Value)
	}

	sum := sha256.Sum256(buf)
	buf = append(buf, sum[:]...)
	return buf, nil
}

func appendPayload(buf []byte, v Value) []byte {
	switch v.typ {
	case TypeBool, TypeInt8, TypeUint8:
		return append(buf, byte(v.num))
	case TypeInt16, TypeUint16:
		return binary.LittleEndian.AppendUint16(buf, uint16(v.num))
	case TypeInt32, TypeUint32:
		return binary.LittleEndian.AppendUint32(buf, uint32(v.num))
	case TypeInt64, TypeUint64:
		return binary.LittleEndian.AppendUint64(buf, v.num)
	case TypeFloat32:
		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.f32))
	case TypeFloat64:
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.f64))
	case TypeString:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.str)))
		return append(buf, v.str...)
	case TypeBlob:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v.raw)))
		return append(buf, v.raw...)
	default:
		// Unreachable: Encode rejects invalid tags before writing.
		panic(fmt.Sprintf("gbkf: appendPayload on invalid tag %d", v.typ))
	}
}
