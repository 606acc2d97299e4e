// Package jsondoc provides a JSON interchange form for GBKF documents,
// used by the CLI and the API server. It is a rendering layer only: the
// binary format and its invariants live in pkg/gbkf.
package jsondoc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gbkf/gbkf-go/pkg/gbkf"
)

// Document is the JSON form of a GBKF document.
type Document struct {
	SpecID      uint32  `json:"spec_id"`
	SpecVersion uint16  `json:"spec_version"`
	Entries     []Entry `json:"entries"`
}

// Entry is the JSON form of one keyed value. Blob payloads are base64;
// everything else uses the natural JSON representation. Float32 values are
// rendered via their exact float64 widening, so the JSON form shows the
// same read-back delta the binary format documents.
type Entry struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

var typeByName = map[string]gbkf.ValueType{
	"blob":    gbkf.TypeBlob,
	"bool":    gbkf.TypeBool,
	"string":  gbkf.TypeString,
	"int8":    gbkf.TypeInt8,
	"int16":   gbkf.TypeInt16,
	"int32":   gbkf.TypeInt32,
	"int64":   gbkf.TypeInt64,
	"uint8":   gbkf.TypeUint8,
	"uint16":  gbkf.TypeUint16,
	"uint32":  gbkf.TypeUint32,
	"uint64":  gbkf.TypeUint64,
	"float32": gbkf.TypeFloat32,
	"float64": gbkf.TypeFloat64,
}

// FromDocument renders a decoded document into its JSON form.
func FromDocument(doc *gbkf.Document) (*Document, error) {
	out := &Document{
		SpecID:      doc.SpecID,
		SpecVersion: doc.SpecVersion,
		Entries:     make([]Entry, 0, doc.Len()),
	}
	for _, e := range doc.Entries {
		host, err := hostValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Key, err)
		}
		raw, err := json.Marshal(host)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Key, err)
		}
		out.Entries = append(out.Entries, Entry{
			Key:   e.Key,
			Type:  e.Value.Type().String(),
			Value: raw,
		})
	}
	return out, nil
}

// ToDocument builds a codec document from the JSON form. Type names and
// value ranges are checked; a bad entry reports its key.
func (d *Document) ToDocument() (*gbkf.Document, error) {
	doc := gbkf.NewDocument(d.SpecID, d.SpecVersion)
	for _, e := range d.Entries {
		tag, ok := typeByName[e.Type]
		if !ok {
			return nil, fmt.Errorf("entry %q: unknown type %q", e.Key, e.Type)
		}
		value, err := parseValue(tag, e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Key, err)
		}
		if err := doc.Append(e.Key, value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func hostValue(v gbkf.Value) (any, error) {
	switch v.Type() {
	case gbkf.TypeBool:
		return v.Bool()
	case gbkf.TypeString:
		return v.Text()
	case gbkf.TypeBlob:
		return v.Blob()
	case gbkf.TypeInt8, gbkf.TypeInt16, gbkf.TypeInt32, gbkf.TypeInt64:
		return v.Int()
	case gbkf.TypeUint8, gbkf.TypeUint16, gbkf.TypeUint32, gbkf.TypeUint64:
		return v.Uint()
	case gbkf.TypeFloat32, gbkf.TypeFloat64:
		return v.Float64()
	default:
		return nil, fmt.Errorf("unsupported type %s", v.Type())
	}
}

func parseValue(tag gbkf.ValueType, raw json.RawMessage) (gbkf.Value, error) {
	switch tag {
	case gbkf.TypeBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return gbkf.Value{}, err
		}
		return gbkf.BoolValue(b), nil

	case gbkf.TypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return gbkf.Value{}, err
		}
		return gbkf.StringValue(s), nil

	case gbkf.TypeBlob:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return gbkf.Value{}, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return gbkf.Value{}, fmt.Errorf("bad base64 blob: %w", err)
		}
		return gbkf.BlobValue(b), nil

	case gbkf.TypeInt8, gbkf.TypeInt16, gbkf.TypeInt32, gbkf.TypeInt64:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return gbkf.Value{}, err
		}
		i, err := n.Int64()
		if err != nil {
			return gbkf.Value{}, err
		}
		return gbkf.NewValue(tag, i)

	case gbkf.TypeUint8, gbkf.TypeUint16, gbkf.TypeUint32, gbkf.TypeUint64:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return gbkf.Value{}, err
		}
		// json.Number has no unsigned accessor; go through the string so
		// values above MaxInt64 survive.
		u, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return gbkf.Value{}, fmt.Errorf("bad unsigned integer %q", n.String())
		}
		return gbkf.NewValue(tag, u)

	case gbkf.TypeFloat32, gbkf.TypeFloat64:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return gbkf.Value{}, err
		}
		return gbkf.NewValue(tag, f)

	default:
		return gbkf.Value{}, fmt.Errorf("unknown type tag %d", uint8(tag))
	}
}
