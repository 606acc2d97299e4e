package gbkf

import "fmt"

// FormatVersion is the only GBKF format version this codec recognises.
// Buffers declaring any other version are rejected rather than guessed at.
const FormatVersion = 1

// MaxKeyLen is the maximum encoded key length in bytes.
const MaxKeyLen = 255

// Entry is one keyed value within a Document.
type Entry struct {
	Key   string
	Value Value
}

// Document is the in-memory form of one GBKF buffer: an ordered sequence
// of entries plus the header metadata. Entry order is significant and is
// preserved by both Encode and Decode. Keys are unique within a document.
type Document struct {
	// SpecID and SpecVersion identify the application-level specification
	// the document's keys follow. The codec carries them opaquely.
	SpecID      uint32
	SpecVersion uint16

	Entries []Entry
}

// NewDocument creates an empty document with the given specification
// identity.
func NewDocument(specID uint32, specVersion uint16) *Document {
	return &Document{SpecID: specID, SpecVersion: specVersion}
}

// Append adds an entry, enforcing the document invariants: a non-empty key
// of at most MaxKeyLen bytes, a valid value type, and key uniqueness
// (ErrDuplicateKey on repeats).
func (d *Document) Append(key string, v Value) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !v.typ.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, v.typ)
	}
	for i := range d.Entries {
		if d.Entries[i].Key == key {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
	}
	d.Entries = append(d.Entries, Entry{Key: key, Value: v})
	return nil
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	for i := range d.Entries {
		if d.Entries[i].Key == key {
			return d.Entries[i].Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of entries.
func (d *Document) Len() int { return len(d.Entries) }

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("gbkf: empty key")
	}
	if len(key) > MaxKeyLen {
		return fmt.Errorf("gbkf: key %q exceeds %d bytes", key, MaxKeyLen)
	}
	return nil
}
