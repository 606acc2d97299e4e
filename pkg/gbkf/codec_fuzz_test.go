//go:build fuzz
// +build fuzz

package gbkf

import (
	"bytes"
	"errors"
	"testing"
)

// FuzzDecode checks that arbitrary input never panics and never yields a
// document alongside an error.
func FuzzDecode(f *testing.F) {
	doc := NewDocument(1, 1)
	_ = doc.Append("k", StringValue("seed"))
	seed, _ := Encode(doc)

	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte("gbkf"))
	f.Add(make([]byte, headerSize))
	f.Add(make([]byte, headerSize+checksumSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := Decode(data)
		if err != nil && doc != nil {
			t.Fatal("Decode returned both a document and an error")
		}
		if err == nil {
			// Whatever decoded must re-encode to the identical bytes.
			out, err := Encode(doc)
			if err != nil {
				t.Fatalf("Re-encode failed: %v", err)
			}
			if !bytes.Equal(out, data) {
				t.Errorf("Re-encode diverged:\n got %x\nwant %x", out, data)
			}
		}
	})
}

// FuzzRoundTrip checks encode/decode identity for generated documents.
func FuzzRoundTrip(f *testing.F) {
	f.Add("key", "text", int64(-454545), uint64(454545), 110.9)
	f.Add("k", "", int64(0), uint64(0), 0.0)

	f.Fuzz(func(t *testing.T, key, text string, i int64, u uint64, fl float64) {
		if key == "" || len(key) > MaxKeyLen || key == "s" || key == "i" || key == "u" || key == "f" {
			t.Skip("key collides with fixed entries")
		}

		doc := NewDocument(1, 1)
		if err := doc.Append(key, BlobValue([]byte(text))); err != nil {
			t.Skip("unusable key")
		}
		_ = doc.Append("s", StringValue(text))
		_ = doc.Append("i", Int64Value(i))
		_ = doc.Append("u", Uint64Value(u))
		_ = doc.Append("f", Float64Value(fl))

		encoded, err := Encode(doc)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		got, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.Len() != doc.Len() {
			t.Fatalf("Len: got %d, want %d", got.Len(), doc.Len())
		}

		// One-byte truncation must always be reported as truncation.
		if _, err := Decode(encoded[:len(encoded)-1]); !errors.Is(err, ErrTruncated) {
			t.Errorf("Truncated decode: got %v, want ErrTruncated", err)
		}
	})
}
