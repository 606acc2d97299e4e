//go:build bench
// +build bench

package gbkf

import (
	"bytes"
	"fmt"
	"testing"
)

func benchDocument(entries, blobSize int) *Document {
	doc := NewDocument(1, 1)
	for i := 0; i < entries; i++ {
		key := fmt.Sprintf("k%04d", i)
		switch i % 4 {
		case 0:
			_ = doc.Append(key, Int64Value(int64(i)))
		case 1:
			_ = doc.Append(key, Float32Value(float32(i)+0.9))
		case 2:
			_ = doc.Append(key, StringValue("entry value"))
		default:
			_ = doc.Append(key, BlobValue(bytes.Repeat([]byte("v"), blobSize)))
		}
	}
	return doc
}

func BenchmarkEncode(b *testing.B) {
	benchmarks := []struct {
		name     string
		entries  int
		blobSize int
	}{
		{"small", 8, 32},
		{"medium", 128, 1024},
		{"large", 1024, 10240},
	}

	for _, bm := range benchmarks {
		doc := benchDocument(bm.entries, bm.blobSize)
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Encode(doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	benchmarks := []struct {
		name     string
		entries  int
		blobSize int
	}{
		{"small", 8, 32},
		{"medium", 128, 1024},
		{"large", 1024, 10240},
	}

	for _, bm := range benchmarks {
		encoded, err := Encode(benchDocument(bm.entries, bm.blobSize))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Decode(encoded); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
