// Package archive persists encoded GBKF documents in a local pebble store,
// keyed by generated ksuid identifiers. The archive stores opaque encoded
// bytes; callers validate documents with the codec before storing them.
package archive

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned when no document exists under the given id.
var ErrNotFound = errors.New("archive: document not found")

// Archive is a pebble-backed blob store for encoded documents.
type Archive struct {
	db *pebble.DB
}

// Open opens (or creates) an archive at the given directory.
func Open(path string) (*Archive, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &Archive{db: db}, nil
}

// Store persists an encoded document and returns its generated id.
func (a *Archive) Store(data []byte) (ksuid.KSUID, error) {
	id := ksuid.New()
	if err := a.db.Set(id.Bytes(), data, pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store document: %w", err)
	}
	return id, nil
}

// Load returns the encoded document stored under id.
func (a *Archive) Load(id ksuid.KSUID) ([]byte, error) {
	data, closer, err := a.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	defer closer.Close()

	// The slice is only valid until the closer is released.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Delete removes the document stored under id. Deleting an absent id is
// not an error.
func (a *Archive) Delete(id ksuid.KSUID) error {
	if err := a.db.Delete(id.Bytes(), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (a *Archive) Count() (int, error) {
	iter, err := a.db.NewIter(nil)
	if err != nil {
		return 0, fmt.Errorf("failed to iterate archive: %w", err)
	}
	defer iter.Close()

	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Close closes the underlying store.
func (a *Archive) Close() error {
	return a.db.Close()
}
