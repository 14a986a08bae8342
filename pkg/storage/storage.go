// Package storage keeps playable audio behind opaque handles. A handle stays
// valid until it is released, after which its bytes are gone.
package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned for handles that were never issued or were released.
	ErrNotFound = errors.New("handle not found")
	// ErrEmptyName is returned when Put gets no name.
	ErrEmptyName = errors.New("empty name")
)

// Handle refers to one stored playable container.
type Handle struct {
	ID   string // Unique per Put
	Name string // Suggested file name, e.g. block_1.wav
	Size int    // Byte length
	Path string // Set by FileStore only
}

// IsZero reports whether h is the empty handle.
func (h Handle) IsZero() bool {
	return h.ID == ""
}

// Store issues handles for stored bytes.
type Store interface {
	// Put stores data and returns a new handle.
	Put(name string, data []byte) (Handle, error)

	// Open returns the bytes behind a live handle.
	Open(h Handle) ([]byte, error)

	// Release frees the handle. Releasing twice or releasing the zero
	// handle is a no-op.
	Release(h Handle) error

	// Len returns the number of live handles.
	Len() int
}
