package mock

import (
	"bytes"
	"sync/atomic"

	"github.com/fwojciec/blogsnap"
)

// Blob is an in-memory image body that records whether it was closed.
type Blob struct {
	*bytes.Reader
	closed atomic.Bool
}

// NewBlob returns a Blob holding data.
func NewBlob(data []byte) *Blob {
	return &Blob{Reader: bytes.NewReader(data)}
}

func (b *Blob) Close() error {
	b.closed.Store(true)
	return nil
}

// Closed reports whether Close has been called.
func (b *Blob) Closed() bool {
	return b.closed.Load()
}

// NewImage returns an image backed by a Blob, along with the Blob.
func NewImage(data []byte, contentType string) (*blogsnap.Image, *Blob) {
	blob := NewBlob(data)
	return &blogsnap.Image{
		Body:        blob,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, blob
}
