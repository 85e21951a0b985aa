package container

import (
	"bytes"
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"
	"io"

	"github.com/opencontainers/go-digest"

	"github.com/EchoTools/resbundle/pkg/stream"
)

// Resource is a single payload packed inside a container.
//
// DecodeFrom is called with the cursor positioned at the start of the
// resource and limit set to the number of bytes allotted to it. A decoder
// that leaves bytes unread is detected once all resources are decoded.
type Resource interface {
	Size() int64
	DecodeFrom(c *stream.Cursor, limit int64) error
	EncodeTo(c *stream.Cursor) error
}

// Blob is an opaque resource that consumes its whole allotted range.
type Blob struct {
	Data []byte
}

// NewBlob returns an empty blob, suitable as a Read factory.
func NewBlob() *Blob {
	return &Blob{}
}

// Size returns the payload length.
func (b *Blob) Size() int64 {
	return int64(len(b.Data))
}

// DecodeFrom reads exactly limit bytes.
func (b *Blob) DecodeFrom(c *stream.Cursor, limit int64) error {
	if limit > c.Remaining() {
		return fmt.Errorf("resource needs %d bytes, %d remain: %w", limit, c.Remaining(), io.ErrUnexpectedEOF)
	}
	b.Data = make([]byte, limit)
	if _, err := io.ReadFull(c, b.Data); err != nil {
		return fmt.Errorf("read %d bytes: %w", limit, err)
	}
	return nil
}

// EncodeTo writes the payload.
func (b *Blob) EncodeTo(c *stream.Cursor) error {
	_, err := c.Write(b.Data)
	return err
}

// Digest returns the sha256 digest of the payload.
func (b *Blob) Digest() digest.Digest {
	return digest.FromBytes(b.Data)
}

// Equal reports whether two blobs carry the same bytes.
func (b *Blob) Equal(other *Blob) bool {
	return bytes.Equal(b.Data, other.Data)
}
