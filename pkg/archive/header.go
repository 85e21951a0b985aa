// Package archive implements the zstd envelope used to store containers compressed.
//
// An envelope is a fixed 24-byte header followed by a single zstd stream:
//
//	magic "RBZ1" | version:uint32 | length:uint64 | compressedLength:uint64
//
// All header integers are little-endian regardless of the payload's byte order.
package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic bytes identifying an envelope.
var Magic = [4]byte{'R', 'B', 'Z', '1'}

const (
	// HeaderSize is the fixed binary size of an envelope header.
	HeaderSize = 24 // 4 + 4 + 8 + 8 bytes

	// Version is the only envelope version understood.
	Version = 1
)

// Header describes the compressed payload that follows it.
type Header struct {
	Magic            [4]byte
	Version          uint32
	Length           uint64 // Uncompressed size
	CompressedLength uint64 // Compressed size
}

// NewHeader creates a header for a payload of the given sizes.
func NewHeader(uncompressedSize, compressedSize uint64) *Header {
	return &Header{
		Magic:            Magic,
		Version:          Version,
		Length:           uncompressedSize,
		CompressedLength: compressedSize,
	}
}

// IsEnvelope reports whether prefix starts with the envelope magic.
func IsEnvelope(prefix []byte) bool {
	return len(prefix) >= len(Magic) && bytes.Equal(prefix[:len(Magic)], Magic[:])
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("unsupported version %d", h.Version)
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to buf, which must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from data without validating it.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.Version = binary.LittleEndian.Uint32(data[4:8])
	h.Length = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(data[16:24])
}
