package archive

import (
	"fmt"
	"io"
)

// Reader decompresses the payload of an envelope.
type Reader struct {
	header    *Header
	zReader   io.ReadCloser
	headerBuf [HeaderSize]byte
}

// NewReader reads and validates the envelope header from r and returns a
// reader for the decompressed payload.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{
		header: &Header{},
	}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	zr, err := newDecompressor(io.LimitReader(r, int64(reader.header.CompressedLength)))
	if err != nil {
		return nil, fmt.Errorf("init decompressor: %w", err)
	}
	reader.zReader = zr
	return reader, nil
}

// Header returns the envelope header.
func (r *Reader) Header() *Header {
	return r.header
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close releases the decompressor.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// Length returns the uncompressed payload length.
func (r *Reader) Length() int64 {
	return int64(r.header.Length)
}

// ReadAll reads and decompresses a whole envelope.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.Length())
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	// The payload must end exactly where the header says.
	var probe [1]byte
	if n, _ := reader.Read(probe[:]); n != 0 {
		return nil, fmt.Errorf("payload longer than declared %d bytes", reader.Length())
	}

	return data, nil
}
