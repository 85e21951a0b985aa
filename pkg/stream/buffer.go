package stream

import (
	"errors"
	"io"
)

// Buffer is an in-memory io.ReadWriteSeeker.
// Writes past the end grow the buffer, zero-filling any gap.
type Buffer struct {
	data []byte
	pos  int64
}

// NewBuffer creates a buffer initialised with data. The buffer takes ownership of data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Read implements io.Reader.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			old := len(b.data)
			b.data = b.data[:end]
			clear(b.data[old:])
		}
	}
	n := copy(b.data[b.pos:], p)
	b.pos += int64(n)
	return n, nil
}

// Truncate changes the buffer length. Growing zero-fills; the position is kept.
func (b *Buffer) Truncate(size int64) error {
	if size < 0 {
		return errors.New("stream: negative size")
	}
	if size <= int64(len(b.data)) {
		b.data = b.data[:size]
		return nil
	}
	grown := make([]byte, size)
	copy(grown, b.data)
	b.data = grown
	return nil
}

// Seek implements io.Seeker.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = b.pos + offset
	case io.SeekEnd:
		next = int64(len(b.data)) + offset
	default:
		return 0, errors.New("stream: invalid whence")
	}
	if next < 0 {
		return 0, errors.New("stream: negative position")
	}
	b.pos = next
	return next, nil
}
