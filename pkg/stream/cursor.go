// Package stream provides a positioned byte cursor used by the container codecs.
//
// A Cursor wraps an io.ReadSeeker (and optionally an io.Writer) with absolute
// positioning, end-of-stream detection, and fixed-width integer helpers that
// use a single byte order for both directions.
package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Byte orders supported by the container formats.
var (
	LittleEndian binary.ByteOrder = binary.LittleEndian // PC builds
	BigEndian    binary.ByteOrder = binary.BigEndian    // console builds
)

// DefaultOrder is the byte order used when none is configured.
var DefaultOrder = LittleEndian

var (
	// ErrReadOnly is returned when writing through a cursor opened for reading.
	ErrReadOnly = errors.New("stream: cursor is read-only")

	// ErrNoTruncate is returned when shrinking a stream whose writer cannot be truncated.
	ErrNoTruncate = errors.New("stream: writer cannot be truncated")
)

// Decoder is implemented by values that can deserialize themselves from a cursor.
type Decoder interface {
	DecodeFrom(c *Cursor) error
}

// Encoder is implemented by values that can serialize themselves to a cursor.
type Encoder interface {
	EncodeTo(c *Cursor) error
}

// Truncater is implemented by writers that can change their length, such as *os.File.
type Truncater interface {
	Truncate(size int64) error
}

// Cursor is a positioned view over a seekable stream.
// It is not safe for concurrent use.
type Cursor struct {
	r      io.ReadSeeker
	w      io.Writer
	order  binary.ByteOrder
	pos    int64
	length int64
	buf    [8]byte
}

// NewReader creates a read-only cursor positioned at the start of r.
// The stream length is measured once, up front.
func NewReader(r io.ReadSeeker, order binary.ByteOrder) (*Cursor, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measure stream: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind stream: %w", err)
	}
	return &Cursor{r: r, order: orderOrDefault(order), length: end}, nil
}

// NewReadWriter creates a cursor that can both read and write rws.
// Writing past the current length extends it.
func NewReadWriter(rws io.ReadWriteSeeker, order binary.ByteOrder) (*Cursor, error) {
	c, err := NewReader(rws, order)
	if err != nil {
		return nil, err
	}
	c.w = rws
	return c, nil
}

func orderOrDefault(order binary.ByteOrder) binary.ByteOrder {
	if order == nil {
		return DefaultOrder
	}
	return order
}

// Order returns the byte order used for integer fields.
func (c *Cursor) Order() binary.ByteOrder {
	return c.order
}

// Position returns the current absolute offset.
func (c *Cursor) Position() int64 {
	return c.pos
}

// Length returns the total byte length of the underlying stream.
func (c *Cursor) Length() int64 {
	return c.length
}

// Remaining returns the number of bytes between the cursor and the end of the stream.
func (c *Cursor) Remaining() int64 {
	if c.pos >= c.length {
		return 0
	}
	return c.length - c.pos
}

// IsEndOfStream reports whether the cursor sits exactly at the end of the stream.
func (c *Cursor) IsEndOfStream() bool {
	return c.pos == c.length
}

// SetPosition seeks to an absolute offset.
func (c *Cursor) SetPosition(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("seek to %d: negative offset", offset)
	}
	if _, err := c.r.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", offset, err)
	}
	c.pos = offset
	return nil
}

// Read implements io.Reader, advancing the cursor.
func (c *Cursor) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.pos += int64(n)
	return n, err
}

// Write implements io.Writer, advancing the cursor and extending the length if needed.
func (c *Cursor) Write(p []byte) (int, error) {
	if c.w == nil {
		return 0, ErrReadOnly
	}
	n, err := c.w.Write(p)
	c.pos += int64(n)
	if c.pos > c.length {
		c.length = c.pos
	}
	return n, err
}

// Truncate sets the stream length to size. Unless size already equals the
// length, the writer must implement Truncater. The position is left unchanged.
func (c *Cursor) Truncate(size int64) error {
	if c.w == nil {
		return ErrReadOnly
	}
	if size < 0 {
		return fmt.Errorf("truncate to %d: negative size", size)
	}
	if size == c.length {
		return nil
	}
	t, ok := c.w.(Truncater)
	if !ok {
		return fmt.Errorf("truncate %d bytes to %d: %w", c.length, size, ErrNoTruncate)
	}
	if err := t.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}
	c.length = size
	return nil
}

// ReadInt32 reads a signed 32-bit integer in the cursor's byte order.
func (c *Cursor) ReadInt32() (int32, error) {
	if _, err := io.ReadFull(c, c.buf[:4]); err != nil {
		return 0, err
	}
	return int32(c.order.Uint32(c.buf[:4])), nil
}

// WriteInt32 writes a signed 32-bit integer in the cursor's byte order.
func (c *Cursor) WriteInt32(v int32) error {
	c.order.PutUint32(c.buf[:4], uint32(v))
	_, err := c.Write(c.buf[:4])
	return err
}

// ReadValue decodes a value of type T from the cursor.
// T is selected statically; *T must implement Decoder.
func ReadValue[T any, PT interface {
	*T
	Decoder
}](c *Cursor) (T, error) {
	var v T
	if err := PT(&v).DecodeFrom(c); err != nil {
		return v, err
	}
	return v, nil
}

// WriteValue encodes v to the cursor.
func WriteValue(c *Cursor, v Encoder) error {
	return v.EncodeTo(c)
}
