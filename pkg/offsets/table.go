// Package offsets implements the offset table that heads every resource container.
//
// On disk the table is a signed 32-bit entry count followed by one signed
// 32-bit offset per entry, in the cursor's byte order:
//
//	count:int32, offset[0..count):int32
//
// Offsets are relative to the payload region, which starts immediately after
// the table. The first offset is therefore always zero for well-formed input.
package offsets

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/EchoTools/resbundle/pkg/stream"
)

// FieldSize is the width in bytes of the count and of each offset.
const FieldSize = 4

var (
	// ErrMalformedHeader means the stream ended before the declared table was read,
	// or the declared count cannot describe a table that fits in the stream.
	ErrMalformedHeader = errors.New("malformed offset table header")

	// ErrNonMonotonic means an offset is smaller than its predecessor.
	ErrNonMonotonic = errors.New("offset table is not monotonic")

	// ErrOutOfRange means an offset points past the end of the payload region.
	ErrOutOfRange = errors.New("offset outside payload region")

	// ErrNegativeSize means a resource reported a negative size.
	ErrNegativeSize = errors.New("negative resource size")

	// ErrOffsetOverflow means an offset does not fit in the 32-bit field.
	ErrOffsetOverflow = errors.New("offset exceeds 32-bit range")
)

var (
	_ stream.Decoder = (*Table)(nil)
	_ stream.Encoder = Table{}
)

// Table is an ordered sequence of payload-relative offsets, one per resource.
type Table struct {
	offsets []int32
}

// New creates a table from explicit offsets. The slice is copied.
func New(offsets ...int32) Table {
	return Table{offsets: append([]int32(nil), offsets...)}
}

// Len returns the number of entries.
func (t Table) Len() int {
	return len(t.offsets)
}

// At returns the offset of entry i.
func (t Table) At(i int) int64 {
	return int64(t.offsets[i])
}

// Offsets returns a copy of the raw offsets.
func (t Table) Offsets() []int32 {
	return append([]int32(nil), t.offsets...)
}

// HeaderSize returns the serialized size of the table, which is also the
// absolute position of the payload region.
func (t Table) HeaderSize() int64 {
	return HeaderSize(len(t.offsets))
}

// HeaderSize returns the serialized size of a table with count entries.
func HeaderSize(count int) int64 {
	return FieldSize * (1 + int64(count))
}

// Validate checks that offsets are non-decreasing and lie within a payload
// region of payloadLen bytes.
func (t Table) Validate(payloadLen int64) error {
	var prev int64
	for i, off := range t.offsets {
		o := int64(off)
		if o < prev {
			return fmt.Errorf("entry %d: offset %d after %d: %w", i, o, prev, ErrNonMonotonic)
		}
		if o > payloadLen {
			return fmt.Errorf("entry %d: offset %d beyond payload length %d: %w", i, o, payloadLen, ErrOutOfRange)
		}
		prev = o
	}
	return nil
}

// Lengths derives the byte length of every entry. Each entry runs to the next
// offset; the final entry runs to the end of a payload region of payloadLen bytes.
// The table must already be valid for payloadLen.
func (t Table) Lengths(payloadLen int64) []int64 {
	n := len(t.offsets)
	lengths := make([]int64, n)
	for i := range n {
		end := payloadLen
		if i < n-1 {
			end = int64(t.offsets[i+1])
		}
		lengths[i] = end - int64(t.offsets[i])
	}
	return lengths
}

// Equal reports whether two tables hold the same offsets.
func (t Table) Equal(other Table) bool {
	if len(t.offsets) != len(other.offsets) {
		return false
	}
	for i := range t.offsets {
		if t.offsets[i] != other.offsets[i] {
			return false
		}
	}
	return true
}

// Read decodes a table from the cursor's current position.
func Read(c *stream.Cursor) (Table, error) {
	return stream.ReadValue[Table](c)
}

// DecodeFrom implements stream.Decoder.
func (t *Table) DecodeFrom(c *stream.Cursor) error {
	count, err := c.ReadInt32()
	if err != nil {
		return fmt.Errorf("read entry count: %w", headerErr(err))
	}
	if count < 0 {
		return fmt.Errorf("entry count %d: %w", count, ErrMalformedHeader)
	}
	// Reject counts whose offsets cannot fit before allocating for them.
	if int64(count)*FieldSize > c.Remaining() {
		return fmt.Errorf("entry count %d needs %d bytes, %d remain: %w",
			count, int64(count)*FieldSize, c.Remaining(), ErrMalformedHeader)
	}

	offsets := make([]int32, count)
	for i := range offsets {
		if offsets[i], err = c.ReadInt32(); err != nil {
			return fmt.Errorf("read offset %d: %w", i, headerErr(err))
		}
	}
	t.offsets = offsets
	return nil
}

func headerErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	return err
}

// Compute derives offsets from resource sizes by prefix sum starting at zero.
func Compute(sizes []int64) (Table, error) {
	offsets := make([]int32, len(sizes))
	var next int64
	for i, size := range sizes {
		if size < 0 {
			return Table{}, fmt.Errorf("entry %d: size %d: %w", i, size, ErrNegativeSize)
		}
		if next > math.MaxInt32 {
			return Table{}, fmt.Errorf("entry %d: offset %d: %w", i, next, ErrOffsetOverflow)
		}
		offsets[i] = int32(next)
		next += size
	}
	return Table{offsets: offsets}, nil
}

// Write computes offsets for items using sizeOf and writes the table.
// sizeOf lets callers supply computed sizes instead of cached fields.
func Write[T any](c *stream.Cursor, items []T, sizeOf func(T) int64) (Table, error) {
	sizes := make([]int64, len(items))
	for i, item := range items {
		sizes[i] = sizeOf(item)
	}
	t, err := Compute(sizes)
	if err != nil {
		return Table{}, err
	}
	if err := WriteTable(c, t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// WriteTable writes the count and then every offset.
func WriteTable(c *stream.Cursor, t Table) error {
	return stream.WriteValue(c, t)
}

// EncodeTo implements stream.Encoder.
func (t Table) EncodeTo(c *stream.Cursor) error {
	if int64(len(t.offsets)) > math.MaxInt32 {
		return fmt.Errorf("entry count %d: %w", len(t.offsets), ErrOffsetOverflow)
	}
	if err := c.WriteInt32(int32(len(t.offsets))); err != nil {
		return fmt.Errorf("write entry count: %w", err)
	}
	for i, off := range t.offsets {
		if err := c.WriteInt32(off); err != nil {
			return fmt.Errorf("write offset %d: %w", i, err)
		}
	}
	return nil
}
