package offsets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoTools/resbundle/pkg/stream"
)

func newCursor(t *testing.T, data []byte) *stream.Cursor {
	t.Helper()
	c, err := stream.NewReadWriter(stream.NewBuffer(data), stream.LittleEndian)
	require.NoError(t, err)
	return c
}

func TestCompute(t *testing.T) {
	t.Run("PrefixSum", func(t *testing.T) {
		table, err := Compute([]int64{10, 15, 15})
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 10, 25}, table.Offsets())
	})

	t.Run("ZeroSizes", func(t *testing.T) {
		table, err := Compute([]int64{0, 0, 4, 0})
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 0, 0, 4}, table.Offsets())
	})

	t.Run("Empty", func(t *testing.T) {
		table, err := Compute(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
		assert.Equal(t, int64(FieldSize), table.HeaderSize())
	})

	t.Run("NegativeSize", func(t *testing.T) {
		_, err := Compute([]int64{4, -1})
		require.ErrorIs(t, err, ErrNegativeSize)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := Compute([]int64{math.MaxInt32, 1, 1})
		require.ErrorIs(t, err, ErrOffsetOverflow)
	})
}

func TestLengths(t *testing.T) {
	table := New(0, 10, 25)
	require.NoError(t, table.Validate(40))
	assert.Equal(t, []int64{10, 15, 15}, table.Lengths(40))
	assert.Equal(t, []int64{10, 15, 16}, table.Lengths(41))
}

func TestValidate(t *testing.T) {
	t.Run("NonMonotonic", func(t *testing.T) {
		err := New(0, 20, 10).Validate(40)
		require.ErrorIs(t, err, ErrNonMonotonic)
	})

	t.Run("NegativeFirst", func(t *testing.T) {
		err := New(-4, 0).Validate(40)
		require.ErrorIs(t, err, ErrNonMonotonic)
	})

	t.Run("PastPayload", func(t *testing.T) {
		err := New(0, 50).Validate(40)
		require.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("OffsetAtEnd", func(t *testing.T) {
		require.NoError(t, New(0, 40).Validate(40))
	})
}

func TestReadWrite(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		c := newCursor(t, nil)
		sizes := []int{10, 15, 15}
		written, err := Write(c, sizes, func(n int) int64 { return int64(n) })
		require.NoError(t, err)
		assert.Equal(t, int64(16), c.Position())

		require.NoError(t, c.SetPosition(0))
		read, err := Read(c)
		require.NoError(t, err)
		assert.True(t, written.Equal(read))
		assert.Equal(t, []int32{0, 10, 25}, read.Offsets())
	})

	t.Run("CursorValue", func(t *testing.T) {
		c := newCursor(t, nil)
		require.NoError(t, stream.WriteValue(c, New(0, 3, 3)))

		require.NoError(t, c.SetPosition(0))
		got, err := stream.ReadValue[Table](c)
		require.NoError(t, err)
		assert.Equal(t, []int32{0, 3, 3}, got.Offsets())
		assert.True(t, c.IsEndOfStream())
	})

	t.Run("LayoutLittleEndian", func(t *testing.T) {
		buf := stream.NewBuffer(nil)
		c, err := stream.NewReadWriter(buf, stream.LittleEndian)
		require.NoError(t, err)
		require.NoError(t, WriteTable(c, New(0, 7)))
		assert.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0, 7, 0, 0, 0}, buf.Bytes())
	})

	t.Run("LayoutBigEndian", func(t *testing.T) {
		buf := stream.NewBuffer(nil)
		c, err := stream.NewReadWriter(buf, stream.BigEndian)
		require.NoError(t, err)
		require.NoError(t, WriteTable(c, New(0, 7)))
		assert.Equal(t, []byte{0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 7}, buf.Bytes())
	})

	t.Run("EmptyStream", func(t *testing.T) {
		_, err := Read(newCursor(t, nil))
		require.ErrorIs(t, err, ErrMalformedHeader)
	})

	t.Run("TruncatedCount", func(t *testing.T) {
		_, err := Read(newCursor(t, []byte{1, 0}))
		require.ErrorIs(t, err, ErrMalformedHeader)
	})

	t.Run("TruncatedOffsets", func(t *testing.T) {
		// Declares three entries but only carries two offsets and a partial third.
		data := []byte{3, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 8, 0}
		_, err := Read(newCursor(t, data))
		require.ErrorIs(t, err, ErrMalformedHeader)
	})

	t.Run("NegativeCount", func(t *testing.T) {
		_, err := Read(newCursor(t, []byte{0xff, 0xff, 0xff, 0xff}))
		require.ErrorIs(t, err, ErrMalformedHeader)
	})

	t.Run("ZeroCount", func(t *testing.T) {
		table, err := Read(newCursor(t, []byte{0, 0, 0, 0}))
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})
}
