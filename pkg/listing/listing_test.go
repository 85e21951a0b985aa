package listing

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renamableAccessor is an Accessor whose name can change under a listing.
type renamableAccessor struct {
	name string
	data []byte
}

func (a *renamableAccessor) Name() string { return a.name }

func (a *renamableAccessor) EntryReader(e Entry) (*io.SectionReader, error) {
	return io.NewSectionReader(bytes.NewReader(a.data), e.Offset, e.Size), nil
}

func TestListingIdentity(t *testing.T) {
	acc := &renamableAccessor{name: "X"}
	l := New(acc)
	assert.Equal(t, "X", l.Name())
	assert.Same(t, acc, l.Accessor())

	acc.name = "Y"
	assert.Equal(t, "Y", l.Name())
}

func TestListingSequence(t *testing.T) {
	entries := []Entry{
		{Name: "a", Extension: "txt", Offset: 0, Size: 3},
		{Name: "b", Offset: 3, Size: 0},
		{Name: "c", Extension: "bin", Offset: 3, Size: 5},
	}

	t.Run("Append", func(t *testing.T) {
		l := New(&renamableAccessor{})
		l.Append(entries[0])
		l.Append(entries[1:]...)
		require.Equal(t, 3, l.Len())
		assert.Equal(t, entries[2], l.At(2))
		assert.Equal(t, entries, l.Entries())
	})

	t.Run("CapacityHint", func(t *testing.T) {
		hinted := NewWithCapacity(&renamableAccessor{}, len(entries))
		assert.Equal(t, 0, hinted.Len())
		assert.GreaterOrEqual(t, hinted.Cap(), len(entries))

		plain := New(&renamableAccessor{})
		for _, e := range entries {
			hinted.Append(e)
			plain.Append(e)
		}
		assert.Equal(t, plain.Entries(), hinted.Entries())
	})

	t.Run("All", func(t *testing.T) {
		l := New(&renamableAccessor{})
		l.Append(entries...)
		var names []string
		for i, e := range l.All() {
			assert.Equal(t, entries[i], e)
			names = append(names, e.FileName())
		}
		assert.Equal(t, []string{"a.txt", "b", "c.bin"}, names)
	})

	t.Run("SetAndCopy", func(t *testing.T) {
		l := New(&renamableAccessor{})
		l.Append(entries...)
		snapshot := l.Entries()
		l.Set(0, Entry{Name: "z"})
		assert.Equal(t, "z", l.At(0).Name)
		assert.Equal(t, "a", snapshot[0].Name)
	})

	t.Run("Open", func(t *testing.T) {
		l := New(&renamableAccessor{data: []byte("abcdefgh")})
		l.Append(entries...)
		r, err := l.Open(2)
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "defgh", string(data))
	})
}

func TestSectionAccessor(t *testing.T) {
	data := []byte("0123456789")
	acc := NewSectionAccessor("disk.bin", bytes.NewReader(data), int64(len(data)))
	l := New(acc)

	acc.Rename("renamed.bin")
	assert.Equal(t, "renamed.bin", l.Name())
	assert.Equal(t, int64(10), acc.Size())

	r, err := acc.EntryReader(Entry{Offset: 7, Size: 3})
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "789", string(got))

	for _, e := range []Entry{
		{Offset: 8, Size: 3},
		{Offset: -1, Size: 1},
		{Offset: 11, Size: 0},
		{Offset: 0, Size: -2},
	} {
		_, err := acc.EntryReader(e)
		assert.ErrorIs(t, err, ErrEntryOutOfRange, "entry %+v", e)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.dat")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0644))

	acc, err := OpenFile(path)
	require.NoError(t, err)
	defer acc.Close()

	assert.Equal(t, "archive.dat", acc.Name())
	r, err := acc.EntryReader(Entry{Offset: 3, Size: 4})
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "load", string(got))

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

// sjisTest is "テスト" encoded as Shift-JIS.
const sjisTest = "\x83\x65\x83\x58\x83\x67"

func TestDecodeName(t *testing.T) {
	t.Run("ASCII", func(t *testing.T) {
		name, err := DecodeName([]byte("model\x00\x00\x00"))
		require.NoError(t, err)
		assert.Equal(t, "model", name)
	})

	t.Run("ShiftJIS", func(t *testing.T) {
		name, err := DecodeName(append([]byte(sjisTest), 0, 0, 0, 0))
		require.NoError(t, err)
		assert.Equal(t, "テスト", name)
	})

	t.Run("NFC", func(t *testing.T) {
		// "e" followed by a combining acute accent composes to U+00E9.
		name, err := DecodeName([]byte("cafe\u0301"))
		require.NoError(t, err)
		assert.Equal(t, "caf\u00e9", name)
	})
}

func TestExtract(t *testing.T) {
	data := []byte("aaabbbbbcc")
	newListing := func() *Listing {
		l := NewWithCapacity(NewSectionAccessor("test", bytes.NewReader(data), int64(len(data))), 3)
		l.Append(
			Entry{Name: "first", Extension: "txt", Offset: 0, Size: 3},
			Entry{Name: "sub/second", Extension: "bin", Offset: 3, Size: 5},
			Entry{Name: "third", Offset: 8, Size: 2},
		)
		return l
	}

	t.Run("All", func(t *testing.T) {
		dir := t.TempDir()
		n, err := Extract(newListing(), dir)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		got, err := os.ReadFile(filepath.Join(dir, "sub", "second.bin"))
		require.NoError(t, err)
		assert.Equal(t, "bbbbb", string(got))
	})

	t.Run("Filter", func(t *testing.T) {
		dir := t.TempDir()
		n, err := Extract(newListing(), dir, WithFilter(func(e Entry) bool { return e.Extension == "txt" }))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = os.Stat(filepath.Join(dir, "third"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("Overwrite", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Extract(newListing(), dir)
		require.NoError(t, err)

		_, err = Extract(newListing(), dir)
		require.ErrorIs(t, err, fs.ErrExist)

		n, err := Extract(newListing(), dir, WithOverwrite(true))
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("LegacyNames", func(t *testing.T) {
		dir := t.TempDir()
		l := New(NewSectionAccessor("legacy", bytes.NewReader(data), int64(len(data))))
		l.Append(
			Entry{Name: sjisTest, Extension: "bin", Offset: 0, Size: 3},
			Entry{Name: "cafe\u0301", Offset: 3, Size: 5},
		)

		n, err := Extract(l, dir)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		got, err := os.ReadFile(filepath.Join(dir, "テスト.bin"))
		require.NoError(t, err)
		assert.Equal(t, "aaa", string(got))
		got, err = os.ReadFile(filepath.Join(dir, "caf\u00e9"))
		require.NoError(t, err)
		assert.Equal(t, "bbbbb", string(got))
	})

	t.Run("RejectsTraversal", func(t *testing.T) {
		dir := t.TempDir()
		l := New(NewSectionAccessor("evil", bytes.NewReader(data), int64(len(data))))
		l.Append(Entry{Name: "../escape", Offset: 0, Size: 1})

		_, err := Extract(l, dir)
		var pathErr *fs.PathError
		require.ErrorAs(t, err, &pathErr)
		require.ErrorIs(t, pathErr.Err, fs.ErrInvalid)
		_, statErr := os.Stat(filepath.Join(dir, "..", "escape"))
		require.Error(t, statErr)
	})
}
