package listing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrEntryOutOfRange is returned when an entry's byte range lies outside the archive.
var ErrEntryOutOfRange = errors.New("entry outside archive bounds")

// SectionAccessor serves entries as sections of an io.ReaderAt.
type SectionAccessor struct {
	name string
	r    io.ReaderAt
	size int64
}

// NewSectionAccessor creates an accessor over size bytes of r.
func NewSectionAccessor(name string, r io.ReaderAt, size int64) *SectionAccessor {
	return &SectionAccessor{name: name, r: r, size: size}
}

// Name returns the display name.
func (a *SectionAccessor) Name() string {
	return a.name
}

// Rename changes the display name. Listings bound to the accessor see it immediately.
func (a *SectionAccessor) Rename(name string) {
	a.name = name
}

// Size returns the archive size in bytes.
func (a *SectionAccessor) Size() int64 {
	return a.size
}

// EntryReader returns a reader over the entry's byte range.
func (a *SectionAccessor) EntryReader(e Entry) (*io.SectionReader, error) {
	if e.Offset < 0 || e.Size < 0 || e.Offset > a.size || e.Size > a.size-e.Offset {
		return nil, fmt.Errorf("%s [%d, +%d) in %d bytes: %w", e.FileName(), e.Offset, e.Size, a.size, ErrEntryOutOfRange)
	}
	return io.NewSectionReader(a.r, e.Offset, e.Size), nil
}

// FileAccessor is a SectionAccessor backed by an open file.
type FileAccessor struct {
	*SectionAccessor
	file *os.File
}

// OpenFile opens path for entry access. The accessor is named after the file.
func OpenFile(path string) (*FileAccessor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat archive: %w", err)
	}
	return &FileAccessor{
		SectionAccessor: NewSectionAccessor(filepath.Base(path), f, info.Size()),
		file:            f,
	}, nil
}

// Close closes the underlying file.
func (a *FileAccessor) Close() error {
	return a.file.Close()
}
