// Package listing provides in-memory catalogs of archive entries.
//
// A Listing is bound to a single Accessor for its whole lifetime. The listing
// itself performs no validation; it is an ordered slice of entries plus the
// identity of the archive they came from.
package listing

import (
	"io"
	"iter"
	"slices"
)

// Entry describes one file inside an archive.
type Entry struct {
	Name      string
	Extension string
	Offset    int64
	Size      int64
	Kind      string
}

// FileName returns the entry name joined with its extension.
func (e Entry) FileName() string {
	if e.Extension == "" {
		return e.Name
	}
	return e.Name + "." + e.Extension
}

// Accessor supplies an archive's display name and raw entry bytes.
type Accessor interface {
	Name() string
	EntryReader(e Entry) (*io.SectionReader, error)
}

// Listing is an ordered collection of entries belonging to one accessor.
type Listing struct {
	accessor Accessor
	entries  []Entry
}

// New creates an empty listing bound to accessor.
func New(accessor Accessor) *Listing {
	return &Listing{accessor: accessor}
}

// NewWithCapacity creates an empty listing with room for n entries.
func NewWithCapacity(accessor Accessor, n int) *Listing {
	return &Listing{accessor: accessor, entries: make([]Entry, 0, n)}
}

// Name returns the accessor's current name.
func (l *Listing) Name() string {
	return l.accessor.Name()
}

// Accessor returns the accessor the listing was created with.
func (l *Listing) Accessor() Accessor {
	return l.accessor
}

// Append adds entries to the end of the listing.
func (l *Listing) Append(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// At returns entry i.
func (l *Listing) At(i int) Entry {
	return l.entries[i]
}

// Set replaces entry i.
func (l *Listing) Set(i int, e Entry) {
	l.entries[i] = e
}

// Len returns the number of entries.
func (l *Listing) Len() int {
	return len(l.entries)
}

// Cap returns the capacity of the underlying storage.
func (l *Listing) Cap() int {
	return cap(l.entries)
}

// All iterates over the entries in order.
func (l *Listing) All() iter.Seq2[int, Entry] {
	return slices.All(l.entries)
}

// Entries returns a copy of the entries.
func (l *Listing) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Open returns a reader over the raw bytes of entry i.
func (l *Listing) Open(i int) (*io.SectionReader, error) {
	return l.accessor.EntryReader(l.entries[i])
}
