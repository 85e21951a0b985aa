package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/EchoTools/resbundle/pkg/listing"
	"github.com/EchoTools/resbundle/pkg/offsets"
	"github.com/EchoTools/resbundle/pkg/stream"
)

// SizedAccessor is an accessor that knows the size of its archive.
type SizedAccessor interface {
	listing.Accessor
	Size() int64
}

var kindMagics = []struct {
	magic []byte
	kind  string
}{
	{[]byte("DDS "), "dds"},
	{[]byte("\x89PNG"), "png"},
	{[]byte("OggS"), "ogg"},
	{[]byte("RIFF"), "wav"},
	{[]byte("RBZ1"), "rbz"},
}

// SniffKind guesses a resource kind from its first bytes.
func SniffKind(prefix []byte) string {
	for _, m := range kindMagics {
		if bytes.HasPrefix(prefix, m.magic) {
			return m.kind
		}
	}
	return "bin"
}

// Index lists the resources of the container exposed by acc without
// materializing them. Entry offsets are absolute within the archive.
func Index(acc SizedAccessor, order binary.ByteOrder) (*listing.Listing, error) {
	whole, err := acc.EntryReader(listing.Entry{Offset: 0, Size: acc.Size()})
	if err != nil {
		return nil, err
	}
	c, err := stream.NewReader(whole, order)
	if err != nil {
		return nil, err
	}

	table, err := offsets.Read(c)
	if err != nil {
		return nil, fmt.Errorf("read offsets: %w", err)
	}
	base := table.HeaderSize()
	payloadLen := c.Length() - base
	if err := table.Validate(payloadLen); err != nil {
		return nil, fmt.Errorf("validate offsets: %w", err)
	}

	l := listing.NewWithCapacity(acc, table.Len())
	var prefix [4]byte
	for i, size := range table.Lengths(payloadLen) {
		offset := base + table.At(i)
		n, err := whole.ReadAt(prefix[:min(size, int64(len(prefix)))], offset)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("sniff resource %d: %w", i, err)
		}
		kind := SniffKind(prefix[:n])
		l.Append(listing.Entry{
			Name:      fmt.Sprintf("%04d", i),
			Extension: kind,
			Offset:    offset,
			Size:      size,
			Kind:      kind,
		})
	}
	return l, nil
}
