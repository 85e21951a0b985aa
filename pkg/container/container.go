// Package container reads and writes resource containers: an offset table
// followed by the tightly packed payloads it describes.
//
// A container occupies its whole stream. The length of the last resource is
// not stored; it runs from its offset to the end of the stream.
package container

import (
	"fmt"

	"github.com/EchoTools/resbundle/pkg/offsets"
	"github.com/EchoTools/resbundle/pkg/stream"
)

// Container holds an offset table and the resources it describes.
type Container[R Resource] struct {
	Offsets   offsets.Table
	Resources []R
}

// New creates a container holding resources. Offsets are derived on Write.
func New[R Resource](resources ...R) *Container[R] {
	return &Container[R]{Resources: resources}
}

// Len returns the number of resources.
func (ct *Container[R]) Len() int {
	return len(ct.Resources)
}

// At returns resource i.
func (ct *Container[R]) At(i int) R {
	return ct.Resources[i]
}

// Set replaces resource i.
func (ct *Container[R]) Set(i int, r R) {
	ct.Resources[i] = r
}

// Read decodes a container from c, creating each resource with newResource.
func Read[R Resource](c *stream.Cursor, newResource func() R) (*Container[R], error) {
	if err := c.SetPosition(0); err != nil {
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
	lengths := table.Lengths(payloadLen)

	resources := make([]R, table.Len())
	for i := range resources {
		if err := c.SetPosition(base + table.At(i)); err != nil {
			return nil, fmt.Errorf("resource %d: %w", i, err)
		}
		r := newResource()
		if err := r.DecodeFrom(c, lengths[i]); err != nil {
			return nil, fmt.Errorf("decode resource %d: %w", i, err)
		}
		resources[i] = r
	}

	if !c.IsEndOfStream() {
		return nil, &TrailingDataError{Position: c.Position(), Length: c.Length()}
	}

	return &Container[R]{Offsets: table, Resources: resources}, nil
}

// ReadBlobs decodes a container of opaque blobs.
func ReadBlobs(c *stream.Cursor) (*Container[*Blob], error) {
	return Read(c, NewBlob)
}

// Write serializes the container to c, starting at the beginning of the stream.
// Offsets are recomputed from each resource's Size and stored back into the
// container once the write succeeds. A stream longer than the new container is
// truncated; if it cannot be, Write fails with ErrInconsistentState.
func (ct *Container[R]) Write(c *stream.Cursor) error {
	if err := c.SetPosition(0); err != nil {
		return err
	}
	table, err := offsets.Write(c, ct.Resources, func(r R) int64 { return r.Size() })
	if err != nil {
		return fmt.Errorf("write offsets: %w", err)
	}
	if table.Len() != len(ct.Resources) {
		return fmt.Errorf("%d offsets for %d resources: %w", table.Len(), len(ct.Resources), ErrInconsistentState)
	}

	base := table.HeaderSize()
	for i, r := range ct.Resources {
		start := c.Position()
		if want := base + table.At(i); start != want {
			return fmt.Errorf("resource %d starts at %d, table says %d: %w", i, start, want, ErrInconsistentState)
		}
		if err := r.EncodeTo(c); err != nil {
			return fmt.Errorf("encode resource %d: %w", i, err)
		}
		if n := c.Position() - start; n != r.Size() {
			return fmt.Errorf("resource %d wrote %d bytes, reported size %d: %w", i, n, r.Size(), ErrInconsistentState)
		}
	}

	// Drop whatever an earlier, longer container left behind.
	if end := c.Position(); end < c.Length() {
		if err := c.Truncate(end); err != nil {
			return fmt.Errorf("%d stale bytes after container: %w: %w", c.Length()-end, ErrInconsistentState, err)
		}
	}

	ct.Offsets = table
	return nil
}
