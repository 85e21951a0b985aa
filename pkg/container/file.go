package container

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/EchoTools/resbundle/pkg/archive"
	"github.com/EchoTools/resbundle/pkg/stream"
)

// Marshal serializes a container of blobs to bytes.
func Marshal(ct *Container[*Blob], order binary.ByteOrder) ([]byte, error) {
	buf := stream.NewBuffer(nil)
	c, err := stream.NewReadWriter(buf, order)
	if err != nil {
		return nil, err
	}
	if err := ct.Write(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a container of blobs from data.
func Unmarshal(data []byte, order binary.ByteOrder) (*Container[*Blob], error) {
	c, err := stream.NewReader(bytes.NewReader(data), order)
	if err != nil {
		return nil, err
	}
	return ReadBlobs(c)
}

// Load returns the raw container bytes stored at path, unwrapping a
// compressed envelope if present.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	if !archive.IsEnvelope(data) {
		return data, nil
	}
	raw, err := archive.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return raw, nil
}

// ReadFile reads and decodes a container file.
func ReadFile(path string, order binary.ByteOrder) (*Container[*Blob], error) {
	data, err := Load(path)
	if err != nil {
		return nil, err
	}
	ct, err := Unmarshal(data, order)
	if err != nil {
		return nil, fmt.Errorf("parse container %s: %w", path, err)
	}
	return ct, nil
}

// WriteOptions controls how WriteFile stores a container.
type WriteOptions struct {
	Compress         bool
	CompressionLevel int
}

// WriteFile writes a container to path, optionally inside a compressed envelope.
func WriteFile(path string, ct *Container[*Blob], order binary.ByteOrder, opts WriteOptions) error {
	data, err := Marshal(ct, order)
	if err != nil {
		return fmt.Errorf("marshal container: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if !opts.Compress {
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("write container: %w", err)
		}
		return f.Close()
	}

	var envelopeOpts []archive.WriterOption
	if opts.CompressionLevel != 0 {
		envelopeOpts = append(envelopeOpts, archive.WithCompressionLevel(opts.CompressionLevel))
	}
	if err := archive.Encode(f, data, envelopeOpts...); err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return f.Close()
}
