//go:build cgo

package archive

import (
	"io"

	"github.com/DataDog/zstd"
)

const (
	// DefaultCompressionLevel is the default compression level for encoding.
	DefaultCompressionLevel = zstd.BestSpeed

	// Codec names the zstd implementation compiled in.
	Codec = "libzstd"
)

func newDecompressor(r io.Reader) (io.ReadCloser, error) {
	return zstd.NewReader(r), nil
}

func newCompressor(w io.Writer, level int) (io.WriteCloser, error) {
	return zstd.NewWriterLevel(w, level), nil
}
