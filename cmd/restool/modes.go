package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/EchoTools/resbundle/pkg/archive"
	"github.com/EchoTools/resbundle/pkg/config"
	"github.com/EchoTools/resbundle/pkg/container"
	"github.com/EchoTools/resbundle/pkg/listing"
	"github.com/EchoTools/resbundle/pkg/logger"
)

// forEachInput runs fn for every input on up to cfg.Workers goroutines.
// Each call owns its own file and cursor.
func forEachInput(cfg *config.Config, inputs []string, fn func(i int, path string) error) error {
	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for i, path := range inputs {
		g.Go(func() error {
			if err := fn(i, path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// openListing loads a container file and indexes its resources.
func openListing(path string, order binary.ByteOrder) (*listing.Listing, []byte, error) {
	data, err := container.Load(path)
	if err != nil {
		return nil, nil, err
	}
	acc := listing.NewSectionAccessor(filepath.Base(path), bytes.NewReader(data), int64(len(data)))
	l, err := container.Index(acc, order)
	if err != nil {
		return nil, nil, err
	}
	return l, data, nil
}

func runList(cfg *config.Config, inputs []string, out io.Writer) error {
	reports := make([]string, len(inputs))

	err := forEachInput(cfg, inputs, func(i int, path string) error {
		l, _, err := openListing(path, cfg.ByteOrder)
		if err != nil {
			return err
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s: %d resources\n", l.Name(), l.Len())
		tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		for j, e := range l.All() {
			r, err := l.Open(j)
			if err != nil {
				return err
			}
			d, err := digest.Canonical.FromReader(r)
			if err != nil {
				return fmt.Errorf("digest %s: %w", e.FileName(), err)
			}
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n", e.FileName(), e.Size, e.Kind, d)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		reports[i] = sb.String()
		return nil
	})
	if err != nil {
		return err
	}

	for _, report := range reports {
		if _, err := io.WriteString(out, report); err != nil {
			return err
		}
	}
	return nil
}

func runVerify(cfg *config.Config, inputs []string) error {
	return forEachInput(cfg, inputs, func(_ int, path string) error {
		data, err := container.Load(path)
		if err != nil {
			return err
		}
		ct, err := container.Unmarshal(data, cfg.ByteOrder)
		if err != nil {
			return err
		}
		rewritten, err := container.Marshal(ct, cfg.ByteOrder)
		if err != nil {
			return err
		}
		if !bytes.Equal(data, rewritten) {
			return fmt.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(data), len(rewritten))
		}
		logger.Info("Verified container", "file", path, "resources", ct.Len(), "digest", digest.FromBytes(data))
		return nil
	})
}

func runUnpack(cfg *config.Config, inputs []string, outputDir string, kinds map[string]bool) error {
	var opts []listing.ExtractOption
	opts = append(opts, listing.WithOverwrite(forceOverwrite))
	if len(kinds) > 0 {
		opts = append(opts, listing.WithFilter(func(e listing.Entry) bool { return kinds[e.Kind] }))
	}

	dests, err := unpackDirs(inputs, outputDir)
	if err != nil {
		return err
	}

	return forEachInput(cfg, inputs, func(i int, path string) error {
		l, data, err := openListing(path, cfg.ByteOrder)
		if err != nil {
			return err
		}
		// Full decode enforces the trailing-data check the index skips.
		if _, err := container.Unmarshal(data, cfg.ByteOrder); err != nil {
			return err
		}

		dest := dests[i]
		if err := os.MkdirAll(dest, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		n, err := listing.Extract(l, dest, opts...)
		if err != nil {
			return err
		}
		logger.Info("Unpacked container", "file", path, "resources", l.Len(), "written", n, "dir", dest)
		return nil
	})
}

// unpackDirs maps each input to outputDir/<stem> and rejects inputs that share a stem.
func unpackDirs(inputs []string, outputDir string) ([]string, error) {
	dests := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, path := range inputs {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if prev, ok := seen[stem]; ok {
			return nil, fmt.Errorf("%s and %s both unpack to %s", prev, path, filepath.Join(outputDir, stem))
		}
		seen[stem] = path
		dests[i] = filepath.Join(outputDir, stem)
	}
	return dests, nil
}

func runPack(cfg *config.Config, inputDir, outputPath string, compress bool) error {
	files, err := scanResources(inputDir)
	if err != nil {
		return fmt.Errorf("scan resources: %w", err)
	}
	logger.Info("Scanned input directory", "dir", inputDir, "resources", len(files))

	resources := make([]*container.Blob, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read resource: %w", err)
		}
		resources[i] = &container.Blob{Data: data}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	ct := container.New(resources...)
	opts := container.WriteOptions{Compress: compress, CompressionLevel: cfg.CompressionLevel}
	if err := container.WriteFile(outputPath, ct, cfg.ByteOrder, opts); err != nil {
		return err
	}

	logger.Info("Packed container", "file", outputPath, "resources", ct.Len(), "compressed", compress, "codec", archive.Codec)
	return nil
}
