package listing

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// extractConfig holds extraction options.
type extractConfig struct {
	filter    func(Entry) bool
	overwrite bool
}

// ExtractOption configures extraction behavior.
type ExtractOption func(*extractConfig)

// WithFilter extracts only entries for which keep returns true.
func WithFilter(keep func(Entry) bool) ExtractOption {
	return func(c *extractConfig) {
		c.filter = keep
	}
}

// WithOverwrite allows replacing files that already exist in the output directory.
func WithOverwrite(overwrite bool) ExtractOption {
	return func(c *extractConfig) {
		c.overwrite = overwrite
	}
}

// Extract writes the selected entries of l into outputDir and returns the
// number of files written. Names are decoded with DecodeName and must then be
// local paths.
func Extract(l *Listing, outputDir string, opts ...ExtractOption) (int, error) {
	cfg := &extractConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	createdDirs := make(map[string]struct{})
	written := 0

	for i, e := range l.All() {
		if cfg.filter != nil && !cfg.filter(e) {
			continue
		}

		name, err := DecodeName([]byte(e.FileName()))
		if err != nil {
			return written, fmt.Errorf("entry %d: %w", i, err)
		}
		if !filepath.IsLocal(name) {
			return written, &fs.PathError{Op: "extract", Path: name, Err: fs.ErrInvalid}
		}
		path := filepath.Join(outputDir, name)

		dir := filepath.Dir(path)
		if _, exists := createdDirs[dir]; !exists {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return written, fmt.Errorf("create dir %s: %w", dir, err)
			}
			createdDirs[dir] = struct{}{}
		}

		src, err := l.Open(i)
		if err != nil {
			return written, fmt.Errorf("open entry %d: %w", i, err)
		}
		if err := writeEntry(path, src, cfg.overwrite); err != nil {
			return written, err
		}
		written++
	}

	return written, nil
}

func writeEntry(path string, src io.Reader, overwrite bool) (err error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("write file %s: %w (use overwrite)", path, err)
		}
		return fmt.Errorf("write file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close file %s: %w", path, cerr)
		}
	}()

	if _, err := io.Copy(f, src); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}
