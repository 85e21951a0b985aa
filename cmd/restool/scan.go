package main

import (
	"os"
	"path/filepath"

	"github.com/EchoTools/resbundle/pkg/logger"
)

// scanResources returns the regular files directly inside inputDir, sorted by
// name. The sort order is the resource order in the packed container, so
// names produced by unpack (0000.bin, 0001.dds, ...) round-trip. An empty
// directory yields no files and packs to an empty container.
func scanResources(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(inputDir, entry.Name())
		if !entry.Type().IsRegular() {
			logger.Debug("Skipping non-regular entry", "path", path)
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		logger.Warn("No resources found, packing an empty container", "dir", inputDir)
	}
	return files, nil
}
