// Package config loads tool settings from the environment and an optional .env file.
//
// Environment variables take precedence over values from the file.
package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/EchoTools/resbundle/pkg/stream"
)

// Environment variable names.
const (
	EnvLogLevel         = "RESBUNDLE_LOG_LEVEL"
	EnvByteOrder        = "RESBUNDLE_BYTE_ORDER"
	EnvCompressionLevel = "RESBUNDLE_COMPRESSION_LEVEL"
	EnvWorkers          = "RESBUNDLE_WORKERS"
)

// DefaultEnvFile is the file Load reads when given an empty path.
const DefaultEnvFile = ".env"

// Config holds settings shared by the command-line tools.
type Config struct {
	LogLevel         string
	ByteOrder        binary.ByteOrder
	CompressionLevel int // 0 selects the codec default
	Workers          int
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "INFO",
		ByteOrder: stream.DefaultOrder,
		Workers:   runtime.NumCPU(),
	}
}

// Load builds a Config from path (DefaultEnvFile if empty) and the process
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	fileVars, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileVars[key]
	}

	cfg := Default()
	if v := lookup(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToUpper(v)
	}
	if v := lookup(EnvByteOrder); v != "" {
		order, err := ParseByteOrder(v)
		if err != nil {
			return nil, err
		}
		cfg.ByteOrder = order
	}
	if v := lookup(EnvCompressionLevel); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvCompressionLevel, err)
		}
		cfg.CompressionLevel = level
	}
	if v := lookup(EnvWorkers); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		if workers < 1 {
			return nil, fmt.Errorf("%s: must be at least 1, got %d", EnvWorkers, workers)
		}
		cfg.Workers = workers
	}

	return cfg, nil
}

// ParseByteOrder accepts "little"/"le" and "big"/"be" in any case.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "little", "le":
		return stream.LittleEndian, nil
	case "big", "be":
		return stream.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q (want little or big)", s)
	}
}
