// Package main provides a command-line tool for working with resource containers.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/EchoTools/resbundle/pkg/config"
	"github.com/EchoTools/resbundle/pkg/logger"
)

var (
	mode           string
	inputPath      string
	outputDir      string
	byteOrder      string
	envFile        string
	kindFilter     string
	compress       bool
	forceOverwrite bool
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: list, unpack, pack, verify")
	flag.StringVar(&inputPath, "input", "", "Input container (list/unpack/verify) or directory (pack); more containers may follow as arguments")
	flag.StringVar(&outputDir, "output", "", "Output directory (unpack) or container file (pack)")
	flag.StringVar(&byteOrder, "order", "", "Header byte order: little or big (default from config)")
	flag.StringVar(&envFile, "env", "", "Path to .env file (default .env)")
	flag.StringVar(&kindFilter, "kinds", "", "Comma-separated resource kinds to unpack (default all)")
	flag.BoolVar(&compress, "compress", false, "Wrap packed containers in a zstd envelope")
	flag.BoolVar(&forceOverwrite, "force", false, "Allow non-empty output directory")
}

func main() {
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(extra []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if byteOrder != "" {
		if cfg.ByteOrder, err = config.ParseByteOrder(byteOrder); err != nil {
			return err
		}
	}
	logger.Init(cfg.LogLevel)

	if err := validateFlags(extra); err != nil {
		flag.Usage()
		return err
	}

	inputs := append([]string{inputPath}, extra...)

	switch mode {
	case "list":
		return runList(cfg, inputs, os.Stdout)
	case "verify":
		return runVerify(cfg, inputs)
	case "unpack":
		if err := prepareOutputDir(); err != nil {
			return err
		}
		return runUnpack(cfg, inputs, outputDir, parseKinds(kindFilter))
	case "pack":
		return runPack(cfg, inputPath, outputDir, compress)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func validateFlags(extra []string) error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}
	if inputPath == "" {
		return fmt.Errorf("input is required")
	}

	switch mode {
	case "list", "verify":
	case "unpack", "pack":
		if outputDir == "" {
			return fmt.Errorf("%s mode requires -output", mode)
		}
		if mode == "pack" && len(extra) > 0 {
			return fmt.Errorf("pack mode takes a single input directory, got extra arguments: %s", strings.Join(extra, " "))
		}
	default:
		return fmt.Errorf("mode must be 'list', 'unpack', 'pack' or 'verify'")
	}

	return nil
}

func parseKinds(s string) map[string]bool {
	if s == "" {
		return nil
	}
	kinds := make(map[string]bool)
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds[strings.ToLower(k)] = true
		}
	}
	return kinds
}

func prepareOutputDir() error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !forceOverwrite {
		empty, err := isDirEmpty(outputDir)
		if err != nil {
			return fmt.Errorf("check output directory: %w", err)
		}
		if !empty {
			return fmt.Errorf("output directory is not empty (use -force to override)")
		}
	}

	return nil
}

func isDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdir(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}
