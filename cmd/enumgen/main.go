// Command enumgen generates the Go declarations of enumeration types from a YAML manifest.
//
// Usage:
//
//	enumgen -in cards.yaml [-out cards_enum.go]
//
// Typically run through go:generate:
//
//	//go:generate go run github.com/xy-planning-network/enum/cmd/enumgen -in cards.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xy-planning-network/enum/config"
	"github.com/xy-planning-network/enum/internal/gen"
	"github.com/xy-planning-network/enum/logger"
)

func main() {
	l := logger.NewLogger(logger.WithLevel(config.EnvVarOrLogLevel("LOG_LEVEL", logger.LogLevelInfo)))

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}

		l.Error(err.Error(), &logger.LogContext{Error: err})
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("enumgen", flag.ContinueOnError)
	in := fs.String("in", "", "path to the YAML manifest")
	out := fs.String("out", "", `path to write the Go source to; defaults to the manifest path with "_enum.go" replacing its extension`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" {
		fs.Usage()
		return flag.ErrHelp
	}

	if *out == "" {
		*out = strings.TrimSuffix(*in, filepath.Ext(*in)) + "_enum.go"
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("could not open manifest: %w", err)
	}
	defer f.Close()

	m, err := gen.ParseManifest(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}

	src, err := gen.Generate(m, filepath.Base(*in))
	if err != nil {
		return fmt.Errorf("%s: %w", *in, err)
	}

	if err := os.WriteFile(*out, src, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", *out, err)
	}

	return nil
}
