// seehuhn.de/go/pageview - incremental page rendering for document viewers
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command pageview renders frames of a document viewer without a window.
//
// The viewer state is driven by a script of commands (see parseScript),
// and every frame is written as a PNG file once all visible pages are
// rendered.
//
// Usage:
//
//	pageview [flags] file.pdf
//	pageview [flags] --synthetic 20
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"seehuhn.de/go/pageview"
	"seehuhn.de/go/pageview/config"
	"seehuhn.de/go/pageview/cursor"
	"seehuhn.de/go/pageview/document"
	"seehuhn.de/go/pageview/pdfdoc"
	"seehuhn.de/go/pageview/testdoc"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		outDir      string
		script      string
		synthetic   int
		workers     int
		darkMode    bool
		logLevel    string
		width       int
		height      int
		outputScale float64
		timeout     time.Duration
		showVersion bool
		showHelp    bool
	)

	pflag.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pflag.StringVarP(&outDir, "out", "o", "frames", "Directory for the PNG frames")
	pflag.StringVarP(&script, "script", "s", "show", "Comma separated viewer commands")
	pflag.IntVar(&synthetic, "synthetic", 0, "Use a generated document with this many pages")
	pflag.IntVarP(&workers, "workers", "j", -1, "Number of render workers (0 = one per CPU)")
	pflag.BoolVar(&darkMode, "dark", false, "Invert the colours of the frames")
	pflag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pflag.IntVar(&width, "width", 0, "Width of the view in pixels")
	pflag.IntVar(&height, "height", 0, "Height of the view in pixels")
	pflag.Float64Var(&outputScale, "output-scale", 1, "Scale the frames by this factor before saving")
	pflag.DurationVar(&timeout, "timeout", 30*time.Second, "Maximum time to wait for the pages of a frame")
	pflag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show help message")
	pflag.Parse()

	if showHelp {
		printHelp()
		return 0
	}
	if showVersion {
		fmt.Printf("pageview version %s\n", version)
		return 0
	}

	if configPath == "" {
		configPath, _ = config.Find("pageview.yaml")
	}
	cfg, logger, err := config.Setup(configPath, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if pflag.CommandLine.Changed("workers") {
		cfg.Workers = max(workers, 0)
	}
	if darkMode {
		cfg.DarkMode = true
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		logger = config.NewLogger(logLevel, os.Stderr)
	}
	if width > 0 {
		cfg.ViewWidth = width
	}
	if height > 0 {
		cfg.ViewHeight = height
	}
	pageview.SetLogger(logger)

	steps, err := parseScript(script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing script: %v\n", err)
		return 1
	}

	doc, closeDoc, err := openDocument(pflag.Args(), synthetic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printHelp()
		return 1
	}
	defer closeDoc()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		return 1
	}

	v := newViewer(doc, cfg, outDir, outputScale, timeout)
	defer v.close()
	if err := v.play(steps); err != nil {
		logger.Error("viewer stopped", "error", err)
		return 1
	}
	return 0
}

func openDocument(args []string, synthetic int) (document.Document, func(), error) {
	if synthetic > 0 {
		return testdoc.Uniform(synthetic, 595, 842), func() {}, nil
	}
	if len(args) != 1 {
		return nil, nil, errors.New("exactly one input file is required")
	}
	doc, err := pdfdoc.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return doc, func() { doc.Close() }, nil
}

func printHelp() {
	fmt.Fprintf(os.Stderr, "Usage: pageview [flags] file.pdf\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nScript commands:\n")
	fmt.Fprintf(os.Stderr, "  show, scroll:N, hscroll:N, zoomin:N, zoomout:N, fitw, fith, centre,\n")
	fmt.Fprintf(os.Stderr, "  goto:PAGE, links, follow:LABEL, search:TEXT, next, prev\n")
}

// newCursor returns a cursor configured from cfg.
func newCursor(doc document.Document, cfg config.Config) *cursor.Cursor {
	return cursor.New(doc, float64(cfg.ViewWidth), float64(cfg.ViewHeight), cursor.Params{
		Steps:     cfg.Steps,
		MinScale:  cfg.MinScale,
		ScaleStep: cfg.ScaleStep,
	})
}
