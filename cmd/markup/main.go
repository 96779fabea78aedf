// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Markup generates Go code from template descriptions.
//
// Usage:
//
//	markup generate [flags] [paths]
//	markup watch [flags] [paths]
//	markup preview [flags] file.markup.yaml
//	markup inspect file.markup.yaml
//	markup version
//
// Paths behave like Go package patterns: "./..." generates the descriptions
// of the current directory and its sub-directories, "./dir" only those of
// dir and "./dir/page.markup.yaml" only that description. For each
// description "name.markup.yaml" it writes "name.markup.go" in the same
// directory.
//
// The file markup.yaml in the current directory, or the file given with the
// --config flag, configures the command.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open2b/markup/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// globalFlags holds the flags common to all the commands.
type globalFlags struct {
	config  string
	verbose bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "markup: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:   "markup",
		Short: "Generate Go code from template descriptions",
		Long: `Markup generates, for each template of a description file, a Go type
with a Render method that writes the template as HTML.

Descriptions are YAML files with the ".markup.yaml" extension. The generated
files are written next to them with the ".markup.go" extension.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.config, "config", "", "configuration file (default: "+config.FileName+" if it exists)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug messages")
	root.AddCommand(
		generateCmd(&flags),
		watchCmd(&flags),
		previewCmd(&flags),
		inspectCmd(),
		versionCmd(),
	)
	return root
}

// newLogger returns the logger of the commands that writes to w.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
