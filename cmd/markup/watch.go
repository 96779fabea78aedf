// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open2b/markup/internal/watch"
)

func watchCmd(global *globalFlags) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "watch [paths]",
		Short: "Generate Go files and regenerate them when the descriptions change",
		Long: `Watch generates the Go files as generate does, then watches the
directories of the paths and regenerates the file of a description each time
it changes, until interrupted.

Only the directory trees of recursive patterns, as "./...", are watched
recursively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenerator(cmd, global, &flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return g.watch(ctx, args)
		},
	}
	flags.register(cmd)
	return cmd
}

// watch generates the descriptions matched by patterns and regenerates them
// when they change until ctx is done.
func (g *generator) watch(ctx context.Context, patterns []string) error {
	paths, err := g.collect(patterns)
	if err != nil {
		return err
	}
	// Errors are logged, the descriptions can be fixed while watching.
	_ = g.generateAll(paths)

	w, err := watch.New(isDescription, g.cfg.Excluded)
	if err != nil {
		return err
	}
	defer w.Close()
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	for _, dir := range g.watchDirs(patterns) {
		if err := w.AddTree(dir); err != nil {
			return err
		}
	}
	g.log.Info("watching", "dirs", len(w.Watched()))
	return w.Run(ctx, func(names []string) {
		_ = g.generateAll(names)
	})
}

// watchDirs returns the roots of the directory trees to watch.
func (g *generator) watchDirs(patterns []string) []string {
	var dirs []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		dir := pattern
		if pattern == "..." || strings.HasSuffix(pattern, "/...") {
			dir = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if dir == "" {
				dir = "."
			}
		} else if isDescription(pattern) {
			dir = filepath.Dir(pattern)
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(g.cwd, dir)
		}
		dirs = append(dirs, dir)
	}
	return dirs
}
