// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/mod/modfile"

	"github.com/open2b/markup"
	"github.com/open2b/markup/internal/config"
)

// generateFlags holds the flags of the generate and watch commands.
type generateFlags struct {
	pkg        string
	suffix     string
	noMarkdown bool
}

func (flags *generateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.pkg, "package", "p", "", "package name of the generated files, if not declared by the description")
	cmd.Flags().StringVar(&flags.suffix, "suffix", "", "suffix of the generated files (default \""+config.DefaultSuffix+"\")")
	cmd.Flags().BoolVar(&flags.noMarkdown, "no-markdown", false, "do not convert Markdown text to HTML")
}

func generateCmd(global *globalFlags) *cobra.Command {
	var flags generateFlags
	cmd := &cobra.Command{
		Use:   "generate [paths]",
		Short: "Generate Go files from template descriptions",
		Long: `Generate writes a Go file for each template description.

Paths behave like Go package patterns:
  ./...                   descriptions of the current directory and its sub-directories
  ./dir                   descriptions of the directory dir
  ./dir/...               descriptions of dir and its sub-directories
  ./dir/page.markup.yaml  only the description page.markup.yaml

Without paths, generate behaves as "./..." was given. A file is written only
if its content changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenerator(cmd, global, &flags)
			if err != nil {
				return err
			}
			paths, err := g.collect(args)
			if err != nil {
				return err
			}
			return g.generateAll(paths)
		},
	}
	flags.register(cmd)
	return cmd
}

// generator generates the Go files of the descriptions.
type generator struct {
	cfg     *config.Config
	opts    markup.Options
	log     *slog.Logger
	cwd     string
	root    string // module root directory, if any.
	modPath string // module path, if any.
}

func newGenerator(cmd *cobra.Command, global *globalFlags, flags *generateFlags) (*generator, error) {
	cfg, err := config.Load(global.config)
	if err != nil {
		return nil, err
	}
	if flags.pkg != "" {
		cfg.Package = flags.pkg
	}
	if flags.suffix != "" {
		cfg.Suffix = flags.suffix
		if err := checkSuffix(cfg); err != nil {
			return nil, err
		}
	}
	if flags.noMarkdown {
		cfg.Markdown = false
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	g := &generator{
		cfg: cfg,
		log: newLogger(cmd.ErrOrStderr(), global.verbose),
		cwd: cwd,
	}
	if cfg.Markdown {
		g.opts.MarkdownConverter = markup.Markdown
	}
	g.root, g.modPath, err = findModule(cwd)
	if err != nil {
		g.log.Debug("no module", "err", err)
	}
	return g, nil
}

// checkSuffix checks the suffix of cfg parsing it as a configuration.
func checkSuffix(cfg *config.Config) error {
	_, err := config.Parse([]byte(fmt.Sprintf("suffix: %q\n", cfg.Suffix)))
	return err
}

// findModule returns the root directory and the path of the module that
// contains dir.
func findModule(dir string) (string, string, error) {
	d := dir
	for {
		data, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(data)
			if modPath == "" {
				return "", "", fmt.Errorf("%s: missing module declaration", filepath.Join(d, "go.mod"))
			}
			return d, modPath, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", err
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", "", fmt.Errorf("could not find go.mod above %s", dir)
		}
		d = parent
	}
}

// collect returns the absolute paths, sorted, of the descriptions matched by
// patterns.
func (g *generator) collect(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	seen := map[string]bool{}
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		recursive := pattern == "..." || strings.HasSuffix(pattern, "/...")
		if recursive {
			pattern = strings.TrimSuffix(strings.TrimSuffix(pattern, "..."), "/")
			if pattern == "" {
				pattern = "."
			}
		}
		target := pattern
		if !filepath.IsAbs(target) {
			target = filepath.Join(g.cwd, target)
		}
		if recursive {
			err := filepath.WalkDir(target, func(name string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					if name != target && g.cfg.Excluded(name) {
						return filepath.SkipDir
					}
					return nil
				}
				if isDescription(name) {
					add(name)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		st, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			if !isDescription(target) {
				return nil, fmt.Errorf("%s is not a %s file", pattern, config.SourceSuffix)
			}
			add(target)
			continue
		}
		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && isDescription(e.Name()) {
				add(filepath.Join(target, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isDescription(name string) bool {
	return strings.HasSuffix(name, config.SourceSuffix)
}

// generateAll generates the files of the descriptions with the given paths.
// It generates all the files, also if some fail, and returns the errors
// joined.
func (g *generator) generateAll(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := g.generate(p); err != nil {
			g.log.Error("generation failed", "file", g.rel(p), "err", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		g.log.Debug("generation completed", "files", len(paths))
	}
	return errors.Join(errs...)
}

// generate generates the Go file of the description with the given path.
func (g *generator) generate(p string) error {
	dir, base := filepath.Split(p)
	opts := g.opts
	pkg, err := g.packageName(filepath.Clean(dir))
	if err != nil {
		// The description can still declare the package.
		g.log.Debug("no package name", "dir", g.rel(dir), "err", err)
	}
	opts.Package = pkg
	src, err := markup.GenerateFile(os.DirFS(dir), base, &opts)
	if err != nil {
		return err
	}
	out := g.cfg.Output(p)
	if old, err := os.ReadFile(out); err == nil && bytes.Equal(old, src) {
		g.log.Debug("file is up to date", "file", g.rel(out))
		return nil
	}
	if err := os.WriteFile(out, src, 0666); err != nil {
		return err
	}
	g.log.Info("generated", "file", g.rel(out))
	return nil
}

// packageName returns the name of the package of the files generated in
// dir. It is the configured package name, if any, or the package name of
// the other Go files in dir or, if there are no other files, a name deduced
// from the import path of dir.
func (g *generator) packageName(dir string) (string, error) {
	if g.cfg.Package != "" {
		return g.cfg.Package, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, g.cfg.Suffix) {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err != nil {
			return "", err
		}
		return f.Name.Name, nil
	}
	name := filepath.Base(dir)
	if g.root != "" {
		if rel, err := filepath.Rel(g.root, dir); err == nil && !strings.HasPrefix(rel, "..") {
			name = path.Base(path.Join(g.modPath, filepath.ToSlash(rel)))
		}
	}
	return packageIdent(name)
}

// packageIdent returns a package name from the last element of an import
// path.
func packageIdent(elem string) (string, error) {
	// Major version suffix, as "v2".
	if len(elem) > 1 && elem[0] == 'v' && strings.Trim(elem[1:], "0123456789") == "" {
		return "", fmt.Errorf("cannot deduce a package name from %q, use the --package flag", elem)
	}
	elem = strings.TrimPrefix(elem, "go-")
	elem = strings.TrimSuffix(elem, "-go")
	name := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9', r == '_':
			return r
		case 'A' <= r && r <= 'Z':
			return r + 'a' - 'A'
		case r == '-' || r == '.':
			return '_'
		}
		return -1
	}, elem)
	if !token.IsIdentifier(name) || token.IsKeyword(name) {
		return "", fmt.Errorf("cannot deduce a package name from %q, use the --package flag", elem)
	}
	return name, nil
}

// rel returns name relative to the current directory, if possible.
func (g *generator) rel(name string) string {
	if rel, err := filepath.Rel(g.cwd, name); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return name
}
