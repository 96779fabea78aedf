// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/open2b/markup"
	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/internal/config"
	"github.com/open2b/markup/internal/interp"
	"github.com/open2b/markup/internal/loader"
)

func previewCmd(global *globalFlags) *cobra.Command {
	var name, data string
	var noMarkdown bool
	cmd := &cobra.Command{
		Use:   "preview [flags] file.markup.yaml",
		Short: "Render a template without generating it",
		Long: `Preview renders a template of a description to the standard output
without generating and compiling its Go code.

The values of the fields are read from the YAML file given with the --data
flag. Expressions can use fields, literals, operators, indexes, selectors,
method calls and the len builtin function.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(global.config)
			if err != nil {
				return err
			}
			f, err := loadDescription(args[0])
			if err != nil {
				return err
			}
			tmpl, err := findTemplate(f, name)
			if err != nil {
				return err
			}
			var values map[string]interface{}
			if data != "" {
				src, err := os.ReadFile(data)
				if err != nil {
					return err
				}
				if err := yaml.Unmarshal(src, &values); err != nil {
					return fmt.Errorf("%s: %w", data, err)
				}
			}
			var opts markup.Options
			if cfg.Markdown && !noMarkdown {
				opts.MarkdownConverter = markup.Markdown
			}
			block, err := markup.Lower(tmpl.Nodes, &opts)
			if err != nil {
				return err
			}
			newLogger(cmd.ErrOrStderr(), global.verbose).Debug("rendering", "template", tmpl.Name, "ops", len(block))
			return interp.Run(cmd.OutOrStdout(), block, values)
		},
	}
	cmd.Flags().StringVarP(&name, "template", "t", "", "name of the template (default: the first template)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "YAML file with the values of the fields")
	cmd.Flags().BoolVar(&noMarkdown, "no-markdown", false, "do not convert Markdown text to HTML")
	return cmd
}

func loadDescription(name string) (*loader.File, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return loader.Parse(name, src)
}

// findTemplate returns the template of f with the given name or, if name is
// empty, the first template.
func findTemplate(f *loader.File, name string) (*ast.Template, error) {
	if name == "" {
		return f.Templates[0], nil
	}
	for _, tmpl := range f.Templates {
		if tmpl.Name == name {
			return tmpl, nil
		}
	}
	return nil, fmt.Errorf("template %s does not exist", name)
}
