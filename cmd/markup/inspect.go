// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/open2b/markup/ast/astutil"
	"github.com/open2b/markup/internal/compiler"
	"github.com/open2b/markup/ir"
)

func inspectCmd() *cobra.Command {
	var noOps bool
	cmd := &cobra.Command{
		Use:   "inspect file.markup.yaml",
		Short: "Print the trees and the operations of the templates",
		Long: `Inspect prints, for each template of a description, its tree and the
output operations it is lowered to. Markdown text is not converted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadDescription(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, tmpl := range f.Templates {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := astutil.Dump(out, tmpl); err != nil {
					return err
				}
				if noOps {
					continue
				}
				block, err := compiler.Lower(tmpl.Nodes, nil)
				if err != nil {
					return err
				}
				stats := block.Stats()
				fmt.Fprintf(out, "\nOperations: %d writes, %d shows, %d ifs, %d fors\n", stats.Writes, stats.Shows, stats.Ifs, stats.Fors)
				if err := ir.Fprint(out, block); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noOps, "no-ops", false, "print only the trees")
	return cmd
}
