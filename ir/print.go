// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a textual representation of b on w, one operation per line,
// with nested blocks indented.
func Fprint(w io.Writer, b Block) error {
	bw := bufio.NewWriter(w)
	fprint(bw, b, 0)
	return bw.Flush()
}

// String returns the textual representation of b.
func (b Block) String() string {
	var s strings.Builder
	_ = Fprint(&s, b)
	return s.String()
}

func fprint(w *bufio.Writer, b Block, depth int) {
	indent := strings.Repeat("\t", depth)
	for _, op := range b {
		switch op := op.(type) {
		case *Write:
			fmt.Fprintf(w, "%sWrite %s\n", indent, strconv.Quote(op.Text))
		case *Show:
			fmt.Fprintf(w, "%sShow %s\n", indent, op.Expr)
		case *If:
			for i, br := range op.Branches {
				if i == 0 {
					fmt.Fprintf(w, "%sIf %s\n", indent, br.Cond)
				} else {
					fmt.Fprintf(w, "%sElseIf %s\n", indent, br.Cond)
				}
				fprint(w, br.Body, depth+1)
			}
			if op.Else != nil {
				fmt.Fprintf(w, "%sElse\n", indent)
				fprint(w, op.Else, depth+1)
			}
			fmt.Fprintf(w, "%sEnd\n", indent)
		case *For:
			if op.Pattern == "" {
				fmt.Fprintf(w, "%sFor %s\n", indent, op.Iterable)
			} else {
				fmt.Fprintf(w, "%sFor %s in %s\n", indent, op.Pattern, op.Iterable)
			}
			fprint(w, op.Body, depth+1)
			fmt.Fprintf(w, "%sEnd\n", indent)
		}
	}
}
