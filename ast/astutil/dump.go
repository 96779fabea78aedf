// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package astutil implements functions to walk and dump a template tree.
package astutil

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/open2b/markup/ast"
)

type dumper struct {
	output      io.Writer
	indentLevel int
}

type errVisitor struct {
	err error
}

func (e errVisitor) Error() string {
	return e.err.Error()
}

// Visit writes the representation of node on the output, indented according
// to its depth. Visit is called by Walk.
func (d *dumper) Visit(node ast.Node) Visitor {

	// Walk calls Visit(nil) when it goes up the tree.
	if node == nil {
		d.indentLevel--
		return nil
	}

	d.indentLevel++

	var text string
	switch n := node.(type) {
	case *ast.Element:
		var b strings.Builder
		b.WriteString("<" + n.Name + ">")
		if n.ID != "" {
			b.WriteString(" id=" + string(n.ID))
		}
		for _, class := range n.Classes {
			b.WriteString(" class=" + string(class))
		}
		for _, attr := range n.Attributes {
			if attr.Bool {
				b.WriteString(" " + attr.Name + "?=" + string(attr.Value))
			} else {
				b.WriteString(" " + attr.Name + "=" + string(attr.Value))
			}
		}
		if !n.Close {
			b.WriteString(" open")
		}
		text = b.String()
	case *ast.Text:
		v := n.Value
		if len(v) > 30 {
			v = truncate(v, 30) + "..."
		}
		text = n.Kind.String() + " " + strconv.Quote(v)
	case *ast.If:
		tests := make([]string, len(n.Clauses))
		for i, clause := range n.Clauses {
			tests[i] = string(clause.Test)
		}
		text = strings.Join(tests, " | ")
		if n.Default != nil {
			text += " | else"
		}
	case *ast.For:
		text = string(n.Iterable)
		if n.Pattern != "" {
			text = n.Pattern + " in " + text
		}
	}

	for i := 0; i < d.indentLevel; i++ {
		_, err := fmt.Fprint(d.output, "│    ")
		if err != nil {
			panic(errVisitor{err})
		}
	}

	// Removes the prefix "*ast.".
	typeStr := fmt.Sprintf("%T", node)[5:]

	_, err := fmt.Fprintf(d.output, "%s %s\n", typeStr, text)
	if err != nil {
		panic(errVisitor{err})
	}

	return d
}

// Dump writes a dump of the template tree on w.
func Dump(w io.Writer, tmpl *ast.Template) (err error) {

	defer func() {
		if r := recover(); r != nil {
			if t, ok := r.(errVisitor); ok {
				err = t.err
			} else {
				panic(r)
			}
		}
	}()

	if tmpl == nil {
		return errors.New("can't dump a nil template")
	}

	_, err = fmt.Fprintf(w, "Template: %s\n", tmpl.Name)
	if err != nil {
		return err
	}

	d := &dumper{output: w}
	for _, node := range tmpl.Nodes {
		Walk(d, node)
	}

	return nil
}

func truncate(s string, maxRunes int) string {
	if maxRunes < 0 {
		panic("astutil: maxRunes can not be negative")
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
