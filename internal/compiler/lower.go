// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/ir"
)

// Lower lowers nodes to a block of operations. nodes must be well-formed.
//
// Lower returns an error only if the conversion of a Markdown text fails.
func Lower(nodes []ast.Node, opts *Options) (ir.Block, error) {
	b := newBuilder(opts.converter())
	lowerNodes(b, nodes)
	if b.err != nil {
		return nil, b.err
	}
	return b.finish(), nil
}

func lowerNodes(b *builder, nodes []ast.Node) {
	for _, node := range nodes {
		lowerNode(b, node)
	}
}

func lowerNode(b *builder, node ast.Node) {
	switch n := node.(type) {
	case *ast.Element:
		lowerElement(b, n)
	case *ast.Text:
		lowerText(b, n)
	case *ast.If:
		lowerIf(b, n)
	case *ast.For:
		lowerFor(b, n)
	default:
		panic(fmt.Sprintf("compiler: unexpected node type %T", node))
	}
}

func lowerElement(b *builder, n *ast.Element) {
	b.raw("<")
	b.escaped(n.Name)
	if n.ID != "" {
		b.raw(` id="`)
		b.expr(n.ID)
		b.raw(`"`)
	}
	if len(n.Classes) > 0 {
		b.raw(` class="`)
		for i, class := range n.Classes {
			if i > 0 {
				b.escaped(" ")
			}
			b.expr(class)
		}
		b.raw(`"`)
	}
	for _, attr := range n.Attributes {
		if attr.Bool {
			name := attr.Name
			b.emit(&ir.If{
				Branches: []ir.Branch{{
					Cond: attr.Value,
					Body: b.scoped(func(b *builder) {
						b.escaped(" ")
						b.escaped(name)
					}),
				}},
			})
			continue
		}
		b.escaped(" ")
		b.escaped(attr.Name)
		b.raw(`="`)
		b.expr(attr.Value)
		b.raw(`"`)
	}
	b.raw(">")
	lowerNodes(b, n.Children)
	if n.Close {
		b.raw("</")
		b.escaped(n.Name)
		b.raw(">")
	}
}

func lowerText(b *builder, n *ast.Text) {
	switch n.Kind {
	case ast.TextLiteral:
		b.escaped(n.Value)
	case ast.TextExpr:
		b.expr(ast.Expr(n.Value))
	case ast.TextMarkdown:
		b.markdown(n.Value)
	default:
		panic(fmt.Sprintf("compiler: unexpected text kind %d", n.Kind))
	}
}

// lowerIf lowers n to an If operation with a branch for each clause. The
// branches are mutually exclusive: only the first one whose condition is
// true is executed.
func lowerIf(b *builder, n *ast.If) {
	op := &ir.If{Branches: make([]ir.Branch, len(n.Clauses))}
	for i, clause := range n.Clauses {
		consequent := clause.Consequent
		op.Branches[i] = ir.Branch{
			Cond: clause.Test,
			Body: b.scoped(func(b *builder) { lowerNodes(b, consequent) }),
		}
	}
	if n.Default != nil {
		op.Else = b.scoped(func(b *builder) { lowerNodes(b, n.Default) })
	}
	b.emit(op)
}

func lowerFor(b *builder, n *ast.For) {
	b.emit(&ir.For{
		Pattern:  n.Pattern,
		Iterable: n.Iterable,
		Body:     b.scoped(func(b *builder) { lowerNodes(b, n.Body) }),
	})
}
