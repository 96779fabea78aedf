// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/ir"
)

func text(s string) ast.Node { return ast.NewText(s) }

func expr(e ast.Expr) ast.Node { return ast.NewExpr(e) }

func write(s string) ir.Op { return &ir.Write{Text: s} }

func show(e ast.Expr) ir.Op { return &ir.Show{Expr: e} }

func block(ops ...ir.Op) ir.Block { return append(ir.Block{}, ops...) }

var lowerTests = []struct {
	name     string
	nodes    []ast.Node
	expected ir.Block
}{
	{
		"empty",
		nil,
		block(),
	},
	{
		"paired element",
		[]ast.Node{&ast.Element{Name: "p", Close: true}},
		block(write("<p></p>")),
	},
	{
		"start tag only",
		[]ast.Node{&ast.Element{Name: "br"}},
		block(write("<br>")),
	},
	{
		"literal text",
		[]ast.Node{text(`a&b <c> "d"`)},
		block(write("a&amp;b &lt;c&gt; &quot;d&quot;")),
	},
	{
		"string literal expression",
		[]ast.Node{expr(`"a&b"`)},
		block(write("a&amp;b")),
	},
	{
		"expression",
		[]ast.Node{text("a"), expr("x"), text("b")},
		block(write("a"), show("x"), write("b")),
	},
	{
		"adjacent expressions",
		[]ast.Node{expr("x"), expr("y")},
		block(show("x"), show("y")),
	},
	{
		"id",
		[]ast.Node{&ast.Element{Name: "div", ID: "ID", Close: true}},
		block(write(`<div id="`), show("ID"), write(`"></div>`)),
	},
	{
		"literal id",
		[]ast.Node{&ast.Element{Name: "div", ID: `"main"`, Close: true}},
		block(write(`<div id="main"></div>`)),
	},
	{
		"classes",
		[]ast.Node{&ast.Element{Name: "div", Classes: []ast.Expr{`"a"`, "B", `"c"`}, Close: true}},
		block(write(`<div class="a `), show("B"), write(` c"></div>`)),
	},
	{
		"attributes",
		[]ast.Node{&ast.Element{
			Name: "a",
			Attributes: []*ast.Attribute{
				{Name: "href", Value: "URL"},
				{Name: "title", Value: `"x<y"`},
			},
			Close: true,
		}},
		block(write(`<a href="`), show("URL"), write(`" title="x&lt;y"></a>`)),
	},
	{
		"boolean attribute",
		[]ast.Node{&ast.Element{
			Name:       "input",
			Attributes: []*ast.Attribute{{Name: "checked", Value: "Checked", Bool: true}},
		}},
		block(
			write("<input"),
			&ir.If{Branches: []ir.Branch{{Cond: "Checked", Body: block(write(" checked"))}}},
			write(">"),
		),
	},
	{
		"attribute order",
		[]ast.Node{&ast.Element{
			Name: "input",
			ID:   `"i"`,
			Attributes: []*ast.Attribute{
				{Name: "type", Value: `"checkbox"`},
				{Name: "disabled", Value: "Disabled", Bool: true},
				{Name: "name", Value: `"n"`},
			},
		}},
		block(
			write(`<input id="i" type="checkbox"`),
			&ir.If{Branches: []ir.Branch{{Cond: "Disabled", Body: block(write(" disabled"))}}},
			write(` name="n">`),
		),
	},
	{
		"children",
		[]ast.Node{&ast.Element{
			Name:     "ul",
			Close:    true,
			Children: []ast.Node{&ast.Element{Name: "li", Close: true, Children: []ast.Node{text("a")}}},
		}},
		block(write("<ul><li>a</li></ul>")),
	},
	{
		"if",
		[]ast.Node{text("<"), &ast.If{Clauses: []*ast.IfClause{{Test: "A", Consequent: []ast.Node{text("a")}}}}, text(">")},
		block(
			write("&lt;"),
			&ir.If{Branches: []ir.Branch{{Cond: "A", Body: block(write("a"))}}},
			write("&gt;"),
		),
	},
	{
		"if else if else",
		[]ast.Node{&ast.If{
			Clauses: []*ast.IfClause{
				{Test: "A", Consequent: []ast.Node{text("a")}},
				{Test: "B", Consequent: []ast.Node{expr("b")}},
				{Test: "C"},
			},
			Default: []ast.Node{text("d")},
		}},
		block(&ir.If{
			Branches: []ir.Branch{
				{Cond: "A", Body: block(write("a"))},
				{Cond: "B", Body: block(show("b"))},
				{Cond: "C", Body: block()},
			},
			Else: block(write("d")),
		}),
	},
	{
		"if with empty default",
		[]ast.Node{&ast.If{Clauses: []*ast.IfClause{{Test: "A"}}, Default: []ast.Node{}}},
		block(&ir.If{Branches: []ir.Branch{{Cond: "A", Body: block()}}, Else: block()}),
	},
	{
		"for",
		[]ast.Node{&ast.Element{
			Name:  "ul",
			Close: true,
			Children: []ast.Node{&ast.For{
				Pattern:  "_, item",
				Iterable: "Items",
				Body:     []ast.Node{&ast.Element{Name: "li", Close: true, Children: []ast.Node{expr("item")}}},
			}},
		}},
		block(
			write("<ul>"),
			&ir.For{Pattern: "_, item", Iterable: "Items", Body: block(write("<li>"), show("item"), write("</li>"))},
			write("</ul>"),
		),
	},
	{
		"nested scopes",
		[]ast.Node{&ast.For{
			Iterable: "N",
			Body: []ast.Node{
				text("a"),
				&ast.If{Clauses: []*ast.IfClause{{Test: "X", Consequent: []ast.Node{text("b"), expr("y"), text("c")}}}},
				text("d"),
			},
		}},
		block(&ir.For{Iterable: "N", Body: block(
			write("a"),
			&ir.If{Branches: []ir.Branch{{Cond: "X", Body: block(write("b"), show("y"), write("c"))}}},
			write("d"),
		)}),
	},
	{
		"escaped names",
		[]ast.Node{&ast.Element{Name: "x&y", Attributes: []*ast.Attribute{{Name: `a"b`, Value: `""`}}, Close: true}},
		block(write(`<x&amp;y a&quot;b=""></x&amp;y>`)),
	},
	{
		"markdown without converter",
		[]ast.Node{ast.NewMarkdown("*a*")},
		block(write("*a*")),
	},
}

func TestLower(t *testing.T) {
	for _, test := range lowerTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Lower(test.nodes, nil)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Fatalf("unexpected block (-want +got):\n%s", diff)
			}
		})
	}
}

// TestLowerWriteCount checks that the number of Write operations is the
// number of maximal runs of static content.
func TestLowerWriteCount(t *testing.T) {
	nodes := []ast.Node{
		&ast.Element{Name: "p", Close: true, Children: []ast.Node{text("a"), expr(`"b"`), text("c")}},
		expr("x"),
		text("d"),
		&ast.If{Clauses: []*ast.IfClause{{Test: "T", Consequent: []ast.Node{text("e"), text("f")}}}},
		&ast.For{Iterable: "I", Body: []ast.Node{text("g"), expr("y")}},
	}
	got, err := Lower(nodes, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Runs: "<p>abc</p>", "d", "ef", "g".
	if stats := got.Stats(); stats.Writes != 4 || stats.Shows != 2 || stats.Ifs != 1 || stats.Fors != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	for i := 1; i < len(got); i++ {
		_, prev := got[i-1].(*ir.Write)
		_, cur := got[i].(*ir.Write)
		if prev && cur {
			t.Fatalf("adjacent writes at %d:\n%s", i, got)
		}
	}
}

func TestLowerMarkdown(t *testing.T) {
	opts := &Options{MarkdownConverter: func(src []byte, out io.Writer) error {
		_, err := io.WriteString(out, "<em>"+string(src[1:len(src)-1])+"</em>")
		return err
	}}
	nodes := []ast.Node{text("<"), ast.NewMarkdown("*a*"), text(">")}
	got, err := Lower(nodes, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(block(write("&lt;<em>a</em>&gt;")), got); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
	errConv := errors.New("failed")
	opts = &Options{MarkdownConverter: func([]byte, io.Writer) error { return errConv }}
	nodes = []ast.Node{&ast.If{Clauses: []*ast.IfClause{{Test: "A", Consequent: []ast.Node{ast.NewMarkdown("a")}}}}}
	_, err = Lower(nodes, opts)
	if !errors.Is(err, errConv) {
		t.Fatalf("expecting conversion error, got %v", err)
	}
}
