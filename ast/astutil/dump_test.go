// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil_test

import (
	"os"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/ast/astutil"
)

func ExampleDump() {
	tmpl := &ast.Template{
		Name: "List",
		Nodes: []ast.Node{
			&ast.Element{
				Name:       "ul",
				ID:         `"items"`,
				Attributes: []*ast.Attribute{{Name: "hidden", Value: "Hidden", Bool: true}},
				Close:      true,
				Children: []ast.Node{
					&ast.For{
						Pattern:  "_, item",
						Iterable: "Items",
						Body: []ast.Node{
							&ast.If{
								Clauses: []*ast.IfClause{{Test: "item != \"\"", Consequent: []ast.Node{ast.NewExpr("item")}}},
								Default: []ast.Node{ast.NewText("a very very very long text that is truncated")},
							},
						},
					},
				},
			},
			&ast.Element{Name: "br"},
		},
	}
	err := astutil.Dump(os.Stdout, tmpl)
	if err != nil {
		panic(err)
	}

	// Output:
	// Template: List
	// │    Element <ul> id="items" hidden?=Hidden
	// │    │    For _, item in Items
	// │    │    │    If item != "" | else
	// │    │    │    │    Text expr "item"
	// │    │    │    │    Text literal "a very very very long text tha..."
	// │    Element <br> open
}
