// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markup generates Go code that renders HTML templates.
//
// A template is a tree of elements, texts, conditionals and loops with
// embedded Go expressions:
//
//	tmpl := &ast.Template{
//		Name:   "Greeting",
//		Fields: []*ast.Field{{Name: "Name", Type: "string"}},
//		Nodes: []ast.Node{
//			&ast.Element{Name: "p", Close: true, Children: []ast.Node{
//				ast.NewText("Hello, "),
//				ast.NewExpr("Name"),
//			}},
//		},
//	}
//
// Lower lowers the nodes of a template to a sequence of output operations.
// Static content is escaped and coalesced, so that each contiguous run of
// static content is written with a single write:
//
//	Write "<p>Hello, "
//	Show Name
//	Write "</p>"
//
// Generate emits, for each template, a struct type with the fields of the
// template and the methods Render and String:
//
//	type Greeting struct {
//		Name string
//	}
//
//	func (__t Greeting) Render(__w io.Writer) error
//	func (__t Greeting) String() string
//
// Render writes the template to __w and returns the first error of __w
// unchanged. The values of the expressions are written with the Render
// function of the runtime package.
//
// Templates can also be described in YAML files, with the ".markup.yaml"
// extension, and generated with GenerateFile or with the markup command.
package markup
