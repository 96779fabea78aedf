// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to define template trees.
//
// For example, the template
//
//	<ul class="list">
//	  for item in Items { <li>{item}</li> }
//	</ul>
//
// is represented with the tree:
//
//	&ast.Template{
//		Name:   "List",
//		Fields: []*ast.Field{{Name: "Items", Type: "[]string"}},
//		Nodes: []ast.Node{
//			&ast.Element{
//				Name:    "ul",
//				Classes: []ast.Expr{`"list"`},
//				Close:   true,
//				Children: []ast.Node{
//					&ast.For{
//						Pattern:  "_, item",
//						Iterable: "Items",
//						Body: []ast.Node{
//							&ast.Element{
//								Name:     "li",
//								Close:    true,
//								Children: []ast.Node{ast.NewExpr("item")},
//							},
//						},
//					},
//				},
//			},
//		},
//	}
//
// Trees are built by a parser or decoded from a description and are assumed
// to be well-formed: no validation is performed on them.
package ast

// Node is a node of a template tree. It is implemented only by *Element,
// *Text, *If and *For.
type Node interface {
	node()
}

// Template is a template definition, the compilation unit.
type Template struct {
	Name       string       // name of the generated type.
	TypeParams []*TypeParam // type parameters, if any.
	Fields     []*Field     // declared data fields, in order.
	Nodes      []Node       // root nodes.
}

// Field is a data field of a template.
type Field struct {
	Name string
	Type string // Go type in source form.
}

// TypeParam is a type parameter of a generic template.
type TypeParam struct {
	Name       string
	Constraint string
}

// Element node represents a markup element.
type Element struct {
	Name       string       // tag name.
	ID         Expr         // id expression; empty if there is no id.
	Classes    []Expr       // class expressions.
	Attributes []*Attribute // attributes, in declaration order.
	Children   []Node       // child nodes.
	Close      bool         // reports whether the element has a closing tag.
}

func (*Element) node() {}

// Attribute is an attribute of an element.
//
// If Bool is true, the attribute is written without a value and only if
// Value, evaluated at render time, is true. Otherwise the attribute is always
// written with the value of Value.
type Attribute struct {
	Name  string
	Value Expr
	Bool  bool
}

// TextKind is the kind of a Text node.
type TextKind int

const (
	TextLiteral  TextKind = iota // literal text.
	TextExpr                     // expression.
	TextMarkdown                 // literal Markdown text.
)

func (k TextKind) String() string {
	switch k {
	case TextLiteral:
		return "literal"
	case TextExpr:
		return "expr"
	case TextMarkdown:
		return "markdown"
	}
	return "unknown"
}

// Text node represents a literal text or an expression.
type Text struct {
	Kind  TextKind
	Value string // literal text or expression source.
}

func (*Text) node() {}

// NewText returns a new literal Text node.
func NewText(s string) *Text {
	return &Text{Kind: TextLiteral, Value: s}
}

// NewExpr returns a new expression Text node.
func NewExpr(expr Expr) *Text {
	return &Text{Kind: TextExpr, Value: string(expr)}
}

// NewMarkdown returns a new Markdown Text node.
func NewMarkdown(src string) *Text {
	return &Text{Kind: TextMarkdown, Value: src}
}

// If node represents a chain of conditional clauses.
//
// The consequent of the first clause whose test is true is rendered. If no
// test is true, Default is rendered. A nil Default means that there is no
// default; a non-nil empty Default is an empty default.
type If struct {
	Clauses []*IfClause // never empty.
	Default []Node
}

func (*If) node() {}

// IfClause is a clause of an If node.
type IfClause struct {
	Test       Expr
	Consequent []Node
}

// For node represents a loop.
//
// Pattern is the left side of a range clause, for example "item" or
// "_, item", and it is empty if the loop does not bind any variable.
type For struct {
	Pattern  string
	Iterable Expr
	Body     []Node
}

func (*For) node() {}
