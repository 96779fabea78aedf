// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader decodes YAML template descriptions.
//
// A description declares the templates of a Go source file:
//
//	package: views
//	templates:
//	  - name: Page
//	    type_params: [{name: T, constraint: any}]
//	    fields: [{name: Title, type: string}, {name: Items, type: "[]T"}]
//	    nodes:
//	      - element: h1
//	        children: [{expr: Title}]
//	      - for: {pattern: "_, item", in: Items, body: [{expr: item}]}
//
// Every node is a mapping with exactly one of the keys "element", "text",
// "expr", "markdown", "if" and "for". Expressions are Go expressions.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/open2b/markup/ast"

	"gopkg.in/yaml.v3"
)

// Error is a description error.
type Error struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
}

func errorf(n *yaml.Node, format string, a ...interface{}) *Error {
	return &Error{Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, a...)}
}

// File is a decoded description.
type File struct {
	Package   string
	Templates []*ast.Template
}

// Parse decodes the description src. name is used in error messages.
func Parse(name string, src []byte) (*File, error) {
	var f file
	err := yaml.Unmarshal(src, &f)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Path = name
			return nil, e
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(f.Templates) == 0 {
		return nil, &Error{Path: name, Msg: "no templates"}
	}
	return &File{Package: f.Package, Templates: f.Templates}, nil
}

// ParseFS reads the description with the given name from fsys and decodes
// it.
func ParseFS(fsys fs.FS, name string) (*File, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return Parse(name, src)
}

type file struct {
	Package   string          `yaml:"package"`
	Templates []*ast.Template `yaml:"-"`
}

func (f *file) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Package   string     `yaml:"package"`
		Templates []template `yaml:"templates"`
	}
	if err := checkKeys(value, "file", "package", "templates"); err != nil {
		return err
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	f.Package = raw.Package
	f.Templates = make([]*ast.Template, len(raw.Templates))
	for i, t := range raw.Templates {
		f.Templates[i] = t.tmpl
	}
	return nil
}

type template struct {
	tmpl *ast.Template
}

func (t *template) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Name       string `yaml:"name"`
		TypeParams []struct {
			Name       string `yaml:"name"`
			Constraint string `yaml:"constraint"`
		} `yaml:"type_params"`
		Fields []struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		} `yaml:"fields"`
		Nodes []node `yaml:"nodes"`
	}
	if err := checkKeys(value, "template", "name", "type_params", "fields", "nodes"); err != nil {
		return err
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return errorf(value, "template has no name")
	}
	tmpl := &ast.Template{Name: raw.Name, Nodes: nodes(raw.Nodes)}
	for _, p := range raw.TypeParams {
		constraint := p.Constraint
		if constraint == "" {
			constraint = "any"
		}
		tmpl.TypeParams = append(tmpl.TypeParams, &ast.TypeParam{Name: p.Name, Constraint: constraint})
	}
	for _, f := range raw.Fields {
		tmpl.Fields = append(tmpl.Fields, &ast.Field{Name: f.Name, Type: f.Type})
	}
	t.tmpl = tmpl
	return nil
}

// node decodes a node of a template.
type node struct {
	n ast.Node
}

var nodeKinds = []string{"element", "text", "expr", "markdown", "if", "for"}

func (n *node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errorf(value, "node must be a mapping")
	}
	var kind string
	for i := 0; i < len(value.Content); i += 2 {
		key := value.Content[i].Value
		for _, k := range nodeKinds {
			if key == k {
				if kind != "" {
					return errorf(value.Content[i], "node has both %q and %q", kind, key)
				}
				kind = key
			}
		}
	}
	switch kind {
	case "element":
		return n.element(value)
	case "text", "expr", "markdown":
		if err := checkKeys(value, kind, kind); err != nil {
			return err
		}
		var raw map[string]string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		switch kind {
		case "text":
			n.n = ast.NewText(raw[kind])
		case "expr":
			n.n = ast.NewExpr(ast.Expr(raw[kind]))
		case "markdown":
			n.n = ast.NewMarkdown(raw[kind])
		}
	case "if":
		return n.ifNode(value)
	case "for":
		return n.forNode(value)
	default:
		return errorf(value, "node must have one of the keys %s", strings.Join(nodeKinds, ", "))
	}
	return nil
}

func (n *node) element(value *yaml.Node) error {
	var raw struct {
		Element string   `yaml:"element"`
		ID      string   `yaml:"id"`
		Class   []string `yaml:"class"`
		Attrs   []struct {
			Name  string `yaml:"name"`
			Value string `yaml:"value"`
			Bool  bool   `yaml:"bool"`
		} `yaml:"attrs"`
		Close    *bool  `yaml:"close"`
		Children []node `yaml:"children"`
	}
	if err := checkKeys(value, "element", "element", "id", "class", "attrs", "close", "children"); err != nil {
		return err
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	el := &ast.Element{
		Name:     raw.Element,
		ID:       ast.Expr(raw.ID),
		Close:    raw.Close == nil || *raw.Close,
		Children: nodes(raw.Children),
	}
	for _, class := range raw.Class {
		el.Classes = append(el.Classes, ast.Expr(class))
	}
	for _, attr := range raw.Attrs {
		el.Attributes = append(el.Attributes, &ast.Attribute{Name: attr.Name, Value: ast.Expr(attr.Value), Bool: attr.Bool})
	}
	n.n = el
	return nil
}

func (n *node) ifNode(value *yaml.Node) error {
	var raw struct {
		If []struct {
			Test string `yaml:"test"`
			Then []node `yaml:"then"`
		} `yaml:"if"`
		Else *[]node `yaml:"else"`
	}
	if err := checkKeys(value, "if", "if", "else"); err != nil {
		return err
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if len(raw.If) == 0 {
		return errorf(value, "if node has no clauses")
	}
	in := &ast.If{Clauses: make([]*ast.IfClause, len(raw.If))}
	for i, clause := range raw.If {
		in.Clauses[i] = &ast.IfClause{Test: ast.Expr(clause.Test), Consequent: nodes(clause.Then)}
	}
	if raw.Else != nil {
		in.Default = nodes(*raw.Else)
		if in.Default == nil {
			in.Default = []ast.Node{}
		}
	}
	n.n = in
	return nil
}

func (n *node) forNode(value *yaml.Node) error {
	var raw struct {
		For struct {
			Pattern string `yaml:"pattern"`
			In      string `yaml:"in"`
			Body    []node `yaml:"body"`
		} `yaml:"for"`
	}
	if err := checkKeys(value, "for", "for"); err != nil {
		return err
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	n.n = &ast.For{
		Pattern:  raw.For.Pattern,
		Iterable: ast.Expr(raw.For.In),
		Body:     nodes(raw.For.Body),
	}
	return nil
}

func nodes(raw []node) []ast.Node {
	if raw == nil {
		return nil
	}
	nodes := make([]ast.Node, len(raw))
	for i, n := range raw {
		nodes[i] = n.n
	}
	return nodes
}

// checkKeys checks that the mapping value has only the given keys.
func checkKeys(value *yaml.Node, what string, keys ...string) error {
	if value.Kind != yaml.MappingNode {
		return errorf(value, "%s must be a mapping", what)
	}
	for i := 0; i < len(value.Content); i += 2 {
		key := value.Content[i]
		found := false
		for _, k := range keys {
			if key.Value == k {
				found = true
				break
			}
		}
		if !found {
			sort.Strings(keys)
			return errorf(key, "unknown key %q in %s, expecting one of %s", key.Value, what, strings.Join(keys, ", "))
		}
	}
	return nil
}
