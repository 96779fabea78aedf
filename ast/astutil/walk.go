// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package astutil

import (
	"fmt"

	"github.com/open2b/markup/ast"
)

// Visitor's Visit method is invoked for every node encountered by Walk.
type Visitor interface {
	Visit(node ast.Node) (w Visitor)
}

// Walk visits a tree in depth. Initially it calls v.Visit(node), where node
// must not be nil. If the value w returned by v.Visit(node) is not nil, Walk
// is called recursively using w as the Visitor on all the children of node.
// Finally, it calls w.Visit(nil).
func Walk(v Visitor, node ast.Node) {

	if v == nil {
		panic("v can't be nil")
	}
	if node == nil {
		panic("node can't be nil")
	}

	v = v.Visit(node)
	if v == nil {
		return
	}

	switch n := node.(type) {
	case *ast.Element:
		walkNodes(v, n.Children)
	case *ast.Text:
		// Nothing to do.
	case *ast.If:
		for _, clause := range n.Clauses {
			walkNodes(v, clause.Consequent)
		}
		walkNodes(v, n.Default)
	case *ast.For:
		walkNodes(v, n.Body)
	default:
		panic(fmt.Sprintf("unsupported node type %T", node))
	}

	v.Visit(nil)
}

func walkNodes(v Visitor, nodes []ast.Node) {
	for _, node := range nodes {
		Walk(v, node)
	}
}

type inspector func(ast.Node) bool

func (f inspector) Visit(node ast.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect visits the nodes in depth first order, calling f(node) for each
// node. If f returns true, Inspect also visits the children of node and then
// calls f(nil).
func Inspect(nodes []ast.Node, f func(ast.Node) bool) {
	for _, node := range nodes {
		Walk(inspector(f), node)
	}
}
