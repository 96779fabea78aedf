// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ir declares the output operations a template is lowered to.
//
// A Block is an ordered sequence of operations. Executing a block writes to
// a sink the result of each operation, in order:
//
//   - *Write writes a literal, already escaped, text.
//   - *Show renders the value of an expression.
//   - *If executes the body of the first branch whose condition is true,
//     or the else block if no condition is true.
//   - *For executes its body once for each element of an iterable.
//
// Blocks are immutable once built and can be executed any number of times.
package ir

import "github.com/open2b/markup/ast"

// Op is an output operation. It is implemented only by *Write, *Show, *If
// and *For.
type Op interface {
	op()
}

// Block is a sequence of operations.
type Block []Op

// Write writes Text to the sink.
type Write struct {
	Text string
}

func (*Write) op() {}

// Show renders the value of Expr to the sink.
type Show struct {
	Expr ast.Expr
}

func (*Show) op() {}

// If executes the body of the first branch whose condition is true. If no
// condition is true it executes Else. A nil Else means there is no else.
type If struct {
	Branches []Branch // never empty.
	Else     Block
}

func (*If) op() {}

// Branch is a branch of an If operation.
type Branch struct {
	Cond ast.Expr
	Body Block
}

// For executes Body for each element of Iterable, binding Pattern.
type For struct {
	Pattern  string
	Iterable ast.Expr
	Body     Block
}

func (*For) op() {}

// Stats holds the number of operations in a block, nested blocks included.
type Stats struct {
	Writes int // number of Write operations.
	Shows  int // number of Show operations.
	Ifs    int // number of If operations.
	Fors   int // number of For operations.
}

// Stats returns the operation counts of b.
func (b Block) Stats() Stats {
	var s Stats
	b.count(&s)
	return s
}

func (b Block) count(s *Stats) {
	for _, op := range b {
		switch op := op.(type) {
		case *Write:
			s.Writes++
		case *Show:
			s.Shows++
		case *If:
			s.Ifs++
			for _, br := range op.Branches {
				br.Body.count(s)
			}
			op.Else.count(s)
		case *For:
			s.Fors++
			op.Body.count(s)
		}
	}
}
