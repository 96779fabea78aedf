// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"strings"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/ir"
	"github.com/open2b/markup/runtime"
)

// builder accumulates the operations of a block.
//
// Static content is appended to buf and becomes a Write operation only when
// another operation is emitted or the block is finished, so buf is always
// flushed as a whole.
type builder struct {
	ops  ir.Block
	buf  strings.Builder
	conv runtime.Converter
	err  error // first conversion error.
}

func newBuilder(conv runtime.Converter) *builder {
	return &builder{conv: conv}
}

// raw appends s to the buffer without escaping it.
func (b *builder) raw(s string) {
	b.buf.WriteString(s)
}

// escaped appends s to the buffer escaping it.
func (b *builder) escaped(s string) {
	b.buf.WriteString(runtime.HTMLEscapeString(s))
}

// expr appends the value of the expression e. If e is a string literal its
// value is escaped and appended to the buffer, otherwise a Show operation
// is emitted.
func (b *builder) expr(e ast.Expr) {
	if s, ok := e.StringLiteral(); ok {
		b.escaped(s)
		return
	}
	b.emit(&ir.Show{Expr: e})
}

// markdown converts the Markdown source src and appends the result to the
// buffer. If there is no converter, src is appended as literal text.
func (b *builder) markdown(src string) {
	if b.conv == nil {
		b.escaped(src)
		return
	}
	var out strings.Builder
	err := b.conv([]byte(src), &out)
	if err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("markdown: %w", err)
		}
		return
	}
	b.raw(out.String())
}

// emit flushes the buffer and appends ops.
func (b *builder) emit(ops ...ir.Op) {
	b.flush()
	b.ops = append(b.ops, ops...)
}

func (b *builder) flush() {
	if b.buf.Len() == 0 {
		return
	}
	b.ops = append(b.ops, &ir.Write{Text: b.buf.String()})
	b.buf.Reset()
}

// scoped calls f with a new builder and returns the block it builds. The
// returned block is never nil.
func (b *builder) scoped(f func(b *builder)) ir.Block {
	nb := newBuilder(b.conv)
	f(nb)
	if nb.err != nil && b.err == nil {
		b.err = nb.err
	}
	return nb.finish()
}

// finish flushes the buffer and returns the operations. The returned block
// is never nil.
func (b *builder) finish() ir.Block {
	b.flush()
	if b.ops == nil {
		return ir.Block{}
	}
	return b.ops
}
