// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler lowers template trees to output operations and emits
// the Go source code that executes them.
//
// Lowering walks a tree in depth, in declaration order, accumulating the
// static markup in a buffer. When a dynamic construct is found, the buffer
// is flushed as a single Write operation, so the number of Write operations
// is the number of maximal runs of static content.
package compiler

import (
	"github.com/open2b/markup/runtime"
)

// DefaultRuntimePath is the default import path of the runtime package used
// by the generated code.
const DefaultRuntimePath = "github.com/open2b/markup/runtime"

// Options holds the options of the compiler.
type Options struct {

	// MarkdownConverter converts the Markdown text nodes to HTML when a
	// template is lowered. If it is nil, Markdown text is written as
	// literal text.
	MarkdownConverter runtime.Converter

	// RuntimePath is the import path of the runtime package. If it is
	// empty, DefaultRuntimePath is used.
	RuntimePath string
}

func (o *Options) converter() runtime.Converter {
	if o == nil {
		return nil
	}
	return o.MarkdownConverter
}

func (o *Options) runtimePath() string {
	if o == nil || o.RuntimePath == "" {
		return DefaultRuntimePath
	}
	return o.RuntimePath
}
