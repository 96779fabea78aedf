// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markup

import (
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/internal/compiler"
	"github.com/open2b/markup/internal/loader"
	"github.com/open2b/markup/ir"
	"github.com/open2b/markup/runtime"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Options holds the options of Lower, Generate and GenerateFile.
type Options struct {

	// Package is the name of the package of the generated file, if the
	// description read by GenerateFile does not declare it.
	Package string

	// MarkdownConverter converts Markdown text to HTML. If it is nil,
	// Markdown text is escaped as literal text. Use Markdown to convert
	// with goldmark.
	MarkdownConverter runtime.Converter

	// RuntimePath is the import path of the runtime package imported by the
	// generated code. If it is empty, it is "github.com/open2b/markup/runtime".
	RuntimePath string
}

func (o *Options) compiler() *compiler.Options {
	if o == nil {
		return nil
	}
	return &compiler.Options{
		MarkdownConverter: o.MarkdownConverter,
		RuntimePath:       o.RuntimePath,
	}
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown converts the Markdown src to HTML with goldmark, and the GitHub
// Flavored Markdown extensions, and writes it to out. It can be used as
// value of the MarkdownConverter option.
func Markdown(src []byte, out io.Writer) error {
	return md.Convert(src, out)
}

// Lower lowers the nodes of a template to output operations. It returns an
// error only if the conversion of a Markdown text fails.
func Lower(nodes []ast.Node, opts *Options) (ir.Block, error) {
	return compiler.Lower(nodes, opts.compiler())
}

// Generate returns the formatted source of a Go file of the package pkg
// that declares, for each template, a struct type with the fields of the
// template and the methods Render and String.
func Generate(pkg string, templates []*ast.Template, opts *Options) ([]byte, error) {
	if pkg == "" {
		return nil, fmt.Errorf("markup: missing package name")
	}
	return compiler.Emit(&compiler.File{Package: pkg, Templates: templates}, opts.compiler())
}

// GenerateFile reads the template description with the given name from
// fsys and returns the source of the Go file generated as Generate does.
// The package name is the one declared in the description or, if it is
// missing, the Package option.
//
// If the description is not valid, the returned error is a *loader.Error
// with the position of the error.
func GenerateFile(fsys fs.FS, name string, opts *Options) ([]byte, error) {
	f, err := loader.ParseFS(fsys, name)
	if err != nil {
		return nil, err
	}
	pkg := f.Package
	if pkg == "" && opts != nil {
		pkg = opts.Package
	}
	if pkg == "" {
		return nil, fmt.Errorf("markup: %s: missing package name", name)
	}
	file := &compiler.File{
		Package:   pkg,
		Source:    path.Base(name),
		Templates: f.Templates,
	}
	return compiler.Emit(file, opts.compiler())
}
