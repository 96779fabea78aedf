// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtime provides the functions and types used by the code that
// markup generates.
//
// A generated template type implements Renderer and fmt.Stringer:
//
//	type Greeting struct {
//		Name string
//	}
//
//	func (__t Greeting) Render(__w io.Writer) error { ... }
//	func (__t Greeting) String() string { ... }
//
// and values of expressions in a template are written with Render.
package runtime

import "io"

// Renderer is implemented by values that render themselves. Templates
// generated by markup implement Renderer, so a template can be used as a
// value in the expression of another template.
type Renderer interface {
	Render(w io.Writer) error
}

// HTML is a string that is written without being escaped. Use it only with
// trusted content.
type HTML string

// Render implements the Renderer interface.
func (h HTML) Render(w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	return err
}

// RendererFunc is an adapter to allow the use of ordinary functions as
// renderers.
type RendererFunc func(w io.Writer) error

// Render calls f(w).
func (f RendererFunc) Render(w io.Writer) error {
	return f(w)
}

// Converter is implemented by format converters. A Converter converts src
// and writes the result to out. It is used to convert Markdown text to HTML
// when a template is generated.
type Converter func(src []byte, out io.Writer) error
