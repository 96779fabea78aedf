// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/open2b/markup/ir"
)

func TestBuilderEscaped(t *testing.T) {
	b := newBuilder(nil)
	b.escaped(`<a href="x">&</a>`)
	b.raw(`<b>`)
	expected := ir.Block{&ir.Write{Text: `&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;<b>`}}
	if diff := cmp.Diff(expected, b.finish()); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
}

func TestBuilderExprFolding(t *testing.T) {
	folded := newBuilder(nil)
	folded.expr(`"a&b"`)
	literal := newBuilder(nil)
	literal.escaped("a&b")
	if diff := cmp.Diff(literal.finish(), folded.finish()); diff != "" {
		t.Fatalf("folded literal differs from literal text (-want +got):\n%s", diff)
	}
	raw := newBuilder(nil)
	raw.expr("`<raw>`")
	expected := ir.Block{&ir.Write{Text: "&lt;raw&gt;"}}
	if diff := cmp.Diff(expected, raw.finish()); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
}

func TestBuilderFlush(t *testing.T) {
	b := newBuilder(nil)
	b.raw("a")
	b.escaped("b")
	b.expr("x")
	b.expr("y")
	b.raw("c")
	b.expr(`"d"`)
	b.emit(&ir.For{Iterable: "z", Body: ir.Block{}})
	b.emit()
	b.raw("e")
	expected := ir.Block{
		&ir.Write{Text: "ab"},
		&ir.Show{Expr: "x"},
		&ir.Show{Expr: "y"},
		&ir.Write{Text: "cd"},
		&ir.For{Iterable: "z", Body: ir.Block{}},
		&ir.Write{Text: "e"},
	}
	if diff := cmp.Diff(expected, b.finish()); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
}

func TestBuilderScoped(t *testing.T) {
	b := newBuilder(nil)
	b.raw("before")
	body := b.scoped(func(b *builder) {
		b.raw("inside")
	})
	b.raw("after")
	if diff := cmp.Diff(ir.Block{&ir.Write{Text: "inside"}}, body); diff != "" {
		t.Fatalf("unexpected scoped block (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ir.Block{&ir.Write{Text: "beforeafter"}}, b.finish()); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
	empty := newBuilder(nil).scoped(func(*builder) {})
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expecting an empty non-nil block, got %#v", empty)
	}
}

func TestBuilderMarkdown(t *testing.T) {
	conv := func(src []byte, out io.Writer) error {
		_, err := io.WriteString(out, "<p>"+string(src)+"</p>")
		return err
	}
	b := newBuilder(conv)
	b.markdown("a<b")
	if diff := cmp.Diff(ir.Block{&ir.Write{Text: "<p>a<b</p>"}}, b.finish()); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
	b = newBuilder(nil)
	b.markdown("a<b")
	if diff := cmp.Diff(ir.Block{&ir.Write{Text: "a&lt;b"}}, b.finish()); diff != "" {
		t.Fatalf("unexpected block (-want +got):\n%s", diff)
	}
	errConv := errors.New("conversion error")
	b = newBuilder(func([]byte, io.Writer) error { return errConv })
	b.scoped(func(b *builder) { b.markdown("a") })
	if !errors.Is(b.err, errConv) {
		t.Fatalf("expecting conversion error, got %v", b.err)
	}
}
