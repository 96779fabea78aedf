// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "testing"

var stringLiteralTests = []struct {
	expr  Expr
	value string
	ok    bool
}{
	{`"a"`, "a", true},
	{`""`, "", true},
	{`"a&b"`, "a&b", true},
	{`"a\tb"`, "a\tb", true},
	{"`raw\\n`", `raw\n`, true},
	{` "padded" `, "padded", true},
	{`"a" + "b"`, "", false},
	{`a`, "", false},
	{`'a'`, "", false},
	{`1`, "", false},
	{`f("a")`, "", false},
	{`"unterminated`, "", false},
	{``, "", false},
}

func TestStringLiteral(t *testing.T) {
	for _, test := range stringLiteralTests {
		value, ok := test.expr.StringLiteral()
		if ok != test.ok {
			t.Errorf("%q: expecting ok %t, got %t", test.expr, test.ok, ok)
			continue
		}
		if value != test.value {
			t.Errorf("%q: expecting value %q, got %q", test.expr, test.value, value)
		}
	}
}

func TestQuote(t *testing.T) {
	for _, s := range []string{"", "a", `a"b`, "a\nb", "è<>"} {
		v, ok := Quote(s).StringLiteral()
		if !ok {
			t.Fatalf("%q: quoted value is not a string literal", s)
		}
		if v != s {
			t.Fatalf("expecting %q, got %q", s, v)
		}
	}
}

func TestTextConstructors(t *testing.T) {
	if n := NewText("a"); n.Kind != TextLiteral || n.Value != "a" {
		t.Fatalf("unexpected literal %#v", n)
	}
	if n := NewExpr("x.y"); n.Kind != TextExpr || n.Value != "x.y" {
		t.Fatalf("unexpected expression %#v", n)
	}
	if n := NewMarkdown("# a"); n.Kind != TextMarkdown || n.Value != "# a" {
		t.Fatalf("unexpected markdown %#v", n)
	}
	if s := TextMarkdown.String(); s != "markdown" {
		t.Fatalf("unexpected kind string %q", s)
	}
}
