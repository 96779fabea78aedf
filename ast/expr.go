// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import (
	goast "go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
)

// Expr is a Go expression in source form. Expressions are opaque: they are
// not evaluated when a template is compiled, with the only exception of
// string literals.
type Expr string

// StringLiteral reports whether e is a Go string literal, interpreted or
// raw, and returns its value.
func (e Expr) StringLiteral() (string, bool) {
	s := strings.TrimSpace(string(e))
	if len(s) < 2 || (s[0] != '"' && s[0] != '`') {
		return "", false
	}
	ex, err := parser.ParseExpr(s)
	if err != nil {
		return "", false
	}
	lit, ok := ex.(*goast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	v, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return v, true
}

// Quote returns a Go string literal with value s.
func Quote(s string) Expr {
	return Expr(strconv.Quote(s))
}
