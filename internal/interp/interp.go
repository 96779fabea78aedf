// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package interp executes output operations without compiling them.
//
// Run writes the same output the generated Render method writes, evaluating
// the expressions with reflection. It is used to preview templates and to
// test the operations produced by the compiler.
package interp

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"io"
	"reflect"
	"strings"

	"github.com/open2b/markup/ast"
	"github.com/open2b/markup/ir"
	"github.com/open2b/markup/runtime"
)

// EvalError is returned by Run when an expression cannot be evaluated.
type EvalError struct {
	Expr ast.Expr
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Run executes the operations of block writing the output to w.
//
// The variables visible to the expressions are the exported fields of data,
// if it is a struct or a pointer to a struct, or its keys, if it is a map
// with string keys. data can be nil.
//
// Run returns an *EvalError if an expression cannot be evaluated. If a write
// fails, it stops and returns the error of w unchanged.
func Run(w io.Writer, block ir.Block, data interface{}) error {
	vars, err := variables(data)
	if err != nil {
		return err
	}
	r := &runner{w: w, exprs: map[ast.Expr]goast.Expr{}}
	return r.block(block, &scope{vars: vars})
}

// variables returns the variables of data.
func variables(data interface{}) (map[string]reflect.Value, error) {
	vars := map[string]reflect.Value{}
	if data == nil {
		return vars, nil
	}
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return vars, nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() && !f.Anonymous {
				vars[f.Name] = v.Field(i)
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("interp: unsupported data of type %T", data)
		}
		iter := v.MapRange()
		for iter.Next() {
			vars[iter.Key().String()] = iter.Value()
		}
	default:
		return nil, fmt.Errorf("interp: unsupported data of type %T", data)
	}
	return vars, nil
}

// scope is a lexical scope. Each iteration of a for loop has its own scope.
type scope struct {
	vars   map[string]reflect.Value
	parent *scope
}

func (s *scope) lookup(name string) (reflect.Value, bool) {
	for ; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return reflect.Value{}, false
}

type runner struct {
	w     io.Writer
	exprs map[ast.Expr]goast.Expr // parsed expressions.
}

func (r *runner) block(block ir.Block, s *scope) error {
	for _, op := range block {
		switch op := op.(type) {
		case *ir.Write:
			if _, err := io.WriteString(r.w, op.Text); err != nil {
				return err
			}
		case *ir.Show:
			v, err := r.eval(op.Expr, s)
			if err != nil {
				return err
			}
			var i interface{}
			if v.IsValid() {
				i = v.Interface()
			}
			if err := runtime.Render(r.w, i); err != nil {
				return err
			}
		case *ir.If:
			body := op.Else
			for _, br := range op.Branches {
				ok, err := r.cond(br.Cond, s)
				if err != nil {
					return err
				}
				if ok {
					body = br.Body
					break
				}
			}
			if err := r.block(body, s); err != nil {
				return err
			}
		case *ir.For:
			if err := r.loop(op, s); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("interp: unexpected operation %T", op))
		}
	}
	return nil
}

// cond evaluates the condition of an if branch.
func (r *runner) cond(expr ast.Expr, s *scope) (bool, error) {
	v, err := r.eval(expr, s)
	if err != nil {
		return false, err
	}
	if v.Kind() != reflect.Bool {
		return false, &EvalError{Expr: expr, Err: fmt.Errorf("non-boolean condition in if statement")}
	}
	return v.Bool(), nil
}

// loop executes a for operation.
func (r *runner) loop(op *ir.For, s *scope) error {
	names, err := patternNames(op.Pattern)
	if err != nil {
		return &EvalError{Expr: ast.Expr(op.Pattern), Err: err}
	}
	v, err := r.eval(op.Iterable, s)
	if err != nil {
		return err
	}
	iteration := func(key, value reflect.Value) error {
		inner := &scope{vars: map[string]reflect.Value{}, parent: s}
		if len(names) > 0 && names[0] != "_" {
			inner.vars[names[0]] = key
		}
		if len(names) > 1 && names[1] != "_" {
			inner.vars[names[1]] = value
		}
		return r.block(op.Body, inner)
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := iteration(reflect.ValueOf(i), indirect(v.Index(i))); err != nil {
				return err
			}
		}
	case reflect.String:
		for i, c := range v.String() {
			if err := iteration(reflect.ValueOf(i), reflect.ValueOf(c)); err != nil {
				return err
			}
		}
	case reflect.Map:
		keys := v.MapKeys()
		sortValues(keys)
		for _, k := range keys {
			if err := iteration(indirect(k), indirect(v.MapIndex(k))); err != nil {
				return err
			}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if len(names) > 1 {
			return &EvalError{Expr: op.Iterable, Err: fmt.Errorf("range over %s permits only one iteration variable", op.Iterable)}
		}
		n, _ := toInt(v)
		for i := int64(0); i < n; i++ {
			if err := iteration(reflect.ValueOf(i).Convert(v.Type()), reflect.Value{}); err != nil {
				return err
			}
		}
	case reflect.Invalid:
		return &EvalError{Expr: op.Iterable, Err: fmt.Errorf("cannot range over nil")}
	default:
		return &EvalError{Expr: op.Iterable, Err: fmt.Errorf("cannot range over %s (value of type %s)", op.Iterable, v.Type())}
	}
	return nil
}

// patternNames returns the names of the identifiers of a range pattern.
func patternNames(pattern string) ([]string, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}
	names := strings.Split(pattern, ",")
	if len(names) > 2 {
		return nil, fmt.Errorf("range clause permits at most two iteration variables")
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if !token.IsIdentifier(name) {
			return nil, fmt.Errorf("invalid iteration variable %q", name)
		}
		names[i] = name
	}
	return names, nil
}

// eval evaluates expr in the scope s.
func (r *runner) eval(expr ast.Expr, s *scope) (reflect.Value, error) {
	e, ok := r.exprs[expr]
	if !ok {
		var err error
		e, err = parser.ParseExpr(string(expr))
		if err != nil {
			return reflect.Value{}, &EvalError{Expr: expr, Err: err}
		}
		r.exprs[expr] = e
	}
	v, err := eval(e, s)
	if err != nil {
		return reflect.Value{}, &EvalError{Expr: expr, Err: err}
	}
	return v, nil
}
