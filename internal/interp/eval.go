// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package interp

import (
	"errors"
	"fmt"
	goast "go/ast"
	"go/token"
	"math"
	"reflect"
	"sort"
	"strconv"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// eval evaluates the expression e. The invalid reflect.Value is nil.
func eval(e goast.Expr, s *scope) (reflect.Value, error) {
	switch e := e.(type) {
	case *goast.BasicLit:
		return literal(e)
	case *goast.Ident:
		if v, ok := s.lookup(e.Name); ok {
			return indirect(v), nil
		}
		switch e.Name {
		case "true":
			return reflect.ValueOf(true), nil
		case "false":
			return reflect.ValueOf(false), nil
		case "nil":
			return reflect.Value{}, nil
		}
		return reflect.Value{}, fmt.Errorf("undefined: %s", e.Name)
	case *goast.ParenExpr:
		return eval(e.X, s)
	case *goast.SelectorExpr:
		x, err := eval(e.X, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return member(x, e.Sel.Name)
	case *goast.IndexExpr:
		x, err := eval(e.X, s)
		if err != nil {
			return reflect.Value{}, err
		}
		i, err := eval(e.Index, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return index(x, i)
	case *goast.UnaryExpr:
		x, err := eval(e.X, s)
		if err != nil {
			return reflect.Value{}, err
		}
		return unary(e.Op, x)
	case *goast.BinaryExpr:
		return binary(e, s)
	case *goast.CallExpr:
		return call(e, s)
	}
	return reflect.Value{}, fmt.Errorf("unsupported expression %T", e)
}

// indirect returns the value contained in v, if v is an interface.
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func literal(lit *goast.BasicLit) (reflect.Value, error) {
	switch lit.Kind {
	case token.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(int(n)), nil
	case token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f), nil
	case token.CHAR:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf([]rune(s)[0]), nil
	case token.STRING:
		s, err := strconv.Unquote(lit.Value)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(s), nil
	}
	return reflect.Value{}, fmt.Errorf("unsupported literal %s", lit.Value)
}

// member returns the field, method or map element name of x.
func member(x reflect.Value, name string) (reflect.Value, error) {
	if !x.IsValid() {
		return reflect.Value{}, fmt.Errorf("invalid selector %s of nil", name)
	}
	if token.IsExported(name) {
		if m := x.MethodByName(name); m.IsValid() {
			return m, nil
		}
		if x.Kind() != reflect.Pointer && x.CanAddr() {
			if m := x.Addr().MethodByName(name); m.IsValid() {
				return m, nil
			}
		}
	}
	v := x
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil pointer dereference")
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		if f, ok := v.Type().FieldByName(name); ok && f.IsExported() {
			fv, err := v.FieldByIndexErr(f.Index)
			if err != nil {
				return reflect.Value{}, err
			}
			return indirect(fv), nil
		}
	case reflect.Map:
		if kt := v.Type().Key(); kt.Kind() == reflect.String {
			e := v.MapIndex(reflect.ValueOf(name).Convert(kt))
			if !e.IsValid() {
				e = reflect.Zero(v.Type().Elem())
			}
			return indirect(e), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%s has no field or method %s", x.Type(), name)
}

func index(x, i reflect.Value) (reflect.Value, error) {
	switch x.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		n, ok := toInt(i)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid index of type %s", typeName(i))
		}
		if n < 0 || n >= int64(x.Len()) {
			return reflect.Value{}, fmt.Errorf("index out of range [%d] with length %d", n, x.Len())
		}
		return indirect(x.Index(int(n))), nil
	case reflect.Map:
		k, err := assign(i, x.Type().Key())
		if err != nil {
			return reflect.Value{}, err
		}
		e := x.MapIndex(k)
		if !e.IsValid() {
			e = reflect.Zero(x.Type().Elem())
		}
		return indirect(e), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot index value of type %s", typeName(x))
}

func unary(op token.Token, x reflect.Value) (reflect.Value, error) {
	switch op {
	case token.NOT:
		if x.Kind() == reflect.Bool {
			return reflect.ValueOf(!x.Bool()).Convert(x.Type()), nil
		}
	case token.SUB, token.ADD:
		if !isNumber(x) {
			break
		}
		if op == token.ADD {
			return x, nil
		}
		if isFloat(x) {
			return reflect.ValueOf(-x.Float()).Convert(x.Type()), nil
		}
		n, _ := toInt(x)
		return reflect.ValueOf(-n).Convert(x.Type()), nil
	}
	return reflect.Value{}, fmt.Errorf("invalid operation: operator %s not defined on value of type %s", op, typeName(x))
}

func binary(e *goast.BinaryExpr, s *scope) (reflect.Value, error) {
	x, err := eval(e.X, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if e.Op == token.LAND || e.Op == token.LOR {
		if x.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("invalid operation: operator %s not defined on value of type %s", e.Op, typeName(x))
		}
		if x.Bool() == (e.Op == token.LOR) {
			return x, nil
		}
		y, err := eval(e.Y, s)
		if err != nil {
			return reflect.Value{}, err
		}
		if y.Kind() != reflect.Bool {
			return reflect.Value{}, fmt.Errorf("invalid operation: operator %s not defined on value of type %s", e.Op, typeName(y))
		}
		return y, nil
	}
	y, err := eval(e.Y, s)
	if err != nil {
		return reflect.Value{}, err
	}
	switch e.Op {
	case token.EQL, token.NEQ:
		eq, err := equal(x, y)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(eq == (e.Op == token.EQL)), nil
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		c, err := compare(x, y)
		if err != nil {
			return reflect.Value{}, err
		}
		var b bool
		switch e.Op {
		case token.LSS:
			b = c < 0
		case token.LEQ:
			b = c <= 0
		case token.GTR:
			b = c > 0
		case token.GEQ:
			b = c >= 0
		}
		return reflect.ValueOf(b), nil
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		return arithmetic(e.Op, x, y)
	}
	return reflect.Value{}, fmt.Errorf("unsupported operator %s", e.Op)
}

func equal(x, y reflect.Value) (bool, error) {
	switch {
	case !x.IsValid() && !y.IsValid():
		return true, nil
	case !x.IsValid():
		return isNil(y)
	case !y.IsValid():
		return isNil(x)
	case isNumber(x) && isNumber(y):
		c, err := compare(x, y)
		return c == 0, err
	case x.Kind() == reflect.String && y.Kind() == reflect.String:
		return x.String() == y.String(), nil
	case x.Kind() == reflect.Bool && y.Kind() == reflect.Bool:
		return x.Bool() == y.Bool(), nil
	case x.Type() == y.Type() && x.Type().Comparable():
		return x.Interface() == y.Interface(), nil
	}
	return false, fmt.Errorf("invalid operation: mismatched types %s and %s", x.Type(), y.Type())
}

func isNil(v reflect.Value) (bool, error) {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil(), nil
	}
	return false, fmt.Errorf("invalid operation: mismatched types %s and nil", v.Type())
}

// compare compares two numbers or two strings.
func compare(x, y reflect.Value) (int, error) {
	switch {
	case x.Kind() == reflect.String && y.Kind() == reflect.String:
		a, b := x.String(), y.String()
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case isFloat(x) && isNumber(y), isNumber(x) && isFloat(y):
		a, b := toFloat(x), toFloat(y)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	case isNumber(x) && isNumber(y):
		if isUint(x) && isUint(y) {
			a, b := x.Uint(), y.Uint()
			switch {
			case a < b:
				return -1, nil
			case a > b:
				return 1, nil
			}
			return 0, nil
		}
		a, _ := toInt(x)
		b, _ := toInt(y)
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("invalid operation: cannot compare %s and %s", typeName(x), typeName(y))
}

func arithmetic(op token.Token, x, y reflect.Value) (reflect.Value, error) {
	if op == token.ADD && x.Kind() == reflect.String && y.Kind() == reflect.String {
		return reflect.ValueOf(x.String() + y.String()).Convert(x.Type()), nil
	}
	if !isNumber(x) || !isNumber(y) {
		return reflect.Value{}, fmt.Errorf("invalid operation: operator %s not defined on values of type %s and %s", op, typeName(x), typeName(y))
	}
	typ := x.Type()
	if typ != y.Type() {
		typ = nil
	}
	var r reflect.Value
	if isFloat(x) || isFloat(y) {
		a, b := toFloat(x), toFloat(y)
		var f float64
		switch op {
		case token.ADD:
			f = a + b
		case token.SUB:
			f = a - b
		case token.MUL:
			f = a * b
		case token.QUO:
			f = a / b
		case token.REM:
			return reflect.Value{}, errors.New("invalid operation: operator % not defined on floating-point values")
		}
		if typ == nil {
			return reflect.ValueOf(f), nil
		}
		r = reflect.ValueOf(f)
	} else {
		a, _ := toInt(x)
		b, _ := toInt(y)
		if (op == token.QUO || op == token.REM) && b == 0 {
			return reflect.Value{}, errors.New("integer divide by zero")
		}
		var n int64
		switch op {
		case token.ADD:
			n = a + b
		case token.SUB:
			n = a - b
		case token.MUL:
			n = a * b
		case token.QUO:
			n = a / b
		case token.REM:
			n = a % b
		}
		if typ == nil {
			return reflect.ValueOf(int(n)), nil
		}
		r = reflect.ValueOf(n)
	}
	return r.Convert(typ), nil
}

func call(e *goast.CallExpr, s *scope) (reflect.Value, error) {
	if id, ok := e.Fun.(*goast.Ident); ok && id.Name == "len" {
		if _, shadowed := s.lookup("len"); !shadowed {
			if len(e.Args) != 1 {
				return reflect.Value{}, errors.New("len requires one argument")
			}
			x, err := eval(e.Args[0], s)
			if err != nil {
				return reflect.Value{}, err
			}
			switch x.Kind() {
			case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
				return reflect.ValueOf(x.Len()), nil
			}
			return reflect.Value{}, fmt.Errorf("invalid argument for len of type %s", typeName(x))
		}
	}
	fn, err := eval(e.Fun, s)
	if err != nil {
		return reflect.Value{}, err
	}
	if fn.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("invalid operation: cannot call non-function of type %s", typeName(fn))
	}
	if fn.IsNil() {
		return reflect.Value{}, errors.New("call of nil function")
	}
	t := fn.Type()
	if t.IsVariadic() || t.NumIn() != len(e.Args) {
		return reflect.Value{}, fmt.Errorf("wrong number of arguments in call, expecting %d", t.NumIn())
	}
	args := make([]reflect.Value, len(e.Args))
	for i, arg := range e.Args {
		a, err := eval(arg, s)
		if err != nil {
			return reflect.Value{}, err
		}
		args[i], err = assign(a, t.In(i))
		if err != nil {
			return reflect.Value{}, err
		}
	}
	switch {
	case t.NumOut() == 1:
		return indirect(fn.Call(args)[0]), nil
	case t.NumOut() == 2 && t.Out(1) == errorType:
		out := fn.Call(args)
		if err, _ := out[1].Interface().(error); err != nil {
			return reflect.Value{}, err
		}
		return indirect(out[0]), nil
	}
	return reflect.Value{}, errors.New("function call must return one value")
}

// assign returns v as a value of type t.
func assign(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	switch {
	case !v.IsValid():
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface:
			return reflect.Zero(t), nil
		}
	case v.Type().AssignableTo(t):
		return v, nil
	case isNumber(v) && isNumberKind(t.Kind()):
		return v.Convert(t), nil
	case v.Kind() == reflect.String && t.Kind() == reflect.String:
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use value of type %s as %s value", typeName(v), t)
}

func typeName(v reflect.Value) string {
	if !v.IsValid() {
		return "nil"
	}
	return v.Type().String()
}

func isNumberKind(k reflect.Kind) bool {
	return reflect.Int <= k && k <= reflect.Float64
}

func isNumber(v reflect.Value) bool { return isNumberKind(v.Kind()) }

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func isUint(v reflect.Value) bool {
	return reflect.Uint <= v.Kind() && v.Kind() <= reflect.Uintptr
}

// toInt returns the integer value of v and true, if v is an integer.
func toInt(v reflect.Value) (int64, bool) {
	switch {
	case reflect.Int <= v.Kind() && v.Kind() <= reflect.Int64:
		return v.Int(), true
	case isUint(v):
		u := v.Uint()
		if u > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(u), true
	}
	return 0, false
}

func toFloat(v reflect.Value) float64 {
	if isFloat(v) {
		return v.Float()
	}
	if isUint(v) {
		return float64(v.Uint())
	}
	return float64(v.Int())
}

// sortValues sorts the keys of a map.
func sortValues(keys []reflect.Value) {
	sort.Slice(keys, func(i, j int) bool {
		a, b := indirect(keys[i]), indirect(keys[j])
		if c, err := compare(a, b); err == nil {
			return c < 0
		}
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})
}
