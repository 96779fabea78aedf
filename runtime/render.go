// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
)

// Render writes the value v to w.
//
// If v implements Renderer, Render calls its Render method. Otherwise v is
// formatted, escaped with HTMLEscapeString, and written to w with a single
// write. A nil value, or a nil pointer or function implementing Renderer,
// writes nothing.
//
// Values are formatted as follows: a string as is, a bool as "true" or
// "false", numbers in decimal form, a []byte as a string, an error with its
// Error method, a fmt.Stringer with its String method and any other value as
// with fmt.Sprint.
//
// The error returned by w, if any, is returned unchanged.
func Render(w io.Writer, v interface{}) error {
	var s string
	switch v := v.(type) {
	case nil:
		return nil
	case Renderer:
		if isNil(v) {
			return nil
		}
		return v.Render(w)
	case string:
		s = v
	case bool:
		s = strconv.FormatBool(v)
	case int:
		s = strconv.Itoa(v)
	case int8:
		s = strconv.FormatInt(int64(v), 10)
	case int16:
		s = strconv.FormatInt(int64(v), 10)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	case int64:
		s = strconv.FormatInt(v, 10)
	case uint:
		s = strconv.FormatUint(uint64(v), 10)
	case uint8:
		s = strconv.FormatUint(uint64(v), 10)
	case uint16:
		s = strconv.FormatUint(uint64(v), 10)
	case uint32:
		s = strconv.FormatUint(uint64(v), 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	case float32:
		s = strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		s = strconv.FormatFloat(v, 'g', -1, 64)
	case []byte:
		s = string(v)
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	_, err := io.WriteString(w, HTMLEscapeString(s))
	return err
}

// isNil reports whether r is a nil pointer, function, map or slice.
func isNil(r Renderer) bool {
	switch rv := reflect.ValueOf(r); rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
