// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

// HTMLEscapeString escapes s replacing the characters &, <, > and " with
// &amp;, &lt;, &gt; and &quot;. All the other characters are left unchanged.
//
// The escaped string can be placed in an element content or in a double
// quoted attribute value.
func HTMLEscapeString(s string) string {
	n := 0
	j := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			n += 4
		case '"':
			n += 5
		case '<', '>':
			n += 3
		default:
			continue
		}
		if j < 0 {
			j = i
		}
	}
	if n == 0 {
		return s
	}
	b := make([]byte, len(s)+n)
	k := copy(b, s[:j])
	for i := j; i < len(s); i++ {
		switch c := s[i]; c {
		case '&':
			k += copy(b[k:], "&amp;")
		case '"':
			k += copy(b[k:], "&quot;")
		case '<':
			k += copy(b[k:], "&lt;")
		case '>':
			k += copy(b[k:], "&gt;")
		default:
			b[k] = c
			k++
		}
	}
	return string(b)
}
