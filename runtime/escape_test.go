// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import "testing"

var htmlEscapeCases = []struct {
	src      string
	expected string
}{
	{``, ``},
	{`a`, `a`},
	{`&`, `&amp;`},
	{`<`, `&lt;`},
	{`>`, `&gt;`},
	{`"`, `&quot;`},
	{`'`, `'`},
	{`a&b`, `a&amp;b`},
	{`&amp;`, `&amp;amp;`},
	{`<a href="x">`, `&lt;a href=&quot;x&quot;&gt;`},
	{`è<é>`, `è&lt;é&gt;`},
	{"  \t\n ", "  \t\n "},
	{`no special chars`, `no special chars`},
	{`trailing&`, `trailing&amp;`},
}

func TestHTMLEscapeString(t *testing.T) {
	for _, cas := range htmlEscapeCases {
		got := HTMLEscapeString(cas.src)
		if got != cas.expected {
			t.Errorf("src: %q: expecting %q, got %q", cas.src, cas.expected, got)
		}
	}
}
