// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

var sample = Block{
	&Write{Text: "<ul>"},
	&For{Pattern: "_, item", Iterable: "Items", Body: Block{
		&Write{Text: "<li>"},
		&If{
			Branches: []Branch{
				{Cond: "item.A", Body: Block{&Show{Expr: "item.Name"}}},
				{Cond: "item.B", Body: Block{}},
			},
			Else: Block{&Write{Text: "-"}},
		},
		&Write{Text: "</li>"},
	}},
	&For{Iterable: "3", Body: Block{&Write{Text: "."}}},
	&Write{Text: "</ul>"},
}

func TestString(t *testing.T) {
	expected := "Write \"<ul>\"\n" +
		"For _, item in Items\n" +
		"\tWrite \"<li>\"\n" +
		"\tIf item.A\n" +
		"\t\tShow item.Name\n" +
		"\tElseIf item.B\n" +
		"\tElse\n" +
		"\t\tWrite \"-\"\n" +
		"\tEnd\n" +
		"\tWrite \"</li>\"\n" +
		"End\n" +
		"For 3\n" +
		"\tWrite \".\"\n" +
		"End\n" +
		"Write \"</ul>\"\n"
	if got := sample.String(); got != expected {
		t.Fatalf("unexpected output:\n%s\nexpecting:\n%s", got, expected)
	}
}

func TestStats(t *testing.T) {
	expected := Stats{Writes: 6, Shows: 1, Ifs: 1, Fors: 2}
	if got := sample.Stats(); got != expected {
		t.Fatalf("expecting %+v, got %+v", expected, got)
	}
	if got := (Block{}).Stats(); got != (Stats{}) {
		t.Fatalf("expecting zero stats, got %+v", got)
	}
}
