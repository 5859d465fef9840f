// Copyright (c) 2026 The miser Authors
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package syntax_test

import (
	"testing"

	"github.com/7sharp9/miser/internal/testutil"
	"github.com/7sharp9/miser/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDocument = `# Shared definitions.
namespace go demo.shared
namespace * demo
include "base.thrift"

/** A point on the plane. */
struct Point {
  1: required i32 x,
  2: required i32 y;
  3: optional string label = "origin"
}

union Shape {
  1: Point point
  2: list<Point> polygon
}

exception NotFound {
  1: string key
}

enum Color {
  RED,
  GREEN = 5,
  BLUE
}

typedef map<string, set<i64>> Index

const list<i32> PRIMES = [2, 3, 5, 7]
const map<string, double> SCALE = {"half": 0.5, "double": 2.0}
const Color DEFAULT_COLOR = Color.RED

service Geometry extends base.Service {
  double area(1: Shape shape) throws (1: NotFound missing),
  oneway void ping()
}
`

func TestParseRoundTrip(t *testing.T) {
	doc, err := syntax.Parse([]byte(fullDocument))
	require.NoError(t, err)
	testutil.ExpectNoDiff(t, fullDocument, syntax.Unparse(doc))
}

func TestParseDocument(t *testing.T) {
	doc, err := syntax.Parse([]byte(fullDocument))
	require.NoError(t, err)

	namespaces := doc.Namespaces()
	if len(namespaces) != 2 {
		t.Fatalf("Expected 2 namespaces, got: %d", len(namespaces))
	}
	assert.Equal(t, "go", namespaces[0].Scope())
	assert.Equal(t, "demo.shared", namespaces[0].Name().Get())
	assert.Equal(t, "*", namespaces[1].Scope())

	includes := doc.Includes()
	if len(includes) != 1 {
		t.Fatalf("Expected 1 include, got: %d", len(includes))
	}
	assert.Equal(t, "base.thrift", includes[0].Path().Get())

	var names []string
	for _, def := range doc.Definitions() {
		names = append(names, def.Name().Get())
	}
	assert.Equal(t, []string{
		"Point", "Shape", "NotFound", "Color", "Index",
		"PRIMES", "SCALE", "DEFAULT_COLOR", "Geometry",
	}, names)

	point := doc.Definitions()[0].(*syntax.Struct)
	fields := point.Fields()
	assert.Equal(t, 3, len(fields))
	assert.Equal(t, syntax.RequirednessRequired, fields[0].Requiredness())
	assert.Equal(t, syntax.RequirednessOptional, fields[2].Requiredness())
	label := fields[2].DefaultValue().(*syntax.TextLit)
	assert.Equal(t, "origin", label.Get())

	shape := doc.Definitions()[1].(*syntax.Union)
	polygon := shape.Fields()[1].FieldType()
	assert.Equal(t, "list", polygon.TypeName().Get())
	assert.Equal(t, "Point", polygon.Params()[0].TypeName().Get())

	color := doc.Definitions()[3].(*syntax.Enum)
	items := color.Items()
	assert.Equal(t, 3, len(items))
	assert.True(t, items[0].Value() == nil)
	assert.Equal(t, int64(5), items[1].Value().Get())

	index := doc.Definitions()[4].(*syntax.Typedef)
	assert.Equal(t, 2, len(index.FieldType().Params()))

	scale := doc.Definitions()[6].(*syntax.Const)
	entries := scale.Value().(*syntax.MapValue).Entries()
	assert.Equal(t, 2, len(entries))
	assert.Equal(t, 0.5, entries[0].Value().(*syntax.DoubleLit).Get())

	service := doc.Definitions()[8].(*syntax.Service)
	assert.Equal(t, "base.Service", service.Extends().Get())
	functions := service.Functions()
	assert.Equal(t, 2, len(functions))
	assert.Equal(t, "area", functions[0].Name().Get())
	assert.Equal(t, 1, len(functions[0].Throws()))
	assert.True(t, functions[1].IsOneway())
	assert.True(t, functions[1].ReturnType() == nil)
}

func TestParseTree(t *testing.T) {
	src := "struct P { 1: required i32 x, 2: list<string> names }"
	doc, err := syntax.Parse([]byte(src))
	require.NoError(t, err)

	want := `Document [0+53]
  Struct [0+53]
    Keyword [0+6] struct
    Ident [7+1] P
    Field [11+18] (required)
      IntLit [11+1] 1
      Keyword [14+8] required
      FieldType [23+3]
        Ident [23+3] i32
      Ident [27+1] x
    Field [30+22] (default)
      IntLit [30+1] 2
      FieldType [33+12]
        Ident [33+4] list
        FieldType [38+6]
          Ident [38+6] string
      Ident [46+5] names
`
	testutil.ExpectNoDiff(t, want, testutil.DumpTree(doc))
}

func TestParseDiscardTrivia(t *testing.T) {
	src := "// leading\nenum E {\n  A = 1 # trailing\n}\n"
	doc, err := syntax.Parse([]byte(src), syntax.DiscardTrivia())
	require.NoError(t, err)

	syntax.Walk(doc, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.Space, *syntax.Newline, *syntax.Comment:
			t.Errorf("unexpected trivia node %T", node)
		}
		return true
	})
	assert.Equal(t, "enumE{A=1}", syntax.Unparse(doc))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  uint32
		start uint32
		len   uint32
	}{
		{
			name:  "stray close brace",
			src:   "struct Foo { 1: i32 x }}",
			code:  2023,
			start: 23,
			len:   1,
		},
		{
			name:  "unknown definition",
			src:   "strukt Foo {}",
			code:  2024,
			start: 0,
			len:   6,
		},
		{
			name:  "missing colon",
			src:   "struct Foo { 1 i32 x }",
			code:  2000,
			start: 15,
			len:   3,
		},
		{
			name:  "missing field type",
			src:   "struct Foo { 1: = }",
			code:  2025,
			start: 16,
			len:   1,
		},
		{
			name:  "missing field id",
			src:   "struct Foo { i32 x }",
			code:  2020,
			start: 13,
			len:   3,
		},
		{
			name:  "unterminated struct",
			src:   "struct Foo { 1: i32 x",
			code:  2020,
			start: 21,
			len:   0,
		},
		{
			name:  "bad map type",
			src:   "typedef map<string> M",
			code:  2002,
			start: 18,
			len:   1,
		},
		{
			name:  "bad const value",
			src:   "const i32 X = )",
			code:  2026,
			start: 14,
			len:   1,
		},
		{
			name:  "int out of range",
			src:   "const i64 X = 9223372036854775808",
			code:  2027,
			start: 14,
			len:   19,
		},
		{
			name:  "bad namespace scope",
			src:   "namespace = foo",
			code:  2030,
			start: 10,
			len:   1,
		},
		{
			name:  "service member",
			src:   "service S { 1 }",
			code:  2031,
			start: 12,
			len:   1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := syntax.Parse([]byte(test.src))
			testutil.ExpectSyntaxError(t, err, test.code, test.start, test.len)
		})
	}
}

func TestParseFieldType(t *testing.T) {
	opts := syntax.NewParseOptions()
	fieldType, err := opts.ParseFieldType([]byte("map<string, list<set<i32>>>"))
	require.NoError(t, err)

	assert.Equal(t, "map", fieldType.TypeName().Get())
	value := fieldType.Params()[1]
	assert.Equal(t, "list", value.TypeName().Get())
	assert.Equal(t, "set", value.Params()[0].TypeName().Get())
}

func TestPosition(t *testing.T) {
	src := []byte("a\nbc\n  d")
	line, column := syntax.Position(src, 7)
	assert.Equal(t, 3, line)
	assert.Equal(t, 3, column)

	line, column = syntax.Position(src, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, column)
}
