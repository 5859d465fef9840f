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

package compiler_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/encoding/schematext"
	"github.com/7sharp9/miser/internal/testutil"
	"github.com/7sharp9/miser/syntax"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, src string, opts ...compiler.CompileOption) compiler.CompileResult {
	t.Helper()
	doc, err := syntax.Parse([]byte(src))
	require.NoError(t, err)
	return compiler.Compile(doc, opts...)
}

func compileOK(t *testing.T, src string, opts ...compiler.CompileOption) *compiler.SymbolTable {
	t.Helper()
	result := compile(t, src, opts...)
	for _, err := range result.Errors {
		assert.NoError(t, err)
	}
	table := result.Table()
	if table == nil {
		t.FailNow()
	}
	return table
}

func TestCompileDocument(t *testing.T) {
	t.Parallel()
	table := compileOK(t, `
namespace * demo
namespace go demo.go

enum Color { RED, GREEN = 5, BLUE }

struct Point {
  1: required i32 x
  2: required i32 y
  3: optional string label = "origin"
  4: Color color = Color.GREEN
  5: list<double> weights = [1, 2.5]
}

typedef map<string, Point> PointIndex

const PointIndex ORIGINS = {"zero": {"x": 0, "y": 0}}
const i64 LIMIT = 0x10
`)

	want := `namespace * demo
namespace go demo.go
enum Color {
	RED = 1
	GREEN = 5
	BLUE = 6
}
struct Point {
	1: required i32 x
	2: required i32 y
	3: optional string label = "origin"
	4: Color color = Color.GREEN
	5: list<double> weights = [1.0, 2.5]
}
typedef map<string, Point> PointIndex
const map<string, Point> ORIGINS = {"zero": Point{1: 0, 2: 0}}
const i64 LIMIT = 16
`
	testutil.ExpectNoDiff(t, want, schematext.Encode(table))
}

func TestEnumNumbering(t *testing.T) {
	t.Parallel()
	table := compileOK(t, "enum E { A, B, C = 5, D }")

	enum, ok := table.Lookup("E")
	assert.True(t, ok)
	var got []string
	for _, member := range enum.Members {
		got = append(got, fmt.Sprintf("%s=%d", member.Name, member.Value))
	}
	assert.Equal(t, []string{"A=1", "B=2", "C=5", "D=6"}, got)
}

func TestEnumNegativeReset(t *testing.T) {
	t.Parallel()
	table := compileOK(t, "enum E { A = -2, B, C }")

	enum, _ := table.Lookup("E")
	assert.Equal(t, int32(-2), enum.Members[0].Value)
	assert.Equal(t, int32(-1), enum.Members[1].Value)
	assert.Equal(t, int32(0), enum.Members[2].Value)
}

func TestForwardReference(t *testing.T) {
	t.Parallel()
	table := compileOK(t, `
struct Forest { 1: list<Tree> trees }
struct Tree { 1: optional list<Tree> children }
`)

	tree, ok := table.Lookup("Tree")
	assert.True(t, ok)
	children := tree.Fields[0].Type
	assert.Equal(t, compiler.KindList, children.Kind)
	assert.Equal(t, compiler.KindStruct, children.Elem.Kind)
	assert.Same(t, tree, table.Resolve(children.Elem))

	forest, _ := table.Lookup("Forest")
	assert.Same(t, tree, table.Resolve(forest.Fields[0].Type.Elem))
	assert.Equal(t, 1, children.Elem.Index)
}

func TestTypedefChain(t *testing.T) {
	t.Parallel()
	table := compileOK(t, `
struct User { 1: Ids ids }
typedef list<UserId> Ids
typedef i64 UserId
`)

	user, _ := table.Lookup("User")
	assert.Equal(t, "list<i64>", user.Fields[0].Type.String())
	assert.Equal(t, 2, len(table.Typedefs()))
}

func TestNamespaceTarget(t *testing.T) {
	t.Parallel()
	src := "namespace * demo\nnamespace go demo.golang\n"

	table := compileOK(t, src, compiler.WithTarget("go"))
	ns, ok := table.EffectiveNamespace()
	assert.True(t, ok)
	assert.Equal(t, "demo.golang", ns)

	table = compileOK(t, src, compiler.WithTarget("java"))
	ns, _ = table.EffectiveNamespace()
	assert.Equal(t, "demo", ns)

	table = compileOK(t, "struct S {}")
	_, ok = table.EffectiveNamespace()
	assert.False(t, ok)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		code    uint32
		message string
	}{
		{
			name:    "unresolved type",
			src:     "struct S { 1: Missing m }",
			code:    3002,
			message: "Unresolved type 'Missing' in field 'm' of struct 'S'",
		},
		{
			name:    "unresolved container element",
			src:     "union U { 1: map<string, Gone> m }",
			code:    3002,
			message: "Unresolved type 'Gone' in field 'm' of union 'U'",
		},
		{
			name:    "duplicate field id",
			src:     "struct S { 1: i32 a, 1: i32 b }",
			code:    3006,
			message: "Duplicate field id 1 in 'S'",
		},
		{
			name:    "duplicate field name",
			src:     "struct S { 1: i32 a, 2: i64 a }",
			code:    3007,
			message: "Duplicate field name 'a' in 'S'",
		},
		{
			name:    "field id out of range",
			src:     "struct S { 40000: i32 a }",
			code:    3005,
			message: "Field id 40000 in 'S' is outside the i16 range",
		},
		{
			name:    "duplicate enum value",
			src:     "enum E { A = 1, B = 1 }",
			code:    3010,
			message: "Enum member 'E.B' reuses value 1 of 'A'",
		},
		{
			name:    "duplicate enum value by numbering",
			src:     "enum E { A = 2, B = 1, C }",
			code:    3010,
			message: "Enum member 'E.C' reuses value 2 of 'A'",
		},
		{
			name:    "duplicate enum member",
			src:     "enum E { A, A }",
			code:    3009,
			message: "Duplicate member 'A' in enum 'E'",
		},
		{
			name:    "enum value out of range",
			src:     "enum E { A = 2147483648 }",
			code:    3008,
			message: "Value 2147483648 of enum member 'E.A' is outside the i32 range",
		},
		{
			name:    "duplicate definition",
			src:     "struct S {}\nenum S {}",
			code:    3000,
			message: "Definition of 'S' conflicts with earlier definition at offset 7",
		},
		{
			name:    "builtin shadow",
			src:     "struct string {}",
			code:    3001,
			message: "Definition of 'string' shadows builtin type",
		},
		{
			name:    "typedef cycle",
			src:     "typedef B A\ntypedef A B",
			code:    3004,
			message: "Typedef 'A' refers to itself",
		},
		{
			name:    "const used as type",
			src:     "const i32 X = 1\nstruct S { 1: X x }",
			code:    3003,
			message: "Name 'X' refers to a const, not a type",
		},
		{
			name:    "const type mismatch",
			src:     `const i32 X = "one"`,
			code:    3011,
			message: "Expected value of type i32, got text literal",
		},
		{
			name:    "const out of range",
			src:     "const byte X = 200",
			code:    3013,
			message: "Value 200 is outside the range of byte",
		},
		{
			name:    "unknown enum member",
			src:     "enum E { A }\nstruct S { 1: E e = E.B }",
			code:    3012,
			message: "Enum 'E' has no member 'B'",
		},
		{
			name:    "unresolved const",
			src:     "const i32 X = Y",
			code:    3014,
			message: "Unresolved constant 'Y'",
		},
		{
			name:    "unknown struct field",
			src:     "struct P { 1: i32 x }\nconst P ORIGIN = {\"z\": 1}",
			code:    3015,
			message: "Type 'P' has no field 'z'",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := compile(t, test.src)
			assert.True(t, result.Table() == nil)
			if len(result.Errors) == 0 {
				t.Fatal("Expected compile errors, got none")
			}
			err := result.Errors[0]
			assert.Equal(t, test.code, err.Code())
			assert.Equal(t, test.message, err.Message())
		})
	}
}

func TestCompileErrAggregates(t *testing.T) {
	t.Parallel()
	result := compile(t, "struct S { 1: A a, 2: B b }")
	assert.Equal(t, 2, len(result.Errors))

	err := result.Err()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	assert.True(t, ok)
	assert.Equal(t, 2, len(merr.Errors))
	assert.True(t, strings.Contains(err.Error(), "'A'"))
	assert.True(t, strings.Contains(err.Error(), "'B'"))

	clean := compile(t, "struct S {}")
	assert.NoError(t, clean.Err())
}

func TestCompileWarnings(t *testing.T) {
	t.Parallel()
	result := compile(t, `
namespace * a
namespace * b
include "shared.thrift"
union U { 1: required i32 x }
service S { void ping() }
struct Z { 0: i32 zero }
`)
	require.NoError(t, result.Err())

	var codes []uint32
	for _, warning := range result.Warnings {
		codes = append(codes, warning.Code())
	}
	assert.Equal(t, []uint32{4001, 4004, 4000, 4003, 4002}, codes)

	table := result.Table()
	ns, _ := table.Namespace("*")
	assert.Equal(t, "a", ns)
	assert.Equal(t, []string{"shared.thrift"}, table.Includes())

	union, _ := table.Lookup("U")
	assert.Equal(t, compiler.Optional, union.Fields[0].Requiredness)

	_, ok := table.Lookup("S")
	assert.False(t, ok)
}

func TestCompileConsts(t *testing.T) {
	t.Parallel()
	table := compileOK(t, `
enum Level { LOW = 1, HIGH = 2 }
const bool ON = true
const bool OFF = 0
const Level DEFAULT_LEVEL = 2
const Level FALLBACK = DEFAULT_LEVEL
const set<string> TAGS = ["a", "b"]
const binary MAGIC = "MZ"
`)

	consts := table.Consts()
	assert.Equal(t, 6, len(consts))
	assert.Equal(t, any(true), consts[0].Value)
	assert.Equal(t, any(false), consts[1].Value)
	level := consts[2].Value.(compiler.EnumConst)
	assert.Equal(t, "HIGH", level.Name)
	assert.Equal(t, level, consts[3].Value.(compiler.EnumConst))
	assert.Equal(t, 2, len(consts[4].Value.([]any)))
	assert.Equal(t, []byte("MZ"), consts[5].Value.([]byte))
}
