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

package compiler

import (
	"fmt"
	"maps"
	"strings"

	"github.com/7sharp9/miser/syntax"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindBool
	KindByte
	KindI16
	KindI32
	KindI64
	KindDouble
	KindString
	KindBinary
	KindList
	KindSet
	KindMap
	KindStruct
	KindUnion
	KindException
	KindEnum
)

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindBool:      "bool",
	KindByte:      "byte",
	KindI16:       "i16",
	KindI32:       "i32",
	KindI64:       "i64",
	KindDouble:    "double",
	KindString:    "string",
	KindBinary:    "binary",
	KindList:      "list",
	KindSet:       "set",
	KindMap:       "map",
	KindStruct:    "struct",
	KindUnion:     "union",
	KindException: "exception",
	KindEnum:      "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) IsStructLike() bool {
	return k == KindStruct || k == KindUnion || k == KindException
}

func (k Kind) IsContainer() bool {
	return k == KindList || k == KindSet || k == KindMap
}

// IsNamed reports whether values of this kind refer to a slot in the
// symbol table.
func (k Kind) IsNamed() bool {
	return k.IsStructLike() || k == KindEnum
}

var builtinTypes = map[string]Kind{
	"bool":   KindBool,
	"byte":   KindByte,
	"i8":     KindByte,
	"i16":    KindI16,
	"i32":    KindI32,
	"i64":    KindI64,
	"double": KindDouble,
	"string": KindString,
	"binary": KindBinary,
}

// TypeRef is a resolved type reference. Elem is set for lists and sets,
// Key and Value for maps, and Name and Index for named kinds.
type TypeRef struct {
	Kind  Kind
	Elem  *TypeRef
	Key   *TypeRef
	Value *TypeRef
	Name  string
	Index int
}

func (t *TypeRef) String() string {
	var buf strings.Builder
	t.writeTo(&buf)
	return buf.String()
}

func (t *TypeRef) writeTo(buf *strings.Builder) {
	switch t.Kind {
	case KindList, KindSet:
		buf.WriteString(t.Kind.String())
		buf.WriteByte('<')
		t.Elem.writeTo(buf)
		buf.WriteByte('>')
	case KindMap:
		buf.WriteString("map<")
		t.Key.writeTo(buf)
		buf.WriteString(", ")
		t.Value.writeTo(buf)
		buf.WriteByte('>')
	default:
		if t.Kind.IsNamed() {
			buf.WriteString(t.Name)
		} else {
			buf.WriteString(t.Kind.String())
		}
	}
}

type Requiredness = syntax.Requiredness

const (
	Default  = syntax.RequirednessDefault
	Required = syntax.RequirednessRequired
	Optional = syntax.RequirednessOptional
)

type Field struct {
	ID           int16
	Name         string
	Requiredness Requiredness
	Type         *TypeRef

	// Default holds the compiled default literal, or nil. See Const for
	// the value representation.
	Default any

	span         syntax.Span
	defaultValue syntax.ConstValue
}

func (f *Field) HasDefault() bool {
	return f.Default != nil
}

func (f *Field) Span() syntax.Span {
	return f.span
}

type EnumMember struct {
	Name  string
	Value int32
}

// Type is a compiled struct, union, exception, or enum.
type Type struct {
	Name    string
	Kind    Kind
	Fields  []*Field
	Members []*EnumMember

	span syntax.Span
}

func (t *Type) Span() syntax.Span {
	return t.span
}

func (t *Type) FieldByID(id int16) *Field {
	for _, field := range t.Fields {
		if field.ID == id {
			return field
		}
	}
	return nil
}

func (t *Type) MemberByName(name string) *EnumMember {
	for _, member := range t.Members {
		if member.Name == name {
			return member
		}
	}
	return nil
}

func (t *Type) MemberByValue(value int32) *EnumMember {
	for _, member := range t.Members {
		if member.Value == value {
			return member
		}
	}
	return nil
}

type Typedef struct {
	Name string
	Type *TypeRef
}

// Const is a compiled constant. Values are represented as bool, int8,
// int16, int32, int64, float64, string, []byte, EnumConst, []any (list or
// set), []ConstEntry (map), or *StructConst.
type Const struct {
	Name  string
	Type  *TypeRef
	Value any
}

type EnumConst struct {
	Type  string
	Name  string
	Value int32
}

type ConstEntry struct {
	Key   any
	Value any
}

type StructConst struct {
	Type   string
	Fields map[int16]any
}

// SymbolTable holds the compiled descriptors of one document. Types are
// stored in declaration order; named TypeRefs index into that slice.
type SymbolTable struct {
	types      []*Type
	typeIndex  map[string]int
	typedefs   []*Typedef
	consts     []*Const
	namespaces map[string]string
	includes   []string
	target     string
}

func newSymbolTable(target string) *SymbolTable {
	return &SymbolTable{
		typeIndex:  make(map[string]int),
		namespaces: make(map[string]string),
		target:     target,
	}
}

func (t *SymbolTable) Types() []*Type {
	return t.types
}

func (t *SymbolTable) TypeAt(index int) *Type {
	return t.types[index]
}

func (t *SymbolTable) Lookup(name string) (*Type, bool) {
	index, ok := t.typeIndex[name]
	if !ok {
		return nil, false
	}
	return t.types[index], true
}

// Resolve returns the descriptor a named TypeRef points at.
func (t *SymbolTable) Resolve(ref *TypeRef) *Type {
	if !ref.Kind.IsNamed() {
		return nil
	}
	return t.types[ref.Index]
}

func (t *SymbolTable) Typedefs() []*Typedef {
	return t.typedefs
}

func (t *SymbolTable) Consts() []*Const {
	return t.consts
}

// Namespaces maps each declared scope to its namespace.
func (t *SymbolTable) Namespaces() map[string]string {
	return maps.Clone(t.namespaces)
}

func (t *SymbolTable) Includes() []string {
	return t.includes
}

// Namespace returns the namespace declared for target, falling back to the
// catch-all "*" scope.
func (t *SymbolTable) Namespace(target string) (string, bool) {
	if ns, ok := t.namespaces[target]; ok && target != "" {
		return ns, true
	}
	ns, ok := t.namespaces["*"]
	return ns, ok
}

// EffectiveNamespace is Namespace for the target given at compile time.
func (t *SymbolTable) EffectiveNamespace() (string, bool) {
	return t.Namespace(t.target)
}
