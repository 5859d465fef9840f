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

package syntax

import (
	"bytes"
	"iter"
	"math"
	"strconv"
	"strings"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s *Span) Start() uint32 {
	return s.start
}

func (s *Span) End() uint32 {
	return s.start + s.len
}

func (s *Span) Len() uint32 {
	return s.len
}

type Node interface {
	Span() Span

	ChildNodes() iter.Seq[Node]

	privChildren() []Node

	UnparseTo(buf *bytes.Buffer)
}

// Definition is a top-level named declaration: a struct, union, exception,
// enum, service, typedef, or const.
type Definition interface {
	Node
	Name() *Ident
	isDefinition()
}

// ConstValue is the right-hand side of a const or a field default.
type ConstValue interface {
	Node
	isConstValue()
}

func Unparse(node Node) string {
	var buf bytes.Buffer
	node.UnparseTo(&buf)
	return buf.String()
}

func Walk(node Node, walkFn func(Node) bool) {
	if node == nil || !walkFn(node) {
		return
	}
	for _, child := range node.privChildren() {
		Walk(child, walkFn)
	}
	walkFn(nil)
}

func iterChildren(childNodes []Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, child := range childNodes {
			if !yield(child) {
				return
			}
		}
	}
}

type leafNode struct{}

func (*leafNode) ChildNodes() iter.Seq[Node] {
	return func(_yield func(Node) bool) {}
}

func (*leafNode) privChildren() []Node {
	return nil
}

type branchNode struct {
	span       Span
	childNodes []Node
}

func (n *branchNode) Span() Span {
	return n.span
}

func (n *branchNode) ChildNodes() iter.Seq[Node] {
	return iterChildren(n.childNodes)
}

func (n *branchNode) privChildren() []Node {
	return n.childNodes
}

func (n *branchNode) UnparseTo(buf *bytes.Buffer) {
	for _, child := range n.childNodes {
		child.UnparseTo(buf)
	}
}

type Space struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Space)(nil)

func (n *Space) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Space) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

type Newline struct {
	leafNode
	start uint32
	crlf  bool
}

var _ Node = (*Newline)(nil)

func (n *Newline) Span() Span {
	var len uint32 = 1
	if n.crlf {
		len = 2
	}
	return Span{
		start: n.start,
		len:   len,
	}
}

func (n *Newline) UnparseTo(buf *bytes.Buffer) {
	if n.crlf {
		buf.WriteString("\r\n")
	} else {
		buf.WriteByte('\n')
	}
}

type Comment struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Comment)(nil)

func (n *Comment) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Comment) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Comment) Text() string {
	return n.raw
}

func (n *Comment) IsDocComment() bool {
	return strings.HasPrefix(n.raw, "/**") && n.raw != "/**/"
}

func (n *Comment) IsBlockComment() bool {
	return strings.HasPrefix(n.raw, "/*")
}

type IntLit struct {
	leafNode
	raw   string
	value int64
	start uint32
}

var (
	_ Node       = (*IntLit)(nil)
	_ ConstValue = (*IntLit)(nil)
)

func (n *IntLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *IntLit) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (*IntLit) isConstValue() {}

func newIntLit(token string, kind TokenKind, start uint32) (*IntLit, error) {
	digits := token
	negative := false
	switch digits[0] {
	case '-':
		negative = true
		digits = digits[1:]
	case '+':
		digits = digits[1:]
	}
	base := 10
	if kind == T_HEX_INT_LIT {
		base = 16
		digits = digits[2:]
	}

	magnitude, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return nil, errIntLitOutOfRange(token, start)
	}
	var value int64
	if negative {
		if magnitude > uint64(math.MaxInt64)+1 {
			return nil, errIntLitOutOfRange(token, start)
		}
		value = int64(-magnitude)
	} else {
		if magnitude > math.MaxInt64 {
			return nil, errIntLitOutOfRange(token, start)
		}
		value = int64(magnitude)
	}
	return &IntLit{
		raw:   token,
		value: value,
		start: start,
	}, nil
}

func (n *IntLit) Get() int64 {
	return n.value
}

func (n *IntLit) GetInt16() (int16, bool) {
	if n.value >= math.MinInt16 && n.value <= math.MaxInt16 {
		return int16(n.value), true
	}
	return 0, false
}

func (n *IntLit) GetInt32() (int32, bool) {
	if n.value >= math.MinInt32 && n.value <= math.MaxInt32 {
		return int32(n.value), true
	}
	return 0, false
}

type DoubleLit struct {
	leafNode
	raw   string
	value float64
	start uint32
}

var (
	_ Node       = (*DoubleLit)(nil)
	_ ConstValue = (*DoubleLit)(nil)
)

func (n *DoubleLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *DoubleLit) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (*DoubleLit) isConstValue() {}

func newDoubleLit(token string, start uint32) (*DoubleLit, error) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, errDoubleLitInvalid(start, token)
	}
	return &DoubleLit{
		raw:   token,
		value: value,
		start: start,
	}, nil
}

func (n *DoubleLit) Get() float64 {
	return n.value
}

type TextLit struct {
	leafNode
	raw   string
	value string
	start uint32
}

var (
	_ Node       = (*TextLit)(nil)
	_ ConstValue = (*TextLit)(nil)
)

func (n *TextLit) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *TextLit) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (*TextLit) isConstValue() {}

func newTextLit(token string, start uint32, flags uint8) (*TextLit, error) {
	value := token[1 : len(token)-1]
	if flags&tokenFlagTextHasNoEscapes != 0 {
		return &TextLit{
			raw:   token,
			value: value,
			start: start,
		}, nil
	}

	var buf strings.Builder
	escaped := false
	for len(value) > 0 {
		c := value[0]
		value = value[1:]
		if !escaped {
			if c == '\\' {
				escaped = true
			} else {
				buf.WriteByte(c)
			}
			continue
		}
		escaped = false

		switch c {
		case '"', '\'', '\\':
			buf.WriteByte(c)
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'u':
			if len(value) < 4 {
				return nil, errTextLitInvalid(start, token)
			}
			scalar, err := strconv.ParseUint(value[:4], 16, 32)
			if err != nil {
				return nil, errTextLitInvalid(start, token)
			}
			buf.WriteRune(rune(scalar))
			value = value[4:]
		default:
			return nil, errTextLitInvalid(start, token)
		}
	}
	if escaped {
		return nil, errTextLitInvalid(start, token)
	}
	return &TextLit{
		raw:   token,
		value: buf.String(),
		start: start,
	}, nil
}

func (n *TextLit) Get() string {
	return n.value
}

type Sigil struct {
	leafNode
	raw   byte
	start uint32
}

var _ Node = (*Sigil)(nil)

func (n *Sigil) Span() Span {
	return Span{
		start: n.start,
		len:   1,
	}
}

func (n *Sigil) UnparseTo(buf *bytes.Buffer) {
	buf.WriteByte(n.raw)
}

// Ident is a possibly dotted identifier. As a const value it names an enum
// member or another constant.
type Ident struct {
	leafNode
	raw   string
	start uint32
}

var (
	_ Node       = (*Ident)(nil)
	_ ConstValue = (*Ident)(nil)
)

func (n *Ident) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Ident) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (*Ident) isConstValue() {}

func (n *Ident) Get() string {
	return n.raw
}

type Keyword struct {
	leafNode
	raw   string
	start uint32
}

var _ Node = (*Keyword)(nil)

func (n *Keyword) Span() Span {
	return Span{
		start: n.start,
		len:   uint32(len(n.raw)),
	}
}

func (n *Keyword) UnparseTo(buf *bytes.Buffer) {
	buf.WriteString(n.raw)
}

func (n *Keyword) Get() string {
	return n.raw
}

type Document struct {
	branchNode
	namespaces  []*Namespace
	includes    []*Include
	definitions []Definition
}

var _ Node = (*Document)(nil)

func (n *Document) Namespaces() []*Namespace {
	return n.namespaces
}

func (n *Document) Includes() []*Include {
	return n.includes
}

func (n *Document) Definitions() []Definition {
	return n.definitions
}

type Namespace struct {
	branchNode
	scope *Ident
	name  *Ident
}

var _ Node = (*Namespace)(nil)

// Scope returns the target language the namespace applies to, or "*" for
// the catch-all form.
func (n *Namespace) Scope() string {
	if n.scope == nil {
		return "*"
	}
	return n.scope.Get()
}

func (n *Namespace) Name() *Ident {
	return n.name
}

type Include struct {
	branchNode
	path *TextLit
	cpp  bool
}

var _ Node = (*Include)(nil)

func (n *Include) Path() *TextLit {
	return n.path
}

func (n *Include) IsCppInclude() bool {
	return n.cpp
}

type FieldType struct {
	branchNode
	typeName *Ident
	params   []*FieldType
}

var _ Node = (*FieldType)(nil)

func (n *FieldType) TypeName() *Ident {
	return n.typeName
}

// Params holds the element type of a list or set, or the key and value
// types of a map.
func (n *FieldType) Params() []*FieldType {
	return n.params
}

type Requiredness uint8

const (
	RequirednessDefault Requiredness = iota
	RequirednessRequired
	RequirednessOptional
)

func (r Requiredness) String() string {
	switch r {
	case RequirednessRequired:
		return "required"
	case RequirednessOptional:
		return "optional"
	default:
		return "default"
	}
}

type Field struct {
	branchNode
	id           *IntLit
	requiredness Requiredness
	fieldType    *FieldType
	name         *Ident
	defaultValue ConstValue
}

var _ Node = (*Field)(nil)

func (n *Field) ID() *IntLit {
	return n.id
}

func (n *Field) Requiredness() Requiredness {
	return n.requiredness
}

func (n *Field) FieldType() *FieldType {
	return n.fieldType
}

func (n *Field) Name() *Ident {
	return n.name
}

func (n *Field) DefaultValue() ConstValue {
	return n.defaultValue
}

type structLike struct {
	branchNode
	name   *Ident
	fields []*Field
}

func (n *structLike) Name() *Ident {
	return n.name
}

func (n *structLike) Fields() []*Field {
	return n.fields
}

func (*structLike) isDefinition() {}

type Struct struct {
	structLike
}

type Union struct {
	structLike
}

type Exception struct {
	structLike
}

var (
	_ Definition = (*Struct)(nil)
	_ Definition = (*Union)(nil)
	_ Definition = (*Exception)(nil)
)

type Enum struct {
	branchNode
	name  *Ident
	items []*EnumItem
}

var _ Definition = (*Enum)(nil)

func (n *Enum) Name() *Ident {
	return n.name
}

func (n *Enum) Items() []*EnumItem {
	return n.items
}

func (*Enum) isDefinition() {}

type EnumItem struct {
	branchNode
	name  *Ident
	value *IntLit
}

var _ Node = (*EnumItem)(nil)

func (n *EnumItem) Name() *Ident {
	return n.name
}

// Value is nil when the item has no explicit value.
func (n *EnumItem) Value() *IntLit {
	return n.value
}

type Service struct {
	branchNode
	name      *Ident
	extends   *Ident
	functions []*Function
}

var _ Definition = (*Service)(nil)

func (n *Service) Name() *Ident {
	return n.name
}

func (n *Service) Extends() *Ident {
	return n.extends
}

func (n *Service) Functions() []*Function {
	return n.functions
}

func (*Service) isDefinition() {}

type Function struct {
	branchNode
	oneway     bool
	returnType *FieldType
	name       *Ident
	params     []*Field
	throws     []*Field
}

var _ Node = (*Function)(nil)

func (n *Function) IsOneway() bool {
	return n.oneway
}

// ReturnType is nil for void functions.
func (n *Function) ReturnType() *FieldType {
	return n.returnType
}

func (n *Function) Name() *Ident {
	return n.name
}

func (n *Function) Params() []*Field {
	return n.params
}

func (n *Function) Throws() []*Field {
	return n.throws
}

type Typedef struct {
	branchNode
	fieldType *FieldType
	name      *Ident
}

var _ Definition = (*Typedef)(nil)

func (n *Typedef) FieldType() *FieldType {
	return n.fieldType
}

func (n *Typedef) Name() *Ident {
	return n.name
}

func (*Typedef) isDefinition() {}

type Const struct {
	branchNode
	fieldType *FieldType
	name      *Ident
	value     ConstValue
}

var _ Definition = (*Const)(nil)

func (n *Const) FieldType() *FieldType {
	return n.fieldType
}

func (n *Const) Name() *Ident {
	return n.name
}

func (n *Const) Value() ConstValue {
	return n.value
}

func (*Const) isDefinition() {}

type ListValue struct {
	branchNode
	items []ConstValue
}

var _ ConstValue = (*ListValue)(nil)

func (n *ListValue) Items() []ConstValue {
	return n.items
}

func (*ListValue) isConstValue() {}

type MapValue struct {
	branchNode
	entries []*MapEntry
}

var _ ConstValue = (*MapValue)(nil)

func (n *MapValue) Entries() []*MapEntry {
	return n.entries
}

func (*MapValue) isConstValue() {}

type MapEntry struct {
	branchNode
	key   ConstValue
	value ConstValue
}

var _ Node = (*MapEntry)(nil)

func (n *MapEntry) Key() ConstValue {
	return n.key
}

func (n *MapEntry) Value() ConstValue {
	return n.value
}
