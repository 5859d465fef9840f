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
	"math"
	"strings"

	"github.com/7sharp9/miser/syntax"
)

// compileValue type-checks a literal against ref and converts it to the
// representation documented on Const. It returns nil after reporting an
// error.
func (c *compiler) compileValue(ref *TypeRef, node syntax.ConstValue) any {
	if ident, ok := node.(*syntax.Ident); ok && ref.Kind != KindEnum {
		if ref.Kind == KindBool {
			switch ident.Get() {
			case "true":
				return true
			case "false":
				return false
			}
		}
		return c.constRef(ref, ident)
	}

	switch ref.Kind {
	case KindBool:
		if lit, ok := node.(*syntax.IntLit); ok {
			switch lit.Get() {
			case 0:
				return false
			case 1:
				return true
			}
		}
	case KindByte:
		return c.intValue(ref, node, math.MinInt8, math.MaxInt8, func(v int64) any { return int8(v) })
	case KindI16:
		return c.intValue(ref, node, math.MinInt16, math.MaxInt16, func(v int64) any { return int16(v) })
	case KindI32:
		return c.intValue(ref, node, math.MinInt32, math.MaxInt32, func(v int64) any { return int32(v) })
	case KindI64:
		return c.intValue(ref, node, math.MinInt64, math.MaxInt64, func(v int64) any { return v })
	case KindDouble:
		switch lit := node.(type) {
		case *syntax.DoubleLit:
			return lit.Get()
		case *syntax.IntLit:
			return float64(lit.Get())
		}
	case KindString:
		if lit, ok := node.(*syntax.TextLit); ok {
			return lit.Get()
		}
	case KindBinary:
		if lit, ok := node.(*syntax.TextLit); ok {
			return []byte(lit.Get())
		}
	case KindEnum:
		return c.enumValue(ref, node)
	case KindList, KindSet:
		if lit, ok := node.(*syntax.ListValue); ok {
			items := make([]any, 0, len(lit.Items()))
			for _, item := range lit.Items() {
				value := c.compileValue(ref.Elem, item)
				if value == nil {
					return nil
				}
				items = append(items, value)
			}
			return items
		}
	case KindMap:
		if lit, ok := node.(*syntax.MapValue); ok {
			entries := make([]ConstEntry, 0, len(lit.Entries()))
			for _, entry := range lit.Entries() {
				key := c.compileValue(ref.Key, entry.Key())
				value := c.compileValue(ref.Value, entry.Value())
				if key == nil || value == nil {
					return nil
				}
				entries = append(entries, ConstEntry{Key: key, Value: value})
			}
			return entries
		}
	case KindStruct, KindUnion, KindException:
		if lit, ok := node.(*syntax.MapValue); ok {
			return c.structValue(ref, lit)
		}
	}
	c.err(errConstTypeMismatch(ref, describeValue(node), node.Span()))
	return nil
}

func (c *compiler) intValue(
	ref *TypeRef,
	node syntax.ConstValue,
	min, max int64,
	convert func(int64) any,
) any {
	lit, ok := node.(*syntax.IntLit)
	if !ok {
		c.err(errConstTypeMismatch(ref, describeValue(node), node.Span()))
		return nil
	}
	value := lit.Get()
	if value < min || value > max {
		c.err(errConstValueOutOfRange(ref, value, lit.Span()))
		return nil
	}
	return convert(value)
}

func (c *compiler) enumValue(ref *TypeRef, node syntax.ConstValue) any {
	enum := c.table.types[ref.Index]
	switch lit := node.(type) {
	case *syntax.IntLit:
		value := lit.Get()
		if value >= math.MinInt32 && value <= math.MaxInt32 {
			if member := enum.MemberByValue(int32(value)); member != nil {
				return EnumConst{Type: enum.Name, Name: member.Name, Value: member.Value}
			}
		}
		c.err(errConstValueOutOfRange(ref, value, lit.Span()))
		return nil
	case *syntax.Ident:
		name := lit.Get()
		memberName := strings.TrimPrefix(name, enum.Name+".")
		if member := enum.MemberByName(memberName); member != nil {
			return EnumConst{Type: enum.Name, Name: member.Name, Value: member.Value}
		}
		if compiled, ok := c.constsByName[name]; ok {
			if compiled.Type.String() == ref.String() {
				return compiled.Value
			}
			c.err(errConstTypeMismatch(ref, "const of type "+compiled.Type.String(), lit.Span()))
			return nil
		}
		c.err(errUnknownEnumMember(enum.Name, memberName, lit.Span()))
		return nil
	}
	c.err(errConstTypeMismatch(ref, describeValue(node), node.Span()))
	return nil
}

func (c *compiler) structValue(ref *TypeRef, lit *syntax.MapValue) any {
	t := c.table.types[ref.Index]
	fields := make(map[int16]any, len(lit.Entries()))
	for _, entry := range lit.Entries() {
		key, ok := entry.Key().(*syntax.TextLit)
		if !ok {
			c.err(errConstTypeMismatch(
				&TypeRef{Kind: KindString},
				describeValue(entry.Key()),
				entry.Key().Span(),
			))
			return nil
		}
		var field *Field
		for _, f := range t.Fields {
			if f.Name == key.Get() {
				field = f
				break
			}
		}
		if field == nil {
			c.err(errUnknownStructField(t.Name, key.Get(), key.Span()))
			return nil
		}
		if field.Type == nil {
			return nil
		}
		value := c.compileValue(field.Type, entry.Value())
		if value == nil {
			return nil
		}
		fields[field.ID] = value
	}
	return &StructConst{Type: t.Name, Fields: fields}
}

func (c *compiler) constRef(ref *TypeRef, ident *syntax.Ident) any {
	name := ident.Get()
	compiled, ok := c.constsByName[name]
	if !ok {
		c.err(errUnresolvedConst(name, ident.Span()))
		return nil
	}
	if compiled.Type.String() != ref.String() {
		c.err(errConstTypeMismatch(ref, "const of type "+compiled.Type.String(), ident.Span()))
		return nil
	}
	return compiled.Value
}

func describeValue(node syntax.ConstValue) string {
	switch node := node.(type) {
	case *syntax.IntLit:
		return "integer literal"
	case *syntax.DoubleLit:
		return "double literal"
	case *syntax.TextLit:
		return "text literal"
	case *syntax.Ident:
		return "identifier '" + node.Get() + "'"
	case *syntax.ListValue:
		return "list literal"
	case *syntax.MapValue:
		return "map literal"
	}
	return "unknown value"
}
