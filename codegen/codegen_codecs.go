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

package codegen

import (
	"strings"

	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/protocol"
)

// Preallocation cap for decoded containers. Sizes come from the wire.
const maxPrealloc = 1024

type valueCodec interface {
	wireType() protocol.TType
	encode(w protocol.Writer, v any, depth int) error
	decode(r protocol.Reader, depth int) (any, error)

	// describe appends the listing of one direction, "write" or "read".
	describe(buf *strings.Builder, op string)
}

type primitiveCodec struct {
	kind compiler.Kind
}

func (c primitiveCodec) wireType() protocol.TType {
	switch c.kind {
	case compiler.KindBool:
		return protocol.BOOL
	case compiler.KindByte:
		return protocol.BYTE
	case compiler.KindI16:
		return protocol.I16
	case compiler.KindI32:
		return protocol.I32
	case compiler.KindI64:
		return protocol.I64
	case compiler.KindDouble:
		return protocol.DOUBLE
	}
	return protocol.STRING
}

func (c primitiveCodec) encode(w protocol.Writer, v any, depth int) error {
	switch c.kind {
	case compiler.KindBool:
		if v, ok := v.(bool); ok {
			return w.WriteBool(v)
		}
	case compiler.KindByte:
		if v, ok := v.(int8); ok {
			return w.WriteI8(v)
		}
	case compiler.KindI16:
		if v, ok := v.(int16); ok {
			return w.WriteI16(v)
		}
	case compiler.KindI32:
		if v, ok := v.(int32); ok {
			return w.WriteI32(v)
		}
	case compiler.KindI64:
		if v, ok := v.(int64); ok {
			return w.WriteI64(v)
		}
	case compiler.KindDouble:
		if v, ok := v.(float64); ok {
			return w.WriteDouble(v)
		}
	case compiler.KindString:
		if v, ok := v.(string); ok {
			return w.WriteString(v)
		}
	case compiler.KindBinary:
		switch v := v.(type) {
		case []byte:
			return w.WriteBinary(v)
		case string:
			return w.WriteString(v)
		}
	}
	return errInvalidValue(c.kind.String(), v)
}

func (c primitiveCodec) decode(r protocol.Reader, depth int) (any, error) {
	switch c.kind {
	case compiler.KindBool:
		return r.ReadBool()
	case compiler.KindByte:
		return r.ReadI8()
	case compiler.KindI16:
		return r.ReadI16()
	case compiler.KindI32:
		return r.ReadI32()
	case compiler.KindI64:
		return r.ReadI64()
	case compiler.KindDouble:
		return r.ReadDouble()
	case compiler.KindString:
		return r.ReadString()
	}
	return r.ReadBinary()
}

func (c primitiveCodec) describe(buf *strings.Builder, op string) {
	buf.WriteString(op)
	buf.WriteByte('-')
	buf.WriteString(c.kind.String())
}

// Enums travel as i32.
type enumCodec struct {
	set *Set
	typ *compiler.Type
}

func (c *enumCodec) wireType() protocol.TType {
	return protocol.I32
}

func (c *enumCodec) encode(w protocol.Writer, v any, depth int) error {
	var value int32
	switch v := v.(type) {
	case Enum:
		if v.Type != "" && v.Type != c.typ.Name {
			return errInvalidValue(c.typ.Name, v)
		}
		value = v.Value
	case int32:
		value = v
	default:
		return errInvalidValue(c.typ.Name, v)
	}
	if c.set.enumPolicy == EnumReject && c.typ.MemberByValue(value) == nil {
		return &UnknownEnumValueError{Type: c.typ.Name, Value: value}
	}
	return w.WriteI32(value)
}

func (c *enumCodec) decode(r protocol.Reader, depth int) (any, error) {
	value, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	v := Enum{Type: c.typ.Name, Value: value}
	if member := c.typ.MemberByValue(value); member != nil {
		v.Name = member.Name
	} else if c.set.enumPolicy == EnumReject {
		return nil, &UnknownEnumValueError{Type: c.typ.Name, Value: value}
	}
	return v, nil
}

func (c *enumCodec) describe(buf *strings.Builder, op string) {
	buf.WriteString(op)
	buf.WriteString("-enum ")
	buf.WriteString(c.typ.Name)
}

// structCodec calls another procedure of the same set by arena index.
type structCodec struct {
	set   *Set
	name  string
	index int
}

func (c *structCodec) wireType() protocol.TType {
	return protocol.STRUCT
}

func (c *structCodec) encode(w protocol.Writer, v any, depth int) error {
	s, ok := v.(*Struct)
	if !ok || s == nil {
		return errInvalidValue(c.name, v)
	}
	return c.set.byIndex[c.index].encode(w, s, depth-1)
}

func (c *structCodec) decode(r protocol.Reader, depth int) (any, error) {
	return c.set.byIndex[c.index].decode(r, depth-1)
}

func (c *structCodec) describe(buf *strings.Builder, op string) {
	buf.WriteString("call ")
	buf.WriteString(c.name)
	if op == "write" {
		buf.WriteString(".encode")
	} else {
		buf.WriteString(".decode")
	}
}

type listCodec struct {
	elem  valueCodec
	isSet bool
}

func (c *listCodec) wireType() protocol.TType {
	if c.isSet {
		return protocol.SET
	}
	return protocol.LIST
}

func (c *listCodec) encode(w protocol.Writer, v any, depth int) error {
	items, ok := v.([]any)
	if !ok {
		return errInvalidValue(c.wireType().String(), v)
	}
	var err error
	if c.isSet {
		err = w.WriteSetBegin(c.elem.wireType(), len(items))
	} else {
		err = w.WriteListBegin(c.elem.wireType(), len(items))
	}
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := c.elem.encode(w, item, depth); err != nil {
			return err
		}
	}
	if c.isSet {
		return w.WriteSetEnd()
	}
	return w.WriteListEnd()
}

func (c *listCodec) decode(r protocol.Reader, depth int) (any, error) {
	var elemType protocol.TType
	var size int
	var err error
	if c.isSet {
		elemType, size, err = r.ReadSetBegin()
	} else {
		elemType, size, err = r.ReadListBegin()
	}
	if err != nil {
		return nil, err
	}
	if size > 0 && elemType != c.elem.wireType() {
		return nil, protocol.NewError(protocol.InvalidData,
			"%s element type %s, expected %s", c.wireType(), elemType, c.elem.wireType())
	}
	items := make([]any, 0, min(size, maxPrealloc))
	for range size {
		item, err := c.elem.decode(r, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if c.isSet {
		err = r.ReadSetEnd()
	} else {
		err = r.ReadListEnd()
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *listCodec) describe(buf *strings.Builder, op string) {
	prefix := "list"
	if c.isSet {
		prefix = "set"
	}
	buf.WriteString(prefix)
	buf.WriteString("-begin ")
	buf.WriteString(c.elem.wireType().String())
	buf.WriteString(" { ")
	c.elem.describe(buf, op)
	buf.WriteString(" } ")
	buf.WriteString(prefix)
	buf.WriteString("-end")
}

type mapCodec struct {
	key   valueCodec
	value valueCodec
}

func (c *mapCodec) wireType() protocol.TType {
	return protocol.MAP
}

func (c *mapCodec) encode(w protocol.Writer, v any, depth int) error {
	entries, ok := v.([]MapEntry)
	if !ok {
		return errInvalidValue("MAP", v)
	}
	if err := w.WriteMapBegin(c.key.wireType(), c.value.wireType(), len(entries)); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := c.key.encode(w, entry.Key, depth); err != nil {
			return err
		}
		if err := c.value.encode(w, entry.Value, depth); err != nil {
			return err
		}
	}
	return w.WriteMapEnd()
}

func (c *mapCodec) decode(r protocol.Reader, depth int) (any, error) {
	keyType, valueType, size, err := r.ReadMapBegin()
	if err != nil {
		return nil, err
	}
	if size > 0 && (keyType != c.key.wireType() || valueType != c.value.wireType()) {
		return nil, protocol.NewError(protocol.InvalidData,
			"MAP entry types %s, %s, expected %s, %s",
			keyType, valueType, c.key.wireType(), c.value.wireType())
	}
	entries := make([]MapEntry, 0, min(size, maxPrealloc))
	for range size {
		key, err := c.key.decode(r, depth)
		if err != nil {
			return nil, err
		}
		value, err := c.value.decode(r, depth)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: value})
	}
	if err := r.ReadMapEnd(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *mapCodec) describe(buf *strings.Builder, op string) {
	buf.WriteString("map-begin ")
	buf.WriteString(c.key.wireType().String())
	buf.WriteByte(' ')
	buf.WriteString(c.value.wireType().String())
	buf.WriteString(" { ")
	c.key.describe(buf, op)
	buf.WriteString("; ")
	c.value.describe(buf, op)
	buf.WriteString(" } map-end")
}
