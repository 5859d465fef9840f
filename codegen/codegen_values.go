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
	"bytes"
	"slices"

	"github.com/7sharp9/miser/compiler"
)

// Struct is a decoded or to-be-encoded value of a struct, union, or
// exception. Fields maps field ids to values; an absent key is an unset
// field.
//
// Field values are bool, int8, int16, int32, int64, float64, string,
// []byte, Enum, *Struct, []any (list or set), or []MapEntry (map).
type Struct struct {
	Type   string
	Fields map[int16]any
}

func NewStruct(typeName string) *Struct {
	return &Struct{
		Type:   typeName,
		Fields: make(map[int16]any),
	}
}

func (s *Struct) Get(id int16) (any, bool) {
	value, ok := s.Fields[id]
	return value, ok && value != nil
}

// Set stores value under id and returns s.
func (s *Struct) Set(id int16, value any) *Struct {
	if s.Fields == nil {
		s.Fields = make(map[int16]any)
	}
	s.Fields[id] = value
	return s
}

func (s *Struct) Clear(id int16) {
	delete(s.Fields, id)
}

// Count returns the number of set fields.
func (s *Struct) Count() int {
	count := 0
	for _, value := range s.Fields {
		if value != nil {
			count++
		}
	}
	return count
}

// Enum is an enum value. Name is empty when Value is not a declared member.
type Enum struct {
	Type  string
	Name  string
	Value int32
}

func (e Enum) Known() bool {
	return e.Name != ""
}

type MapEntry struct {
	Key   any
	Value any
}

// New returns a struct with every field that declares a default already
// set to that default.
func (p *Procedure) New() *Struct {
	v := NewStruct(p.typ.Name)
	for _, field := range p.typ.Fields {
		if field.HasDefault() {
			v.Fields[field.ID] = fromConst(field.Default)
		}
	}
	return v
}

func fromConst(value any) any {
	switch value := value.(type) {
	case compiler.EnumConst:
		return Enum{Type: value.Type, Name: value.Name, Value: value.Value}
	case []byte:
		return bytes.Clone(value)
	case []any:
		items := make([]any, len(value))
		for ii, item := range value {
			items[ii] = fromConst(item)
		}
		return items
	case []compiler.ConstEntry:
		entries := make([]MapEntry, len(value))
		for ii, entry := range value {
			entries[ii] = MapEntry{Key: fromConst(entry.Key), Value: fromConst(entry.Value)}
		}
		return entries
	case *compiler.StructConst:
		v := NewStruct(value.Type)
		for id, field := range value.Fields {
			v.Fields[id] = fromConst(field)
		}
		return v
	}
	return value
}

// Equal reports whether two values of the model are equal. Lists and sets
// compare in order, maps compare without regard to entry order.
func Equal(a, b any) bool {
	switch a := a.(type) {
	case *Struct:
		b, ok := b.(*Struct)
		if !ok || a.Type != b.Type || a.Count() != b.Count() {
			return false
		}
		for id, value := range a.Fields {
			if value == nil {
				continue
			}
			other, ok := b.Get(id)
			if !ok || !Equal(value, other) {
				return false
			}
		}
		return true
	case Enum:
		b, ok := b.(Enum)
		return ok && a.Value == b.Value
	case []byte:
		b, ok := b.([]byte)
		return ok && bytes.Equal(a, b)
	case []any:
		b, ok := b.([]any)
		return ok && slices.EqualFunc(a, b, Equal)
	case []MapEntry:
		b, ok := b.([]MapEntry)
		if !ok || len(a) != len(b) {
			return false
		}
		for _, entry := range a {
			found := slices.ContainsFunc(b, func(other MapEntry) bool {
				return Equal(entry.Key, other.Key) && Equal(entry.Value, other.Value)
			})
			if !found {
				return false
			}
		}
		return true
	}
	return a == b
}
