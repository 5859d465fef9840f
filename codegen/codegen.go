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

// Package codegen builds encode and decode procedures for every struct,
// union, and exception in a compiled symbol table.
//
// Each procedure is an expression tree of value codecs written against
// the protocol.Writer and protocol.Reader interfaces, so one generated set
// serves every wire format. Procedures reference each other by arena index,
// which lets recursive and mutually recursive types share a single set.
package codegen

import (
	"fmt"
	"strings"

	"github.com/7sharp9/miser/compiler"
)

// EnumPolicy controls how decoding treats enum values that are not members
// of the declared enum.
type EnumPolicy uint8

const (
	// EnumPreserve keeps unknown values as an Enum with an empty Name.
	EnumPreserve EnumPolicy = iota

	// EnumReject fails with *UnknownEnumValueError.
	EnumReject
)

func (p EnumPolicy) String() string {
	switch p {
	case EnumPreserve:
		return "preserve"
	case EnumReject:
		return "reject"
	}
	return fmt.Sprintf("EnumPolicy(%d)", uint8(p))
}

func ParseEnumPolicy(name string) (EnumPolicy, error) {
	switch name {
	case "", "preserve":
		return EnumPreserve, nil
	case "reject":
		return EnumReject, nil
	}
	return 0, fmt.Errorf("unknown enum policy %q (want \"preserve\" or \"reject\")", name)
}

type Option interface {
	apply(*Options)
}

type option func(*Options)

func (f option) apply(opts *Options) { f(opts) }

type Options struct {
	enumPolicy EnumPolicy
	maxDepth   int
}

func WithEnumPolicy(policy EnumPolicy) Option {
	return option(func(opts *Options) {
		opts.enumPolicy = policy
	})
}

// WithMaxDepth bounds struct nesting during encode and decode.
func WithMaxDepth(depth int) Option {
	return option(func(opts *Options) {
		opts.maxDepth = depth
	})
}

// DefaultMaxDepth is the struct nesting limit when WithMaxDepth is not given.
const DefaultMaxDepth = 64

func NewOptions(opts ...Option) *Options {
	options := &Options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt.apply(options)
	}
	return options
}

func Generate(table *compiler.SymbolTable, opts ...Option) (*Set, error) {
	return NewOptions(opts...).Generate(table)
}

// Generate builds a procedure for every struct-like type in table. The
// table must be fully resolved.
func (opts *Options) Generate(table *compiler.SymbolTable) (*Set, error) {
	if table == nil {
		return nil, fmt.Errorf("codegen: nil symbol table")
	}
	if opts.maxDepth <= 0 {
		return nil, fmt.Errorf("codegen: max depth must be positive, got %d", opts.maxDepth)
	}
	types := table.Types()
	set := &Set{
		table:      table,
		enumPolicy: opts.enumPolicy,
		maxDepth:   opts.maxDepth,
		byIndex:    make([]*Procedure, len(types)),
		byName:     make(map[string]*Procedure),
	}
	g := generator{set: set, table: table}
	for index, typ := range types {
		if !typ.Kind.IsStructLike() {
			continue
		}
		proc, err := g.procedure(index, typ)
		if err != nil {
			return nil, err
		}
		set.byIndex[index] = proc
		set.byName[typ.Name] = proc
		set.procedures = append(set.procedures, proc)
	}
	return set, nil
}

// Set is the generated procedures of one symbol table.
type Set struct {
	table      *compiler.SymbolTable
	enumPolicy EnumPolicy
	maxDepth   int

	procedures []*Procedure
	byIndex    []*Procedure
	byName     map[string]*Procedure
}

func (s *Set) Table() *compiler.SymbolTable {
	return s.table
}

// Procedures returns the procedures in declaration order.
func (s *Set) Procedures() []*Procedure {
	return s.procedures
}

func (s *Set) Procedure(name string) (*Procedure, bool) {
	proc, ok := s.byName[name]
	return proc, ok
}

func (s *Set) EnumPolicy() EnumPolicy {
	return s.enumPolicy
}

// String lists every procedure, separated by blank lines.
func (s *Set) String() string {
	var buf strings.Builder
	for ii, proc := range s.procedures {
		if ii > 0 {
			buf.WriteByte('\n')
		}
		proc.writeListing(&buf)
	}
	return buf.String()
}

type generator struct {
	set   *Set
	table *compiler.SymbolTable
}

func (g *generator) procedure(index int, typ *compiler.Type) (*Procedure, error) {
	proc := &Procedure{
		set:     g.set,
		typ:     typ,
		index:   index,
		fieldAt: make(map[int16]*fieldCodec, len(typ.Fields)),
	}
	for _, field := range typ.Fields {
		value, err := g.codec(field.Type)
		if err != nil {
			return nil, fmt.Errorf("codegen: field '%s' of %s '%s': %w", field.Name, typ.Kind, typ.Name, err)
		}
		fc := &fieldCodec{field: field, value: value}
		proc.fields = append(proc.fields, fc)
		proc.fieldAt[field.ID] = fc
	}
	return proc, nil
}

func (g *generator) codec(ref *compiler.TypeRef) (valueCodec, error) {
	switch ref.Kind {
	case compiler.KindBool, compiler.KindByte, compiler.KindI16, compiler.KindI32,
		compiler.KindI64, compiler.KindDouble, compiler.KindString, compiler.KindBinary:
		return primitiveCodec{kind: ref.Kind}, nil
	case compiler.KindEnum:
		typ, err := g.named(ref)
		if err != nil {
			return nil, err
		}
		return &enumCodec{set: g.set, typ: typ}, nil
	case compiler.KindStruct, compiler.KindUnion, compiler.KindException:
		if _, err := g.named(ref); err != nil {
			return nil, err
		}
		return &structCodec{set: g.set, name: ref.Name, index: ref.Index}, nil
	case compiler.KindList, compiler.KindSet:
		elem, err := g.codec(ref.Elem)
		if err != nil {
			return nil, err
		}
		return &listCodec{elem: elem, isSet: ref.Kind == compiler.KindSet}, nil
	case compiler.KindMap:
		key, err := g.codec(ref.Key)
		if err != nil {
			return nil, err
		}
		value, err := g.codec(ref.Value)
		if err != nil {
			return nil, err
		}
		return &mapCodec{key: key, value: value}, nil
	}
	return nil, fmt.Errorf("unsupported type %s", ref)
}

func (g *generator) named(ref *compiler.TypeRef) (*compiler.Type, error) {
	types := g.table.Types()
	if ref.Index < 0 || ref.Index >= len(types) {
		return nil, fmt.Errorf("type '%s' has no table slot", ref.Name)
	}
	typ := types[ref.Index]
	if typ.Name != ref.Name || typ.Kind != ref.Kind {
		return nil, fmt.Errorf("type '%s' does not match table slot %d", ref.Name, ref.Index)
	}
	return typ, nil
}
