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

	"github.com/hashicorp/go-multierror"

	"github.com/7sharp9/miser/syntax"
)

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	target string
}

// WithTarget selects the namespace scope reported by
// SymbolTable.EffectiveNamespace.
func WithTarget(target string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.target = target
	})
}

type CompileResult struct {
	table *SymbolTable

	Errors   []*Error
	Warnings []*Warning
}

// Table returns the compiled symbol table, or nil if compilation failed.
func (r *CompileResult) Table() *SymbolTable {
	return r.table
}

// Err returns all compile errors as a single error, or nil.
func (r *CompileResult) Err() error {
	var result *multierror.Error
	for _, err := range r.Errors {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func Compile(doc *syntax.Document, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(doc)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(doc *syntax.Document) CompileResult {
	c := compiler{
		opts:  opts,
		doc:   doc,
		table: newSymbolTable(opts.target),
	}
	c.compileDocument()
	if len(c.errors) > 0 {
		return CompileResult{
			Errors:   c.errors,
			Warnings: c.warnings,
		}
	}
	return CompileResult{
		table:    c.table,
		Warnings: c.warnings,
	}
}

type compiler struct {
	opts     *CompileOptions
	doc      *syntax.Document
	table    *SymbolTable
	errors   []*Error
	warnings []*Warning

	// Set by registerDecls()
	decls       []*declInfo
	declsByName map[string]*declInfo

	// Set by compileConst()
	constsByName map[string]*Const
}

type declInfo struct {
	node syntax.Definition

	// Arena slot of a struct-like or enum, otherwise -1.
	index int

	// Typedef resolution state.
	resolving bool
	failed    bool
	resolved  *TypeRef
}

type structLikeNode interface {
	syntax.Definition
	Fields() []*syntax.Field
}

func (c *compiler) err(err error) {
	c.errors = append(c.errors, err.(*Error))
}

func (c *compiler) warn(warning *Warning) {
	c.warnings = append(c.warnings, warning)
}

func (c *compiler) compileDocument() {
	c.compileHeaders()
	c.registerDecls()
	c.compileDecls()
}

func (c *compiler) compileHeaders() {
	for _, node := range c.doc.Namespaces() {
		scope := node.Scope()
		if _, dup := c.table.namespaces[scope]; dup {
			c.warn(warnDuplicateNamespace(scope, node.Span()))
			continue
		}
		c.table.namespaces[scope] = node.Name().Get()
	}
	for _, node := range c.doc.Includes() {
		if node.IsCppInclude() {
			continue
		}
		path := node.Path().Get()
		c.table.includes = append(c.table.includes, path)
		c.warn(warnIncludeNotResolved(path, node.Span()))
	}
}

func (c *compiler) registerDecls() {
	c.declsByName = make(map[string]*declInfo)
	for _, node := range c.doc.Definitions() {
		if service, ok := node.(*syntax.Service); ok {
			c.warn(warnServiceSkipped(service.Name().Get(), service.Span()))
			continue
		}
		c.registerDecl(node)
	}
}

func (c *compiler) registerDecl(node syntax.Definition) {
	nameNode := node.Name()
	name := nameNode.Get()
	if _, shadow := builtinTypes[name]; shadow {
		c.err(errDeclShadowsBuiltin(name, nameNode.Span()))
		return
	}
	if prev, conflict := c.declsByName[name]; conflict {
		c.err(errDeclNameConflict(name, nameNode.Span(), prev.node.Name().Span()))
		return
	}

	info := &declInfo{node: node, index: -1}
	var kind Kind
	switch node.(type) {
	case *syntax.Struct:
		kind = KindStruct
	case *syntax.Union:
		kind = KindUnion
	case *syntax.Exception:
		kind = KindException
	case *syntax.Enum:
		kind = KindEnum
	}
	if kind != KindUnknown {
		info.index = len(c.table.types)
		c.table.types = append(c.table.types, &Type{
			Name: name,
			Kind: kind,
			span: node.Span(),
		})
		c.table.typeIndex[name] = info.index
	}
	c.decls = append(c.decls, info)
	c.declsByName[name] = info
}

// compileDecls resolves in dependency-friendly phases: enum members first so
// defaults can name them, then field types and typedefs, then literals.
func (c *compiler) compileDecls() {
	for _, info := range c.decls {
		if node, ok := info.node.(*syntax.Enum); ok {
			c.compileEnum(c.table.types[info.index], node)
		}
	}
	for _, info := range c.decls {
		switch node := info.node.(type) {
		case *syntax.Struct:
			c.compileFields(c.table.types[info.index], node)
		case *syntax.Union:
			c.compileFields(c.table.types[info.index], node)
		case *syntax.Exception:
			c.compileFields(c.table.types[info.index], node)
		case *syntax.Typedef:
			if ref := c.resolveTypedef(info); ref != nil {
				c.table.typedefs = append(c.table.typedefs, &Typedef{
					Name: node.Name().Get(),
					Type: ref,
				})
			}
		}
	}

	c.constsByName = make(map[string]*Const)
	for _, info := range c.decls {
		switch node := info.node.(type) {
		case *syntax.Const:
			c.compileConst(node)
		default:
			if info.index >= 0 {
				c.compileDefaults(c.table.types[info.index])
			}
		}
	}
}

func (c *compiler) compileFields(t *Type, node structLikeNode) {
	ids := make(map[int16]struct{})
	names := make(map[string]struct{})
	for _, fieldNode := range node.Fields() {
		id, ok := fieldNode.ID().GetInt16()
		if !ok {
			c.err(errFieldIDOutOfRange(t.Name, fieldNode.ID()))
			continue
		}
		name := fieldNode.Name().Get()
		field := &Field{
			ID:           id,
			Name:         name,
			Requiredness: fieldNode.Requiredness(),
			span:         fieldNode.Span(),
			defaultValue: fieldNode.DefaultValue(),
		}

		if id <= 0 {
			c.warn(warnNonPositiveFieldID(t.Name, id, fieldNode.ID().Span()))
		}
		if _, dup := ids[id]; dup {
			c.err(errDuplicateFieldID(t.Name, id, fieldNode.ID().Span()))
		}
		ids[id] = struct{}{}
		if _, dup := names[name]; dup {
			c.err(errDuplicateFieldName(t.Name, name, fieldNode.Name().Span()))
		}
		names[name] = struct{}{}

		if t.Kind == KindUnion && field.Requiredness == Required {
			c.warn(warnRequiredUnionField(t.Name, name, fieldNode.Span()))
			field.Requiredness = Optional
		}

		context := fmt.Sprintf("field '%s' of %s '%s'", name, t.Kind, t.Name)
		field.Type = c.resolveType(fieldNode.FieldType(), context)
		t.Fields = append(t.Fields, field)
	}
}

func (c *compiler) compileEnum(t *Type, node *syntax.Enum) {
	names := make(map[string]struct{})
	values := make(map[int32]string)
	next := int64(1)
	for _, item := range node.Items() {
		name := item.Name().Get()
		value := next
		if lit := item.Value(); lit != nil {
			value = lit.Get()
		}
		next = value + 1

		if _, dup := names[name]; dup {
			c.err(errDuplicateEnumName(t.Name, name, item.Name().Span()))
			continue
		}
		names[name] = struct{}{}

		if value < -1<<31 || value > 1<<31-1 {
			c.err(errEnumValueOutOfRange(t.Name, name, value, item.Span()))
			continue
		}
		if prev, dup := values[int32(value)]; dup {
			c.err(errDuplicateEnumValue(t.Name, name, prev, int32(value), item.Span()))
			continue
		}
		values[int32(value)] = name

		t.Members = append(t.Members, &EnumMember{
			Name:  name,
			Value: int32(value),
		})
	}
}

func (c *compiler) resolveType(node *syntax.FieldType, context string) *TypeRef {
	nameNode := node.TypeName()
	name := nameNode.Get()
	params := node.Params()
	switch name {
	case "list", "set":
		elem := c.resolveType(params[0], context)
		if elem == nil {
			return nil
		}
		kind := KindList
		if name == "set" {
			kind = KindSet
		}
		return &TypeRef{Kind: kind, Elem: elem}
	case "map":
		key := c.resolveType(params[0], context)
		value := c.resolveType(params[1], context)
		if key == nil || value == nil {
			return nil
		}
		return &TypeRef{Kind: KindMap, Key: key, Value: value}
	}

	if kind, ok := builtinTypes[name]; ok {
		return &TypeRef{Kind: kind}
	}

	info, ok := c.declsByName[name]
	if !ok {
		c.err(errUnresolvedType(name, context, nameNode.Span()))
		return nil
	}
	switch info.node.(type) {
	case *syntax.Typedef:
		return c.resolveTypedef(info)
	case *syntax.Const:
		c.err(errNotAType(name, nameNode.Span()))
		return nil
	}
	t := c.table.types[info.index]
	return &TypeRef{Kind: t.Kind, Name: name, Index: info.index}
}

func (c *compiler) resolveTypedef(info *declInfo) *TypeRef {
	if info.resolved != nil || info.failed {
		return info.resolved
	}
	node := info.node.(*syntax.Typedef)
	name := node.Name().Get()
	if info.resolving {
		c.err(errTypedefCycle(name, node.Name().Span()))
		info.failed = true
		return nil
	}
	info.resolving = true
	ref := c.resolveType(node.FieldType(), fmt.Sprintf("typedef '%s'", name))
	info.resolving = false
	if ref == nil {
		info.failed = true
		return nil
	}
	info.resolved = ref
	return ref
}

func (c *compiler) compileDefaults(t *Type) {
	for _, field := range t.Fields {
		if field.defaultValue == nil || field.Type == nil {
			continue
		}
		field.Default = c.compileValue(field.Type, field.defaultValue)
	}
}

func (c *compiler) compileConst(node *syntax.Const) {
	name := node.Name().Get()
	ref := c.resolveType(node.FieldType(), fmt.Sprintf("const '%s'", name))
	if ref == nil {
		return
	}
	value := c.compileValue(ref, node.Value())
	if value == nil {
		return
	}
	compiled := &Const{
		Name:  name,
		Type:  ref,
		Value: value,
	}
	c.table.consts = append(c.table.consts, compiled)
	c.constsByName[name] = compiled
}
