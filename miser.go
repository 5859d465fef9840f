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

// Package miser compiles Thrift IDL documents into type descriptors and
// encode/decode procedures.
//
// Compile runs the whole pipeline for one document: syntax.Parse builds the
// concrete syntax tree, compiler.Compile resolves it into a symbol table,
// and codegen.Generate builds a procedure for every struct-like type. Each
// call owns its own table and procedures, so separate calls may run
// concurrently.
package miser

import (
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/7sharp9/miser/codegen"
	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/config"
	"github.com/7sharp9/miser/syntax"
)

type Option interface {
	apply(*Options)
}

type option func(*Options)

func (f option) apply(opts *Options) { f(opts) }

type Options struct {
	config     *config.Config
	sourceName string
}

// WithConfig sets the host configuration. The zero value of Options uses
// config.Default().
func WithConfig(cfg *config.Config) Option {
	return option(func(opts *Options) {
		opts.config = cfg
	})
}

// WithSourceName names the document being compiled, usually its path. The
// base name without extension is the namespace of a document that declares
// none.
func WithSourceName(name string) Option {
	return option(func(opts *Options) {
		opts.sourceName = name
	})
}

func NewOptions(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt.apply(options)
	}
	if options.config == nil {
		options.config = config.Default()
	}
	return options
}

// CompiledType is one struct, union, exception, or enum of a document.
// Procedure is nil for enums.
type CompiledType struct {
	Name      string
	Kind      compiler.Kind
	Fields    []*compiler.Field
	Members   []*compiler.EnumMember
	Procedure *codegen.Procedure
}

type Result struct {
	SourceName string
	Source     []byte
	Namespace  string
	Includes   []string
	Types      []CompiledType
	Warnings   []*compiler.Warning

	// Host settings the document was compiled with.
	Config config.Config

	Table *compiler.SymbolTable
	Set   *codegen.Set
}

// Type returns the compiled type with the given name.
func (r *Result) Type(name string) (CompiledType, bool) {
	for _, typ := range r.Types {
		if typ.Name == name {
			return typ, true
		}
	}
	return CompiledType{}, false
}

// CompileError carries every diagnostic of a failed compilation.
type CompileError struct {
	Errors   []*compiler.Error
	Warnings []*compiler.Warning
}

func (err *CompileError) Error() string {
	var result *multierror.Error
	for _, e := range err.Errors {
		result = multierror.Append(result, e)
	}
	return result.Error()
}

func (err *CompileError) Unwrap() []error {
	errs := make([]error, len(err.Errors))
	for ii, e := range err.Errors {
		errs[ii] = e
	}
	return errs
}

func Compile(src []byte, opts ...Option) (*Result, error) {
	return NewOptions(opts...).Compile(src)
}

// Compile parses, compiles, and generates procedures for src. Parse
// failures return a *syntax.Error, compile failures a *CompileError.
func (opts *Options) Compile(src []byte) (*Result, error) {
	cfg := opts.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	doc, err := syntax.Parse(src)
	if err != nil {
		return nil, err
	}

	compiled := compiler.Compile(doc, compiler.WithTarget(cfg.Target))
	table := compiled.Table()
	if table == nil {
		return nil, &CompileError{
			Errors:   compiled.Errors,
			Warnings: compiled.Warnings,
		}
	}

	set, err := codegen.Generate(table, cfg.CodegenOptions()...)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SourceName: opts.sourceName,
		Source:     src,
		Namespace:  namespace(table, opts.sourceName),
		Includes:   table.Includes(),
		Warnings:   compiled.Warnings,
		Config:     *cfg,
		Table:      table,
		Set:        set,
	}
	for _, typ := range table.Types() {
		compiledType := CompiledType{
			Name:    typ.Name,
			Kind:    typ.Kind,
			Fields:  typ.Fields,
			Members: typ.Members,
		}
		if typ.Kind.IsStructLike() {
			compiledType.Procedure, _ = set.Procedure(typ.Name)
		}
		result.Types = append(result.Types, compiledType)
	}
	return result, nil
}

func namespace(table *compiler.SymbolTable, sourceName string) string {
	if ns, ok := table.EffectiveNamespace(); ok {
		return ns
	}
	if sourceName == "" {
		return ""
	}
	base := filepath.Base(sourceName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
