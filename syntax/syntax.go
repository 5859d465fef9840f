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
	"unicode/utf8"
)

type ParseOption interface {
	apply(*ParseOptions)
}

type parseOptionFunc func(*ParseOptions)

func (fn parseOptionFunc) apply(opts *ParseOptions) {
	fn(opts)
}

// DiscardTrivia drops whitespace and comment nodes from the parsed tree.
// The result can no longer be unparsed to the original source.
func DiscardTrivia() ParseOption {
	return parseOptionFunc(func(opts *ParseOptions) {
		opts.saveSpaces = false
		opts.saveNewlines = false
		opts.saveComments = false
	})
}

func Parse(src []uint8, opts ...ParseOption) (*Document, error) {
	return NewParseOptions(opts...).ParseDocument(src)
}

type ParseOptions struct {
	saveSpaces   bool
	saveNewlines bool
	saveComments bool
}

func NewParseOptions(opts ...ParseOption) *ParseOptions {
	parseOpts := &ParseOptions{
		saveSpaces:   true,
		saveNewlines: true,
		saveComments: true,
	}
	for _, opt := range opts {
		opt.apply(parseOpts)
	}
	return parseOpts
}

func (opts *ParseOptions) ParseDocument(src []uint8) (*Document, error) {
	ctx, err := newParseCtx[Document](opts, src)
	if err != nil {
		return nil, err
	}
	return parseDocument(ctx)
}

func (opts *ParseOptions) ParseFieldType(src []uint8) (*FieldType, error) {
	ctx, err := newParseCtx[FieldType](opts, src)
	if err != nil {
		return nil, err
	}
	return parseFieldType(ctx)
}

func (opts *ParseOptions) ParseStruct(src []uint8) (*Struct, error) {
	ctx, err := newParseCtx[Struct](opts, src)
	if err != nil {
		return nil, err
	}
	return parseStruct(ctx)
}

func (opts *ParseOptions) ParseEnum(src []uint8) (*Enum, error) {
	ctx, err := newParseCtx[Enum](opts, src)
	if err != nil {
		return nil, err
	}
	return parseEnum(ctx)
}

func (opts *ParseOptions) ParseService(src []uint8) (*Service, error) {
	ctx, err := newParseCtx[Service](opts, src)
	if err != nil {
		return nil, err
	}
	return parseService(ctx)
}

// Position converts a byte offset into a 1-based line and column. Columns
// count code points, not bytes.
func Position(src []uint8, offset uint32) (line, column int) {
	if int(offset) > len(src) {
		offset = uint32(len(src))
	}
	line, column = 1, 1
	for len(src[:offset]) > 0 {
		r, size := utf8.DecodeRune(src[:offset])
		src = src[size:]
		offset -= uint32(size)
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

type parseCtx[T any] struct {
	src        []uint8
	opts       *ParseOptions
	tokens     *Tokens
	childNodes []Node
	haveToken  bool
	token      Token
	err        error
	consumed   uint32
	offset     uint32
}

func newParseCtx[T any](opts *ParseOptions, src []uint8) (*parseCtx[T], error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	return &parseCtx[T]{
		src:    src,
		opts:   opts,
		tokens: tokens,
	}, nil
}

func (ctx *parseCtx[T]) ensureToken() error {
	if ctx.err != nil {
		return ctx.err
	}
	if ctx.haveToken {
		return nil
	}
	if err := ctx.tokens.Next(&ctx.token); err != nil {
		ctx.err = err
		return ctx.err
	}
	ctx.haveToken = true
	return nil
}

func (ctx *parseCtx[T]) readToken() []uint8 {
	return ctx.src[:ctx.token.Len]
}

func (ctx *parseCtx[T]) consumeToken(child Node) {
	ctx.src = ctx.src[ctx.token.Len:]
	ctx.consumed += uint32(ctx.token.Len)
	ctx.offset += uint32(ctx.token.Len)
	ctx.haveToken = false
	if child != nil {
		ctx.childNodes = append(ctx.childNodes, child)
	}
}

func (ctx *parseCtx[T]) tokenSpan() Span {
	return Span{
		start: ctx.offset,
		len:   uint32(ctx.token.Len),
	}
}

func (ctx *parseCtx[T]) loop(yield func(struct{}) bool) {
	if ctx.err != nil {
		return
	}
	for {
		consumed := ctx.consumed
		if !yield(struct{}{}) {
			return
		}
		if ctx.err != nil {
			return
		}
		if consumed == ctx.consumed {
			return
		}
	}
}

// trivia consumes any run of spaces, newlines, and comments.
func (ctx *parseCtx[T]) trivia() {
	for _ = range ctx.loop {
		if err := ctx.ensureToken(); err != nil {
			return
		}
		switch ctx.token.Kind {
		case T_SPACE:
			if !ctx.opts.saveSpaces {
				ctx.consumeToken(nil)
				continue
			}
			tokenBytes := ctx.readToken()
			raw := " "
			if !bytes.Equal(tokenBytes, []uint8{' '}) {
				raw = string(tokenBytes)
			}
			ctx.consumeToken(&Space{
				raw:   raw,
				start: ctx.offset,
			})
		case T_NEWLINE:
			if !ctx.opts.saveNewlines {
				ctx.consumeToken(nil)
				continue
			}
			ctx.consumeToken(&Newline{
				crlf:  ctx.token.Len == 2,
				start: ctx.offset,
			})
		case T_COMMENT:
			if !ctx.opts.saveComments {
				ctx.consumeToken(nil)
				continue
			}
			ctx.consumeToken(&Comment{
				raw:   string(ctx.readToken()),
				start: ctx.offset,
			})
		default:
			return
		}
	}
}

// separator consumes an optional list separator.
func (ctx *parseCtx[T]) separator() {
	if !ctx.trySigil(T_COMMA) {
		ctx.trySigil(T_SEMICOLON)
	}
}

func (ctx *parseCtx[T]) sigil(kind TokenKind) {
	if err := ctx.ensureToken(); err != nil {
		return
	}
	if ctx.token.Kind != kind {
		ctx.err = errExpectedSigil(
			kind,
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
		return
	}
	ctx.consumeToken(&Sigil{
		raw:   ctx.src[0],
		start: ctx.offset,
	})
}

func (ctx *parseCtx[T]) trySigil(kind TokenKind) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != kind {
		return false
	}
	ctx.consumeToken(&Sigil{
		raw:   ctx.src[0],
		start: ctx.offset,
	})
	return true
}

func (ctx *parseCtx[T]) tryKeyword(keyword string) bool {
	if err := ctx.ensureToken(); err != nil {
		return false
	}
	if ctx.token.Kind != T_IDENT {
		return false
	}
	if string(ctx.readToken()) != keyword {
		return false
	}
	ctx.consumeToken(&Keyword{
		raw:   keyword,
		start: ctx.offset,
	})
	return true
}

func (ctx *parseCtx[T]) ident() *Ident {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	if ctx.token.Kind != T_IDENT {
		ctx.err = errExpectedIdent(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}
	ident := &Ident{
		raw:   token,
		start: ctx.offset,
	}
	ctx.consumeToken(ident)
	return ident
}

func (ctx *parseCtx[T]) int() *IntLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())

	switch ctx.token.Kind {
	case T_INT_LIT, T_HEX_INT_LIT:
	default:
		ctx.err = errExpectedIntLit(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}

	intNode, err := newIntLit(token, ctx.token.Kind, ctx.offset)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(intNode)
	return intNode
}

func (ctx *parseCtx[T]) double() *DoubleLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())
	doubleNode, err := newDoubleLit(token, ctx.offset)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(doubleNode)
	return doubleNode
}

func (ctx *parseCtx[T]) text() *TextLit {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	token := string(ctx.readToken())

	if ctx.token.Kind != T_TEXT_LIT {
		ctx.err = errExpectedTextLit(ctx.token.Kind, token, ctx.tokenSpan())
		return nil
	}
	textNode, err := newTextLit(token, ctx.offset, ctx.token.flags)
	if err != nil {
		ctx.err = err
		return nil
	}
	ctx.consumeToken(textNode)
	return textNode
}

func (ctx *parseCtx[T]) finish(
	build func(span Span, childNodes []Node) *T,
) (*T, error) {
	if ctx.err != nil {
		return nil, ctx.err
	}
	span := Span{
		start: ctx.offset - ctx.consumed,
		len:   ctx.consumed,
	}
	return build(span, ctx.childNodes), nil
}

func parseChild[P any, C any, PtrC interface {
	*C
	Node
}](
	ctx *parseCtx[P],
	parseChildFn func(*parseCtx[C]) (PtrC, error),
) (*C, bool) {
	if ctx.err != nil {
		return nil, false
	}
	childCtx := &parseCtx[C]{
		src:       ctx.src,
		opts:      ctx.opts,
		tokens:    ctx.tokens,
		haveToken: ctx.haveToken,
		token:     ctx.token,
		offset:    ctx.offset,
	}
	child, err := parseChildFn(childCtx)
	if err != nil {
		ctx.err = err
		return nil, false
	}

	ctx.haveToken = childCtx.haveToken
	ctx.token = childCtx.token

	if childCtx.consumed == 0 {
		return nil, false
	}
	ctx.src = ctx.src[childCtx.consumed:]
	ctx.consumed += childCtx.consumed
	ctx.offset = childCtx.offset
	ctx.childNodes = append(ctx.childNodes, child)
	return child, true
}

func parseDocument(ctx *parseCtx[Document]) (*Document, error) {
	var namespaces []*Namespace
	var includes []*Include
	var definitions []Definition

	for _ = range ctx.loop {
		ctx.trivia()
		if ns, ok := parseChild(ctx, parseNamespace); ok {
			namespaces = append(namespaces, ns)
		} else if inc, ok := parseChild(ctx, parseInclude); ok {
			includes = append(includes, inc)
		}
	}

	for _ = range ctx.loop {
		ctx.trivia()
		if ctx.err != nil || ctx.token.Kind == T_EOF {
			break
		}

		def, ok := parseDefinition(ctx)
		if ctx.err != nil {
			return nil, ctx.err
		}
		if !ok {
			token := string(ctx.readToken())
			span := ctx.tokenSpan()
			if ctx.token.Kind == T_IDENT {
				return nil, errUnknownDefinition(token, span)
			}
			return nil, errExpectedDefinition(ctx.token.Kind, token, span)
		}
		definitions = append(definitions, def)
	}

	return ctx.finish(func(span Span, childNodes []Node) *Document {
		return &Document{
			branchNode:  branchNode{span, childNodes},
			namespaces:  namespaces,
			includes:    includes,
			definitions: definitions,
		}
	})
}

func parseDefinition(ctx *parseCtx[Document]) (Definition, bool) {
	if def, ok := parseChild(ctx, parseStruct); ok {
		return def, true
	}
	if def, ok := parseChild(ctx, parseUnion); ok {
		return def, true
	}
	if def, ok := parseChild(ctx, parseException); ok {
		return def, true
	}
	if def, ok := parseChild(ctx, parseEnum); ok {
		return def, true
	}
	if def, ok := parseChild(ctx, parseService); ok {
		return def, true
	}
	if def, ok := parseChild(ctx, parseTypedef); ok {
		return def, true
	}
	if def, ok := parseChild(ctx, parseConst); ok {
		return def, true
	}
	return nil, false
}

func parseNamespace(ctx *parseCtx[Namespace]) (*Namespace, error) {
	if !ctx.tryKeyword("namespace") {
		return nil, nil
	}
	ctx.trivia()

	var scope *Ident
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	switch ctx.token.Kind {
	case T_STAR:
		ctx.sigil(T_STAR)
	case T_IDENT:
		scope = ctx.ident()
	default:
		return nil, errExpectedNamespaceScope(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}
	ctx.trivia()
	name := ctx.ident()

	return ctx.finish(func(span Span, childNodes []Node) *Namespace {
		return &Namespace{
			branchNode: branchNode{span, childNodes},
			scope:      scope,
			name:       name,
		}
	})
}

func parseInclude(ctx *parseCtx[Include]) (*Include, error) {
	cpp := false
	if !ctx.tryKeyword("include") {
		if !ctx.tryKeyword("cpp_include") {
			return nil, nil
		}
		cpp = true
	}
	ctx.trivia()
	path := ctx.text()

	return ctx.finish(func(span Span, childNodes []Node) *Include {
		return &Include{
			branchNode: branchNode{span, childNodes},
			path:       path,
			cpp:        cpp,
		}
	})
}

func parseStructLike[T any](ctx *parseCtx[T], keyword string) (structLike, bool) {
	if !ctx.tryKeyword(keyword) {
		return structLike{}, false
	}
	ctx.trivia()
	name := ctx.ident()
	ctx.trivia()
	fields := parseFieldList(ctx, T_OPEN_CURL, T_CLOSE_CURL)
	return structLike{name: name, fields: fields}, true
}

func parseStruct(ctx *parseCtx[Struct]) (*Struct, error) {
	decl, ok := parseStructLike(ctx, "struct")
	if !ok {
		return nil, nil
	}
	return ctx.finish(func(span Span, childNodes []Node) *Struct {
		decl.branchNode = branchNode{span, childNodes}
		return &Struct{decl}
	})
}

func parseUnion(ctx *parseCtx[Union]) (*Union, error) {
	decl, ok := parseStructLike(ctx, "union")
	if !ok {
		return nil, nil
	}
	return ctx.finish(func(span Span, childNodes []Node) *Union {
		decl.branchNode = branchNode{span, childNodes}
		return &Union{decl}
	})
}

func parseException(ctx *parseCtx[Exception]) (*Exception, error) {
	decl, ok := parseStructLike(ctx, "exception")
	if !ok {
		return nil, nil
	}
	return ctx.finish(func(span Span, childNodes []Node) *Exception {
		decl.branchNode = branchNode{span, childNodes}
		return &Exception{decl}
	})
}

func parseFieldList[T any](ctx *parseCtx[T], open, close TokenKind) []*Field {
	var fields []*Field
	ctx.sigil(open)
	ctx.trivia()
	for _ = range ctx.loop {
		if ctx.trySigil(close) {
			break
		}
		field, _ := parseChild(ctx, parseField)
		fields = append(fields, field)
		ctx.trivia()
	}
	return fields
}

func parseField(ctx *parseCtx[Field]) (*Field, error) {
	id := ctx.int()
	ctx.trivia()
	ctx.sigil(T_COLON)
	ctx.trivia()

	requiredness := RequirednessDefault
	if ctx.tryKeyword("required") {
		requiredness = RequirednessRequired
		ctx.trivia()
	} else if ctx.tryKeyword("optional") {
		requiredness = RequirednessOptional
		ctx.trivia()
	}

	fieldType, _ := parseChild(ctx, parseFieldType)
	ctx.trivia()
	name := ctx.ident()
	ctx.trivia()

	var defaultValue ConstValue
	if ctx.trySigil(T_EQ) {
		ctx.trivia()
		defaultValue = parseConstValue(ctx)
		ctx.trivia()
	}
	ctx.separator()

	return ctx.finish(func(span Span, childNodes []Node) *Field {
		return &Field{
			branchNode:   branchNode{span, childNodes},
			id:           id,
			requiredness: requiredness,
			fieldType:    fieldType,
			name:         name,
			defaultValue: defaultValue,
		}
	})
}

func parseFieldType(ctx *parseCtx[FieldType]) (*FieldType, error) {
	if err := ctx.ensureToken(); err != nil {
		return nil, err
	}
	if ctx.token.Kind != T_IDENT {
		return nil, errExpectedFieldType(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}

	typeName := ctx.ident()
	var params []*FieldType
	switch typeName.Get() {
	case "list", "set":
		ctx.trivia()
		ctx.sigil(T_LT)
		ctx.trivia()
		elem, _ := parseChild(ctx, parseFieldType)
		ctx.trivia()
		ctx.sigil(T_GT)
		params = []*FieldType{elem}
	case "map":
		ctx.trivia()
		ctx.sigil(T_LT)
		ctx.trivia()
		key, _ := parseChild(ctx, parseFieldType)
		ctx.trivia()
		ctx.sigil(T_COMMA)
		ctx.trivia()
		value, _ := parseChild(ctx, parseFieldType)
		ctx.trivia()
		ctx.sigil(T_GT)
		params = []*FieldType{key, value}
	}

	return ctx.finish(func(span Span, childNodes []Node) *FieldType {
		return &FieldType{
			branchNode: branchNode{span, childNodes},
			typeName:   typeName,
			params:     params,
		}
	})
}

func parseEnum(ctx *parseCtx[Enum]) (*Enum, error) {
	if !ctx.tryKeyword("enum") {
		return nil, nil
	}
	ctx.trivia()
	name := ctx.ident()
	ctx.trivia()

	var items []*EnumItem
	ctx.sigil(T_OPEN_CURL)
	ctx.trivia()
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		item, _ := parseChild(ctx, parseEnumItem)
		items = append(items, item)
		ctx.trivia()
	}

	return ctx.finish(func(span Span, childNodes []Node) *Enum {
		return &Enum{
			branchNode: branchNode{span, childNodes},
			name:       name,
			items:      items,
		}
	})
}

func parseEnumItem(ctx *parseCtx[EnumItem]) (*EnumItem, error) {
	name := ctx.ident()
	ctx.trivia()

	var value *IntLit
	if ctx.trySigil(T_EQ) {
		ctx.trivia()
		value = ctx.int()
		ctx.trivia()
	}
	ctx.separator()

	return ctx.finish(func(span Span, childNodes []Node) *EnumItem {
		return &EnumItem{
			branchNode: branchNode{span, childNodes},
			name:       name,
			value:      value,
		}
	})
}

func parseService(ctx *parseCtx[Service]) (*Service, error) {
	if !ctx.tryKeyword("service") {
		return nil, nil
	}
	ctx.trivia()
	name := ctx.ident()
	ctx.trivia()

	var extends *Ident
	if ctx.tryKeyword("extends") {
		ctx.trivia()
		extends = ctx.ident()
		ctx.trivia()
	}

	var functions []*Function
	ctx.sigil(T_OPEN_CURL)
	ctx.trivia()
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		if err := ctx.ensureToken(); err != nil {
			return nil, err
		}
		if ctx.token.Kind != T_IDENT {
			return nil, errExpectedFunction(
				ctx.token.Kind,
				string(ctx.readToken()),
				ctx.tokenSpan(),
			)
		}
		function, _ := parseChild(ctx, parseFunction)
		functions = append(functions, function)
		ctx.trivia()
	}

	return ctx.finish(func(span Span, childNodes []Node) *Service {
		return &Service{
			branchNode: branchNode{span, childNodes},
			name:       name,
			extends:    extends,
			functions:  functions,
		}
	})
}

func parseFunction(ctx *parseCtx[Function]) (*Function, error) {
	oneway := ctx.tryKeyword("oneway")
	if oneway {
		ctx.trivia()
	}

	var returnType *FieldType
	if !ctx.tryKeyword("void") {
		returnType, _ = parseChild(ctx, parseFieldType)
	}
	ctx.trivia()
	name := ctx.ident()
	ctx.trivia()
	params := parseFieldList(ctx, T_OPEN_PAREN, T_CLOSE_PAREN)
	ctx.trivia()

	var throws []*Field
	if ctx.tryKeyword("throws") {
		ctx.trivia()
		throws = parseFieldList(ctx, T_OPEN_PAREN, T_CLOSE_PAREN)
		ctx.trivia()
	}
	ctx.separator()

	return ctx.finish(func(span Span, childNodes []Node) *Function {
		return &Function{
			branchNode: branchNode{span, childNodes},
			oneway:     oneway,
			returnType: returnType,
			name:       name,
			params:     params,
			throws:     throws,
		}
	})
}

func parseTypedef(ctx *parseCtx[Typedef]) (*Typedef, error) {
	if !ctx.tryKeyword("typedef") {
		return nil, nil
	}
	ctx.trivia()
	fieldType, _ := parseChild(ctx, parseFieldType)
	ctx.trivia()
	name := ctx.ident()
	ctx.separator()

	return ctx.finish(func(span Span, childNodes []Node) *Typedef {
		return &Typedef{
			branchNode: branchNode{span, childNodes},
			fieldType:  fieldType,
			name:       name,
		}
	})
}

func parseConst(ctx *parseCtx[Const]) (*Const, error) {
	if !ctx.tryKeyword("const") {
		return nil, nil
	}
	ctx.trivia()
	fieldType, _ := parseChild(ctx, parseFieldType)
	ctx.trivia()
	name := ctx.ident()
	ctx.trivia()
	ctx.sigil(T_EQ)
	ctx.trivia()
	value := parseConstValue(ctx)
	ctx.separator()

	return ctx.finish(func(span Span, childNodes []Node) *Const {
		return &Const{
			branchNode: branchNode{span, childNodes},
			fieldType:  fieldType,
			name:       name,
			value:      value,
		}
	})
}

func parseConstValue[T any](ctx *parseCtx[T]) ConstValue {
	if err := ctx.ensureToken(); err != nil {
		return nil
	}
	switch ctx.token.Kind {
	case T_INT_LIT, T_HEX_INT_LIT:
		if child := ctx.int(); child != nil {
			return child
		}
	case T_DOUBLE_LIT:
		if child := ctx.double(); child != nil {
			return child
		}
	case T_TEXT_LIT:
		if child := ctx.text(); child != nil {
			return child
		}
	case T_IDENT:
		if child := ctx.ident(); child != nil {
			return child
		}
	case T_OPEN_SQUARE:
		if child, ok := parseChild(ctx, parseListValue); ok {
			return child
		}
	case T_OPEN_CURL:
		if child, ok := parseChild(ctx, parseMapValue); ok {
			return child
		}
	default:
		ctx.err = errExpectedConstValue(
			ctx.token.Kind,
			string(ctx.readToken()),
			ctx.tokenSpan(),
		)
	}
	return nil
}

func parseListValue(ctx *parseCtx[ListValue]) (*ListValue, error) {
	var items []ConstValue
	ctx.sigil(T_OPEN_SQUARE)
	ctx.trivia()
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_SQUARE) {
			break
		}
		items = append(items, parseConstValue(ctx))
		ctx.trivia()
		ctx.separator()
		ctx.trivia()
	}

	return ctx.finish(func(span Span, childNodes []Node) *ListValue {
		return &ListValue{
			branchNode: branchNode{span, childNodes},
			items:      items,
		}
	})
}

func parseMapValue(ctx *parseCtx[MapValue]) (*MapValue, error) {
	var entries []*MapEntry
	ctx.sigil(T_OPEN_CURL)
	ctx.trivia()
	for _ = range ctx.loop {
		if ctx.trySigil(T_CLOSE_CURL) {
			break
		}
		entry, _ := parseChild(ctx, parseMapEntry)
		entries = append(entries, entry)
		ctx.trivia()
		ctx.separator()
		ctx.trivia()
	}

	return ctx.finish(func(span Span, childNodes []Node) *MapValue {
		return &MapValue{
			branchNode: branchNode{span, childNodes},
			entries:    entries,
		}
	})
}

func parseMapEntry(ctx *parseCtx[MapEntry]) (*MapEntry, error) {
	key := parseConstValue(ctx)
	ctx.trivia()
	ctx.sigil(T_COLON)
	ctx.trivia()
	value := parseConstValue(ctx)

	return ctx.finish(func(span Span, childNodes []Node) *MapEntry {
		return &MapEntry{
			branchNode: branchNode{span, childNodes},
			key:        key,
			value:      value,
		}
	})
}
