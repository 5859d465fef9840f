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
	"fmt"
	"math"
	"unicode/utf8"
)

type Error struct {
	code    uint32
	message string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() Span {
	return err.span
}

func clampLen(n int) uint32 {
	if uint64(n) < math.MaxUint32 {
		return uint32(n)
	}
	return math.MaxUint32
}

func errSourceTooLong(srcLen int) error {
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, clampLen(srcLen)},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, clampLen(tokenLen)},
	}
}

func errIntLitInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid number literal %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errTextLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1006,
		message: "Unterminated text literal",
		span:    Span{start, tokenLen},
	}
}

func errTextLitContainsNewline(start, newlineLen uint32) error {
	return &Error{
		code:    1007,
		message: "Text literal contains unescaped newline",
		span:    Span{start, newlineLen},
	}
}

func errIdentInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1008,
		message: fmt.Sprintf("Invalid identifier %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errCommentUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1009,
		message: "Unterminated block comment",
		span:    Span{start, tokenLen},
	}
}

func sigilString(kind TokenKind) string {
	switch kind {
	case T_COLON:
		return ":"
	case T_SEMICOLON:
		return ";"
	case T_COMMA:
		return ","
	case T_EQ:
		return "="
	case T_STAR:
		return "*"
	case T_LT:
		return "<"
	case T_GT:
		return ">"
	case T_OPEN_CURL:
		return "{"
	case T_CLOSE_CURL:
		return "}"
	case T_OPEN_PAREN:
		return "("
	case T_CLOSE_PAREN:
		return ")"
	case T_OPEN_SQUARE:
		return "["
	case T_CLOSE_SQUARE:
		return "]"
	default:
		panic("unreachable")
	}
}

func errExpectedSigil(
	wantKind TokenKind,
	gotKind TokenKind,
	gotToken string,
	span Span,
) error {
	var code uint32
	switch wantKind {
	case T_COLON:
		code = 2000
	case T_SEMICOLON:
		code = 2001
	case T_COMMA:
		code = 2002
	case T_EQ:
		code = 2003
	case T_STAR:
		code = 2004
	case T_LT:
		code = 2005
	case T_GT:
		code = 2006
	case T_OPEN_CURL:
		code = 2007
	case T_CLOSE_CURL:
		code = 2008
	case T_OPEN_PAREN:
		code = 2009
	case T_CLOSE_PAREN:
		code = 2010
	case T_OPEN_SQUARE:
		code = 2011
	case T_CLOSE_SQUARE:
		code = 2012
	default:
		panic("unreachable")
	}
	return &Error{
		code: code,
		message: fmt.Sprintf(
			"Expected sigil '%s', got (%s %q)",
			sigilString(wantKind), gotKind, gotToken,
		),
		span: span,
	}
}

func errExpectedIntLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2020,
		message: fmt.Sprintf("Expected integer literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedTextLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2021,
		message: fmt.Sprintf("Expected text literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIdent(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2022,
		message: fmt.Sprintf("Expected identifier, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedDefinition(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2023,
		message: fmt.Sprintf("Expected definition keyword, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errUnknownDefinition(token string, span Span) error {
	return &Error{
		code:    2024,
		message: fmt.Sprintf("Unknown definition keyword %q", token),
		span:    span,
	}
}

func errExpectedFieldType(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2025,
		message: fmt.Sprintf("Expected field type, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedConstValue(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2026,
		message: fmt.Sprintf("Expected constant value, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errIntLitOutOfRange(token string, start uint32) error {
	return &Error{
		code: 2027,
		message: fmt.Sprintf(
			"Integer literal %s out of range (must be within [%d, %d])",
			token, int64(math.MinInt64), int64(math.MaxInt64),
		),
		span: Span{start, clampLen(len(token))},
	}
}

func errTextLitInvalid(start uint32, token string) error {
	return &Error{
		code:    2028,
		message: fmt.Sprintf("Invalid text literal %s", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errDoubleLitInvalid(start uint32, token string) error {
	return &Error{
		code:    2029,
		message: fmt.Sprintf("Invalid double literal %s", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errExpectedNamespaceScope(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2030,
		message: fmt.Sprintf("Expected namespace scope, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedFunction(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2031,
		message: fmt.Sprintf("Expected service function, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}
