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

	"github.com/7sharp9/miser/syntax"
)

type Error struct {
	code    uint32
	message string
	span    syntax.Span
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

func (err *Error) Span() syntax.Span {
	return err.span
}

func errDeclNameConflict(name string, span, prevSpan syntax.Span) error {
	return &Error{
		code: 3000,
		message: fmt.Sprintf(
			"Definition of '%s' conflicts with earlier definition at offset %d",
			name, prevSpan.Start(),
		),
		span: span,
	}
}

func errDeclShadowsBuiltin(name string, span syntax.Span) error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Definition of '%s' shadows builtin type", name),
		span:    span,
	}
}

func errUnresolvedType(name, context string, span syntax.Span) error {
	return &Error{
		code:    3002,
		message: fmt.Sprintf("Unresolved type '%s' in %s", name, context),
		span:    span,
	}
}

func errNotAType(name string, span syntax.Span) error {
	return &Error{
		code:    3003,
		message: fmt.Sprintf("Name '%s' refers to a const, not a type", name),
		span:    span,
	}
}

func errTypedefCycle(name string, span syntax.Span) error {
	return &Error{
		code:    3004,
		message: fmt.Sprintf("Typedef '%s' refers to itself", name),
		span:    span,
	}
}

func errFieldIDOutOfRange(typeName string, id *syntax.IntLit) error {
	return &Error{
		code: 3005,
		message: fmt.Sprintf(
			"Field id %d in '%s' is outside the i16 range",
			id.Get(), typeName,
		),
		span: id.Span(),
	}
}

func errDuplicateFieldID(typeName string, id int16, span syntax.Span) error {
	return &Error{
		code:    3006,
		message: fmt.Sprintf("Duplicate field id %d in '%s'", id, typeName),
		span:    span,
	}
}

func errDuplicateFieldName(typeName, name string, span syntax.Span) error {
	return &Error{
		code:    3007,
		message: fmt.Sprintf("Duplicate field name '%s' in '%s'", name, typeName),
		span:    span,
	}
}

func errEnumValueOutOfRange(enumName, member string, value int64, span syntax.Span) error {
	return &Error{
		code: 3008,
		message: fmt.Sprintf(
			"Value %d of enum member '%s.%s' is outside the i32 range",
			value, enumName, member,
		),
		span: span,
	}
}

func errDuplicateEnumName(enumName, member string, span syntax.Span) error {
	return &Error{
		code:    3009,
		message: fmt.Sprintf("Duplicate member '%s' in enum '%s'", member, enumName),
		span:    span,
	}
}

func errDuplicateEnumValue(
	enumName string,
	member string,
	prevMember string,
	value int32,
	span syntax.Span,
) error {
	return &Error{
		code: 3010,
		message: fmt.Sprintf(
			"Enum member '%s.%s' reuses value %d of '%s'",
			enumName, member, value, prevMember,
		),
		span: span,
	}
}

func errConstTypeMismatch(want *TypeRef, got string, span syntax.Span) error {
	return &Error{
		code:    3011,
		message: fmt.Sprintf("Expected value of type %s, got %s", want, got),
		span:    span,
	}
}

func errUnknownEnumMember(enumName, member string, span syntax.Span) error {
	return &Error{
		code:    3012,
		message: fmt.Sprintf("Enum '%s' has no member '%s'", enumName, member),
		span:    span,
	}
}

func errConstValueOutOfRange(want *TypeRef, value int64, span syntax.Span) error {
	return &Error{
		code:    3013,
		message: fmt.Sprintf("Value %d is outside the range of %s", value, want),
		span:    span,
	}
}

func errUnresolvedConst(name string, span syntax.Span) error {
	return &Error{
		code:    3014,
		message: fmt.Sprintf("Unresolved constant '%s'", name),
		span:    span,
	}
}

func errUnknownStructField(typeName, field string, span syntax.Span) error {
	return &Error{
		code:    3015,
		message: fmt.Sprintf("Type '%s' has no field '%s'", typeName, field),
		span:    span,
	}
}
