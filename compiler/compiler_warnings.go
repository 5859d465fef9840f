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

type Warning struct {
	code    uint32
	message string
	span    syntax.Span
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Span() syntax.Span {
	return w.span
}

func warnServiceSkipped(name string, span syntax.Span) *Warning {
	return &Warning{
		code:    4000,
		message: fmt.Sprintf("Service '%s' is not compiled", name),
		span:    span,
	}
}

func warnDuplicateNamespace(scope string, span syntax.Span) *Warning {
	return &Warning{
		code:    4001,
		message: fmt.Sprintf("Duplicate namespace for scope '%s' is ignored", scope),
		span:    span,
	}
}

func warnNonPositiveFieldID(typeName string, id int16, span syntax.Span) *Warning {
	return &Warning{
		code:    4002,
		message: fmt.Sprintf("Field id %d in '%s' is not positive", id, typeName),
		span:    span,
	}
}

func warnRequiredUnionField(typeName, field string, span syntax.Span) *Warning {
	return &Warning{
		code:    4003,
		message: fmt.Sprintf("Union field '%s.%s' cannot be required", typeName, field),
		span:    span,
	}
}

func warnIncludeNotResolved(path string, span syntax.Span) *Warning {
	return &Warning{
		code:    4004,
		message: fmt.Sprintf("Definitions from include %q are not visible", path),
		span:    span,
	}
}
