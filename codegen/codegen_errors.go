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
	"fmt"
)

type MissingRequiredFieldError struct {
	Type  string
	Field string
	ID    int16
}

func (err *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("%s: required field %d '%s' is not set", err.Type, err.ID, err.Field)
}

// UnionFieldCountError reports a union value with more than one field set.
type UnionFieldCountError struct {
	Type  string
	Count int
}

func (err *UnionFieldCountError) Error() string {
	return fmt.Sprintf("%s: union has %d fields set, at most one is allowed", err.Type, err.Count)
}

type UnknownEnumValueError struct {
	Type  string
	Value int32
}

func (err *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("%s: %d is not a member of the enum", err.Type, err.Value)
}

// InvalidValueError reports a value whose Go type does not match the schema
// type it is encoded as.
type InvalidValueError struct {
	Type  string
	Field string
	Want  string
	Got   any
}

func (err *InvalidValueError) Error() string {
	if err.Field == "" {
		return fmt.Sprintf("%s: expected %s value, got %T", err.Type, err.Want, err.Got)
	}
	return fmt.Sprintf("%s.%s: expected %s value, got %T", err.Type, err.Field, err.Want, err.Got)
}

func errInvalidValue(want string, got any) error {
	return &InvalidValueError{Want: want, Got: got}
}
