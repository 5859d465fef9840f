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

package protocol

import (
	"errors"
	"fmt"
	"io"
)

type ErrorKind uint8

const (
	UnknownError ErrorKind = iota
	ShortRead
	InvalidData
	NegativeSize
	SizeLimit
	DepthLimit
)

func (k ErrorKind) String() string {
	switch k {
	case ShortRead:
		return "short read"
	case InvalidData:
		return "invalid data"
	case NegativeSize:
		return "negative size"
	case SizeLimit:
		return "size limit exceeded"
	case DepthLimit:
		return "depth limit exceeded"
	}
	return "unknown error"
}

// Error is returned by readers and writers for wire-level failures.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (err *Error) Error() string {
	if err.Message == "" {
		return "protocol: " + err.Kind.String()
	}
	return fmt.Sprintf("protocol: %s: %s", err.Kind, err.Message)
}

func (err *Error) Unwrap() error {
	return err.Err
}

// IsKind reports whether err is a protocol error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var protoErr *Error
	return errors.As(err, &protoErr) && protoErr.Kind == kind
}

func NewError(kind ErrorKind, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapReadError converts io.EOF and io.ErrUnexpectedEOF to ShortRead errors
// and passes other errors through.
func WrapReadError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: ShortRead, Err: err}
	}
	return err
}

// CheckSize validates a decoded container or binary length.
func CheckSize(size int64) (int, error) {
	if size < 0 {
		return 0, NewError(NegativeSize, "%d", size)
	}
	if size > MaxContainerSize {
		return 0, NewError(SizeLimit, "%d > %d", size, MaxContainerSize)
	}
	return int(size), nil
}
