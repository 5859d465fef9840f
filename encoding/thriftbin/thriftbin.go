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

// Package thriftbin implements the strict binary wire format.
//
// Integers are big-endian. A field header is the wire type byte followed by
// the i16 field id, and a struct ends with a single STOP byte. Strings,
// binaries, and container sizes carry an i32 length prefix.
package thriftbin

import (
	"io"

	"github.com/7sharp9/miser/protocol"
)

type codec struct{}

// Codec constructs binary readers and writers.
var Codec protocol.Codec = codec{}

func (codec) Name() string {
	return "binary"
}

func (codec) NewWriter(w io.Writer) protocol.Writer {
	return NewWriter(w)
}

func (codec) NewReader(r io.Reader) protocol.Reader {
	return NewReader(r)
}
