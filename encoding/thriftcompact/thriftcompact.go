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

// Package thriftcompact implements the compact wire format.
//
// Integers are zigzag varints, field headers carry the id delta from the
// previous field in their high nibble when it fits, and boolean fields fold
// their value into the header type.
package thriftcompact

import (
	"io"

	"github.com/7sharp9/miser/protocol"
)

type compactType uint8

const (
	ctStop         compactType = 0x00
	ctBooleanTrue  compactType = 0x01
	ctBooleanFalse compactType = 0x02
	ctByte         compactType = 0x03
	ctI16          compactType = 0x04
	ctI32          compactType = 0x05
	ctI64          compactType = 0x06
	ctDouble       compactType = 0x07
	ctBinary       compactType = 0x08
	ctList         compactType = 0x09
	ctSet          compactType = 0x0A
	ctMap          compactType = 0x0B
	ctStruct       compactType = 0x0C
)

func toCompact(t protocol.TType) (compactType, error) {
	switch t {
	case protocol.STOP:
		return ctStop, nil
	case protocol.BOOL:
		return ctBooleanTrue, nil
	case protocol.BYTE:
		return ctByte, nil
	case protocol.I16:
		return ctI16, nil
	case protocol.I32:
		return ctI32, nil
	case protocol.I64:
		return ctI64, nil
	case protocol.DOUBLE:
		return ctDouble, nil
	case protocol.STRING:
		return ctBinary, nil
	case protocol.LIST:
		return ctList, nil
	case protocol.SET:
		return ctSet, nil
	case protocol.MAP:
		return ctMap, nil
	case protocol.STRUCT:
		return ctStruct, nil
	}
	return 0, protocol.NewError(protocol.InvalidData, "no compact encoding for %s", t)
}

func fromCompact(ct compactType) (protocol.TType, error) {
	switch ct {
	case ctStop:
		return protocol.STOP, nil
	case ctBooleanTrue, ctBooleanFalse:
		return protocol.BOOL, nil
	case ctByte:
		return protocol.BYTE, nil
	case ctI16:
		return protocol.I16, nil
	case ctI32:
		return protocol.I32, nil
	case ctI64:
		return protocol.I64, nil
	case ctDouble:
		return protocol.DOUBLE, nil
	case ctBinary:
		return protocol.STRING, nil
	case ctList:
		return protocol.LIST, nil
	case ctSet:
		return protocol.SET, nil
	case ctMap:
		return protocol.MAP, nil
	case ctStruct:
		return protocol.STRUCT, nil
	}
	return 0, protocol.NewError(protocol.InvalidData, "unknown compact type %d", ct)
}

func zigzag32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

func zigzag64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func unzigzag32(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

func unzigzag64(n uint64) int64 {
	return int64(n>>1) ^ -int64(n&1)
}

type codec struct{}

// Codec constructs compact readers and writers.
var Codec protocol.Codec = codec{}

func (codec) Name() string {
	return "compact"
}

func (codec) NewWriter(w io.Writer) protocol.Writer {
	return NewWriter(w)
}

func (codec) NewReader(r io.Reader) protocol.Reader {
	return NewReader(r)
}
