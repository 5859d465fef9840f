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

package thriftbin

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/7sharp9/miser/protocol"
)

type Reader struct {
	r   *bufio.Reader
	buf [8]byte
}

var _ protocol.Reader = (*Reader)(nil)

func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: br}
	}
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) ReadStructBegin() (string, error) {
	return "", nil
}

func (r *Reader) ReadStructEnd() error {
	return nil
}

func (r *Reader) ReadFieldBegin() (string, protocol.TType, int16, error) {
	typeID, err := r.readType()
	if err != nil {
		return "", 0, 0, err
	}
	if typeID == protocol.STOP {
		return "", protocol.STOP, 0, nil
	}
	id, err := r.ReadI16()
	if err != nil {
		return "", 0, 0, err
	}
	return "", typeID, id, nil
}

func (r *Reader) ReadFieldEnd() error {
	return nil
}

func (r *Reader) ReadListBegin() (protocol.TType, int, error) {
	elemType, err := r.readType()
	if err != nil {
		return 0, 0, err
	}
	size, err := r.readSize()
	if err != nil {
		return 0, 0, err
	}
	return elemType, size, nil
}

func (r *Reader) ReadListEnd() error {
	return nil
}

func (r *Reader) ReadSetBegin() (protocol.TType, int, error) {
	return r.ReadListBegin()
}

func (r *Reader) ReadSetEnd() error {
	return nil
}

func (r *Reader) ReadMapBegin() (protocol.TType, protocol.TType, int, error) {
	keyType, err := r.readType()
	if err != nil {
		return 0, 0, 0, err
	}
	valueType, err := r.readType()
	if err != nil {
		return 0, 0, 0, err
	}
	size, err := r.readSize()
	if err != nil {
		return 0, 0, 0, err
	}
	return keyType, valueType, size, nil
}

func (r *Reader) ReadMapEnd() error {
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *Reader) ReadI8() (int8, error) {
	b, err := r.readByte()
	return int8(b), err
}

func (r *Reader) ReadI16() (int16, error) {
	if err := r.readFull(2); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(r.buf[:2])), nil
}

func (r *Reader) ReadI32() (int32, error) {
	if err := r.readFull(4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(r.buf[:4])), nil
}

func (r *Reader) ReadI64() (int64, error) {
	if err := r.readFull(8); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(r.buf[:8])), nil
}

func (r *Reader) ReadDouble() (float64, error) {
	bits, err := r.ReadI64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

func (r *Reader) ReadString() (string, error) {
	buf, err := r.ReadBinary()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(buf) {
		return "", protocol.NewError(protocol.InvalidData, "string is not valid UTF-8")
	}
	return string(buf), nil
}

func (r *Reader) ReadBinary() ([]byte, error) {
	size, err := r.readSize()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, protocol.WrapReadError(err)
	}
	return buf, nil
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, protocol.WrapReadError(err)
	}
	return b, nil
}

func (r *Reader) readType() (protocol.TType, error) {
	b, err := r.readByte()
	if err != nil {
		return 0, err
	}
	typeID := protocol.TType(b)
	if typeID != protocol.STOP && !typeID.IsValue() {
		return 0, protocol.NewError(protocol.InvalidData, "unknown wire type %d", b)
	}
	return typeID, nil
}

func (r *Reader) readSize() (int, error) {
	size, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	return protocol.CheckSize(int64(size))
}

func (r *Reader) readFull(n int) error {
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		return protocol.WrapReadError(err)
	}
	return nil
}
