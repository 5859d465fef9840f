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

package thriftcompact

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf8"

	"github.com/7sharp9/miser/protocol"
)

type Reader struct {
	r            *bufio.Reader
	buf          [8]byte
	lastFieldID  int16
	fieldIDStack []int16

	// Set by ReadFieldBegin when the header carried a boolean value.
	hasPendingBool bool
	pendingBool    bool
}

var _ protocol.Reader = (*Reader)(nil)

func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: br}
	}
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) ReadStructBegin() (string, error) {
	r.fieldIDStack = append(r.fieldIDStack, r.lastFieldID)
	r.lastFieldID = 0
	return "", nil
}

func (r *Reader) ReadStructEnd() error {
	last := len(r.fieldIDStack) - 1
	if last < 0 {
		return protocol.NewError(protocol.InvalidData, "unbalanced struct end")
	}
	r.lastFieldID = r.fieldIDStack[last]
	r.fieldIDStack = r.fieldIDStack[:last]
	return nil
}

func (r *Reader) ReadFieldBegin() (string, protocol.TType, int16, error) {
	header, err := r.readByte()
	if err != nil {
		return "", 0, 0, err
	}
	ct := compactType(header & 0x0F)
	if ct == ctStop {
		return "", protocol.STOP, 0, nil
	}
	typeID, err := fromCompact(ct)
	if err != nil {
		return "", 0, 0, err
	}

	var id int16
	if delta := int16(header >> 4); delta != 0 {
		id = r.lastFieldID + delta
	} else if id, err = r.ReadI16(); err != nil {
		return "", 0, 0, err
	}
	r.lastFieldID = id

	if typeID == protocol.BOOL {
		r.hasPendingBool = true
		r.pendingBool = ct == ctBooleanTrue
	}
	return "", typeID, id, nil
}

func (r *Reader) ReadFieldEnd() error {
	return nil
}

func (r *Reader) ReadListBegin() (protocol.TType, int, error) {
	header, err := r.readByte()
	if err != nil {
		return 0, 0, err
	}
	elemType, err := fromCompact(compactType(header & 0x0F))
	if err != nil {
		return 0, 0, err
	}
	size := int(header >> 4)
	if size == 15 {
		if size, err = r.readSize(); err != nil {
			return 0, 0, err
		}
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
	size, err := r.readSize()
	if err != nil {
		return 0, 0, 0, err
	}
	if size == 0 {
		return protocol.STOP, protocol.STOP, 0, nil
	}
	types, err := r.readByte()
	if err != nil {
		return 0, 0, 0, err
	}
	keyType, err := fromCompact(compactType(types >> 4))
	if err != nil {
		return 0, 0, 0, err
	}
	valueType, err := fromCompact(compactType(types & 0x0F))
	if err != nil {
		return 0, 0, 0, err
	}
	return keyType, valueType, size, nil
}

func (r *Reader) ReadMapEnd() error {
	return nil
}

func (r *Reader) ReadBool() (bool, error) {
	if r.hasPendingBool {
		r.hasPendingBool = false
		return r.pendingBool, nil
	}
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return compactType(b) == ctBooleanTrue, nil
}

func (r *Reader) ReadI8() (int8, error) {
	b, err := r.readByte()
	return int8(b), err
}

func (r *Reader) ReadI16() (int16, error) {
	value, err := r.ReadI32()
	if err != nil {
		return 0, err
	}
	if value < math.MinInt16 || value > math.MaxInt16 {
		return 0, protocol.NewError(protocol.InvalidData, "i16 out of range: %d", value)
	}
	return int16(value), nil
}

func (r *Reader) ReadI32() (int32, error) {
	raw, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	if raw > math.MaxUint32 {
		return 0, protocol.NewError(protocol.InvalidData, "varint overflows i32")
	}
	return unzigzag32(uint32(raw)), nil
}

func (r *Reader) ReadI64() (int64, error) {
	raw, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	return unzigzag64(raw), nil
}

func (r *Reader) ReadDouble() (float64, error) {
	if _, err := io.ReadFull(r.r, r.buf[:8]); err != nil {
		return 0, protocol.WrapReadError(err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(r.buf[:8])), nil
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

func (r *Reader) readSize() (int, error) {
	raw, err := r.readUvarint()
	if err != nil {
		return 0, err
	}
	if raw > math.MaxInt32 {
		return 0, protocol.NewError(protocol.SizeLimit, "%d", raw)
	}
	return protocol.CheckSize(int64(raw))
}

func (r *Reader) readUvarint() (uint64, error) {
	value, err := binary.ReadUvarint(r.r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, protocol.WrapReadError(err)
		}
		return 0, &protocol.Error{Kind: protocol.InvalidData, Message: "malformed varint", Err: err}
	}
	return value, nil
}
