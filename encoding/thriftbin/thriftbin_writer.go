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

	"github.com/7sharp9/miser/protocol"
)

type Writer struct {
	w   *bufio.Writer
	buf [8]byte
}

var _ protocol.Writer = (*Writer)(nil)

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) WriteStructBegin(name string) error {
	return nil
}

func (w *Writer) WriteStructEnd() error {
	return nil
}

func (w *Writer) WriteFieldBegin(name string, typeID protocol.TType, id int16) error {
	if err := w.w.WriteByte(byte(typeID)); err != nil {
		return err
	}
	return w.WriteI16(id)
}

func (w *Writer) WriteFieldEnd() error {
	return nil
}

func (w *Writer) WriteFieldStop() error {
	return w.w.WriteByte(byte(protocol.STOP))
}

func (w *Writer) WriteListBegin(elemType protocol.TType, size int) error {
	if err := w.w.WriteByte(byte(elemType)); err != nil {
		return err
	}
	return w.writeSize(size)
}

func (w *Writer) WriteListEnd() error {
	return nil
}

func (w *Writer) WriteSetBegin(elemType protocol.TType, size int) error {
	return w.WriteListBegin(elemType, size)
}

func (w *Writer) WriteSetEnd() error {
	return nil
}

func (w *Writer) WriteMapBegin(keyType, valueType protocol.TType, size int) error {
	if err := w.w.WriteByte(byte(keyType)); err != nil {
		return err
	}
	if err := w.w.WriteByte(byte(valueType)); err != nil {
		return err
	}
	return w.writeSize(size)
}

func (w *Writer) WriteMapEnd() error {
	return nil
}

func (w *Writer) WriteBool(value bool) error {
	if value {
		return w.w.WriteByte(1)
	}
	return w.w.WriteByte(0)
}

func (w *Writer) WriteI8(value int8) error {
	return w.w.WriteByte(byte(value))
}

func (w *Writer) WriteI16(value int16) error {
	binary.BigEndian.PutUint16(w.buf[:2], uint16(value))
	_, err := w.w.Write(w.buf[:2])
	return err
}

func (w *Writer) WriteI32(value int32) error {
	binary.BigEndian.PutUint32(w.buf[:4], uint32(value))
	_, err := w.w.Write(w.buf[:4])
	return err
}

func (w *Writer) WriteI64(value int64) error {
	binary.BigEndian.PutUint64(w.buf[:8], uint64(value))
	_, err := w.w.Write(w.buf[:8])
	return err
}

func (w *Writer) WriteDouble(value float64) error {
	return w.WriteI64(int64(math.Float64bits(value)))
}

func (w *Writer) WriteString(value string) error {
	if err := w.writeSize(len(value)); err != nil {
		return err
	}
	_, err := w.w.WriteString(value)
	return err
}

func (w *Writer) WriteBinary(value []byte) error {
	if err := w.writeSize(len(value)); err != nil {
		return err
	}
	_, err := w.w.Write(value)
	return err
}

func (w *Writer) writeSize(size int) error {
	if size < 0 {
		return protocol.NewError(protocol.NegativeSize, "%d", size)
	}
	if size > math.MaxInt32 {
		return protocol.NewError(protocol.SizeLimit, "%d", size)
	}
	return w.WriteI32(int32(size))
}
