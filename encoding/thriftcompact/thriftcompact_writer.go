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
	"io"
	"math"

	"github.com/7sharp9/miser/protocol"
)

type Writer struct {
	w            *bufio.Writer
	buf          [binary.MaxVarintLen64]byte
	lastFieldID  int16
	fieldIDStack []int16

	// Set between WriteFieldBegin and WriteBool for a boolean field.
	pendingBool    bool
	pendingFieldID int16
}

var _ protocol.Writer = (*Writer)(nil)

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}

func (w *Writer) WriteStructBegin(name string) error {
	w.fieldIDStack = append(w.fieldIDStack, w.lastFieldID)
	w.lastFieldID = 0
	return nil
}

func (w *Writer) WriteStructEnd() error {
	last := len(w.fieldIDStack) - 1
	if last < 0 {
		return protocol.NewError(protocol.InvalidData, "unbalanced struct end")
	}
	w.lastFieldID = w.fieldIDStack[last]
	w.fieldIDStack = w.fieldIDStack[:last]
	return nil
}

func (w *Writer) WriteFieldBegin(name string, typeID protocol.TType, id int16) error {
	if typeID == protocol.BOOL {
		w.pendingBool = true
		w.pendingFieldID = id
		return nil
	}
	ct, err := toCompact(typeID)
	if err != nil {
		return err
	}
	return w.writeFieldHeader(ct, id)
}

func (w *Writer) writeFieldHeader(ct compactType, id int16) error {
	delta := int(id) - int(w.lastFieldID)
	if id > w.lastFieldID && delta <= 15 {
		if err := w.w.WriteByte(byte(delta<<4) | byte(ct)); err != nil {
			return err
		}
	} else {
		if err := w.w.WriteByte(byte(ct)); err != nil {
			return err
		}
		if err := w.WriteI16(id); err != nil {
			return err
		}
	}
	w.lastFieldID = id
	return nil
}

func (w *Writer) WriteFieldEnd() error {
	return nil
}

func (w *Writer) WriteFieldStop() error {
	return w.w.WriteByte(byte(ctStop))
}

func (w *Writer) WriteListBegin(elemType protocol.TType, size int) error {
	ct, err := toCompact(elemType)
	if err != nil {
		return err
	}
	if size < 0 {
		return protocol.NewError(protocol.NegativeSize, "%d", size)
	}
	if size <= 14 {
		return w.w.WriteByte(byte(size<<4) | byte(ct))
	}
	if err := w.w.WriteByte(0xF0 | byte(ct)); err != nil {
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
	if size == 0 {
		return w.w.WriteByte(0)
	}
	keyCT, err := toCompact(keyType)
	if err != nil {
		return err
	}
	valueCT, err := toCompact(valueType)
	if err != nil {
		return err
	}
	if err := w.writeSize(size); err != nil {
		return err
	}
	return w.w.WriteByte(byte(keyCT)<<4 | byte(valueCT))
}

func (w *Writer) WriteMapEnd() error {
	return nil
}

func (w *Writer) WriteBool(value bool) error {
	ct := ctBooleanFalse
	if value {
		ct = ctBooleanTrue
	}
	if w.pendingBool {
		w.pendingBool = false
		return w.writeFieldHeader(ct, w.pendingFieldID)
	}
	return w.w.WriteByte(byte(ct))
}

func (w *Writer) WriteI8(value int8) error {
	return w.w.WriteByte(byte(value))
}

func (w *Writer) WriteI16(value int16) error {
	return w.writeUvarint(uint64(zigzag32(int32(value))))
}

func (w *Writer) WriteI32(value int32) error {
	return w.writeUvarint(uint64(zigzag32(value)))
}

func (w *Writer) WriteI64(value int64) error {
	return w.writeUvarint(zigzag64(value))
}

func (w *Writer) WriteDouble(value float64) error {
	binary.LittleEndian.PutUint64(w.buf[:8], math.Float64bits(value))
	_, err := w.w.Write(w.buf[:8])
	return err
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
	return w.writeUvarint(uint64(size))
}

func (w *Writer) writeUvarint(value uint64) error {
	n := binary.PutUvarint(w.buf[:], value)
	_, err := w.w.Write(w.buf[:n])
	return err
}
