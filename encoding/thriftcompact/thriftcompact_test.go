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

package thriftcompact_test

import (
	"bytes"
	"testing"

	"github.com/7sharp9/miser/encoding/thriftcompact"
	"github.com/7sharp9/miser/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleStruct = []byte{
	// 1: i32 = 7
	0x15, 0x0E,
	// 2: string = "hi" (delta 1)
	0x18, 0x02, 'h', 'i',
	// 3: bool = true (delta 1)
	0x11,
	// 4: list<i16> = [1, -1] (delta 1)
	0x19, 0x24, 0x02, 0x01,
	// 5: double = 1.5 (delta 1)
	0x17, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF8, 0x3F,
	// 40: i64 = -2
	0x06, 0x50, 0x03,
	0x00,
}

func TestWriter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := thriftcompact.NewWriter(&buf)

	require.NoError(t, w.WriteStructBegin("Sample"))
	require.NoError(t, w.WriteFieldBegin("a", protocol.I32, 1))
	require.NoError(t, w.WriteI32(7))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldBegin("b", protocol.STRING, 2))
	require.NoError(t, w.WriteString("hi"))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldBegin("c", protocol.BOOL, 3))
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldBegin("d", protocol.LIST, 4))
	require.NoError(t, w.WriteListBegin(protocol.I16, 2))
	require.NoError(t, w.WriteI16(1))
	require.NoError(t, w.WriteI16(-1))
	require.NoError(t, w.WriteListEnd())
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldBegin("e", protocol.DOUBLE, 5))
	require.NoError(t, w.WriteDouble(1.5))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldBegin("f", protocol.I64, 40))
	require.NoError(t, w.WriteI64(-2))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldStop())
	require.NoError(t, w.WriteStructEnd())
	require.NoError(t, w.Flush())

	assert.Equal(t, sampleStruct, buf.Bytes())
}

func TestReader(t *testing.T) {
	t.Parallel()
	r := thriftcompact.NewReader(bytes.NewReader(sampleStruct))

	_, err := r.ReadStructBegin()
	require.NoError(t, err)

	_, typeID, id, err := r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.I32, typeID)
	assert.Equal(t, int16(1), id)
	i32, err := r.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(7), i32)

	_, typeID, id, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.STRING, typeID)
	assert.Equal(t, int16(2), id)
	str, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hi", str)

	_, typeID, id, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.BOOL, typeID)
	assert.Equal(t, int16(3), id)
	flag, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, flag)

	_, typeID, _, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.LIST, typeID)
	elemType, size, err := r.ReadListBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.I16, elemType)
	assert.Equal(t, 2, size)
	var items []int16
	for range size {
		item, err := r.ReadI16()
		require.NoError(t, err)
		items = append(items, item)
	}
	assert.Equal(t, []int16{1, -1}, items)

	_, typeID, _, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.DOUBLE, typeID)
	f64, err := r.ReadDouble()
	require.NoError(t, err)
	assert.Equal(t, 1.5, f64)

	_, typeID, id, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.I64, typeID)
	assert.Equal(t, int16(40), id)
	i64, err := r.ReadI64()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), i64)

	_, typeID, _, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.STOP, typeID)
}

func TestNestedFieldIDs(t *testing.T) {
	t.Parallel()
	want := []byte{
		// 1: struct {1: i32 = 1}
		0x1C, 0x15, 0x02, 0x00,
		// 2: i32 = 3, delta from the outer field
		0x15, 0x06,
		0x00,
	}

	var buf bytes.Buffer
	w := thriftcompact.NewWriter(&buf)
	require.NoError(t, w.WriteStructBegin("Outer"))
	require.NoError(t, w.WriteFieldBegin("inner", protocol.STRUCT, 1))
	require.NoError(t, w.WriteStructBegin("Inner"))
	require.NoError(t, w.WriteFieldBegin("x", protocol.I32, 1))
	require.NoError(t, w.WriteI32(1))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldStop())
	require.NoError(t, w.WriteStructEnd())
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldBegin("y", protocol.I32, 2))
	require.NoError(t, w.WriteI32(3))
	require.NoError(t, w.WriteFieldEnd())
	require.NoError(t, w.WriteFieldStop())
	require.NoError(t, w.WriteStructEnd())
	require.NoError(t, w.Flush())
	assert.Equal(t, want, buf.Bytes())

	r := thriftcompact.NewReader(bytes.NewReader(want))
	_, err := r.ReadStructBegin()
	require.NoError(t, err)
	_, typeID, id, err := r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.STRUCT, typeID)
	assert.Equal(t, int16(1), id)
	require.NoError(t, protocol.Skip(r, protocol.STRUCT))
	_, typeID, id, err = r.ReadFieldBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.I32, typeID)
	assert.Equal(t, int16(2), id)
}

func TestContainers(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := thriftcompact.NewWriter(&buf)

	require.NoError(t, w.WriteMapBegin(protocol.STRING, protocol.I32, 1))
	require.NoError(t, w.WriteString("a"))
	require.NoError(t, w.WriteI32(1))
	require.NoError(t, w.WriteMapEnd())
	require.NoError(t, w.WriteMapBegin(protocol.STRING, protocol.I32, 0))
	require.NoError(t, w.WriteMapEnd())
	require.NoError(t, w.WriteListBegin(protocol.BYTE, 20))
	for ii := range 20 {
		require.NoError(t, w.WriteI8(int8(ii)))
	}
	require.NoError(t, w.WriteListEnd())
	require.NoError(t, w.WriteSetBegin(protocol.BOOL, 2))
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteBool(false))
	require.NoError(t, w.WriteSetEnd())
	require.NoError(t, w.Flush())

	want := []byte{0x01, 0x85, 0x01, 'a', 0x02, 0x00, 0xF3, 0x14}
	for ii := range 20 {
		want = append(want, byte(ii))
	}
	want = append(want, 0x21, 0x01, 0x02)
	assert.Equal(t, want, buf.Bytes())

	r := thriftcompact.NewReader(bytes.NewReader(want))
	keyType, valueType, size, err := r.ReadMapBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.STRING, keyType)
	assert.Equal(t, protocol.I32, valueType)
	assert.Equal(t, 1, size)
	require.NoError(t, protocol.Skip(r, protocol.STRING))
	require.NoError(t, protocol.Skip(r, protocol.I32))
	_, _, size, err = r.ReadMapBegin()
	require.NoError(t, err)
	assert.Equal(t, 0, size)
	require.NoError(t, protocol.Skip(r, protocol.LIST))
	elemType, size, err := r.ReadSetBegin()
	require.NoError(t, err)
	assert.Equal(t, protocol.BOOL, elemType)
	assert.Equal(t, 2, size)
	first, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, first)
	second, err := r.ReadBool()
	require.NoError(t, err)
	assert.False(t, second)
}

func TestReaderErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		buf  []byte
		read func(r *thriftcompact.Reader) error
		kind protocol.ErrorKind
	}{
		{
			name: "truncated varint",
			buf:  []byte{0x80},
			read: func(r *thriftcompact.Reader) error {
				_, err := r.ReadI32()
				return err
			},
			kind: protocol.ShortRead,
		},
		{
			name: "unknown field type",
			buf:  []byte{0x1D},
			read: func(r *thriftcompact.Reader) error {
				_, _, _, err := r.ReadFieldBegin()
				return err
			},
			kind: protocol.InvalidData,
		},
		{
			name: "oversized binary",
			buf:  []byte{0x80, 0x80, 0x80, 0x10},
			read: func(r *thriftcompact.Reader) error {
				_, err := r.ReadBinary()
				return err
			},
			kind: protocol.SizeLimit,
		},
		{
			name: "i16 overflow",
			buf:  []byte{0x80, 0x80, 0x04},
			read: func(r *thriftcompact.Reader) error {
				_, err := r.ReadI16()
				return err
			},
			kind: protocol.InvalidData,
		},
		{
			name: "short double",
			buf:  []byte{0x00, 0x00, 0x00},
			read: func(r *thriftcompact.Reader) error {
				_, err := r.ReadDouble()
				return err
			},
			kind: protocol.ShortRead,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			err := test.read(thriftcompact.NewReader(bytes.NewReader(test.buf)))
			require.Error(t, err)
			if !protocol.IsKind(err, test.kind) {
				t.Fatalf("expected %s error, got %v", test.kind, err)
			}
		})
	}
}
