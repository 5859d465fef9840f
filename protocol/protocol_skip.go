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

// MaxSkipDepth is the nesting bound used by Skip.
const MaxSkipDepth = 64

// Skip reads and discards one value of wire type t.
func Skip(r Reader, t TType) error {
	return SkipDepth(r, t, MaxSkipDepth)
}

// SkipDepth is Skip with an explicit nesting bound. Every container or
// struct level entered consumes one unit of depth.
func SkipDepth(r Reader, t TType, depth int) error {
	return skip(r, t, depth)
}

func skip(r Reader, t TType, depth int) error {
	if depth <= 0 {
		return NewError(DepthLimit, "skipping %s", t)
	}
	var err error
	switch t {
	case BOOL:
		_, err = r.ReadBool()
	case BYTE:
		_, err = r.ReadI8()
	case I16:
		_, err = r.ReadI16()
	case I32:
		_, err = r.ReadI32()
	case I64:
		_, err = r.ReadI64()
	case DOUBLE:
		_, err = r.ReadDouble()
	case STRING:
		_, err = r.ReadBinary()
	case STRUCT:
		err = skipStruct(r, depth)
	case MAP:
		err = skipMap(r, depth)
	case SET:
		var elemType TType
		var size int
		if elemType, size, err = r.ReadSetBegin(); err != nil {
			return err
		}
		if err = skipN(r, elemType, size, depth); err != nil {
			return err
		}
		err = r.ReadSetEnd()
	case LIST:
		var elemType TType
		var size int
		if elemType, size, err = r.ReadListBegin(); err != nil {
			return err
		}
		if err = skipN(r, elemType, size, depth); err != nil {
			return err
		}
		err = r.ReadListEnd()
	default:
		return NewError(InvalidData, "cannot skip wire type %s", t)
	}
	return err
}

func skipN(r Reader, t TType, n int, depth int) error {
	for ii := 0; ii < n; ii++ {
		if err := skip(r, t, depth-1); err != nil {
			return err
		}
	}
	return nil
}

func skipStruct(r Reader, depth int) error {
	if _, err := r.ReadStructBegin(); err != nil {
		return err
	}
	for {
		_, typeID, _, err := r.ReadFieldBegin()
		if err != nil {
			return err
		}
		if typeID == STOP {
			break
		}
		if err := skip(r, typeID, depth-1); err != nil {
			return err
		}
		if err := r.ReadFieldEnd(); err != nil {
			return err
		}
	}
	return r.ReadStructEnd()
}

func skipMap(r Reader, depth int) error {
	keyType, valueType, size, err := r.ReadMapBegin()
	if err != nil {
		return err
	}
	for ii := 0; ii < size; ii++ {
		if err := skip(r, keyType, depth-1); err != nil {
			return err
		}
		if err := skip(r, valueType, depth-1); err != nil {
			return err
		}
	}
	return r.ReadMapEnd()
}
