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
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/protocol"
)

// Procedure encodes and decodes values of one struct, union, or exception.
type Procedure struct {
	set     *Set
	typ     *compiler.Type
	index   int
	fields  []*fieldCodec
	fieldAt map[int16]*fieldCodec
}

type fieldCodec struct {
	field *compiler.Field
	value valueCodec
}

func (p *Procedure) Name() string {
	return p.typ.Name
}

// Index is the arena slot of the procedure's type in the symbol table.
func (p *Procedure) Index() int {
	return p.index
}

func (p *Procedure) Kind() compiler.Kind {
	return p.typ.Kind
}

func (p *Procedure) Type() *compiler.Type {
	return p.typ
}

// Encode writes v as a struct. Fields are written in declaration order.
// The caller flushes w.
func (p *Procedure) Encode(w protocol.Writer, v *Struct) error {
	return p.encode(w, v, p.set.maxDepth)
}

// Decode reads one struct. Unknown field ids and fields whose wire type
// differs from the schema are skipped.
func (p *Procedure) Decode(r protocol.Reader) (*Struct, error) {
	return p.decode(r, p.set.maxDepth)
}

// Marshal encodes v with a fresh writer of the given codec.
func (p *Procedure) Marshal(codec protocol.Codec, v *Struct) ([]byte, error) {
	var buf bytes.Buffer
	w := codec.NewWriter(&buf)
	if err := p.Encode(w, v); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Procedure) Unmarshal(codec protocol.Codec, data []byte) (*Struct, error) {
	return p.Decode(codec.NewReader(bytes.NewReader(data)))
}

func (p *Procedure) encode(w protocol.Writer, v *Struct, depth int) error {
	if v == nil {
		return &InvalidValueError{Type: p.typ.Name, Want: p.typ.Name, Got: v}
	}
	if depth <= 0 {
		return protocol.NewError(protocol.DepthLimit, "encoding %s", p.typ.Name)
	}
	if v.Type != "" && v.Type != p.typ.Name {
		return &InvalidValueError{Type: p.typ.Name, Want: p.typ.Name, Got: v}
	}
	if p.typ.Kind == compiler.KindUnion {
		if count := v.Count(); count > 1 {
			return &UnionFieldCountError{Type: p.typ.Name, Count: count}
		}
	}

	if err := w.WriteStructBegin(p.typ.Name); err != nil {
		return err
	}
	for _, fc := range p.fields {
		field := fc.field
		value, ok := v.Get(field.ID)
		if !ok {
			if field.Requiredness == compiler.Required {
				return p.missing(field)
			}
			continue
		}
		if err := w.WriteFieldBegin(field.Name, fc.value.wireType(), field.ID); err != nil {
			return err
		}
		if err := fc.value.encode(w, value, depth); err != nil {
			return p.fieldError(field, err)
		}
		if err := w.WriteFieldEnd(); err != nil {
			return err
		}
	}
	if err := w.WriteFieldStop(); err != nil {
		return err
	}
	return w.WriteStructEnd()
}

func (p *Procedure) decode(r protocol.Reader, depth int) (*Struct, error) {
	if depth <= 0 {
		return nil, protocol.NewError(protocol.DepthLimit, "decoding %s", p.typ.Name)
	}
	if _, err := r.ReadStructBegin(); err != nil {
		return nil, err
	}
	v := NewStruct(p.typ.Name)
	for {
		_, typeID, id, err := r.ReadFieldBegin()
		if err != nil {
			return nil, err
		}
		if typeID == protocol.STOP {
			break
		}
		fc := p.fieldAt[id]
		if fc == nil || fc.value.wireType() != typeID {
			if err := protocol.SkipDepth(r, typeID, depth); err != nil {
				return nil, err
			}
		} else {
			value, err := fc.value.decode(r, depth)
			if err != nil {
				return nil, p.fieldError(fc.field, err)
			}
			v.Fields[id] = value
		}
		if err := r.ReadFieldEnd(); err != nil {
			return nil, err
		}
	}
	if err := r.ReadStructEnd(); err != nil {
		return nil, err
	}

	for _, fc := range p.fields {
		if fc.field.Requiredness != compiler.Required {
			continue
		}
		if _, ok := v.Fields[fc.field.ID]; !ok {
			return nil, p.missing(fc.field)
		}
	}
	if p.typ.Kind == compiler.KindUnion && len(v.Fields) > 1 {
		return nil, &UnionFieldCountError{Type: p.typ.Name, Count: len(v.Fields)}
	}
	return v, nil
}

func (p *Procedure) missing(field *compiler.Field) error {
	return &MissingRequiredFieldError{
		Type:  p.typ.Name,
		Field: field.Name,
		ID:    field.ID,
	}
}

func (p *Procedure) fieldError(field *compiler.Field, err error) error {
	var invalid *InvalidValueError
	if errors.As(err, &invalid) && invalid.Field == "" {
		invalid.Type = p.typ.Name
		invalid.Field = field.Name
	}
	return err
}

// String returns the listing of both directions of the procedure.
func (p *Procedure) String() string {
	var buf strings.Builder
	p.writeListing(&buf)
	return buf.String()
}

func (p *Procedure) writeListing(buf *strings.Builder) {
	isUnion := p.typ.Kind == compiler.KindUnion
	fmt.Fprintf(buf, "%s %s {\n", p.typ.Kind, p.typ.Name)

	buf.WriteString("\tencode {\n")
	if isUnion {
		buf.WriteString("\t\tcheck at-most-one\n")
	}
	fmt.Fprintf(buf, "\t\tstruct-begin %q\n", p.typ.Name)
	for _, fc := range p.fields {
		field := fc.field
		fmt.Fprintf(buf, "\t\tfield %d %q %s %s { ", field.ID, field.Name, fc.value.wireType(), field.Requiredness)
		fc.value.describe(buf, "write")
		buf.WriteString(" }\n")
	}
	buf.WriteString("\t\tfield-stop\n")
	buf.WriteString("\t\tstruct-end\n")
	buf.WriteString("\t}\n")

	buf.WriteString("\tdecode {\n")
	buf.WriteString("\t\tstruct-begin\n")
	buf.WriteString("\t\tuntil STOP {\n")
	for _, fc := range p.fields {
		field := fc.field
		fmt.Fprintf(buf, "\t\t\t%d %s => %s { ", field.ID, fc.value.wireType(), field.Name)
		fc.value.describe(buf, "read")
		buf.WriteString(" }\n")
	}
	buf.WriteString("\t\t\t_ => skip\n")
	buf.WriteString("\t\t}\n")
	buf.WriteString("\t\tstruct-end\n")
	for _, fc := range p.fields {
		if fc.field.Requiredness == compiler.Required {
			fmt.Fprintf(buf, "\t\trequire %d %q\n", fc.field.ID, fc.field.Name)
		}
	}
	if isUnion {
		buf.WriteString("\t\tcheck at-most-one\n")
	}
	buf.WriteString("\t}\n")
	buf.WriteString("}\n")
}
