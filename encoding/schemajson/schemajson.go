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

// Package schemajson exports compiled documents as JSON.
//
// The export is the input format of code generator plugins. It carries the
// descriptors, the effective namespace, and the host settings the document
// was compiled with.
package schemajson

import (
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/7sharp9/miser"
	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/config"
)

type Document struct {
	Source     string            `json:"source,omitempty"`
	Namespace  string            `json:"namespace"`
	Namespaces map[string]string `json:"namespaces,omitempty"`
	Includes   []string          `json:"includes,omitempty"`
	Config     config.Config     `json:"config"`
	Types      []Type            `json:"types"`
	Typedefs   []Typedef         `json:"typedefs,omitempty"`
	Consts     []Const           `json:"consts,omitempty"`
}

type Type struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Fields  []Field  `json:"fields,omitempty"`
	Members []Member `json:"members,omitempty"`
}

type Field struct {
	ID           int16    `json:"id"`
	Name         string   `json:"name"`
	Requiredness string   `json:"requiredness"`
	Type         *TypeRef `json:"type"`
	Default      any      `json:"default,omitempty"`
}

type Member struct {
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

// TypeRef mirrors compiler.TypeRef. Name is set for named kinds, Elem for
// lists and sets, Key and Value for maps.
type TypeRef struct {
	Kind  string   `json:"kind"`
	Name  string   `json:"name,omitempty"`
	Elem  *TypeRef `json:"elem,omitempty"`
	Key   *TypeRef `json:"key,omitempty"`
	Value *TypeRef `json:"value,omitempty"`
}

type Typedef struct {
	Name string   `json:"name"`
	Type *TypeRef `json:"type"`
}

type Const struct {
	Name  string   `json:"name"`
	Type  *TypeRef `json:"type"`
	Value any      `json:"value"`
}

// EnumValue is the export of an enum constant.
type EnumValue struct {
	Enum  string `json:"enum"`
	Name  string `json:"name"`
	Value int32  `json:"value"`
}

type MapEntry struct {
	Key   any `json:"key"`
	Value any `json:"value"`
}

// StructValue is the export of a struct constant. Field ids are object
// keys in decimal.
type StructValue struct {
	Struct string         `json:"struct"`
	Fields map[string]any `json:"fields"`
}

func FromResult(result *miser.Result) *Document {
	doc := &Document{
		Source:     result.SourceName,
		Namespace:  result.Namespace,
		Namespaces: result.Table.Namespaces(),
		Includes:   result.Includes,
		Config:     result.Config,
		Types:      []Type{},
	}
	for _, typ := range result.Types {
		out := Type{
			Name: typ.Name,
			Kind: typ.Kind.String(),
		}
		for _, field := range typ.Fields {
			out.Fields = append(out.Fields, Field{
				ID:           field.ID,
				Name:         field.Name,
				Requiredness: field.Requiredness.String(),
				Type:         typeRef(field.Type),
				Default:      value(field.Default),
			})
		}
		for _, member := range typ.Members {
			out.Members = append(out.Members, Member{Name: member.Name, Value: member.Value})
		}
		doc.Types = append(doc.Types, out)
	}
	for _, typedef := range result.Table.Typedefs() {
		doc.Typedefs = append(doc.Typedefs, Typedef{Name: typedef.Name, Type: typeRef(typedef.Type)})
	}
	for _, c := range result.Table.Consts() {
		doc.Consts = append(doc.Consts, Const{Name: c.Name, Type: typeRef(c.Type), Value: value(c.Value)})
	}
	return doc
}

// Encode returns the indented JSON export of result.
func Encode(result *miser.Result) ([]byte, error) {
	return json.MarshalIndent(FromResult(result), "", "  ")
}

// Decode parses an export. Values decode as generic JSON values.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func typeRef(ref *compiler.TypeRef) *TypeRef {
	if ref == nil {
		return nil
	}
	out := &TypeRef{Kind: ref.Kind.String()}
	switch {
	case ref.Kind.IsNamed():
		out.Name = ref.Name
	case ref.Kind == compiler.KindMap:
		out.Key = typeRef(ref.Key)
		out.Value = typeRef(ref.Value)
	case ref.Kind.IsContainer():
		out.Elem = typeRef(ref.Elem)
	}
	return out
}

func value(v any) any {
	switch v := v.(type) {
	case compiler.EnumConst:
		return EnumValue{Enum: v.Type, Name: v.Name, Value: v.Value}
	case []any:
		items := make([]any, len(v))
		for ii, item := range v {
			items[ii] = value(item)
		}
		return items
	case []compiler.ConstEntry:
		entries := make([]MapEntry, len(v))
		for ii, entry := range v {
			entries[ii] = MapEntry{Key: value(entry.Key), Value: value(entry.Value)}
		}
		return entries
	case *compiler.StructConst:
		fields := make(map[string]any, len(v.Fields))
		for id, field := range v.Fields {
			fields[strconv.Itoa(int(id))] = value(field)
		}
		return StructValue{Struct: v.Type, Fields: fields}
	}
	return v
}
