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

// Package schematext renders a compiled symbol table as indented text.
package schematext

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/7sharp9/miser/compiler"
)

func Encode(table *compiler.SymbolTable) string {
	var buf strings.Builder
	EncodeTo(table, &buf)
	return buf.String()
}

func EncodeTo(table *compiler.SymbolTable, w io.Writer) error {
	e := encoder{w: w}
	e.visitTable(table)
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) visitTable(table *compiler.SymbolTable) {
	namespaces := table.Namespaces()
	for _, scope := range slices.Sorted(maps.Keys(namespaces)) {
		e.linef("namespace %s %s", scope, namespaces[scope])
	}
	for _, path := range table.Includes() {
		e.linef("include %s", quote(path))
	}
	for _, t := range table.Types() {
		e.visitType(t)
	}
	for _, typedef := range table.Typedefs() {
		e.linef("typedef %s %s", typedef.Type, typedef.Name)
	}
	for _, c := range table.Consts() {
		e.linef("const %s %s = %s", c.Type, c.Name, FormatValue(c.Value))
	}
}

func (e *encoder) visitType(t *compiler.Type) {
	e.linef("%s %s {", t.Kind, t.Name)
	e.indent += 1
	if t.Kind == compiler.KindEnum {
		for _, member := range t.Members {
			e.linef("%s = %d", member.Name, member.Value)
		}
	} else {
		for _, field := range t.Fields {
			e.visitField(field)
		}
	}
	e.indent -= 1
	e.line("}")
}

func (e *encoder) visitField(field *compiler.Field) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d: ", field.ID)
	if field.Requiredness != compiler.Default {
		buf.WriteString(field.Requiredness.String())
		buf.WriteByte(' ')
	}
	fmt.Fprintf(&buf, "%s %s", field.Type, field.Name)
	if field.HasDefault() {
		buf.WriteString(" = ")
		buf.WriteString(FormatValue(field.Default))
	}
	e.line(buf.String())
}

// FormatValue renders a compiled constant in IDL literal syntax.
func FormatValue(value any) string {
	switch value := value.(type) {
	case bool:
		if value {
			return "true"
		}
		return "false"
	case int8:
		return strconv.FormatInt(int64(value), 10)
	case int16:
		return strconv.FormatInt(int64(value), 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		s := strconv.FormatFloat(value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return s
	case string:
		return quote(value)
	case []byte:
		return quote(string(value))
	case compiler.EnumConst:
		return value.Type + "." + value.Name
	case []any:
		items := make([]string, 0, len(value))
		for _, item := range value {
			items = append(items, FormatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case []compiler.ConstEntry:
		entries := make([]string, 0, len(value))
		for _, entry := range value {
			entries = append(entries, FormatValue(entry.Key)+": "+FormatValue(entry.Value))
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case *compiler.StructConst:
		fields := make([]string, 0, len(value.Fields))
		for _, id := range slices.Sorted(maps.Keys(value.Fields)) {
			fields = append(fields, fmt.Sprintf("%d: %s", id, FormatValue(value.Fields[id])))
		}
		return value.Type + "{" + strings.Join(fields, ", ") + "}"
	}
	panic(fmt.Sprintf("FormatValue: unhandled value %v (%T)", value, value))
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		switch {
		case c == '\\' || c == '"':
			buf.WriteByte('\\')
			buf.WriteRune(c)
		case c == '\t':
			buf.WriteString("\\t")
		case c == '\n':
			buf.WriteString("\\n")
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&buf, "\\u%04X", c)
		default:
			buf.WriteRune(c)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
