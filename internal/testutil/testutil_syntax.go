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

package testutil

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/7sharp9/miser/syntax"
)

// ExpectSyntaxError checks that err is a *syntax.Error with the given code
// and span.
func ExpectSyntaxError(t testing.TB, err error, code, start, length uint32) {
	t.Helper()
	var syntaxErr *syntax.Error
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("want *syntax.Error E%04d, got: %#v", code, err)
	}
	span := syntaxErr.Span()
	if syntaxErr.Code() != code || span.Start() != start || span.Len() != length {
		t.Errorf(
			"want E%04d at [%d+%d], got E%04d at [%d+%d]: %v",
			code, start, length,
			syntaxErr.Code(), span.Start(), span.Len(), syntaxErr,
		)
	}
}

// DumpTree renders the non-trivia structure of a parsed node as an
// indented outline, one node per line.
func DumpTree(node syntax.Node) string {
	var buf strings.Builder
	dumpTree(&buf, node, 0)
	return buf.String()
}

func dumpTree(buf *strings.Builder, node syntax.Node, indent int) {
	switch node.(type) {
	case *syntax.Space, *syntax.Newline, *syntax.Comment, *syntax.Sigil:
		return
	}
	span := node.Span()
	name := strings.TrimPrefix(fmt.Sprintf("%T", node), "*syntax.")
	buf.WriteString(strings.Repeat("  ", indent))
	fmt.Fprintf(buf, "%s [%d+%d]", name, span.Start(), span.Len())
	switch node := node.(type) {
	case *syntax.Ident:
		fmt.Fprintf(buf, " %s", node.Get())
	case *syntax.Keyword:
		fmt.Fprintf(buf, " %s", node.Get())
	case *syntax.IntLit:
		fmt.Fprintf(buf, " %d", node.Get())
	case *syntax.DoubleLit:
		fmt.Fprintf(buf, " %g", node.Get())
	case *syntax.TextLit:
		fmt.Fprintf(buf, " %q", node.Get())
	case *syntax.Field:
		fmt.Fprintf(buf, " (%s)", node.Requiredness())
	}
	buf.WriteByte('\n')
	for child := range node.ChildNodes() {
		dumpTree(buf, child, indent+1)
	}
}
