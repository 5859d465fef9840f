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

package syntax_test

import (
	"fmt"
	"testing"

	"github.com/7sharp9/miser/internal/testutil"
	"github.com/7sharp9/miser/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, src string) []string {
	t.Helper()
	tokens, err := syntax.NewTokens([]byte(src))
	require.NoError(t, err)

	var out []string
	offset := 0
	for {
		var token syntax.Token
		require.NoError(t, tokens.Next(&token))
		if token.Kind == syntax.T_EOF {
			return out
		}
		content := src[offset : offset+int(token.Len)]
		out = append(out, fmt.Sprintf("%s %q", token.Kind, content))
		offset += int(token.Len)
	}
}

func TestTokensOK(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "field",
			src:  "1: required i32 x = -5,\n",
			want: []string{
				`INT_LIT "1"`,
				`COLON ":"`,
				`SPACE " "`,
				`IDENT "required"`,
				`SPACE " "`,
				`IDENT "i32"`,
				`SPACE " "`,
				`IDENT "x"`,
				`SPACE " "`,
				`EQ "="`,
				`SPACE " "`,
				`INT_LIT "-5"`,
				`COMMA ","`,
				`NEWLINE "\n"`,
			},
		},
		{
			name: "literals",
			src:  `0x1F 1.5 2e10 'a' "b\n"`,
			want: []string{
				`HEX_INT_LIT "0x1F"`,
				`SPACE " "`,
				`DOUBLE_LIT "1.5"`,
				`SPACE " "`,
				`DOUBLE_LIT "2e10"`,
				`SPACE " "`,
				`TEXT_LIT "'a'"`,
				`SPACE " "`,
				`TEXT_LIT "\"b\\n\""`,
			},
		},
		{
			name: "comments",
			src:  "# hash\n// slash\r\n/* a\nb */x",
			want: []string{
				`COMMENT "# hash"`,
				`NEWLINE "\n"`,
				`COMMENT "// slash"`,
				`NEWLINE "\r\n"`,
				`COMMENT "/* a\nb */"`,
				`IDENT "x"`,
			},
		},
		{
			name: "nested containers",
			src:  "map<string,list<i32>>",
			want: []string{
				`IDENT "map"`,
				`LT "<"`,
				`IDENT "string"`,
				`COMMA ","`,
				`IDENT "list"`,
				`LT "<"`,
				`IDENT "i32"`,
				`GT ">"`,
				`GT ">"`,
			},
		},
		{
			name: "dotted ident",
			src:  "shared.Point",
			want: []string{`IDENT "shared.Point"`},
		},
		{
			name: "namespace star",
			src:  "namespace * demo",
			want: []string{
				`IDENT "namespace"`,
				`SPACE " "`,
				`STAR "*"`,
				`SPACE " "`,
				`IDENT "demo"`,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := tokenize(t, test.src)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestTokensErr(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  uint32
		start uint32
		len   uint32
	}{
		{"unterminated text", `"abc`, 1006, 0, 4},
		{"text newline", "\"a\nb\"", 1007, 2, 1},
		{"unterminated comment", "/* abc", 1009, 0, 6},
		{"double dot ident", "a..b", 1008, 0, 2},
		{"trailing dot ident", "a.", 1008, 0, 2},
		{"number suffix", "12abc", 1005, 0, 5},
		{"unexpected character", "@", 1002, 0, 1},
		{"control character", "\x01", 1003, 0, 1},
		{"lone slash", "/", 1002, 0, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, err := syntax.NewTokens([]byte(test.src))
			require.NoError(t, err)
			var token syntax.Token
			err = tokens.Next(&token)
			testutil.ExpectSyntaxError(t, err, test.code, test.start, test.len)
		})
	}
}

func TestTokensInvalidUtf8(t *testing.T) {
	_, err := syntax.NewTokens([]byte("ab\xffc"))
	testutil.ExpectSyntaxError(t, err, 1001, 2, 1)
}
