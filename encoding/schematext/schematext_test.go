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

package schematext_test

import (
	"errors"
	"math"
	"testing"

	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/encoding/schematext"
	"github.com/7sharp9/miser/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{true, "true"},
		{false, "false"},
		{int8(-3), "-3"},
		{int16(300), "300"},
		{int32(70000), "70000"},
		{int64(1) << 40, "1099511627776"},
		{float64(2), "2.0"},
		{1.5, "1.5"},
		{1e21, "1e+21"},
		{math.Inf(1), "+Inf"},
		{"a\"b\\c\td\n", `"a\"b\\c\td\n"`},
		{"\x01", `"\u0001"`},
		{[]byte("raw"), `"raw"`},
		{compiler.EnumConst{Type: "Color", Name: "RED", Value: 1}, "Color.RED"},
		{[]any{int32(1), int32(2)}, "[1, 2]"},
		{[]any{}, "[]"},
		{[]compiler.ConstEntry{{Key: "a", Value: int32(1)}}, `{"a": 1}`},
		{&compiler.StructConst{
			Type:   "Point",
			Fields: map[int16]any{2: int32(4), 1: int32(3)},
		}, "Point{1: 3, 2: 4}"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, schematext.FormatValue(test.value))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestEncodeToWriteError(t *testing.T) {
	doc, err := syntax.Parse([]byte("struct Empty {}\n"))
	require.NoError(t, err)
	result := compiler.Compile(doc)
	require.NoError(t, result.Err())
	err = schematext.EncodeTo(result.Table(), failingWriter{})
	require.Error(t, err)
	assert.Equal(t, "disk full", err.Error())
}
