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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runMiser(args ...string) (int, string) {
	var stdout bytes.Buffer
	code := execute(context.Background(), args, &stdout)
	return code, stdout.String()
}

func TestCompileText(t *testing.T) {
	path := writeSchema(t, "point.thrift", "struct Point { 1: required i32 x }")

	code, out := runMiser("compile", "--format=text", path)
	require.Equal(t, 0, code)
	require.Equal(t, "struct Point {\n\t1: required i32 x\n}\n", out)
}

func TestCompileProcedures(t *testing.T) {
	path := writeSchema(t, "point.thrift", "struct Point { 1: required i32 x }")

	code, out := runMiser("compile", "-f", "procedures", path)
	require.Equal(t, 0, code)
	require.True(t, strings.HasPrefix(out, "struct Point {\n\tencode {\n"), out)
	require.Contains(t, out, "\t\trequire 1 \"x\"\n")
}

func TestCompileJSONWithConfig(t *testing.T) {
	path := writeSchema(t, "users.thrift", `
namespace * common
namespace go example.users
struct User { 1: string name }
`)
	cfgPath := writeSchema(t, "miser.yaml", "target: go\n")

	code, out := runMiser("compile", "--config", cfgPath, "--format=json", path)
	require.Equal(t, 0, code)
	require.Contains(t, out, `"namespace": "example.users"`)

	code, out = runMiser("compile", "--config", cfgPath, "--target=java", "--format=json", path)
	require.Equal(t, 0, code)
	require.Contains(t, out, `"namespace": "common"`)
}

func TestCompileToFile(t *testing.T) {
	path := writeSchema(t, "point.thrift", "struct Point { 1: required i32 x }")
	outPath := filepath.Join(t.TempDir(), "point.json")

	code, out := runMiser("compile", "-o", outPath, path)
	require.Equal(t, 0, code)
	require.Empty(t, out)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(written), `"name": "Point"`)
}

func TestCompileFailures(t *testing.T) {
	bad := writeSchema(t, "bad.thrift", "struct Foo { 1: Missing x }")
	good := writeSchema(t, "good.thrift", "struct Foo {}")

	tests := []struct {
		name string
		args []string
	}{
		{"compile error", []string{"compile", bad}},
		{"missing file", []string{"compile", filepath.Join(t.TempDir(), "nope")}},
		{"unknown format", []string{"compile", "--format=xml", good}},
		{"invalid enum policy", []string{"compile", "--enum-policy=drop", good}},
		{"invalid log level", []string{"compile", "--log-level=loud", good}},
		{"missing argument", []string{"compile"}},
		{"no command", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, _ := runMiser(test.args...)
			require.Equal(t, 1, code)
		})
	}
}

func TestCheck(t *testing.T) {
	path := writeSchema(t, "ids.thrift", "struct A { 0: i32 x }")

	code, out := runMiser("check", path)
	require.Equal(t, 0, code)
	require.Equal(t, path+": 1 types, 1 warnings\n", out)

	code, _ = runMiser("check", "--strict", path)
	require.Equal(t, 1, code)
}

func TestCodegenRequiresPlugin(t *testing.T) {
	t.Setenv("MISER_CODEGEN_PLUGIN_PATH", "")
	path := writeSchema(t, "point.thrift", "struct Point { 1: required i32 x }")

	code, _ := runMiser("codegen", path)
	require.Equal(t, 1, code, "no output directory")

	code, _ = runMiser("codegen", "-o", t.TempDir(), path)
	require.Equal(t, 1, code, "no plugin path")

	code, _ = runMiser("codegen", "-o", t.TempDir(), "--plugin-path", t.TempDir(), path)
	require.Equal(t, 1, code, "plugin not found")
}

func TestPluginOutPath(t *testing.T) {
	t.Parallel()
	outDir := filepath.Join("out", "gen")

	file := &pluginFile{Path: []string{"users", "users.go"}}
	got, err := file.outPath(outDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "users", "users.go"), got)

	for _, parts := range [][]string{
		nil,
		{""},
		{".."},
		{"a", "."},
		{"/etc", "passwd"},
		{"a/b"},
		{`a\b`},
	} {
		file := &pluginFile{Path: parts}
		_, err := file.outPath(outDir)
		require.Error(t, err, "%#v", parts)
	}
}

func TestDecodeResponse(t *testing.T) {
	t.Parallel()
	response, err := decodeResponse([]byte(`{"files": [{"path": ["a.go"], "content": "package a\n"}]}`))
	require.NoError(t, err)
	require.Equal(t, []pluginFile{{Path: []string{"a.go"}, Content: "package a\n"}}, response.Files)
	require.Empty(t, response.Error)

	_, err = decodeResponse([]byte("not json"))
	require.ErrorContains(t, err, "decoding plugin response")
}
