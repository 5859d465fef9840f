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

package loader_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/7sharp9/miser/config"
	"github.com/7sharp9/miser/loader"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newLoader(t *testing.T, cfg *config.Config) (*loader.Loader, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	l, err := loader.New(cfg, loader.WithLogger(logger))
	require.NoError(t, err)
	return l, hook
}

func messages(hook *logtest.Hook) []string {
	var out []string
	for _, entry := range hook.AllEntries() {
		out = append(out, entry.Message)
	}
	return out
}

func TestLoadSuffixFallback(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "users.thrift"), "struct User { 1: string name }")
	l, hook := newLoader(t, nil)

	result, err := l.Load(filepath.Join(dir, "users"))
	require.NoError(t, err)
	require.Equal(t, "users", result.Namespace)
	require.Equal(t, filepath.Join(dir, "users.thrift"), result.SourceName)
	require.Contains(t, messages(hook), "using "+filepath.Join(dir, "users")+".thrift")

	_, err = l.Load(filepath.Join(dir, "users.thrift"))
	require.NoError(t, err)
}

func TestLoadPrefersLiteralPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "schema"), "struct Literal {}")
	writeFile(t, filepath.Join(dir, "schema.thrift"), "struct Suffixed {}")
	l, _ := newLoader(t, nil)

	result, err := l.Load(filepath.Join(dir, "schema"))
	require.NoError(t, err)
	_, ok := result.Type("Literal")
	require.True(t, ok)
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	l, _ := newLoader(t, nil)
	_, err := l.Load(filepath.Join(t.TempDir(), "nothing"))
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.ErrorContains(t, err, "nothing.thrift")
}

func TestCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.thrift")
	writeFile(t, path, "struct A { 1: i32 x }")
	l, hook := newLoader(t, nil)

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	require.Same(t, first, second)

	hits, misses := l.Stats()
	require.Equal(t, int64(1), hits)
	require.Equal(t, int64(1), misses)
	require.Equal(t, []string{"cache miss", "cache hit"}, messages(hook))

	writeFile(t, path, "struct A { 1: i32 x, 2: i32 y }")
	third, err := l.Load(path)
	require.NoError(t, err)
	require.NotSame(t, first, third)
	typ, _ := third.Type("A")
	require.Len(t, typ.Fields, 2)

	l.Purge()
	_, err = l.Load(path)
	require.NoError(t, err)
	_, misses = l.Stats()
	require.Equal(t, int64(3), misses)
}

func TestCacheEviction(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.CacheSize = 1
	l, _ := newLoader(t, cfg)

	a := filepath.Join(dir, "a.thrift")
	b := filepath.Join(dir, "b.thrift")
	writeFile(t, a, "struct A {}")
	writeFile(t, b, "struct B {}")
	for _, path := range []string{a, b, a} {
		_, err := l.Load(path)
		require.NoError(t, err)
	}
	hits, misses := l.Stats()
	require.Equal(t, int64(0), hits)
	require.Equal(t, int64(3), misses)
}

func TestSourceError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.thrift")
	writeFile(t, path, "struct Foo {\n  1: i32 x\n}}\n")
	l, _ := newLoader(t, nil)

	_, err := l.Load(path)
	var sourceErr *loader.SourceError
	require.ErrorAs(t, err, &sourceErr)
	require.Equal(t, path+":3:2: E2023: ", err.Error()[:len(path)+13])

	writeFile(t, path, "struct Foo {\n  1: Bar x\n  2: Baz y\n}\n")
	_, err = l.Load(path)
	require.ErrorAs(t, err, &sourceErr)
	require.Contains(t, err.Error(), path+":2:")
	require.Contains(t, err.Error(), "(and 1 more)")
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.CacheSize = 0
	_, err := loader.New(cfg)
	require.Error(t, err)
}
