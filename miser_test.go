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

package miser_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/7sharp9/miser"
	"github.com/7sharp9/miser/codegen"
	"github.com/7sharp9/miser/compiler"
	"github.com/7sharp9/miser/config"
	"github.com/7sharp9/miser/encoding/thriftcompact"
	"github.com/7sharp9/miser/internal/testutil"
)

const accountsSrc = `
namespace * demo.accounts

include "shared.thrift"

enum Status { ACTIVE, SUSPENDED = 4, CLOSED }

struct Account {
  1: required i64 id
  2: required string owner
  3: optional Status status = Status.ACTIVE
  4: map<string, Status> history
}

service Accounts {
  Account lookup(1: i64 id)
}

union Credential {
  1: string password
  2: binary key
}
`

func TestCompile(t *testing.T) {
	t.Parallel()
	result, err := miser.Compile([]byte(accountsSrc))
	require.NoError(t, err)

	require.Equal(t, "demo.accounts", result.Namespace)
	require.Equal(t, []string{"shared.thrift"}, result.Includes)

	var names []string
	for _, typ := range result.Types {
		names = append(names, typ.Name)
	}
	require.Equal(t, []string{"Status", "Account", "Credential"}, names)

	status, ok := result.Type("Status")
	require.True(t, ok)
	require.Equal(t, compiler.KindEnum, status.Kind)
	require.Nil(t, status.Procedure)
	require.Len(t, status.Members, 3)
	require.Equal(t, int32(5), status.Members[2].Value)

	account, ok := result.Type("Account")
	require.True(t, ok)
	require.Equal(t, compiler.KindStruct, account.Kind)
	require.Len(t, account.Fields, 4)
	require.NotNil(t, account.Procedure)

	var codes []uint32
	for _, warning := range result.Warnings {
		codes = append(codes, warning.Code())
	}
	require.Contains(t, codes, uint32(4000), "service skipped")
	require.Contains(t, codes, uint32(4004), "include not resolved")
}

func TestCompileRoundTrip(t *testing.T) {
	t.Parallel()
	result, err := miser.Compile([]byte(accountsSrc))
	require.NoError(t, err)
	account, _ := result.Type("Account")

	value := account.Procedure.New().
		Set(1, int64(42)).
		Set(2, "ada").
		Set(4, []codegen.MapEntry{
			{Key: "2024", Value: codegen.Enum{Type: "Status", Name: "SUSPENDED", Value: 4}},
		})
	data, err := account.Procedure.Marshal(thriftcompact.Codec, value)
	require.NoError(t, err)

	got, err := account.Procedure.Unmarshal(thriftcompact.Codec, data)
	require.NoError(t, err)
	require.Equal(t, value, got)
	status, _ := got.Get(3)
	require.Equal(t, "ACTIVE", status.(codegen.Enum).Name)
}

func TestNamespaceFallback(t *testing.T) {
	t.Parallel()
	result, err := miser.Compile(
		[]byte("struct User { 1: string name }"),
		miser.WithSourceName("/srv/idl/user_service.thrift"),
	)
	require.NoError(t, err)
	require.Equal(t, "user_service", result.Namespace)

	result, err = miser.Compile([]byte("struct User { 1: string name }"))
	require.NoError(t, err)
	require.Equal(t, "", result.Namespace)
}

func TestNamespaceTarget(t *testing.T) {
	t.Parallel()
	src := []byte(`
namespace * common
namespace go example.users
struct User { 1: string name }
`)
	result, err := miser.Compile(src, miser.WithSourceName("users.thrift"))
	require.NoError(t, err)
	require.Equal(t, "common", result.Namespace)

	cfg := config.Default()
	cfg.Target = "go"
	result, err = miser.Compile(src, miser.WithConfig(cfg), miser.WithSourceName("users.thrift"))
	require.NoError(t, err)
	require.Equal(t, "example.users", result.Namespace)
	require.Equal(t, "go", result.Config.Target)
}

func TestParseFailureLocality(t *testing.T) {
	t.Parallel()
	_, err := miser.Compile([]byte("struct Foo { 1: i32 x }}"))
	testutil.ExpectSyntaxError(t, err, 2023, 23, 1)
}

func TestCompileFailure(t *testing.T) {
	t.Parallel()
	_, err := miser.Compile([]byte(`
struct A { 1: Missing m }
enum E { X = 1, Y = 1 }
`))
	var compileErr *miser.CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Len(t, compileErr.Errors, 2)

	var codes []uint32
	for _, e := range compileErr.Errors {
		codes = append(codes, e.Code())
	}
	require.ElementsMatch(t, []uint32{3002, 3010}, codes)

	var coded *compiler.Error
	require.ErrorAs(t, err, &coded)
	require.Contains(t, err.Error(), "2 errors occurred")
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.EnumPolicy = "drop"
	_, err := miser.Compile([]byte("struct A {}"), miser.WithConfig(cfg))
	require.Error(t, err)
}

func TestEnumPolicyFromConfig(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.EnumPolicy = "reject"
	result, err := miser.Compile([]byte(accountsSrc), miser.WithConfig(cfg))
	require.NoError(t, err)
	require.Equal(t, codegen.EnumReject, result.Set.EnumPolicy())
}

func TestConcurrentCompile(t *testing.T) {
	t.Parallel()
	var wg sync.WaitGroup
	results := make([]*miser.Result, 8)
	errs := make([]error, len(results))
	for ii := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[ii], errs[ii] = miser.Compile([]byte(accountsSrc))
		}()
	}
	wg.Wait()

	for ii, result := range results {
		require.NoError(t, errs[ii])
		require.Len(t, result.Types, 3)
		if ii > 0 {
			require.NotSame(t, results[0].Table, result.Table)
		}
	}
}
