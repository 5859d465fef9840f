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
	"context"
	"fmt"

	"github.com/spf13/pflag"
)

type cmdCheck struct {
	strict bool
}

func (*cmdCheck) help() *commandHelp {
	return &commandHelp{
		usage:   "check [flags] SCHEMA",
		summary: "Report errors and warnings without writing output",
		args:    1,
	}
}

func (cmd *cmdCheck) flags(flags *pflag.FlagSet) {
	flags.BoolVar(&cmd.strict, "strict", false, "Fail if the schema has warnings")
}

func (cmd *cmdCheck) run(ctx context.Context, env *runEnv, argv []string) int {
	result, ok := env.load(argv[0])
	if !ok {
		return 1
	}
	if cmd.strict && len(result.Warnings) > 0 {
		return 1
	}
	fmt.Fprintf(env.stdout, "%s: %d types, %d warnings\n", result.SourceName, len(result.Types), len(result.Warnings))
	return 0
}
