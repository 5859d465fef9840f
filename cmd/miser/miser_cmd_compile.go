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
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/7sharp9/miser/encoding/schemajson"
	"github.com/7sharp9/miser/encoding/schematext"
)

type cmdCompile struct {
	outPath string
	format  string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile [flags] SCHEMA",
		summary: "Compile a schema and print its descriptors",
		args:    1,
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "Write to this file instead of stdout")
	flags.StringVarP(&cmd.format, "format", "f", "", "Output format: text, json, or procedures (default from the output extension, else text)")
}

func (cmd *cmdCompile) outputFormat() (string, error) {
	format := cmd.format
	if format == "" {
		switch filepath.Ext(cmd.outPath) {
		case ".json":
			format = "json"
		default:
			format = "text"
		}
	}
	switch format {
	case "text", "json", "procedures":
		return format, nil
	}
	return "", fmt.Errorf("Unsupported output format %q (choose 'text', 'json', or 'procedures')", format)
}

func (cmd *cmdCompile) run(ctx context.Context, env *runEnv, argv []string) int {
	format, err := cmd.outputFormat()
	if err != nil {
		logrus.Error(err)
		return 1
	}

	result, ok := env.load(argv[0])
	if !ok {
		return 1
	}

	var output []byte
	switch format {
	case "text":
		output = []byte(schematext.Encode(result.Table))
	case "json":
		output, err = schemajson.Encode(result)
		if err != nil {
			logrus.Error(err)
			return 1
		}
		output = append(output, '\n')
	case "procedures":
		output = []byte(result.Set.String())
	}

	if cmd.outPath == "" {
		if _, err := env.stdout.Write(output); err != nil {
			logrus.Error(err)
			return 1
		}
		return 0
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(cmd.outPath, openFlags, 0o666)
	if err != nil {
		logrus.Error(err)
		return 1
	}
	_, writeErr := fp.Write(output)
	closeErr := fp.Close()
	if writeErr != nil {
		logrus.Error(writeErr)
		return 1
	}
	if closeErr != nil {
		logrus.Error(closeErr)
		return 1
	}
	logrus.WithField("path", cmd.outPath).Info("wrote output")
	return 0
}
