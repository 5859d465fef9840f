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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/7sharp9/miser"
	"github.com/7sharp9/miser/config"
	"github.com/7sharp9/miser/loader"
	"github.com/7sharp9/miser/syntax"
)

type command interface {
	help() *commandHelp
	flags(flags *pflag.FlagSet)
	run(ctx context.Context, env *runEnv, argv []string) int
}

type commandHelp struct {
	usage   string
	summary string
	args    int
}

// runEnv is shared by every command of one invocation.
type runEnv struct {
	cfg    *config.Config
	loader *loader.Loader
	stdout io.Writer
}

type globalFlags struct {
	logLevel   string
	configPath string
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout))
}

func execute(ctx context.Context, args []string, stdout io.Writer) int {
	var globals globalFlags
	exitCode := 0

	miserCmd := &cobra.Command{
		Use:           "miser [options] COMMAND",
		Short:         "Compile Thrift IDL schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	miserCmd.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(os.Stderr, miserCmd.UsageString())
		exitCode = 1
		return nil
	}

	persistent := miserCmd.PersistentFlags()
	persistent.StringVar(&globals.logLevel, "log-level", "warn", "Log messages at or above this level (debug, info, warn, error)")
	persistent.StringVar(&globals.configPath, "config", "", "YAML file with compile settings")
	config.AddFlags(persistent)
	miserCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(globals.logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	}

	commands := []command{
		&cmdCompile{},
		&cmdCheck{},
		&cmdCodegen{},
	}
	for _, cmd := range commands {
		help := cmd.help()
		cobraCmd := &cobra.Command{
			Use:   help.usage,
			Short: help.summary,
			Args:  cobra.ExactArgs(help.args),
			RunE: func(c *cobra.Command, args []string) error {
				env, err := globals.environment(c.Flags(), stdout)
				if err != nil {
					return err
				}
				exitCode = cmd.run(ctx, env, args)
				return nil
			},
		}
		miserCmd.AddCommand(cobraCmd)
		cmd.flags(cobraCmd.Flags())
	}

	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	miserCmd.SetArgs(args)
	if err := miserCmd.ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		return 1
	}
	return exitCode
}

func (g *globalFlags) environment(flags *pflag.FlagSet, stdout io.Writer) (*runEnv, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logrus.WithField("path", g.configPath).Debug("loaded config")
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}
	l, err := loader.New(cfg)
	if err != nil {
		return nil, err
	}
	return &runEnv{
		cfg:    cfg,
		loader: l,
		stdout: stdout,
	}, nil
}

// load compiles the schema at path and logs its warnings. Failures are
// logged and reported as false.
func (env *runEnv) load(path string) (*miser.Result, bool) {
	result, err := env.loader.Load(path)
	if err != nil {
		reportError(err)
		return nil, false
	}
	for _, warning := range result.Warnings {
		span := warning.Span()
		line, column := syntax.Position(result.Source, span.Start())
		logrus.Warnf("%s:%d:%d: %s", result.SourceName, line, column, warning)
	}
	return result, true
}

func reportError(err error) {
	var sourceErr *loader.SourceError
	var compileErr *miser.CompileError
	if errors.As(err, &sourceErr) && errors.As(err, &compileErr) {
		for _, e := range compileErr.Errors {
			span := e.Span()
			line, column := syntax.Position(sourceErr.Source, span.Start())
			logrus.Errorf("%s:%d:%d: %s", sourceErr.Path, line, column, e)
		}
		return
	}
	logrus.Error(err)
}
