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

// Package config holds host settings for a compilation run.
//
// Settings come from defaults, then an optional YAML file, then command
// line flags. Host flags such as GenerateLenses never change wire bytes;
// they are recorded on the compile result for code generator plugins.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/7sharp9/miser/codegen"
)

type Config struct {
	// Namespace scope used when a document declares several.
	Target string `yaml:"target" json:"target"`

	GenerateLenses bool `yaml:"generateLenses" json:"generateLenses"`
	GenerateAsync  bool `yaml:"generateAsync" json:"generateAsync"`
	UseOptions     bool `yaml:"useOptions" json:"useOptions"`

	// "preserve" or "reject".
	EnumPolicy string `yaml:"enumPolicy" json:"enumPolicy"`

	// Number of compiled documents kept by the loader.
	CacheSize int `yaml:"cacheSize" json:"cacheSize"`

	// Struct nesting limit of generated procedures.
	MaxDepth int `yaml:"maxDepth" json:"maxDepth"`
}

func Default() *Config {
	return &Config{
		UseOptions: true,
		EnumPolicy: codegen.EnumPreserve.String(),
		CacheSize:  64,
		MaxDepth:   codegen.DefaultMaxDepth,
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if _, err := codegen.ParseEnumPolicy(c.EnumPolicy); err != nil {
		result = multierror.Append(result, err)
	}
	if c.CacheSize < 1 {
		result = multierror.Append(result, errors.Errorf("cacheSize must be at least 1, got %d", c.CacheSize))
	}
	if c.MaxDepth < 1 {
		result = multierror.Append(result, errors.Errorf("maxDepth must be at least 1, got %d", c.MaxDepth))
	}
	return result.ErrorOrNil()
}

// Policy returns the parsed enum policy. Invalid names fall back to
// preserve; call Validate first.
func (c *Config) Policy() codegen.EnumPolicy {
	policy, err := codegen.ParseEnumPolicy(c.EnumPolicy)
	if err != nil {
		return codegen.EnumPreserve
	}
	return policy
}

func (c *Config) CodegenOptions() []codegen.Option {
	return []codegen.Option{
		codegen.WithEnumPolicy(c.Policy()),
		codegen.WithMaxDepth(c.MaxDepth),
	}
}

const (
	flagTarget         = "target"
	flagGenerateLenses = "generate-lenses"
	flagGenerateAsync  = "generate-async"
	flagUseOptions     = "use-options"
	flagEnumPolicy     = "enum-policy"
	flagCacheSize      = "cache-size"
	flagMaxDepth       = "max-depth"
)

// AddFlags registers one flag per setting. Flag defaults are the package
// defaults; only flags set on the command line override a config file.
func AddFlags(flags *pflag.FlagSet) {
	defaults := Default()
	flags.String(flagTarget, defaults.Target, "Namespace scope to report")
	flags.Bool(flagGenerateLenses, defaults.GenerateLenses, "Ask plugins for immutable-update accessors")
	flags.Bool(flagGenerateAsync, defaults.GenerateAsync, "Ask plugins for asynchronous read/write variants")
	flags.Bool(flagUseOptions, defaults.UseOptions, "Ask plugins to model optional fields as option types")
	flags.String(flagEnumPolicy, defaults.EnumPolicy, "Unknown enum values on decode: preserve or reject")
	flags.Int(flagCacheSize, defaults.CacheSize, "Compiled documents kept in memory")
	flags.Int(flagMaxDepth, defaults.MaxDepth, "Struct nesting limit of generated procedures")
}

// ApplyFlags copies every flag that was set on the command line into c.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(flag *pflag.Flag) {
		if err != nil {
			return
		}
		switch flag.Name {
		case flagTarget:
			c.Target, err = flags.GetString(flagTarget)
		case flagGenerateLenses:
			c.GenerateLenses, err = flags.GetBool(flagGenerateLenses)
		case flagGenerateAsync:
			c.GenerateAsync, err = flags.GetBool(flagGenerateAsync)
		case flagUseOptions:
			c.UseOptions, err = flags.GetBool(flagUseOptions)
		case flagEnumPolicy:
			c.EnumPolicy, err = flags.GetString(flagEnumPolicy)
		case flagCacheSize:
			c.CacheSize, err = flags.GetInt(flagCacheSize)
		case flagMaxDepth:
			c.MaxDepth, err = flags.GetInt(flagMaxDepth)
		}
	})
	if err != nil {
		return errors.Wrap(err, "reading flags")
	}
	return c.Validate()
}
