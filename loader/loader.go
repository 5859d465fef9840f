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

// Package loader reads schema files from disk and caches their compiled
// results.
package loader

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/7sharp9/miser"
	"github.com/7sharp9/miser/config"
	"github.com/7sharp9/miser/syntax"
)

// Extension is tried when a path does not name an existing file.
const Extension = ".thrift"

type Option interface {
	apply(*Loader)
}

type option func(*Loader)

func (f option) apply(l *Loader) { f(l) }

func WithLogger(logger logrus.FieldLogger) Option {
	return option(func(l *Loader) {
		l.log = logger
	})
}

type cacheKey struct {
	path string
	sum  [sha256.Size]byte
}

// Loader compiles schema files. Results are cached by absolute path and
// content hash, so an edited file is compiled again. Cached results are
// shared between callers and must not be modified.
type Loader struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	cache *lru.Cache[cacheKey, *miser.Result]

	hits   atomic.Int64
	misses atomic.Int64
}

func New(cfg *config.Config, opts ...Option) (*Loader, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cache, err := lru.New[cacheKey, *miser.Result](cfg.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating cache")
	}
	l := &Loader{
		cfg:   cfg,
		log:   logrus.StandardLogger(),
		cache: cache,
	}
	for _, opt := range opts {
		opt.apply(l)
	}
	return l, nil
}

// Resolve returns the absolute path of the file Load would read: path
// itself if it names a regular file, otherwise path with Extension.
func (l *Loader) Resolve(path string) (string, error) {
	candidates := []string{path}
	if filepath.Ext(path) != Extension {
		candidates = append(candidates, path+Extension)
	}
	for ii, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", errors.Wrapf(err, "resolving %s", path)
		}
		if info.IsDir() {
			continue
		}
		if ii > 0 {
			l.log.WithField("path", path).Debugf("using %s", candidate)
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			return "", errors.Wrapf(err, "resolving %s", path)
		}
		return abs, nil
	}
	return "", errors.Wrapf(fs.ErrNotExist, "no schema at %s or %s%s", path, path, Extension)
}

func (l *Loader) Load(path string) (*miser.Result, error) {
	abs, err := l.Resolve(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", abs)
	}
	return l.compile(abs, src)
}

func (l *Loader) compile(abs string, src []byte) (*miser.Result, error) {
	key := cacheKey{path: abs, sum: sha256.Sum256(src)}
	log := l.log.WithField("path", abs)
	if result, ok := l.cache.Get(key); ok {
		l.hits.Add(1)
		log.Debug("cache hit")
		return result, nil
	}
	l.misses.Add(1)
	log.Debug("cache miss")

	result, err := miser.Compile(src,
		miser.WithConfig(l.cfg),
		miser.WithSourceName(abs),
	)
	if err != nil {
		return nil, &SourceError{Path: abs, Source: src, Err: err}
	}
	for _, warning := range result.Warnings {
		span := warning.Span()
		line, column := syntax.Position(src, span.Start())
		log.Debugf("%d:%d: %s", line, column, warning)
	}
	if evicted := l.cache.Add(key, result); evicted {
		log.Debug("cache evicted an entry")
	}
	return result, nil
}

// Stats returns the cache hit and miss counts.
func (l *Loader) Stats() (hits, misses int64) {
	return l.hits.Load(), l.misses.Load()
}

func (l *Loader) Purge() {
	l.cache.Purge()
}

// SourceError is a parse or compile failure of one file. Error positions
// are reported as line and column.
type SourceError struct {
	Path   string
	Source []byte
	Err    error
}

func (err *SourceError) Error() string {
	var syntaxErr *syntax.Error
	if errors.As(err.Err, &syntaxErr) {
		span := syntaxErr.Span()
		line, column := syntax.Position(err.Source, span.Start())
		return fmt.Sprintf("%s:%d:%d: %s", err.Path, line, column, syntaxErr)
	}
	var compileErr *miser.CompileError
	if errors.As(err.Err, &compileErr) && len(compileErr.Errors) > 0 {
		first := compileErr.Errors[0]
		span := first.Span()
		line, column := syntax.Position(err.Source, span.Start())
		msg := fmt.Sprintf("%s:%d:%d: %s", err.Path, line, column, first)
		if more := len(compileErr.Errors) - 1; more > 0 {
			msg += fmt.Sprintf(" (and %d more)", more)
		}
		return msg
	}
	return fmt.Sprintf("%s: %s", err.Path, err.Err)
}

func (err *SourceError) Unwrap() error {
	return err.Err
}
