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
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	wasm "github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/7sharp9/miser/encoding/schemajson"
)

// Plugin exports. The generate function receives a JSON pluginRequest and
// stores a pointer to its response at responsePtrPtr. The response is a
// little-endian u32 length followed by a JSON pluginResponse.
const (
	pluginAllocate = "miser_codegen_allocate"
	pluginGenerate = "miser_codegen_generate"
)

type pluginRequest struct {
	Language string               `json:"language"`
	Document *schemajson.Document `json:"document"`
}

type pluginResponse struct {
	Error string       `json:"error,omitempty"`
	Files []pluginFile `json:"files"`
}

type pluginFile struct {
	Path    []string `json:"path"`
	Content string   `json:"content"`
}

type cmdCodegen struct {
	outDir     string
	pluginPath string
	language   string
}

func (*cmdCodegen) help() *commandHelp {
	return &commandHelp{
		usage:   "codegen [flags] SCHEMA",
		summary: "Generate host code with a WebAssembly plugin",
		args:    1,
	}
}

func (cmd *cmdCodegen) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outDir, "output", "o", "", "Directory for generated files")
	flags.StringVar(&cmd.pluginPath, "plugin-path", "", "Colon-separated directories to search for plugins (default $MISER_CODEGEN_PLUGIN_PATH)")
	flags.StringVarP(&cmd.language, "language", "l", "go", "Target language; selects miser-codegen-LANGUAGE.wasm")
}

func (cmd *cmdCodegen) run(ctx context.Context, env *runEnv, argv []string) int {
	if cmd.outDir == "" {
		logrus.Error("No output directory specified (set --output=)")
		return 1
	}
	pluginPath, err := cmd.locatePlugin()
	if err != nil {
		logrus.Error(err)
		return 1
	}

	result, ok := env.load(argv[0])
	if !ok {
		return 1
	}
	requestBuf, err := json.Marshal(&pluginRequest{
		Language: cmd.language,
		Document: schemajson.FromResult(result),
	})
	if err != nil {
		logrus.Error(err)
		return 1
	}

	response, err := runPlugin(ctx, pluginPath, requestBuf)
	if err != nil {
		logrus.Error(err)
		return 1
	}
	if response.Error != "" {
		logrus.Errorf("%s: %s", filepath.Base(pluginPath), strings.TrimSpace(response.Error))
		return 1
	}
	if len(response.Files) == 0 {
		logrus.Error("Plugin did not generate any output files")
		return 1
	}
	if err := os.MkdirAll(cmd.outDir, 0o755); err != nil {
		logrus.Error(err)
		return 1
	}
	for _, file := range response.Files {
		outPath, err := file.outPath(cmd.outDir)
		if err != nil {
			logrus.Error(err)
			return 1
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			logrus.Error(err)
			return 1
		}
		if err := os.WriteFile(outPath, []byte(file.Content), 0o644); err != nil {
			logrus.Error(err)
			return 1
		}
		logrus.WithField("path", outPath).Debug("wrote generated file")
	}
	return 0
}

func runPlugin(ctx context.Context, pluginPath string, requestBuf []byte) (*pluginResponse, error) {
	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading plugin")
	}

	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(16384)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	defer runtime.Close(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	pluginExe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling plugin %s", pluginPath)
	}
	moduleConfig := wasm.NewModuleConfig().
		WithStderr(os.Stderr).
		WithStartFunctions("_initialize")
	plugin, err := runtime.InstantiateModule(ctx, pluginExe, moduleConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "instantiating plugin %s", pluginPath)
	}
	mem := plugin.Memory()
	wasmAlloc := plugin.ExportedFunction(pluginAllocate)
	wasmGenerate := plugin.ExportedFunction(pluginGenerate)
	if mem == nil || wasmAlloc == nil || wasmGenerate == nil {
		return nil, errors.Errorf("plugin %s does not export memory, %s, and %s", pluginPath, pluginAllocate, pluginGenerate)
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, errors.Wrap(err, "allocating request")
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, requestBuf) {
		return nil, errors.New("request does not fit in plugin memory")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, errors.Wrap(err, "allocating response pointer")
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(ctx, uint64(requestPtr), uint64(len(requestBuf)), uint64(responsePtrPtr))
	if err != nil {
		return nil, errors.Wrap(err, "running plugin")
	}
	rc := uint32(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, errors.New("Failed to read response pointer")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, errors.New("Failed to read response length")
	}
	responseBuf, ok := mem.Read(responsePtr+4, responseLen)
	if !ok {
		return nil, errors.New("Failed to read response")
	}

	response, err := decodeResponse(responseBuf)
	if err != nil {
		return nil, err
	}
	if rc != 0 && response.Error == "" {
		response.Error = fmt.Sprintf("plugin failed with code %d", rc)
	}
	return response, nil
}

func decodeResponse(buf []byte) (*pluginResponse, error) {
	var response pluginResponse
	if err := json.Unmarshal(buf, &response); err != nil {
		return nil, errors.Wrap(err, "decoding plugin response")
	}
	return &response, nil
}

func (cmd *cmdCodegen) locatePlugin() (string, error) {
	path := cmd.pluginPath
	if path == "" {
		path = os.Getenv("MISER_CODEGEN_PLUGIN_PATH")
	}
	if path == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $MISER_CODEGEN_PLUGIN_PATH")
	}
	basename := fmt.Sprintf("miser-codegen-%s.wasm", cmd.language)
	for _, dir := range filepath.SplitList(path) {
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path", basename)
}

func (file *pluginFile) outPath(outDir string) (string, error) {
	parts := file.Path
	if len(parts) == 0 {
		return "", fmt.Errorf("Invalid output path %#v: empty", parts)
	}
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %#v: bad path component %q", parts, part)
		}
		if part[0] == '/' || filepath.IsAbs(part) {
			return "", fmt.Errorf("Invalid output path %#v: absolute path component %q", parts, part)
		}
		if strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("Invalid output path %#v: component %q contains a path separator", parts, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}
