package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/grit/errors"
	"github.com/teranos/grit/format/rcheader"
	"github.com/teranos/grit/grd"
	"github.com/teranos/grit/logger"
)

const testGRD = `<grit>
  <outputs>
    <output filename="grit/app_resources.h" type="rc_header">
      <emit emit_type="prepend">#include "app/base.h"</emit>
    </output>
    <output filename="app_en.pak" type="data_package" lang="en" />
    <output filename="grit/app_ids.h" type="rc_header" />
  </outputs>
  <release seq="1">
    <messages first_id="300">
      <message name="IDS_APP_NAME">App</message>
      <message name="IDS_APP_QUIT">Quit</message>
    </messages>
  </release>
</grit>`

const wantHeader = "// This file is automatically generated by GRIT. Do not edit.\n" +
	"\n" +
	"#pragma once\n" +
	"\n" +
	"#include \"app/base.h\"\n" +
	"#define IDS_APP_NAME 300\n" +
	"#define IDS_APP_QUIT 301\n"

func newBuilder(t *testing.T, outputDir string) *Builder {
	t.Helper()
	root, err := grd.Load(strings.NewReader(testGRD))
	require.NoError(t, err)
	return &Builder{
		Tree:      root,
		Registry:  NewRegistry(rcheader.Default),
		OutputDir: outputDir,
		Jobs:      2,
	}
}

func TestPlan(t *testing.T) {
	b := newBuilder(t, "out")
	outputs, skipped, err := b.Plan()
	require.NoError(t, err)

	require.Len(t, outputs, 2)
	assert.Equal(t, "grit/app_resources.h", outputs[0].Filename)
	assert.Equal(t, filepath.Join("out", "grit", "app_resources.h"), outputs[0].Path)
	assert.Equal(t, "rc_header", outputs[1].Type)
	assert.Equal(t, []string{"app_en.pak"}, skipped)
}

func TestRender(t *testing.T) {
	b := newBuilder(t, t.TempDir())
	outputs, _, err := b.Plan()
	require.NoError(t, err)

	data, err := b.Render(context.Background(), outputs[0])
	require.NoError(t, err)
	assert.Equal(t, wantHeader, string(data))

	_, err = b.Render(context.Background(), Output{Filename: "x.pak", Type: "data_package"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnknownOutputType))
}

func TestRun_WritesThenLeavesUnchanged(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(StatusWritten))
	assert.Equal(t, []string{"app_en.pak"}, report.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "grit", "app_resources.h"))
	require.NoError(t, err)
	assert.Equal(t, wantHeader, string(data))

	path := filepath.Join(dir, "grit", "app_ids.h")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	report, err = b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(StatusUnchanged))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "unchanged output must not be rewritten")
}

func TestRun_PropagatesFormatterError(t *testing.T) {
	tree := &brokenTree{Root: mustLoad(t)}
	b := &Builder{Tree: tree, Registry: NewRegistry(rcheader.Default), OutputDir: t.TempDir()}

	_, err := b.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnknownTextualID(err))
}

func TestPlan_OutputWithoutFilename(t *testing.T) {
	root, err := grd.Load(strings.NewReader(`<grit>
  <outputs>
    <output filename="grit/ok.h" type="rc_header" />
    <output type="rc_header" />
  </outputs>
</grit>`))
	require.NoError(t, err)
	dir := t.TempDir()
	b := &Builder{Tree: root, Registry: NewRegistry(rcheader.Default), OutputDir: dir}

	_, _, err = b.Plan()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidGRD(err))
	assert.Contains(t, err.Error(), "output #2")
	assert.NotEmpty(t, errors.GetAllHints(err))

	_, err = b.Run(context.Background())
	assert.True(t, errors.IsInvalidGRD(err))
	_, err = b.Check(context.Background())
	assert.True(t, errors.IsInvalidGRD(err))

	// nothing was written, not even the valid output
	_, statErr := os.Stat(filepath.Join(dir, "grit", "ok.h"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_LogsPerOutputFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	b := newBuilder(t, t.TempDir())
	b.Logger = zap.New(core).Sugar()

	_, err := b.Run(context.Background())
	require.NoError(t, err)

	generated := logs.FilterMessage("Output generated").All()
	require.Len(t, generated, 2)
	outputs := map[interface{}]bool{}
	for _, entry := range generated {
		fields := entry.ContextMap()
		assert.Equal(t, "build", fields[logger.FieldOperation])
		outputs[fields[logger.FieldOutput]] = true
	}
	assert.Equal(t, map[interface{}]bool{"grit/app_resources.h": true, "grit/app_ids.h": true}, outputs)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	b := newBuilder(t, dir)

	result, err := b.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	require.Len(t, result.Outputs, 2)
	assert.Equal(t, "grit/app_ids.h", result.Outputs[1].Filename)
	require.Len(t, result.Stale, 2)
	assert.True(t, result.Stale[0].Missing)
	assert.True(t, errors.IsStaleOutput(result.Err()))

	_, err = b.Run(context.Background())
	require.NoError(t, err)

	result, err = b.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, result.UpToDate())
	assert.NoError(t, result.Err())

	path := filepath.Join(dir, "grit", "app_resources.h")
	edited := strings.Replace(wantHeader, "301", "999", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))

	result, err = b.Check(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Stale, 1)
	assert.False(t, result.Stale[0].Missing)
	assert.Equal(t, "-#define IDS_APP_QUIT 999\n+#define IDS_APP_QUIT 301\n", result.Stale[0].Diff)
	assert.Contains(t, result.Err().Error(), "grit/app_resources.h")

	// check never writes
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, string(data))
}

func TestLineDiff(t *testing.T) {
	assert.Equal(t, "", lineDiff("a\nb\n", "a\nb\n"))
	assert.Equal(t, "+a\n+b\n", lineDiff("", "a\nb\n"))
	assert.Equal(t, "-b\n+c\n", lineDiff("a\nb\n", "a\nc\n"))
	assert.Equal(t, "-x\n+y\n", lineDiff("x", "y"))
}

// brokenTree hands out a textual id it never assigned.
type brokenTree struct {
	*grd.Root
}

func (t *brokenTree) IDMap() map[string]int {
	ids := t.Root.IDMap()
	delete(ids, "IDS_APP_QUIT")
	return ids
}

func mustLoad(t *testing.T) *grd.Root {
	t.Helper()
	root, err := grd.Load(strings.NewReader(testGRD))
	require.NoError(t, err)
	return root
}
