// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/idextract/pkg/types"
)

// resetFlags restores every flag to its default so executions in one test
// binary do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	journalDir := filepath.Join(dir, ".idextract")
	path := writeJSON(t, dir, "place_ids.json", `[{"id": "a1", "name": "X"}, {"id": "a2", "name": "Y"}]`)

	out, err := execute(t, "extract", path, "--journal-dir", journalDir)
	require.NoError(t, err)
	assert.Contains(t, out, "extracted: "+path+" (2 ids)")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a1\",\n  \"a2\"\n]", string(data))

	// The second run fails and points at the first.
	_, err = execute(t, "extract", path, "--journal-dir", journalDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data-shape")
	assert.Contains(t, err.Error(), "already reduced by run")

	out, err = execute(t, "history", "--journal-dir", journalDir, "--json")
	require.NoError(t, err)

	var runs []types.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	assert.Equal(t, types.RunFailed, runs[0].Status)
	assert.Equal(t, types.RunSucceeded, runs[1].Status)
	assert.Equal(t, 2, runs[1].Records)
}

func TestExtractCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	content := `[{"id": 7}, {"id": 8}]`
	path := writeJSON(t, dir, "tag_ids.json", content)

	out, err := execute(t, "extract", path, "--dry-run", "--indent", "0", "--no-journal")
	require.NoError(t, err)
	assert.Equal(t, "[7,8]\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestExtractCommand_Field(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "tags.json", `[{"tag": "music"}, {"tag": "film"}]`)

	_, err := execute(t, "extract", path, "--field", "tag", "--no-journal")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"music\",\n  \"film\"\n]", string(data))
}

func TestExtractCommand_InvalidIndent(t *testing.T) {
	dir := t.TempDir()
	path := writeJSON(t, dir, "place_ids.json", `[{"id": 1}]`)

	_, err := execute(t, "extract", path, "--indent", "12", "--no-journal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "place_ids.json", `[{"id": 1}, {"id": 2}]`)
	writeJSON(t, dir, "tag_ids.json", `[{"name": "no id"}]`)
	manifest := writeJSON(t, dir, "datasets.yaml", `datasets:
  - name: places
    path: place_ids.json
  - name: tags
    path: tag_ids.json
`)

	out, err := execute(t, "batch", manifest, "--no-journal")
	require.Error(t, err)
	assert.Equal(t, "1 dataset(s) failed", err.Error())
	assert.Contains(t, out, "extracted: places")
	assert.Contains(t, out, "failed:    tags")
	assert.Contains(t, out, "Batch summary: 1 extracted, 1 failed (total: 2)")
}

func TestHistoryCommand_Disabled(t *testing.T) {
	_, err := execute(t, "history", "--no-journal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal is disabled")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "idextract dev\n", out)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    types.LogConfig
		errMsg string
	}{
		{name: "defaults", cfg: types.Defaults().Log},
		{name: "json debug", cfg: types.LogConfig{Level: "debug", Format: "json"}},
		{name: "bad level", cfg: types.LogConfig{Level: "loud", Format: "console"}, errMsg: "invalid log level"},
		{name: "bad format", cfg: types.LogConfig{Level: "info", Format: "xml"}, errMsg: "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.cfg)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestFormatHistory(t *testing.T) {
	at := time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC)
	runs := []types.Run{
		{
			ID: "0b6f6f0e-8a51-4d3e-9d0c-2f4e0f1a9c11", Path: "/data/place_ids.json", Field: "id",
			Status: types.RunFailed, ErrorKind: "data-shape",
			Error: "data-shape: /data/place_ids.json: element 0: element is not an object",
			StartedAt: at, FinishedAt: at,
		},
		{
			ID: "9d7c3f3a-51c2-4a3f-8b7e-6f0a2b1c4d22", Path: "/data/place_ids.json", Field: "id",
			Status: types.RunSucceeded, Records: 1324, StartedAt: at, FinishedAt: at,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, runs, false))
	table := buf.String()
	assert.Contains(t, table, "Started")
	assert.Contains(t, table, "1324")
	assert.Contains(t, table, "element is not an object")
	assert.Contains(t, table, "2 runs")

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, false))
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	require.NoError(t, formatHistory(&buf, nil, true))
	assert.Equal(t, "[]\n", buf.String())
}
