// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jsonfile

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestWriteIndentsAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	in := []sample{{Name: "a<b>", Value: 1.5}}

	require.NoError(t, Write(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"name\": \"a<b>\",\n    \"value\": 1.5\n  }\n]\n", string(data))

	var out []sample
	require.NoError(t, Read(path, &out))
	assert.Equal(t, in, out)
}

func TestWriteOverwritesAndSetsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	require.NoError(t, Write(path, map[string]int{"n": 1}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	var got map[string]int
	require.NoError(t, Read(path, &got))
	assert.Equal(t, 1, got["n"])
}

func TestWriteFailureLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keep":true}`), 0o644))

	// NaN cannot be encoded, so nothing should be written.
	err := Write(path, sample{Value: math.NaN()})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"keep":true}`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestWriteMissingDirectory(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "missing", "out.json"), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	var v any

	err := Read(filepath.Join(dir, "absent.json"), &v)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	err = Read(bad, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}
