// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacheeval/simfig/derive"
	"github.com/cacheeval/simfig/simlog"
)

func write(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o666))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, simlog.DefaultParser(), cfg.Parser())
	assert.Equal(t, derive.DefaultOptions(), cfg.Options())
	assert.Equal(t, "datasets.txt", cfg.Manifest)
	assert.Equal(t, "data", cfg.OutputDir)
}

func TestLoadPartial(t *testing.T) {
	cfg, err := Load(write(t, "output_dir: out\nderive:\n  min_requests: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "datasets.txt", cfg.Manifest)
	assert.Equal(t, int64(10), cfg.Options().MinRequests)
	assert.Equal(t, int64(10), cfg.Options().MinRealCacheSize)
	assert.Equal(t, 0.01, cfg.Parser().CacheSize)
}

func TestLoadEmpty(t *testing.T) {
	cfg, err := Load(write(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(write(t, "derive:\n  min_request: 10\n"))
	assert.ErrorContains(t, err, "min_request")

	_, err = Load(write(t, "parse:\n  cache_size: 0\n"))
	assert.ErrorContains(t, err, "parse.cache_size must be positive")

	_, err = Load(write(t, "derive:\n  round_places: -1\n"))
	assert.ErrorContains(t, err, "round_places")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
