// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacheeval/simfig/simlog"
)

func sampleRecords() []simlog.Record {
	fr := simlog.Record{
		Algorithm: "FR", Config: "2-1",
		RealCacheSize: 1000, Request: 5000000, MissRatio: 0.05, Reinserted: 200,
		Trace: "hm_0", TracePath: "msr/hm_0", CacheSize: 0.01, IgnoreObjSize: 1,
		Scale: math.NaN(), Bit: 2,
	}
	arc := simlog.Record{
		Algorithm: "ARC", Config: "LRU",
		RealCacheSize: 1000, Request: 5000000, MissRatio: 0.04, Reinserted: 0,
		Trace: "w01", TracePath: "cloudphysics/w01", CacheSize: 0.01, IgnoreObjSize: 1,
		Scale: math.Inf(1), Bit: math.NaN(), Variant: "LRU",
	}
	return []simlog.Record{fr, arc}
}

// str formats records so that NaN fields compare equal.
func str(recs []simlog.Record) string {
	return fmt.Sprintf("%+v", recs)
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, RawSchema, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Config,Algorithm,Real Cache Size,Request,Miss Ratio,Reinserted,Trace,Trace Path,Cache Size,Ignore Obj Size,Scale,Bit,Variant", lines[0])
	assert.Equal(t, "2-1,FR,1000,5000000,0.05,200,hm_0,msr/hm_0,0.01,1,,2,", lines[1])
	assert.Equal(t, "LRU,ARC,1000,5000000,0.04,0,w01,cloudphysics/w01,0.01,1,inf,,LRU", lines[2])

	got, err := ReadCSV(&buf, RawSchema)
	require.NoError(t, err)
	assert.Equal(t, str(sampleRecords()), str(got))
}

func TestReadCSVColumnsByName(t *testing.T) {
	schema := Schema[simlog.Record]{
		StrCol("Algorithm", func(r *simlog.Record) *string { return &r.Algorithm }),
		FloatCol("Bit", func(r *simlog.Record) *float64 { return &r.Bit }),
	}
	got, err := ReadCSV(strings.NewReader("Bit,Extra,Algorithm\n1,x,FR\n,y,LRU\n"), schema)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "FR", got[0].Algorithm)
	assert.Equal(t, 1.0, got[0].Bit)
	assert.True(t, math.IsNaN(got[1].Bit))

	_, err = ReadCSV(strings.NewReader("Algorithm\nFR\n"), schema)
	assert.EqualError(t, err, `csv: missing column "Bit"`)

	_, err = ReadCSV(strings.NewReader("Algorithm,Bit\nFR,two\n"), schema)
	assert.ErrorContains(t, err, `csv:2: column "Bit"`)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.db")

	require.NoError(t, WriteSnapshot(ctx, path, RawSchema, sampleRecords()))
	got, err := ReadSnapshot(ctx, path, RawSchema)
	require.NoError(t, err)
	assert.Equal(t, str(sampleRecords()), str(got))

	// A second write replaces the table.
	require.NoError(t, WriteSnapshot(ctx, path, RawSchema, sampleRecords()[:1]))
	got, err = ReadSnapshot(ctx, path, RawSchema)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSnapshotSpecialPath(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	for _, name := range []string{"run#1", "run%201", "run?1", "a #b%20c?d=e"} {
		dir := filepath.Join(root, name)
		require.NoError(t, Save(ctx, dir, "data", RawSchema, sampleRecords()), name)

		dbPath, _ := Paths(dir, "data")
		got, err := Load(ctx, dbPath, RawSchema)
		require.NoError(t, err, name)
		assert.Equal(t, str(sampleRecords()), str(got), name)
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		assert.True(t, e.IsDir(), "unexpected file %q", e.Name())
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"run#1", "run%201", "run?1", "a #b%20c?d=e"}, names)
}

func TestSqliteURI(t *testing.T) {
	got, err := sqliteURI("/tmp/run?1/a#b%20.db", "ro")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/run%3F1/a%23b%2520.db?mode=ro", got)
}

func TestReadSnapshotMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	_, err := ReadSnapshot(context.Background(), path, RawSchema)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, fs.ErrNotExist, "reading must not create the snapshot")
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, Save(ctx, dir, "data", RawSchema, sampleRecords()))

	dbPath, csvPath := Paths(dir, "data")
	fromDB, err := Load(ctx, dbPath, RawSchema)
	require.NoError(t, err)

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	fromCSV, err := ReadCSV(f, RawSchema)
	require.NoError(t, err)

	assert.Equal(t, str(fromDB), str(fromCSV))
}

func TestSaveAtomic(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath, csvPath := Paths(dir, "data")

	// A non-empty directory in the way of the CSV temporary file makes
	// the CSV write fail after the snapshot has been written.
	require.NoError(t, os.MkdirAll(filepath.Join(csvPath+".tmp", "x"), 0o777))
	require.Error(t, Save(ctx, dir, "data", RawSchema, sampleRecords()))

	for _, p := range []string{dbPath, dbPath + ".tmp", csvPath} {
		_, err := os.Stat(p)
		assert.ErrorIs(t, err, fs.ErrNotExist, p)
	}
}

type extended struct {
	simlog.Record
	Miss float64
}

func TestExtend(t *testing.T) {
	s := Extend(RawSchema, func(e *extended) *simlog.Record { return &e.Record },
		FloatCol("Miss", func(e *extended) *float64 { return &e.Miss }))
	require.Len(t, s, len(RawSchema)+1)
	assert.Equal(t, "Config", s[0].Name)
	assert.Equal(t, "Miss", s[len(s)-1].Name)

	var e extended
	c, ok := s.Lookup("Trace Path")
	require.True(t, ok)
	*c.Str(&e) = "msr/hm_0"
	assert.Equal(t, "msr/hm_0", e.TracePath)

	_, ok = s.Lookup("Nope")
	assert.False(t, ok)
}
