// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(data), 0o666); err != nil {
			t.Fatal(err)
		}
	}
}

func line(algo, mr string) string {
	return "t " + algo + " cache size 20, 1000000 req, miss ratio " + mr + ", throughput 3 MQPS, promotion 1\n"
}

func TestManifest(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(`
msr/hm_0.oracleGeneral.zst
  cloudphysics/w01.oracleGeneral.bin.zst

tencent/plain
`))
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	for _, test := range []struct {
		log, want string
	}{
		{"out/hm_0.oracleGeneral.zst.cachesim", "msr/hm_0"},
		{"out/hm_0.cachesim.FIFO", "msr/hm_0"},
		{"hm_0", "msr/hm_0"},
		{"x/y/w01.oracleGeneral.bin.zst.cachesim-2024", "cloudphysics/w01"},
		{"plain.cachesim", "tencent/plain"},
		{"hm_1.cachesim", ""},
	} {
		got, ok := m.Lookup(test.log)
		if got != test.want || ok != (test.want != "") {
			t.Errorf("Lookup(%q) = %q, %v; want %q", test.log, got, ok, test.want)
		}
	}
}

func TestReadManifestMissing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "datasets.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want not-exist error", err)
	}
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b/hm_0.oracleGeneral.zst.cachesim": line("LRU", "0.3") + line("FIFO", "0.4"),
		"a/hm_0.cachesim":                   "header\n" + line("LRU", "0.1"),
		"a/sub/w01.cachesim":                line("Clock-1", "0.2"),
		"c/unknown.cachesim":                line("LRU", "0.9"),
	})
	m := new(Manifest)
	m.Add("msr/hm_0.oracleGeneral.zst")
	m.Add("cloudphysics/w01.oracleGeneral.bin")

	f := &Files{Root: root, Manifest: m, Parser: DefaultParser()}
	var got []string
	for f.Scan() {
		r := f.Result()
		got = append(got, r.TracePath+" "+r.Algorithm)
	}
	if err := f.Err(); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"msr/hm_0 LRU",
		"cloudphysics/w01 FR",
		"msr/hm_0 LRU",
		"msr/hm_0 FIFO",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("got %q, want %q", got, want)
	}
	if f.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", f.Skipped())
	}
}

func TestReadAll(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"2/hm_0.cachesim": line("LRU", "0.3"),
		"1/hm_0.cachesim": line("LRU", "0.1") + line("ARC-LRU", "0.1"),
	})
	m := new(Manifest)
	m.Add("msr/hm_0.oracleGeneral.zst")

	recs, err := ReadAll(&Files{Root: root, Manifest: m, Parser: DefaultParser()})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	// Directory "1" is read before "2", so its LRU result wins.
	if recs[0].Algorithm != "LRU" || recs[0].MissRatio != 0.1 {
		t.Errorf("got %+v, want LRU from 1/hm_0.cachesim", recs[0])
	}
}

func TestFilesErrors(t *testing.T) {
	m := new(Manifest)
	m.Add("msr/hm_0")

	f := &Files{Root: filepath.Join(t.TempDir(), "missing"), Manifest: m}
	if f.Scan() {
		t.Fatal("Scan on a missing root returned true")
	}
	if !errors.Is(f.Err(), fs.ErrNotExist) {
		t.Errorf("got %v, want not-exist error", f.Err())
	}

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"hm_0.cachesim": line("LRU", "0.1") + line("MQ", "0.1"),
	})
	f = &Files{Root: root, Manifest: m, Parser: DefaultParser()}
	_, err := ReadAll(f)
	var ue *UnknownAlgorithmError
	if !errors.As(err, &ue) {
		t.Errorf("got %v, want *UnknownAlgorithmError", err)
	}
}
