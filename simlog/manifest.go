// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// A Manifest maps log files to the canonical path of the trace they
// simulated.
//
// The manifest file lists one trace path per line, as stored in the
// trace repository, for example
//
//	msr/hm_0.oracleGeneral.zst
//
// The canonical path drops the ".oracleGeneral" suffix family
// ("msr/hm_0"). A log file is matched by its base name up to the
// first ".cachesim"; that name may be either the base name of the
// listed path or the base name of the canonical path.
type Manifest struct {
	paths map[string]string // key -> canonical trace path
	n     int
}

var oracleSuffix = regexp.MustCompile(`\.oracleGeneral\S*`)

// ReadManifest reads the manifest file at name.
func ReadManifest(name string) (*Manifest, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	defer f.Close()
	m, err := ParseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", name, err)
	}
	return m, nil
}

// ParseManifest parses a manifest from r.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{paths: make(map[string]string)}
	s := bufio.NewScanner(r)
	for s.Scan() {
		p := strings.TrimSpace(s.Text())
		if p == "" {
			continue
		}
		m.Add(p)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Add adds the trace path p to m. Later paths with the same key
// replace earlier ones.
func (m *Manifest) Add(p string) {
	if m.paths == nil {
		m.paths = make(map[string]string)
	}
	canonical := oracleSuffix.ReplaceAllString(p, "")
	m.paths[path.Base(p)] = canonical
	m.paths[path.Base(canonical)] = canonical
	m.n++
}

// Len returns the number of trace paths added to m.
func (m *Manifest) Len() int {
	return m.n
}

// Lookup returns the canonical trace path for the log file logPath.
func (m *Manifest) Lookup(logPath string) (tracePath string, ok bool) {
	tracePath, ok = m.paths[LogKey(logPath)]
	return
}

// LogKey returns the name under which the log file logPath is looked
// up in a Manifest: its base name, cut at the first ".cachesim".
func LogKey(logPath string) string {
	base := filepath.Base(logPath)
	if i := strings.Index(base, ".cachesim"); i >= 0 {
		base = base[:i]
	}
	return base
}
