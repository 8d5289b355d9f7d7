// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"strings"
	"testing"
)

func TestAlgorithmTable(t *testing.T) {
	names := make(map[string]bool)
	for a := Algorithm(0); a < numAlgorithms; a++ {
		if a.ID() == "" || a.String() == "" {
			t.Errorf("Algorithm %d has no table entry", a)
			continue
		}
		if names[a.String()] {
			t.Errorf("duplicate display name %q", a.String())
		}
		names[a.String()] = true

		if got, ok := LookupAlgorithm(a.ID()); !ok || got != a {
			t.Errorf("LookupAlgorithm(%q) = %v, %v; want %v", a.ID(), got, ok, a)
		}

		// Every algorithm must have a decoder, whatever the
		// suffix turns out to be.
		r := newRecord()
		err := a.decodeConfig(&r, "1-0.5", true)
		if err != nil && strings.Contains(err.Error(), "no config decoder") {
			t.Errorf("%s: %v", a.ID(), err)
		}
	}
	if _, ok := LookupAlgorithm("FR"); ok {
		t.Errorf("display names must not be accepted as identifiers")
	}
}

func TestAlgorithmOutOfRange(t *testing.T) {
	a := numAlgorithms
	if a.String() != "Algorithm(11)" {
		t.Errorf("String() = %q", a.String())
	}
	r := newRecord()
	if err := a.decodeConfig(&r, "", false); err == nil {
		t.Errorf("decodeConfig on an unknown Algorithm succeeded")
	}
}
