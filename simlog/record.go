// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simlog reads the result lines printed by the cache
// simulator and turns them into Records.
//
// A simulator run prints one summary line per simulated
// configuration, for example:
//
//	trace.oracleGeneral Clock-2-1 cache size 1000, 5000000 req, miss ratio 0.05, throughput 12.3 MQPS, promotion 200
//
// Lines that do not have this shape are ignored. The algorithm
// identifier ("Clock") is mapped to a canonical display name ("FR")
// and its hyphenated configuration suffix ("2-1") is decoded into
// algorithm-specific fields such as Bit and Scale.
//
// Log files are matched to traces through a Manifest, which maps log
// file names to canonical trace paths. Files walks a directory of
// logs and yields the Records of every file the Manifest knows about.
package simlog

import (
	"math"
	"path"
)

// A Record is the result of one simulated configuration.
//
// Optional float fields are NaN when the algorithm does not carry
// them. Optional string fields are empty.
type Record struct {
	Algorithm string // canonical display name
	Config    string // raw configuration suffix

	RealCacheSize int64
	Request       int64
	MissRatio     float64
	Reinserted    int64 // promotions

	Trace     string // basename of TracePath
	TracePath string

	CacheSize     float64 // logical cache size as a fraction of the working set
	IgnoreObjSize int64

	Scale   float64
	Bit     float64
	Variant string
}

// newRecord returns a Record with the optional fields unset.
func newRecord() Record {
	return Record{Scale: math.NaN(), Bit: math.NaN()}
}

// A Key identifies a simulated configuration. Records with equal
// Keys describe the same run.
type Key struct {
	TracePath string
	CacheSize float64
	Algorithm string
	Config    string
}

// Key returns the deduplication key of r.
func (r *Record) Key() Key {
	return Key{r.TracePath, r.CacheSize, r.Algorithm, r.Config}
}

// Dedup returns recs with every Record whose Key was already seen
// removed. The first Record with a given Key wins. Dedup reuses the
// storage of recs.
func Dedup(recs []Record) []Record {
	seen := make(map[Key]bool, len(recs))
	out := recs[:0]
	for _, r := range recs {
		k := r.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// A Parser extracts Records from simulator output lines.
type Parser struct {
	// CacheSize is recorded as Record.CacheSize. The simulator
	// logs do not carry it.
	CacheSize float64

	// IgnoreObjSize is recorded as Record.IgnoreObjSize.
	IgnoreObjSize int64
}

// DefaultParser returns the Parser used for the published runs.
func DefaultParser() Parser {
	return Parser{CacheSize: 0.01, IgnoreObjSize: 1}
}

// ParseLine parses line as a result of simulating tracePath. ok is
// false if line is not a result line. err is non-nil if line is a
// result line but cannot be decoded.
func (p Parser) ParseLine(line, tracePath string) (rec Record, ok bool, err error) {
	m, ok := matchLine(line)
	if !ok {
		return Record{}, false, nil
	}
	algo, known := LookupAlgorithm(m.algo)
	if !known {
		return Record{}, true, &UnknownAlgorithmError{m.algo}
	}

	rec = newRecord()
	rec.Algorithm = algo.String()
	rec.Config = m.config
	if rec.RealCacheSize, err = parseInt("cache size", m.cacheSize); err != nil {
		return Record{}, true, err
	}
	if rec.Request, err = parseInt("request count", m.requests); err != nil {
		return Record{}, true, err
	}
	if rec.MissRatio, err = parseFloat("miss ratio", m.missRatio); err != nil {
		return Record{}, true, err
	}
	if rec.Reinserted, err = parseInt("promotion count", m.promotion); err != nil {
		return Record{}, true, err
	}
	rec.Trace = path.Base(tracePath)
	rec.TracePath = tracePath
	rec.CacheSize = p.CacheSize
	rec.IgnoreObjSize = p.IgnoreObjSize

	if err := algo.decodeConfig(&rec, m.config, m.hasConfig); err != nil {
		return Record{}, true, err
	}
	return rec, true, nil
}
