// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package derive

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cacheeval/simfig/simlog"
)

// A runKey identifies the records that simulated the same trace at the
// same cache size.
type runKey struct {
	CacheSize float64
	TracePath string
}

// bitKey further selects records by counter width.
type bitKey struct {
	runKey
	Bit float64
}

// algoKey further selects records by algorithm.
type algoKey struct {
	runKey
	Algorithm string
}

func runKeyOf(r *simlog.Record) runKey {
	return runKey{r.CacheSize, r.TracePath}
}

func bitKeyOf(r *simlog.Record) bitKey {
	return bitKey{runKeyOf(r), r.Bit}
}

func algoKeyOf(r *simlog.Record) algoKey {
	return algoKey{runKeyOf(r), r.Algorithm}
}

// A baseline holds the measurements other records are compared to.
type baseline struct {
	MissRatio  float64
	Reinserted float64
}

// missing is the baseline of records that have none. Every ratio
// against it is NaN.
var missing = baseline{math.NaN(), math.NaN()}

// A baselines maps a join key to its baseline record.
type baselines[K comparable] struct {
	name string
	m    map[K]baseline
	key  func(*simlog.Record) K
}

// indexBaselines indexes the records of recs for which match reports
// true by key. If several records share a key, the first one is used.
// Keys with a NaN component are never indexed, since they could never
// be looked up.
func indexBaselines[K comparable](name string, recs []simlog.Record, match func(*simlog.Record) bool, key func(*simlog.Record) K) *baselines[K] {
	b := &baselines[K]{name: name, m: make(map[K]baseline), key: key}
	dups := 0
	for i := range recs {
		r := &recs[i]
		if !match(r) {
			continue
		}
		k := key(r)
		if k != k { // NaN component
			continue
		}
		if _, ok := b.m[k]; ok {
			dups++
			continue
		}
		b.m[k] = baseline{r.MissRatio, float64(r.Reinserted)}
	}
	if dups > 0 {
		logrus.Warnf("%s baseline: %d records share a key with an earlier baseline; using the first", name, dups)
	}
	return b
}

// lookup returns the baseline for r, or missing.
func (b *baselines[K]) lookup(r *simlog.Record) baseline {
	if base, ok := b.m[b.key(r)]; ok {
		return base
	}
	return missing
}

// relative returns r's promotion count and miss ratio relative to base.
func relative(r *simlog.Record, base baseline) (promotion, missRatio float64) {
	return float64(r.Reinserted) / base.Reinserted, r.MissRatio / base.MissRatio
}
