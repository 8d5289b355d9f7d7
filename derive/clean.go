// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package derive

import (
	"math"
	"sort"

	"github.com/cacheeval/simfig/simlog"
)

// Options controls which records are kept and how they are rounded.
type Options struct {
	// RoundPlaces is the number of decimal places float columns
	// are rounded to before filtering.
	RoundPlaces int

	// IgnoreObjSize selects records with this Ignore Obj Size.
	IgnoreObjSize int64

	// MinRealCacheSize and MinRequests drop records of tiny caches
	// and short traces.
	MinRealCacheSize int64
	MinRequests      int64
}

// DefaultOptions returns the Options used for the published figures.
func DefaultOptions() Options {
	return Options{
		RoundPlaces:      4,
		IgnoreObjSize:    1,
		MinRealCacheSize: 10,
		MinRequests:      1_000_000,
	}
}

// Clean rounds, filters and sorts recs. The result never holds a
// record that is not in recs. Clean does not modify recs.
func Clean(recs []simlog.Record, opt Options) []simlog.Record {
	out := make([]simlog.Record, 0, len(recs))
	for _, r := range recs {
		roundRecord(&r, opt.RoundPlaces)
		if r.IgnoreObjSize != opt.IgnoreObjSize {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TracePath < out[j].TracePath
	})
	kept := out[:0]
	for _, r := range out {
		if r.RealCacheSize < opt.MinRealCacheSize || r.Request < opt.MinRequests {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func roundRecord(r *simlog.Record, places int) {
	r.MissRatio = round(r.MissRatio, places)
	r.CacheSize = round(r.CacheSize, places)
	r.Scale = round(r.Scale, places)
	r.Bit = round(r.Bit, places)
}

// round rounds x to places decimal places, half away from zero.
// Non-finite values are returned unchanged.
func round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
