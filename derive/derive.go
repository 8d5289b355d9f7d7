// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package derive computes comparative metrics from parsed simulator
// results.
//
// Each record is compared against baseline records that simulated the
// same trace at the same cache size: FIFO, LRU, FR with a one-bit
// counter ("Base FR"), FR with the record's own counter width ("Bit
// FR"), and, for algorithms with named variants, the algorithm's own
// LRU variant ("Adv"). A record without a baseline gets NaN for the
// corresponding metrics and is kept.
//
// Ratios are computed with IEEE division. A zero denominator yields an
// infinity or NaN rather than an error, so consumers must tolerate
// non-finite values in every derived column.
package derive

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cacheeval/simfig/dataset"
	"github.com/cacheeval/simfig/simlog"
)

// A Record is a simulator result together with its derived metrics.
type Record struct {
	simlog.Record

	TraceGroup string  // first component of TracePath
	Miss       float64 // absolute number of misses

	RelMissRatioFIFO    float64
	PromotionEfficiency float64 // misses saved over FIFO per promotion

	RelPromotionLRU float64
	RelMissRatioLRU float64

	RelPromotionBaseFR float64
	RelMissRatioBaseFR float64

	RelPromotionBitFR float64
	RelMissRatioBitFR float64

	RelPromotionAdv float64
	RelMissRatioAdv float64
}

func floatCol(name string, f func(*Record) *float64) dataset.Column[Record] {
	return dataset.FloatCol(name, f)
}

// ProcessedSchema is the schema of processed records: RawSchema
// followed by the derived columns.
var ProcessedSchema = dataset.Extend(dataset.RawSchema,
	func(r *Record) *simlog.Record { return &r.Record },
	dataset.StrCol("Trace Group", func(r *Record) *string { return &r.TraceGroup }),
	floatCol("Miss", func(r *Record) *float64 { return &r.Miss }),
	floatCol("Relative Miss Ratio [FIFO]", func(r *Record) *float64 { return &r.RelMissRatioFIFO }),
	floatCol("Promotion Efficiency", func(r *Record) *float64 { return &r.PromotionEfficiency }),
	floatCol("Relative Promotion [LRU]", func(r *Record) *float64 { return &r.RelPromotionLRU }),
	floatCol("Relative Miss Ratio [LRU]", func(r *Record) *float64 { return &r.RelMissRatioLRU }),
	floatCol("Relative Promotion [Base FR]", func(r *Record) *float64 { return &r.RelPromotionBaseFR }),
	floatCol("Relative Miss Ratio [Base FR]", func(r *Record) *float64 { return &r.RelMissRatioBaseFR }),
	floatCol("Relative Promotion [Bit FR]", func(r *Record) *float64 { return &r.RelPromotionBitFR }),
	floatCol("Relative Miss Ratio [Bit FR]", func(r *Record) *float64 { return &r.RelMissRatioBitFR }),
	floatCol("Relative Promotion [Adv]", func(r *Record) *float64 { return &r.RelPromotionAdv }),
	floatCol("Relative Miss Ratio [Adv]", func(r *Record) *float64 { return &r.RelMissRatioAdv }),
)

// Process cleans recs with Clean and derives the metrics of every
// remaining record.
func Process(recs []simlog.Record, opt Options) []Record {
	clean := Clean(recs, opt)
	logrus.Infof("kept %d of %d records", len(clean), len(recs))

	fifo := indexBaselines("FIFO", clean, isAlgorithm("FIFO"), runKeyOf)
	lru := indexBaselines("LRU", clean, isAlgorithm("LRU"), runKeyOf)
	baseFR := indexBaselines("Base FR", clean, func(r *simlog.Record) bool {
		return r.Algorithm == "FR" && r.Bit == 1
	}, runKeyOf)
	bitFR := indexBaselines("Bit FR", clean, isAlgorithm("FR"), bitKeyOf)
	adv := indexBaselines("Adv", clean, func(r *simlog.Record) bool {
		return r.Variant == "LRU"
	}, algoKeyOf)

	out := make([]Record, len(clean))
	for i := range clean {
		r := &clean[i]
		p := &out[i]
		p.Record = *r
		p.TraceGroup = TraceGroup(r.TracePath)
		p.Miss = float64(r.Request) * r.MissRatio

		f := fifo.lookup(r)
		p.RelMissRatioFIFO = r.MissRatio / f.MissRatio
		p.PromotionEfficiency = (f.MissRatio - r.MissRatio) * float64(r.Request) / float64(r.Reinserted)

		p.RelPromotionLRU, p.RelMissRatioLRU = relative(r, lru.lookup(r))
		p.RelPromotionBaseFR, p.RelMissRatioBaseFR = relative(r, baseFR.lookup(r))
		p.RelPromotionBitFR, p.RelMissRatioBitFR = relative(r, bitFR.lookup(r))
		p.RelPromotionAdv, p.RelMissRatioAdv = relative(r, adv.lookup(r))
	}
	return out
}

func isAlgorithm(name string) func(*simlog.Record) bool {
	return func(r *simlog.Record) bool { return r.Algorithm == name }
}

// TraceGroup returns the first component of tracePath, or "/" for an
// absolute path.
func TraceGroup(tracePath string) string {
	if strings.HasPrefix(tracePath, "/") {
		return "/"
	}
	if i := strings.IndexByte(tracePath, '/'); i >= 0 {
		return tracePath[:i]
	}
	return tracePath
}

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
