// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package summary aggregates processed records per algorithm.
//
// Only finite values take part in a summary: a record whose metric is
// NaN (no baseline) or infinite (zero denominator) is left out of that
// metric's aggregates. This differs from a plain per-group mean, which
// skips NaN but keeps infinities, so that one zero-promotion run would
// turn its algorithm's mean into +Inf.
package summary

import (
	"fmt"
	"io"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"golang.org/x/exp/slices"

	"github.com/cacheeval/simfig/dataset"
	"github.com/cacheeval/simfig/derive"
)

// DefaultMetric is the metric Best minimizes when none is given.
const DefaultMetric = "Relative Miss Ratio [LRU]"

// DefaultMetrics are the metrics summarized when none are given.
var DefaultMetrics = []string{
	"Relative Miss Ratio [LRU]",
	"Relative Promotion [LRU]",
	"Relative Miss Ratio [Base FR]",
	"Relative Promotion [Base FR]",
	"Promotion Efficiency",
}

// A Sample is one record's value of a metric.
type Sample struct {
	Algorithm string
	Value     float64
}

// A Stat summarizes one metric of one algorithm.
type Stat struct {
	Algorithm string
	Mean      float64
	Median    float64
	Count     int
}

// UnknownMetricError is returned for metric names that are not
// numeric columns of derive.ProcessedSchema.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Metric)
}

func metricOf(metric string) (func(*derive.Record) float64, error) {
	c, ok := derive.ProcessedSchema.Lookup(metric)
	if !ok {
		return nil, &UnknownMetricError{metric}
	}
	switch c.Kind {
	case dataset.Float:
		return func(r *derive.Record) float64 { return *c.Float(r) }, nil
	case dataset.Int:
		return func(r *derive.Record) float64 { return float64(*c.Int(r)) }, nil
	}
	return nil, &UnknownMetricError{metric}
}

// Values returns the finite values of metric in recs, in record order.
func Values(recs []derive.Record, metric string) ([]Sample, error) {
	get, err := metricOf(metric)
	if err != nil {
		return nil, err
	}
	var out []Sample
	for i := range recs {
		v := get(&recs[i])
		if !derive.Finite(v) {
			continue
		}
		out = append(out, Sample{recs[i].Algorithm, v})
	}
	return out, nil
}

// ByAlgorithm returns the mean, median and count of the finite values
// of metric for each algorithm, sorted by algorithm. Algorithms with no
// finite value are omitted.
func ByAlgorithm(recs []derive.Record, metric string) ([]Stat, error) {
	samples, err := Values(recs, metric)
	if err != nil || len(samples) == 0 {
		return nil, err
	}

	algs := make([]string, len(samples))
	vals := make([]float64, len(samples))
	for i, s := range samples {
		algs[i], vals[i] = s.Algorithm, s.Value
	}
	var g table.Grouping = new(table.Builder).Add("Algorithm", algs).Add(metric, vals).Done()
	g = table.SortBy(g, "Algorithm")
	g = ggstat.Agg("Algorithm")(
		ggstat.AggMean(metric),
		ggstat.AggQuantile("median", 0.5, metric),
		ggstat.AggCount("count"),
	).F(g)
	t := table.Flatten(g)

	names := t.MustColumn("Algorithm").([]string)
	means := t.MustColumn("mean " + metric).([]float64)
	medians := t.MustColumn("median " + metric).([]float64)
	counts := t.MustColumn("count").([]int)
	out := make([]Stat, len(names))
	for i := range out {
		out[i] = Stat{names[i], means[i], medians[i], counts[i]}
	}
	return out, nil
}

// Fprint prints stats to w as a table headed by metric.
func Fprint(w io.Writer, metric string, stats []Stat) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintf(w, "%s: no finite values\n", metric)
		return err
	}
	var (
		algs    = make([]string, len(stats))
		means   = make([]float64, len(stats))
		medians = make([]float64, len(stats))
		counts  = make([]int, len(stats))
	)
	for i, s := range stats {
		algs[i], means[i], medians[i], counts[i] = s.Algorithm, s.Mean, s.Median, s.Count
	}
	t := new(table.Builder).
		Add("algorithm", algs).
		Add("mean", means).
		Add("median", medians).
		Add("n", counts).
		Done()
	if _, err := fmt.Fprintf(w, "%s\n", metric); err != nil {
		return err
	}
	return table.Fprint(w, t, "%s", "%.4f", "%.4f", "%d")
}

// Best returns, for each algorithm, the record with the smallest finite
// value of metric, sorted by algorithm. An empty metric means
// DefaultMetric. Ties go to the earlier record.
func Best(recs []derive.Record, metric string) ([]derive.Record, error) {
	if metric == "" {
		metric = DefaultMetric
	}
	get, err := metricOf(metric)
	if err != nil {
		return nil, err
	}
	best := make(map[string]int)
	for i := range recs {
		v := get(&recs[i])
		if !derive.Finite(v) {
			continue
		}
		j, ok := best[recs[i].Algorithm]
		if !ok || v < get(&recs[j]) {
			best[recs[i].Algorithm] = i
		}
	}
	out := make([]derive.Record, 0, len(best))
	for _, i := range best {
		out = append(out, recs[i])
	}
	slices.SortFunc(out, func(a, b derive.Record) bool {
		return a.Algorithm < b.Algorithm
	})
	return out, nil
}

// A Point is one algorithm's position in the overview chart.
type Point struct {
	Label string
	X, Y  float64
}

// Overview metrics.
const (
	OverviewX = "Relative Miss Ratio [LRU]"
	OverviewY = "Relative Promotion [LRU]"
)

// Overview returns, for each algorithm with finite values of both, the
// mean of OverviewX against the mean of OverviewY.
func Overview(recs []derive.Record) ([]Point, error) {
	xs, err := ByAlgorithm(recs, OverviewX)
	if err != nil {
		return nil, err
	}
	ys, err := ByAlgorithm(recs, OverviewY)
	if err != nil {
		return nil, err
	}
	y := make(map[string]float64, len(ys))
	for _, s := range ys {
		y[s.Algorithm] = s.Mean
	}
	var out []Point
	for _, s := range xs {
		if yv, ok := y[s.Algorithm]; ok {
			out = append(out, Point{s.Algorithm, s.Mean, yv})
		}
	}
	return out, nil
}
