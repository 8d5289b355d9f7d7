// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Simsummary prints per-algorithm summaries of processed simulator
// results.
//
// Usage:
//
//	simsummary [--metric name]... [--best name] [--chart overview.png] <processed.db>
//
// For each metric, simsummary prints the mean, median and number of
// finite values per algorithm. It then prints, per algorithm, the
// configuration with the smallest value of the --best metric. With
// --chart, it also plots each algorithm's mean relative miss ratio
// against its mean relative promotion count.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aclements/go-gg/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cacheeval/simfig/dataset"
	"github.com/cacheeval/simfig/derive"
	"github.com/cacheeval/simfig/internal/cli"
	"github.com/cacheeval/simfig/summary"
)

type options struct {
	metrics []string
	best    string
	chart   string
}

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	var opt options
	cmd := &cobra.Command{
		Use:   "simsummary [flags] <processed.db>",
		Short: "Summarize processed simulator results per algorithm",
		Args:  cli.Arg("processed.db"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opt)
		},
	}
	cmd.Flags().StringArrayVar(&opt.metrics, "metric", append([]string(nil), summary.DefaultMetrics...), "summarize metric `name` (repeatable)")
	cmd.Flags().StringVar(&opt.best, "best", summary.DefaultMetric, "print the configuration minimizing metric `name`")
	cmd.Flags().StringVar(&opt.chart, "chart", "", "write the overview chart to `file`")
	cli.AddLogLevel(cmd)
	return cmd
}

func run(ctx context.Context, w io.Writer, input string, opt options) error {
	recs, err := dataset.Load(ctx, input, derive.ProcessedSchema)
	if err != nil {
		return err
	}
	logrus.Debugf("loaded %d records from %s", len(recs), input)

	for i, metric := range opt.metrics {
		stats, err := summary.ByAlgorithm(recs, metric)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := summary.Fprint(w, metric, stats); err != nil {
			return err
		}
	}

	if opt.best != "" {
		best, err := summary.Best(recs, opt.best)
		if err != nil {
			return err
		}
		if err := printBest(w, opt.best, best); err != nil {
			return err
		}
	}

	if opt.chart != "" {
		points, err := summary.Overview(recs)
		if err != nil {
			return err
		}
		if err := summary.Chart(points, opt.chart); err != nil {
			return err
		}
		logrus.Infof("wrote %s", opt.chart)
	}
	return nil
}

func printBest(w io.Writer, metric string, best []derive.Record) error {
	if _, err := fmt.Fprintf(w, "\nbest by %s\n", metric); err != nil {
		return err
	}
	if len(best) == 0 {
		_, err := fmt.Fprintln(w, "no finite values")
		return err
	}
	var algs, configs, traces []string
	var sizes []float64
	for _, r := range best {
		algs = append(algs, r.Algorithm)
		configs = append(configs, r.Config)
		traces = append(traces, r.TracePath)
		sizes = append(sizes, r.CacheSize)
	}
	t := new(table.Builder).
		Add("algorithm", algs).
		Add("config", configs).
		Add("trace", traces).
		Add("cache size", sizes).
		Done()
	return table.Fprint(w, t, "%s", "%s", "%s", "%g")
}
