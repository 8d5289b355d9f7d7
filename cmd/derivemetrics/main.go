// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Derivemetrics computes relative metrics from parsed simulator
// results.
//
// Usage:
//
//	derivemetrics [--config file] [--out data] <data.db>
//
// The records in data.db are rounded and filtered, and each is compared
// against its FIFO, LRU and FR baselines. The result is written to
// processed.db and processed.csv in the output directory.
package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cacheeval/simfig/dataset"
	"github.com/cacheeval/simfig/derive"
	"github.com/cacheeval/simfig/internal/cli"
	"github.com/cacheeval/simfig/internal/config"
)

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	var configFile, out string
	cmd := &cobra.Command{
		Use:   "derivemetrics [flags] <data.db>",
		Short: "Compute relative metrics from parsed simulator results",
		Args:  cli.Arg("data.db"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				cfg.OutputDir = out
			}
			return run(cmd.Context(), args[0], cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration `file`")
	cmd.Flags().StringVar(&out, "out", "data", "output `directory`")
	cli.AddLogLevel(cmd)
	return cmd
}

func run(ctx context.Context, input string, cfg config.Config) error {
	raw, err := dataset.Load(ctx, input, dataset.RawSchema)
	if err != nil {
		return err
	}
	recs := derive.Process(raw, cfg.Options())
	if err := dataset.Save(ctx, cfg.OutputDir, "processed", derive.ProcessedSchema, recs); err != nil {
		return err
	}
	db, csv := dataset.Paths(cfg.OutputDir, "processed")
	logrus.Infof("wrote %d records to %s and %s", len(recs), db, csv)
	return nil
}
