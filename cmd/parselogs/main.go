// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Parselogs extracts simulator results from a tree of cache simulator
// logs.
//
// Usage:
//
//	parselogs [--config file] [--manifest datasets.txt] [--out data] <log-dir>
//
// Every "*.cachesim*" log under log-dir whose trace is listed in the
// manifest is parsed. The records are written to data.db and data.csv
// in the output directory, replacing earlier results.
package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cacheeval/simfig/dataset"
	"github.com/cacheeval/simfig/internal/cli"
	"github.com/cacheeval/simfig/internal/config"
	"github.com/cacheeval/simfig/simlog"
)

func main() {
	cli.Main(newCommand())
}

func newCommand() *cobra.Command {
	var configFile, manifest, out string
	cmd := &cobra.Command{
		Use:   "parselogs [flags] <log-dir>",
		Short: "Extract simulator results from cache simulator logs",
		Args:  cli.Arg("log-dir"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("manifest") {
				cfg.Manifest = manifest
			}
			if cmd.Flags().Changed("out") {
				cfg.OutputDir = out
			}
			return run(cmd.Context(), args[0], cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "YAML configuration `file`")
	cmd.Flags().StringVar(&manifest, "manifest", "datasets.txt", "trace manifest `file`")
	cmd.Flags().StringVar(&out, "out", "data", "output `directory`")
	cli.AddLogLevel(cmd)
	return cmd
}

func run(ctx context.Context, logDir string, cfg config.Config) error {
	m, err := simlog.ReadManifest(cfg.Manifest)
	if err != nil {
		return err
	}
	logrus.Debugf("manifest %s: %d traces", cfg.Manifest, m.Len())

	recs, err := simlog.ReadAll(&simlog.Files{
		Root:     logDir,
		Manifest: m,
		Parser:   cfg.Parser(),
	})
	if err != nil {
		return err
	}
	if err := dataset.Save(ctx, cfg.OutputDir, "data", dataset.RawSchema, recs); err != nil {
		return err
	}
	db, csv := dataset.Paths(cfg.OutputDir, "data")
	logrus.Infof("wrote %d records to %s and %s", len(recs), db, csv)
	return nil
}
