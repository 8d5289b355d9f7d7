// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the command-line plumbing shared by the commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Arg returns a cobra.PositionalArgs that accepts exactly one
// positional argument, described in errors as name.
func Arg(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		switch {
		case len(args) == 0:
			return fmt.Errorf("missing required argument: %s", name)
		case len(args) > 1:
			return fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
		}
		return nil
	}
}

// AddLogLevel adds a --log-level flag to cmd and sets the logrus level
// from it before cmd runs.
func AddLogLevel(cmd *cobra.Command) {
	var level string
	cmd.PersistentFlags().StringVar(&level, "log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		l, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(l)
		logrus.SetOutput(cmd.ErrOrStderr())
		return nil
	}
}

// Main runs cmd with the process arguments. On failure it prints the
// error to stderr and exits with status 1.
func Main(cmd *cobra.Command) {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd.Name(), err)
		os.Exit(1)
	}
}
