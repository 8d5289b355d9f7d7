// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Paths returns the snapshot and CSV paths Save uses for base in dir.
func Paths(dir, base string) (snapshot, csv string) {
	return filepath.Join(dir, base+".db"), filepath.Join(dir, base+".csv")
}

// Save writes rows to dir as base.db and base.csv, creating dir if
// needed and replacing existing files. Both files are written under
// temporary names and renamed into place only once both are complete.
func Save[R any](ctx context.Context, dir, base string, s Schema[R], rows []R) (err error) {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	dbPath, csvPath := Paths(dir, base)
	dbTmp, csvTmp := dbPath+".tmp", csvPath+".tmp"
	defer func() {
		if err != nil {
			os.Remove(dbTmp)
			os.Remove(csvTmp)
		}
	}()

	if err := writeSnapshotFile(ctx, dbTmp, s, rows); err != nil {
		return fmt.Errorf("writing %s: %w", dbPath, err)
	}
	if err := writeCSVFile(csvTmp, s, rows); err != nil {
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}
	if err := os.Rename(dbTmp, dbPath); err != nil {
		return err
	}
	return os.Rename(csvTmp, csvPath)
}

// writeCSVFile writes rows as CSV to a new file at path. On failure it
// removes path.
func writeCSVFile[R any](path string, s Schema[R], rows []R) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(path)
		}
	}()
	w := bufio.NewWriter(f)
	if err = WriteCSV(w, s, rows); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// Load reads the table saved in the snapshot at path.
func Load[R any](ctx context.Context, path string, s Schema[R]) ([]R, error) {
	return ReadSnapshot(ctx, path, s)
}
