// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// A Files reads Records from every log file under a directory tree.
//
// Files are visited in lexical path order, so the sequence of Records
// is deterministic for a given tree. Files the Manifest does not know
// about are skipped.
type Files struct {
	// Root is the directory to walk.
	Root string

	// Manifest resolves log files to trace paths.
	Manifest *Manifest

	// Parser decodes result lines.
	Parser Parser

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet.
	inputs []input

	reader *Reader
	file   *os.File
	err    error

	skipped int
}

type input struct {
	path      string
	tracePath string
}

// init walks f.Root and records the files to read.
func (f *Files) init() error {
	f.inputs = []input{}
	if f.Manifest == nil {
		return fmt.Errorf("simlog: Files has no Manifest")
	}
	info, err := os.Stat(f.Root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", f.Root)
	}
	return filepath.WalkDir(f.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		tracePath, ok := f.Manifest.Lookup(p)
		if !ok {
			logrus.Debugf("%s: no trace %q in manifest, skipping", p, LogKey(p))
			f.skipped++
			return nil
		}
		f.inputs = append(f.inputs, input{p, tracePath})
		return nil
	})
}

// Scan advances to the next Record in the sequence of files and
// reports whether a Record was read. The caller should use the Result
// method to get the Record. If Scan reaches the end of the last file,
// or if an error occurs, it returns false. In this case, the caller
// should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		if err := f.init(); err != nil {
			f.err = err
			return false
		}
	}

	for {
		if f.file == nil {
			if len(f.inputs) == 0 {
				return false
			}
			inp := f.inputs[0]
			f.inputs = f.inputs[1:]

			file, err := os.Open(inp.path)
			if err != nil {
				f.err = err
				return false
			}
			f.file = file
			f.reader = NewReader(file, inp.path, inp.tracePath, f.Parser)
		}

		if f.reader.Scan() {
			return true
		}
		err := f.reader.Err()
		f.file.Close()
		f.file = nil
		if err != nil {
			f.err = err
			return false
		}
	}
}

// Result returns the Record that was just read by Scan.
func (f *Files) Result() Record {
	return f.reader.Result()
}

// Err returns the error that stopped Scan, if any.
func (f *Files) Err() error {
	return f.err
}

// Skipped returns the number of files that were not read because the
// Manifest has no entry for them.
func (f *Files) Skipped() int {
	return f.skipped
}

// ReadAll reads every Record from f and removes duplicates with Dedup.
func ReadAll(f *Files) ([]Record, error) {
	var recs []Record
	for f.Scan() {
		recs = append(recs, f.Result())
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	n := len(recs)
	recs = Dedup(recs)
	logrus.Infof("read %d records (%d duplicates dropped, %d files skipped)", len(recs), n-len(recs), f.skipped)
	return recs, nil
}
