// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simlog

import (
	"bufio"
	"fmt"
	"io"
)

// A Reader reads simulator result lines for a single trace.
//
// Its API is modeled on bufio.Scanner. Lines that are not result
// lines are skipped. A result line that cannot be decoded stops the
// Reader; the error is reported by Err. So does a line longer than
// 1 MiB.
type Reader struct {
	s         *bufio.Scanner
	parser    Parser
	fileName  string
	tracePath string
	line      int

	result Record
	err    error
}

// maxLineLen is the longest log line a Reader accepts. A longer line
// stops the Reader with an error wrapping bufio.ErrTooLong.
const maxLineLen = 1 << 20

// A SyntaxError reports a result line that could not be decoded.
type SyntaxError struct {
	FileName string
	Line     int
	Err      error
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.FileName, e.Line, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// NewReader returns a Reader that parses the lines of r as results of
// simulating tracePath. fileName is used in error messages; it is
// purely diagnostic.
func NewReader(r io.Reader, fileName, tracePath string, p Parser) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	s := bufio.NewScanner(r)
	s.Buffer(nil, maxLineLen)
	return &Reader{
		s:         s,
		parser:    p,
		fileName:  fileName,
		tracePath: tracePath,
	}
}

// Scan advances the reader to the next result and reports whether a
// result was read. The caller should use the Result method to get the
// result. If Scan reaches EOF or an error occurs, it returns false, in
// which case the caller should use the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		rec, ok, err := r.parser.ParseLine(r.s.Text(), r.tracePath)
		if err != nil {
			r.err = &SyntaxError{r.fileName, r.line, err}
			return false
		}
		if ok {
			r.result = rec
			return true
		}
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line+1, err)
	}
	return false
}

// Result returns the Record that was just read by Scan.
func (r *Reader) Result() Record {
	return r.result
}

// Err returns the first error that stopped Scan, if any.
// If Scan stopped because it read the input to completion,
// or if Scan has not yet returned false, Err returns nil.
func (r *Reader) Err() error {
	return r.err
}
