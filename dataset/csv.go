// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// WriteCSV writes rows to out as CSV with a header row of column
// names. NaN is written as an empty field and infinities as "inf" and
// "-inf".
func WriteCSV[R any](out io.Writer, s Schema[R], rows []R) error {
	w := csv.NewWriter(out)
	if err := w.Write(s.Names()); err != nil {
		return err
	}
	fields := make([]string, len(s))
	for i := range rows {
		r := &rows[i]
		for j, c := range s {
			fields[j] = formatField(c, r)
		}
		if err := w.Write(fields); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatField[R any](c Column[R], r *R) string {
	switch c.Kind {
	case String:
		return *c.Str(r)
	case Int:
		return strconv.FormatInt(*c.Int(r), 10)
	case Float:
		return strof(*c.Float(r))
	}
	panic(fmt.Sprintf("column %q has bad kind %v", c.Name, c.Kind))
}

func strof(x float64) string {
	switch {
	case math.IsNaN(x):
		return ""
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ReadCSV reads a table written by WriteCSV. Columns are matched by
// name; the file may hold extra columns, but every column of s must be
// present.
func ReadCSV[R any](in io.Reader, s Schema[R]) ([]R, error) {
	cr := csv.NewReader(in)
	hdr, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: missing header")
	} else if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(hdr))
	for i, name := range hdr {
		pos[name] = i
	}
	idx := make([]int, len(s))
	for j, c := range s {
		i, ok := pos[c.Name]
		if !ok {
			return nil, fmt.Errorf("csv: missing column %q", c.Name)
		}
		idx[j] = i
	}

	var rows []R
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		var r R
		for j, c := range s {
			if err := parseField(c, &r, fields[idx[j]]); err != nil {
				line, _ := cr.FieldPos(idx[j])
				return nil, fmt.Errorf("csv:%d: column %q: %w", line, c.Name, err)
			}
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func parseField[R any](c Column[R], r *R, f string) error {
	switch c.Kind {
	case String:
		*c.Str(r) = f
	case Int:
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return err
		}
		*c.Int(r) = v
	case Float:
		if f == "" {
			*c.Float(r) = math.NaN()
			return nil
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return err
		}
		*c.Float(r) = v
	default:
		return fmt.Errorf("bad kind %v", c.Kind)
	}
	return nil
}
