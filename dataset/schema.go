// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset persists tables of records.
//
// A table is a slice of some struct type R together with a Schema[R]
// that names its columns. Every table is stored in two equivalent
// forms: a SQLite snapshot for downstream tools (see Snapshot) and a
// CSV file for inspection (see WriteCSV).
//
// Missing values are represented in memory as NaN for float columns
// and as the empty string for string columns.
package dataset

import (
	"fmt"

	"github.com/cacheeval/simfig/simlog"
)

// A Kind is the type of a column.
type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Column is a named field of R.
//
// Exactly one of Str, Int and Float is set, according to Kind. It
// returns a pointer to the field in a record, which is used both to
// read and to write the field.
type Column[R any] struct {
	Name string
	Kind Kind

	Str   func(*R) *string
	Int   func(*R) *int64
	Float func(*R) *float64
}

// StrCol returns a string Column.
func StrCol[R any](name string, f func(*R) *string) Column[R] {
	return Column[R]{Name: name, Kind: String, Str: f}
}

// IntCol returns an integer Column.
func IntCol[R any](name string, f func(*R) *int64) Column[R] {
	return Column[R]{Name: name, Kind: Int, Int: f}
}

// FloatCol returns a float Column.
func FloatCol[R any](name string, f func(*R) *float64) Column[R] {
	return Column[R]{Name: name, Kind: Float, Float: f}
}

// A Schema is the ordered list of columns of a table.
type Schema[R any] []Column[R]

// Lookup returns the column named name.
func (s Schema[R]) Lookup(name string) (Column[R], bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return Column[R]{}, false
}

// Names returns the column names of s in order.
func (s Schema[R]) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Extend returns a schema for R, which embeds an E reachable through
// embed. The columns of base come first, followed by extra.
func Extend[R, E any](base Schema[E], embed func(*R) *E, extra ...Column[R]) Schema[R] {
	out := make(Schema[R], 0, len(base)+len(extra))
	for _, c := range base {
		c := c
		nc := Column[R]{Name: c.Name, Kind: c.Kind}
		switch c.Kind {
		case String:
			nc.Str = func(r *R) *string { return c.Str(embed(r)) }
		case Int:
			nc.Int = func(r *R) *int64 { return c.Int(embed(r)) }
		case Float:
			nc.Float = func(r *R) *float64 { return c.Float(embed(r)) }
		}
		out = append(out, nc)
	}
	return append(out, extra...)
}

// RawSchema is the schema of parsed simulator results. Its column
// names are the contract with the reporting scripts.
var RawSchema = Schema[simlog.Record]{
	StrCol("Config", func(r *simlog.Record) *string { return &r.Config }),
	StrCol("Algorithm", func(r *simlog.Record) *string { return &r.Algorithm }),
	IntCol("Real Cache Size", func(r *simlog.Record) *int64 { return &r.RealCacheSize }),
	IntCol("Request", func(r *simlog.Record) *int64 { return &r.Request }),
	FloatCol("Miss Ratio", func(r *simlog.Record) *float64 { return &r.MissRatio }),
	IntCol("Reinserted", func(r *simlog.Record) *int64 { return &r.Reinserted }),
	StrCol("Trace", func(r *simlog.Record) *string { return &r.Trace }),
	StrCol("Trace Path", func(r *simlog.Record) *string { return &r.TracePath }),
	FloatCol("Cache Size", func(r *simlog.Record) *float64 { return &r.CacheSize }),
	IntCol("Ignore Obj Size", func(r *simlog.Record) *int64 { return &r.IgnoreObjSize }),
	FloatCol("Scale", func(r *simlog.Record) *float64 { return &r.Scale }),
	FloatCol("Bit", func(r *simlog.Record) *float64 { return &r.Bit }),
	StrCol("Variant", func(r *simlog.Record) *string { return &r.Variant }),
}
