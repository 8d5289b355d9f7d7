// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	_ "github.com/mattn/go-sqlite3"
)

// A snapshot is a SQLite database holding a single table, named by
// snapshotTable, whose columns are the columns of a Schema in order.
const snapshotTable = "records"

var sqlTypes = map[Kind]string{
	String: "TEXT",
	Int:    "INTEGER",
	Float:  "REAL",
}

// createTmpl is the template used to prepare the CREATE statement for
// a snapshot. It is evaluated with . as a slice of column definitions.
var createTmpl = template.Must(template.New("create").Funcs(template.FuncMap{
	"quote": quoteIdent,
}).Parse(`
CREATE TABLE {{quote "` + snapshotTable + `"}} (
{{- range $i, $c := .}}
	{{if $i}},{{end}}{{quote $c.Name}} {{$c.Type}}
{{- end}}
)`))

type colDef struct {
	Name, Type string
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteSnapshot writes rows to a new SQLite database at path,
// replacing any existing file. The database is written to a temporary
// file first, so path is either left untouched or holds the complete
// table.
func WriteSnapshot[R any](ctx context.Context, path string, s Schema[R], rows []R) error {
	tmp := path + ".tmp"
	if err := writeSnapshotFile(ctx, tmp, s, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

// writeSnapshotFile writes rows to a new SQLite database at path. On
// failure it removes path.
func writeSnapshotFile[R any](ctx context.Context, path string, s Schema[R], rows []R) (err error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	dsn, err := sqliteURI(path, "rwc")
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}
	if err := writeTable(ctx, db, s, rows); err != nil {
		db.Close()
		return err
	}
	return db.Close()
}

// sqliteURI returns the SQLite URI filename that opens the file at
// path in the given mode. The path is escaped, so names holding '?',
// '#' or '%' open the file they name.
func sqliteURI(path, mode string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=" + mode}
	return u.String(), nil
}

func writeTable[R any](ctx context.Context, db *sql.DB, s Schema[R], rows []R) error {
	defs := make([]colDef, len(s))
	for i, c := range s {
		t, ok := sqlTypes[c.Kind]
		if !ok {
			return fmt.Errorf("column %q has bad kind %v", c.Name, c.Kind)
		}
		defs[i] = colDef{c.Name, t}
	}
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, defs); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, buf.String()); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(snapshotTable), strings.TrimSuffix(strings.Repeat("?, ", len(s)), ", "))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, len(s))
	for i := range rows {
		r := &rows[i]
		for j, c := range s {
			args[j] = sqlValue(c, r)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// sqlValue returns the value of column c of r, with missing values
// mapped to NULL.
func sqlValue[R any](c Column[R], r *R) interface{} {
	switch c.Kind {
	case String:
		if v := *c.Str(r); v != "" {
			return v
		}
	case Int:
		return *c.Int(r)
	case Float:
		if v := *c.Float(r); !math.IsNaN(v) {
			return v
		}
	}
	return nil
}

// ReadSnapshot reads the table written by WriteSnapshot at path.
// Columns are matched by name, so the snapshot may hold columns that
// s does not.
func ReadSnapshot[R any](ctx context.Context, path string, s Schema[R]) ([]R, error) {
	// Opening a missing file would create an empty database.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	dsn, err := sqliteURI(path, "ro")
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := readTable(ctx, db, s)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

func readTable[R any](ctx context.Context, db *sql.DB, s Schema[R]) ([]R, error) {
	cols := make([]string, len(s))
	for i, c := range s {
		cols[i] = quoteIdent(c.Name)
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(cols, ", "), quoteIdent(snapshotTable))
	res, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	dest := make([]interface{}, len(s))
	strs := make([]sql.NullString, len(s))
	ints := make([]sql.NullInt64, len(s))
	floats := make([]sql.NullFloat64, len(s))
	for j, c := range s {
		switch c.Kind {
		case String:
			dest[j] = &strs[j]
		case Int:
			dest[j] = &ints[j]
		case Float:
			dest[j] = &floats[j]
		default:
			return nil, fmt.Errorf("column %q has bad kind %v", c.Name, c.Kind)
		}
	}

	var out []R
	for res.Next() {
		if err := res.Scan(dest...); err != nil {
			return nil, err
		}
		var r R
		for j, c := range s {
			switch c.Kind {
			case String:
				*c.Str(&r) = strs[j].String
			case Int:
				if !ints[j].Valid {
					return nil, fmt.Errorf("row %d: column %q is NULL", len(out)+1, c.Name)
				}
				*c.Int(&r) = ints[j].Int64
			case Float:
				if floats[j].Valid {
					*c.Float(&r) = floats[j].Float64
				} else {
					*c.Float(&r) = math.NaN()
				}
			}
		}
		out = append(out, r)
	}
	return out, res.Err()
}
