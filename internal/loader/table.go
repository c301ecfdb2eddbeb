// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// table is a fully buffered delimited file with a header row.
type table struct {
	path    string
	name    string
	columns []string
	index   map[string]int
	rows    [][]string
	lines   []int
}

// parseTable reads delimited data with a header row. Short rows are padded
// with empty cells; duplicate header names resolve to the first occurrence.
func parseTable(name, path string, data []byte, comma rune) (*table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Table: name, Path: path, Reason: "no header row"}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}

	t := &table{
		path:    path,
		name:    name,
		columns: header,
		index:   make(map[string]int, len(header)),
	}
	for i, col := range header {
		if _, ok := t.index[col]; !ok {
			t.index[col] = i
		}
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		t.rows = append(t.rows, rec)
		t.lines = append(t.lines, line)
	}
	return t, nil
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// require returns a SchemaError naming every absent column, or nil.
func (t *table) require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &SchemaError{Table: t.name, Path: t.path, Missing: missing}
}

// value returns the raw cell for row i, or "" when the column is absent.
func (t *table) value(i int, col string) string {
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.rows[i][idx]
}

// optional returns a pointer to the trimmed cell, or nil when the column is
// absent or the cell is blank.
func (t *table) optional(i int, col string) *string {
	v := strings.TrimSpace(t.value(i, col))
	if v == "" {
		return nil
	}
	return &v
}

// float parses a required numeric cell. NaN and infinities are rejected.
func (t *table) float(i int, col string) (float64, error) {
	raw := t.value(i, col)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		return 0, &ParseError{Path: t.path, Line: t.lines[i], Column: col, Value: raw, Err: err}
	}
	return f, nil
}
