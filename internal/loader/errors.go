// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"fmt"
	"strings"
)

// SchemaError reports an input table that lacks required columns, or an
// enrichment table with no usable weight column.
type SchemaError struct {
	// Table names the input: "enrichment", "genes", or "mapping".
	Table string

	// Path is the file that was read.
	Path string

	// Missing lists the absent columns, in the order they are required.
	Missing []string

	// Reason describes failures not tied to specific columns.
	Reason string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required columns in %s file %s: %s",
			e.Table, e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s file %s: %s", e.Table, e.Path, e.Reason)
}

// ParseError reports a cell that could not be read as a finite number.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: column %s: invalid number %q: %v", e.Path, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
