// Package table reads uploaded CSV extracts into ordered, named-column row sets.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance bounds how far a header may be from a required
// column name and still be offered as a suggestion.
const maxSuggestionDistance = 2

// SchemaError reports a required column missing from an extract header.
type SchemaError struct {
	Role       string
	Column     string
	Suggestion string
}

func (e *SchemaError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: required column %q not found (closest header: %q)", e.Role, e.Column, e.Suggestion)
	}
	return fmt.Sprintf("%s: required column %q not found", e.Role, e.Column)
}

// Table is an ordered sequence of rows with named columns, as read from one
// uploaded extract. It is discarded once joined into the fact table.
type Table struct {
	Role    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// Options controls CSV reading.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// ReadCSV reads one extract. The first record is always the header; blank
// records are skipped; short rows are tolerated (absent cells read as "").
func ReadCSV(r io.Reader, role string, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Role: role, index: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("%s: read header: %w", role, err)
	}

	t := &Table{Role: role, index: make(map[string]int, len(header))}
	for i, col := range header {
		col = strings.TrimSpace(col)
		t.Columns = append(t.Columns, col)
		key := strings.ToLower(col)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: read row %d: %w", role, len(t.Rows)+2, err)
		}
		if isBlankRecord(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// Len reports the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the header contains col (case-insensitive).
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[strings.ToLower(strings.TrimSpace(col))]
	return ok
}

// Cell returns the value at (row, col), trimmed. Absent columns and cells
// beyond a short row read as "".
func (t *Table) Cell(row int, col string) string {
	i, ok := t.index[strings.ToLower(strings.TrimSpace(col))]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	rec := t.Rows[row]
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Column returns all values of one column in row order.
func (t *Table) Column(col string) []string {
	out := make([]string, len(t.Rows))
	for row := range t.Rows {
		out[row] = t.Cell(row, col)
	}
	return out
}

// Require checks that every named column is present, returning a SchemaError
// for the first one missing. The error carries the nearest observed header as
// a suggestion when one is plausibly a typo or case variant.
func (t *Table) Require(cols ...string) error {
	for _, col := range cols {
		if t.HasColumn(col) {
			continue
		}
		return &SchemaError{
			Role:       t.Role,
			Column:     col,
			Suggestion: t.closestHeader(col),
		}
	}
	return nil
}

func (t *Table) closestHeader(col string) string {
	want := strings.ToLower(strings.TrimSpace(col))
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, h := range t.Columns {
		d := levenshtein.ComputeDistance(want, strings.ToLower(h))
		if d < bestDist {
			best = h
			bestDist = d
		}
	}
	return best
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
