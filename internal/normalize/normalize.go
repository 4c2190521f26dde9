// Package normalize converts locale-formatted cell values into canonical
// numeric and date forms.
//
// Monetary values arrive either Brazilian-formatted ("1.234,56") or as plain
// decimals ("1234.56"). Dates are day-first ("05/03/2024") or ISO.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmaia/vendaboard/internal/table"
)

// DefaultDateLayouts are tried in order. Day-first layouts come first so an
// ambiguous string like "01/02/2024" is always 1 February, never 2 January.
var DefaultDateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

// DefaultCurrencySymbols are stripped from monetary strings before parsing.
var DefaultCurrencySymbols = []string{"R$", "$"}

// ValueConversionError reports a cell that does not parse as a valid number.
type ValueConversionError struct {
	Role   string
	Column string
	Row    int // 1-based data row, header excluded
	Value  string
}

func (e *ValueConversionError) Error() string {
	return fmt.Sprintf("%s row %d: column %s: invalid numeric value %q", e.Role, e.Row, e.Column, e.Value)
}

// DateConversionError reports a cell that does not parse as a calendar date.
type DateConversionError struct {
	Role   string
	Column string
	Row    int
	Value  string
}

func (e *DateConversionError) Error() string {
	return fmt.Sprintf("%s row %d: column %s: invalid date %q", e.Role, e.Row, e.Column, e.Value)
}

// Amount parses one monetary string into a non-negative decimal with two
// digits of precision.
//
// When the string contains a comma it is treated as Brazilian-formatted:
// every "." is a thousands separator and the comma is the decimal mark.
// Without a comma the string is parsed as a plain decimal, so pre-parsed
// inputs like "1234.56" survive untouched.
func Amount(s string, currencySymbols []string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if currencySymbols == nil {
		currencySymbols = DefaultCurrencySymbols
	}
	for _, sym := range currencySymbols {
		clean = strings.ReplaceAll(clean, sym, "")
	}
	clean = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' || r == '\t' {
			return -1
		}
		return r
	}, clean)

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d.Round(2), nil
}

// Date parses one date string using the given layouts in order. A nil slice
// means DefaultDateLayouts. Impossible dates ("31/13/2024") fail for every
// layout.
func Date(s string, layouts []string) (time.Time, error) {
	if layouts == nil {
		layouts = DefaultDateLayouts
	}
	clean := strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Quantity parses a whole-number cell. Fractional quantities are rejected.
func Quantity(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(strings.Replace(clean, ",", ".", 1))
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return d.IntPart(), nil
}

// AmountColumn normalizes an entire monetary column, preserving row order and
// count. The first bad cell aborts with a ValueConversionError.
func AmountColumn(t *table.Table, col string, currencySymbols []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, t.Len())
	for row := 0; row < t.Len(); row++ {
		raw := t.Cell(row, col)
		d, err := Amount(raw, currencySymbols)
		if err != nil {
			return nil, &ValueConversionError{Role: t.Role, Column: col, Row: row + 1, Value: raw}
		}
		out[row] = d
	}
	return out, nil
}

// DateColumn normalizes an entire date column, preserving row order and
// count. The first bad cell aborts with a DateConversionError.
func DateColumn(t *table.Table, col string, layouts []string) ([]time.Time, error) {
	out := make([]time.Time, t.Len())
	for row := 0; row < t.Len(); row++ {
		raw := t.Cell(row, col)
		d, err := Date(raw, layouts)
		if err != nil {
			return nil, &DateConversionError{Role: t.Role, Column: col, Row: row + 1, Value: raw}
		}
		out[row] = d
	}
	return out, nil
}

// QuantityColumn normalizes an entire quantity column.
func QuantityColumn(t *table.Table, col string) ([]int64, error) {
	out := make([]int64, t.Len())
	for row := 0; row < t.Len(); row++ {
		raw := t.Cell(row, col)
		n, err := Quantity(raw)
		if err != nil {
			return nil, &ValueConversionError{Role: t.Role, Column: col, Row: row + 1, Value: raw}
		}
		out[row] = n
	}
	return out, nil
}
