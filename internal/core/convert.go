package core

// convert.go provides permissive type coercion for spreadsheet cells and form
// input.
//
// These functions handle the messy reality of hand-edited spreadsheets:
//   - Currency symbols and thousand separators in numbers
//   - Accounting format for negatives "(12.50)"
//   - Excel formula prefixes (="value")
//   - Stray quotes and whitespace
//
// The Coerce* functions never fail: anything unparseable becomes the zero
// value, which is how the backing file is read. Numeric cleanup applies to
// number cells only; text cells keep their characters.

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// maxQuantity is the largest quantity an int can hold.
var maxQuantity = decimal.NewFromInt(int64(math.MaxInt))

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// ParseDecimal converts a cleaned cell to a decimal.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = CleanCell(s)
	if s == "" {
		return decimal.Zero, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CoerceQuantity converts a cell to a non-negative whole quantity.
// Non-numeric, negative and out-of-range values become 0; fractions truncate
// toward zero.
func CoerceQuantity(s string) int {
	d, ok := ParseDecimal(s)
	if !ok || d.IsNegative() || d.GreaterThan(maxQuantity) {
		return 0
	}
	return int(d.IntPart())
}

// CoerceMoney converts a cell to a decimal; non-numeric and negative values
// become 0.
func CoerceMoney(s string) decimal.Decimal {
	d, ok := ParseDecimal(s)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// CoerceText converts a cell to a trimmed string. Text cells are otherwise
// kept verbatim. A number cell holding a float-looking integer ("123.0") is
// read as "123" so numeric SKUs survive a spreadsheet editor.
func CoerceText(s string, numeric bool) string {
	s = strings.TrimSpace(s)
	if numeric && strings.HasSuffix(s, ".0") && numericRegex.MatchString(s) {
		return strings.TrimSuffix(s, ".0")
	}
	return s
}

// MakeHeaderIndex creates a HeaderIndex from a header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; dup {
			continue // first occurrence wins
		}
		idx[key] = i
	}
	return idx
}

// Cell returns the value of the named column in row, or "" when the column is
// absent from the header or the row is short.
func (h HeaderIndex) Cell(row []string, column string) string {
	pos, ok := h.Pos(column)
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// Pos returns the zero-based position of the named column.
func (h HeaderIndex) Pos(column string) (int, bool) {
	pos, ok := h[strings.ToLower(column)]
	return pos, ok
}

// CleanCell removes common spreadsheet artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
