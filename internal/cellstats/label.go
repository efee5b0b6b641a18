package cellstats

import (
	"fmt"
	"strconv"
	"strings"
)

// CellLabel returns the display label of a cell: the row letter followed by
// the 1-based column number, e.g. row 0 col 0 -> "A1", row 2 col 9 -> "C10".
//
// Returns an empty string if row or col is outside [0, 26).
func CellLabel(row, col int) string {
	if row < 0 || row >= MaxGridSize || col < 0 || col >= MaxGridSize {
		return ""
	}
	return string(rune('A'+row)) + strconv.Itoa(col+1)
}

// GridLabels returns the labels of every cell of spec, indexed [row][col].
func GridLabels(spec GridSpec) [][]string {
	labels := make([][]string, spec.Rows)
	for row := range labels {
		labels[row] = make([]string, spec.Cols)
		for col := range labels[row] {
			labels[row][col] = CellLabel(row, col)
		}
	}
	return labels
}

// ParseCellLabel converts a cell address back to zero-based row and column
// indices.
//
// Two forms are accepted:
//   - Letter + number, case-insensitive: "A1", "c4", "Z26"
//   - Zero-based "row-col": "0-0", "2-3"
//
// Only the syntax and the [0, 26) index range are checked; use CellRect to
// check the address against a specific grid.
func ParseCellLabel(label string) (row, col int, err error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return 0, 0, fmt.Errorf("%w: empty label", ErrInvalidCellLabel)
	}

	if r, c, ok := strings.Cut(s, "-"); ok {
		row, okR := parseDigits(r)
		col, okC := parseDigits(c)
		if !okR || !okC {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellLabel, label)
		}
		if row < 0 || row >= MaxGridSize || col < 0 || col >= MaxGridSize {
			return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidCellLabel, label)
		}
		return row, col, nil
	}

	letter := s[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return 0, 0, fmt.Errorf("%w: %q must start with a row letter", ErrInvalidCellLabel, label)
	}
	n, ok := parseDigits(s[1:])
	if !ok || n < 1 || n > MaxGridSize {
		return 0, 0, fmt.Errorf("%w: %q needs a column number 1-%d", ErrInvalidCellLabel, label, MaxGridSize)
	}
	return int(letter - 'A'), n - 1, nil
}

// parseDigits accepts only unsigned decimal digits, so "+1" and "-0" are
// rejected even though strconv.Atoi would take them.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}
