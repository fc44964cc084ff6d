package coerce

import (
	"strings"

	"tabular/pkg/frame"
)

// Record coerces every cell of one raw record. It is the single per-row
// transformation shared by the batch and streaming delimited parsers (and
// reused by the sheet and HTML readers), so all paths classify cells
// identically by construction.
func Record(cells []string, opt Options) []frame.Value {
	out := make([]frame.Value, len(cells))
	for i, c := range cells {
		out[i] = Value(c, opt)
	}
	return out
}

// Blank reports whether a raw record has no non-empty cells. Parsers drop
// such rows instead of counting them.
func Blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
