// Package delimited parses delimiter-separated text (CSV, TSV and friends)
// into a DataFrame.
//
// Two paths exist: an eager batch path that materializes the whole file,
// and a streaming path for files too large to buffer. Both feed records
// through the same coercion and accumulation functions, so they produce
// row-equivalent frames for the same input.
//
// Option keys (see internal/config.Options):
//
//	delimiter          rune; sniffed from a sample when absent
//	skip_rows          int; raw lines discarded before the header
//	max_rows           int; 0 means unlimited
//	sample_rate        float in (0,1]; per-row Bernoulli retention (streaming)
//	decimal_separator  string; "." (default) or ","
//	encoding           string; IANA charset name, empty means UTF-8
package delimited

import (
	"encoding/csv"
	"fmt"
	"io"

	"tabular/internal/coerce"
	"tabular/internal/config"
	"tabular/pkg/frame"
)

// ParseError wraps a malformed-stream failure from the underlying csv
// reader. Ragged records are NOT errors (the reader runs with
// FieldsPerRecord disabled); this surfaces only genuinely broken streams.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: line %d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// newCSVReader configures the tolerant reader shared by both paths:
// inconsistent field counts are accepted, stray quotes are lazily parsed.
func newCSVReader(r io.Reader, delim rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

func coerceOptions(opt config.Options) coerce.Options {
	return coerce.Options{
		DecimalSeparator: opt.String("decimal_separator", "."),
	}
}

// appendRecord is the per-row accumulation step: coerce, then append with
// ragged-row padding. Blank rows are dropped rather than counted.
func appendRecord(b *frame.Builder, rec []string, co coerce.Options) {
	if coerce.Blank(rec) {
		return
	}
	b.Append(coerce.Record(rec, co))
}
