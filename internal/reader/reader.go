// Package reader ties format detection, parsing, type inference and quality
// analysis into one entry point. A Service is stateless; every call carries
// all the inputs it needs, so concurrent reads of different files are safe.
package reader

import (
	"tabular/internal/config"
)

// Options controls a single read. The zero value asks for full automatic
// behavior: detect the format, sniff the delimiter, read every row.
type Options struct {
	// Sheet selects a workbook sheet by name. Empty means the first sheet.
	Sheet string

	// Delimiter overrides delimiter sniffing for delimited formats.
	Delimiter rune

	// Encoding is an IANA character set name ("windows-1252", "latin1").
	// Empty or "utf-8" reads bytes as-is.
	Encoding string

	// SkipRows skips leading rows before the header.
	SkipRows int

	// HeaderRow is the 1-based header position within a sheet. Zero means 1.
	HeaderRow int

	// MaxRows caps the number of data rows. Zero means unlimited.
	MaxRows int

	// SampleRate keeps roughly this fraction of rows when streaming.
	// Values outside (0,1) keep every row.
	SampleRate float64

	// DecimalSeparator selects "," for European-style numbers. Default ".".
	DecimalSeparator string

	// Streaming forces the incremental strategy for delimited files
	// regardless of size.
	Streaming bool

	// StreamingThreshold is the file size in bytes above which delimited
	// files stream instead of loading whole. Zero means 100 MiB.
	StreamingThreshold int64
}

const defaultStreamingThreshold = 100 << 20

func (o Options) streamingThreshold() int64 {
	if o.StreamingThreshold > 0 {
		return o.StreamingThreshold
	}
	return defaultStreamingThreshold
}

// parserOptions translates the public struct into the option bag the parser
// packages consume.
func (o Options) parserOptions() config.Options {
	opt := config.Options{}
	if o.Sheet != "" {
		opt["sheet"] = o.Sheet
	}
	if o.Delimiter != 0 {
		opt["delimiter"] = o.Delimiter
	}
	if o.Encoding != "" {
		opt["encoding"] = o.Encoding
	}
	if o.SkipRows > 0 {
		opt["skip_rows"] = o.SkipRows
	}
	if o.HeaderRow > 0 {
		opt["header_row"] = o.HeaderRow
	}
	if o.MaxRows > 0 {
		opt["max_rows"] = o.MaxRows
	}
	if o.SampleRate > 0 && o.SampleRate < 1 {
		opt["sample_rate"] = o.SampleRate
	}
	if o.DecimalSeparator != "" {
		opt["decimal_separator"] = o.DecimalSeparator
	}
	return opt
}
