// Package probe reports file statistics without a full parse.
//
// The probe answers "how big is this file and what shape is it" using
// format-specific fast scans: line counting for delimited files, sheet
// dimensions for workbooks, a token walk for JSON. An optional bounded
// sample read adds an inferred schema on top.
//
// Design constraints:
//   - Scans must be bounded in memory regardless of file size.
//   - The sample schema is best-effort and must never fail the probe run.
package probe

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"strings"

	"tabular/internal/config"
	"tabular/internal/format"
	"tabular/internal/parser/delimited"
	"tabular/internal/parser/htmltable"
	"tabular/internal/parser/sheet"
	"tabular/internal/schema"
	"tabular/internal/sniff"
	"tabular/pkg/frame"
)

// Stats describes a file's shape.
type Stats struct {
	Path            string         `json:"path"`
	Format          string         `json:"format"`
	FileSize        int64          `json:"fileSize"`
	RowCount        int            `json:"rowCount"`
	ColumnCount     int            `json:"columnCount"`
	Columns         []string       `json:"columns,omitempty"`
	EstimatedMemory int64          `json:"estimatedMemory"`
	SampleSchema    *schema.Schema `json:"sampleSchema,omitempty"`
}

// SampleReadFn reads at most maxRows data rows of the file. The probe uses
// it to build the sample schema; injecting it keeps this package free of a
// dependency on the full read pipeline.
type SampleReadFn func(ctx context.Context, path string, maxRows int) (*frame.DataFrame, error)

// Options control probing.
type Options struct {
	// Sheet names the workbook sheet to measure. Empty means the first.
	Sheet string

	// Delimiter overrides sniffing on the delimited fast scan, so the
	// probe splits the header the same way a full read would.
	Delimiter rune

	// Encoding names the charset of a delimited file. Empty means UTF-8.
	Encoding string

	// SampleRows bounds the sample read used for schema inference.
	// Zero defaults to 1000; negative disables the sample entirely.
	SampleRows int

	// Sample performs the bounded read. Nil disables the sample schema.
	Sample SampleReadFn
}

const (
	defaultSampleRows = 1000

	// Parsed values roughly double the on-disk footprint.
	memoryFactor = 2
)

// Probe measures the file at path.
//
// Errors:
//   - format.UnsupportedFormatError for unknown extensions;
//   - filesystem errors from the underlying scans.
//
// Edge cases:
//   - a failed sample read drops SampleSchema rather than failing the probe;
//   - SampleSchema.RowCount is overwritten with the full count so a capped
//     sample never misreports the file size.
func Probe(ctx context.Context, path string, opts Options) (*Stats, error) {
	f, err := format.Detect(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Path:            path,
		Format:          string(f),
		FileSize:        fi.Size(),
		EstimatedMemory: fi.Size() * memoryFactor,
	}

	switch {
	case f.Spreadsheet():
		rows, cols, columns, err := sheet.Dimensions(path, opts.Sheet)
		if err != nil {
			return nil, err
		}
		st.RowCount, st.ColumnCount, st.Columns = rows, cols, columns

	case f == format.JSON:
		rows, err := countJSONRows(path)
		if err != nil {
			return nil, err
		}
		st.RowCount = rows

	case f == format.HTML:
		// HTML tables are small enough to parse outright.
		df, err := htmltable.Read(path, config.Options{})
		if err != nil {
			return nil, err
		}
		st.RowCount = df.RowCount
		st.ColumnCount = len(df.Columns)
		st.Columns = df.Columns

	default:
		rows, columns, err := scanDelimited(path, f, opts)
		if err != nil {
			return nil, err
		}
		st.RowCount, st.ColumnCount, st.Columns = rows, len(columns), columns
	}

	attachSample(ctx, st, path, opts)
	return st, nil
}

// attachSample runs the bounded sample read and fills in SampleSchema plus
// any shape fields the fast scan could not provide.
func attachSample(ctx context.Context, st *Stats, path string, opts Options) {
	if opts.Sample == nil || opts.SampleRows < 0 {
		return
	}
	rows := opts.SampleRows
	if rows == 0 {
		rows = defaultSampleRows
	}

	df, err := opts.Sample(ctx, path, rows)
	if err != nil {
		return
	}

	sch := schema.Infer(df, st.FileSize, format.Format(st.Format))
	sch.RowCount = st.RowCount
	st.SampleSchema = sch

	if st.ColumnCount == 0 {
		st.ColumnCount = len(df.Columns)
		st.Columns = df.Columns
	}
}

// scanDelimited counts non-empty lines and splits the first line on the
// explicit or sniffed delimiter. The scanner keeps memory bounded for
// arbitrarily large files.
func scanDelimited(path string, f format.Format, opts Options) (rows int, columns []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer file.Close()

	dec, err := delimited.DecodeReader(bufio.NewReader(file), opts.Encoding)
	if err != nil {
		return 0, nil, err
	}

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64<<10), 1<<20)

	total := 0
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if total == 0 {
			delim := opts.Delimiter
			if delim == 0 && f == format.TSV {
				delim = '\t'
			}
			if delim == 0 {
				delim = sniff.Delimiter(line)
			}
			header := strings.Split(line, string(delim))
			for i := range header {
				header[i] = strings.TrimSpace(header[i])
			}
			columns = frame.UniqueColumns(header)
		}
		total++
	}
	if err := sc.Err(); err != nil {
		return 0, nil, err
	}
	if total > 0 {
		rows = total - 1 // header
	}
	return rows, columns, nil
}

// countJSONRows walks top-level tokens counting records. An array of
// objects counts its elements; an object of arrays reports the longest
// column. Bounded by the decoder's buffering, not the file size.
func countJSONRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	tok, err := dec.Token()
	if err != nil {
		return 0, nil // empty or scalar file; the parser reports shape errors
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return 0, nil
	}

	switch delim {
	case '[':
		n := 0
		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return n, nil
			}
			n++
		}
		return n, nil

	case '{':
		longest := 0
		for dec.More() {
			if _, err := dec.Token(); err != nil { // key
				return longest, nil
			}
			var vals []json.RawMessage
			if err := dec.Decode(&vals); err != nil {
				return longest, nil
			}
			if len(vals) > longest {
				longest = len(vals)
			}
		}
		return longest, nil
	}
	return 0, nil
}
