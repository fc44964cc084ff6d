package frame

import "fmt"

// DataFrame is the uniform in-memory table every parser produces.
//
// Invariant: for every column c in Columns, len(Data[c]) == RowCount.
// A DataFrame is built once (via Builder) and must not be mutated after;
// it is owned exclusively by the caller that requested the read.
type DataFrame struct {
	Columns  []string
	Data     map[string][]Value
	RowCount int
}

// Column returns the values of one column, or nil if the column is unknown.
func (df *DataFrame) Column(name string) []Value {
	return df.Data[name]
}

// Validate checks the column-length invariant. Parsers call this before
// handing a frame to the caller; a violation is a bug, not an input error.
func (df *DataFrame) Validate() error {
	for _, c := range df.Columns {
		vals, ok := df.Data[c]
		if !ok {
			return fmt.Errorf("frame: column %q missing from data", c)
		}
		if len(vals) != df.RowCount {
			return fmt.Errorf("frame: column %q has %d values, want %d", c, len(vals), df.RowCount)
		}
	}
	return nil
}

// Builder accumulates rows column-wise. It is the single per-row
// accumulation path shared by the batch and streaming parsers, so the two
// stay row-equivalent by construction rather than by after-the-fact testing.
type Builder struct {
	columns []string
	data    map[string][]Value
	rows    int
}

// NewBuilder initializes empty per-column buffers for the given header.
// Header cells are disambiguated first: blank names become ColumnN (1-based)
// and duplicates get a numeric suffix, so frame columns are always unique.
func NewBuilder(header []string) *Builder {
	cols := UniqueColumns(header)
	data := make(map[string][]Value, len(cols))
	for _, c := range cols {
		data[c] = []Value{}
	}
	return &Builder{columns: cols, data: data}
}

// Columns returns the disambiguated column names in order.
func (b *Builder) Columns() []string { return b.columns }

// Rows returns the number of rows appended so far.
func (b *Builder) Rows() int { return b.rows }

// Append adds one row. Short rows are padded with Null and extra trailing
// cells are dropped, matching the tolerant policy for ragged records.
func (b *Builder) Append(row []Value) {
	for i, c := range b.columns {
		if i < len(row) {
			b.data[c] = append(b.data[c], row[i])
		} else {
			b.data[c] = append(b.data[c], Null())
		}
	}
	b.rows++
}

// Frame finalizes the builder. The builder must not be used afterwards.
func (b *Builder) Frame() *DataFrame {
	return &DataFrame{
		Columns:  b.columns,
		Data:     b.data,
		RowCount: b.rows,
	}
}

// Empty returns a frame with no columns and no rows.
func Empty() *DataFrame {
	return &DataFrame{Columns: []string{}, Data: map[string][]Value{}, RowCount: 0}
}

// UniqueColumns turns raw header cells into unique, non-empty column names.
// Blank cells become "ColumnN" where N is the 1-based position; a name that
// collides with an earlier one gets "_2", "_3", ... appended.
func UniqueColumns(header []string) []string {
	out := make([]string, 0, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if name == "" {
			name = fmt.Sprintf("Column%d", i+1)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 1
		out = append(out, name)
	}
	return out
}
