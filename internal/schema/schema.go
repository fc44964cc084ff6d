// Package schema derives per-column type and cardinality metadata from a
// DataFrame. Inference is column-local: it never inspects cross-column
// relationships, and it never mutates the frame it reads.
package schema

import (
	"tabular/internal/format"
	"tabular/pkg/frame"
)

// DataType is the declared semantic type of one column.
type DataType string

const (
	Boolean  DataType = "boolean"
	Integer  DataType = "integer"
	Float    DataType = "float"
	Date     DataType = "date"
	DateTime DataType = "datetime"
	Currency DataType = "currency"
	Percent  DataType = "percent"
	Category DataType = "category"
	String   DataType = "string"
	Mixed    DataType = "mixed"
)

// Column describes one column of a frame.
type Column struct {
	Name     string   `json:"name"`
	Type     DataType `json:"type"`
	Nullable bool     `json:"nullable"`
	Unique   int      `json:"unique"`
	NullCount int     `json:"nullCount"`
	Examples []string `json:"examples,omitempty"`
}

// Schema is the full read result metadata: one Column per frame column plus
// file-level facts supplied by the caller.
type Schema struct {
	Columns  []Column      `json:"columns"`
	RowCount int           `json:"rowCount"`
	FileSize int64         `json:"fileSize"`
	Format   format.Format `json:"format"`
}

// maxExamples is the number of distinct non-null sample values kept per column.
const maxExamples = 3

// Infer derives a Schema from a frame.
func Infer(df *frame.DataFrame, fileSize int64, f format.Format) *Schema {
	out := &Schema{
		Columns:  make([]Column, 0, len(df.Columns)),
		RowCount: df.RowCount,
		FileSize: fileSize,
		Format:   f,
	}
	for _, name := range df.Columns {
		out.Columns = append(out.Columns, inferColumn(name, df.Data[name]))
	}
	return out
}

func inferColumn(name string, values []frame.Value) Column {
	col := Column{Name: name}

	distinct := make(map[string]struct{})
	for _, v := range values {
		if v.IsNull() {
			col.NullCount++
			continue
		}
		key := v.String()
		if _, seen := distinct[key]; !seen {
			distinct[key] = struct{}{}
			if len(col.Examples) < maxExamples {
				col.Examples = append(col.Examples, key)
			}
		}
	}

	col.Unique = len(distinct)
	col.Nullable = col.NullCount > 0
	col.Type = InferType(values)
	return col
}
