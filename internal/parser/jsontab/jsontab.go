// Package jsontab parses JSON files holding tabular data into a DataFrame.
//
// Two shapes are accepted:
//
//   - an array of uniform objects: columns are the first object's keys, in
//     document order;
//   - an object whose values are parallel arrays: columns are the object's
//     keys, in document order.
//
// JSON cannot be read incrementally in this design, so files beyond the
// in-memory ceiling are refused up front (*FileTooLargeError) instead of
// failing after partial work.
package jsontab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"tabular/internal/coerce"
	"tabular/internal/config"
	"tabular/pkg/frame"
)

// MaxBytes is the largest JSON file the parser will materialize. There is
// no streaming fallback for JSON.
const MaxBytes = 512 << 20

// FileTooLargeError is returned before any parsing when the raw file size
// exceeds MaxBytes.
type FileTooLargeError struct {
	Path string
	Size int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("json file %s is %d bytes, exceeding the %d byte in-memory ceiling", e.Path, e.Size, int64(MaxBytes))
}

// InvalidShapeError is returned when the document is neither an array of
// objects nor an object of parallel arrays.
type InvalidShapeError struct {
	Path   string
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("json file %s has an unsupported shape: %s", e.Path, e.Reason)
}

// Read parses the file at path.
//
// Errors:
//   - *FileTooLargeError before parsing when the file is too big.
//   - *InvalidShapeError for unsupported document shapes.
//   - plain decode errors for malformed JSON.
func Read(path string, opt config.Options) (*frame.DataFrame, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxBytes {
		return nil, &FileTooLargeError{Path: path, Size: info.Size()}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return frame.Empty(), nil
	}

	co := coerce.Options{DecimalSeparator: opt.String("decimal_separator", ".")}
	maxRows := opt.Int("max_rows", 0)

	switch trimmed[0] {
	case '[':
		return readArrayOfObjects(path, trimmed, co, maxRows)
	case '{':
		return readObjectOfArrays(path, trimmed, co, maxRows)
	default:
		return nil, &InvalidShapeError{Path: path, Reason: "root is neither an array nor an object"}
	}
}

// readArrayOfObjects streams the array element-by-element off a decoder so
// column order can be taken from the first object's key order.
func readArrayOfObjects(path string, raw []byte, co coerce.Options, maxRows int) (*frame.DataFrame, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // consume '['
		return nil, err
	}

	var b *frame.Builder
	var columns []string

	for dec.More() {
		if b != nil && maxRows > 0 && b.Rows() >= maxRows {
			break
		}

		if b == nil {
			// First element: walk its tokens to preserve key order.
			cols, obj, err := decodeOrderedObject(dec)
			if err != nil {
				return nil, &InvalidShapeError{Path: path, Reason: err.Error()}
			}
			columns = cols
			b = frame.NewBuilder(columns)
			b.Append(objectRow(columns, obj, co))
			continue
		}

		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, &InvalidShapeError{Path: path, Reason: fmt.Sprintf("array element is not an object: %v", err)}
		}
		b.Append(objectRow(columns, obj, co))
	}

	if b == nil {
		return frame.Empty(), nil
	}
	df := b.Frame()
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return df, nil
}

// readObjectOfArrays treats each top-level key as one column whose value
// must be an array; columns are padded with nulls to the longest array.
func readObjectOfArrays(path string, raw []byte, co coerce.Options, maxRows int) (*frame.DataFrame, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil { // consume '{'
		return nil, err
	}

	var columns []string
	series := map[string][]frame.Value{}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, &InvalidShapeError{Path: path, Reason: "object key is not a string"}
		}

		var arr []any
		if err := dec.Decode(&arr); err != nil {
			return nil, &InvalidShapeError{Path: path, Reason: fmt.Sprintf("value of %q is not an array", key)}
		}

		vals := make([]frame.Value, 0, len(arr))
		for _, item := range arr {
			if maxRows > 0 && len(vals) >= maxRows {
				break
			}
			vals = append(vals, scalarValue(item, co))
		}
		columns = append(columns, key)
		series[key] = vals
	}

	if len(columns) == 0 {
		return frame.Empty(), nil
	}

	rows := 0
	for _, vals := range series {
		if len(vals) > rows {
			rows = len(vals)
		}
	}

	cols := frame.UniqueColumns(columns)
	data := make(map[string][]frame.Value, len(cols))
	for i, c := range cols {
		vals := series[columns[i]]
		for len(vals) < rows {
			vals = append(vals, frame.Null())
		}
		data[c] = vals
	}

	df := &frame.DataFrame{Columns: cols, Data: data, RowCount: rows}
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return df, nil
}

// decodeOrderedObject reads one object off the decoder, returning its keys
// in document order alongside the decoded map.
func decodeOrderedObject(dec *json.Decoder) ([]string, map[string]any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("array element is not an object (got %v)", tok)
	}

	var keys []string
	obj := map[string]any{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("object key is not a string (got %T)", keyTok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		obj[key] = val
	}

	end, err := dec.Token() // consume '}'
	if err != nil {
		return nil, nil, err
	}
	if end != json.Delim('}') {
		return nil, nil, fmt.Errorf("expected object end, got %v", end)
	}
	return keys, obj, nil
}

// objectRow maps one decoded object onto the column order. Keys missing
// from an element yield nulls.
func objectRow(columns []string, obj map[string]any, co coerce.Options) []frame.Value {
	row := make([]frame.Value, len(columns))
	for i, c := range columns {
		row[i] = scalarValue(obj[c], co)
	}
	return row
}

// scalarValue converts one decoded JSON value into a frame cell. Strings
// run through the shared coercer so date-looking strings classify the same
// way they do on the delimited path; nested arrays/objects flatten to their
// JSON text.
func scalarValue(v any, co coerce.Options) frame.Value {
	switch t := v.(type) {
	case nil:
		return frame.Null()
	case bool:
		return frame.BoolValue(t)
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := t.Int64(); err == nil {
				return frame.IntValue(i)
			}
		}
		if f, err := t.Float64(); err == nil {
			return frame.FloatValue(f)
		}
		return frame.TextValue(s)
	case string:
		return coerce.Value(t, co)
	default:
		// Nested structure: keep its JSON rendering as text.
		b, err := json.Marshal(t)
		if err != nil {
			return frame.TextValue(fmt.Sprint(t))
		}
		return frame.TextValue(string(b))
	}
}
