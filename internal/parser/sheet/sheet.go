// Package sheet reads workbook spreadsheets (xlsx) into a DataFrame using
// excelize's row iterator, so a sheet is scanned once without materializing
// the grid twice.
//
// Legacy binary .xls workbooks are detected by format detection but cannot
// be opened by excelize; opening one surfaces the library's error wrapped
// as an OpenError.
//
// Cells arrive from the iterator as formatted strings and are re-coerced.
// Numbers, booleans and ISO dates round-trip cleanly; a date cell with a
// custom number format is read as whatever text the format renders, which
// may coerce to Text instead of Date.
//
// Option keys:
//
//	sheet              string; sheet name, default first sheet
//	header_row         int; 1-based header position, default 1
//	skip_rows          int; extra rows skipped before the header
//	max_rows           int; 0 means unlimited
//	decimal_separator  string; forwarded to the shared coercer
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabular/internal/coerce"
	"tabular/internal/config"
	"tabular/pkg/frame"
)

// SheetNotFoundError is returned when a named sheet is absent from the
// workbook.
type SheetNotFoundError struct {
	Path  string
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in %s", e.Sheet, e.Path)
}

// OpenError wraps a failure to open the workbook itself (corrupt file,
// legacy .xls container, wrong format).
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open workbook %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Info summarizes one sheet for listing.
type Info struct {
	Name        string `json:"name"`
	RowCount    int    `json:"rowCount"`
	ColumnCount int    `json:"columnCount"`
}

// Read parses one sheet of the workbook at path.
//
// Behavior:
//   - the header row (header_row + skip_rows) names the columns; blank
//     header cells synthesize ColumnN names;
//   - data rows run through the shared coercer cell by cell;
//   - rows with no non-empty cells are dropped rather than counted.
func Read(path string, opt config.Options) (*frame.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	name, err := resolveSheet(f, path, opt.String("sheet", ""))
	if err != nil {
		return nil, err
	}

	headerRow := opt.Int("header_row", 1)
	if headerRow < 1 {
		headerRow = 1
	}
	headerAt := headerRow + opt.Int("skip_rows", 0)
	maxRows := opt.Int("max_rows", 0)
	co := coerce.Options{DecimalSeparator: opt.String("decimal_separator", ".")}

	iter, err := f.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("iterate sheet %q of %s: %w", name, path, err)
	}
	defer iter.Close()

	var b *frame.Builder
	rowNum := 0
	for iter.Next() {
		rowNum++
		cells, err := iter.Columns()
		if err != nil {
			return nil, fmt.Errorf("read row %d of sheet %q: %w", rowNum, name, err)
		}

		if rowNum < headerAt {
			continue
		}
		if rowNum == headerAt {
			header := make([]string, len(cells))
			for i, c := range cells {
				header[i] = strings.TrimSpace(c)
			}
			b = frame.NewBuilder(header)
			continue
		}

		if coerce.Blank(cells) {
			continue
		}
		b.Append(coerce.Record(cells, co))

		if maxRows > 0 && b.Rows() >= maxRows {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("scan sheet %q of %s: %w", name, path, err)
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

// List returns name and dimensions for every sheet in the workbook.
func List(path string) ([]Info, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	names := f.GetSheetList()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		rows, cols, err := sheetDimensions(f, name)
		if err != nil {
			return nil, err
		}
		out = append(out, Info{Name: name, RowCount: rows, ColumnCount: cols})
	}
	return out, nil
}

// Dimensions returns data row count (excluding the header row) and column
// count for one sheet, resolving the default sheet the same way Read does.
func Dimensions(path, sheetName string) (rows, cols int, columns []string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, 0, nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	name, err := resolveSheet(f, path, sheetName)
	if err != nil {
		return 0, 0, nil, err
	}

	iter, err := f.Rows(name)
	if err != nil {
		return 0, 0, nil, err
	}
	defer iter.Close()

	total := 0
	for iter.Next() {
		if total == 0 {
			header, err := iter.Columns()
			if err != nil {
				return 0, 0, nil, err
			}
			columns = frame.UniqueColumns(header)
			cols = len(columns)
		}
		total++
	}
	if err := iter.Error(); err != nil {
		return 0, 0, nil, err
	}
	if total > 0 {
		rows = total - 1 // header
	}
	return rows, cols, columns, nil
}

func resolveSheet(f *excelize.File, path, want string) (string, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return "", &SheetNotFoundError{Path: path, Sheet: want}
	}
	if want == "" {
		return names[0], nil
	}
	for _, n := range names {
		if n == want {
			return n, nil
		}
	}
	return "", &SheetNotFoundError{Path: path, Sheet: want}
}

// sheetDimensions scans one sheet's rows counting height and max width.
func sheetDimensions(f *excelize.File, name string) (rows, cols int, err error) {
	iter, err := f.Rows(name)
	if err != nil {
		return 0, 0, err
	}
	defer iter.Close()

	for iter.Next() {
		cells, err := iter.Columns()
		if err != nil {
			return 0, 0, err
		}
		rows++
		if len(cells) > cols {
			cols = len(cells)
		}
	}
	return rows, cols, iter.Error()
}
