package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"tabular/internal/config"
	"tabular/pkg/frame"
)

// writeWorkbook builds an xlsx file with the given sheets, each a grid of
// rows starting at A1, and returns its path.
func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet %s: %v", name, err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestRead_FirstSheetByDefault(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"Data": {
			{"id", "name"},
			{1, "alpha"},
			{2, "beta"},
		},
	})

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"id", "name"}) {
		t.Fatalf("Columns=%v, want [id name]", df.Columns)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
	if got := df.Column("id")[0]; got.Kind != frame.KindInt || got.Int != 1 {
		t.Fatalf("id[0]=%+v, want int 1", got)
	}
}

func TestRead_NamedSheetSelection(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"First":  {{"a"}, {1}},
		"Second": {{"b"}, {2}, {3}},
	})

	df, err := Read(path, config.Options{"sheet": "Second"})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"b"}) {
		t.Fatalf("Columns=%v, want [b]", df.Columns)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
}

func TestRead_MissingSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{"Only": {{"a"}}})

	_, err := Read(path, config.Options{"sheet": "Nope"})
	var snf *SheetNotFoundError
	if !errors.As(err, &snf) {
		t.Fatalf("Read() err=%v, want *SheetNotFoundError", err)
	}
	if snf.Sheet != "Nope" {
		t.Fatalf("err.Sheet=%q, want Nope", snf.Sheet)
	}
}

func TestRead_HeaderRowAndBlankHeaderCells(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"Data": {
			{"report generated 2024"},
			{"id", "", "amount"},
			{1, "x", 2.5},
		},
	})

	df, err := Read(path, config.Options{"header_row": 2})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"id", "Column2", "amount"}) {
		t.Fatalf("Columns=%v, want [id Column2 amount]", df.Columns)
	}
	if df.RowCount != 1 {
		t.Fatalf("RowCount=%d, want 1", df.RowCount)
	}
}

func TestRead_MaxRowsAndEmptyRowsDropped(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"Data": {
			{"v"},
			{1},
			{""}, // fully empty row is dropped, not counted
			{2},
			{3},
		},
	})

	df, err := Read(path, config.Options{"max_rows": 2})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
	if got := df.Column("v")[1]; got.Int != 2 {
		t.Fatalf("v[1]=%+v, want 2 (empty row skipped)", got)
	}
}

func TestList_ReportsAllSheets(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"One": {{"a", "b"}, {1, 2}},
	})

	infos, err := List(path)
	if err != nil {
		t.Fatalf("List() err=%v, want nil", err)
	}
	if len(infos) != 1 {
		t.Fatalf("sheets=%d, want 1", len(infos))
	}
	if infos[0].Name != "One" || infos[0].RowCount != 2 || infos[0].ColumnCount != 2 {
		t.Fatalf("info=%+v, want One 2x2", infos[0])
	}
}

func TestDimensions_ExcludesHeaderRow(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, map[string][][]any{
		"Data": {{"a", "b"}, {1, 2}, {3, 4}},
	})

	rows, cols, columns, err := Dimensions(path, "")
	if err != nil {
		t.Fatalf("Dimensions() err=%v, want nil", err)
	}
	if rows != 2 || cols != 2 {
		t.Fatalf("dims=%dx%d, want 2x2", rows, cols)
	}
	if !reflect.DeepEqual(columns, []string{"a", "b"}) {
		t.Fatalf("columns=%v, want [a b]", columns)
	}
}

func TestRead_CorruptFileSurfacesOpenError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "junk.xlsx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	_, err := Read(path, config.Options{})
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("Read() err=%v, want *OpenError", err)
	}
}
