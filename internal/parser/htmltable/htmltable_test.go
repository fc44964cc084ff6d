package htmltable

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tabular/internal/config"
	"tabular/pkg/frame"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRead_FirstTableWithHeaderCells(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `<html><body>
	<table>
		<tr><th>name</th><th>count</th></tr>
		<tr><td>alpha</td><td>3</td></tr>
		<tr><td>beta</td><td>7</td></tr>
	</table>
	<table><tr><th>ignored</th></tr></table>
	</body></html>`)

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"name", "count"}) {
		t.Fatalf("Columns=%v, want [name count]", df.Columns)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
	if got := df.Column("count")[1]; got.Kind != frame.KindInt || got.Int != 7 {
		t.Fatalf("count[1]=%+v, want int 7", got)
	}
}

func TestRead_FirstRowPromotedWithoutTH(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `<table>
		<tr><td>a</td><td>b</td></tr>
		<tr><td>1</td><td>2</td></tr>
	</table>`)

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"a", "b"}) {
		t.Fatalf("Columns=%v, want [a b]", df.Columns)
	}
	if df.RowCount != 1 {
		t.Fatalf("RowCount=%d, want 1", df.RowCount)
	}
}

func TestRead_MaxRowsCap(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `<table>
		<tr><th>v</th></tr>
		<tr><td>1</td></tr><tr><td>2</td></tr><tr><td>3</td></tr>
	</table>`)

	df, err := Read(path, config.Options{"max_rows": 2})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
}

func TestRead_NoTable(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `<html><body><p>nothing here</p></body></html>`)

	_, err := Read(path, config.Options{})
	var nte *NoTableError
	if !errors.As(err, &nte) {
		t.Fatalf("Read() err=%v, want *NoTableError", err)
	}
}
