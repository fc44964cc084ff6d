package jsontab

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tabular/internal/config"
	"tabular/pkg/frame"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRead_ArrayOfObjects(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "rows.json", `[
		{"name": "alice", "age": 30, "active": true},
		{"name": "bob", "age": 25.5, "active": false},
		{"name": "carol"}
	]`)

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}

	// Column order follows the first object's key order.
	if !reflect.DeepEqual(df.Columns, []string{"name", "age", "active"}) {
		t.Fatalf("Columns=%v, want [name age active]", df.Columns)
	}
	if df.RowCount != 3 {
		t.Fatalf("RowCount=%d, want 3", df.RowCount)
	}

	age := df.Column("age")
	if age[0].Kind != frame.KindInt || age[0].Int != 30 {
		t.Fatalf("age[0]=%+v, want int 30", age[0])
	}
	if age[1].Kind != frame.KindFloat || age[1].Float != 25.5 {
		t.Fatalf("age[1]=%+v, want float 25.5", age[1])
	}
	if !age[2].IsNull() {
		t.Fatalf("age[2]=%+v, want null for the missing key", age[2])
	}

	if got := df.Column("active")[0]; got.Kind != frame.KindBool || !got.Bool {
		t.Fatalf("active[0]=%+v, want bool true", got)
	}
}

func TestRead_ObjectOfParallelArrays(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "cols.json", `{"a": [1, 2, 3], "b": ["x", "y"]}`)

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"a", "b"}) {
		t.Fatalf("Columns=%v, want [a b]", df.Columns)
	}
	if df.RowCount != 3 {
		t.Fatalf("RowCount=%d, want 3 (longest array)", df.RowCount)
	}
	if got := df.Column("b")[2]; !got.IsNull() {
		t.Fatalf("b[2]=%+v, want null padding", got)
	}
}

func TestRead_StringCellsRunThroughCoercion(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "coerce.json", `[{"when": "2024-03-05", "note": "hello"}]`)

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if got := df.Column("when")[0]; got.Kind != frame.KindDate {
		t.Fatalf("when[0]=%+v, want date", got)
	}
	if got := df.Column("note")[0]; got.Kind != frame.KindText || got.Text != "hello" {
		t.Fatalf("note[0]=%+v, want text hello", got)
	}
}

func TestRead_NestedStructuresFlattenToJSONText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "nested.json", `[{"id": 1, "tags": ["a", "b"]}]`)

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if got := df.Column("tags")[0]; got.Kind != frame.KindText || got.Text != `["a","b"]` {
		t.Fatalf("tags[0]=%+v, want JSON text", got)
	}
}

func TestRead_EmptyInputs(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name, content string
	}{
		{"empty file", ""},
		{"empty array", "[]"},
		{"empty object", "{}"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "e.json", tc.content)
			df, err := Read(path, config.Options{})
			if err != nil {
				t.Fatalf("Read() err=%v, want nil", err)
			}
			if df.RowCount != 0 || len(df.Columns) != 0 {
				t.Fatalf("frame=%+v, want empty", df)
			}
		})
	}
}

func TestRead_InvalidShapes(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name, content string
	}{
		{"scalar root", `42`},
		{"array of scalars", `[1, 2, 3]`},
		{"object of scalars", `{"a": 1}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "bad.json", tc.content)
			_, err := Read(path, config.Options{})
			var ise *InvalidShapeError
			if !errors.As(err, &ise) {
				t.Fatalf("Read() err=%v, want *InvalidShapeError", err)
			}
		})
	}
}

func TestRead_MaxRowsCapsBothShapes(t *testing.T) {
	t.Parallel()

	arr := writeFile(t, "arr.json", `[{"a":1},{"a":2},{"a":3}]`)
	df, err := Read(arr, config.Options{"max_rows": 2})
	if err != nil {
		t.Fatalf("Read(array) err=%v, want nil", err)
	}
	if df.RowCount != 2 {
		t.Fatalf("array RowCount=%d, want 2", df.RowCount)
	}

	obj := writeFile(t, "obj.json", `{"a":[1,2,3,4]}`)
	df, err = Read(obj, config.Options{"max_rows": 2})
	if err != nil {
		t.Fatalf("Read(object) err=%v, want nil", err)
	}
	if df.RowCount != 2 {
		t.Fatalf("object RowCount=%d, want 2", df.RowCount)
	}
}
