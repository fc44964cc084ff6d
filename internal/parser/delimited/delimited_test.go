package delimited

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tabular/internal/config"
	"tabular/pkg/frame"
)

// writeFile drops content into a temp file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// intColumn extracts a column as int64s, failing on any non-int cell.
func intColumn(t *testing.T, df *frame.DataFrame, name string) []int64 {
	t.Helper()
	var out []int64
	for i, v := range df.Column(name) {
		if v.Kind != frame.KindInt {
			t.Fatalf("%s[%d] kind=%v, want int", name, i, v.Kind)
		}
		out = append(out, v.Int)
	}
	return out
}

func TestRead_BasicCSV(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "basic.csv", "a,b\n1,2\n3,4\n")
	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}

	if !reflect.DeepEqual(df.Columns, []string{"a", "b"}) {
		t.Fatalf("Columns=%v, want [a b]", df.Columns)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
	if got := intColumn(t, df, "a"); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("a=%v, want [1 3]", got)
	}
	if got := intColumn(t, df, "b"); !reflect.DeepEqual(got, []int64{2, 4}) {
		t.Fatalf("b=%v, want [2 4]", got)
	}
}

func TestRead_SniffsSemicolonDelimiter(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "semi.csv", "x;y;z\n1;2;3\n")
	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"x", "y", "z"}) {
		t.Fatalf("Columns=%v, want [x y z]", df.Columns)
	}
}

func TestRead_ExplicitDelimiterOverridesSniffing(t *testing.T) {
	t.Parallel()

	// More semicolons than pipes; the override must still win.
	path := writeFile(t, "pipe.csv", "a;x|b;y\n1;2|3;4\n")
	df, err := Read(path, config.Options{"delimiter": '|'})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"a;x", "b;y"}) {
		t.Fatalf("Columns=%v, want [a;x b;y]", df.Columns)
	}
}

func TestRead_SkipRowsAndMaxRows(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "skip.csv", "garbage line\nalso garbage\na,b\n1,2\n3,4\n5,6\n")
	df, err := Read(path, config.Options{"skip_rows": 2, "max_rows": 2})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"a", "b"}) {
		t.Fatalf("Columns=%v, want [a b]", df.Columns)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2 (capped)", df.RowCount)
	}
}

func TestRead_RaggedRowsArePaddedAndTrimmed(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "ragged.csv", "a,b,c\n1,2\n1,2,3,4\n")
	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2", df.RowCount)
	}
	if got := df.Column("c")[0]; !got.IsNull() {
		t.Fatalf("short row c[0]=%v, want null", got)
	}
	if got := df.Column("c")[1]; got.Int != 3 {
		t.Fatalf("long row c[1]=%v, want 3 with extras dropped", got)
	}
}

func TestRead_BlankRowsAreDropped(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "blank.csv", "a,b\n1,2\n,\n3,4\n")
	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if df.RowCount != 2 {
		t.Fatalf("RowCount=%d, want 2 with the blank row dropped", df.RowCount)
	}
}

func TestRead_EmptyFileYieldsEmptyFrame(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "empty.csv", "")
	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if df.RowCount != 0 || len(df.Columns) != 0 {
		t.Fatalf("frame=%+v, want empty", df)
	}
}

func TestRead_HeaderOnlyYieldsZeroRows(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "header.csv", "a,b,c\n")
	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if len(df.Columns) != 3 || df.RowCount != 0 {
		t.Fatalf("frame=%+v, want 3 columns and 0 rows", df)
	}
}

func TestRead_Windows1252Encoding(t *testing.T) {
	t.Parallel()

	// "café" with é encoded as 0xE9 (windows-1252 / latin1).
	raw := []byte("name\ncaf\xe9\n")
	path := filepath.Join(t.TempDir(), "latin.csv")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	df, err := Read(path, config.Options{"encoding": "windows-1252"})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if got := df.Column("name")[0].Text; got != "café" {
		t.Fatalf("name[0]=%q, want café", got)
	}
}

func TestRead_StripsByteOrderMark(t *testing.T) {
	t.Parallel()

	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)
	path := filepath.Join(t.TempDir(), "bom.csv")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	df, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"a", "b"}) {
		t.Fatalf("Columns=%v, want [a b] with the BOM stripped", df.Columns)
	}
}

func TestStream_MatchesBatchRowForRow(t *testing.T) {
	t.Parallel()

	content := "id,amount,label\n1,10.5,alpha\n2,20,beta\n3,,gamma\n"
	path := writeFile(t, "both.csv", content)

	batch, err := Read(path, config.Options{})
	if err != nil {
		t.Fatalf("Read() err=%v, want nil", err)
	}
	stream, err := Stream(context.Background(), path, config.Options{})
	if err != nil {
		t.Fatalf("Stream() err=%v, want nil", err)
	}

	if !reflect.DeepEqual(batch.Columns, stream.Columns) {
		t.Fatalf("columns differ: batch=%v stream=%v", batch.Columns, stream.Columns)
	}
	if batch.RowCount != stream.RowCount {
		t.Fatalf("row counts differ: batch=%d stream=%d", batch.RowCount, stream.RowCount)
	}
	for _, c := range batch.Columns {
		bv, sv := batch.Column(c), stream.Column(c)
		for i := range bv {
			if !bv[i].Equal(sv[i]) {
				t.Fatalf("column %s row %d: batch=%+v stream=%+v", c, i, bv[i], sv[i])
			}
		}
	}
}

func TestStream_MaxRowsStopsEarly(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "cap.csv", "a\n1\n2\n3\n4\n5\n")
	df, err := Stream(context.Background(), path, config.Options{"max_rows": 3})
	if err != nil {
		t.Fatalf("Stream() err=%v, want nil", err)
	}
	if df.RowCount != 3 {
		t.Fatalf("RowCount=%d, want 3", df.RowCount)
	}
	if got := intColumn(t, df, "a"); !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Fatalf("a=%v, want [1 2 3]", got)
	}
}

func TestStream_SampleRateKeepsBernoulliSubset(t *testing.T) {
	// Not parallel: swaps the package-level sampling source.
	orig := randFloat
	defer func() { randFloat = orig }()

	// Alternate keep (0.0 < 0.5) and drop (0.9 >= 0.5).
	flip := false
	randFloat = func() float64 {
		flip = !flip
		if flip {
			return 0.0
		}
		return 0.9
	}

	path := writeFile(t, "sample.csv", "a\n1\n2\n3\n4\n")
	df, err := Stream(context.Background(), path, config.Options{"sample_rate": 0.5})
	if err != nil {
		t.Fatalf("Stream() err=%v, want nil", err)
	}
	if got := intColumn(t, df, "a"); !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Fatalf("a=%v, want [1 3] (every other row kept)", got)
	}
}

func TestStream_CancelledContextAborts(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "cancel.csv", "a\n1\n2\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Stream(ctx, path, config.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Stream() err=%v, want context.Canceled", err)
	}
}

func TestStream_SkipRowsThenHeader(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "skipstream.csv", "junk\na,b\n1,2\n")
	df, err := Stream(context.Background(), path, config.Options{"skip_rows": 1})
	if err != nil {
		t.Fatalf("Stream() err=%v, want nil", err)
	}
	if !reflect.DeepEqual(df.Columns, []string{"a", "b"}) {
		t.Fatalf("Columns=%v, want [a b]", df.Columns)
	}
	if df.RowCount != 1 {
		t.Fatalf("RowCount=%d, want 1", df.RowCount)
	}
}

func TestDecodeReader_RejectsUnknownEncoding(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "enc.csv", "a\n1\n")
	_, err := Read(path, config.Options{"encoding": "no-such-charset"})
	if err == nil {
		t.Fatal("Read() err=nil, want unknown-encoding error")
	}
}
