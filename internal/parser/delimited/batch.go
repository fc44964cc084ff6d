package delimited

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"tabular/internal/config"
	"tabular/internal/sniff"
	"tabular/pkg/frame"
)

// sniffSampleLines is how many leading lines feed the delimiter sniffer on
// the batch path.
const sniffSampleLines = 5

// Read materializes the whole file and parses it eagerly. The caller is
// responsible for only choosing this path when the file fits the in-memory
// budget.
//
// Errors:
//   - *ParseError when the csv stream itself is malformed.
//   - I/O errors from reading the file.
func Read(path string, opt config.Options) (*frame.DataFrame, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec, err := DecodeReader(bytes.NewReader(raw), opt.String("encoding", ""))
	if err != nil {
		return nil, err
	}
	text, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	body := skipLines(string(text), opt.Int("skip_rows", 0))

	delim := opt.Rune("delimiter", 0)
	if delim == 0 {
		delim = sniff.Delimiter(firstLines(body, sniffSampleLines))
	}

	cr := newCSVReader(strings.NewReader(body), delim)
	co := coerceOptions(opt)
	maxRows := opt.Int("max_rows", 0)

	line := 0
	header, err := cr.Read()
	line++
	if err != nil {
		if errors.Is(err, io.EOF) {
			return frame.Empty(), nil
		}
		return nil, &ParseError{Path: path, Line: line, Err: err}
	}

	b := frame.NewBuilder(trimCells(header))
	for {
		if maxRows > 0 && b.Rows() >= maxRows {
			break
		}
		rec, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Err: err}
		}
		appendRecord(b, rec, co)
	}

	df := b.Frame()
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return df, nil
}

// skipLines drops the first n raw lines of s.
func skipLines(s string, n int) string {
	for ; n > 0; n-- {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			return ""
		}
		s = s[i+1:]
	}
	return s
}

// firstLines returns up to n leading lines of s, for sniffing.
func firstLines(s string, n int) string {
	end := 0
	for ; n > 0; n-- {
		i := strings.IndexByte(s[end:], '\n')
		if i < 0 {
			return s
		}
		end += i + 1
	}
	return s[:end]
}

func trimCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(strings.TrimPrefix(c, "\uFEFF"))
	}
	return out
}
