// Package format maps file paths to the closed set of supported input
// formats. Detection is a pure function of the extension: no file I/O, no
// content sniffing.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies one supported input format.
type Format string

const (
	XLSX Format = "xlsx"
	XLS  Format = "xls"
	CSV  Format = "csv"
	TSV  Format = "tsv"
	JSON Format = "json"
	HTML Format = "html"
)

// Spreadsheet reports whether the format is workbook-based.
func (f Format) Spreadsheet() bool { return f == XLSX || f == XLS }

// Delimited reports whether the format is delimiter-separated text.
func (f Format) Delimited() bool { return f == CSV || f == TSV }

// UnsupportedFormatError is returned for any extension outside the
// supported set.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q (%s)", e.Ext, e.Path)
}

// Detect maps the lowercase extension of path to a Format.
//
// Errors:
//   - *UnsupportedFormatError for unknown or missing extensions.
func Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx":
		return XLSX, nil
	case ".xls":
		return XLS, nil
	case ".csv":
		return CSV, nil
	case ".tsv":
		return TSV, nil
	case ".json":
		return JSON, nil
	case ".html", ".htm":
		return HTML, nil
	default:
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
}
