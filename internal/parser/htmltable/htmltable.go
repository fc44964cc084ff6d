// Package htmltable extracts the first <table> of an HTML document into a
// DataFrame. Header cells come from <th> elements when present, otherwise
// the first row is promoted to the header.
package htmltable

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tabular/internal/coerce"
	"tabular/internal/config"
	"tabular/pkg/frame"
)

// NoTableError is returned when the document contains no <table> element.
type NoTableError struct {
	Path string
}

func (e *NoTableError) Error() string {
	return fmt.Sprintf("no table found in %s", e.Path)
}

// Read parses the first table of the HTML document at path.
// Honors the max_rows and decimal_separator option keys.
func Read(path string, opt config.Options) (*frame.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", path, err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &NoTableError{Path: path}
	}

	maxRows := opt.Int("max_rows", 0)
	co := coerce.Options{DecimalSeparator: opt.String("decimal_separator", ".")}

	var b *frame.Builder
	table.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := rowCells(tr)
		if len(cells) == 0 {
			return true
		}
		if b == nil {
			b = frame.NewBuilder(cells)
			return true
		}
		if coerce.Blank(cells) {
			return true
		}
		b.Append(coerce.Record(cells, co))
		return maxRows <= 0 || b.Rows() < maxRows
	})

	if b == nil {
		return frame.Empty(), nil
	}
	df := b.Frame()
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return df, nil
}

// rowCells collects the text of a row's th and td children in order.
func rowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}
