package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"corporate_valuation/pkg/core/table"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTML reads the first table on a saved statement page whose header row
// carries period dates. Page chrome and unrelated tables are ignored.
func (l *Loader) ReadHTML(r io.Reader) (*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}

	var (
		found   *table.Table
		lastErr = ErrNoPeriods
	)
	doc.Find("table").EachWithBreak(func(i int, tbl *goquery.Selection) bool {
		grid := htmlGrid(tbl)
		t, err := l.fromGrid(grid)
		if err != nil {
			l.log.Debug().Int("table", i).Err(err).Msg("skipping html table")
			lastErr = err
			return true
		}
		found = t
		return false
	})
	if found == nil {
		return nil, lastErr
	}
	return found, nil
}

// maxColspan is the largest span browsers honour.
const maxColspan = 1000

// htmlGrid flattens a table to cell text. A cell spanning several columns
// keeps its text in the first slot and leaves the rest empty, so section
// headings read as rows without values. Rows and cells of nested tables
// belong to those tables and are not read here.
func htmlGrid(tbl *goquery.Selection) [][]string {
	var grid [][]string
	ownRows := tbl.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Closest("table").IsSelection(tbl)
	})
	ownRows.Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, cleanCellText(cell.Text()))
			for k := 1; k < colspan(cell); k++ {
				row = append(row, "")
			}
		})
		if len(row) > 0 {
			grid = append(grid, row)
		}
	})
	return grid
}

func colspan(cell *goquery.Selection) int {
	span, err := strconv.Atoi(strings.TrimSpace(cell.AttrOr("colspan", "1")))
	switch {
	case err != nil || span < 1:
		return 1
	case span > maxColspan:
		return maxColspan
	}
	return span
}

func cleanCellText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
