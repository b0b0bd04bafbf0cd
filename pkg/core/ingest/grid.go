package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"corporate_valuation/pkg/core/table"
)

// ErrNoPeriods is returned when a source has no column headed by a date.
var ErrNoPeriods = errors.New("ingest: no period columns found")

// ReadCSV reads a statement export: the header row names the periods, the
// first column names the line items.
//
//	Breakdown,9/30/2023,9/30/2022
//	Total Assets,"352,583,000","352,755,000"
func (l *Loader) ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return l.fromGrid(records)
}

// periodColumn maps a grid column to the period its header names.
type periodColumn struct {
	index  int
	period time.Time
}

// fromGrid turns a header-plus-rows grid into a table. Header cells that are
// not dates (a "TTM" column, the label header) are skipped. When two headers
// name the same period the leftmost column is kept.
func (l *Loader) fromGrid(grid [][]string) (*table.Table, error) {
	if len(grid) == 0 {
		return nil, ErrNoPeriods
	}

	header := grid[0]
	var (
		columns []periodColumn
		periods []time.Time
	)
	first := make(map[time.Time]int)
	for j := 1; j < len(header); j++ {
		p, err := table.ParsePeriod(strings.TrimSpace(header[j]))
		if err != nil {
			l.log.Debug().Str("header", header[j]).Msg("skipping non-period column")
			continue
		}
		if k, dup := first[p]; dup {
			l.log.Warn().
				Str("header", header[j]).
				Str("kept", header[k]).
				Str("period", table.FormatPeriod(p)).
				Msg("duplicate period column, keeping the first")
			continue
		}
		first[p] = j
		columns = append(columns, periodColumn{index: j, period: p})
		periods = append(periods, p)
	}
	if len(periods) == 0 {
		return nil, ErrNoPeriods
	}

	t := table.New(periods...)
	seen := make(map[string]bool)
	for _, row := range grid[1:] {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}
		if seen[label] {
			l.log.Warn().Str("row", label).Msg("duplicate row, later values win")
		}
		seen[label] = true

		t.AddRow(label)
		for _, c := range columns {
			if c.index >= len(row) {
				continue
			}
			if err := l.set(t, label, c.period, row[c.index]); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
