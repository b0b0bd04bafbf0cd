// Package ingest reads financial-statement tables from files: CSV exports,
// JSON or HJSON documents, and saved HTML statement pages.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"corporate_valuation/pkg/core/table"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Options control how cell values are interpreted.
type Options struct {
	// Scale multiplies every value, e.g. 1000 for statements "in thousands".
	// Zero means 1.
	Scale float64
}

// Loader builds tables from statement files.
type Loader struct {
	opts  Options
	scale decimal.Decimal
	log   zerolog.Logger
}

// NewLoader creates a loader.
func NewLoader(log zerolog.Logger, opts Options) *Loader {
	scale := decimal.NewFromInt(1)
	if opts.Scale != 0 {
		scale = decimal.NewFromFloat(opts.Scale)
	}
	return &Loader{
		opts:  opts,
		scale: scale,
		log:   log.With().Str("component", "ingest").Logger(),
	}
}

// LoadFile picks a reader from the file extension.
func (l *Loader) LoadFile(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	var t *table.Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		t, err = l.ReadCSV(f)
	case ".json", ".hjson":
		t, err = l.ReadJSON(f)
	case ".html", ".htm":
		t, err = l.ReadHTML(f)
	default:
		return nil, fmt.Errorf("ingest: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", filepath.Base(path), err)
	}
	l.log.Debug().
		Str("file", path).
		Int("rows", len(t.Labels())).
		Int("periods", len(t.Periods())).
		Msg("table loaded")
	return t, nil
}

// absentCells are the placeholders statement sources print for a missing value.
var absentCells = map[string]bool{
	"": true, "-": true, "--": true, "—": true, "–": true,
	"n/a": true, "na": true, "nan": true, "null": true,
}

// ParseNumber parses a statement cell. It accepts thousands separators,
// currency symbols and accounting negatives such as "(1,234)". ok is false
// for placeholders that mean "no value".
func ParseNumber(s string) (v decimal.Decimal, ok bool, err error) {
	s = strings.TrimSpace(s)
	if absentCells[strings.ToLower(s)] {
		return decimal.Decimal{}, false, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer(",", "", "$", "", " ", "", "\u00a0", "").Replace(s)

	v, err = decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("ingest: not a number: %q", s)
	}
	if negative {
		v = v.Neg()
	}
	return v, true, nil
}

// set parses raw and stores it, leaving the cell absent for placeholders.
func (l *Loader) set(t *table.Table, label string, period time.Time, raw string) error {
	v, ok, err := ParseNumber(raw)
	if err != nil {
		return fmt.Errorf("row %q, period %s: %w", label, table.FormatPeriod(period), err)
	}
	if !ok {
		return nil
	}
	f, _ := v.Mul(l.scale).Float64()
	t.Set(label, period, f)
	return nil
}

// setFloat stores an already numeric value.
func (l *Loader) setFloat(t *table.Table, label string, period time.Time, v float64) {
	f, _ := decimal.NewFromFloat(v).Mul(l.scale).Float64()
	t.Set(label, period, f)
}
