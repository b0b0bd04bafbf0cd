package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"corporate_valuation/pkg/core/table"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// document is the JSON table layout: values are positional against periods,
// null for an absent cell. Strings are parsed like CSV cells.
//
//	{"periods": ["2023-09-30", "2022-09-30"],
//	 "rows": {"Net Income": [96995, 99803]}}
type document struct {
	Periods []string         `json:"periods"`
	Rows    map[string][]any `json:"rows"`
}

func (d *document) validate() error {
	if len(d.Periods) == 0 {
		return ErrNoPeriods
	}
	for label, values := range d.Rows {
		if len(values) != len(d.Periods) {
			return fmt.Errorf("row %q has %d values for %d periods", label, len(values), len(d.Periods))
		}
	}
	return nil
}

// decodeDocument tries strict JSON, then HJSON for hand-written files with
// comments or unquoted keys, then a repair pass for truncated or malformed
// JSON. The first decoding that validates wins.
func decodeDocument(data []byte) (*document, error) {
	strategies := []struct {
		name   string
		decode func([]byte, *document) error
	}{
		{"json", func(b []byte, d *document) error { return json.Unmarshal(b, d) }},
		{"hjson", func(b []byte, d *document) error { return hjson.Unmarshal(b, d) }},
		{"repair", func(b []byte, d *document) error {
			repaired, err := jsonrepair.RepairJSON(string(b))
			if err != nil {
				return err
			}
			return json.Unmarshal([]byte(repaired), d)
		}},
	}

	var errs []error
	for _, s := range strategies {
		var doc document
		err := s.decode(data, &doc)
		if err == nil {
			err = doc.validate()
		}
		if err == nil {
			return &doc, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return nil, errors.Join(errs...)
}

// ReadJSON reads a JSON or HJSON table document.
func (l *Loader) ReadJSON(r io.Reader) (*table.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	periods := make([]time.Time, len(doc.Periods))
	duplicate := make([]bool, len(doc.Periods))
	first := make(map[time.Time]int)
	for i, raw := range doc.Periods {
		if periods[i], err = table.ParsePeriod(raw); err != nil {
			return nil, err
		}
		if k, dup := first[periods[i]]; dup {
			l.log.Warn().
				Str("header", raw).
				Str("kept", doc.Periods[k]).
				Str("period", table.FormatPeriod(periods[i])).
				Msg("duplicate period column, keeping the first")
			duplicate[i] = true
			continue
		}
		first[periods[i]] = i
	}

	labels := make([]string, 0, len(doc.Rows))
	for label := range doc.Rows {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	t := table.New(periods...)
	for _, label := range labels {
		t.AddRow(label)
		for i, v := range doc.Rows[label] {
			if duplicate[i] {
				continue
			}
			switch v := v.(type) {
			case nil:
			case float64:
				l.setFloat(t, label, periods[i], v)
			case string:
				if err := l.set(t, label, periods[i], v); err != nil {
					return nil, err
				}
			default:
				return nil, fmt.Errorf("row %q, period %s: unsupported value %v", label, table.FormatPeriod(periods[i]), v)
			}
		}
	}
	return t, nil
}
