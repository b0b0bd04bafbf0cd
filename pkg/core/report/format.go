package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name, case-insensitively. "md" is markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMarkdown, FormatHTML, FormatTerminal, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("report: unknown format %q", s)
}

// Amount renders a value with two decimals and thousands separators.
func Amount(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

// Rate renders a fraction as a percentage with two decimals.
func Rate(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}
