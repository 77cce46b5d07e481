package format

import (
	"fmt"
	"strings"
	"time"
)

// DatePattern is one of the three supported literal date layouts.
type DatePattern string

const (
	USDate  DatePattern = "MM/DD/YYYY"
	EUDate  DatePattern = "DD/MM/YYYY"
	ISODate DatePattern = "YYYY-MM-DD"
)

var dateLayouts = map[DatePattern]string{
	USDate:  "01/02/2006",
	EUDate:  "02/01/2006",
	ISODate: "2006-01-02",
}

// DatePatterns lists the accepted patterns.
func DatePatterns() []DatePattern {
	return []DatePattern{USDate, EUDate, ISODate}
}

// ParseDatePattern validates a user-supplied pattern token.
func ParseDatePattern(s string) (DatePattern, error) {
	p := DatePattern(strings.TrimSpace(s))
	if _, ok := dateLayouts[p]; !ok {
		return "", fmt.Errorf("%w: date pattern %q", ErrInvalidFormat, s)
	}
	return p, nil
}

// FormatDate renders date with one of the supported pattern tokens.
// Unknown patterns fail with ErrInvalidFormat.
func FormatDate(date time.Time, pattern string) (string, error) {
	p, err := ParseDatePattern(pattern)
	if err != nil {
		return "", err
	}
	return date.Format(dateLayouts[p]), nil
}

// FormatDate renders date with the descriptor's pattern.
func (f CurrencyFormat) FormatDate(date time.Time) string {
	layout, ok := dateLayouts[f.datePattern]
	if !ok {
		layout = dateLayouts[ISODate]
	}
	return date.Format(layout)
}
