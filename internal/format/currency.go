// Package format renders amounts and dates for display.
//
// A CurrencyFormat is a closed descriptor: every field is checked when the
// descriptor is built, so formatting itself never fails.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultFractionDigits applies when a descriptor does not specify precision.
const DefaultFractionDigits = 2

const maxFractionDigits = 8

const (
	Before Placement = "before"
	After  Placement = "after"
)

const (
	CommaDot NumberStyle = "comma-dot" // 1,234.56
	DotComma NumberStyle = "dot-comma" // 1.234,56
	SpaceDot NumberStyle = "space-dot" // 1 234.56
)

var ErrInvalidFormat = errors.New("invalid format")

type (
	Placement   string
	NumberStyle string

	// CurrencyFormat controls how an amount is rendered. Build it with
	// NewCurrencyFormat; the zero value is not usable.
	CurrencyFormat struct {
		code        string
		symbol      string
		placement   Placement
		style       NumberStyle
		minFraction int
		maxFraction int
		datePattern DatePattern
	}

	// Options are the loosely typed inputs accepted by NewCurrencyFormat.
	// Nil fraction digits fall back to DefaultFractionDigits.
	Options struct {
		Currency    string
		Placement   Placement
		Style       NumberStyle
		MinFraction *int
		MaxFraction *int
		DatePattern string
	}
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"INR": "₹",
	"KRW": "₩",
	"RUB": "₽",
	"BRL": "R$",
	"CAD": "CA$",
	"AUD": "A$",
	"CHF": "CHF",
	"PLN": "zł",
	"SEK": "kr",
	"NOK": "kr",
	"DKK": "kr",
	"TRY": "₺",
	"UAH": "₴",
}

func (p Placement) IsValid() bool {
	return p == Before || p == After
}

func (s NumberStyle) IsValid() bool {
	switch s {
	case CommaDot, DotComma, SpaceDot:
		return true
	default:
		return false
	}
}

func (s NumberStyle) separators() (group, decimalSep string) {
	switch s {
	case DotComma:
		return ".", ","
	case SpaceDot:
		return " ", "."
	default:
		return ",", "."
	}
}

// NewCurrencyFormat validates opts and returns a ready-to-use descriptor.
// Empty placement, style and date pattern default to Before, CommaDot and
// YYYY-MM-DD respectively.
func NewCurrencyFormat(opts Options) (CurrencyFormat, error) {
	code := strings.ToUpper(strings.TrimSpace(opts.Currency))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return CurrencyFormat{}, fmt.Errorf("%w: currency %q: %v", ErrInvalidFormat, opts.Currency, err)
	}
	code = unit.String()

	placement := opts.Placement
	if placement == "" {
		placement = Before
	}
	if !placement.IsValid() {
		return CurrencyFormat{}, fmt.Errorf("%w: placement %q", ErrInvalidFormat, opts.Placement)
	}

	style := opts.Style
	if style == "" {
		style = CommaDot
	}
	if !style.IsValid() {
		return CurrencyFormat{}, fmt.Errorf("%w: number style %q", ErrInvalidFormat, opts.Style)
	}

	minFrac, maxFrac := DefaultFractionDigits, DefaultFractionDigits
	switch {
	case opts.MinFraction != nil && opts.MaxFraction != nil:
		minFrac, maxFrac = *opts.MinFraction, *opts.MaxFraction
	case opts.MinFraction != nil:
		minFrac = *opts.MinFraction
		maxFrac = max(minFrac, DefaultFractionDigits)
	case opts.MaxFraction != nil:
		maxFrac = *opts.MaxFraction
		minFrac = min(maxFrac, DefaultFractionDigits)
	}
	if minFrac < 0 || maxFrac > maxFractionDigits || minFrac > maxFrac {
		return CurrencyFormat{}, fmt.Errorf("%w: fraction digits min=%d max=%d", ErrInvalidFormat, minFrac, maxFrac)
	}

	pattern := ISODate
	if opts.DatePattern != "" {
		if pattern, err = ParseDatePattern(opts.DatePattern); err != nil {
			return CurrencyFormat{}, err
		}
	}

	symbol, ok := symbols[code]
	if !ok {
		symbol = code
	}

	return CurrencyFormat{
		code:        code,
		symbol:      symbol,
		placement:   placement,
		style:       style,
		minFraction: minFrac,
		maxFraction: maxFrac,
		datePattern: pattern,
	}, nil
}

// MustCurrencyFormat is like NewCurrencyFormat but panics on invalid options.
func MustCurrencyFormat(opts Options) CurrencyFormat {
	f, err := NewCurrencyFormat(opts)
	if err != nil {
		panic(err)
	}
	return f
}

// Digits is a helper for filling Options fraction fields.
func Digits(n int) *int {
	return &n
}

func (f CurrencyFormat) Currency() string         { return f.code }
func (f CurrencyFormat) Symbol() string           { return f.symbol }
func (f CurrencyFormat) Placement() Placement     { return f.placement }
func (f CurrencyFormat) Style() NumberStyle       { return f.style }
func (f CurrencyFormat) DatePattern() DatePattern { return f.datePattern }

// FractionDigits returns the minimum and maximum fraction digits.
func (f CurrencyFormat) FractionDigits() (minDigits, maxDigits int) {
	return f.minFraction, f.maxFraction
}

// FormatCurrency renders amount according to f.
//
// The amount is rounded half away from zero to the maximum fraction digits,
// then trailing zeros are dropped down to the minimum. A negative result
// always leads with the sign, whatever the placement: "-$1,234.56" and
// "-1,234.56€". Amounts that round to zero carry no sign.
func FormatCurrency(amount decimal.Decimal, f CurrencyFormat) string {
	if f.code == "" {
		f = defaultFormat
	}

	rounded := amount.Round(int32(f.maxFraction))
	number := groupDigits(rounded.Abs().StringFixed(int32(f.maxFraction)), f.minFraction, f.style)

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	if f.placement == After {
		b.WriteString(number)
		b.WriteString(f.symbol)
	} else {
		b.WriteString(f.symbol)
		b.WriteString(number)
	}
	return b.String()
}

// FormatFloat is FormatCurrency for callers holding float64 amounts.
func FormatFloat(amount float64, f CurrencyFormat) string {
	return FormatCurrency(decimal.NewFromFloat(amount), f)
}

// Format is a method form of FormatCurrency.
func (f CurrencyFormat) Format(amount decimal.Decimal) string {
	return FormatCurrency(amount, f)
}

var defaultFormat = MustCurrencyFormat(Options{Currency: "USD"})

// groupDigits turns a plain fixed-point string such as "1234.50" into the
// styled representation, trimming fraction zeros down to minFrac.
func groupDigits(fixed string, minFrac int, style NumberStyle) string {
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	for len(fracPart) > minFrac && strings.HasSuffix(fracPart, "0") {
		fracPart = fracPart[:len(fracPart)-1]
	}

	groupSep, decimalSep := style.separators()

	var b strings.Builder
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(groupSep)
		b.WriteString(intPart[i : i+3])
	}
	if fracPart != "" {
		b.WriteString(decimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}

// ParseCurrency reads a string produced by FormatCurrency with the same
// descriptor back into a decimal amount.
func ParseCurrency(s string, f CurrencyFormat) (decimal.Decimal, error) {
	if f.code == "" {
		f = defaultFormat
	}
	s = strings.TrimSpace(s)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var ok bool
	if f.placement == After {
		s, ok = strings.CutSuffix(s, f.symbol)
	} else {
		s, ok = strings.CutPrefix(s, f.symbol)
	}
	if !ok || s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q does not match %s", ErrInvalidFormat, s, f.code)
	}

	groupSep, decimalSep := f.style.separators()
	intPart, fracPart, hasFrac := strings.Cut(s, decimalSep)
	groups := strings.Split(intPart, groupSep)
	for i, g := range groups {
		if g == "" || len(g) > 3 || (i > 0 && len(g) != 3) || !isDigits(g) {
			return decimal.Zero, fmt.Errorf("%w: bad digit grouping in %q", ErrInvalidFormat, s)
		}
	}
	if hasFrac && (fracPart == "" || !isDigits(fracPart)) {
		return decimal.Zero, fmt.Errorf("%w: bad fraction in %q", ErrInvalidFormat, s)
	}

	plain := strings.Join(groups, "")
	if hasFrac {
		plain += "." + fracPart
	}
	d, err := decimal.NewFromString(plain)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
