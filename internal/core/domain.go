package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	// Month identifies a calendar month independent of day and time.
	Month struct {
		Year  int
		Month time.Month
	}

	Category struct {
		ID        string
		Name      string
		Budget    decimal.Decimal
		GroupID   string // optional CategoryGroup reference
		OwnerID   string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	CategoryGroup struct {
		ID        string
		Name      string
		OwnerID   string
		Collapsed bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	Transaction struct {
		ID               string
		Amount           decimal.Decimal // negative is an outflow
		OriginalAmount   *decimal.Decimal
		OriginalCurrency string
		CategoryID       string
		Date             Date
		Description      string
		Type             TransactionType
		Currency         string
	}
)

var (
	ErrEmptyName         = errors.New("empty name")
	ErrNegativeBudget    = errors.New("budget must not be negative")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrUnpairedOriginal  = errors.New("original amount and original currency must be set together")
	ErrEmptyCategoryRef  = errors.New("empty category reference")
	ErrDescriptionLength = errors.New("description too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and keeps the calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// MonthOf returns the calendar month containing d.
func MonthOf(d Date) Month {
	return Month{Year: d.Year(), Month: d.Time.Month()}
}

// ParseMonth reads an ISO date (or YYYY-MM) and keeps only year and month.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01", s); err == nil {
		return Month{Year: t.Year(), Month: t.Month()}, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return Month{}, err
	}
	return MonthOf(d), nil
}

// Contains reports whether d falls in the same calendar month and year.
func (m Month) Contains(d Date) bool {
	return !d.IsZero() && d.Year() == m.Year && d.Time.Month() == m.Month
}

func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

func (m Month) Prev() Month {
	if m.Month == time.January {
		return Month{Year: m.Year - 1, Month: time.December}
	}
	return Month{Year: m.Year, Month: m.Month - 1}
}

// First returns the first day of the month.
func (m Month) First() Date {
	return NewDate(m.Year, int(m.Month), 1)
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Expense, Income:
		return true
	default:
		return false
	}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Budget.IsNegative() {
		return ErrNegativeBudget
	}
	return nil
}

func (g CategoryGroup) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// HasOriginal reports whether the transaction was entered in another currency.
func (t Transaction) HasOriginal() bool {
	return t.OriginalAmount != nil && t.OriginalCurrency != ""
}

func (t Transaction) Validate() error {
	if (t.OriginalAmount == nil) != (t.OriginalCurrency == "") {
		return ErrUnpairedOriginal
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return ErrEmptyCategoryRef
	}
	if len(t.Description) > 200 {
		return ErrDescriptionLength
	}
	return nil
}
