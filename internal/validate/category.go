// Package validate gates category mutations before they reach the ledger.
package validate

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

var (
	ErrEmptyName     = errors.New("category name is required")
	ErrInvalidBudget = errors.New("budget must be a number greater than or equal to zero")
	ErrCategoryInUse = errors.New("category has transactions")
)

var radixPrefixes = map[string]int{"0x": 16, "0o": 8, "0b": 2}

// ParseBudget reads budget text the way a browser number field coerces it:
// surrounding space is ignored, blank text is zero, and plain decimals,
// exponent form ("1e3") and 0x/0o/0b integers are accepted. Commas,
// NaN and values too large for a float64 are rejected.
func ParseBudget(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero, nil
	}

	if len(s) > 2 {
		if base, ok := radixPrefixes[strings.ToLower(s[:2])]; ok {
			n, ok := new(big.Int).SetString(s[2:], base)
			if !ok || strings.ContainsAny(s[2:], "+-") {
				return decimal.Zero, ErrInvalidBudget
			}
			return finite(decimal.NewFromBigInt(n, 0))
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidBudget
	}
	return finite(d)
}

// finite rejects magnitudes beyond float64 and flushes ones below it to zero.
func finite(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}
	magnitude := int64(d.Exponent()) + int64(len(new(big.Int).Abs(d.Coefficient()).String()))
	switch {
	case magnitude > 310:
		return decimal.Zero, ErrInvalidBudget
	case magnitude < -330:
		return decimal.Zero, nil
	}
	if f, _ := d.Float64(); math.IsInf(f, 0) {
		return decimal.Zero, ErrInvalidBudget
	} else if f == 0 {
		return decimal.Zero, nil
	}
	return d, nil
}

// CheckUpdate reports why a name/budget pair cannot be saved, or nil.
func CheckUpdate(name, budgetText string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	budget, err := ParseBudget(budgetText)
	if err != nil {
		return err
	}
	if budget.IsNegative() {
		return ErrInvalidBudget
	}
	return nil
}

// CanUpdate is true iff the trimmed name is non-empty and budgetText reads
// as a finite number >= 0.
func CanUpdate(name, budgetText string) bool {
	return CheckUpdate(name, budgetText) == nil
}

// CheckDelete returns ErrCategoryInUse when any transaction references categoryID.
func CheckDelete(categoryID string, txs []core.Transaction) error {
	for _, tx := range txs {
		if tx.CategoryID == categoryID {
			return ErrCategoryInUse
		}
	}
	return nil
}

// CanDelete is true iff no transaction references categoryID.
func CanDelete(categoryID string, txs []core.Transaction) bool {
	return CheckDelete(categoryID, txs) == nil
}
