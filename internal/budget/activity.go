// Package budget aggregates transactions into per-category monthly activity.
//
// Every function here is pure: results depend only on the arguments and no
// function reads the wall clock.
package budget

import (
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// contribution is the non-negative amount a transaction adds to spending.
// Cross-currency entries are converted from their original amount.
func contribution(tx core.Transaction, convert Converter) decimal.Decimal {
	if tx.HasOriginal() {
		if convert == nil {
			convert = Identity
		}
		return convert(tx.OriginalAmount.Abs(), tx.OriginalCurrency).Abs()
	}
	return tx.Amount.Abs()
}

// CategoryActivity sums expense transactions of categoryID dated in month.
func CategoryActivity(categoryID string, txs []core.Transaction, month core.Month, convert Converter) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.CategoryID != categoryID || tx.Type != core.Expense || !month.Contains(tx.Date) {
			continue
		}
		total = total.Add(contribution(tx, convert))
	}
	return total
}

// CategoryActivityOn is CategoryActivity with the month taken from an ISO
// reference date. An unreadable reference matches nothing and yields zero.
func CategoryActivityOn(categoryID string, txs []core.Transaction, reference string, convert Converter) decimal.Decimal {
	month, err := core.ParseMonth(reference)
	if err != nil {
		return decimal.Zero
	}
	return CategoryActivity(categoryID, txs, month, convert)
}

// TotalExpenses sums every expense regardless of category or month.
func TotalExpenses(txs []core.Transaction, convert Converter) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == core.Expense {
			total = total.Add(contribution(tx, convert))
		}
	}
	return total
}

// MonthExpenses sums every expense dated in month.
func MonthExpenses(txs []core.Transaction, month core.Month, convert Converter) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Type == core.Expense && month.Contains(tx.Date) {
			total = total.Add(contribution(tx, convert))
		}
	}
	return total
}

// AssignedTotal sums the budget of every category.
func AssignedTotal(categories []core.Category) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Budget)
	}
	return total
}
