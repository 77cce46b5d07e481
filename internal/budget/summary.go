package budget

import (
	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// CategoryLine is one row of a monthly overview.
type CategoryLine struct {
	Category  core.Category
	Assigned  decimal.Decimal
	Activity  decimal.Decimal
	Available decimal.Decimal // Assigned - Activity, negative when overspent
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Month     core.Month
	Lines     []CategoryLine
	Assigned  decimal.Decimal
	Activity  decimal.Decimal // expenses of listed categories only
	Spent     decimal.Decimal // all expenses of the month
	Available decimal.Decimal
}

// GroupTotal rolls category lines up to their group.
type GroupTotal struct {
	Group     core.CategoryGroup // zero value for ungrouped categories
	Lines     []CategoryLine
	Assigned  decimal.Decimal
	Activity  decimal.Decimal
	Available decimal.Decimal
}

// Overview computes one line per category, in the order given.
func Overview(categories []core.Category, txs []core.Transaction, month core.Month, convert Converter) MonthOverview {
	ov := MonthOverview{
		Month:    month,
		Lines:    make([]CategoryLine, 0, len(categories)),
		Assigned: decimal.Zero,
		Activity: decimal.Zero,
	}

	// single pass bucket so large ledgers stay linear
	activity := make(map[string]decimal.Decimal, len(categories))
	for _, tx := range txs {
		if tx.Type == core.Expense && month.Contains(tx.Date) {
			activity[tx.CategoryID] = activity[tx.CategoryID].Add(contribution(tx, convert))
		}
	}

	for _, c := range categories {
		spent := activity[c.ID]
		ov.Lines = append(ov.Lines, CategoryLine{
			Category:  c,
			Assigned:  c.Budget,
			Activity:  spent,
			Available: c.Budget.Sub(spent),
		})
		ov.Assigned = ov.Assigned.Add(c.Budget)
		ov.Activity = ov.Activity.Add(spent)
	}
	ov.Spent = MonthExpenses(txs, month, convert)
	ov.Available = ov.Assigned.Sub(ov.Activity)
	return ov
}

// GroupTotals groups overview lines by CategoryGroup, following the order of
// groups. Lines whose group is unknown or empty are collected last under a
// zero-value group.
func GroupTotals(ov MonthOverview, groups []core.CategoryGroup) []GroupTotal {
	index := make(map[string]int, len(groups))
	out := make([]GroupTotal, 0, len(groups)+1)
	for _, g := range groups {
		index[g.ID] = len(out)
		out = append(out, GroupTotal{Group: g, Assigned: decimal.Zero, Activity: decimal.Zero, Available: decimal.Zero})
	}

	var ungrouped *GroupTotal
	for _, line := range ov.Lines {
		var gt *GroupTotal
		if i, ok := index[line.Category.GroupID]; ok && line.Category.GroupID != "" {
			gt = &out[i]
		} else {
			if ungrouped == nil {
				ungrouped = &GroupTotal{Assigned: decimal.Zero, Activity: decimal.Zero, Available: decimal.Zero}
			}
			gt = ungrouped
		}
		gt.Lines = append(gt.Lines, line)
		gt.Assigned = gt.Assigned.Add(line.Assigned)
		gt.Activity = gt.Activity.Add(line.Activity)
		gt.Available = gt.Available.Add(line.Available)
	}
	if ungrouped != nil {
		out = append(out, *ungrouped)
	}
	return out
}
