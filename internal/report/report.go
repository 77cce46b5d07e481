// Package report renders monthly budget overviews as text.
package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"spendwise/internal/budget"
	"spendwise/internal/cache"
	"spendwise/internal/format"
	"spendwise/internal/log"
	"spendwise/internal/state"
)

// Reporter formats ledger overviews and caches them per ledger snapshot.
type Reporter struct {
	format  format.CurrencyFormat
	convert budget.Converter
	cache   *cache.LRUCache[string]
	logger  *log.Logger
}

func NewReporter(f format.CurrencyFormat, convert budget.Converter, c *cache.LRUCache[string], logger *log.Logger) *Reporter {
	if convert == nil {
		convert = budget.Identity
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Reporter{
		format:  f,
		convert: convert,
		cache:   c,
		logger:  logger.WithComponent(log.ComponentReport),
	}
}

// cacheKey identifies a snapshot: revisions only count within one ledger.
func cacheKey(l state.Ledger) string {
	return fmt.Sprintf("%s/%d/%s", l.ID, l.Revision, l.Month)
}

// Render returns the overview of the ledger's selected month.
func (r *Reporter) Render(ctx context.Context, l state.Ledger) string {
	if r.cache == nil {
		return r.render(ctx, l)
	}
	key := cacheKey(l)
	if text, ok := r.cache.Get(key); ok {
		r.logger.DebugContext(ctx, "Report served from cache", log.FieldMonth, l.Month.String(), log.FieldRevision, l.Revision)
		return text
	}
	text := r.render(ctx, l)
	r.cache.Set(key, text)
	return text
}

// Write renders the report to w.
func (r *Reporter) Write(ctx context.Context, w io.Writer, l state.Ledger) error {
	_, err := io.WriteString(w, r.Render(ctx, l))
	return err
}

func (r *Reporter) render(ctx context.Context, l state.Ledger) string {
	ov := budget.Overview(l.Categories, l.Transactions, l.Month, r.convert)
	groups := budget.GroupTotals(ov, l.Groups)

	var b strings.Builder
	fmt.Fprintf(&b, "Budget for %s (%s)\n\n", l.Month.First().Format("January 2006"), r.format.Currency())

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Category\tAssigned\tActivity\tAvailable\t")
	for _, g := range groups {
		if len(g.Lines) == 0 && g.Group.ID != "" {
			continue
		}
		name := g.Group.Name
		if g.Group.ID == "" {
			name = "Ungrouped"
		}
		marker := "▾"
		if g.Group.Collapsed {
			marker = "▸"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t\n", marker, name,
			r.format.Format(g.Assigned), r.format.Format(g.Activity), r.format.Format(g.Available))
		if g.Group.Collapsed {
			continue
		}
		for _, line := range g.Lines {
			fmt.Fprintf(tw, "    %s\t%s\t%s\t%s\t\n", line.Category.Name,
				r.format.Format(line.Assigned), r.format.Format(line.Activity), r.format.Format(line.Available))
		}
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t\n",
		r.format.Format(ov.Assigned), r.format.Format(ov.Activity), r.format.Format(ov.Available))
	tw.Flush()

	fmt.Fprintf(&b, "\nSpent this month: %s\n", r.format.Format(ov.Spent))
	fmt.Fprintf(&b, "Spent all time:   %s\n", r.format.Format(budget.TotalExpenses(l.Transactions, r.convert)))

	r.logger.InfoContext(ctx, "Report rendered",
		log.NewFields().
			WithOperation(log.OpRender).
			WithMonth(l.Month.String(), l.Revision).
			WithAmount(r.format.Format(ov.Activity), r.format.Currency()).
			ToSlice()...)
	return b.String()
}

// Transactions lists the month's transactions with formatted dates and amounts.
func (r *Reporter) Transactions(l state.Ledger) []string {
	names := make(map[string]string, len(l.Categories))
	for _, c := range l.Categories {
		names[c.ID] = c.Name
	}
	var out []string
	for _, tx := range l.Transactions {
		if !l.Month.Contains(tx.Date) {
			continue
		}
		amount := r.format.Format(tx.Amount)
		if tx.HasOriginal() {
			amount += fmt.Sprintf(" (%s %s)", tx.OriginalAmount.String(), tx.OriginalCurrency)
		}
		out = append(out, fmt.Sprintf("%s  %-20s %-12s %s",
			r.format.FormatDate(tx.Date.Time), tx.Description, names[tx.CategoryID], amount))
	}
	return out
}
