package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/budget"
	"spendwise/internal/cache"
	"spendwise/internal/core"
	"spendwise/internal/format"
	"spendwise/internal/state"
)

func sampleLedger(t *testing.T) state.Ledger {
	t.Helper()
	l := state.New(core.Month{Year: 2024, Month: time.April})
	l.Groups = []core.CategoryGroup{{ID: "g1", Name: "Everyday"}, {ID: "g2", Name: "Bills", Collapsed: true}}

	var err error
	for _, c := range []core.Category{
		{ID: "cat1", Name: "Groceries", Budget: decimal.NewFromInt(100), GroupID: "g1"},
		{ID: "cat2", Name: "Rent", Budget: decimal.NewFromInt(1200), GroupID: "g2"},
		{ID: "cat3", Name: "Gifts", Budget: decimal.NewFromInt(50)},
	} {
		l, err = state.PutCategory(l, c)
		require.NoError(t, err)
	}

	orig := decimal.NewFromInt(-10)
	env := state.DefaultEnv("test")
	for _, tx := range []core.Transaction{
		{ID: "t1", Amount: decimal.NewFromInt(-50), CategoryID: "cat1", Date: core.NewDate(2024, 4, 1), Type: core.Expense, Description: "Market"},
		{ID: "t2", Amount: decimal.NewFromInt(-30), CategoryID: "cat1", Date: core.NewDate(2024, 4, 2), Type: core.Expense, Description: "Bakery"},
		{ID: "t3", Amount: decimal.NewFromInt(-1200), CategoryID: "cat2", Date: core.NewDate(2024, 4, 1), Type: core.Expense, Description: "April rent"},
		{ID: "t4", Amount: decimal.NewFromInt(-11), CategoryID: "cat3", Date: core.NewDate(2024, 4, 9), Type: core.Expense, Description: "Book", OriginalAmount: &orig, OriginalCurrency: "EUR"},
		{ID: "t5", Amount: decimal.NewFromInt(-99), CategoryID: "cat1", Date: core.NewDate(2024, 3, 30), Type: core.Expense, Description: "March"},
	} {
		l, _, err = state.AddTransaction(l, env, tx)
		require.NoError(t, err)
	}
	return l
}

func TestRender(t *testing.T) {
	f := format.MustCurrencyFormat(format.Options{Currency: "USD"})
	rates := budget.RateTable{"EUR": decimal.RequireFromString("1.2")}
	r := NewReporter(f, rates.Converter(), nil, nil)

	out := r.Render(context.Background(), sampleLedger(t))

	assert.Contains(t, out, "Budget for April 2024 (USD)")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "$80.00")
	assert.Contains(t, out, "$20.00")
	assert.Contains(t, out, "▸ Bills")
	assert.NotContains(t, out, "Rent", "collapsed group hides its categories")
	assert.Contains(t, out, "Ungrouped")
	assert.Contains(t, out, "$12.00", "EUR expense converted at 1.2")
	assert.Contains(t, out, "Spent this month: $1,292.00")
	assert.Contains(t, out, "Spent all time:   $1,391.00")
}

func TestRender_Cached(t *testing.T) {
	f := format.MustCurrencyFormat(format.Options{Currency: "EUR", Placement: format.After, Style: format.DotComma})
	c := cache.NewLRUCache[string](4, time.Minute)
	r := NewReporter(f, nil, c, nil)
	l := sampleLedger(t)

	first := r.Render(context.Background(), l)
	second := r.Render(context.Background(), l)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Stats().Hits)

	next := state.NextMonth(l)
	third := r.Render(context.Background(), next)
	assert.Contains(t, third, "May 2024")
	assert.Contains(t, third, "0,00€")
	assert.Equal(t, 2, c.Size())
}

func TestRender_SeparateLedgers(t *testing.T) {
	f := format.MustCurrencyFormat(format.Options{Currency: "USD"})
	c := cache.NewLRUCache[string](4, time.Minute)
	r := NewReporter(f, nil, c, nil)
	ctx := context.Background()
	month := core.Month{Year: 2024, Month: time.April}

	a, err := state.PutCategory(state.New(month), core.Category{ID: "cat1", Name: "Groceries", Budget: decimal.NewFromInt(100)})
	require.NoError(t, err)
	b, err := state.PutCategory(state.New(month), core.Category{ID: "cat1", Name: "Travel", Budget: decimal.NewFromInt(300)})
	require.NoError(t, err)
	require.Equal(t, a.Revision, b.Revision)

	assert.Contains(t, r.Render(ctx, a), "Groceries")
	out := r.Render(ctx, b)
	assert.Contains(t, out, "Travel")
	assert.NotContains(t, out, "Groceries")
	assert.Equal(t, 0, c.Stats().Hits)
	assert.Equal(t, 2, c.Size())
}

func TestWriteAndTransactions(t *testing.T) {
	f := format.MustCurrencyFormat(format.Options{Currency: "USD", DatePattern: "MM/DD/YYYY"})
	r := NewReporter(f, nil, nil, nil)
	l := sampleLedger(t)

	var buf bytes.Buffer
	require.NoError(t, r.Write(context.Background(), &buf, l))
	assert.Contains(t, buf.String(), "Total")

	lines := r.Transactions(l)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "04/01/2024")
	assert.Contains(t, lines[0], "-$50.00")
	assert.Contains(t, lines[3], "(-10 EUR)")
}
