package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
	"spendwise/internal/validate"
)

func testEnv() Env {
	n := 0
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	return Env{
		NewID:   func() string { n++; return fmt.Sprintf("id%d", n) },
		Now:     func() time.Time { return now },
		OwnerID: "user1",
	}
}

func april() core.Month { return core.Month{Year: 2024, Month: time.April} }

func TestAddCategory(t *testing.T) {
	env := testEnv()
	l0 := New(april())

	l1, c, err := AddCategory(l0, env, CategoryInput{Name: " Food ", Budget: "250.5"})
	require.NoError(t, err)
	assert.Equal(t, "id1", c.ID)
	assert.Equal(t, "Food", c.Name)
	assert.Equal(t, "user1", c.OwnerID)
	assert.True(t, c.Budget.Equal(decimal.RequireFromString("250.5")))
	assert.Len(t, l1.Categories, 1)
	assert.Equal(t, int64(1), l1.Revision)

	// the previous snapshot is untouched
	assert.Empty(t, l0.Categories)
	assert.Equal(t, int64(0), l0.Revision)

	_, _, err = AddCategory(l1, env, CategoryInput{Name: "Bad", Budget: "-1"})
	assert.ErrorIs(t, err, validate.ErrInvalidBudget)
	_, _, err = AddCategory(l1, env, CategoryInput{Name: "", Budget: "1"})
	assert.ErrorIs(t, err, validate.ErrEmptyName)
	_, _, err = AddCategory(l1, env, CategoryInput{Name: "X", Budget: "1", GroupID: "nope"})
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestLedgerIdentity(t *testing.T) {
	a, b := New(april()), New(april())
	require.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	next, _, err := AddCategory(a, testEnv(), CategoryInput{Name: "Food", Budget: "1"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, next.ID)
	assert.Equal(t, a.ID, NextMonth(next).ID)
}

func TestCategoryBudgetText(t *testing.T) {
	tests := []struct {
		budget string
		want   string
	}{
		{"1e3", "1000"},
		{"", "0"},
		{"  ", "0"},
		{".5", "0.5"},
		{"0x10", "16"},
	}
	for _, tt := range tests {
		t.Run(tt.budget, func(t *testing.T) {
			l, c, err := AddCategory(New(april()), testEnv(), CategoryInput{Name: "Food", Budget: tt.budget})
			require.NoError(t, err)
			assert.True(t, c.Budget.Equal(decimal.RequireFromString(tt.want)), "budget = %s", c.Budget)

			_, updated, err := UpdateCategory(l, testEnv(), c.ID, CategoryInput{Name: "Food", Budget: tt.budget})
			require.NoError(t, err)
			assert.True(t, updated.Budget.Equal(c.Budget))
		})
	}

	_, _, err := AddCategory(New(april()), testEnv(), CategoryInput{Name: "Food", Budget: "12,50"})
	assert.ErrorIs(t, err, validate.ErrInvalidBudget)
}

func TestUpdateCategory(t *testing.T) {
	env := testEnv()
	l, c, err := AddCategory(New(april()), env, CategoryInput{Name: "Food", Budget: "100"})
	require.NoError(t, err)
	l, g, err := AddGroup(l, env, "Everyday")
	require.NoError(t, err)

	l2, updated, err := UpdateCategory(l, env, c.ID, CategoryInput{Name: "Groceries", Budget: "120", GroupID: g.ID})
	require.NoError(t, err)
	assert.Equal(t, "Groceries", updated.Name)
	assert.Equal(t, g.ID, updated.GroupID)
	got, ok := l2.Category(c.ID)
	require.True(t, ok)
	assert.True(t, got.Budget.Equal(decimal.NewFromInt(120)))

	orig, _ := l.Category(c.ID)
	assert.Equal(t, "Food", orig.Name)

	_, _, err = UpdateCategory(l, env, "missing", CategoryInput{Name: "A", Budget: "1"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = UpdateCategory(l, env, c.ID, CategoryInput{Name: "A", Budget: "x"})
	assert.ErrorIs(t, err, validate.ErrInvalidBudget)
}

func TestDeleteCategory_GuardedByTransactions(t *testing.T) {
	env := testEnv()
	l, c, err := AddCategory(New(april()), env, CategoryInput{Name: "Food", Budget: "100"})
	require.NoError(t, err)
	l, tx, err := AddTransaction(l, env, core.Transaction{
		Amount:     decimal.NewFromInt(-20),
		CategoryID: c.ID,
		Date:       core.NewDate(2024, 4, 3),
		Type:       core.Expense,
		Currency:   "USD",
	})
	require.NoError(t, err)

	_, err = DeleteCategory(l, c.ID)
	assert.ErrorIs(t, err, validate.ErrCategoryInUse)

	l, err = DeleteTransaction(l, tx.ID)
	require.NoError(t, err)
	l, err = DeleteCategory(l, c.ID)
	require.NoError(t, err)
	assert.Empty(t, l.Categories)

	_, err = DeleteCategory(l, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTransaction_Rejects(t *testing.T) {
	env := testEnv()
	l, c, err := AddCategory(New(april()), env, CategoryInput{Name: "Food", Budget: "100"})
	require.NoError(t, err)

	base := core.Transaction{
		ID:         "t1",
		Amount:     decimal.NewFromInt(-20),
		CategoryID: c.ID,
		Date:       core.NewDate(2024, 4, 3),
		Type:       core.Expense,
	}
	l, _, err = AddTransaction(l, env, base)
	require.NoError(t, err)

	_, _, err = AddTransaction(l, env, base)
	assert.ErrorIs(t, err, ErrDuplicateID)

	unknown := base
	unknown.ID = "t2"
	unknown.CategoryID = "nope"
	_, _, err = AddTransaction(l, env, unknown)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	unpaired := base
	unpaired.ID = "t3"
	unpaired.OriginalCurrency = "EUR"
	_, _, err = AddTransaction(l, env, unpaired)
	assert.ErrorIs(t, err, core.ErrUnpairedOriginal)

	_, err = DeleteTransaction(l, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroups(t *testing.T) {
	env := testEnv()
	l, g, err := AddGroup(New(april()), env, "Bills")
	require.NoError(t, err)
	assert.False(t, g.Collapsed)

	l, c, err := AddCategory(l, env, CategoryInput{Name: "Rent", Budget: "900", GroupID: g.ID})
	require.NoError(t, err)

	toggled, err := ToggleGroup(l, env, g.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Groups[0].Collapsed)
	assert.False(t, l.Groups[0].Collapsed)

	_, err = ToggleGroup(l, env, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = AddGroup(l, env, "  ")
	assert.ErrorIs(t, err, core.ErrEmptyName)

	removed, err := DeleteGroup(l, env, g.ID)
	require.NoError(t, err)
	assert.Empty(t, removed.Groups)
	rent, _ := removed.Category(c.ID)
	assert.Equal(t, "", rent.GroupID)
	still, _ := l.Category(c.ID)
	assert.Equal(t, g.ID, still.GroupID)
}

func TestPutCategory(t *testing.T) {
	l, err := PutCategory(New(april()), core.Category{ID: "c1", Name: "Food", Budget: decimal.NewFromInt(10)})
	require.NoError(t, err)
	l, err = PutCategory(l, core.Category{ID: "c1", Name: "Food & Drink", Budget: decimal.NewFromInt(15)})
	require.NoError(t, err)
	require.Len(t, l.Categories, 1)
	assert.Equal(t, "Food & Drink", l.Categories[0].Name)

	_, err = PutCategory(l, core.Category{ID: "c2", Name: "Neg", Budget: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, core.ErrNegativeBudget)
}

func TestMonthNavigation(t *testing.T) {
	l := New(core.Month{Year: 2024, Month: time.December})
	next := NextMonth(l)
	assert.Equal(t, core.Month{Year: 2025, Month: time.January}, next.Month)
	assert.Equal(t, l.Month, PrevMonth(next).Month)
	assert.Equal(t, int64(2), PrevMonth(next).Revision)

	same := SelectMonth(l, l.Month)
	assert.Equal(t, l.Revision, same.Revision)
}

func TestDefaultEnv(t *testing.T) {
	env := DefaultEnv("owner")
	a, b := env.NewID(), env.NewID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
