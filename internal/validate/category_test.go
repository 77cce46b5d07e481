package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
)

func TestCanUpdate(t *testing.T) {
	tests := []struct {
		name   string
		cat    string
		budget string
		want   bool
	}{
		{"valid", "Food", "100", true},
		{"zero budget", "Food", "0", true},
		{"decimal budget", "Food", "12.50", true},
		{"comma decimal", "Food", "12,50", false},
		{"grouped thousands", "Food", "1,000", false},
		{"exponent", "Food", "1e3", true},
		{"negative exponent", "Food", "25E-1", true},
		{"leading dot", "Food", ".5", true},
		{"trailing dot", "Food", "5.", true},
		{"explicit plus", "Food", "+5", true},
		{"hex", "Food", "0x1F", true},
		{"signed hex", "Food", "-0x1F", false},
		{"negative zero", "Food", "-0", true},
		{"padded", "  Food ", " 5 ", true},
		{"negative budget", "Food", "-100", false},
		{"tiny negative", "Food", "-1e-400", true},
		{"non numeric budget", "Food", "abc", false},
		{"empty budget", "Food", "", true},
		{"blank budget", "Food", "   ", true},
		{"lone dot", "Food", ".", false},
		{"dangling exponent", "Food", "1e", false},
		{"inner space", "Food", "1 000", false},
		{"overflow", "Food", "1e400", false},
		{"huge exponent", "Food", "1e2000000000", false},
		{"infinite budget", "Food", "Infinity", false},
		{"nan budget", "Food", "NaN", false},
		{"empty name", "", "100", false},
		{"blank name", "   ", "100", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpdate(tt.cat, tt.budget))
		})
	}
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1e3", "1000"},
		{"", "0"},
		{" 12.5 ", "12.5"},
		{"0b101", "5"},
		{"0o17", "15"},
		{"1e-400", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBudget(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "ParseBudget(%q) = %s", tt.in, got)
		})
	}

	_, err := ParseBudget("12,50")
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestCheckUpdate_Reasons(t *testing.T) {
	assert.ErrorIs(t, CheckUpdate(" ", "1"), ErrEmptyName)
	assert.ErrorIs(t, CheckUpdate("Food", "-1"), ErrInvalidBudget)
	assert.ErrorIs(t, CheckUpdate("Food", "12,50"), ErrInvalidBudget)
	assert.NoError(t, CheckUpdate("Food", "1"))
}

func TestCanDelete(t *testing.T) {
	txs := []core.Transaction{
		{ID: "t1", CategoryID: "cat1"},
		{ID: "t2", CategoryID: "cat2"},
	}
	assert.False(t, CanDelete("cat1", []core.Transaction{{CategoryID: "cat1"}}))
	assert.False(t, CanDelete("cat2", txs))
	assert.True(t, CanDelete("cat3", txs))
	assert.True(t, CanDelete("cat1", nil))
	assert.ErrorIs(t, CheckDelete("cat1", txs), ErrCategoryInUse)
}
