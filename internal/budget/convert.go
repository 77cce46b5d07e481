package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"spendwise/internal/cache"
	"spendwise/internal/log"
)

// Converter turns an amount in the given currency into the budget currency.
type Converter func(amount decimal.Decimal, currency string) decimal.Decimal

// Identity returns amounts unchanged.
func Identity(amount decimal.Decimal, _ string) decimal.Decimal {
	return amount
}

// RateTable maps an ISO currency code to the number of base units one unit
// of that currency is worth.
type RateTable map[string]decimal.Decimal

// ParseRates reads "EUR=1.08,GBP=1.27" style lists.
func ParseRates(s string) (RateTable, error) {
	rates := RateTable{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("rate %q: expected CODE=RATE", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("rate %q: %w", pair, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("rate %q: must be positive", pair)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}

// Rate returns the rate for code. Unknown currencies convert at 1.
func (r RateTable) Rate(code string) decimal.Decimal {
	if rate, ok := r[strings.ToUpper(code)]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

// Converter returns a Converter backed by the table.
func (r RateTable) Converter() Converter {
	return func(amount decimal.Decimal, currency string) decimal.Decimal {
		return amount.Mul(r.Rate(currency))
	}
}

// RateSource looks up the rate for one currency.
type RateSource func(currency string) decimal.Decimal

// CachedConverter memoises rate lookups from src.
func CachedConverter(src RateSource, c *cache.LRUCache[decimal.Decimal], logger *log.Logger) Converter {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentCache)
	return func(amount decimal.Decimal, currency string) decimal.Decimal {
		key := strings.ToUpper(currency)
		missed := false
		rate := c.GetOrLoad(key, func() decimal.Decimal {
			missed = true
			return src(key)
		})
		if missed {
			logger.Debug("Rate cache miss", log.FieldCurrency, key, "rate", rate.String())
		} else {
			logger.Debug("Rate cache hit", log.FieldCurrency, key)
		}
		return amount.Mul(rate)
	}
}
