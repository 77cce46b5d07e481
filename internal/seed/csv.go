// Package seed loads a starting ledger from CSV files in a data directory.
package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// readRows parses CSV content into header-keyed rows. Rows with fewer fields
// than headers are reported and skipped.
func readRows(r io.Reader) ([]map[string]string, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, nil // empty or header-only
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	var errs []string
	for i, record := range records[1:] {
		rowNum := i + 2
		if len(record) < len(headers) {
			errs = append(errs, fmt.Sprintf("Row %d: Not enough fields", rowNum))
			rows = append(rows, nil)
			continue
		}
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			row[h] = strings.TrimSpace(record[j])
		}
		rows = append(rows, row)
	}
	return rows, errs, nil
}

// ParseGroups reads id,name[,collapsed] rows.
func ParseGroups(r io.Reader) ([]core.CategoryGroup, []string, error) {
	rows, errs, err := readRows(r)
	if err != nil {
		return nil, nil, err
	}
	var groups []core.CategoryGroup
	for i, row := range rows {
		if row == nil {
			continue
		}
		g, err := mapToGroup(row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+2, err))
			continue
		}
		groups = append(groups, g)
	}
	return groups, errs, nil
}

func mapToGroup(row map[string]string) (core.CategoryGroup, error) {
	g := core.CategoryGroup{ID: row["id"], Name: row["name"]}
	if g.ID == "" {
		return g, fmt.Errorf("missing id")
	}
	if c := row["collapsed"]; c != "" {
		collapsed, err := strconv.ParseBool(c)
		if err != nil {
			return g, fmt.Errorf("invalid collapsed: %s", c)
		}
		g.Collapsed = collapsed
	}
	return g, g.Validate()
}

// ParseCategories reads id,name,budget[,group_id] rows.
func ParseCategories(r io.Reader) ([]core.Category, []string, error) {
	rows, errs, err := readRows(r)
	if err != nil {
		return nil, nil, err
	}
	var cats []core.Category
	for i, row := range rows {
		if row == nil {
			continue
		}
		c, err := mapToCategory(row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+2, err))
			continue
		}
		cats = append(cats, c)
	}
	return cats, errs, nil
}

func mapToCategory(row map[string]string) (core.Category, error) {
	c := core.Category{ID: row["id"], Name: row["name"], GroupID: row["group_id"]}
	if c.ID == "" {
		return c, fmt.Errorf("missing id")
	}
	budget, err := core.ParseAmount(row["budget"])
	if err != nil {
		return c, fmt.Errorf("invalid budget: %s", row["budget"])
	}
	c.Budget = budget
	return c, c.Validate()
}

// ParseTransactions reads
// id,date,amount,category_id,description,type,currency[,original_amount,original_currency] rows.
func ParseTransactions(r io.Reader) ([]core.Transaction, []string, error) {
	rows, errs, err := readRows(r)
	if err != nil {
		return nil, nil, err
	}
	var txs []core.Transaction
	for i, row := range rows {
		if row == nil {
			continue
		}
		tx, err := mapToTransaction(row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+2, err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errs, nil
}

func mapToTransaction(row map[string]string) (core.Transaction, error) {
	dateStr := row["date"]
	if dateStr == "" {
		return core.Transaction{}, fmt.Errorf("missing date")
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date format: %s", dateStr)
	}

	amountStr := row["amount"]
	if amountStr == "" {
		return core.Transaction{}, fmt.Errorf("missing amount")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount: %s", amountStr)
	}

	txType := core.TransactionType(strings.ToLower(row["type"]))
	if txType == "" {
		txType = core.Expense
		if amount.IsPositive() {
			txType = core.Income
		}
	}

	tx := core.Transaction{
		ID:          row["id"],
		Amount:      amount,
		CategoryID:  row["category_id"],
		Date:        date,
		Description: row["description"],
		Type:        txType,
		Currency:    strings.ToUpper(row["currency"]),
	}

	if origStr := row["original_amount"]; origStr != "" {
		orig, err := decimal.NewFromString(origStr)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("invalid original amount: %s", origStr)
		}
		tx.OriginalAmount = &orig
	}
	tx.OriginalCurrency = strings.ToUpper(row["original_currency"])

	return tx, tx.Validate()
}
