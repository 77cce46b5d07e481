package seed

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"spendwise/internal/core"
	"spendwise/internal/log"
	"spendwise/internal/state"
)

const (
	GroupsFile       = "groups.csv"
	CategoriesFile   = "categories.csv"
	TransactionsFile = "transactions.csv"
)

// Result is the loaded ledger plus every row that had to be skipped.
type Result struct {
	Ledger  state.Ledger
	Skipped []string
}

// LoadDir reads the seed files under dir into a ledger showing month.
// Missing files are treated as empty.
func LoadDir(dir string, month core.Month, logger *log.Logger) (Result, error) {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSeed)

	res := Result{Ledger: state.New(month)}
	env := state.DefaultEnv("")

	groups, skipped, err := parseFile(filepath.Join(dir, GroupsFile), ParseGroups)
	if err != nil {
		return res, err
	}
	res.Skipped = append(res.Skipped, prefix(GroupsFile, skipped)...)
	res.Ledger.Groups = groups

	cats, skipped, err := parseFile(filepath.Join(dir, CategoriesFile), ParseCategories)
	if err != nil {
		return res, err
	}
	res.Skipped = append(res.Skipped, prefix(CategoriesFile, skipped)...)
	for _, c := range cats {
		next, err := state.PutCategory(res.Ledger, c)
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: category %s: %v", CategoriesFile, c.ID, err))
			continue
		}
		res.Ledger = next
	}

	txs, skipped, err := parseFile(filepath.Join(dir, TransactionsFile), ParseTransactions)
	if err != nil {
		return res, err
	}
	res.Skipped = append(res.Skipped, prefix(TransactionsFile, skipped)...)
	for _, tx := range txs {
		next, _, err := state.AddTransaction(res.Ledger, env, tx)
		if err != nil {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: transaction %s: %v", TransactionsFile, tx.ID, err))
			continue
		}
		res.Ledger = next
	}

	if n := len(res.Skipped); n > 0 {
		logger.Warn("Skipped seed rows", log.FieldCount, n, log.FieldOperation, log.OpImport)
		for _, s := range res.Skipped {
			logger.Debug("Skipped seed row", log.FieldError, s)
		}
	}
	logger.Info("Seed data loaded",
		log.FieldPath, dir,
		"groups", len(res.Ledger.Groups),
		"categories", len(res.Ledger.Categories),
		"transactions", len(res.Ledger.Transactions),
		"skipped", len(res.Skipped))

	return res, nil
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, []string, error)) ([]T, []string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	items, skipped, err := parse(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return items, skipped, nil
}

func prefix(file string, lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = file + ": " + l
	}
	return out
}
