package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/bank"
	"spendwise/internal/budget"
	"spendwise/internal/cache"
	"spendwise/internal/cli"
	"spendwise/internal/config"
	"spendwise/internal/core"
	"spendwise/internal/format"
	"spendwise/internal/log"
	"spendwise/internal/report"
	"spendwise/internal/seed"
	"spendwise/internal/state"
	"spendwise/internal/validate"
)

const usage = `usage: spendwise <command> [flags]

commands:
  report        print the monthly budget overview
  transactions  list the month's transactions
  check         validate a category edit (-name, -budget) or deletion (-delete)
  format        format an amount with the configured currency
  connect       link (simulated) bank accounts
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(log.New(log.DefaultConfig()))
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return nil
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "report", "transactions":
		return runReport(ctx, cmd, rest, cfg, logger, stdout)
	case "check":
		return runCheck(rest, cfg, logger, stdout)
	case "format":
		return runFormat(rest, cfg, stdout)
	case "connect":
		return runConnect(ctx, rest, cfg, logger, stdout)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runReport(ctx context.Context, cmd string, args []string, cfg *config.Config, logger *log.Logger, stdout io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	monthFlag := fs.String("month", time.Now().Format("2006-01"), "month to show (YYYY-MM or any date in it)")
	dataDir := fs.String("data", cfg.DataDir, "directory with groups.csv, categories.csv and transactions.csv")
	if err := fs.Parse(args); err != nil {
		return err
	}

	month, err := core.ParseMonth(*monthFlag)
	if err != nil {
		return fmt.Errorf("parse month: %w", err)
	}
	f, err := cfg.CurrencyFormat()
	if err != nil {
		return err
	}
	rates, err := cfg.RateTable()
	if err != nil {
		return err
	}

	res, err := seed.LoadDir(*dataDir, month, logger)
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}

	convert := budget.CachedConverter(rates.Rate, cache.NewLRUCache[decimal.Decimal](cfg.CacheSize, cfg.CacheTTL), logger)
	reporter := report.NewReporter(f, convert, cache.NewLRUCache[string](cfg.CacheSize, cfg.CacheTTL), logger)

	if cmd == "transactions" {
		for _, line := range reporter.Transactions(res.Ledger) {
			fmt.Fprintln(stdout, line)
		}
		return nil
	}
	return reporter.Write(ctx, stdout, res.Ledger)
}

func runCheck(args []string, cfg *config.Config, logger *log.Logger, stdout io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	name := fs.String("name", "", "category name")
	budgetText := fs.String("budget", "", "budgeted amount")
	deleteID := fs.String("delete", "", "id of a category to check for deletion")
	dataDir := fs.String("data", cfg.DataDir, "directory with the seed CSV files, used with -delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *deleteID != "" {
		return checkDelete(*deleteID, *dataDir, logger, stdout)
	}

	if err := validate.CheckUpdate(*name, *budgetText); err != nil {
		logger.WithComponent(log.ComponentLedger).Warn("Category change rejected",
			log.NewFields().
				WithCategory("", strings.TrimSpace(*name)).
				WithOperation(log.OpUpdate).
				WithErrorType(log.ErrorTypeValidation).
				WithError(err).
				ToSlice()...)
		fmt.Fprintf(stdout, "invalid: %v\n", err)
		return nil
	}
	fmt.Fprintln(stdout, "ok")
	return nil
}

func checkDelete(id, dataDir string, logger *log.Logger, stdout io.Writer) error {
	now := time.Now()
	res, err := seed.LoadDir(dataDir, core.Month{Year: now.Year(), Month: now.Month()}, logger)
	if err != nil {
		return fmt.Errorf("load seed data: %w", err)
	}

	c, _ := res.Ledger.Category(id)
	_, err = state.DeleteCategory(res.Ledger, id)
	var errorType string
	switch {
	case err == nil:
		fmt.Fprintln(stdout, "ok")
		return nil
	case errors.Is(err, state.ErrNotFound):
		errorType = log.ErrorTypeNotFound
	case errors.Is(err, validate.ErrCategoryInUse):
		errorType = log.ErrorTypeConflict
	default:
		return err
	}

	logger.WithComponent(log.ComponentLedger).Warn("Category change rejected",
		log.NewFields().
			WithCategory(id, c.Name).
			WithOperation(log.OpDelete).
			WithErrorType(errorType).
			WithError(err).
			ToSlice()...)
	fmt.Fprintf(stdout, "invalid: %v\n", err)
	return nil
}

func runFormat(args []string, cfg *config.Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	date := fs.String("date", "", "optional ISO date to format as well")
	if err := fs.Parse(args); err != nil {
		return err
	}
	f, err := cfg.CurrencyFormat()
	if err != nil {
		return err
	}
	for _, arg := range fs.Args() {
		amount, err := core.ParseAmount(arg)
		if err != nil {
			return fmt.Errorf("amount %q: %w", arg, err)
		}
		fmt.Fprintln(stdout, format.FormatCurrency(amount, f))
	}
	if *date != "" {
		d, err := core.ParseDate(*date)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, f.FormatDate(d.Time))
	}
	return nil
}

func runConnect(ctx context.Context, args []string, cfg *config.Config, logger *log.Logger, stdout io.Writer) error {
	connector := bank.NewConnector(cfg.BankConnectDelay, nil, logger)
	if len(args) == 0 {
		fmt.Fprintln(stdout, "available institutions:", strings.Join(connector.Institutions(), ", "))
		return nil
	}

	accounts, err := connector.ConnectAll(ctx, args)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stdout, "connection cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	for _, a := range accounts {
		fmt.Fprintf(stdout, "linked %s account ****%s (%s)\n", a.Institution, a.Mask, a.ID)
	}
	return nil
}
