package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ledgerlens/rollup-go/pkg/rollup"
)

// Config holds configuration for the rollup CLI
type Config struct {
	InputFile string
	BaseURL   string
	APIKey    string
	Token     string
	UserID    string
	Year      int
	Verbose   bool
}

func main() {
	config := parseFlags()

	engine, err := buildEngine(config)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	ctx := context.Background()

	printNetWorth(ctx, engine)
	printSeries(ctx, engine)
	printBudgets(ctx, engine)
	printCashflow(ctx, engine, config.Year)
	printRecent(ctx, engine, config.Verbose)
}

func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.InputFile, "input", "", "Path to a JSON ledger fixture (offline mode)")
	flag.StringVar(&config.BaseURL, "url", os.Getenv("LEDGER_URL"), "Ledger row API base URL")
	flag.StringVar(&config.APIKey, "key", os.Getenv("LEDGER_API_KEY"), "Ledger row API key")
	flag.StringVar(&config.Token, "token", os.Getenv("LEDGER_TOKEN"), "Bearer token for the ledger row API")
	flag.StringVar(&config.UserID, "user", os.Getenv("LEDGER_USER_ID"), "User whose rows to aggregate")
	flag.IntVar(&config.Year, "year", 0, "Cashflow year (0 for current)")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")

	flag.Parse()

	if config.InputFile == "" && config.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "either -input or -url is required")
		flag.Usage()
		os.Exit(2)
	}

	return config
}

func buildEngine(config *Config) (*rollup.Engine, error) {
	if config.InputFile != "" {
		reader, err := loadFixture(config.InputFile)
		if err != nil {
			return nil, err
		}
		return rollup.NewEngineWithReader(reader)
	}

	return rollup.NewEngine(&rollup.Options{
		BaseURL: config.BaseURL,
		APIKey:  config.APIKey,
		Token:   config.Token,
		UserID:  config.UserID,
	})
}

func printNetWorth(ctx context.Context, engine *rollup.Engine) {
	fmt.Println("=== Net Worth ===")

	current, err := engine.NetWorth.Current(ctx)
	if err != nil {
		log.Printf("Error computing net worth: %v", err)
		return
	}
	fmt.Printf("Primary:   %s\n", current.StringFixed(2))

	secondary, err := engine.NetWorth.Secondary(ctx)
	if err != nil {
		log.Printf("Error computing secondary net worth: %v", err)
		return
	}
	fmt.Printf("Secondary: %s\n", secondary.StringFixed(2))

	series, err := engine.NetWorth.MonthlySeries(ctx)
	if err != nil {
		log.Printf("Error computing net worth trend: %v", err)
		return
	}
	fmt.Print("Trend:    ")
	for _, v := range series {
		fmt.Printf(" %s", v.StringFixed(0))
	}
	fmt.Println()
}

func printSeries(ctx context.Context, engine *rollup.Engine) {
	fmt.Println("\n=== Monthly Series ===")

	expenses, err := engine.Series.MonthlyExpenses(ctx)
	if err != nil {
		log.Printf("Error computing expense series: %v", err)
		return
	}
	income, err := engine.Series.MonthlyIncome(ctx)
	if err != nil {
		log.Printf("Error computing income series: %v", err)
		return
	}

	fmt.Print("Expenses: ")
	for _, v := range expenses {
		fmt.Printf(" %s", v.StringFixed(0))
	}
	fmt.Print("\nIncome:   ")
	for _, v := range income {
		fmt.Printf(" %s", v.StringFixed(0))
	}
	fmt.Println()
}

func printBudgets(ctx context.Context, engine *rollup.Engine) {
	fmt.Println("\n=== Budget Progress ===")

	report, err := engine.Budgets.Progress(ctx)
	if err != nil {
		log.Printf("Error evaluating budgets: %v", err)
		return
	}

	for _, p := range report.Monthly {
		fmt.Printf("[monthly %s] budget %s spent %s (%.1f%%)\n",
			p.Budget.MonthYear, p.Budget.Amount.StringFixed(2), p.ActualTotal.Neg().StringFixed(2), p.Percentage)
	}
	for _, p := range report.Yearly {
		fmt.Printf("[yearly %d] budget %s spent %s (%.1f%%)\n",
			p.Budget.Year, p.Budget.Amount.StringFixed(2), p.ActualTotal.Neg().StringFixed(2), p.Percentage)
	}
	if len(report.Monthly)+len(report.Yearly) == 0 {
		fmt.Println("No budgets defined")
	}
}

func printCashflow(ctx context.Context, engine *rollup.Engine, year int) {
	matrix, err := engine.Cashflow.Matrix(ctx, year)
	if err != nil {
		log.Printf("Error building cashflow matrix: %v", err)
		return
	}

	fmt.Printf("\n=== Cashflow %d (vs %d) ===\n", matrix.Year, matrix.Year-1)
	for _, row := range matrix.Rows {
		fmt.Printf("%-24s current %10s  prior %10s\n",
			row.CategoryName, row.CurrentTotal.StringFixed(2), row.PriorTotal.StringFixed(2))
	}
	fmt.Printf("%-24s current %10s  prior %10s\n",
		matrix.Totals.CategoryName, matrix.Totals.CurrentTotal.StringFixed(2), matrix.Totals.PriorTotal.StringFixed(2))
}

func printRecent(ctx context.Context, engine *rollup.Engine, verbose bool) {
	if !verbose {
		return
	}

	recent, err := engine.Transactions.Recent(ctx)
	if err != nil {
		log.Printf("Error listing recent transactions: %v", err)
		return
	}

	fmt.Println("\n=== Recent Transactions ===")
	for _, t := range recent {
		fmt.Printf("%s  %10s  %s\n", t.OccurredOn, t.Amount.StringFixed(2), t.Description)
	}
}

// fixture is the offline ledger snapshot shape
type fixture struct {
	AccountValuations []*rollup.AccountValuation `json:"accountValuations"`
	Transactions      []*rollup.Transaction      `json:"transactions"`
	Categories        []*rollup.Category         `json:"categories"`
	Budgets           []*rollup.Budget           `json:"budgets"`
}

// fixtureReader serves ledger rows from an in-memory snapshot
type fixtureReader struct {
	data *fixture
}

func loadFixture(path string) (*fixtureReader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	data := &fixture{}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	// Fixtures usually carry flat rows; resolve the reference joins the row
	// API would have embedded.
	categories := make(map[string]*rollup.Category, len(data.Categories))
	for _, c := range data.Categories {
		categories[c.ID] = c
	}
	for _, t := range data.Transactions {
		if t.Category == nil {
			t.Category = categories[t.CategoryID]
		}
	}
	for _, b := range data.Budgets {
		if b.Category == nil {
			b.Category = categories[b.CategoryID]
		}
	}

	return &fixtureReader{data: data}, nil
}

func (r *fixtureReader) ListAccountValuations(ctx context.Context, since *time.Time) ([]*rollup.AccountValuation, error) {
	if since == nil {
		return r.data.AccountValuations, nil
	}
	out := make([]*rollup.AccountValuation, 0, len(r.data.AccountValuations))
	for _, v := range r.data.AccountValuations {
		if !v.AsOf.Time.Before(*since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fixtureReader) ListTransactions(ctx context.Context, since *time.Time) ([]*rollup.Transaction, error) {
	if since == nil {
		return r.data.Transactions, nil
	}
	out := make([]*rollup.Transaction, 0, len(r.data.Transactions))
	for _, t := range r.data.Transactions {
		if !t.OccurredOn.Time.Before(*since) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fixtureReader) ListCategories(ctx context.Context) ([]*rollup.Category, error) {
	return r.data.Categories, nil
}

func (r *fixtureReader) ListBudgets(ctx context.Context) ([]*rollup.Budget, error) {
	return r.data.Budgets, nil
}
