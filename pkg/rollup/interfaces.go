package rollup

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// NetWorthService handles net worth aggregation
type NetWorthService interface {
	// Current returns headline net worth: the latest valuation per primary
	// account, normalized, summed with asset/liability sign
	Current(ctx context.Context) (decimal.Decimal, error)

	// Secondary returns net worth across all accounts regardless of the
	// primary flag
	Secondary(ctx context.Context) (decimal.Decimal, error)

	// MonthlySeries returns the trailing net worth trend: exactly WindowSize
	// values, oldest first, zero-padded at the oldest end
	MonthlySeries(ctx context.Context) ([]decimal.Decimal, error)
}

// SeriesService handles monthly income and expense series
type SeriesService interface {
	// MonthlyExpenses returns expense magnitudes per month, oldest first.
	// Outflows are stored negative and rendered positive.
	MonthlyExpenses(ctx context.Context) ([]decimal.Decimal, error)

	// MonthlyIncome returns income totals per month, oldest first
	MonthlyIncome(ctx context.Context) ([]decimal.Decimal, error)
}

// BudgetService handles budget-vs-actual evaluation
type BudgetService interface {
	// Progress joins budgets to transaction totals by period key and returns
	// the monthly and yearly lists ranked descending by consumption
	Progress(ctx context.Context) (*BudgetReport, error)
}

// CashflowService handles the year-over-year cashflow pivot
type CashflowService interface {
	// Matrix builds the category x month table for the selected year and the
	// prior year. A zero year selects the current year.
	Matrix(ctx context.Context, year int) (*CashflowMatrix, error)
}

// TransactionService handles raw transaction feeds
type TransactionService interface {
	// List retrieves all transactions, newest first
	List(ctx context.Context) ([]*Transaction, error)

	// Recent retrieves the trailing month of transactions ordered by amount
	// descending
	Recent(ctx context.Context) ([]*Transaction, error)
}

// LedgerReader supplies one user's raw rows. Implementations retrieve the
// complete result set before returning; the engine never aggregates over a
// partial page. Cancellation and timeout live here, not in the engine.
type LedgerReader interface {
	// ListAccountValuations retrieves account valuations, optionally
	// restricted to those at or after since
	ListAccountValuations(ctx context.Context, since *time.Time) ([]*AccountValuation, error)

	// ListTransactions retrieves transactions, optionally restricted to
	// those occurring at or after since
	ListTransactions(ctx context.Context, since *time.Time) ([]*Transaction, error)

	// ListCategories retrieves category reference data
	ListCategories(ctx context.Context) ([]*Category, error)

	// ListBudgets retrieves budget definitions
	ListBudgets(ctx context.Context) ([]*Budget, error)
}

// Transport handles row retrieval for the REST-backed ledger reader
type Transport interface {
	// ListAll retrieves every row of a resource matching the query,
	// paginating until a short page signals end-of-data
	ListAll(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)

	// SetAuth sets the bearer token for subsequent requests
	SetAuth(token string)
}

// RateLimiter interface for rate limiting reader calls
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
