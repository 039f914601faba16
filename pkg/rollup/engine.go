package rollup

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/ledgerlens/rollup-go/internal/transport"
	internalTypes "github.com/ledgerlens/rollup-go/internal/types"
	"github.com/pkg/errors"
)

const (
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultWindowSize is the length of every monthly series
	DefaultWindowSize = 12

	// DefaultLookbackMonths is how far valuation retrieval reaches back.
	// Two months beyond the window tolerates a partially-stale current month.
	DefaultLookbackMonths = 14

	// DefaultExpenseGroupID is the category group treated as expense-like
	DefaultExpenseGroupID = "1"

	// DefaultIncomeGroupID is the category group treated as income-like
	DefaultIncomeGroupID = "4"
)

// Engine is the financial rollup engine. Every service computes a derived
// view from an immutable snapshot of one user's ledger rows; nothing is
// persisted and recomputation is idempotent.
type Engine struct {
	// Service interfaces
	NetWorth     NetWorthService
	Series       SeriesService
	Budgets      BudgetService
	Cashflow     CashflowService
	Transactions TransactionService

	// Internal fields
	reader  LedgerReader
	options *Options
	clock   func() time.Time
}

// Options configures the engine
type Options struct {
	// Reader supplies ledger rows directly. When nil, BaseURL must be set
	// and a REST-backed reader is constructed.
	Reader LedgerReader

	// BaseURL of the ledger row API, used when Reader is nil
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token is the bearer token for the ledger row API
	Token string

	// APIKey is the ledger row API key header value
	APIKey string

	// UserID scopes every retrieval to one user's rows
	UserID string

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior for the REST reader
	RetryConfig *internalTypes.RetryConfig

	// RateLimiter applied before each reader call
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions

	// WindowSize overrides the monthly series length
	WindowSize int

	// LookbackMonths overrides the valuation retrieval horizon
	LookbackMonths int

	// ExpenseGroupID overrides the expense-like category group
	ExpenseGroupID string

	// IncomeGroupID overrides the income-like category group
	IncomeGroupID string

	// Clock overrides the time source, mainly for tests
	Clock func() time.Time
}

// NewEngine creates a new rollup engine
func NewEngine(opts *Options) (*Engine, error) {
	if opts == nil {
		opts = &Options{}
	}

	// Initialize Sentry if DSN is provided
	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		if err := sentry.Init(sentryOpts); err != nil {
			// Log error but don't fail engine creation
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	// Set defaults
	if opts.WindowSize <= 0 {
		opts.WindowSize = DefaultWindowSize
	}
	if opts.LookbackMonths <= 0 {
		opts.LookbackMonths = DefaultLookbackMonths
	}
	if opts.ExpenseGroupID == "" {
		opts.ExpenseGroupID = DefaultExpenseGroupID
	}
	if opts.IncomeGroupID == "" {
		opts.IncomeGroupID = DefaultIncomeGroupID
	}

	reader := opts.Reader
	if reader == nil {
		if opts.BaseURL == "" {
			return nil, ErrNoReader
		}

		if opts.HTTPClient == nil {
			opts.HTTPClient = &http.Client{
				Timeout: DefaultTimeout,
			}
		}
		if opts.Timeout > 0 {
			opts.HTTPClient.Timeout = opts.Timeout
		}

		trans := transport.NewRESTTransport(&transport.Options{
			BaseURL:     opts.BaseURL,
			HTTPClient:  opts.HTTPClient,
			APIKey:      opts.APIKey,
			RetryConfig: opts.RetryConfig,
			Logger:      loggerAdapter(opts.Logger),
			Hooks:       opts.Hooks,
		})
		if opts.Token != "" {
			trans.SetAuth(opts.Token)
		}

		reader = NewRESTLedgerReader(trans, opts.UserID)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	e := &Engine{
		reader:  reader,
		options: opts,
		clock:   clock,
	}
	e.initServices()

	return e, nil
}

// NewEngineWithReader creates an engine over an already-constructed reader
func NewEngineWithReader(reader LedgerReader) (*Engine, error) {
	return NewEngine(&Options{Reader: reader})
}

// initServices initializes all service implementations
func (e *Engine) initServices() {
	e.NetWorth = &netWorthService{engine: e}
	e.Series = &seriesService{engine: e}
	e.Budgets = &budgetService{engine: e}
	e.Cashflow = &cashflowService{engine: e}
	e.Transactions = &transactionService{engine: e}
}

// Close flushes any pending Sentry events and performs cleanup
func (e *Engine) Close() {
	sentry.Flush(2 * time.Second)
}

// now returns the engine's anchor time
func (e *Engine) now() time.Time {
	return e.clock()
}

func (e *Engine) windowSize() int {
	return e.options.WindowSize
}

func (e *Engine) lookbackMonths() int {
	return e.options.LookbackMonths
}

func (e *Engine) expenseGroupID() string {
	return e.options.ExpenseGroupID
}

func (e *Engine) incomeGroupID() string {
	return e.options.IncomeGroupID
}

// observe wraps one reader call with rate limiting, timing, hooks, and
// Sentry capture. Reader failures come back as *RetrievalError.
func (e *Engine) observe(ctx context.Context, op string, fn func(context.Context) error) error {
	if e.options.RateLimiter != nil {
		if err := e.options.RateLimiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limiter")
		}
	}

	runID := uuid.NewString()
	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if e.options.Logger != nil {
		e.options.Logger.Debug("ledger retrieval", "op", op, "run", runID, "duration", duration, "error", err)
	}

	if err != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("rollup.operation", op)
				scope.SetContext("rollup", map[string]interface{}{
					"run":      runID,
					"user":     e.options.UserID,
					"duration": duration.String(),
				})
				hub.CaptureException(err)
			})
		} else {
			sentry.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("rollup.operation", op)
				scope.SetContext("rollup", map[string]interface{}{
					"run":      runID,
					"user":     e.options.UserID,
					"duration": duration.String(),
				})
				sentry.CaptureException(err)
			})
		}

		if e.options.Hooks != nil && e.options.Hooks.OnError != nil {
			e.options.Hooks.OnError(ctx, err)
		}

		return &RetrievalError{Op: op, Err: err}
	}

	return nil
}

// listValuations retrieves account valuations through the reader boundary
func (e *Engine) listValuations(ctx context.Context, since *time.Time) ([]*AccountValuation, error) {
	var rows []*AccountValuation
	err := e.observe(ctx, "listAccountValuations", func(ctx context.Context) error {
		var err error
		rows, err = e.reader.ListAccountValuations(ctx, since)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// listTransactions retrieves transactions through the reader boundary
func (e *Engine) listTransactions(ctx context.Context, since *time.Time) ([]*Transaction, error) {
	var rows []*Transaction
	err := e.observe(ctx, "listTransactions", func(ctx context.Context) error {
		var err error
		rows, err = e.reader.ListTransactions(ctx, since)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// listCategories retrieves category reference data through the reader boundary
func (e *Engine) listCategories(ctx context.Context) ([]*Category, error) {
	var rows []*Category
	err := e.observe(ctx, "listCategories", func(ctx context.Context) error {
		var err error
		rows, err = e.reader.ListCategories(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// listBudgets retrieves budget definitions through the reader boundary
func (e *Engine) listBudgets(ctx context.Context) ([]*Budget, error) {
	var rows []*Budget
	err := e.observe(ctx, "listBudgets", func(ctx context.Context) error {
		var err error
		rows, err = e.reader.ListBudgets(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// loggerAdapter bridges the public Logger to the internal one. Both carry
// the same method set; the indirection keeps internal packages off the
// public API surface.
func loggerAdapter(l Logger) internalTypes.Logger {
	if l == nil {
		return nil
	}
	return l
}
