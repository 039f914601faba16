package rollup

import (
	"github.com/shopspring/decimal"
)

// AccountKind partitions accounts into asset and liability sides
type AccountKind string

const (
	// AccountAsset contributes positively to net worth
	AccountAsset AccountKind = "Asset"

	// AccountLiability contributes negatively to net worth
	AccountLiability AccountKind = "Liability"
)

// Account is immutable reference data owned by the ledger
type Account struct {
	ID   string      `json:"id"`
	Name string      `json:"name,omitempty"`
	Kind AccountKind `json:"kind"`

	// Divisor converts the raw stored magnitude into the common reporting
	// unit. Zero means unset and is treated as 1.
	Divisor decimal.Decimal `json:"divisor"`

	// IsPrimary marks accounts counted toward the headline net worth
	IsPrimary bool `json:"isPrimary"`
}

// AccountValuation is an append-only point-in-time fact: the raw value of
// one account as of one date. Valuations are never assumed sorted by the
// ledger; the engine orders them itself.
type AccountValuation struct {
	AccountID string          `json:"accountId"`
	AsOf      Date            `json:"asOf"`
	RawValue  decimal.Decimal `json:"rawValue"`
	Account   *Account        `json:"account,omitempty"`
}

// Transaction is one signed ledger movement. Negative amounts are outflows,
// positive amounts are inflows.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId,omitempty"`
	OccurredOn  Date            `json:"occurredOn"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description,omitempty"`
	Category    *Category       `json:"category,omitempty"`
}

// MonthYear returns the transaction's monthly budget period key ("MM-YYYY")
func (t *Transaction) MonthYear() string {
	return t.OccurredOn.MonthYear()
}

// Year returns the transaction's calendar year
func (t *Transaction) Year() int {
	return t.OccurredOn.Time.Year()
}

// Category classifies transactions. Its group decides whether it counts as
// income or expense; the partition itself is engine configuration.
type Category struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	GroupID           string `json:"groupId"`
	IncludeInCashflow bool   `json:"includeInCashflow"`
}

// Occurrence is a budget's reporting cadence
type Occurrence string

const (
	// OccurrenceMonthly budgets match transactions on the "MM-YYYY" key
	OccurrenceMonthly Occurrence = "Monthly"

	// OccurrenceYearly budgets match transactions on the bare calendar year
	OccurrenceYearly Occurrence = "Yearly"
)

// Budget is a spending target for one category and one period. Monthly
// budgets carry the MonthYear key, yearly budgets the Year; the dual key
// scheme is load-bearing for budget-to-transaction matching.
type Budget struct {
	ID         string          `json:"id"`
	CategoryID string          `json:"categoryId"`
	Category   *Category       `json:"category,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Occurrence Occurrence      `json:"occurrence"`
	MonthYear  string          `json:"monthYear,omitempty"`
	Year       int             `json:"year,omitempty"`
	UserID     string          `json:"userId,omitempty"`
}

// BudgetProgress joins a budget to its actual spend for the period
type BudgetProgress struct {
	Budget      *Budget         `json:"budget"`
	ActualTotal decimal.Decimal `json:"actualTotal"`

	// Percentage is consumption of the budget, capped at 100. Spend is
	// stored negative, so the actual total is sign-flipped first.
	Percentage float64 `json:"percentage"`
}

// BudgetReport carries the ranked monthly and yearly budget lists. Each
// list is sorted descending by percentage; the ordering is a contract.
type BudgetReport struct {
	Monthly []*BudgetProgress `json:"monthly"`
	Yearly  []*BudgetProgress `json:"yearly"`
}

// CashflowRow is one category's cells in the cashflow matrix: a sum per
// calendar month (January through December) for the selected year and the
// year before it, plus row totals.
type CashflowRow struct {
	CategoryID   string            `json:"categoryId"`
	CategoryName string            `json:"categoryName"`
	Current      []decimal.Decimal `json:"current"`
	Prior        []decimal.Decimal `json:"prior"`
	CurrentTotal decimal.Decimal   `json:"currentTotal"`
	PriorTotal   decimal.Decimal   `json:"priorTotal"`
}

// CashflowMatrix is the category x month pivot for one selected year. Rows
// follow category input order; Totals is the synthetic per-column sum row.
type CashflowMatrix struct {
	Year   int            `json:"year"`
	Rows   []*CashflowRow `json:"rows"`
	Totals *CashflowRow   `json:"totals"`
}
