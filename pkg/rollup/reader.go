package rollup

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Ledger resource names
const (
	resourceValuations   = "AccountValues"
	resourceTransactions = "Transactions"
	resourceCategories   = "Categories"
	resourceBudgets      = "Budgets"
)

// restLedgerReader implements LedgerReader over a row transport. It decodes
// the ledger's wire rows into typed records at the boundary; aggregation
// logic never sees raw shapes.
type restLedgerReader struct {
	transport Transport
	userID    string
}

// NewRESTLedgerReader creates a LedgerReader over a row transport, scoped to
// one user's rows
func NewRESTLedgerReader(transport Transport, userID string) LedgerReader {
	return &restLedgerReader{
		transport: transport,
		userID:    userID,
	}
}

// ListAccountValuations retrieves valuations with embedded account reference data
func (r *restLedgerReader) ListAccountValuations(ctx context.Context, since *time.Time) ([]*AccountValuation, error) {
	query := r.baseQuery()
	query.Set("select", "AccountId,AccountValue,ValueDate,Accounts(id,Divisible,Type,PrimaryAccount)")
	query.Set("order", "ValueDate.desc")
	if since != nil {
		query.Set("ValueDate", "gte."+since.Format("2006-01-02"))
	}

	rows, err := r.transport.ListAll(ctx, resourceValuations, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list account valuations")
	}

	valuations := make([]*AccountValuation, 0, len(rows))
	for _, raw := range rows {
		var row valuationRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "failed to decode account valuation row")
		}
		valuations = append(valuations, row.toValuation())
	}

	return valuations, nil
}

// ListTransactions retrieves transactions with embedded category reference data
func (r *restLedgerReader) ListTransactions(ctx context.Context, since *time.Time) ([]*Transaction, error) {
	query := r.baseQuery()
	query.Set("select", "id,userId,TransactionDate,Description,Amount,CategoryId,Categories(id,CategoryName,GroupId,IncludeInCashflow)")
	query.Set("order", "TransactionDate.desc")
	if since != nil {
		query.Set("TransactionDate", "gte."+since.Format("2006-01-02"))
	}

	rows, err := r.transport.ListAll(ctx, resourceTransactions, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	transactions := make([]*Transaction, 0, len(rows))
	for _, raw := range rows {
		var row transactionRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "failed to decode transaction row")
		}
		transactions = append(transactions, row.toTransaction())
	}

	return transactions, nil
}

// ListCategories retrieves category reference data
func (r *restLedgerReader) ListCategories(ctx context.Context) ([]*Category, error) {
	query := r.baseQuery()

	rows, err := r.transport.ListAll(ctx, resourceCategories, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*Category, 0, len(rows))
	for _, raw := range rows {
		var row categoryRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "failed to decode category row")
		}
		categories = append(categories, row.toCategory())
	}

	return categories, nil
}

// ListBudgets retrieves budget definitions
func (r *restLedgerReader) ListBudgets(ctx context.Context) ([]*Budget, error) {
	query := r.baseQuery()

	rows, err := r.transport.ListAll(ctx, resourceBudgets, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list budgets")
	}

	budgets := make([]*Budget, 0, len(rows))
	for _, raw := range rows {
		var row budgetRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, errors.Wrap(err, "failed to decode budget row")
		}
		budgets = append(budgets, row.toBudget())
	}

	return budgets, nil
}

func (r *restLedgerReader) baseQuery() url.Values {
	query := url.Values{}
	if r.userID != "" {
		query.Set("userId", "eq."+r.userID)
	}
	return query
}

// Wire rows. Column names follow the ledger schema, not Go conventions.

type accountRow struct {
	ID             flexString       `json:"id"`
	Divisible      *decimal.Decimal `json:"Divisible"`
	Type           string           `json:"Type"`
	PrimaryAccount bool             `json:"PrimaryAccount"`
}

type valuationRow struct {
	AccountID    flexString      `json:"AccountId"`
	AccountValue decimal.Decimal `json:"AccountValue"`
	ValueDate    Date            `json:"ValueDate"`
	Account      *accountRow     `json:"Accounts"`
}

func (row *valuationRow) toValuation() *AccountValuation {
	v := &AccountValuation{
		AccountID: string(row.AccountID),
		AsOf:      row.ValueDate,
		RawValue:  row.AccountValue,
	}
	if row.Account != nil {
		acct := &Account{
			ID:        string(row.Account.ID),
			Kind:      AccountKind(row.Account.Type),
			IsPrimary: row.Account.PrimaryAccount,
		}
		if row.Account.Divisible != nil {
			acct.Divisor = *row.Account.Divisible
		}
		if acct.ID == "" {
			acct.ID = v.AccountID
		}
		v.Account = acct
	}
	return v
}

type categoryRow struct {
	ID                flexString `json:"id"`
	CategoryName      string     `json:"CategoryName"`
	GroupID           flexString `json:"GroupId"`
	IncludeInCashflow bool       `json:"IncludeInCashflow"`
}

func (row *categoryRow) toCategory() *Category {
	return &Category{
		ID:                string(row.ID),
		Name:              row.CategoryName,
		GroupID:           string(row.GroupID),
		IncludeInCashflow: row.IncludeInCashflow,
	}
}

type transactionRow struct {
	ID              flexString      `json:"id"`
	UserID          flexString      `json:"userId"`
	TransactionDate Date            `json:"TransactionDate"`
	Description     string          `json:"Description"`
	Amount          decimal.Decimal `json:"Amount"`
	CategoryID      flexString      `json:"CategoryId"`
	Category        *categoryRow    `json:"Categories"`
}

func (row *transactionRow) toTransaction() *Transaction {
	t := &Transaction{
		ID:          string(row.ID),
		UserID:      string(row.UserID),
		OccurredOn:  row.TransactionDate,
		Amount:      row.Amount,
		CategoryID:  string(row.CategoryID),
		Description: row.Description,
	}
	if row.Category != nil {
		t.Category = row.Category.toCategory()
		if t.CategoryID == "" {
			t.CategoryID = t.Category.ID
		}
	}
	return t
}

type budgetRow struct {
	ID           flexString      `json:"id"`
	CategoryID   flexString      `json:"CategoryId"`
	BudgetAmount decimal.Decimal `json:"BudgetAmount"`
	Occurrence   string          `json:"Occurrence"`
	MonthYear    string          `json:"MonthYear"`
	Year         flexString      `json:"Year"`
	UserID       flexString      `json:"userId"`
	Category     *categoryRow    `json:"Categories"`
}

func (row *budgetRow) toBudget() *Budget {
	b := &Budget{
		ID:         string(row.ID),
		CategoryID: string(row.CategoryID),
		Amount:     row.BudgetAmount,
		Occurrence: Occurrence(row.Occurrence),
		MonthYear:  row.MonthYear,
		UserID:     string(row.UserID),
	}
	if year, err := strconv.Atoi(string(row.Year)); err == nil {
		b.Year = year
	}
	if row.Category != nil {
		b.Category = row.Category.toCategory()
		if b.CategoryID == "" {
			b.CategoryID = b.Category.ID
		}
	}
	return b
}

// flexString decodes JSON strings and numbers alike. The ledger stores ids
// and years inconsistently (numeric keys, stringified years), so the
// boundary absorbs both.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return errors.Wrapf(err, "invalid identifier %s", data)
	}
	*s = flexString(num.String())
	return nil
}
