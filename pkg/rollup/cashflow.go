package rollup

import (
	"context"

	"github.com/shopspring/decimal"
)

// cashflowService implements the CashflowService interface
type cashflowService struct {
	engine *Engine
}

// Matrix builds the category x month pivot for the selected year. A zero
// year selects the current year. Shifting the year cursor recomputes from
// the full transaction set rather than incrementally.
func (s *cashflowService) Matrix(ctx context.Context, year int) (*CashflowMatrix, error) {
	if year == 0 {
		year = s.engine.now().Year()
	}

	transactions, err := s.engine.listTransactions(ctx, nil)
	if err != nil {
		return emptyMatrix(year), err
	}

	categories, err := s.engine.listCategories(ctx)
	if err != nil {
		return emptyMatrix(year), err
	}

	return BuildCashflowMatrix(transactions, categories, year), nil
}

// BuildCashflowMatrix pivots transactions into one row per cashflow-visible
// category with current-year and prior-year cells per calendar month.
// Amounts stay signed; no flip happens in the matrix. Row order follows
// category input order and columns run January through December.
func BuildCashflowMatrix(transactions []*Transaction, categories []*Category, year int) *CashflowMatrix {
	byCategory := make(map[string][]*Transaction)
	for _, t := range transactions {
		byCategory[t.CategoryID] = append(byCategory[t.CategoryID], t)
	}

	matrix := emptyMatrix(year)

	for _, c := range categories {
		if !c.IncludeInCashflow {
			continue
		}

		row := newCashflowRow(c.ID, c.Name)
		for _, t := range byCategory[c.ID] {
			month := int(t.OccurredOn.Time.Month()) - 1
			switch t.Year() {
			case year:
				row.Current[month] = row.Current[month].Add(t.Amount)
			case year - 1:
				row.Prior[month] = row.Prior[month].Add(t.Amount)
			}
		}

		for m := 0; m < monthsPerYear; m++ {
			row.CurrentTotal = row.CurrentTotal.Add(row.Current[m])
			row.PriorTotal = row.PriorTotal.Add(row.Prior[m])

			matrix.Totals.Current[m] = matrix.Totals.Current[m].Add(row.Current[m])
			matrix.Totals.Prior[m] = matrix.Totals.Prior[m].Add(row.Prior[m])
		}
		matrix.Totals.CurrentTotal = matrix.Totals.CurrentTotal.Add(row.CurrentTotal)
		matrix.Totals.PriorTotal = matrix.Totals.PriorTotal.Add(row.PriorTotal)

		matrix.Rows = append(matrix.Rows, row)
	}

	return matrix
}

const monthsPerYear = 12

func emptyMatrix(year int) *CashflowMatrix {
	return &CashflowMatrix{
		Year:   year,
		Totals: newCashflowRow("", "Total"),
	}
}

func newCashflowRow(categoryID, name string) *CashflowRow {
	row := &CashflowRow{
		CategoryID:   categoryID,
		CategoryName: name,
		Current:      make([]decimal.Decimal, monthsPerYear),
		Prior:        make([]decimal.Decimal, monthsPerYear),
		CurrentTotal: decimal.Zero,
		PriorTotal:   decimal.Zero,
	}
	for m := 0; m < monthsPerYear; m++ {
		row.Current[m] = decimal.Zero
		row.Prior[m] = decimal.Zero
	}
	return row
}
