package rollup

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// budgetService implements the BudgetService interface
type budgetService struct {
	engine *Engine
}

// Progress evaluates every budget against actual transaction totals
func (s *budgetService) Progress(ctx context.Context) (*BudgetReport, error) {
	budgets, err := s.engine.listBudgets(ctx)
	if err != nil {
		return &BudgetReport{}, err
	}

	transactions, err := s.engine.listTransactions(ctx, nil)
	if err != nil {
		return &BudgetReport{}, err
	}

	return BuildBudgetReport(budgets, transactions), nil
}

// BuildBudgetReport joins budgets to their period totals and ranks both
// lists descending by consumption percentage. The ordering is a contract
// with the presentation boundary, not incidental.
func BuildBudgetReport(budgets []*Budget, transactions []*Transaction) *BudgetReport {
	report := &BudgetReport{}

	for _, b := range budgets {
		actual := PeriodTotal(transactions, b.CategoryID, b.Occurrence, b.MonthYear, b.Year)
		progress := &BudgetProgress{
			Budget:      b,
			ActualTotal: actual,
			Percentage:  ProgressPercentage(b.Amount, actual),
		}

		switch b.Occurrence {
		case OccurrenceMonthly:
			report.Monthly = append(report.Monthly, progress)
		case OccurrenceYearly:
			report.Yearly = append(report.Yearly, progress)
		}
	}

	sortByPercentage(report.Monthly)
	sortByPercentage(report.Yearly)

	return report
}

// ProgressPercentage converts a signed period total into capped budget
// consumption. Spend is stored negative, so the total is flipped before
// dividing. A zero budget amount resolves to 0, never a division error.
func ProgressPercentage(amount, actual decimal.Decimal) float64 {
	if amount.IsZero() {
		return 0
	}

	pct, _ := actual.Neg().Div(amount).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

func sortByPercentage(list []*BudgetProgress) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Percentage > list[j].Percentage
	})
}
