package rollup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyBudget(id, categoryID, amount, monthYear string) *Budget {
	return &Budget{
		ID:         id,
		CategoryID: categoryID,
		Amount:     dec(amount),
		Occurrence: OccurrenceMonthly,
		MonthYear:  monthYear,
	}
}

func yearlyBudget(id, categoryID, amount string, year int) *Budget {
	return &Budget{
		ID:         id,
		CategoryID: categoryID,
		Amount:     dec(amount),
		Occurrence: OccurrenceYearly,
		Year:       year,
	}
}

func TestProgressPercentage_SpendFlipsSign(t *testing.T) {
	assert.InDelta(t, 50.0, ProgressPercentage(dec("100"), dec("-50")), 1e-9)
}

func TestProgressPercentage_CappedAtHundred(t *testing.T) {
	// Double the budget still reads 100, never 200.
	assert.Equal(t, 100.0, ProgressPercentage(dec("100"), dec("-200")))
}

func TestProgressPercentage_ZeroBudgetAmount(t *testing.T) {
	assert.Equal(t, 0.0, ProgressPercentage(dec("0"), dec("-50")))
}

func TestProgressPercentage_Monotonic(t *testing.T) {
	budget := dec("200")
	previous := -1.0
	for _, spend := range []string{"0", "-50", "-100", "-150", "-200", "-400"} {
		pct := ProgressPercentage(budget, dec(spend))
		assert.GreaterOrEqual(t, pct, previous, "spend %s", spend)
		previous = pct
	}
	assert.Equal(t, 100.0, previous)
}

func TestBuildBudgetReport_JoinsByMonthlyPeriodKey(t *testing.T) {
	cat := expenseCategory("10")
	budgets := []*Budget{monthlyBudget("b-1", "10", "200", "06-2024")}
	transactions := []*Transaction{
		transaction(cat, NewDate(2024, time.June, 3), "-50"),
		transaction(cat, NewDate(2024, time.June, 21), "-30"),
		// Different month; must not count.
		transaction(cat, NewDate(2024, time.May, 3), "-500"),
	}

	report := BuildBudgetReport(budgets, transactions)

	require.Len(t, report.Monthly, 1)
	assert.Empty(t, report.Yearly)
	progress := report.Monthly[0]
	assert.True(t, dec("-80").Equal(progress.ActualTotal), "got %s", progress.ActualTotal)
	assert.InDelta(t, 40.0, progress.Percentage, 1e-9)
}

func TestBuildBudgetReport_JoinsByYear(t *testing.T) {
	cat := expenseCategory("10")
	budgets := []*Budget{yearlyBudget("b-1", "10", "1000", 2024)}
	transactions := []*Transaction{
		transaction(cat, NewDate(2024, time.February, 1), "-300"),
		transaction(cat, NewDate(2024, time.November, 1), "-200"),
		transaction(cat, NewDate(2023, time.June, 1), "-999"),
	}

	report := BuildBudgetReport(budgets, transactions)

	require.Len(t, report.Yearly, 1)
	assert.True(t, dec("-500").Equal(report.Yearly[0].ActualTotal))
	assert.InDelta(t, 50.0, report.Yearly[0].Percentage, 1e-9)
}

func TestBuildBudgetReport_SortedDescendingByPercentage(t *testing.T) {
	catA := expenseCategory("10")
	catB := expenseCategory("11")
	catC := expenseCategory("12")
	budgets := []*Budget{
		monthlyBudget("b-low", "10", "1000", "06-2024"),
		monthlyBudget("b-high", "11", "100", "06-2024"),
		monthlyBudget("b-mid", "12", "200", "06-2024"),
	}
	transactions := []*Transaction{
		transaction(catA, NewDate(2024, time.June, 1), "-100"), // 10%
		transaction(catB, NewDate(2024, time.June, 1), "-90"),  // 90%
		transaction(catC, NewDate(2024, time.June, 1), "-100"), // 50%
	}

	report := BuildBudgetReport(budgets, transactions)

	require.Len(t, report.Monthly, 3)
	assert.Equal(t, "b-high", report.Monthly[0].Budget.ID)
	assert.Equal(t, "b-mid", report.Monthly[1].Budget.ID)
	assert.Equal(t, "b-low", report.Monthly[2].Budget.ID)
}

func TestBuildBudgetReport_ZeroAmountBudgetDoesNotFail(t *testing.T) {
	cat := expenseCategory("10")
	budgets := []*Budget{monthlyBudget("b-1", "10", "0", "06-2024")}
	transactions := []*Transaction{
		transaction(cat, NewDate(2024, time.June, 3), "-50"),
	}

	report := BuildBudgetReport(budgets, transactions)

	require.Len(t, report.Monthly, 1)
	assert.Equal(t, 0.0, report.Monthly[0].Percentage)
}

func TestBuildBudgetReport_EmptyInputs(t *testing.T) {
	report := BuildBudgetReport(nil, nil)

	assert.Empty(t, report.Monthly)
	assert.Empty(t, report.Yearly)
}
