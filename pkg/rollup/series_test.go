package rollup

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesAnchor = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func expenseCategory(id string) *Category {
	return &Category{ID: id, Name: "cat-" + id, GroupID: DefaultExpenseGroupID, IncludeInCashflow: true}
}

func incomeCategory(id string) *Category {
	return &Category{ID: id, Name: "cat-" + id, GroupID: DefaultIncomeGroupID, IncludeInCashflow: true}
}

func transaction(cat *Category, on Date, amount string) *Transaction {
	return &Transaction{
		ID:         fmt.Sprintf("txn-%s-%s", cat.ID, on),
		OccurredOn: on,
		Amount:     dec(amount),
		CategoryID: cat.ID,
		Category:   cat,
	}
}

func TestMonthlyNetWorth_AlwaysWindowLength(t *testing.T) {
	a := asset("acc-1", true, "1")

	tests := []struct {
		name   string
		months int
	}{
		{"no data", 0},
		{"three months", 3},
		{"forty months", 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var valuations []*AccountValuation
			for i := 0; i < tt.months; i++ {
				day := seriesAnchor.AddDate(0, -i, 0)
				valuations = append(valuations, valuation(a, Date{Time: day}, "100"))
			}

			series := MonthlyNetWorth(valuations, seriesAnchor, DefaultWindowSize, DefaultLookbackMonths)

			assert.Len(t, series, DefaultWindowSize)
		})
	}
}

func TestMonthlyNetWorth_OldestFirstWithLeadingZeroPad(t *testing.T) {
	a := asset("acc-1", true, "1")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.May, 10), "200"),
		valuation(a, NewDate(2024, time.June, 10), "300"),
	}

	series := MonthlyNetWorth(valuations, seriesAnchor, DefaultWindowSize, DefaultLookbackMonths)

	require.Len(t, series, 12)
	for i := 0; i < 10; i++ {
		assert.True(t, series[i].IsZero(), "bucket %d should be zero fill", i)
	}
	assert.True(t, dec("200").Equal(series[10]))
	assert.True(t, dec("300").Equal(series[11]))
}

func TestMonthlyNetWorth_ChronologicalRegardlessOfInputOrder(t *testing.T) {
	a := asset("acc-1", true, "1")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.June, 10), "300"),
		valuation(a, NewDate(2024, time.April, 10), "100"),
		valuation(a, NewDate(2024, time.May, 10), "200"),
	}

	series := MonthlyNetWorth(valuations, seriesAnchor, DefaultWindowSize, DefaultLookbackMonths)

	require.Len(t, series, 12)
	assert.True(t, dec("100").Equal(series[9]))
	assert.True(t, dec("200").Equal(series[10]))
	assert.True(t, dec("300").Equal(series[11]))
}

func TestMonthlyNetWorth_LatestValueWinsWithinBucket(t *testing.T) {
	// Two valuations within one month, divisor 100: the later one is the
	// bucket's value.
	a := asset("acc-1", true, "100")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.January, 5), "1000"),
		valuation(a, NewDate(2024, time.January, 20), "1200"),
	}
	anchor := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	series := MonthlyNetWorth(valuations, anchor, DefaultWindowSize, DefaultLookbackMonths)

	require.Len(t, series, 12)
	assert.True(t, dec("12").Equal(series[11]), "got %s", series[11])
}

func TestMonthlyNetWorth_DropsZeroNewestBucket(t *testing.T) {
	primary := asset("acc-1", true, "1")
	secondary := asset("acc-2", false, "1")
	valuations := []*AccountValuation{
		valuation(primary, NewDate(2024, time.May, 10), "500"),
		// June has data only for a non-primary account, so the newest
		// bucket nets to exactly zero and is dropped.
		valuation(secondary, NewDate(2024, time.June, 10), "700"),
	}

	series := MonthlyNetWorth(valuations, seriesAnchor, DefaultWindowSize, DefaultLookbackMonths)

	require.Len(t, series, 12)
	assert.True(t, dec("500").Equal(series[11]), "window shifts back one month")
	assert.True(t, series[0].IsZero())
}

func TestMonthlyNetWorth_FillsInteriorGaps(t *testing.T) {
	a := asset("acc-1", true, "1")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.March, 10), "100"),
		valuation(a, NewDate(2024, time.June, 10), "400"),
	}

	series := MonthlyNetWorth(valuations, seriesAnchor, DefaultWindowSize, DefaultLookbackMonths)

	require.Len(t, series, 12)
	assert.True(t, dec("100").Equal(series[8]), "March")
	assert.True(t, series[9].IsZero(), "April gap")
	assert.True(t, series[10].IsZero(), "May gap")
	assert.True(t, dec("400").Equal(series[11]), "June")
}

func TestMonthlyNetWorth_LookbackExcludesOlderValuations(t *testing.T) {
	a := asset("acc-1", true, "1")
	valuations := []*AccountValuation{
		valuation(a, Date{Time: seriesAnchor.AddDate(0, -DefaultLookbackMonths-1, 0)}, "999"),
		valuation(a, NewDate(2024, time.June, 10), "100"),
	}

	series := MonthlyNetWorth(valuations, seriesAnchor, DefaultWindowSize, DefaultLookbackMonths)

	require.Len(t, series, 12)
	for i := 0; i < 11; i++ {
		assert.True(t, series[i].IsZero(), "bucket %d", i)
	}
	assert.True(t, dec("100").Equal(series[11]))
}

func TestMonthlyCategorySeries_ExpenseAndIncomeSplit(t *testing.T) {
	groceries := expenseCategory("10")
	salary := incomeCategory("20")
	transactions := []*Transaction{
		transaction(groceries, NewDate(2024, time.January, 12), "-50"),
		transaction(salary, NewDate(2024, time.January, 25), "2000"),
	}

	expenses := MonthlyCategorySeries(transactions, DefaultExpenseGroupID, true, DefaultWindowSize)
	income := MonthlyCategorySeries(transactions, DefaultIncomeGroupID, false, DefaultWindowSize)

	require.Len(t, expenses, 12)
	require.Len(t, income, 12)
	// January is the only populated bucket; it sits at the newest end of
	// the zero-padded window. Outflows render positive, income untouched.
	assert.True(t, dec("50").Equal(expenses[11]), "got %s", expenses[11])
	assert.True(t, dec("2000").Equal(income[11]), "got %s", income[11])
}

func TestMonthlyCategorySeries_ZeroMonthIsKept(t *testing.T) {
	cat := expenseCategory("10")
	transactions := []*Transaction{
		transaction(cat, NewDate(2024, time.April, 2), "-100"),
		// May nets to zero but stays; the trailing-drop rule is a net
		// worth policy only.
		transaction(cat, NewDate(2024, time.May, 2), "-75"),
		transaction(cat, NewDate(2024, time.May, 20), "75"),
	}

	series := MonthlyCategorySeries(transactions, DefaultExpenseGroupID, true, DefaultWindowSize)

	require.Len(t, series, 12)
	assert.True(t, dec("100").Equal(series[10]))
	assert.True(t, series[11].IsZero())
}

func TestMonthlyCategorySeries_TruncatesToMostRecentWindow(t *testing.T) {
	cat := expenseCategory("10")
	var transactions []*Transaction
	for i := 0; i < 20; i++ {
		on := Date{Time: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)}
		transactions = append(transactions, transaction(cat, on, fmt.Sprintf("-%d", i+1)))
	}

	series := MonthlyCategorySeries(transactions, DefaultExpenseGroupID, true, DefaultWindowSize)

	require.Len(t, series, 12)
	// Oldest surviving bucket is 12 months back (amount 12), newest is
	// this month (amount 1).
	assert.True(t, dec("12").Equal(series[0]), "got %s", series[0])
	assert.True(t, dec("1").Equal(series[11]), "got %s", series[11])
}

func TestMonthlyCategorySeries_IgnoresUncategorized(t *testing.T) {
	transactions := []*Transaction{
		{ID: "txn-1", OccurredOn: NewDate(2024, time.May, 3), Amount: dec("-40")},
		transaction(expenseCategory("10"), NewDate(2024, time.May, 4), "-60"),
	}

	series := MonthlyCategorySeries(transactions, DefaultExpenseGroupID, true, DefaultWindowSize)

	require.Len(t, series, 12)
	assert.True(t, dec("60").Equal(series[11]))
}

func TestFitWindow_Laws(t *testing.T) {
	short := fitWindow([]decimal.Decimal{dec("1"), dec("2")}, 5)
	require.Len(t, short, 5)
	assert.True(t, short[0].IsZero())
	assert.True(t, dec("1").Equal(short[3]))
	assert.True(t, dec("2").Equal(short[4]))

	long := fitWindow([]decimal.Decimal{dec("1"), dec("2"), dec("3")}, 2)
	require.Len(t, long, 2)
	assert.True(t, dec("2").Equal(long[0]))
	assert.True(t, dec("3").Equal(long[1]))
}
