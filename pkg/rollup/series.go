package rollup

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// seriesService implements the SeriesService interface
type seriesService struct {
	engine *Engine
}

// MonthlyExpenses returns per-month expense magnitudes, oldest first
func (s *seriesService) MonthlyExpenses(ctx context.Context) ([]decimal.Decimal, error) {
	e := s.engine
	transactions, err := e.listTransactions(ctx, nil)
	if err != nil {
		return zeroSeries(e.windowSize()), err
	}

	// Outflows are stored negative; flip so spend renders as magnitude.
	return MonthlyCategorySeries(transactions, e.expenseGroupID(), true, e.windowSize()), nil
}

// MonthlyIncome returns per-month income totals, oldest first
func (s *seriesService) MonthlyIncome(ctx context.Context) ([]decimal.Decimal, error) {
	e := s.engine
	transactions, err := e.listTransactions(ctx, nil)
	if err != nil {
		return zeroSeries(e.windowSize()), err
	}

	return MonthlyCategorySeries(transactions, e.incomeGroupID(), false, e.windowSize()), nil
}

// MonthlyNetWorth partitions valuations into calendar-month buckets, applies
// latest-value-wins per account within each bucket, and computes primary
// net worth per bucket. The result is exactly window values, oldest first:
// interior gaps are zero-filled, the oldest end is zero-padded, and history
// longer than the window is truncated to the most recent months. When the
// newest bucket nets to exactly zero it is treated as "current month has no
// data yet" and dropped.
func MonthlyNetWorth(valuations []*AccountValuation, anchor time.Time, window, lookback int) []decimal.Decimal {
	horizon := anchor.AddDate(0, -lookback, 0)

	// Scan in descending asOf order (later-appended first on ties) so the
	// first valuation seen per account per bucket is the latest one. The
	// store gives no ordering guarantee, so impose it here.
	type indexed struct {
		v   *AccountValuation
		pos int
	}
	ordered := make([]indexed, 0, len(valuations))
	for i, v := range valuations {
		if v.AsOf.Time.Before(horizon) {
			continue
		}
		ordered = append(ordered, indexed{v: v, pos: i})
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.v.AsOf.Time.Equal(b.v.AsOf.Time) {
			return a.v.AsOf.Time.After(b.v.AsOf.Time)
		}
		return a.pos > b.pos
	})

	buckets := make(map[string]map[string]*AccountValuation)
	for _, iv := range ordered {
		v := iv.v
		key := v.AsOf.MonthKey()
		perAccount, ok := buckets[key]
		if !ok {
			perAccount = make(map[string]*AccountValuation)
			buckets[key] = perAccount
		}
		if _, seen := perAccount[v.AccountID]; !seen {
			perAccount[v.AccountID] = v
		}
	}

	series := make([]decimal.Decimal, 0, len(buckets))
	for _, key := range continuousMonthKeys(buckets) {
		series = append(series, signedSum(buckets[key], true))
	}

	// A zero newest bucket means the month has no usable data yet; drop it
	// and let the window shift back one month.
	if n := len(series); n > 0 && series[n-1].IsZero() {
		series = series[:n-1]
	}

	return fitWindow(series, window)
}

// MonthlyCategorySeries sums signed transaction amounts per calendar month
// for categories in the given group. Gap and window handling follow the
// net worth series, minus the drop-trailing-zero rule: an income or expense
// month legitimately can be zero.
func MonthlyCategorySeries(transactions []*Transaction, groupID string, negate bool, window int) []decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Category == nil || t.Category.GroupID != groupID {
			continue
		}
		key := t.OccurredOn.MonthKey()
		totals[key] = totals[key].Add(t.Amount)
	}

	keys := make(map[string]struct{}, len(totals))
	for k := range totals {
		keys[k] = struct{}{}
	}

	series := make([]decimal.Decimal, 0, len(totals))
	for _, key := range continuousMonthKeysFromSet(keys) {
		v := totals[key]
		if negate {
			v = v.Neg()
		}
		series = append(series, v)
	}

	return fitWindow(series, window)
}

// continuousMonthKeys returns every month key from the oldest observed
// bucket to the newest in chronological order, including months with no
// bucket. Emission order must never depend on map iteration.
func continuousMonthKeys(buckets map[string]map[string]*AccountValuation) []string {
	keys := make(map[string]struct{}, len(buckets))
	for k := range buckets {
		keys[k] = struct{}{}
	}
	return continuousMonthKeysFromSet(keys)
}

func continuousMonthKeysFromSet(observed map[string]struct{}) []string {
	if len(observed) == 0 {
		return nil
	}

	sorted := make([]string, 0, len(observed))
	for k := range observed {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	// "YYYY-MM" keys sort lexically in chronological order, so walking from
	// first to last fills interior gaps.
	out := []string{sorted[0]}
	last := sorted[len(sorted)-1]
	for cur := sorted[0]; cur != last; {
		next, err := nextMonthKey(cur)
		if err != nil {
			// Malformed key; fall back to the observed buckets only.
			return sorted
		}
		out = append(out, next)
		cur = next
	}
	return out
}

// fitWindow pads the oldest end with zeros, or truncates to the most recent
// window entries, so the result is always exactly window values.
func fitWindow(series []decimal.Decimal, window int) []decimal.Decimal {
	if len(series) >= window {
		return append([]decimal.Decimal(nil), series[len(series)-window:]...)
	}

	out := zeroSeries(window)
	copy(out[window-len(series):], series)
	return out
}

// zeroSeries returns a window-length series of zeros
func zeroSeries(window int) []decimal.Decimal {
	out := make([]decimal.Decimal, window)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}
