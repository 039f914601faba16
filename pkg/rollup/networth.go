package rollup

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// netWorthService implements the NetWorthService interface
type netWorthService struct {
	engine *Engine
}

// Current returns headline net worth over primary accounts
func (s *netWorthService) Current(ctx context.Context) (decimal.Decimal, error) {
	valuations, err := s.engine.listValuations(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}

	return NetWorth(valuations, s.engine.now()), nil
}

// Secondary returns net worth over all accounts
func (s *netWorthService) Secondary(ctx context.Context) (decimal.Decimal, error) {
	valuations, err := s.engine.listValuations(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}

	return SecondaryNetWorth(valuations, s.engine.now()), nil
}

// MonthlySeries returns the trailing monthly net worth trend
func (s *netWorthService) MonthlySeries(ctx context.Context) ([]decimal.Decimal, error) {
	e := s.engine
	anchor := e.now()
	since := anchor.AddDate(0, -e.lookbackMonths(), 0)

	valuations, err := e.listValuations(ctx, &since)
	if err != nil {
		return zeroSeries(e.windowSize()), err
	}

	return MonthlyNetWorth(valuations, anchor, e.windowSize(), e.lookbackMonths()), nil
}

// NetWorth sums the latest normalized valuation per primary account with
// asset/liability sign. An account with no valuation is skipped, not
// counted as zero.
func NetWorth(valuations []*AccountValuation, cutoff time.Time) decimal.Decimal {
	return signedSum(latestPerAccount(valuations, cutoff), true)
}

// SecondaryNetWorth is the same computation over all accounts regardless of
// the primary flag.
func SecondaryNetWorth(valuations []*AccountValuation, cutoff time.Time) decimal.Decimal {
	return signedSum(latestPerAccount(valuations, cutoff), false)
}

// signedSum folds the latest-per-account selection into one signed total.
// Valuations with bad divisors are skipped rather than failing the whole
// aggregation.
func signedSum(latest map[string]*AccountValuation, primaryOnly bool) decimal.Decimal {
	total := decimal.Zero
	for _, v := range latest {
		acct := v.Account
		if acct == nil {
			continue
		}
		if primaryOnly && !acct.IsPrimary {
			continue
		}

		adjusted, err := NormalizeValuation(v)
		if err != nil {
			continue
		}

		switch acct.Kind {
		case AccountAsset:
			total = total.Add(adjusted)
		case AccountLiability:
			total = total.Sub(adjusted)
		}
	}
	return total
}
