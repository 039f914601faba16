package rollup

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// NormalizeValuation converts a raw stored account value into the common
// reporting unit: rawValue / divisor. A zero or missing divisor means the
// value is already in the reporting unit; a negative divisor is bad
// reference data and returns ErrInvalidDivisor.
func NormalizeValuation(v *AccountValuation) (decimal.Decimal, error) {
	divisor := decimal.NewFromInt(1)

	if acct := v.Account; acct != nil && !acct.Divisor.IsZero() {
		if acct.Divisor.IsNegative() {
			return decimal.Zero, errors.Wrapf(ErrInvalidDivisor, "account %s divisor %s", acct.ID, acct.Divisor)
		}
		divisor = acct.Divisor
	}

	return v.RawValue.Div(divisor), nil
}

// LatestAsOf picks the latest valuation for one account at or before cutoff.
// When two valuations share the same asOf, the later-appended one wins, so
// the selection is deterministic for any input order. Returns nil when the
// account has no valuation at or before cutoff; callers must treat that as
// "account not yet active", not as zero.
func LatestAsOf(valuations []*AccountValuation, accountID string, cutoff time.Time) *AccountValuation {
	var best *AccountValuation
	for _, v := range valuations {
		if v.AccountID != accountID || v.AsOf.Time.After(cutoff) {
			continue
		}
		if best == nil || !v.AsOf.Time.Before(best.AsOf.Time) {
			best = v
		}
	}
	return best
}

// latestPerAccount applies the LatestAsOf rule to every account present in
// the valuation set in a single pass.
func latestPerAccount(valuations []*AccountValuation, cutoff time.Time) map[string]*AccountValuation {
	latest := make(map[string]*AccountValuation)
	for _, v := range valuations {
		if v.AsOf.Time.After(cutoff) {
			continue
		}
		best, ok := latest[v.AccountID]
		if !ok || !v.AsOf.Time.Before(best.AsOf.Time) {
			latest[v.AccountID] = v
		}
	}
	return latest
}
