package rollup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var netWorthCutoff = time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

func TestNetWorth_PrimaryAccountsOnly(t *testing.T) {
	primary := asset("acc-1", true, "1")
	secondary := asset("acc-2", false, "1")
	valuations := []*AccountValuation{
		valuation(primary, NewDate(2024, time.June, 1), "100"),
		valuation(secondary, NewDate(2024, time.June, 1), "50"),
	}

	assert.True(t, dec("100").Equal(NetWorth(valuations, netWorthCutoff)))
	assert.True(t, dec("150").Equal(SecondaryNetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_EqualsSecondaryWhenAllPrimary(t *testing.T) {
	a := asset("acc-1", true, "1")
	b := asset("acc-2", true, "1")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.May, 10), "250"),
		valuation(b, NewDate(2024, time.June, 2), "750"),
	}

	assert.True(t, NetWorth(valuations, netWorthCutoff).Equal(SecondaryNetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_LiabilitySubtracts(t *testing.T) {
	a := asset("acc-1", true, "1")
	l := liability("acc-2", true)
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.June, 1), "1000"),
		valuation(l, NewDate(2024, time.June, 1), "400"),
	}

	assert.True(t, dec("600").Equal(NetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_LatestValuationWinsPerAccount(t *testing.T) {
	a := asset("acc-1", true, "1")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.June, 20), "1200"),
		valuation(a, NewDate(2024, time.June, 5), "1000"),
		valuation(a, NewDate(2024, time.April, 1), "800"),
	}

	assert.True(t, dec("1200").Equal(NetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_NormalizesByDivisor(t *testing.T) {
	a := asset("acc-1", true, "100")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.June, 1), "123400"),
	}

	assert.True(t, dec("1234").Equal(NetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_SkipsInvalidDivisor(t *testing.T) {
	bad := asset("acc-1", true, "-5")
	good := asset("acc-2", true, "1")
	valuations := []*AccountValuation{
		valuation(bad, NewDate(2024, time.June, 1), "1000"),
		valuation(good, NewDate(2024, time.June, 1), "300"),
	}

	// Bad reference data skips the offending account, not the aggregation.
	assert.True(t, dec("300").Equal(NetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_EmptyInput(t *testing.T) {
	assert.True(t, NetWorth(nil, netWorthCutoff).IsZero())
	assert.True(t, SecondaryNetWorth(nil, netWorthCutoff).IsZero())
}

func TestNetWorth_FutureValuationsExcluded(t *testing.T) {
	a := asset("acc-1", true, "1")
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.June, 1), "500"),
		valuation(a, NewDate(2024, time.July, 15), "9000"),
	}

	assert.True(t, dec("500").Equal(NetWorth(valuations, netWorthCutoff)))
}

func TestNetWorth_Idempotent(t *testing.T) {
	a := asset("acc-1", true, "3")
	l := liability("acc-2", true)
	valuations := []*AccountValuation{
		valuation(a, NewDate(2024, time.June, 1), "1000"),
		valuation(l, NewDate(2024, time.May, 20), "123.45"),
	}

	first := NetWorth(valuations, netWorthCutoff)
	second := NetWorth(valuations, netWorthCutoff)

	assert.Equal(t, first.String(), second.String())
}
