package rollup

import (
	"github.com/shopspring/decimal"
)

// PeriodTotal sums signed transaction amounts for one category within one
// budget period. Monthly periods match on the "MM-YYYY" key, yearly periods
// on the bare calendar year. No sign flip happens here; spend stays
// negative at this layer and consumers centralize the flip.
func PeriodTotal(transactions []*Transaction, categoryID string, occurrence Occurrence, monthYear string, year int) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.CategoryID != categoryID {
			continue
		}

		switch occurrence {
		case OccurrenceMonthly:
			if t.MonthYear() != monthYear {
				continue
			}
		case OccurrenceYearly:
			if t.Year() != year {
				continue
			}
		default:
			continue
		}

		total = total.Add(t.Amount)
	}
	return total
}
