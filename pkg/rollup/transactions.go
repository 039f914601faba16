package rollup

import (
	"context"
	"sort"
)

// recentWindowDays is the trailing window of the recent-transactions feed
const recentWindowDays = 31

// transactionService implements the TransactionService interface
type transactionService struct {
	engine *Engine
}

// List retrieves all transactions, newest first
func (s *transactionService) List(ctx context.Context) ([]*Transaction, error) {
	transactions, err := s.engine.listTransactions(ctx, nil)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].OccurredOn.Time.After(transactions[j].OccurredOn.Time)
	})

	return transactions, nil
}

// Recent retrieves the trailing month of transactions ordered by amount
// descending, largest inflow first
func (s *transactionService) Recent(ctx context.Context) ([]*Transaction, error) {
	since := s.engine.now().AddDate(0, 0, -recentWindowDays)

	transactions, err := s.engine.listTransactions(ctx, &since)
	if err != nil {
		return nil, err
	}

	// The reader already filters on since; re-check so a loose reader
	// cannot widen the window.
	recent := transactions[:0]
	for _, t := range transactions {
		if !t.OccurredOn.Time.Before(since) {
			recent = append(recent, t)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Amount.GreaterThan(recent[j].Amount)
	})

	return recent, nil
}
