package rollup

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDivisor is returned when account reference data carries a
	// negative divisor. An unset or zero divisor is not an error; it falls
	// back to 1.
	ErrInvalidDivisor = errors.New("invalid account divisor")

	// ErrNoReader is returned when an engine is constructed without any way
	// to reach ledger rows
	ErrNoReader = errors.New("no ledger reader configured")
)

// RetrievalError wraps a failure from the ledger reader. Aggregations that
// hit one return their zero/empty derived value alongside the error, never
// a partial result.
type RetrievalError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %s: %v", e.Op, e.Err)
}

// Unwrap returns the wrapped reader error
func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// IsRetrievalError reports whether err originated at the ledger boundary
func IsRetrievalError(err error) bool {
	var re *RetrievalError
	return errors.As(err, &re)
}
