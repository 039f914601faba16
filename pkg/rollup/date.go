package rollup

import (
	"fmt"
	"strings"
	"time"
)

// Date is a custom type that handles date-only JSON values
type Date struct {
	time.Time
}

// NewDate creates a Date from a calendar day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON implements json.Unmarshaler for Date
func (d *Date) UnmarshalJSON(data []byte) error {
	// Remove quotes
	str := strings.Trim(string(data), `"`)

	// Handle null/empty
	if str == "" || str == "null" {
		d.Time = time.Time{}
		return nil
	}

	// Try parsing as date only first (YYYY-MM-DD)
	t, err := time.Parse("2006-01-02", str)
	if err == nil {
		d.Time = t
		return nil
	}

	// Try parsing as full timestamp (RFC3339)
	t, err = time.Parse(time.RFC3339, str)
	if err == nil {
		d.Time = t
		return nil
	}

	// Try parsing with time but no timezone
	t, err = time.Parse("2006-01-02T15:04:05", str)
	if err == nil {
		d.Time = t
		return nil
	}

	return fmt.Errorf("unable to parse date: %s", str)
}

// MarshalJSON implements json.Marshaler for Date
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	// Format as date only
	return []byte(fmt.Sprintf(`"%s"`, d.Time.Format("2006-01-02"))), nil
}

// String returns the date as a string
func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format("2006-01-02")
}

// MonthKey returns the calendar-month bucket key ("YYYY-MM")
func (d Date) MonthKey() string {
	return monthKey(d.Time)
}

// MonthYear returns the budget period key for monthly occurrences ("MM-YYYY")
func (d Date) MonthYear() string {
	return d.Time.Format("01-2006")
}

// monthKey returns the bucket key for the calendar month containing t
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// parseMonthKey converts a bucket key back into the first day of its month
func parseMonthKey(key string) (time.Time, error) {
	return time.Parse("2006-01", key)
}

// nextMonthKey returns the bucket key of the following calendar month
func nextMonthKey(key string) (string, error) {
	t, err := parseMonthKey(key)
	if err != nil {
		return "", err
	}
	return monthKey(t.AddDate(0, 1, 0)), nil
}
