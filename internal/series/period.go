package series

import (
	"fmt"
	"time"
)

// Period identifies one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// NewPeriod normalizes year/month so that out-of-range months roll over
// into adjacent years (month 13 of 2020 becomes January 2021).
func NewPeriod(year int, month int) Period {
	t := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{Year: t.Year(), Month: t.Month()}
}

// Next returns the following month.
func (p Period) Next() Period {
	return p.Add(1)
}

// Add returns the period n months after p. Negative n walks backwards.
func (p Period) Add(n int) Period {
	return NewPeriod(p.Year, int(p.Month)+n)
}

// Sub returns the signed number of months from q to p.
func (p Period) Sub(q Period) int {
	return (p.Year-q.Year)*12 + int(p.Month) - int(q.Month)
}

// Before reports whether p is strictly earlier than q.
func (p Period) Before(q Period) bool {
	return p.Sub(q) < 0
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
