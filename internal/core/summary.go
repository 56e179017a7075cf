package core

import "github.com/shopspring/decimal"

// Summarize aggregates the full table. An empty table yields zeros.
func Summarize(t Table) Summary {
	s := Summary{TotalValue: decimal.Zero, Count: len(t)}
	for _, p := range t {
		s.TotalItems += int64(p.Quantity)
		s.TotalValue = s.TotalValue.Add(p.TotalValue)
	}
	return s
}
