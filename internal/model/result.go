package model

import "github.com/shopspring/decimal"

// ParsedTransaction pairs a transaction with its categorization outcome.
type ParsedTransaction struct {
	Transaction Transaction
	Category    *Category // nil when nothing matched
	Evidence    []string  // what matched, e.g. "manual assignment", "regex: ..."
}

// ParsingResult aggregates one categorization run.
type ParsingResult struct {
	Parsed         []ParsedTransaction
	Uncategorized  []Transaction
	CategoryTotals map[string]decimal.Decimal // keyed by display name, raw signed sums
	TotalIncome    decimal.Decimal            // sum of amounts >= 0
	TotalExpenses  decimal.Decimal            // sum of amounts < 0, stays negative
}
