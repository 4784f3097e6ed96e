package model

import "github.com/shopspring/decimal"

// Category groups matching rules under a stable name. Name is the internal
// key; DisplayName is what renderers and totals show.
type Category struct {
	Name              string
	DisplayName       string
	SearchStrings     []string         // literal substrings, case-folded at match time
	RegexPatterns     []string         // case-insensitive regular expressions
	IBANPatterns      []string         // exact IBANs or regular expressions
	ExpectedMaxAmount *decimal.Decimal // informational ceiling, nil when unset
}

// NewCategory returns a Category with empty pattern lists. An empty
// displayName falls back to name.
func NewCategory(name, displayName string) *Category {
	if displayName == "" {
		displayName = name
	}
	return &Category{
		Name:          name,
		DisplayName:   displayName,
		SearchStrings: []string{},
		RegexPatterns: []string{},
		IBANPatterns:  []string{},
	}
}
