package render

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// Spreadsheet renders category totals as lines ready to paste into a
// sheet. CategoryOrder pins the row order; categories it does not list
// follow alphabetically. Zero totals render as blank lines so the rows in
// the paste target stay aligned.
type Spreadsheet struct {
	CategoryOrder []string
}

// Render produces the paste view for a parsing result.
func (s Spreadsheet) Render(result model.ParsingResult) string {
	lines := []string{"Categorized totals:"}
	for _, name := range s.sortedNames(result.CategoryTotals) {
		total := result.CategoryTotals[name]
		if total.IsZero() {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, name+": "+GermanAmount(total))
	}

	if len(result.Uncategorized) > 0 {
		lines = append(lines, "", "Uncategorized transactions:")
		for _, txn := range result.Uncategorized {
			lines = append(lines, transactionLine(txn))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func (s Spreadsheet) sortedNames(totals map[string]decimal.Decimal) []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range s.CategoryOrder {
		if _, ok := totals[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range totals {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
