package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// Summary renders the run overview for the console.
type Summary struct {
	Warnings []string
}

// Render produces the summary view for a parsing result.
func (s Summary) Render(result model.ParsingResult) string {
	var b strings.Builder
	b.WriteString("=== DKB Parsing Summary ===\n")
	fmt.Fprintf(&b, "Transactions:  %d\n", len(result.Parsed))
	fmt.Fprintf(&b, "Categorized:   %d\n", len(result.Parsed)-len(result.Uncategorized))
	fmt.Fprintf(&b, "Uncategorized: %d\n", len(result.Uncategorized))
	fmt.Fprintf(&b, "Income:        %s €\n", result.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Expenses:      %s €\n", result.TotalExpenses.Abs().StringFixed(2))
	fmt.Fprintf(&b, "Net:           %s €\n", result.TotalIncome.Add(result.TotalExpenses).StringFixed(2))

	names := make([]string, 0, len(result.CategoryTotals))
	for name, total := range result.CategoryTotals {
		if total.IsZero() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		b.WriteString("\nCategory totals:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s €\n", name, result.CategoryTotals[name].StringFixed(2))
		}
	}

	if len(s.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}
	return b.String()
}
