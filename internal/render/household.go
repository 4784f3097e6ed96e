package render

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// templateHeader precedes the filled amount column.
const templateHeader = "Paste the lines below next to your household template:"

// TransactionHiddenError reports non-zero category totals the household
// template has no line for. Rendering anyway would silently hide money, so
// this is a hard error.
type TransactionHiddenError struct {
	Missing []string // display names, sorted
}

func (e *TransactionHiddenError) Error() string {
	return fmt.Sprintf("household template hides non-zero categories: %s", strings.Join(e.Missing, ", "))
}

// Household fills a fixed template: each template line names a category
// (matched ignoring case), and the output carries one amount per line,
// blank for zero totals and unknown names, so it pastes alongside the
// template column.
type Household struct {
	TemplateLines []string
}

// LoadTemplate reads a template file into its lines.
func LoadTemplate(path string) (Household, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Household{}, fmt.Errorf("reading household template: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return Household{TemplateLines: lines}, nil
}

// Render produces the template view. Every non-zero total must have a
// template line; otherwise nothing is rendered and a
// *TransactionHiddenError lists what would be hidden.
func (h Household) Render(result model.ParsingResult) (string, error) {
	totals := make(map[string]decimal.Decimal, len(result.CategoryTotals))
	for name, total := range result.CategoryTotals {
		totals[strings.ToLower(name)] = total
	}

	templateNames := make(map[string]bool, len(h.TemplateLines))
	for _, line := range h.TemplateLines {
		if name := strings.ToLower(strings.TrimSpace(line)); name != "" {
			templateNames[name] = true
		}
	}

	var missing []string
	for name, total := range result.CategoryTotals {
		if !total.IsZero() && !templateNames[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &TransactionHiddenError{Missing: missing}
	}

	lines := []string{templateHeader}
	for _, line := range h.TemplateLines {
		name := strings.ToLower(strings.TrimSpace(line))
		if name == "" {
			lines = append(lines, "")
			continue
		}
		total, ok := totals[name]
		if !ok || total.IsZero() {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, GermanAmount(total))
	}
	return strings.Join(lines, "\n") + "\n", nil
}
