package render

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

func TestSummaryRender(t *testing.T) {
	groceries := model.NewCategory("lebensmittel", "Lebensmittel")
	result := model.ParsingResult{
		Parsed: []model.ParsedTransaction{
			{Category: groceries},
			{Category: nil},
			{Category: groceries},
		},
		Uncategorized: make([]model.Transaction, 1),
		CategoryTotals: map[string]decimal.Decimal{
			"Lebensmittel": dec("-75.50"),
			"Leer":         decimal.Zero,
		},
		TotalIncome:   dec("2000"),
		TotalExpenses: dec("-75.50"),
	}

	out := Summary{}.Render(result)

	assert.Contains(t, out, "=== DKB Parsing Summary ===")
	assert.Contains(t, out, "Transactions:  3")
	assert.Contains(t, out, "Categorized:   2")
	assert.Contains(t, out, "Uncategorized: 1")
	assert.Contains(t, out, "Income:        2000.00 €")
	assert.Contains(t, out, "Expenses:      75.50 €", "expenses show as magnitude")
	assert.Contains(t, out, "Net:           1924.50 €")
	assert.Contains(t, out, "Lebensmittel: -75.50 €")
	assert.NotContains(t, out, "Leer", "zero totals stay out of the list")
	assert.NotContains(t, out, "Warnings:")
}

func TestSummaryRender_Warnings(t *testing.T) {
	out := Summary{Warnings: []string{"3 rows skipped", "template not found"}}.Render(model.ParsingResult{})

	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "  - 3 rows skipped")
	assert.Contains(t, out, "  - template not found")
}

func TestSummaryRender_Empty(t *testing.T) {
	out := Summary{}.Render(model.ParsingResult{})

	assert.Contains(t, out, "Transactions:  0")
	assert.Contains(t, out, "Net:           0.00 €")
	assert.NotContains(t, out, "Category totals:")
}
