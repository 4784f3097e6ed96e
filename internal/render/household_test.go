package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

func TestHouseholdRender_FillsTemplate(t *testing.T) {
	h := Household{TemplateLines: []string{"Lebensmittel", "", "MIETE", "Strom"}}
	result := model.ParsingResult{CategoryTotals: map[string]decimal.Decimal{
		"lebensmittel": dec("-75.50"),
		"Miete":        dec("-900"),
		"Strom":        decimal.Zero,
	}}

	out, err := h.Render(result)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6, "header, four template rows, trailing newline")
	assert.Equal(t, templateHeader, lines[0])
	assert.Equal(t, "-75,50", lines[1], "template casing need not match the category")
	assert.Equal(t, "", lines[2], "blank template line stays blank")
	assert.Equal(t, "-900,00", lines[3])
	assert.Equal(t, "", lines[4], "zero total renders as a blank row")
}

func TestHouseholdRender_HiddenCategoryIsFatal(t *testing.T) {
	h := Household{TemplateLines: []string{"Lebensmittel"}}
	result := model.ParsingResult{CategoryTotals: map[string]decimal.Decimal{
		"Lebensmittel": dec("-75.50"),
		"Reisen":       dec("-120"),
		"Geschenke":    dec("-30"),
	}}

	out, err := h.Render(result)

	require.Error(t, err)
	assert.Empty(t, out, "nothing renders when money would be hidden")
	var hiddenErr *TransactionHiddenError
	require.ErrorAs(t, err, &hiddenErr)
	assert.Equal(t, []string{"Geschenke", "Reisen"}, hiddenErr.Missing)
	assert.Contains(t, err.Error(), "Geschenke, Reisen")
}

func TestHouseholdRender_ZeroTotalMayBeMissing(t *testing.T) {
	h := Household{TemplateLines: []string{"Lebensmittel"}}
	result := model.ParsingResult{CategoryTotals: map[string]decimal.Decimal{
		"Lebensmittel": dec("-75.50"),
		"Leer":         decimal.Zero,
	}}

	_, err := h.Render(result)

	require.NoError(t, err, "zero totals hide nothing")
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.txt")
	require.NoError(t, os.WriteFile(path, []byte("Lebensmittel\r\n\r\nMiete\n"), 0o644))

	h, err := LoadTemplate(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Lebensmittel", "", "Miete"}, h.TemplateLines)
}

func TestLoadTemplate_Missing(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "absent.txt"))

	require.Error(t, err)
}
