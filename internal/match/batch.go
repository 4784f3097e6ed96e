package match

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// CategorizeAll maps Categorize over txns, preserving input order and
// count. With Workers above 1 the work runs on a bounded goroutine group;
// matching only reads shared state, so that is safe.
func (e *Engine) CategorizeAll(txns []model.Transaction) ([]model.ParsedTransaction, error) {
	if e.Workers > 1 {
		return e.categorizeParallel(txns)
	}

	parsed := make([]model.ParsedTransaction, len(txns))
	for i, txn := range txns {
		cat, evidence, err := e.Categorize(txn)
		if err != nil {
			return nil, fmt.Errorf("categorizing transaction %d: %w", i+1, err)
		}
		parsed[i] = model.ParsedTransaction{Transaction: txn, Category: cat, Evidence: evidence}
	}
	return parsed, nil
}

func (e *Engine) categorizeParallel(txns []model.Transaction) ([]model.ParsedTransaction, error) {
	parsed := make([]model.ParsedTransaction, len(txns))

	var g errgroup.Group
	g.SetLimit(e.Workers)
	for i, txn := range txns {
		i, txn := i, txn // per-iteration copies; required while go.mod targets go < 1.22
		g.Go(func() error {
			cat, evidence, err := e.Categorize(txn)
			if err != nil {
				return fmt.Errorf("categorizing transaction %d: %w", i+1, err)
			}
			parsed[i] = model.ParsedTransaction{Transaction: txn, Category: cat, Evidence: evidence}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Run categorizes txns and folds the result in one step.
func (e *Engine) Run(txns []model.Transaction) (model.ParsingResult, error) {
	parsed, err := e.CategorizeAll(txns)
	if err != nil {
		return model.ParsingResult{}, err
	}
	return Summarize(parsed), nil
}

// Summarize folds parsed transactions into the aggregate result: totals
// keyed by display name, the income/expense split by amount sign, and the
// uncategorized subset in input order.
func Summarize(parsed []model.ParsedTransaction) model.ParsingResult {
	result := model.ParsingResult{
		Parsed:         parsed,
		CategoryTotals: make(map[string]decimal.Decimal),
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
	}

	for _, pt := range parsed {
		amt := pt.Transaction.Amount
		if amt.Sign() >= 0 {
			result.TotalIncome = result.TotalIncome.Add(amt)
		} else {
			result.TotalExpenses = result.TotalExpenses.Add(amt)
		}

		if pt.Category == nil {
			result.Uncategorized = append(result.Uncategorized, pt.Transaction)
			continue
		}
		key := pt.Category.DisplayName
		result.CategoryTotals[key] = result.CategoryTotals[key].Add(amt)
	}
	return result
}
