// Package render turns a parsing result into the three output views:
// spreadsheet paste lines, console summary, and the filled household
// template.
package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MarcSchuh/DKBParsing/internal/model"
)

// GermanAmount formats an amount with two decimals and a comma separator,
// the way German spreadsheets expect it.
func GermanAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func transactionLine(txn model.Transaction) string {
	return fmt.Sprintf("%s | %s | %s | %s", txn.DateKey(), txn.Recipient, txn.Purpose, GermanAmount(txn.Amount))
}
