package model

import "github.com/shopspring/decimal"

// amountTolerance is one cent. A recorded assignment amount further than
// this from the transaction amount does not match.
var amountTolerance = decimal.New(1, -2)

// Assignment pins a single transaction, identified by value date, recipient,
// and purpose, to a category ahead of any rule matching.
type Assignment struct {
	Date      string // value date in DateKeyFormat
	Recipient string
	Purpose   string
	Category  string           // category name
	Amount    *decimal.Decimal // expected amount, nil to match any
}

// Matches reports whether a is the manual override for txn: the identity
// triple must be equal exactly, and a recorded amount must agree with the
// transaction's to within a cent.
func (a Assignment) Matches(txn Transaction) bool {
	if a.Date != txn.DateKey() || a.Recipient != txn.Recipient || a.Purpose != txn.Purpose {
		return false
	}
	if a.Amount != nil && a.Amount.Sub(txn.Amount).Abs().Cmp(amountTolerance) >= 0 {
		return false
	}
	return true
}
