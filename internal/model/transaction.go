package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateKeyFormat renders dates the way DKB exports and manual assignments
// spell them: "31.12.24".
const DateKeyFormat = "02.01.06"

// Transaction represents a parsed DKB CSV row.
type Transaction struct {
	BookingDate time.Time
	ValueDate   time.Time
	Status      string
	Payer       string
	Recipient   string
	Purpose     string
	IBAN        string          // counterparty IBAN, may be empty
	Amount      decimal.Decimal // negative = expense, positive = income
	CreditorID  string
	MandateRef  string
	CustomerRef string
}

// DateKey returns the value date in DateKeyFormat, the form manual
// assignments record and rule matching sees.
func (t Transaction) DateKey() string {
	return t.ValueDate.Format(DateKeyFormat)
}
