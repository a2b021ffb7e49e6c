package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is a normalized transaction parsed from a statement export, not yet persisted.
type Draft struct {
	ExternalID  string
	Date        time.Time       // day precision, from the first 8 chars of DTPOSTED
	Amount      decimal.Decimal // always >= 0
	Type        TransactionType // income when the signed amount was >= 0
	Description string
	RawType     string // TRNTYPE as exported by the bank (DEBIT, CREDIT, ...)
}

// ISODate returns Date formatted as YYYY-MM-DD.
func (d Draft) ISODate() string {
	return d.Date.Format("2006-01-02")
}
