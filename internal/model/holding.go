package model

import (
	"github.com/shopspring/decimal"
)

// Holding is one acquisition lot. Qty is signed: positive for a long
// lot, negative for a short lot. The row is keyed by the trade that
// created it.
type Holding struct {
	TradeID int64
	Qty     int32
	Price   decimal.Decimal
}

// AccountInfo is what the position engine reads off the locked
// customer_accounts row.
type AccountInfo struct {
	BrokerID   int64
	CustomerID int64
	TaxStatus  int16
}
