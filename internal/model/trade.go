package model

import (
	"github.com/shopspring/decimal"
)

// Trade is the slice of the trades row the result frames work with.
type Trade struct {
	ID        int64
	AccountID int64
	TypeID    string
	Symbol    string
	Qty       int32
	Charge    decimal.Decimal
	IsLIFO    bool
	IsCash    bool
}

type TradeType struct {
	ID       string
	Name     string
	IsSell   bool
	IsMarket bool
}

type Security struct {
	Symbol     string
	ExchangeID string
	Name       string
}
