package types

type TradeDirection string

type CashType string

const (
	DirectionBuy  TradeDirection = "buy"
	DirectionSell TradeDirection = "sell"
)

const (
	CashTypeCash   CashType = "Cash Account"
	CashTypeMargin CashType = "Margin"
)

// StatusCompleted is the trade status written by the finalizer.
const StatusCompleted = "CMPT"

func DirectionFromSellFlag(isSell bool) TradeDirection {
	if isSell {
		return DirectionSell
	}
	return DirectionBuy
}
