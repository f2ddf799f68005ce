package traderesult

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"traderesult/internal/events"
	"traderesult/internal/types"
)

var oneHundred = decimal.NewFromInt(100)

type RunInput struct {
	TradeID    int64           `json:"trade_id"`
	TradePrice decimal.Decimal `json:"trade_price"`
	DueDate    time.Time       `json:"due_date"`
}

type RunResult struct {
	TradeID      int64           `json:"trade_id"`
	Symbol       string          `json:"symbol"`
	BuyValue     decimal.Decimal `json:"buy_value"`
	SellValue    decimal.Decimal `json:"sell_value"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	Commission   decimal.Decimal `json:"comm_amount"`
	SettleAmount decimal.Decimal `json:"se_amount"`
	AcctBalance  decimal.Decimal `json:"acct_bal"`
}

// Run executes the six frames for one trade inside a single
// transaction. Any frame's failure rolls back everything and surfaces
// as that frame's FrameError, so the per-frame failure contract is kept
// while the ledger sees one atomic unit.
func (s *Service) Run(ctx context.Context, in RunInput) (RunResult, error) {
	var out RunResult
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return out, err
	}
	defer tx.Rollback(ctx)

	f1, err := s.Frame1(ctx, tx, in.TradeID)
	if err != nil {
		return out, err
	}
	if f1.Found == 0 {
		return out, ErrTradeNotFound
	}
	out.TradeID = in.TradeID
	out.Symbol = f1.Symbol

	f2, err := s.Frame2(ctx, tx, Frame2Input{
		AccountID:  f1.AccountID,
		HoldingQty: f1.HoldingQty,
		IsLIFO:     f1.IsLIFO,
		Symbol:     f1.Symbol,
		TradeID:    in.TradeID,
		TradePrice: in.TradePrice,
		TradeQty:   f1.TradeQty,
		Direction:  types.DirectionFromSellFlag(f1.TypeIsSell),
	})
	if err != nil {
		return out, err
	}
	out.BuyValue = f2.BuyValue
	out.SellValue = f2.SellValue

	// Tax applies only to taxable accounts that realized a gain; the
	// frame itself stays callable for any values.
	if f2.TaxStatus == 1 && f2.SellValue.GreaterThan(f2.BuyValue) {
		out.TaxAmount, err = s.Frame3(ctx, tx, f2.BuyValue, f2.CustomerID, f2.SellValue, in.TradeID)
		if err != nil {
			return out, err
		}
	}

	f4, err := s.Frame4(ctx, tx, f2.CustomerID, f1.Symbol, f1.TradeQty, f1.TypeID)
	if err != nil {
		return out, err
	}
	out.Commission = f4.CommRate.Div(oneHundred).
		Mul(decimal.NewFromInt32(f1.TradeQty)).Mul(in.TradePrice)

	if err := s.Frame5(ctx, tx, Frame5Input{
		BrokerID:   f2.BrokerID,
		CommAmount: out.Commission,
		StatusID:   types.StatusCompleted,
		TradeDTS:   f2.TradeDTS,
		TradeID:    in.TradeID,
		TradePrice: in.TradePrice,
	}); err != nil {
		return out, err
	}

	out.SettleAmount = settlementAmount(f1, in.TradePrice, out.Commission)
	if f1.IsCash && f2.TaxStatus == 1 {
		out.SettleAmount = out.SettleAmount.Sub(out.TaxAmount)
	}

	out.AcctBalance, err = s.Frame6(ctx, tx, Frame6Input{
		AccountID:    f1.AccountID,
		DueDate:      in.DueDate,
		SecurityName: f4.SecurityName,
		Amount:       out.SettleAmount,
		TradeDTS:     f2.TradeDTS,
		TradeID:      in.TradeID,
		IsCash:       f1.IsCash,
		TradeQty:     f1.TradeQty,
		TypeName:     f1.TypeName,
	})
	if err != nil {
		return out, err
	}

	if err := tx.Commit(ctx); err != nil {
		return out, err
	}

	if s.pub != nil {
		s.pub.Publish(events.TradeResult(events.TradeResultEvent{
			TradeID:      out.TradeID,
			Symbol:       out.Symbol,
			SettleAmount: out.SettleAmount,
			AcctBalance:  out.AcctBalance,
		}))
	}
	return out, nil
}

// settlementAmount is the cash due for the trade: proceeds less charge
// and commission on a sell, total cost on a buy (negative, money owed).
func settlementAmount(f1 Frame1Result, tradePrice, commission decimal.Decimal) decimal.Decimal {
	gross := decimal.NewFromInt32(f1.TradeQty).Mul(tradePrice)
	if f1.TypeIsSell {
		return gross.Sub(f1.Charge).Sub(commission)
	}
	return gross.Add(f1.Charge).Add(commission).Neg()
}
