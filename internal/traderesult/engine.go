package traderesult

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/types"
)

type Frame2Input struct {
	AccountID  int64                `json:"acct_id"`
	HoldingQty int32                `json:"hs_qty"`
	IsLIFO     bool                 `json:"is_lifo"`
	Symbol     string               `json:"symbol"`
	TradeID    int64                `json:"trade_id"`
	TradePrice decimal.Decimal      `json:"trade_price"`
	TradeQty   int32                `json:"trade_qty"`
	Direction  types.TradeDirection `json:"direction"`
}

type Frame2Result struct {
	BrokerID   int64           `json:"broker_id"`
	BuyValue   decimal.Decimal `json:"buy_value"`
	CustomerID int64           `json:"cust_id"`
	SellValue  decimal.Decimal `json:"sell_value"`
	TaxStatus  int16           `json:"tax_status"`
	TradeDTS   time.Time       `json:"trade_dts"`
}

// Frame2 adjusts the customer's position for the executed trade. It
// locks the account row, updates or creates the holding summary,
// consumes existing lots in LIFO/FIFO order, opens an opposing lot when
// the position is insufficient, and deletes the summary when the
// position closes to exactly zero. Every lot touched gets a
// holding-history audit row.
//
// Invariant on success: the sum of lot quantities for (account, symbol)
// equals the summary quantity, with the summary row absent iff that sum
// is zero.
func (s *Service) Frame2(ctx context.Context, tx pgx.Tx, in Frame2Input) (Frame2Result, error) {
	s.logFrame2(ctx, "frame 2 inputs", in, nil)

	out := Frame2Result{BuyValue: decimal.Zero, SellValue: decimal.Zero}

	dts, err := s.store.Now(ctx, tx)
	if err != nil {
		return out, s.failFrame2(ctx, in, "select now", err)
	}
	out.TradeDTS = dts

	acct, err := s.store.LockAccount(ctx, tx, in.AccountID)
	if err != nil {
		return out, s.failFrame2(ctx, in, "lock customer account", err)
	}
	out.BrokerID = acct.BrokerID
	out.CustomerID = acct.CustomerID
	out.TaxStatus = acct.TaxStatus

	hsQty := in.HoldingQty
	tradeQty := in.TradeQty

	if in.Direction == types.DirectionSell {
		// Selling. A sell against no position anticipates a short;
		// hsQty == tradeQty means the summary gets deleted below once
		// the lots are gone.
		switch {
		case hsQty == 0:
			if err := s.store.InsertHoldingSummary(ctx, tx, in.AccountID, in.Symbol, -tradeQty); err != nil {
				return out, s.failFrame2(ctx, in, "insert holding summary", err)
			}
		case hsQty != tradeQty:
			if err := s.store.UpdateHoldingSummary(ctx, tx, in.AccountID, in.Symbol, hsQty-tradeQty); err != nil {
				return out, s.failFrame2(ctx, in, "update holding summary", err)
			}
		}

		needed := tradeQty
		if hsQty > 0 {
			needed, err = s.consumeLots(ctx, tx, in, needed, &out)
			if err != nil {
				return out, err
			}
		}

		if needed > 0 {
			// Existing holdings were insufficient: sell short. The new
			// lot is keyed by this trade with a negative quantity.
			if err := s.store.InsertHoldingHistory(ctx, tx, in.TradeID, in.TradeID, 0, -needed); err != nil {
				return out, s.failFrame2(ctx, in, "insert holding history", err)
			}
			if err := s.store.InsertHolding(ctx, tx, in.TradeID, in.AccountID, in.Symbol, dts, in.TradePrice, -needed); err != nil {
				return out, s.failFrame2(ctx, in, "insert holding", err)
			}
		} else if hsQty == tradeQty {
			if err := s.store.DeleteHoldingSummary(ctx, tx, in.AccountID, in.Symbol); err != nil {
				return out, s.failFrame2(ctx, in, "delete holding summary", err)
			}
		}
	} else {
		// Buying. A buy against a short position covers it; -hsQty ==
		// tradeQty closes the short exactly and deletes the summary.
		switch {
		case hsQty == 0:
			if err := s.store.InsertHoldingSummary(ctx, tx, in.AccountID, in.Symbol, tradeQty); err != nil {
				return out, s.failFrame2(ctx, in, "insert holding summary", err)
			}
		case -hsQty != tradeQty:
			if err := s.store.UpdateHoldingSummary(ctx, tx, in.AccountID, in.Symbol, hsQty+tradeQty); err != nil {
				return out, s.failFrame2(ctx, in, "update holding summary", err)
			}
		}

		needed := tradeQty
		if hsQty < 0 {
			needed, err = s.consumeLots(ctx, tx, in, needed, &out)
			if err != nil {
				return out, err
			}
		}

		if needed > 0 {
			// All shorts covered (or none existed): open a long lot.
			if err := s.store.InsertHoldingHistory(ctx, tx, in.TradeID, in.TradeID, 0, needed); err != nil {
				return out, s.failFrame2(ctx, in, "insert holding history", err)
			}
			if err := s.store.InsertHolding(ctx, tx, in.TradeID, in.AccountID, in.Symbol, dts, in.TradePrice, needed); err != nil {
				return out, s.failFrame2(ctx, in, "insert holding", err)
			}
		} else if -hsQty == tradeQty {
			if err := s.store.DeleteHoldingSummary(ctx, tx, in.AccountID, in.Symbol); err != nil {
				return out, s.failFrame2(ctx, in, "delete holding summary", err)
			}
		}
	}

	s.logFrame2(ctx, "frame 2 outputs", in, &out)
	return out, nil
}

// consumeLots offsets existing lots against the trade in acquisition
// order, newest first under LIFO. Sell trades consume long lots, buy
// trades cover short lots; partial consumption of the current lot is
// always preferred over opening an opposing one. Returns the quantity
// still unfilled after the eligible lots run out.
func (s *Service) consumeLots(ctx context.Context, tx pgx.Tx, in Frame2Input, needed int32, out *Frame2Result) (int32, error) {
	lots, err := s.store.HoldingsForUpdate(ctx, tx, in.AccountID, in.Symbol, in.IsLIFO)
	if err != nil {
		return needed, s.failFrame2(ctx, in, "select holdings for update", err)
	}
	for _, lot := range lots {
		if needed <= 0 {
			break
		}
		mag := lot.Qty
		if mag < 0 {
			mag = -mag
		}
		if mag > needed {
			// The lot covers the trade with shares to spare.
			after := lot.Qty - needed
			if in.Direction == types.DirectionBuy {
				after = lot.Qty + needed
			}
			if err := s.store.InsertHoldingHistory(ctx, tx, lot.TradeID, in.TradeID, lot.Qty, after); err != nil {
				return needed, s.failFrame2(ctx, in, "insert holding history", err)
			}
			if err := s.store.UpdateHoldingQty(ctx, tx, lot.TradeID, after); err != nil {
				return needed, s.failFrame2(ctx, in, "update holding", err)
			}
			s.accumulate(in, out, needed, lot.Price)
			needed = 0
		} else {
			// The lot is used up entirely.
			if err := s.store.InsertHoldingHistory(ctx, tx, lot.TradeID, in.TradeID, lot.Qty, 0); err != nil {
				return needed, s.failFrame2(ctx, in, "insert holding history", err)
			}
			if err := s.store.DeleteHolding(ctx, tx, lot.TradeID); err != nil {
				return needed, s.failFrame2(ctx, in, "delete holding", err)
			}
			s.accumulate(in, out, mag, lot.Price)
			needed -= mag
		}
	}
	return needed, nil
}

// accumulate books the realized amounts for qty shares matched against
// one lot: the trade's execution price on the value side, the lot's
// acquisition price on the cost side, whichever way the trade runs.
func (s *Service) accumulate(in Frame2Input, out *Frame2Result, qty int32, lotPrice decimal.Decimal) {
	cost := decimal.NewFromInt32(qty).Mul(lotPrice)
	value := decimal.NewFromInt32(qty).Mul(in.TradePrice)
	if in.Direction == types.DirectionSell {
		out.BuyValue = out.BuyValue.Add(cost)
		out.SellValue = out.SellValue.Add(value)
	} else {
		out.BuyValue = out.BuyValue.Add(value)
		out.SellValue = out.SellValue.Add(cost)
	}
}

func (s *Service) failFrame2(ctx context.Context, in Frame2Input, stmt string, err error) error {
	s.log.ErrorContext(ctx, "frame 2 failed", "stmt", stmt, "err", err,
		"acct_id", in.AccountID, "hs_qty", in.HoldingQty, "is_lifo", in.IsLIFO,
		"symbol", in.Symbol, "trade_id", in.TradeID, "trade_price", in.TradePrice,
		"trade_qty", in.TradeQty, "direction", string(in.Direction))
	return frameErr(2, stmt, err)
}

func (s *Service) logFrame2(ctx context.Context, msg string, in Frame2Input, out *Frame2Result) {
	if out == nil {
		s.log.DebugContext(ctx, msg,
			"acct_id", in.AccountID, "hs_qty", in.HoldingQty, "is_lifo", in.IsLIFO,
			"symbol", in.Symbol, "trade_id", in.TradeID, "trade_price", in.TradePrice,
			"trade_qty", in.TradeQty, "direction", string(in.Direction))
		return
	}
	s.log.DebugContext(ctx, msg,
		"trade_id", in.TradeID, "broker_id", out.BrokerID, "cust_id", out.CustomerID,
		"buy_value", out.BuyValue, "sell_value", out.SellValue, "tax_status", out.TaxStatus)
}
