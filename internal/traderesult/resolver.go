package traderesult

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/ledger"
)

// Frame1Result carries the trade attributes, trade-type attributes and
// prior summarized holding quantity for the traded (account, symbol).
// Found is 0 when the trade does not exist yet; the other fields are
// zero values in that case and must not be trusted.
type Frame1Result struct {
	AccountID    int64           `json:"acct_id"`
	TypeID       string          `json:"type_id"`
	Symbol       string          `json:"symbol"`
	TradeQty     int32           `json:"trade_qty"`
	Charge       decimal.Decimal `json:"charge"`
	IsLIFO       bool            `json:"is_lifo"`
	IsCash       bool            `json:"trade_is_cash"`
	TypeName     string          `json:"type_name"`
	TypeIsSell   bool            `json:"type_is_sell"`
	TypeIsMarket bool            `json:"type_is_market"`
	HoldingQty   int32           `json:"hs_qty"`
	Found        int             `json:"num_found"`
}

// Frame1 loads the trade, its type, and the current summarized holding
// quantity. Read-only. A missing trade is not an error: the trade may
// simply not be visible yet, and re-invoking before any mutation yields
// the same output.
func (s *Service) Frame1(ctx context.Context, tx pgx.Tx, tradeID int64) (Frame1Result, error) {
	s.log.DebugContext(ctx, "frame 1 inputs", "trade_id", tradeID)

	var out Frame1Result
	t, err := s.store.GetTrade(ctx, tx, tradeID)
	if errors.Is(err, ledger.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		s.log.ErrorContext(ctx, "frame 1 failed", "stmt", "select trade", "trade_id", tradeID, "err", err)
		return out, frameErr(1, "select trade", err)
	}
	out.AccountID = t.AccountID
	out.TypeID = t.TypeID
	out.Symbol = t.Symbol
	out.TradeQty = t.Qty
	out.Charge = t.Charge
	out.IsLIFO = t.IsLIFO
	out.IsCash = t.IsCash

	tt, err := s.store.GetTradeType(ctx, tx, t.TypeID)
	if err != nil {
		s.log.ErrorContext(ctx, "frame 1 failed", "stmt", "select trade type", "trade_id", tradeID, "err", err)
		return out, frameErr(1, "select trade type", err)
	}
	out.TypeName = tt.Name
	out.TypeIsSell = tt.IsSell
	out.TypeIsMarket = tt.IsMarket

	hsQty, err := s.store.HoldingSummaryQty(ctx, tx, t.AccountID, t.Symbol)
	if err != nil {
		s.log.ErrorContext(ctx, "frame 1 failed", "stmt", "select holding summary", "trade_id", tradeID, "err", err)
		return out, frameErr(1, "select holding summary", err)
	}
	out.HoldingQty = hsQty
	out.Found = 1

	s.log.DebugContext(ctx, "frame 1 outputs", "acct_id", out.AccountID, "symbol", out.Symbol, "hs_qty", out.HoldingQty, "num_found", out.Found)
	return out, nil
}
