package traderesult

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Frame5Input struct {
	BrokerID   int64           `json:"broker_id"`
	CommAmount decimal.Decimal `json:"comm_amount"`
	StatusID   string          `json:"st_completed_id"`
	TradeDTS   time.Time       `json:"trade_dts"`
	TradeID    int64           `json:"trade_id"`
	TradePrice decimal.Decimal `json:"trade_price"`
}

// Frame5 finalizes the trade record: commission, completion timestamp,
// status and price on the trade row, a trade-history row for the status
// transition, and the broker's cumulative counters. The three writes are
// independent statements; a failure stops the frame but does not undo
// the statements already applied within the enclosing transaction.
func (s *Service) Frame5(ctx context.Context, tx pgx.Tx, in Frame5Input) error {
	s.log.DebugContext(ctx, "frame 5 inputs",
		"broker_id", in.BrokerID, "comm_amount", in.CommAmount, "st_completed_id", in.StatusID,
		"trade_dts", in.TradeDTS, "trade_id", in.TradeID, "trade_price", in.TradePrice)

	if err := s.store.FinalizeTrade(ctx, tx, in.TradeID, in.CommAmount, in.TradeDTS, in.StatusID, in.TradePrice); err != nil {
		s.log.ErrorContext(ctx, "frame 5 failed", "stmt", "update trade", "trade_id", in.TradeID, "broker_id", in.BrokerID, "err", err)
		return frameErr(5, "update trade", err)
	}
	if err := s.store.InsertTradeHistory(ctx, tx, in.TradeID, in.TradeDTS, in.StatusID); err != nil {
		s.log.ErrorContext(ctx, "frame 5 failed", "stmt", "insert trade history", "trade_id", in.TradeID, "broker_id", in.BrokerID, "err", err)
		return frameErr(5, "insert trade history", err)
	}
	if err := s.store.AddBrokerCommission(ctx, tx, in.BrokerID, in.CommAmount); err != nil {
		s.log.ErrorContext(ctx, "frame 5 failed", "stmt", "update broker", "trade_id", in.TradeID, "broker_id", in.BrokerID, "err", err)
		return frameErr(5, "update broker", err)
	}
	return nil
}
