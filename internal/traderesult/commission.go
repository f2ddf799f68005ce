package traderesult

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Frame4Result struct {
	CommRate     decimal.Decimal `json:"comm_rate"`
	SecurityName string          `json:"s_name"`
}

// Frame4 resolves the commission rate for the trade: the security's
// exchange, the customer's tier, then the rate whose quantity band
// contains the trade quantity. A missing security, customer or band is
// an error; bands are never guessed at.
func (s *Service) Frame4(ctx context.Context, tx pgx.Tx, custID int64, symbol string, tradeQty int32, typeID string) (Frame4Result, error) {
	s.log.DebugContext(ctx, "frame 4 inputs", "cust_id", custID, "symbol", symbol, "trade_qty", tradeQty, "type_id", typeID)

	var out Frame4Result
	sec, err := s.store.GetSecurity(ctx, tx, symbol)
	if err != nil {
		s.log.ErrorContext(ctx, "frame 4 failed", "stmt", "select security", "cust_id", custID, "symbol", symbol, "err", err)
		return out, frameErr(4, "select security", err)
	}
	out.SecurityName = sec.Name

	tier, err := s.store.CustomerTier(ctx, tx, custID)
	if err != nil {
		s.log.ErrorContext(ctx, "frame 4 failed", "stmt", "select customer tier", "cust_id", custID, "symbol", symbol, "err", err)
		return out, frameErr(4, "select customer tier", err)
	}

	rate, err := s.store.CommissionRate(ctx, tx, tier, typeID, sec.ExchangeID, tradeQty)
	if err != nil {
		s.log.ErrorContext(ctx, "frame 4 failed", "stmt", "select commission rate", "cust_id", custID, "symbol", symbol,
			"tier", tier, "type_id", typeID, "exchange_id", sec.ExchangeID, "trade_qty", tradeQty, "err", err)
		return out, frameErr(4, "select commission rate", err)
	}
	out.CommRate = rate

	s.log.DebugContext(ctx, "frame 4 outputs", "comm_rate", out.CommRate, "s_name", out.SecurityName)
	return out, nil
}
