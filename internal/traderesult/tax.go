package traderesult

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Frame3 computes the capital-gains tax on the realized values and
// persists it onto the trade. A loss legitimately yields a negative
// amount, which is stored as-is. A customer with no configured tax
// rates pays zero.
func (s *Service) Frame3(ctx context.Context, tx pgx.Tx, buyValue decimal.Decimal, custID int64, sellValue decimal.Decimal, tradeID int64) (decimal.Decimal, error) {
	s.log.DebugContext(ctx, "frame 3 inputs", "buy_value", buyValue, "cust_id", custID, "sell_value", sellValue, "trade_id", tradeID)

	rates, err := s.store.SumTaxRates(ctx, tx, custID)
	if err != nil {
		s.log.ErrorContext(ctx, "frame 3 failed", "stmt", "sum tax rates", "cust_id", custID, "trade_id", tradeID, "err", err)
		return decimal.Zero, frameErr(3, "sum tax rates", err)
	}
	tax := sellValue.Sub(buyValue).Mul(rates)

	if err := s.store.SetTradeTax(ctx, tx, tradeID, tax); err != nil {
		s.log.ErrorContext(ctx, "frame 3 failed", "stmt", "update trade tax", "cust_id", custID, "trade_id", tradeID, "err", err)
		return decimal.Zero, frameErr(3, "update trade tax", err)
	}

	s.log.DebugContext(ctx, "frame 3 outputs", "trade_id", tradeID, "tax_amount", tax)
	return tax, nil
}
