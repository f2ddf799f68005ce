package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/model"
)

// SumTaxRates adds up every tax rate linked to the customer. A customer
// with no configured rates sums to zero.
func (s *Store) SumTaxRates(ctx context.Context, tx pgx.Tx, custID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.QueryRow(ctx, "select coalesce(sum(rate), 0) from tax_rates where id in (select tax_rate_id from customer_tax_rates where customer_id = $1)", custID).Scan(&sum)
	return sum, err
}

func (s *Store) GetSecurity(ctx context.Context, tx pgx.Tx, symbol string) (model.Security, error) {
	var sec model.Security
	err := tx.QueryRow(ctx, "select symbol, exchange_id, name from securities where symbol = $1", symbol).
		Scan(&sec.Symbol, &sec.ExchangeID, &sec.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return sec, ErrNotFound
	}
	return sec, err
}

func (s *Store) CustomerTier(ctx context.Context, tx pgx.Tx, custID int64) (int16, error) {
	var tier int16
	err := tx.QueryRow(ctx, "select tier from customers where id = $1", custID).Scan(&tier)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return tier, err
}

// CommissionRate finds the rate whose tier/type/exchange match and whose
// quantity band contains qty. Bands are expected not to overlap; if they
// do, the first row in storage order wins.
func (s *Store) CommissionRate(ctx context.Context, tx pgx.Tx, tier int16, typeID, exchangeID string, qty int32) (decimal.Decimal, error) {
	var rate decimal.Decimal
	err := tx.QueryRow(ctx, "select rate from commission_rates where tier = $1 and type_id = $2 and exchange_id = $3 and from_qty <= $4 and to_qty >= $4 limit 1",
		tier, typeID, exchangeID, qty).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return rate, ErrNotFound
	}
	return rate, err
}
