package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/model"
)

func (s *Store) GetTrade(ctx context.Context, tx pgx.Tx, tradeID int64) (model.Trade, error) {
	var t model.Trade
	err := tx.QueryRow(ctx, "select id, account_id, type_id, symbol, qty, charge, is_lifo, is_cash from trades where id = $1", tradeID).
		Scan(&t.ID, &t.AccountID, &t.TypeID, &t.Symbol, &t.Qty, &t.Charge, &t.IsLIFO, &t.IsCash)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrNotFound
	}
	return t, err
}

func (s *Store) GetTradeType(ctx context.Context, tx pgx.Tx, typeID string) (model.TradeType, error) {
	var tt model.TradeType
	err := tx.QueryRow(ctx, "select id, name, is_sell, is_market from trade_types where id = $1", typeID).
		Scan(&tt.ID, &tt.Name, &tt.IsSell, &tt.IsMarket)
	if errors.Is(err, pgx.ErrNoRows) {
		return tt, ErrNotFound
	}
	return tt, err
}

func (s *Store) SetTradeTax(ctx context.Context, tx pgx.Tx, tradeID int64, tax decimal.Decimal) error {
	_, err := tx.Exec(ctx, "update trades set tax = $1 where id = $2", tax, tradeID)
	return err
}

func (s *Store) FinalizeTrade(ctx context.Context, tx pgx.Tx, tradeID int64, commission decimal.Decimal, completedAt time.Time, statusID string, price decimal.Decimal) error {
	_, err := tx.Exec(ctx, "update trades set commission = $1, completed_at = $2, status_id = $3, trade_price = $4 where id = $5",
		commission, completedAt, statusID, price, tradeID)
	return err
}

func (s *Store) InsertTradeHistory(ctx context.Context, tx pgx.Tx, tradeID int64, dts time.Time, statusID string) error {
	_, err := tx.Exec(ctx, "insert into trade_history (trade_id, dts, status_id) values ($1, $2, $3)", tradeID, dts, statusID)
	return err
}

func (s *Store) AddBrokerCommission(ctx context.Context, tx pgx.Tx, brokerID int64, commission decimal.Decimal) error {
	_, err := tx.Exec(ctx, "update brokers set commission_total = commission_total + $1, num_trades = num_trades + 1 where id = $2",
		commission, brokerID)
	return err
}
