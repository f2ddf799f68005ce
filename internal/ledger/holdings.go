package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/model"
)

// HoldingSummaryQty returns the aggregate signed position for the
// (account, symbol) pair, or 0 when no summary row exists.
func (s *Store) HoldingSummaryQty(ctx context.Context, tx pgx.Tx, acctID int64, symbol string) (int32, error) {
	var qty int32
	err := tx.QueryRow(ctx, "select qty from holding_summaries where account_id = $1 and symbol = $2", acctID, symbol).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

func (s *Store) InsertHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, qty int32) error {
	_, err := tx.Exec(ctx, "insert into holding_summaries (account_id, symbol, qty) values ($1, $2, $3)", acctID, symbol, qty)
	return err
}

func (s *Store) UpdateHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, qty int32) error {
	_, err := tx.Exec(ctx, "update holding_summaries set qty = $1 where account_id = $2 and symbol = $3", qty, acctID, symbol)
	return err
}

func (s *Store) DeleteHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string) error {
	_, err := tx.Exec(ctx, "delete from holding_summaries where account_id = $1 and symbol = $2", acctID, symbol)
	return err
}

// HoldingsForUpdate fetches the account's lots for one symbol under a
// row lock, newest acquisition first when lifo is set, oldest first
// otherwise.
func (s *Store) HoldingsForUpdate(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, lifo bool) ([]model.Holding, error) {
	order := "asc"
	if lifo {
		order = "desc"
	}
	rows, err := tx.Query(ctx, "select trade_id, qty, price from holdings where account_id = $1 and symbol = $2 order by dts "+order+" for update", acctID, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Holding
	for rows.Next() {
		var h model.Holding
		if err := rows.Scan(&h.TradeID, &h.Qty, &h.Price); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) InsertHoldingHistory(ctx context.Context, tx pgx.Tx, lotTradeID, tradeID int64, beforeQty, afterQty int32) error {
	_, err := tx.Exec(ctx, "insert into holding_history (lot_trade_id, trade_id, before_qty, after_qty) values ($1, $2, $3, $4)",
		lotTradeID, tradeID, beforeQty, afterQty)
	return err
}

func (s *Store) UpdateHoldingQty(ctx context.Context, tx pgx.Tx, lotTradeID int64, qty int32) error {
	_, err := tx.Exec(ctx, "update holdings set qty = $1 where trade_id = $2", qty, lotTradeID)
	return err
}

func (s *Store) DeleteHolding(ctx context.Context, tx pgx.Tx, lotTradeID int64) error {
	_, err := tx.Exec(ctx, "delete from holdings where trade_id = $1", lotTradeID)
	return err
}

func (s *Store) InsertHolding(ctx context.Context, tx pgx.Tx, tradeID, acctID int64, symbol string, dts time.Time, price decimal.Decimal, qty int32) error {
	_, err := tx.Exec(ctx, "insert into holdings (trade_id, account_id, symbol, dts, price, qty) values ($1, $2, $3, $4, $5, $6)",
		tradeID, acctID, symbol, dts, price, qty)
	return err
}
