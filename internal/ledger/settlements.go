package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/types"
)

func (s *Store) InsertSettlement(ctx context.Context, tx pgx.Tx, tradeID int64, cashType types.CashType, dueDate time.Time, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx, "insert into settlements (trade_id, cash_type, due_date, amount) values ($1, $2, $3, $4)",
		tradeID, string(cashType), dueDate, amount)
	return err
}

func (s *Store) InsertCashTransaction(ctx context.Context, tx pgx.Tx, dts time.Time, tradeID int64, amount decimal.Decimal, name string) error {
	_, err := tx.Exec(ctx, "insert into cash_transactions (dts, trade_id, amount, name) values ($1, $2, $3, $4)",
		dts, tradeID, amount, name)
	return err
}
