package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/model"
)

// LockAccount takes the customer_accounts row lock that serializes
// concurrent trades against the same account for the rest of the
// transaction.
func (s *Store) LockAccount(ctx context.Context, tx pgx.Tx, acctID int64) (model.AccountInfo, error) {
	var a model.AccountInfo
	err := tx.QueryRow(ctx, "select broker_id, customer_id, tax_status from customer_accounts where id = $1 for update", acctID).
		Scan(&a.BrokerID, &a.CustomerID, &a.TaxStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

func (s *Store) AddToAccountBalance(ctx context.Context, tx pgx.Tx, acctID int64, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx, "update customer_accounts set balance = balance + $1 where id = $2", amount, acctID)
	return err
}

func (s *Store) AccountBalance(ctx context.Context, tx pgx.Tx, acctID int64) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := tx.QueryRow(ctx, "select balance from customer_accounts where id = $1", acctID).Scan(&bal)
	if errors.Is(err, pgx.ErrNoRows) {
		return bal, ErrNotFound
	}
	return bal, err
}
