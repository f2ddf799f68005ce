// Package traderesult executes the six frames that finalize an executed
// trade: trade/type resolution, position adjustment, capital-gains tax,
// commission lookup, trade finalization and cash settlement.
//
// Frames run against a caller-supplied transaction so a driver can give
// the whole sequence one commit boundary (see Run) while each frame
// still fails independently with its own identity.
package traderesult

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/events"
	"traderesult/internal/model"
	"traderesult/internal/types"
)

// Store is the ledger surface the frames need. *ledger.Store implements
// it; tests substitute an in-memory fake.
type Store interface {
	Now(ctx context.Context, tx pgx.Tx) (time.Time, error)

	GetTrade(ctx context.Context, tx pgx.Tx, tradeID int64) (model.Trade, error)
	GetTradeType(ctx context.Context, tx pgx.Tx, typeID string) (model.TradeType, error)
	SetTradeTax(ctx context.Context, tx pgx.Tx, tradeID int64, tax decimal.Decimal) error
	FinalizeTrade(ctx context.Context, tx pgx.Tx, tradeID int64, commission decimal.Decimal, completedAt time.Time, statusID string, price decimal.Decimal) error
	InsertTradeHistory(ctx context.Context, tx pgx.Tx, tradeID int64, dts time.Time, statusID string) error
	AddBrokerCommission(ctx context.Context, tx pgx.Tx, brokerID int64, commission decimal.Decimal) error

	HoldingSummaryQty(ctx context.Context, tx pgx.Tx, acctID int64, symbol string) (int32, error)
	InsertHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, qty int32) error
	UpdateHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, qty int32) error
	DeleteHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string) error
	HoldingsForUpdate(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, lifo bool) ([]model.Holding, error)
	InsertHoldingHistory(ctx context.Context, tx pgx.Tx, lotTradeID, tradeID int64, beforeQty, afterQty int32) error
	UpdateHoldingQty(ctx context.Context, tx pgx.Tx, lotTradeID int64, qty int32) error
	DeleteHolding(ctx context.Context, tx pgx.Tx, lotTradeID int64) error
	InsertHolding(ctx context.Context, tx pgx.Tx, tradeID, acctID int64, symbol string, dts time.Time, price decimal.Decimal, qty int32) error

	LockAccount(ctx context.Context, tx pgx.Tx, acctID int64) (model.AccountInfo, error)
	AddToAccountBalance(ctx context.Context, tx pgx.Tx, acctID int64, amount decimal.Decimal) error
	AccountBalance(ctx context.Context, tx pgx.Tx, acctID int64) (decimal.Decimal, error)

	SumTaxRates(ctx context.Context, tx pgx.Tx, custID int64) (decimal.Decimal, error)
	GetSecurity(ctx context.Context, tx pgx.Tx, symbol string) (model.Security, error)
	CustomerTier(ctx context.Context, tx pgx.Tx, custID int64) (int16, error)
	CommissionRate(ctx context.Context, tx pgx.Tx, tier int16, typeID, exchangeID string, qty int32) (decimal.Decimal, error)

	InsertSettlement(ctx context.Context, tx pgx.Tx, tradeID int64, cashType types.CashType, dueDate time.Time, amount decimal.Decimal) error
	InsertCashTransaction(ctx context.Context, tx pgx.Tx, dts time.Time, tradeID int64, amount decimal.Decimal, name string) error
}

type Publisher interface {
	Publish(evt events.Event)
}

// TxBeginner opens the transactions the frames run in. *pgxpool.Pool
// satisfies it; tests substitute a fake.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service struct {
	pool  TxBeginner
	store Store
	log   *slog.Logger
	pub   Publisher
}

func NewService(pool TxBeginner, store Store, log *slog.Logger, pub Publisher) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{pool: pool, store: store, log: log, pub: pub}
}

// InTx runs fn inside its own transaction. Callers invoking a single
// frame get the frame's own commit boundary this way; Run manages its
// transaction itself.
func (s *Service) InTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
