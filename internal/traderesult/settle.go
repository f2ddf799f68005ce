package traderesult

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/types"
)

type Frame6Input struct {
	AccountID    int64           `json:"acct_id"`
	DueDate      time.Time       `json:"due_date"`
	SecurityName string          `json:"s_name"`
	Amount       decimal.Decimal `json:"se_amount"`
	TradeDTS     time.Time       `json:"trade_dts"`
	TradeID      int64           `json:"trade_id"`
	IsCash       bool            `json:"trade_is_cash"`
	TradeQty     int32           `json:"trade_qty"`
	TypeName     string          `json:"type_name"`
}

// Frame6 posts the settlement. Every trade gets a settlement row; cash
// trades additionally move the account balance and append a
// cash-transaction log entry. The closing balance read runs whether or
// not the trade was cash, so the caller always gets the current balance.
func (s *Service) Frame6(ctx context.Context, tx pgx.Tx, in Frame6Input) (decimal.Decimal, error) {
	s.log.DebugContext(ctx, "frame 6 inputs",
		"acct_id", in.AccountID, "due_date", in.DueDate, "s_name", in.SecurityName,
		"se_amount", in.Amount, "trade_dts", in.TradeDTS, "trade_id", in.TradeID,
		"trade_is_cash", in.IsCash, "trade_qty", in.TradeQty, "type_name", in.TypeName)

	cashType := types.CashTypeMargin
	if in.IsCash {
		cashType = types.CashTypeCash
	}
	if err := s.store.InsertSettlement(ctx, tx, in.TradeID, cashType, in.DueDate, in.Amount); err != nil {
		return decimal.Zero, s.failFrame6(ctx, in, "insert settlement", err)
	}

	if in.IsCash {
		if err := s.store.AddToAccountBalance(ctx, tx, in.AccountID, in.Amount); err != nil {
			return decimal.Zero, s.failFrame6(ctx, in, "update account balance", err)
		}
		name := fmt.Sprintf("%s %d shares of %s", in.TypeName, in.TradeQty, escapeSecurityName(in.SecurityName))
		if err := s.store.InsertCashTransaction(ctx, tx, in.TradeDTS, in.TradeID, in.Amount, name); err != nil {
			return decimal.Zero, s.failFrame6(ctx, in, "insert cash transaction", err)
		}
	}

	bal, err := s.store.AccountBalance(ctx, tx, in.AccountID)
	if err != nil {
		return decimal.Zero, s.failFrame6(ctx, in, "select account balance", err)
	}

	s.log.DebugContext(ctx, "frame 6 outputs", "trade_id", in.TradeID, "acct_bal", bal)
	return bal, nil
}

// escapeSecurityName guards the quote characters company names carry
// (e.g. "O'Brien & Sons") before the name is embedded in the
// cash-transaction note.
func escapeSecurityName(name string) string {
	return strings.ReplaceAll(name, "'", `\'`)
}

func (s *Service) failFrame6(ctx context.Context, in Frame6Input, stmt string, err error) error {
	s.log.ErrorContext(ctx, "frame 6 failed", "stmt", stmt, "err", err,
		"acct_id", in.AccountID, "due_date", in.DueDate, "s_name", in.SecurityName,
		"se_amount", in.Amount, "trade_dts", in.TradeDTS, "trade_id", in.TradeID,
		"trade_is_cash", in.IsCash, "trade_qty", in.TradeQty, "type_name", in.TypeName)
	return frameErr(6, stmt, err)
}
