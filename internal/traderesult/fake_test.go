package traderesult

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/ledger"
	"traderesult/internal/model"
	"traderesult/internal/types"
)

// fakeStore is an in-memory Store. Methods ignore the tx argument, so
// tests pass nil; lot ordering follows insertion sequence when
// acquisition timestamps tie.
type fakeStore struct {
	now time.Time

	trades     map[int64]model.Trade
	tradeTypes map[string]model.TradeType
	accounts   map[int64]model.AccountInfo
	balances   map[int64]decimal.Decimal
	taxRates   map[int64]decimal.Decimal
	securities map[string]model.Security
	tiers      map[int64]int16
	commBands  []commBand

	summaries map[string]int32
	lots      []fakeLot
	lotSeq    int

	history     []historyRow
	taxByTrade  map[int64]decimal.Decimal
	finalized   map[int64]finalizedTrade
	tradeHist   []tradeHistRow
	brokerComm  map[int64]decimal.Decimal
	brokerCount map[int64]int
	settlements []settlementRow
	cashTxns    []cashTxnRow
}

type fakeLot struct {
	acctID int64
	symbol string
	dts    time.Time
	seq    int
	model.Holding
}

type commBand struct {
	tier       int16
	typeID     string
	exchangeID string
	fromQty    int32
	toQty      int32
	rate       decimal.Decimal
}

type historyRow struct {
	lotTradeID int64
	tradeID    int64
	before     int32
	after      int32
}

type finalizedTrade struct {
	commission  decimal.Decimal
	completedAt time.Time
	statusID    string
	price       decimal.Decimal
}

type tradeHistRow struct {
	tradeID  int64
	dts      time.Time
	statusID string
}

type settlementRow struct {
	tradeID  int64
	cashType types.CashType
	dueDate  time.Time
	amount   decimal.Decimal
}

type cashTxnRow struct {
	dts     time.Time
	tradeID int64
	amount  decimal.Decimal
	name    string
}

var testAccount = model.AccountInfo{BrokerID: 7, CustomerID: 42, TaxStatus: 1}

func newFakeStore() *fakeStore {
	return &fakeStore{
		now:         time.Date(2024, 6, 3, 14, 30, 0, 0, time.UTC),
		trades:      map[int64]model.Trade{},
		tradeTypes:  map[string]model.TradeType{},
		accounts:    map[int64]model.AccountInfo{},
		balances:    map[int64]decimal.Decimal{},
		taxRates:    map[int64]decimal.Decimal{},
		securities:  map[string]model.Security{},
		tiers:       map[int64]int16{},
		summaries:   map[string]int32{},
		taxByTrade:  map[int64]decimal.Decimal{},
		finalized:   map[int64]finalizedTrade{},
		brokerComm:  map[int64]decimal.Decimal{},
		brokerCount: map[int64]int{},
	}
}

func posKey(acctID int64, symbol string) string {
	return fmt.Sprintf("%d|%s", acctID, symbol)
}

// addLot seeds an existing lot; each call gets a later dts.
func (f *fakeStore) addLot(tradeID, acctID int64, symbol string, qty int32, price decimal.Decimal) {
	f.lotSeq++
	f.lots = append(f.lots, fakeLot{
		acctID:  acctID,
		symbol:  symbol,
		dts:     f.now.Add(time.Duration(f.lotSeq-100) * time.Hour),
		seq:     f.lotSeq,
		Holding: model.Holding{TradeID: tradeID, Qty: qty, Price: price},
	})
}

// lotQtySum is the invariant check counterpart of the summary quantity.
func (f *fakeStore) lotQtySum(acctID int64, symbol string) int32 {
	var sum int32
	for _, l := range f.lots {
		if l.acctID == acctID && l.symbol == symbol {
			sum += l.Qty
		}
	}
	return sum
}

func (f *fakeStore) Now(ctx context.Context, tx pgx.Tx) (time.Time, error) {
	return f.now, nil
}

func (f *fakeStore) GetTrade(ctx context.Context, tx pgx.Tx, tradeID int64) (model.Trade, error) {
	t, ok := f.trades[tradeID]
	if !ok {
		return model.Trade{}, ledger.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) GetTradeType(ctx context.Context, tx pgx.Tx, typeID string) (model.TradeType, error) {
	tt, ok := f.tradeTypes[typeID]
	if !ok {
		return model.TradeType{}, ledger.ErrNotFound
	}
	return tt, nil
}

func (f *fakeStore) SetTradeTax(ctx context.Context, tx pgx.Tx, tradeID int64, tax decimal.Decimal) error {
	f.taxByTrade[tradeID] = tax
	return nil
}

func (f *fakeStore) FinalizeTrade(ctx context.Context, tx pgx.Tx, tradeID int64, commission decimal.Decimal, completedAt time.Time, statusID string, price decimal.Decimal) error {
	f.finalized[tradeID] = finalizedTrade{commission: commission, completedAt: completedAt, statusID: statusID, price: price}
	return nil
}

func (f *fakeStore) InsertTradeHistory(ctx context.Context, tx pgx.Tx, tradeID int64, dts time.Time, statusID string) error {
	f.tradeHist = append(f.tradeHist, tradeHistRow{tradeID: tradeID, dts: dts, statusID: statusID})
	return nil
}

func (f *fakeStore) AddBrokerCommission(ctx context.Context, tx pgx.Tx, brokerID int64, commission decimal.Decimal) error {
	f.brokerComm[brokerID] = f.brokerComm[brokerID].Add(commission)
	f.brokerCount[brokerID]++
	return nil
}

func (f *fakeStore) HoldingSummaryQty(ctx context.Context, tx pgx.Tx, acctID int64, symbol string) (int32, error) {
	return f.summaries[posKey(acctID, symbol)], nil
}

func (f *fakeStore) InsertHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, qty int32) error {
	f.summaries[posKey(acctID, symbol)] = qty
	return nil
}

func (f *fakeStore) UpdateHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, qty int32) error {
	f.summaries[posKey(acctID, symbol)] = qty
	return nil
}

func (f *fakeStore) DeleteHoldingSummary(ctx context.Context, tx pgx.Tx, acctID int64, symbol string) error {
	delete(f.summaries, posKey(acctID, symbol))
	return nil
}

func (f *fakeStore) HoldingsForUpdate(ctx context.Context, tx pgx.Tx, acctID int64, symbol string, lifo bool) ([]model.Holding, error) {
	var matched []fakeLot
	for _, l := range f.lots {
		if l.acctID == acctID && l.symbol == symbol {
			matched = append(matched, l)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].dts.Equal(matched[j].dts) {
			if lifo {
				return matched[i].seq > matched[j].seq
			}
			return matched[i].seq < matched[j].seq
		}
		if lifo {
			return matched[i].dts.After(matched[j].dts)
		}
		return matched[i].dts.Before(matched[j].dts)
	})
	out := make([]model.Holding, len(matched))
	for i, l := range matched {
		out[i] = l.Holding
	}
	return out, nil
}

func (f *fakeStore) InsertHoldingHistory(ctx context.Context, tx pgx.Tx, lotTradeID, tradeID int64, beforeQty, afterQty int32) error {
	f.history = append(f.history, historyRow{lotTradeID: lotTradeID, tradeID: tradeID, before: beforeQty, after: afterQty})
	return nil
}

func (f *fakeStore) UpdateHoldingQty(ctx context.Context, tx pgx.Tx, lotTradeID int64, qty int32) error {
	for i := range f.lots {
		if f.lots[i].TradeID == lotTradeID {
			f.lots[i].Qty = qty
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (f *fakeStore) DeleteHolding(ctx context.Context, tx pgx.Tx, lotTradeID int64) error {
	for i := range f.lots {
		if f.lots[i].TradeID == lotTradeID {
			f.lots = append(f.lots[:i], f.lots[i+1:]...)
			return nil
		}
	}
	return ledger.ErrNotFound
}

func (f *fakeStore) InsertHolding(ctx context.Context, tx pgx.Tx, tradeID, acctID int64, symbol string, dts time.Time, price decimal.Decimal, qty int32) error {
	f.lotSeq++
	f.lots = append(f.lots, fakeLot{
		acctID:  acctID,
		symbol:  symbol,
		dts:     dts,
		seq:     f.lotSeq,
		Holding: model.Holding{TradeID: tradeID, Qty: qty, Price: price},
	})
	return nil
}

func (f *fakeStore) LockAccount(ctx context.Context, tx pgx.Tx, acctID int64) (model.AccountInfo, error) {
	a, ok := f.accounts[acctID]
	if !ok {
		return model.AccountInfo{}, ledger.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) AddToAccountBalance(ctx context.Context, tx pgx.Tx, acctID int64, amount decimal.Decimal) error {
	f.balances[acctID] = f.balances[acctID].Add(amount)
	return nil
}

func (f *fakeStore) AccountBalance(ctx context.Context, tx pgx.Tx, acctID int64) (decimal.Decimal, error) {
	return f.balances[acctID], nil
}

func (f *fakeStore) SumTaxRates(ctx context.Context, tx pgx.Tx, custID int64) (decimal.Decimal, error) {
	return f.taxRates[custID], nil
}

func (f *fakeStore) GetSecurity(ctx context.Context, tx pgx.Tx, symbol string) (model.Security, error) {
	sec, ok := f.securities[symbol]
	if !ok {
		return model.Security{}, ledger.ErrNotFound
	}
	return sec, nil
}

func (f *fakeStore) CustomerTier(ctx context.Context, tx pgx.Tx, custID int64) (int16, error) {
	tier, ok := f.tiers[custID]
	if !ok {
		return 0, ledger.ErrNotFound
	}
	return tier, nil
}

func (f *fakeStore) CommissionRate(ctx context.Context, tx pgx.Tx, tier int16, typeID, exchangeID string, qty int32) (decimal.Decimal, error) {
	for _, b := range f.commBands {
		if b.tier == tier && b.typeID == typeID && b.exchangeID == exchangeID && b.fromQty <= qty && b.toQty >= qty {
			return b.rate, nil
		}
	}
	return decimal.Zero, ledger.ErrNotFound
}

func (f *fakeStore) InsertSettlement(ctx context.Context, tx pgx.Tx, tradeID int64, cashType types.CashType, dueDate time.Time, amount decimal.Decimal) error {
	f.settlements = append(f.settlements, settlementRow{tradeID: tradeID, cashType: cashType, dueDate: dueDate, amount: amount})
	return nil
}

func (f *fakeStore) InsertCashTransaction(ctx context.Context, tx pgx.Tx, dts time.Time, tradeID int64, amount decimal.Decimal, name string) error {
	f.cashTxns = append(f.cashTxns, cashTxnRow{dts: dts, tradeID: tradeID, amount: amount, name: name})
	return nil
}
