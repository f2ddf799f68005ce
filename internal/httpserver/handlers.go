package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"traderesult/internal/httputil"
	"traderesult/internal/ledger"
	"traderesult/internal/traderesult"
	"traderesult/internal/types"
)

// Handler exposes each frame as an RPC-style endpoint plus the
// whole-trade run. Single-frame calls commit in their own transaction;
// the run endpoint is one atomic unit.
type Handler struct {
	svc       *traderesult.Service
	jwtSecret string
	jwtTTL    time.Duration
}

func NewHandler(svc *traderesult.Service, jwtSecret string, jwtTTL time.Duration) *Handler {
	return &Handler{svc: svc, jwtSecret: jwtSecret, jwtTTL: jwtTTL}
}

// Token exchanges the internal shared token (checked by middleware) for
// a short-lived bearer token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "driver",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.jwtTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "token signing failed"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"token": signed})
}

type frame1Request struct {
	TradeID int64 `json:"trade_id"`
}

func (h *Handler) Frame1(w http.ResponseWriter, r *http.Request) {
	var req frame1Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	var out traderesult.Frame1Result
	err := h.svc.InTx(r.Context(), func(tx pgx.Tx) error {
		var err error
		out, err = h.svc.Frame1(r.Context(), tx, req.TradeID)
		return err
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type frame2Request struct {
	AccountID  int64           `json:"acct_id"`
	HoldingQty int32           `json:"hs_qty"`
	IsLIFO     bool            `json:"is_lifo"`
	Symbol     string          `json:"symbol"`
	TradeID    int64           `json:"trade_id"`
	TradePrice decimal.Decimal `json:"trade_price"`
	TradeQty   int32           `json:"trade_qty"`
	TypeIsSell bool            `json:"type_is_sell"`
}

func (h *Handler) Frame2(w http.ResponseWriter, r *http.Request) {
	var req frame2Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	in := traderesult.Frame2Input{
		AccountID:  req.AccountID,
		HoldingQty: req.HoldingQty,
		IsLIFO:     req.IsLIFO,
		Symbol:     req.Symbol,
		TradeID:    req.TradeID,
		TradePrice: req.TradePrice,
		TradeQty:   req.TradeQty,
		Direction:  types.DirectionFromSellFlag(req.TypeIsSell),
	}
	var out traderesult.Frame2Result
	err := h.svc.InTx(r.Context(), func(tx pgx.Tx) error {
		var err error
		out, err = h.svc.Frame2(r.Context(), tx, in)
		return err
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type frame3Request struct {
	BuyValue  decimal.Decimal `json:"buy_value"`
	CustID    int64           `json:"cust_id"`
	SellValue decimal.Decimal `json:"sell_value"`
	TradeID   int64           `json:"trade_id"`
}

func (h *Handler) Frame3(w http.ResponseWriter, r *http.Request) {
	var req frame3Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	var tax decimal.Decimal
	err := h.svc.InTx(r.Context(), func(tx pgx.Tx) error {
		var err error
		tax, err = h.svc.Frame3(r.Context(), tx, req.BuyValue, req.CustID, req.SellValue, req.TradeID)
		return err
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]decimal.Decimal{"tax_amount": tax})
}

type frame4Request struct {
	CustID   int64  `json:"cust_id"`
	Symbol   string `json:"symbol"`
	TradeQty int32  `json:"trade_qty"`
	TypeID   string `json:"type_id"`
}

func (h *Handler) Frame4(w http.ResponseWriter, r *http.Request) {
	var req frame4Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	var out traderesult.Frame4Result
	err := h.svc.InTx(r.Context(), func(tx pgx.Tx) error {
		var err error
		out, err = h.svc.Frame4(r.Context(), tx, req.CustID, req.Symbol, req.TradeQty, req.TypeID)
		return err
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Frame5(w http.ResponseWriter, r *http.Request) {
	var in traderesult.Frame5Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	err := h.svc.InTx(r.Context(), func(tx pgx.Tx) error {
		return h.svc.Frame5(r.Context(), tx, in)
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"status": 0})
}

func (h *Handler) Frame6(w http.ResponseWriter, r *http.Request) {
	var in traderesult.Frame6Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	var bal decimal.Decimal
	err := h.svc.InTx(r.Context(), func(tx pgx.Tx) error {
		var err error
		bal, err = h.svc.Frame6(r.Context(), tx, in)
		return err
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]decimal.Decimal{"acct_bal": bal})
}

type runRequest struct {
	TradePrice decimal.Decimal `json:"trade_price"`
	DueDate    time.Time       `json:"due_date"`
}

func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	tradeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid trade id"})
		return
	}
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid body"})
		return
	}
	out, err := h.svc.Run(r.Context(), traderesult.RunInput{
		TradeID:    tradeID,
		TradePrice: req.TradePrice,
		DueDate:    req.DueDate,
	})
	if err != nil {
		writeFrameError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func writeFrameError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ledger.ErrNotFound) || errors.Is(err, traderesult.ErrTradeNotFound) {
		status = http.StatusNotFound
	}
	httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: err.Error()})
}
