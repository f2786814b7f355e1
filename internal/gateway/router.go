package gateway

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/debank-vn/debank-contract/internal/observability"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const maxPageSize = 100

// NewRouter creates HTTP router of the gateway. defaultPageSize is used
// for history requests without page_size.
func NewRouter(svc *Service, metrics *observability.Metrics, logger *zap.Logger, defaultPageSize int) http.Handler {
	if defaultPageSize <= 0 || defaultPageSize > maxPageSize {
		defaultPageSize = 20
	}

	h := handler{svc: svc, log: logger, pageSize: defaultPageSize}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/config", h.config)

		r.Route("/accounts/{address}", func(r chi.Router) {
			r.Get("/", h.account)
			r.Get("/history", h.history)
			r.Get("/savings", h.savings)
		})
	})

	return r
}

type handler struct {
	svc      *Service
	log      *zap.Logger
	pageSize int
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleReaderError maps ledger read failures to HTTP responses.
func (h handler) handleReaderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		h.log.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "ledger node unavailable")
	default:
		h.log.Error("ledger read failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func parseAccount(r *http.Request) (util.Uint160, error) {
	return address.StringToUint160(chi.URLParam(r, "address"))
}

func (h handler) parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = h.pageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= maxPageSize {
			pageSize = ps
		}
	}
	return
}

// amount is an integer token amount with its decimal representation.
type amount struct {
	Raw  string `json:"raw"`
	VNDT string `json:"vndt"`
}

func newAmount(v *big.Int) amount {
	if v == nil {
		v = new(big.Int)
	}
	return amount{Raw: v.String(), VNDT: fixedn.ToString(v, vndtconst.Decimals)}
}

func addressOf(h util.Uint160) string {
	return address.Uint160ToString(h)
}

func (h handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"breaker": h.svc.State(),
	})
}

type configResponse struct {
	Owner              string `json:"owner"`
	Token              string `json:"token"`
	FeeReceiver        string `json:"fee_receiver"`
	DailyTransferLimit amount `json:"daily_transfer_limit"`
	TransferFeeRate    int64  `json:"transfer_fee_rate_bp"`
	Paused             bool   `json:"paused"`
	TotalDeposits      amount `json:"total_deposits"`
	TotalSavings       amount `json:"total_savings"`
	TransactionCount   int64  `json:"transaction_count"`
	Version            int64  `json:"version"`
}

func (h handler) config(w http.ResponseWriter, _ *http.Request) {
	c, err := h.svc.Config()
	if err != nil {
		h.handleReaderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		Owner:              addressOf(c.Owner),
		Token:              c.Token.StringLE(),
		FeeReceiver:        addressOf(c.FeeReceiver),
		DailyTransferLimit: newAmount(c.DailyTransferLimit),
		TransferFeeRate:    c.TransferFeeRate.Int64(),
		Paused:             c.Paused,
		TotalDeposits:      newAmount(c.TotalDeposits),
		TotalSavings:       newAmount(c.TotalSavings),
		TransactionCount:   c.TransactionCount.Int64(),
		Version:            c.Version.Int64(),
	})
}

type accountResponse struct {
	Address          string `json:"address"`
	Exists           bool   `json:"exists"`
	Balance          amount `json:"balance"`
	DailyTransferred amount `json:"daily_transferred"`
}

func (h handler) account(w http.ResponseWriter, r *http.Request) {
	acc, err := parseAccount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	a, err := h.svc.Account(acc)
	if err != nil {
		h.handleReaderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		Address:          addressOf(a.Address),
		Exists:           a.Exists,
		Balance:          newAmount(a.Balance),
		DailyTransferred: newAmount(a.DailyTransferred),
	})
}

type transactionResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Amount    amount `json:"amount"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp int64  `json:"timestamp"`
}

type historyResponse struct {
	Items    []transactionResponse `json:"items"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Total    int                   `json:"total"`
}

func newTransactionResponse(tx *debank.DebankTransaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID.Int64(),
		Type:      tx.TxType,
		Amount:    newAmount(tx.Amount),
		From:      addressOf(tx.From),
		To:        addressOf(tx.To),
		Timestamp: tx.Timestamp.Int64(),
	}
}

func (h handler) history(w http.ResponseWriter, r *http.Request) {
	acc, err := parseAccount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	page, pageSize := h.parsePagination(r)

	list, total, err := h.svc.History(acc, page, pageSize)
	if err != nil {
		h.handleReaderError(w, err)
		return
	}

	resp := historyResponse{
		Items:    make([]transactionResponse, 0, len(list)),
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
	for _, tx := range list {
		resp.Items = append(resp.Items, newTransactionResponse(tx))
	}

	writeJSON(w, http.StatusOK, resp)
}

type savingsResponse struct {
	ID             int64  `json:"id"`
	Amount         amount `json:"amount"`
	DurationMonths int64  `json:"duration_months"`
	Start          int64  `json:"start"`
}

func (h handler) savings(w http.ResponseWriter, r *http.Request) {
	acc, err := parseAccount(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}

	list, err := h.svc.Savings(acc)
	if err != nil {
		h.handleReaderError(w, err)
		return
	}

	resp := make([]savingsResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, savingsResponse{
			ID:             s.ID.Int64(),
			Amount:         newAmount(s.Amount),
			DurationMonths: s.DurationMonths.Int64(),
			Start:          s.Start.Int64(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
