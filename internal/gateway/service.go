// Package gateway serves read-only DeBank ledger state over HTTP.
package gateway

import (
	"fmt"
	"math/big"
	"time"

	"github.com/debank-vn/debank-contract/internal/observability"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/sony/gobreaker"
)

// LedgerReader is the subset of DeBank safe methods used by the gateway.
// It's implemented by debank.ContractReader.
type LedgerReader interface {
	BankOwner() (util.Uint160, error)
	VndToken() (util.Uint160, error)
	FeeReceiver() (util.Uint160, error)
	DailyTransferLimit() (*big.Int, error)
	TransferFeeRate() (*big.Int, error)
	Paused() (bool, error)
	TotalDeposits() (*big.Int, error)
	TotalSavings() (*big.Int, error)
	TransactionCount() (*big.Int, error)
	Version() (*big.Int, error)

	IsAccount(account util.Uint160) (bool, error)
	GetBalance(account util.Uint160) (*big.Int, error)
	GetDailyTransferredAmount(account util.Uint160) (*big.Int, error)
	GetAccountTransactionHistory(account util.Uint160) ([]*debank.DebankTransaction, error)
	GetSavings(account util.Uint160) ([]*debank.DebankSavings, error)
}

// Service wraps LedgerReader calls with a circuit breaker and metrics.
type Service struct {
	reader  LedgerReader
	cb      *gobreaker.CircuitBreaker
	metrics *observability.Metrics
}

// NewService creates Service reading ledger state via r.
func NewService(r LedgerReader, metrics *observability.Metrics) *Service {
	return &Service{
		reader:  r,
		cb:      newCircuitBreaker("debank-rpc"),
		metrics: metrics,
	}
}

// newCircuitBreaker opens after at least 5 requests with 60% failures and
// probes the node again in 10 seconds.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

func call[T any](s *Service, method string, f func() (T, error)) (T, error) {
	start := time.Now()

	res, err := s.cb.Execute(func() (any, error) {
		return f()
	})

	s.metrics.ObserveRPC(method, time.Since(start).Seconds())

	if err != nil {
		s.metrics.IncrRPCError(method)

		var zero T
		return zero, fmt.Errorf("%s: %w", method, err)
	}

	return res.(T), nil
}

// State returns current breaker state name.
func (s *Service) State() string {
	return s.cb.State().String()
}

// LedgerConfig describes global ledger settings.
type LedgerConfig struct {
	Owner              util.Uint160
	Token              util.Uint160
	FeeReceiver        util.Uint160
	DailyTransferLimit *big.Int
	TransferFeeRate    *big.Int
	Paused             bool
	TotalDeposits      *big.Int
	TotalSavings       *big.Int
	TransactionCount   *big.Int
	Version            *big.Int
}

// Config reads global ledger settings.
func (s *Service) Config() (LedgerConfig, error) {
	var (
		c   LedgerConfig
		err error
	)

	if c.Owner, err = call(s, "bankOwner", s.reader.BankOwner); err != nil {
		return c, err
	}
	if c.Token, err = call(s, "vndToken", s.reader.VndToken); err != nil {
		return c, err
	}
	if c.FeeReceiver, err = call(s, "feeReceiver", s.reader.FeeReceiver); err != nil {
		return c, err
	}
	if c.DailyTransferLimit, err = call(s, "dailyTransferLimit", s.reader.DailyTransferLimit); err != nil {
		return c, err
	}
	if c.TransferFeeRate, err = call(s, "transferFeeRate", s.reader.TransferFeeRate); err != nil {
		return c, err
	}
	if c.Paused, err = call(s, "paused", s.reader.Paused); err != nil {
		return c, err
	}
	if c.TotalDeposits, err = call(s, "totalDeposits", s.reader.TotalDeposits); err != nil {
		return c, err
	}
	if c.TotalSavings, err = call(s, "totalSavings", s.reader.TotalSavings); err != nil {
		return c, err
	}
	if c.TransactionCount, err = call(s, "transactionCount", s.reader.TransactionCount); err != nil {
		return c, err
	}
	if c.Version, err = call(s, "version", s.reader.Version); err != nil {
		return c, err
	}

	return c, nil
}

// Account describes ledger account state.
type Account struct {
	Address          util.Uint160
	Exists           bool
	Balance          *big.Int
	DailyTransferred *big.Int
}

// Account reads account state. Unknown accounts have zero balances.
func (s *Service) Account(acc util.Uint160) (Account, error) {
	var (
		a   = Account{Address: acc}
		err error
	)

	if a.Exists, err = call(s, "isAccount", func() (bool, error) { return s.reader.IsAccount(acc) }); err != nil {
		return a, err
	}
	if a.Balance, err = call(s, "getBalance", func() (*big.Int, error) { return s.reader.GetBalance(acc) }); err != nil {
		return a, err
	}
	if a.DailyTransferred, err = call(s, "getDailyTransferredAmount", func() (*big.Int, error) {
		return s.reader.GetDailyTransferredAmount(acc)
	}); err != nil {
		return a, err
	}

	return a, nil
}

// History returns the page of account history ordered from the newest
// record, pages start from 1. The second value is the full history length.
func (s *Service) History(acc util.Uint160, page, pageSize int) ([]*debank.DebankTransaction, int, error) {
	list, err := call(s, "getAccountTransactionHistory", func() ([]*debank.DebankTransaction, error) {
		return s.reader.GetAccountTransactionHistory(acc)
	})
	if err != nil {
		return nil, 0, err
	}

	total := len(list)

	if page < 1 || pageSize < 1 || total == 0 || page-1 > (total-1)/pageSize {
		return []*debank.DebankTransaction{}, total, nil
	}

	from := (page - 1) * pageSize
	if from >= total {
		return []*debank.DebankTransaction{}, total, nil
	}

	to := from + pageSize
	if to > total {
		to = total
	}

	res := make([]*debank.DebankTransaction, 0, to-from)
	for i := total - 1 - from; i >= total-to; i-- {
		res = append(res, list[i])
	}

	return res, total, nil
}

// Savings returns savings deposits of the account.
func (s *Service) Savings(acc util.Uint160) ([]*debank.DebankSavings, error) {
	return call(s, "getSavings", func() ([]*debank.DebankSavings, error) {
		return s.reader.GetSavings(acc)
	})
}
