// Package audit reconciles DeBank ledger balances with its totals and the
// VNDT held by the contract.
package audit

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Ledger is a part of debank.ContractReader used for reconciliation.
type Ledger interface {
	TotalDeposits() (*big.Int, error)
	TotalSavings() (*big.Int, error)
	IterateAccountsExpanded(n int) ([]stackitem.Item, error)
}

// Token is a part of NEP-17 reader used for reconciliation.
type Token interface {
	BalanceOf(account util.Uint160) (*big.Int, error)
}

// Report is the result of ledger reconciliation.
type Report struct {
	// Accounts is a number of open accounts, emptied ones included.
	Accounts      int
	SumBalances   *big.Int
	TotalDeposits *big.Int
	TotalSavings  *big.Int
	// Custody is VNDT balance of the ledger contract.
	Custody *big.Int
}

// Consistent reports whether account balances sum up to total deposits.
func (r Report) Consistent() bool {
	return r.SumBalances.Cmp(r.TotalDeposits) == 0
}

// Surplus returns custody minus deposits and savings. Negative value means
// the owner recovered tokens owed to depositors.
func (r Report) Surplus() *big.Int {
	owed := new(big.Int).Add(r.TotalDeposits, r.TotalSavings)
	return owed.Sub(r.Custody, owed)
}

// ErrTooManyAccounts is returned when the ledger has more accounts than
// requested to be checked.
var ErrTooManyAccounts = errors.New("too many accounts")

// Run reads all ledger accounts (at most maxAccounts) and totals.
func Run(l Ledger, ledgerHash util.Uint160, t Token, maxAccounts int) (Report, error) {
	var (
		r   = Report{SumBalances: new(big.Int)}
		err error
	)

	// one more item tells that the limit is exceeded
	items, err := l.IterateAccountsExpanded(maxAccounts + 1)
	if err != nil {
		return r, fmt.Errorf("iterate accounts: %w", err)
	}

	if len(items) > maxAccounts {
		return r, fmt.Errorf("%w: more than %d", ErrTooManyAccounts, maxAccounts)
	}

	for i := range items {
		bal, err := accountBalance(items[i])
		if err != nil {
			return r, fmt.Errorf("account #%d: %w", i, err)
		}

		r.SumBalances.Add(r.SumBalances, bal)
	}

	r.Accounts = len(items)

	if r.TotalDeposits, err = l.TotalDeposits(); err != nil {
		return r, fmt.Errorf("read total deposits: %w", err)
	}
	if r.TotalSavings, err = l.TotalSavings(); err != nil {
		return r, fmt.Errorf("read total savings: %w", err)
	}
	if r.Custody, err = t.BalanceOf(ledgerHash); err != nil {
		return r, fmt.Errorf("read ledger VNDT balance: %w", err)
	}

	return r, nil
}

// accountBalance decodes iterator item: the struct of account hash and its
// balance in storage form.
func accountBalance(item stackitem.Item) (*big.Int, error) {
	kv, ok := item.Value().([]stackitem.Item)
	if !ok || len(kv) != 2 {
		return nil, errors.New("not a key-value struct")
	}

	key, err := kv[0].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("key: %w", err)
	}

	_, err = util.Uint160DecodeBytesBE(key)
	if err != nil {
		return nil, fmt.Errorf("account hash: %w", err)
	}

	val, err := kv[1].TryBytes()
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	return bigint.FromBytes(val), nil
}
