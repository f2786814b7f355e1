// Package debank contains RPC wrappers for DeBank contract.
package debank

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// DebankTransaction is a contract-specific debank.Transaction type used by its methods.
type DebankTransaction struct {
	ID *big.Int
	TxType string
	Amount *big.Int
	From util.Uint160
	To util.Uint160
	Timestamp *big.Int
}

// DebankSavings is a contract-specific debank.Savings type used by its methods.
type DebankSavings struct {
	ID *big.Int
	Amount *big.Int
	DurationMonths *big.Int
	Start *big.Int
}

// AccountOpenedEvent represents "AccountOpened" event emitted by the contract.
type AccountOpenedEvent struct {
	Account util.Uint160
}

// DepositedEvent represents "Deposited" event emitted by the contract.
type DepositedEvent struct {
	Account util.Uint160
	Amount *big.Int
	Balance *big.Int
}

// WithdrawnEvent represents "Withdrawn" event emitted by the contract.
type WithdrawnEvent struct {
	Account util.Uint160
	Amount *big.Int
	Balance *big.Int
}

// TransferredEvent represents "Transferred" event emitted by the contract.
type TransferredEvent struct {
	From util.Uint160
	To util.Uint160
	Amount *big.Int
	Fee *big.Int
}

// SavingsDepositedEvent represents "SavingsDeposited" event emitted by the contract.
type SavingsDepositedEvent struct {
	Account util.Uint160
	ID *big.Int
	Amount *big.Int
	DurationMonths *big.Int
}

// DailyTransferLimitUpdatedEvent represents "DailyTransferLimitUpdated" event emitted by the contract.
type DailyTransferLimitUpdatedEvent struct {
	Limit *big.Int
}

// TransferFeeRateUpdatedEvent represents "TransferFeeRateUpdated" event emitted by the contract.
type TransferFeeRateUpdatedEvent struct {
	Rate *big.Int
}

// FeeReceiverUpdatedEvent represents "FeeReceiverUpdated" event emitted by the contract.
type FeeReceiverUpdatedEvent struct {
	Receiver util.Uint160
}

// PausedEvent represents "Paused" event emitted by the contract.
type PausedEvent struct {
	Account util.Uint160
}

// UnpausedEvent represents "Unpaused" event emitted by the contract.
type UnpausedEvent struct {
	Account util.Uint160
}

// VNDTRecoveredEvent represents "VNDTRecovered" event emitted by the contract.
type VNDTRecoveredEvent struct {
	Account util.Uint160
	Amount *big.Int
}

// OwnershipTransferredEvent represents "OwnershipTransferred" event emitted by the contract.
type OwnershipTransferredEvent struct {
	PreviousOwner util.Uint160
	NewOwner util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Balances invokes `balances` method of contract.
func (c *ContractReader) Balances(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "balances", account))
}

// BankOwner invokes `bankOwner` method of contract.
func (c *ContractReader) BankOwner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "bankOwner"))
}

// DailyTransferLimit invokes `dailyTransferLimit` method of contract.
func (c *ContractReader) DailyTransferLimit() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "dailyTransferLimit"))
}

// FeeReceiver invokes `feeReceiver` method of contract.
func (c *ContractReader) FeeReceiver() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "feeReceiver"))
}

// GetAccountTransactionHistory invokes `getAccountTransactionHistory` method of contract.
func (c *ContractReader) GetAccountTransactionHistory(account util.Uint160) ([]*DebankTransaction, error) {
	return func (item stackitem.Item, err error) ([]*DebankTransaction, error) {
		if err != nil {
			return nil, err
		}
		return func (item stackitem.Item) ([]*DebankTransaction, error) {
			arr, ok := item.Value().([]stackitem.Item)
			if !ok {
				return nil, errors.New("not an array")
			}
			res := make([]*DebankTransaction, len(arr))
			for i := range res {
				res[i], err = itemToDebankTransaction(arr[i], nil)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
			}
			return res, nil
		} (item)
	} (unwrap.Item(c.invoker.Call(c.hash, "getAccountTransactionHistory", account)))
}

// GetBalance invokes `getBalance` method of contract.
func (c *ContractReader) GetBalance(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getBalance", account))
}

// GetDailyTransferredAmount invokes `getDailyTransferredAmount` method of contract.
func (c *ContractReader) GetDailyTransferredAmount(account util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getDailyTransferredAmount", account))
}

// GetSavings invokes `getSavings` method of contract.
func (c *ContractReader) GetSavings(account util.Uint160) ([]*DebankSavings, error) {
	return func (item stackitem.Item, err error) ([]*DebankSavings, error) {
		if err != nil {
			return nil, err
		}
		return func (item stackitem.Item) ([]*DebankSavings, error) {
			arr, ok := item.Value().([]stackitem.Item)
			if !ok {
				return nil, errors.New("not an array")
			}
			res := make([]*DebankSavings, len(arr))
			for i := range res {
				res[i], err = itemToDebankSavings(arr[i], nil)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
			}
			return res, nil
		} (item)
	} (unwrap.Item(c.invoker.Call(c.hash, "getSavings", account)))
}

// GetTransaction invokes `getTransaction` method of contract.
func (c *ContractReader) GetTransaction(id *big.Int) (*DebankTransaction, error) {
	return itemToDebankTransaction(unwrap.Item(c.invoker.Call(c.hash, "getTransaction", id)))
}

// IsAccount invokes `isAccount` method of contract.
func (c *ContractReader) IsAccount(account util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isAccount", account))
}

// IterateAccounts invokes `iterateAccounts` method of contract.
func (c *ContractReader) IterateAccounts() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateAccounts"))
}

// IterateAccountsExpanded is similar to IterateAccounts (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateAccountsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateAccounts", _numOfIteratorItems))
}

// Paused invokes `paused` method of contract.
func (c *ContractReader) Paused() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "paused"))
}

// TotalDeposits invokes `totalDeposits` method of contract.
func (c *ContractReader) TotalDeposits() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalDeposits"))
}

// TotalSavings invokes `totalSavings` method of contract.
func (c *ContractReader) TotalSavings() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "totalSavings"))
}

// TransactionCount invokes `transactionCount` method of contract.
func (c *ContractReader) TransactionCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "transactionCount"))
}

// TransferFeeRate invokes `transferFeeRate` method of contract.
func (c *ContractReader) TransferFeeRate() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "transferFeeRate"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// VndToken invokes `vndToken` method of contract.
func (c *ContractReader) VndToken() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "vndToken"))
}

// Deposit creates a transaction invoking `deposit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deposit(from util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deposit", from, amount)
}

// DepositTransaction creates a transaction invoking `deposit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositTransaction(from util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deposit", from, amount)
}

// DepositUnsigned creates a transaction invoking `deposit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositUnsigned(from util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deposit", nil, from, amount)
}

// DepositSavings creates a transaction invoking `depositSavings` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DepositSavings(from util.Uint160, amount *big.Int, durationMonths *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "depositSavings", from, amount, durationMonths)
}

// DepositSavingsTransaction creates a transaction invoking `depositSavings` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositSavingsTransaction(from util.Uint160, amount *big.Int, durationMonths *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "depositSavings", from, amount, durationMonths)
}

// DepositSavingsUnsigned creates a transaction invoking `depositSavings` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositSavingsUnsigned(from util.Uint160, amount *big.Int, durationMonths *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "depositSavings", nil, from, amount, durationMonths)
}

// Pause creates a transaction invoking `pause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Pause() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "pause")
}

// PauseTransaction creates a transaction invoking `pause` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PauseTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "pause")
}

// PauseUnsigned creates a transaction invoking `pause` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PauseUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "pause", nil)
}

// RecoverVNDT creates a transaction invoking `recoverVNDT` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RecoverVNDT(amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "recoverVNDT", amount)
}

// RecoverVNDTTransaction creates a transaction invoking `recoverVNDT` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RecoverVNDTTransaction(amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "recoverVNDT", amount)
}

// RecoverVNDTUnsigned creates a transaction invoking `recoverVNDT` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RecoverVNDTUnsigned(amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "recoverVNDT", nil, amount)
}

// SetDailyTransferLimit creates a transaction invoking `setDailyTransferLimit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetDailyTransferLimit(limit *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setDailyTransferLimit", limit)
}

// SetDailyTransferLimitTransaction creates a transaction invoking `setDailyTransferLimit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetDailyTransferLimitTransaction(limit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setDailyTransferLimit", limit)
}

// SetDailyTransferLimitUnsigned creates a transaction invoking `setDailyTransferLimit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetDailyTransferLimitUnsigned(limit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setDailyTransferLimit", nil, limit)
}

// SetFeeReceiver creates a transaction invoking `setFeeReceiver` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetFeeReceiver(receiver util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setFeeReceiver", receiver)
}

// SetFeeReceiverTransaction creates a transaction invoking `setFeeReceiver` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetFeeReceiverTransaction(receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setFeeReceiver", receiver)
}

// SetFeeReceiverUnsigned creates a transaction invoking `setFeeReceiver` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetFeeReceiverUnsigned(receiver util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setFeeReceiver", nil, receiver)
}

// SetTransferFeeRate creates a transaction invoking `setTransferFeeRate` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetTransferFeeRate(rate *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setTransferFeeRate", rate)
}

// SetTransferFeeRateTransaction creates a transaction invoking `setTransferFeeRate` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetTransferFeeRateTransaction(rate *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setTransferFeeRate", rate)
}

// SetTransferFeeRateUnsigned creates a transaction invoking `setTransferFeeRate` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetTransferFeeRateUnsigned(rate *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setTransferFeeRate", nil, rate)
}

// Transfer creates a transaction invoking `transfer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Transfer(from util.Uint160, to util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transfer", from, to, amount)
}

// TransferTransaction creates a transaction invoking `transfer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferTransaction(from util.Uint160, to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transfer", from, to, amount)
}

// TransferUnsigned creates a transaction invoking `transfer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferUnsigned(from util.Uint160, to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transfer", nil, from, to, amount)
}

// TransferOwnership creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferOwnership(newOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferOwnership", newOwner)
}

// TransferOwnershipTransaction creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferOwnershipTransaction(newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferOwnership", newOwner)
}

// TransferOwnershipUnsigned creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferOwnershipUnsigned(newOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferOwnership", nil, newOwner)
}

// Unpause creates a transaction invoking `unpause` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Unpause() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "unpause")
}

// UnpauseTransaction creates a transaction invoking `unpause` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UnpauseTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "unpause")
}

// UnpauseUnsigned creates a transaction invoking `unpause` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UnpauseUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "unpause", nil)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// Withdraw creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Withdraw(to util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdraw", to, amount)
}

// WithdrawTransaction creates a transaction invoking `withdraw` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawTransaction(to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdraw", to, amount)
}

// WithdrawUnsigned creates a transaction invoking `withdraw` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawUnsigned(to util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdraw", nil, to, amount)
}

// itemToDebankTransaction converts stack item into *DebankTransaction.
func itemToDebankTransaction(item stackitem.Item, err error) (*DebankTransaction, error) {
	if err != nil {
		return nil, err
	}
	var res = new(DebankTransaction)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of DebankTransaction from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *DebankTransaction) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.TxType, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field TxType: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.From, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	res.To, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	return nil
}

// itemToDebankSavings converts stack item into *DebankSavings.
func itemToDebankSavings(item stackitem.Item, err error) (*DebankSavings, error) {
	if err != nil {
		return nil, err
	}
	var res = new(DebankSavings)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of DebankSavings from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *DebankSavings) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	res.DurationMonths, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field DurationMonths: %w", err)
	}

	index++
	res.Start, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Start: %w", err)
	}

	return nil
}

// AccountOpenedEventsFromApplicationLog retrieves a set of all emitted events
// with "AccountOpened" name from the provided [result.ApplicationLog].
func AccountOpenedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AccountOpenedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AccountOpenedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AccountOpened" {
				continue
			}
			event := new(AccountOpenedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AccountOpenedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AccountOpenedEvent or
// returns an error if it's not possible to do to so.
func (e *AccountOpenedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	return nil
}

// DepositedEventsFromApplicationLog retrieves a set of all emitted events
// with "Deposited" name from the provided [result.ApplicationLog].
func DepositedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Deposited" {
				continue
			}
			event := new(DepositedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositedEvent or
// returns an error if it's not possible to do to so.
func (e *DepositedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	e.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	return nil
}

// WithdrawnEventsFromApplicationLog retrieves a set of all emitted events
// with "Withdrawn" name from the provided [result.ApplicationLog].
func WithdrawnEventsFromApplicationLog(log *result.ApplicationLog) ([]*WithdrawnEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*WithdrawnEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Withdrawn" {
				continue
			}
			event := new(WithdrawnEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize WithdrawnEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to WithdrawnEvent or
// returns an error if it's not possible to do to so.
func (e *WithdrawnEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	e.Balance, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Balance: %w", err)
	}

	return nil
}

// TransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "Transferred" name from the provided [result.ApplicationLog].
func TransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Transferred" {
				continue
			}
			event := new(TransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferredEvent or
// returns an error if it's not possible to do to so.
func (e *TransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.From, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field From: %w", err)
	}

	index++
	e.To, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field To: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// SavingsDepositedEventsFromApplicationLog retrieves a set of all emitted events
// with "SavingsDeposited" name from the provided [result.ApplicationLog].
func SavingsDepositedEventsFromApplicationLog(log *result.ApplicationLog) ([]*SavingsDepositedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*SavingsDepositedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "SavingsDeposited" {
				continue
			}
			event := new(SavingsDepositedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize SavingsDepositedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to SavingsDepositedEvent or
// returns an error if it's not possible to do to so.
func (e *SavingsDepositedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	e.DurationMonths, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field DurationMonths: %w", err)
	}

	return nil
}

// DailyTransferLimitUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "DailyTransferLimitUpdated" name from the provided [result.ApplicationLog].
func DailyTransferLimitUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DailyTransferLimitUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DailyTransferLimitUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DailyTransferLimitUpdated" {
				continue
			}
			event := new(DailyTransferLimitUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DailyTransferLimitUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DailyTransferLimitUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *DailyTransferLimitUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Limit, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Limit: %w", err)
	}

	return nil
}

// TransferFeeRateUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "TransferFeeRateUpdated" name from the provided [result.ApplicationLog].
func TransferFeeRateUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*TransferFeeRateUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*TransferFeeRateUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "TransferFeeRateUpdated" {
				continue
			}
			event := new(TransferFeeRateUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize TransferFeeRateUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to TransferFeeRateUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *TransferFeeRateUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Rate, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Rate: %w", err)
	}

	return nil
}

// FeeReceiverUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "FeeReceiverUpdated" name from the provided [result.ApplicationLog].
func FeeReceiverUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*FeeReceiverUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*FeeReceiverUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "FeeReceiverUpdated" {
				continue
			}
			event := new(FeeReceiverUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize FeeReceiverUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to FeeReceiverUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *FeeReceiverUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Receiver, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Receiver: %w", err)
	}

	return nil
}

// PausedEventsFromApplicationLog retrieves a set of all emitted events
// with "Paused" name from the provided [result.ApplicationLog].
func PausedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PausedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PausedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Paused" {
				continue
			}
			event := new(PausedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PausedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PausedEvent or
// returns an error if it's not possible to do to so.
func (e *PausedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	return nil
}

// UnpausedEventsFromApplicationLog retrieves a set of all emitted events
// with "Unpaused" name from the provided [result.ApplicationLog].
func UnpausedEventsFromApplicationLog(log *result.ApplicationLog) ([]*UnpausedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UnpausedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Unpaused" {
				continue
			}
			event := new(UnpausedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UnpausedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UnpausedEvent or
// returns an error if it's not possible to do to so.
func (e *UnpausedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	return nil
}

// VNDTRecoveredEventsFromApplicationLog retrieves a set of all emitted events
// with "VNDTRecovered" name from the provided [result.ApplicationLog].
func VNDTRecoveredEventsFromApplicationLog(log *result.ApplicationLog) ([]*VNDTRecoveredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*VNDTRecoveredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "VNDTRecovered" {
				continue
			}
			event := new(VNDTRecoveredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize VNDTRecoveredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to VNDTRecoveredEvent or
// returns an error if it's not possible to do to so.
func (e *VNDTRecoveredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Account, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Account: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// OwnershipTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnershipTransferred" name from the provided [result.ApplicationLog].
func OwnershipTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnershipTransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OwnershipTransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OwnershipTransferred" {
				continue
			}
			event := new(OwnershipTransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OwnershipTransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OwnershipTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *OwnershipTransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.PreviousOwner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field PreviousOwner: %w", err)
	}

	index++
	e.NewOwner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field NewOwner: %w", err)
	}

	return nil
}
