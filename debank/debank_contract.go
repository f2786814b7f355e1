package debank

import (
	"github.com/debank-vn/debank-contract/common"
	"github.com/debank-vn/debank-contract/contracts/debank/debankconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Transaction is a record of account history.
	Transaction struct {
		ID     int
		TxType string
		Amount int
		From   interop.Hash160
		To     interop.Hash160
		// Block time in seconds
		Timestamp int
	}

	// DailyTracker holds the amount sent by the account during the day.
	DailyTracker struct {
		Amount int
		// Number of days since Unix epoch
		Day int
	}

	// Savings is a term deposit of the account.
	Savings struct {
		ID             int
		Amount         int
		DurationMonths int
		// Block time in seconds
		Start int
	}
)

const (
	ownerKey         = 'o'
	tokenKey         = 't'
	limitKey         = 'l'
	feeRateKey       = 'f'
	feeReceiverKey   = 'r'
	pausedKey        = 'p'
	totalDepositsKey = 'd'
	lastTxIDKey      = 'n'
	lastSavingsIDKey = 'v'
	totalSavingsKey  = 'w'

	balancePrefix = 'a'
	existsPrefix  = 'e'
	trackerPrefix = 'q'
	txPrefix      = 'x'
	historyPrefix = 'h'
	savingsPrefix = 's'
)

func _deploy(data interface{}, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		token interop.Hash160
		owner interop.Hash160
	})

	if common.IsNull(args.token) {
		panic(debankconst.ErrInvalidToken)
	}

	owner := args.owner
	if owner == nil {
		owner = common.TransactionSender()
	}
	if common.IsNull(owner) {
		panic(debankconst.ErrInvalidOwner)
	}

	factor := debankconst.TokenDecimalsFactor

	storage.Put(ctx, tokenKey, args.token)
	storage.Put(ctx, ownerKey, owner)
	storage.Put(ctx, limitKey, debankconst.DefaultDailyTransferLimitTokens*factor)
	storage.Put(ctx, feeRateKey, debankconst.DefaultTransferFeeRate)
	storage.Put(ctx, feeReceiverKey, owner)

	runtime.Log("DeBank contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the bank owner.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	checkBankOwner(ctx)

	common.UpdateContract(script, manifest, data)
	runtime.Log("DeBank contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Only VNDT is accepted. Tokens that arrive outside of Deposit are not
// credited to any account.
func OnNEP17Payment(from interop.Hash160, amount int, data interface{}) {
	ctx := storage.GetReadOnlyContext()

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(getToken(ctx)) {
		panic(debankconst.ErrOnlyTokenAccepted)
	}
}

// Deposit moves amount of VNDT tokens from the account to the ledger and
// credits the account balance. The account must approve the amount for the
// ledger in VNDT contract before the call. The first deposit opens the
// account.
func Deposit(from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkNotPaused(ctx)

	if amount <= 0 {
		panic(debankconst.ErrZeroDeposit)
	}

	common.CheckWitness(from)

	self := runtime.GetExecutingScriptHash()
	pull(ctx, from, amount)

	opened := openAccount(ctx, from)
	balance := balanceOf(ctx, from) + amount
	storage.Put(ctx, balanceKey(from), balance)
	addTotalDeposits(ctx, amount)

	appendRecord(ctx, from, debankconst.TxDeposit, amount, from, self)

	if opened {
		runtime.Notify("AccountOpened", from)
	}
	runtime.Notify("Deposited", from, amount, balance)
}

// Withdraw debits the account balance and sends amount of VNDT tokens back
// to the account.
func Withdraw(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkNotPaused(ctx)

	if amount <= 0 {
		panic(debankconst.ErrZeroWithdraw)
	}

	common.CheckWitness(to)

	if !isAccount(ctx, to) {
		panic(debankconst.ErrAccountNotExist)
	}

	balance := balanceOf(ctx, to)
	if balance < amount {
		panic(debankconst.ErrInsufficientBalance)
	}

	balance -= amount
	storage.Put(ctx, balanceKey(to), balance)
	addTotalDeposits(ctx, -amount)

	payOut(ctx, to, amount)

	appendRecord(ctx, to, debankconst.TxWithdraw, amount, runtime.GetExecutingScriptHash(), to)

	runtime.Notify("Withdrawn", to, amount, balance)
}

// Transfer moves amount from one ledger account to another. Transfer fee is
// charged from the amount and sent to the fee receiver in VNDT tokens. The
// whole amount counts towards sender's daily transfer limit.
func Transfer(from, to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkNotPaused(ctx)

	if amount <= 0 {
		panic(debankconst.ErrZeroTransfer)
	}
	if from.Equals(to) {
		panic(debankconst.ErrSelfTransfer)
	}
	if common.IsNull(to) {
		panic(debankconst.ErrInvalidRecipient)
	}

	common.CheckWitness(from)

	fromBalance := balanceOf(ctx, from)
	if fromBalance < amount {
		panic(debankconst.ErrInsufficientBalance)
	}

	now := runtime.GetTime()
	day := dayOf(now)
	spent := effectiveAmount(getTracker(ctx, from), day) + amount
	if spent > common.GetInt(ctx, limitKey) {
		panic(debankconst.ErrDailyLimitExceeded)
	}

	fee := amount * common.GetInt(ctx, feeRateKey) / debankconst.FeeRateDenominator
	net := amount - fee

	storage.Put(ctx, balanceKey(from), fromBalance-amount)

	opened := openAccount(ctx, to)
	storage.Put(ctx, balanceKey(to), balanceOf(ctx, to)+net)

	if fee > 0 {
		addTotalDeposits(ctx, -fee)
		payOut(ctx, getFeeReceiver(ctx), fee)
	}

	common.SetSerialized(ctx, trackerKey(from), DailyTracker{
		Amount: spent,
		Day:    day,
	})

	appendRecord(ctx, from, debankconst.TxTransferOut, amount, from, to)
	appendRecord(ctx, to, debankconst.TxTransferIn, net, from, to)

	if opened {
		runtime.Notify("AccountOpened", to)
	}
	runtime.Notify("Transferred", from, to, amount, fee)
}

// DepositSavings moves amount of VNDT tokens from the account to the ledger
// as a term deposit. Savings are kept apart from the spendable balance.
func DepositSavings(from interop.Hash160, amount int, durationMonths int) {
	ctx := storage.GetContext()
	checkNotPaused(ctx)

	if amount <= 0 {
		panic(debankconst.ErrZeroSavings)
	}
	if durationMonths < debankconst.MinSavingsDuration || durationMonths > debankconst.MaxSavingsDuration {
		panic(debankconst.ErrInvalidDuration)
	}

	common.CheckWitness(from)

	pull(ctx, from, amount)

	id := common.GetInt(ctx, lastSavingsIDKey) + 1
	storage.Put(ctx, lastSavingsIDKey, id)

	key := savingsKey(from)
	list := getSavings(ctx, key)
	list = append(list, Savings{
		ID:             id,
		Amount:         amount,
		DurationMonths: durationMonths,
		Start:          runtime.GetTime() / 1000,
	})
	common.SetSerialized(ctx, key, list)

	storage.Put(ctx, totalSavingsKey, common.GetInt(ctx, totalSavingsKey)+amount)

	runtime.Notify("SavingsDeposited", from, id, amount, durationMonths)
}

// SetDailyTransferLimit sets the maximum amount each account can send with
// Transfer during a day. It can be invoked only by the bank owner.
func SetDailyTransferLimit(limit int) {
	ctx := storage.GetContext()
	checkBankOwner(ctx)

	if limit < 0 {
		panic(debankconst.ErrInvalidLimit)
	}

	storage.Put(ctx, limitKey, limit)
	runtime.Notify("DailyTransferLimitUpdated", limit)
}

// SetTransferFeeRate sets transfer fee in basis points. It can be invoked
// only by the bank owner.
func SetTransferFeeRate(rate int) {
	ctx := storage.GetContext()
	checkBankOwner(ctx)

	if rate < 0 || rate > debankconst.FeeRateDenominator {
		panic(debankconst.ErrInvalidFeeRate)
	}

	storage.Put(ctx, feeRateKey, rate)
	runtime.Notify("TransferFeeRateUpdated", rate)
}

// SetFeeReceiver sets the account collecting transfer fees. It can be
// invoked only by the bank owner.
func SetFeeReceiver(receiver interop.Hash160) {
	ctx := storage.GetContext()
	checkBankOwner(ctx)

	if common.IsNull(receiver) {
		panic(debankconst.ErrInvalidFeeReceiver)
	}

	storage.Put(ctx, feeReceiverKey, receiver)
	runtime.Notify("FeeReceiverUpdated", receiver)
}

// Pause stops deposits, withdrawals, transfers and savings deposits. It can
// be invoked only by the bank owner.
func Pause() {
	ctx := storage.GetContext()
	owner := checkBankOwner(ctx)

	if isPaused(ctx) {
		panic(debankconst.ErrPaused)
	}

	storage.Put(ctx, pausedKey, 1)
	runtime.Notify("Paused", owner)
}

// Unpause resumes operations stopped by Pause. It can be invoked only by the
// bank owner.
func Unpause() {
	ctx := storage.GetContext()
	owner := checkBankOwner(ctx)

	if !isPaused(ctx) {
		panic(debankconst.ErrNotPaused)
	}

	storage.Delete(ctx, pausedKey)
	runtime.Notify("Unpaused", owner)
}

// RecoverVNDT sends VNDT tokens held by the ledger to the bank owner. It can
// be invoked only by the bank owner.
func RecoverVNDT(amount int) {
	ctx := storage.GetContext()
	owner := checkBankOwner(ctx)

	if amount <= 0 {
		panic(debankconst.ErrZeroRecover)
	}

	held := contract.Call(getToken(ctx), "balanceOf", contract.ReadStates,
		runtime.GetExecutingScriptHash()).(int)
	if held < amount {
		panic(debankconst.ErrNotEnoughToRecover)
	}

	payOut(ctx, owner, amount)
	runtime.Notify("VNDTRecovered", owner, amount)
}

// TransferOwnership passes the bank to another owner. It can be invoked only
// by the current owner.
func TransferOwnership(newOwner interop.Hash160) {
	ctx := storage.GetContext()
	owner := checkBankOwner(ctx)

	if common.IsNull(newOwner) {
		panic(debankconst.ErrInvalidOwner)
	}

	storage.Put(ctx, ownerKey, newOwner)
	runtime.Notify("OwnershipTransferred", owner, newOwner)
}

// GetBalance returns ledger balance of the account.
func GetBalance(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return balanceOf(ctx, account)
}

// Balances is an alias of GetBalance.
func Balances(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return balanceOf(ctx, account)
}

// IsAccount returns true if the account has ever received funds in the ledger.
func IsAccount(account interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return isAccount(ctx, account)
}

// TotalDeposits returns the sum of all ledger balances.
func TotalDeposits() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, totalDepositsKey)
}

// TotalSavings returns the sum of all savings deposits.
func TotalSavings() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, totalSavingsKey)
}

// DailyTransferLimit returns current per-account daily transfer limit.
func DailyTransferLimit() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, limitKey)
}

// TransferFeeRate returns current transfer fee in basis points.
func TransferFeeRate() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, feeRateKey)
}

// FeeReceiver returns the account collecting transfer fees.
func FeeReceiver() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getFeeReceiver(ctx)
}

// Paused returns true if the ledger is paused.
func Paused() bool {
	ctx := storage.GetReadOnlyContext()
	return isPaused(ctx)
}

// BankOwner returns the account allowed to administer the ledger.
func BankOwner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// VndToken returns script hash of VNDT token contract.
func VndToken() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getToken(ctx)
}

// GetDailyTransferredAmount returns the amount the account has sent today.
func GetDailyTransferredAmount(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return effectiveAmount(getTracker(ctx, account), dayOf(runtime.GetTime()))
}

// GetAccountTransactionHistory returns all records of the account history,
// oldest first.
func GetAccountTransactionHistory(account interop.Hash160) []Transaction {
	ctx := storage.GetReadOnlyContext()

	ids := common.GetIntList(ctx, historyKey(account))
	res := []Transaction{}
	for i := range ids {
		res = append(res, getTransaction(ctx, ids[i]))
	}

	return res
}

// GetTransaction returns history record by its identifier.
func GetTransaction(id int) Transaction {
	ctx := storage.GetReadOnlyContext()
	return getTransaction(ctx, id)
}

// TransactionCount returns the number of history records in the ledger.
func TransactionCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, lastTxIDKey)
}

// GetSavings returns savings deposits of the account.
func GetSavings(account interop.Hash160) []Savings {
	ctx := storage.GetReadOnlyContext()
	return getSavings(ctx, savingsKey(account))
}

// IterateAccounts returns iterator over ledger accounts. Keys are account
// script hashes, values are balances.
func IterateAccounts() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{balancePrefix}, storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// pull takes VNDT tokens approved by the account.
func pull(ctx storage.Context, from interop.Hash160, amount int) {
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(getToken(ctx), "transferFrom", contract.All, self, from, self, amount, nil).(bool)
	if !ok {
		panic(debankconst.ErrTokenTransferFailed)
	}
}

func payOut(ctx storage.Context, to interop.Hash160, amount int) {
	self := runtime.GetExecutingScriptHash()
	ok := contract.Call(getToken(ctx), "transfer", contract.All, self, to, amount, nil).(bool)
	if !ok {
		panic(debankconst.ErrTokenTransferFailed)
	}
}

// openAccount marks the account as existing and returns true if it was not
// marked before.
func openAccount(ctx storage.Context, account interop.Hash160) bool {
	if isAccount(ctx, account) {
		return false
	}

	storage.Put(ctx, existsKey(account), 1)
	return true
}

func appendRecord(ctx storage.Context, account interop.Hash160, txType string, amount int, from, to interop.Hash160) {
	id := common.GetInt(ctx, lastTxIDKey) + 1
	storage.Put(ctx, lastTxIDKey, id)

	common.SetSerialized(ctx, txKey(id), Transaction{
		ID:        id,
		TxType:    txType,
		Amount:    amount,
		From:      from,
		To:        to,
		Timestamp: runtime.GetTime() / 1000,
	})

	key := historyKey(account)
	ids := common.GetIntList(ctx, key)
	ids = append(ids, id)
	common.SetSerialized(ctx, key, ids)
}

func getTransaction(ctx storage.Context, id int) Transaction {
	data := storage.Get(ctx, txKey(id))
	if data == nil {
		panic(debankconst.ErrTxNotFound)
	}

	return std.Deserialize(data.([]byte)).(Transaction)
}

func getSavings(ctx storage.Context, key []byte) []Savings {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]Savings)
	}

	return []Savings{}
}

func getTracker(ctx storage.Context, account interop.Hash160) DailyTracker {
	data := storage.Get(ctx, trackerKey(account))
	if data != nil {
		return std.Deserialize(data.([]byte)).(DailyTracker)
	}

	return DailyTracker{}
}

// dayOf converts block time in milliseconds to the number of days since
// Unix epoch.
func dayOf(ms int) int {
	return ms / 1000 / debankconst.SecondsPerDay
}

// effectiveAmount returns the amount sent during the day, records of the
// previous days are treated as zero.
func effectiveAmount(t DailyTracker, day int) int {
	if t.Day == day {
		return t.Amount
	}

	return 0
}

func addTotalDeposits(ctx storage.Context, delta int) {
	storage.Put(ctx, totalDepositsKey, common.GetInt(ctx, totalDepositsKey)+delta)
}

func checkNotPaused(ctx storage.Context) {
	if isPaused(ctx) {
		panic(debankconst.ErrPaused)
	}
}

func checkBankOwner(ctx storage.Context) interop.Hash160 {
	owner := getOwner(ctx)
	if !runtime.CheckWitness(owner) {
		panic(debankconst.ErrOnlyOwner)
	}

	return owner
}

func isPaused(ctx storage.Context) bool {
	return storage.Get(ctx, pausedKey) != nil
}

func isAccount(ctx storage.Context, account interop.Hash160) bool {
	return storage.Get(ctx, existsKey(account)) != nil
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	return common.GetInt(ctx, balanceKey(account))
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func getToken(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}

func getFeeReceiver(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, feeReceiverKey).(interop.Hash160)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func existsKey(account interop.Hash160) []byte {
	return append([]byte{existsPrefix}, account...)
}

func trackerKey(account interop.Hash160) []byte {
	return append([]byte{trackerPrefix}, account...)
}

func historyKey(account interop.Hash160) []byte {
	return append([]byte{historyPrefix}, account...)
}

func savingsKey(account interop.Hash160) []byte {
	return append([]byte{savingsPrefix}, account...)
}

func txKey(id int) []byte {
	return append([]byte{txPrefix}, convert.ToBytes(id)...)
}
