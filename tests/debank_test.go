package tests

import (
	"encoding/json"
	"math/big"
	"path"
	"testing"

	"github.com/debank-vn/debank-contract/common"
	"github.com/debank-vn/debank-contract/contracts/debank/debankconst"
	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const debankPath = "../debank"

type bankEnv struct {
	e     *neotest.Executor
	ctr   *neotest.Contract
	token *neotest.ContractInvoker
	bank  *neotest.ContractInvoker
}

func newBankEnv(t *testing.T) *bankEnv {
	e := newExecutor(t)
	tokenHash := deployVNDTContract(t, e, nil)

	ctr := neotest.CompileFile(t, e.CommitteeHash, debankPath, path.Join(debankPath, "config.yml"))
	e.DeployContract(t, ctr, []interface{}{tokenHash, nil})

	return &bankEnv{
		e:     e,
		ctr:   ctr,
		token: e.CommitteeInvoker(tokenHash),
		bank:  e.CommitteeInvoker(ctr.Hash),
	}
}

// newUser creates an account holding the given amount of VNDT.
func (b *bankEnv) newUser(t *testing.T, amount *big.Int) neotest.Signer {
	acc := b.e.NewAccount(t)
	b.token.Invoke(t, true, "transfer", b.token.CommitteeHash, acc.ScriptHash(), amount, nil)
	return acc
}

func (b *bankEnv) deposit(t *testing.T, acc neotest.Signer, amount *big.Int) util.Uint256 {
	b.token.WithSigners(acc).Invoke(t, true, "approve", acc.ScriptHash(), b.bank.Hash, amount)
	return b.bank.WithSigners(acc).Invoke(t, stackitem.Null{}, "deposit", acc.ScriptHash(), amount)
}

func (b *bankEnv) tokenBalance(t *testing.T, acc util.Uint160) *big.Int {
	s, err := b.token.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return s.Top().BigInt()
}

func (b *bankEnv) history(t *testing.T, acc util.Uint160) []*debank.DebankTransaction {
	s, err := b.bank.TestInvoke(t, "getAccountTransactionHistory", acc)
	require.NoError(t, err)

	arr, ok := s.Top().Item().Value().([]stackitem.Item)
	require.True(t, ok)

	res := make([]*debank.DebankTransaction, len(arr))
	for i := range arr {
		res[i] = new(debank.DebankTransaction)
		require.NoError(t, res[i].FromStackItem(arr[i]))
	}
	return res
}

// checkCustody verifies that ledger balances sum up to totalDeposits and the
// contract holds at least that much VNDT.
func (b *bankEnv) checkCustody(t *testing.T, accounts ...util.Uint160) {
	sum := new(big.Int)
	for _, acc := range accounts {
		s, err := b.bank.TestInvoke(t, "getBalance", acc)
		require.NoError(t, err)
		sum.Add(sum, s.Top().BigInt())
	}
	b.bank.Invoke(t, sum, "totalDeposits")

	s, err := b.bank.TestInvoke(t, "totalSavings")
	require.NoError(t, err)
	held := new(big.Int).Add(sum, s.Top().BigInt())
	require.True(t, b.tokenBalance(t, b.bank.Hash).Cmp(held) >= 0)
}

func checkRecord(t *testing.T, r *debank.DebankTransaction, id int64, txType string, amount *big.Int, from, to util.Uint160) {
	require.Equal(t, id, r.ID.Int64())
	require.Equal(t, txType, r.TxType)
	require.Equal(t, 0, amount.Cmp(r.Amount), "expected %s, got %s", amount, r.Amount)
	require.Equal(t, from, r.From)
	require.Equal(t, to, r.To)
	require.True(t, r.Timestamp.Sign() > 0)
}

func TestDeBankDeploy(t *testing.T) {
	b := newBankEnv(t)
	c := b.bank

	c.Invoke(t, tokens(debankconst.DefaultDailyTransferLimitTokens), "dailyTransferLimit")
	c.Invoke(t, debankconst.DefaultTransferFeeRate, "transferFeeRate")
	requireHash(t, c, c.CommitteeHash, "feeReceiver")
	requireHash(t, c, c.CommitteeHash, "bankOwner")
	requireHash(t, c, b.token.Hash, "vndToken")
	c.Invoke(t, false, "paused")
	c.Invoke(t, 0, "totalDeposits")
	c.Invoke(t, 0, "totalSavings")
	c.Invoke(t, 0, "transactionCount")
	c.Invoke(t, common.Version, "version")

	t.Run("explicit owner", func(t *testing.T) {
		e := newExecutor(t)
		acc := e.NewAccount(t)
		tokenHash := deployVNDTContract(t, e, nil)

		ctr := neotest.CompileFile(t, e.CommitteeHash, debankPath, path.Join(debankPath, "config.yml"))
		e.DeployContract(t, ctr, []interface{}{tokenHash, acc.ScriptHash()})

		c := e.CommitteeInvoker(ctr.Hash)
		requireHash(t, c, acc.ScriptHash(), "bankOwner")
		requireHash(t, c, acc.ScriptHash(), "feeReceiver")
		c.InvokeFail(t, debankconst.ErrOnlyOwner, "pause")
		c.WithSigners(acc).Invoke(t, stackitem.Null{}, "pause")
	})
}

func TestDeBankDeposit(t *testing.T) {
	b := newBankEnv(t)
	user := b.newUser(t, tokens(200_000))
	amount := tokens(100_000)

	h := b.deposit(t, user, amount)
	aer := b.bank.CheckHalt(t, h)
	requireEvent(t, aer, b.bank.Hash, "AccountOpened", hashItem(user.ScriptHash()))
	requireEvent(t, aer, b.bank.Hash, "Deposited", hashItem(user.ScriptHash()), intItem(amount), intItem(amount))

	b.bank.Invoke(t, amount, "getBalance", user.ScriptHash())
	b.bank.Invoke(t, amount, "balances", user.ScriptHash())
	b.bank.Invoke(t, true, "isAccount", user.ScriptHash())
	b.bank.Invoke(t, amount, "totalDeposits")
	require.Equal(t, amount, b.tokenBalance(t, b.bank.Hash))
	require.Equal(t, tokens(100_000), b.tokenBalance(t, user.ScriptHash()))

	hist := b.history(t, user.ScriptHash())
	require.Len(t, hist, 1)
	checkRecord(t, hist[0], 1, debankconst.TxDeposit, amount, user.ScriptHash(), b.bank.Hash)

	t.Run("second deposit", func(t *testing.T) {
		h := b.deposit(t, user, tokens(1))
		aer := b.bank.CheckHalt(t, h)
		requireNoEvent(t, aer, b.bank.Hash, "AccountOpened")
		requireEvent(t, aer, b.bank.Hash, "Deposited",
			hashItem(user.ScriptHash()), intItem(tokens(1)), intItem(tokens(100_001)))
	})

	cUser := b.bank.WithSigners(user)

	t.Run("zero amount", func(t *testing.T) {
		cUser.InvokeFail(t, debankconst.ErrZeroDeposit, "deposit", user.ScriptHash(), 0)
	})

	t.Run("without approval", func(t *testing.T) {
		cUser.InvokeFail(t, vndtconst.ErrInsufficientAllowance, "deposit", user.ScriptHash(), tokens(1))
	})

	t.Run("more than owned", func(t *testing.T) {
		b.token.WithSigners(user).Invoke(t, true, "approve", user.ScriptHash(), b.bank.Hash, tokens(1_000_000))
		cUser.InvokeFail(t, vndtconst.ErrInsufficientBalance, "deposit", user.ScriptHash(), tokens(1_000_000))
	})

	t.Run("not witnessed", func(t *testing.T) {
		other := b.e.NewAccount(t)
		b.bank.WithSigners(other).InvokeFail(t, common.ErrWitnessFailed, "deposit", user.ScriptHash(), tokens(1))
	})

	b.bank.Invoke(t, tokens(100_001), "getBalance", user.ScriptHash())
	b.checkCustody(t, user.ScriptHash())
}

func TestDeBankWithdraw(t *testing.T) {
	b := newBankEnv(t)
	user := b.newUser(t, tokens(200_000))
	b.deposit(t, user, tokens(100_000))

	cUser := b.bank.WithSigners(user)
	amount := tokens(50_000)

	h := cUser.Invoke(t, stackitem.Null{}, "withdraw", user.ScriptHash(), amount)
	requireEvent(t, b.bank.CheckHalt(t, h), b.bank.Hash, "Withdrawn",
		hashItem(user.ScriptHash()), intItem(amount), intItem(tokens(50_000)))

	b.bank.Invoke(t, tokens(50_000), "getBalance", user.ScriptHash())
	b.bank.Invoke(t, tokens(50_000), "totalDeposits")
	require.Equal(t, tokens(150_000), b.tokenBalance(t, user.ScriptHash()))

	hist := b.history(t, user.ScriptHash())
	require.Len(t, hist, 2)
	checkRecord(t, hist[1], 2, debankconst.TxWithdraw, amount, b.bank.Hash, user.ScriptHash())

	t.Run("zero amount", func(t *testing.T) {
		cUser.InvokeFail(t, debankconst.ErrZeroWithdraw, "withdraw", user.ScriptHash(), 0)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		cUser.InvokeFail(t, debankconst.ErrInsufficientBalance, "withdraw", user.ScriptHash(), tokens(50_001))
	})

	t.Run("account does not exist", func(t *testing.T) {
		other := b.e.NewAccount(t)
		b.bank.WithSigners(other).InvokeFail(t, debankconst.ErrAccountNotExist, "withdraw", other.ScriptHash(), tokens(100))
	})

	t.Run("not witnessed", func(t *testing.T) {
		b.bank.InvokeFail(t, common.ErrWitnessFailed, "withdraw", user.ScriptHash(), tokens(1))
	})

	// withdrawing the whole balance keeps the account open
	cUser.Invoke(t, stackitem.Null{}, "withdraw", user.ScriptHash(), tokens(50_000))
	b.bank.Invoke(t, 0, "getBalance", user.ScriptHash())
	b.bank.Invoke(t, true, "isAccount", user.ScriptHash())
	b.checkCustody(t, user.ScriptHash())
}

func TestDeBankTransfer(t *testing.T) {
	b := newBankEnv(t)
	user1 := b.newUser(t, tokens(200_000))
	user2 := b.e.NewAccount(t)
	b.deposit(t, user1, tokens(100_000))

	feeBefore := b.tokenBalance(t, b.bank.CommitteeHash)

	cUser1 := b.bank.WithSigners(user1)
	amount := tokens(10_000)
	fee := tokens(10)
	net := tokens(9_990)

	h := cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), amount)
	aer := b.bank.CheckHalt(t, h)
	requireEvent(t, aer, b.bank.Hash, "AccountOpened", hashItem(user2.ScriptHash()))
	requireEvent(t, aer, b.bank.Hash, "Transferred",
		hashItem(user1.ScriptHash()), hashItem(user2.ScriptHash()), intItem(amount), intItem(fee))

	b.bank.Invoke(t, tokens(90_000), "getBalance", user1.ScriptHash())
	b.bank.Invoke(t, net, "getBalance", user2.ScriptHash())
	b.bank.Invoke(t, true, "isAccount", user2.ScriptHash())
	b.bank.Invoke(t, tokens(99_990), "totalDeposits")
	b.bank.Invoke(t, amount, "getDailyTransferredAmount", user1.ScriptHash())
	b.bank.Invoke(t, 0, "getDailyTransferredAmount", user2.ScriptHash())

	require.Equal(t, new(big.Int).Add(feeBefore, fee), b.tokenBalance(t, b.bank.CommitteeHash))
	require.Equal(t, tokens(99_990), b.tokenBalance(t, b.bank.Hash))

	t.Run("to itself", func(t *testing.T) {
		cUser1.InvokeFail(t, debankconst.ErrSelfTransfer, "transfer", user1.ScriptHash(), user1.ScriptHash(), tokens(1))
	})

	t.Run("zero amount", func(t *testing.T) {
		cUser1.InvokeFail(t, debankconst.ErrZeroTransfer, "transfer", user1.ScriptHash(), user2.ScriptHash(), 0)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		cUser1.InvokeFail(t, debankconst.ErrInsufficientBalance, "transfer",
			user1.ScriptHash(), user2.ScriptHash(), tokens(90_001))
	})

	t.Run("null recipient", func(t *testing.T) {
		cUser1.InvokeFail(t, debankconst.ErrInvalidRecipient, "transfer", user1.ScriptHash(), util.Uint160{}, tokens(1))
	})

	t.Run("not witnessed", func(t *testing.T) {
		b.bank.WithSigners(user2).InvokeFail(t, common.ErrWitnessFailed, "transfer",
			user1.ScriptHash(), user2.ScriptHash(), tokens(1))
	})

	t.Run("fee rounds down", func(t *testing.T) {
		// 999 * 10 / 10000 = 0
		cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), 999)
		b.bank.Invoke(t, new(big.Int).Add(net, big.NewInt(999)), "getBalance", user2.ScriptHash())
	})

	b.checkCustody(t, user1.ScriptHash(), user2.ScriptHash())
}

func TestDeBankTransferFee(t *testing.T) {
	b := newBankEnv(t)
	user1 := b.newUser(t, tokens(1_000))
	user2 := b.e.NewAccount(t)
	receiver := b.e.NewAccount(t)
	b.deposit(t, user1, tokens(1_000))

	b.bank.Invoke(t, stackitem.Null{}, "setFeeReceiver", receiver.ScriptHash())
	b.bank.Invoke(t, stackitem.Null{}, "setTransferFeeRate", 500)

	cUser1 := b.bank.WithSigners(user1)
	cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), tokens(100))
	b.bank.Invoke(t, tokens(995), "totalDeposits")
	b.bank.Invoke(t, tokens(900), "getBalance", user1.ScriptHash())
	b.bank.Invoke(t, tokens(95), "getBalance", user2.ScriptHash())
	require.Equal(t, tokens(5), b.tokenBalance(t, receiver.ScriptHash()))

	t.Run("zero fee", func(t *testing.T) {
		b.bank.Invoke(t, stackitem.Null{}, "setTransferFeeRate", 0)
		h := cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), tokens(100))
		requireEvent(t, b.bank.CheckHalt(t, h), b.bank.Hash, "Transferred",
			hashItem(user1.ScriptHash()), hashItem(user2.ScriptHash()), intItem(tokens(100)), intItem(big.NewInt(0)))
		b.bank.Invoke(t, tokens(995), "totalDeposits")
		b.bank.Invoke(t, tokens(195), "getBalance", user2.ScriptHash())
	})

	t.Run("whole amount as fee", func(t *testing.T) {
		b.bank.Invoke(t, stackitem.Null{}, "setTransferFeeRate", debankconst.FeeRateDenominator)
		before := b.tokenBalance(t, receiver.ScriptHash())
		cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), tokens(100))
		require.Equal(t, new(big.Int).Add(before, tokens(100)), b.tokenBalance(t, receiver.ScriptHash()))
		b.bank.Invoke(t, tokens(195), "getBalance", user2.ScriptHash())
		b.bank.Invoke(t, tokens(895), "totalDeposits")
	})

	b.checkCustody(t, user1.ScriptHash(), user2.ScriptHash())
}

func TestDeBankDailyLimit(t *testing.T) {
	b := newBankEnv(t)
	user1 := b.newUser(t, tokens(100_000))
	user2 := b.e.NewAccount(t)
	b.deposit(t, user1, tokens(100_000))

	b.bank.Invoke(t, stackitem.Null{}, "setDailyTransferLimit", tokens(15_000))

	cUser1 := b.bank.WithSigners(user1)
	transfer := func(amount *big.Int) {
		cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), amount)
	}

	transfer(tokens(10_000))
	cUser1.InvokeFail(t, debankconst.ErrDailyLimitExceeded, "transfer",
		user1.ScriptHash(), user2.ScriptHash(), tokens(10_000))
	b.bank.Invoke(t, tokens(90_000), "getBalance", user1.ScriptHash())
	b.bank.Invoke(t, tokens(10_000), "getDailyTransferredAmount", user1.ScriptHash())

	// reaching the limit exactly is allowed
	transfer(tokens(5_000))
	b.bank.Invoke(t, tokens(15_000), "getDailyTransferredAmount", user1.ScriptHash())
	cUser1.InvokeFail(t, debankconst.ErrDailyLimitExceeded, "transfer", user1.ScriptHash(), user2.ScriptHash(), 1)

	skipDays(t, b.e, 1)
	b.bank.Invoke(t, 0, "getDailyTransferredAmount", user1.ScriptHash())

	transfer(tokens(10_000))
	b.bank.Invoke(t, tokens(10_000), "getDailyTransferredAmount", user1.ScriptHash())

	t.Run("limit decreased below spent", func(t *testing.T) {
		b.bank.Invoke(t, stackitem.Null{}, "setDailyTransferLimit", tokens(5_000))
		cUser1.InvokeFail(t, debankconst.ErrDailyLimitExceeded, "transfer", user1.ScriptHash(), user2.ScriptHash(), 1)
	})

	t.Run("zero limit", func(t *testing.T) {
		b.bank.Invoke(t, stackitem.Null{}, "setDailyTransferLimit", 0)
		skipDays(t, b.e, 1)
		cUser1.InvokeFail(t, debankconst.ErrDailyLimitExceeded, "transfer", user1.ScriptHash(), user2.ScriptHash(), 1)
	})
}

func TestDeBankHistory(t *testing.T) {
	b := newBankEnv(t)
	user1 := b.newUser(t, tokens(200_000))
	user2 := b.e.NewAccount(t)

	b.deposit(t, user1, tokens(100_000))
	b.bank.WithSigners(user1).Invoke(t, stackitem.Null{}, "transfer",
		user1.ScriptHash(), user2.ScriptHash(), tokens(10_000))
	b.bank.WithSigners(user1).Invoke(t, stackitem.Null{}, "withdraw", user1.ScriptHash(), tokens(10_000))

	hist1 := b.history(t, user1.ScriptHash())
	require.Len(t, hist1, 3)
	checkRecord(t, hist1[0], 1, debankconst.TxDeposit, tokens(100_000), user1.ScriptHash(), b.bank.Hash)
	checkRecord(t, hist1[1], 2, debankconst.TxTransferOut, tokens(10_000), user1.ScriptHash(), user2.ScriptHash())
	checkRecord(t, hist1[2], 4, debankconst.TxWithdraw, tokens(10_000), b.bank.Hash, user1.ScriptHash())

	hist2 := b.history(t, user2.ScriptHash())
	require.Len(t, hist2, 1)
	checkRecord(t, hist2[0], 3, debankconst.TxTransferIn, tokens(9_990), user1.ScriptHash(), user2.ScriptHash())

	require.True(t, hist1[0].Timestamp.Cmp(hist1[2].Timestamp) <= 0)
	require.True(t, hist1[2].Timestamp.Uint64() <= b.e.TopBlock(t).Timestamp/1000)

	b.bank.Invoke(t, 4, "transactionCount")

	s, err := b.bank.TestInvoke(t, "getTransaction", 3)
	require.NoError(t, err)
	var rec debank.DebankTransaction
	require.NoError(t, rec.FromStackItem(s.Top().Item()))
	require.Equal(t, *hist2[0], rec)

	b.bank.InvokeFail(t, debankconst.ErrTxNotFound, "getTransaction", 5)

	require.Empty(t, b.history(t, b.e.NewAccount(t).ScriptHash()))
}

func TestDeBankOwnerOnly(t *testing.T) {
	b := newBankEnv(t)
	acc := b.e.NewAccount(t)
	cAcc := b.bank.WithSigners(acc)

	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "setDailyTransferLimit", 1)
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "setTransferFeeRate", 1)
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "setFeeReceiver", acc.ScriptHash())
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "pause")
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "unpause")
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "recoverVNDT", 1)
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "transferOwnership", acc.ScriptHash())
	cAcc.InvokeFail(t, debankconst.ErrOnlyOwner, "update", []byte{1}, []byte{2}, nil)

	b.bank.Invoke(t, tokens(debankconst.DefaultDailyTransferLimitTokens), "dailyTransferLimit")
	b.bank.Invoke(t, debankconst.DefaultTransferFeeRate, "transferFeeRate")
	requireHash(t, b.bank, b.bank.CommitteeHash, "feeReceiver")
	requireHash(t, b.bank, b.bank.CommitteeHash, "bankOwner")
	b.bank.Invoke(t, false, "paused")
}

func TestDeBankSettings(t *testing.T) {
	b := newBankEnv(t)
	c := b.bank
	acc := b.e.NewAccount(t)

	h := c.Invoke(t, stackitem.Null{}, "setDailyTransferLimit", tokens(42))
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "DailyTransferLimitUpdated", intItem(tokens(42)))
	c.Invoke(t, tokens(42), "dailyTransferLimit")
	c.InvokeFail(t, debankconst.ErrInvalidLimit, "setDailyTransferLimit", -1)

	h = c.Invoke(t, stackitem.Null{}, "setTransferFeeRate", 100)
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "TransferFeeRateUpdated", intItem(big.NewInt(100)))
	c.Invoke(t, 100, "transferFeeRate")
	c.InvokeFail(t, debankconst.ErrInvalidFeeRate, "setTransferFeeRate", debankconst.FeeRateDenominator+1)
	c.InvokeFail(t, debankconst.ErrInvalidFeeRate, "setTransferFeeRate", -1)

	h = c.Invoke(t, stackitem.Null{}, "setFeeReceiver", acc.ScriptHash())
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "FeeReceiverUpdated", hashItem(acc.ScriptHash()))
	requireHash(t, c, acc.ScriptHash(), "feeReceiver")
	c.InvokeFail(t, debankconst.ErrInvalidFeeReceiver, "setFeeReceiver", util.Uint160{})

	t.Run("transfer ownership", func(t *testing.T) {
		c.InvokeFail(t, debankconst.ErrInvalidOwner, "transferOwnership", util.Uint160{})

		h := c.Invoke(t, stackitem.Null{}, "transferOwnership", acc.ScriptHash())
		requireEvent(t, c.CheckHalt(t, h), c.Hash, "OwnershipTransferred",
			hashItem(c.CommitteeHash), hashItem(acc.ScriptHash()))
		requireHash(t, c, acc.ScriptHash(), "bankOwner")

		c.InvokeFail(t, debankconst.ErrOnlyOwner, "setTransferFeeRate", 1)
		c.WithSigners(acc).Invoke(t, stackitem.Null{}, "setTransferFeeRate", 1)
	})
}

func TestDeBankPause(t *testing.T) {
	b := newBankEnv(t)
	user1 := b.newUser(t, tokens(1_000))
	user2 := b.e.NewAccount(t)
	b.deposit(t, user1, tokens(500))

	c := b.bank
	cUser1 := c.WithSigners(user1)

	c.InvokeFail(t, debankconst.ErrNotPaused, "unpause")

	h := c.Invoke(t, stackitem.Null{}, "pause")
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "Paused", hashItem(c.CommitteeHash))
	c.Invoke(t, true, "paused")
	c.InvokeFail(t, debankconst.ErrPaused, "pause")

	b.token.WithSigners(user1).Invoke(t, true, "approve", user1.ScriptHash(), c.Hash, tokens(500))
	cUser1.InvokeFail(t, debankconst.ErrPaused, "deposit", user1.ScriptHash(), tokens(1))
	cUser1.InvokeFail(t, debankconst.ErrPaused, "withdraw", user1.ScriptHash(), tokens(1))
	cUser1.InvokeFail(t, debankconst.ErrPaused, "transfer", user1.ScriptHash(), user2.ScriptHash(), tokens(1))
	cUser1.InvokeFail(t, debankconst.ErrPaused, "depositSavings", user1.ScriptHash(), tokens(1), 12)

	// reads and administration keep working
	c.Invoke(t, tokens(500), "getBalance", user1.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "setTransferFeeRate", 20)

	h = c.Invoke(t, stackitem.Null{}, "unpause")
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "Unpaused", hashItem(c.CommitteeHash))
	c.Invoke(t, false, "paused")

	cUser1.Invoke(t, stackitem.Null{}, "transfer", user1.ScriptHash(), user2.ScriptHash(), tokens(100))
	c.Invoke(t, tokens(400), "getBalance", user1.ScriptHash())
}

// Wallet clients match these reasons literally.
func TestDeBankRejectionReasons(t *testing.T) {
	b := newBankEnv(t)
	user := b.newUser(t, tokens(1_000))
	b.deposit(t, user, tokens(500))

	c := b.bank
	cUser := c.WithSigners(user)
	b.token.WithSigners(user).Invoke(t, true, "approve", user.ScriptHash(), c.Hash, tokens(500))

	cUser.InvokeFail(t, "Zero address not allowed", "transfer", user.ScriptHash(), util.Uint160{}, tokens(1))
	cUser.InvokeFail(t, "Savings deposit amount must be greater than zero", "depositSavings", user.ScriptHash(), 0, 12)
	cUser.InvokeFail(t, "Savings duration must be between 1 and 60 months", "depositSavings", user.ScriptHash(), tokens(1), 0)
	cUser.InvokeFail(t, "Cannot transfer to yourself", "transfer", user.ScriptHash(), user.ScriptHash(), tokens(1))
	cUser.InvokeFail(t, "Only bank owner can call this function", "pause")

	c.InvokeFail(t, "Pausable: not paused", "unpause")
	c.Invoke(t, stackitem.Null{}, "pause")
	c.InvokeFail(t, "Pausable: paused", "pause")
	cUser.InvokeFail(t, "Pausable: paused", "withdraw", user.ScriptHash(), tokens(1))
}

func TestDeBankRecoverVNDT(t *testing.T) {
	b := newBankEnv(t)
	user := b.newUser(t, tokens(2_000))
	b.deposit(t, user, tokens(500))

	// tokens sent directly are accepted, but not credited
	b.token.WithSigners(user).Invoke(t, true, "transfer", user.ScriptHash(), b.bank.Hash, tokens(1_000), nil)
	b.bank.Invoke(t, tokens(500), "getBalance", user.ScriptHash())
	b.bank.Invoke(t, tokens(500), "totalDeposits")
	require.Equal(t, tokens(1_500), b.tokenBalance(t, b.bank.Hash))

	c := b.bank
	c.InvokeFail(t, debankconst.ErrZeroRecover, "recoverVNDT", 0)
	c.InvokeFail(t, debankconst.ErrNotEnoughToRecover, "recoverVNDT", tokens(1_501))

	before := b.tokenBalance(t, c.CommitteeHash)
	h := c.Invoke(t, stackitem.Null{}, "recoverVNDT", tokens(1_000))
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "VNDTRecovered", hashItem(c.CommitteeHash), intItem(tokens(1_000)))

	require.Equal(t, new(big.Int).Add(before, tokens(1_000)), b.tokenBalance(t, c.CommitteeHash))
	require.Equal(t, tokens(500), b.tokenBalance(t, c.Hash))
	b.checkCustody(t, user.ScriptHash())
}

func TestDeBankOnlyVNDTAccepted(t *testing.T) {
	b := newBankEnv(t)
	acc := b.e.NewAccount(t)

	gas := b.e.CommitteeInvoker(b.e.NativeHash(t, nativenames.Gas))
	gas.WithSigners(acc).InvokeFail(t, debankconst.ErrOnlyTokenAccepted, "transfer",
		acc.ScriptHash(), b.bank.Hash, 1, nil)

	b.bank.InvokeFail(t, debankconst.ErrOnlyTokenAccepted, "onNEP17Payment", acc.ScriptHash(), 1, nil)
}

func TestDeBankSavings(t *testing.T) {
	b := newBankEnv(t)
	user := b.newUser(t, tokens(10_000))
	cUser := b.bank.WithSigners(user)
	amount := tokens(5_000)

	b.token.WithSigners(user).Invoke(t, true, "approve", user.ScriptHash(), b.bank.Hash, tokens(10_000))

	cUser.InvokeFail(t, debankconst.ErrZeroSavings, "depositSavings", user.ScriptHash(), 0, 12)
	cUser.InvokeFail(t, debankconst.ErrInvalidDuration, "depositSavings", user.ScriptHash(), amount, 0)
	cUser.InvokeFail(t, debankconst.ErrInvalidDuration, "depositSavings", user.ScriptHash(), amount, 61)

	h := cUser.Invoke(t, stackitem.Null{}, "depositSavings", user.ScriptHash(), amount, 12)
	requireEvent(t, b.bank.CheckHalt(t, h), b.bank.Hash, "SavingsDeposited",
		hashItem(user.ScriptHash()), intItem(big.NewInt(1)), intItem(amount), intItem(big.NewInt(12)))

	cUser.Invoke(t, stackitem.Null{}, "depositSavings", user.ScriptHash(), tokens(1_000), 60)

	b.bank.Invoke(t, tokens(6_000), "totalSavings")
	b.bank.Invoke(t, 0, "getBalance", user.ScriptHash())
	b.bank.Invoke(t, 0, "totalDeposits")
	require.Equal(t, tokens(6_000), b.tokenBalance(t, b.bank.Hash))

	s, err := b.bank.TestInvoke(t, "getSavings", user.ScriptHash())
	require.NoError(t, err)
	arr := s.Top().Array()
	require.Len(t, arr, 2)

	var first, second debank.DebankSavings
	require.NoError(t, first.FromStackItem(arr[0]))
	require.NoError(t, second.FromStackItem(arr[1]))
	require.EqualValues(t, 1, first.ID.Int64())
	require.Equal(t, 0, amount.Cmp(first.Amount))
	require.EqualValues(t, 12, first.DurationMonths.Int64())
	require.True(t, first.Start.Sign() > 0)
	require.EqualValues(t, 2, second.ID.Int64())
	require.EqualValues(t, 60, second.DurationMonths.Int64())

	// savings do not produce history records
	require.Empty(t, b.history(t, user.ScriptHash()))
	b.checkCustody(t, user.ScriptHash())
}

func TestDeBankIterateAccounts(t *testing.T) {
	b := newBankEnv(t)
	user1 := b.newUser(t, tokens(100))
	user2 := b.newUser(t, tokens(100))
	b.deposit(t, user1, tokens(100))
	b.deposit(t, user2, tokens(40))

	s, err := b.bank.TestInvoke(t, "iterateAccounts")
	require.NoError(t, err)

	iter := s.Top().Interop().Value().(*storage.Iterator)
	items := iteratorToArray(iter)
	require.Len(t, items, 2)

	got := make(map[util.Uint160]int64)
	for _, item := range items {
		kv := item.Value().([]stackitem.Item)
		key, err := kv[0].TryBytes()
		require.NoError(t, err)
		acc, err := util.Uint160DecodeBytesBE(key)
		require.NoError(t, err)
		val, err := kv[1].TryInteger()
		require.NoError(t, err)
		got[acc] = new(big.Int).Div(val, big.NewInt(vndtconst.DecimalsFactor)).Int64()
	}

	require.Equal(t, map[util.Uint160]int64{
		user1.ScriptHash(): 100,
		user2.ScriptHash(): 40,
	}, got)
}

func TestDeBankUpdate(t *testing.T) {
	b := newBankEnv(t)

	rawManifest, err := json.Marshal(b.ctr.Manifest)
	require.NoError(t, err)
	rawNEF, err := b.ctr.NEF.Bytes()
	require.NoError(t, err)

	b.bank.InvokeFail(t, common.ErrAlreadyUpdated, "update", rawNEF, rawManifest, nil)
}
