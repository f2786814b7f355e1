package tests

import (
	"math/big"
	"path"
	"strings"
	"testing"

	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

const vndtPath = "../vndt"

func deployVNDTContract(t *testing.T, e *neotest.Executor, owner interface{}) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, vndtPath, path.Join(vndtPath, "config.yml"))
	e.DeployContract(t, c, []interface{}{owner})
	return c.Hash
}

func newVNDTInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	h := deployVNDTContract(t, e, nil)
	return e.CommitteeInvoker(h)
}

func initialSupply() *big.Int {
	return tokens(vndtconst.InitialSupplyTokens)
}

func TestVNDTDeploy(t *testing.T) {
	c := newVNDTInvoker(t)

	c.Invoke(t, vndtconst.Symbol, "symbol")
	c.Invoke(t, vndtconst.Name, "name")
	c.Invoke(t, vndtconst.Decimals, "decimals")
	c.Invoke(t, initialSupply(), "totalSupply")
	c.Invoke(t, initialSupply(), "balanceOf", c.CommitteeHash)
	requireHash(t, c, c.CommitteeHash, "owner")

	t.Run("explicit owner", func(t *testing.T) {
		e := newExecutor(t)
		acc := e.NewAccount(t)
		h := deployVNDTContract(t, e, acc.ScriptHash())

		c := e.CommitteeInvoker(h)
		requireHash(t, c, acc.ScriptHash(), "owner")
		c.Invoke(t, initialSupply(), "balanceOf", acc.ScriptHash())
		c.Invoke(t, 0, "balanceOf", c.CommitteeHash)
	})
}

func TestVNDTMint(t *testing.T) {
	c := newVNDTInvoker(t)
	acc := c.NewAccount(t)
	amount := tokens(1000)

	h := c.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), amount)
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "Transfer",
		stackitem.Null{}, hashItem(acc.ScriptHash()), intItem(amount))

	c.Invoke(t, amount, "balanceOf", acc.ScriptHash())
	c.Invoke(t, new(big.Int).Add(initialSupply(), amount), "totalSupply")

	t.Run("not an owner", func(t *testing.T) {
		cAcc := c.WithSigners(acc)
		cAcc.InvokeFail(t, vndtconst.ErrUnauthorizedAccount+": "+address.Uint160ToString(acc.ScriptHash()),
			"mint", acc.ScriptHash(), amount)
		c.Invoke(t, amount, "balanceOf", acc.ScriptHash())
	})

	t.Run("invalid receiver", func(t *testing.T) {
		c.InvokeFail(t, vndtconst.ErrInvalidReceiver, "mint", util.Uint160{}, amount)
	})

	t.Run("negative amount", func(t *testing.T) {
		c.InvokeFail(t, vndtconst.ErrNegativeAmount, "mint", acc.ScriptHash(), -1)
	})
}

func TestVNDTUnauthorizedAddress(t *testing.T) {
	c := newVNDTInvoker(t)
	acc := c.NewAccount(t)

	tx := c.WithSigners(acc).PrepareInvoke(t, "burn", 1)
	c.AddNewBlock(t, tx)

	aer := c.GetTxExecResult(t, tx.Hash())
	require.Equal(t, vmstate.Fault, aer.VMState)

	msg := aer.FaultException
	prefix := vndtconst.ErrUnauthorizedAccount + ": "
	i := strings.Index(msg, prefix)
	require.True(t, i >= 0, msg)

	addr := msg[i+len(prefix):]
	if j := strings.IndexAny(addr, "\"' "); j >= 0 {
		addr = addr[:j]
	}

	raw, err := base58.Decode(addr)
	require.NoError(t, err)
	require.Len(t, raw, 1+util.Uint160Size+4)
	require.Equal(t, address.Prefix, raw[0])
	require.Equal(t, acc.ScriptHash().BytesBE(), raw[1:1+util.Uint160Size])
}

func TestVNDTBurn(t *testing.T) {
	c := newVNDTInvoker(t)
	amount := tokens(500)
	rest := new(big.Int).Sub(initialSupply(), amount)

	h := c.Invoke(t, stackitem.Null{}, "burn", amount)
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "Transfer",
		hashItem(c.CommitteeHash), stackitem.Null{}, intItem(amount))

	c.Invoke(t, rest, "balanceOf", c.CommitteeHash)
	c.Invoke(t, rest, "totalSupply")

	t.Run("not an owner", func(t *testing.T) {
		acc := c.NewAccount(t)
		c.WithSigners(acc).InvokeFail(t, vndtconst.ErrUnauthorizedAccount, "burn", amount)
		c.Invoke(t, rest, "totalSupply")
	})

	t.Run("insufficient balance", func(t *testing.T) {
		c.InvokeFail(t, vndtconst.ErrInsufficientBalance, "burn", new(big.Int).Add(rest, big.NewInt(1)))
	})
}

func TestVNDTTransfer(t *testing.T) {
	c := newVNDTInvoker(t)
	acc1 := c.NewAccount(t)
	acc2 := c.NewAccount(t)
	amount := tokens(100)

	h := c.Invoke(t, true, "transfer", c.CommitteeHash, acc1.ScriptHash(), amount, nil)
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "Transfer",
		hashItem(c.CommitteeHash), hashItem(acc1.ScriptHash()), intItem(amount))

	c.Invoke(t, amount, "balanceOf", acc1.ScriptHash())
	c.Invoke(t, new(big.Int).Sub(initialSupply(), amount), "balanceOf", c.CommitteeHash)

	cAcc1 := c.WithSigners(acc1)

	t.Run("insufficient balance", func(t *testing.T) {
		cAcc1.Invoke(t, false, "transfer", acc1.ScriptHash(), acc2.ScriptHash(), tokens(101), nil)
		c.Invoke(t, amount, "balanceOf", acc1.ScriptHash())
		c.Invoke(t, 0, "balanceOf", acc2.ScriptHash())
	})

	t.Run("not witnessed", func(t *testing.T) {
		c.Invoke(t, false, "transfer", acc1.ScriptHash(), acc2.ScriptHash(), tokens(1), nil)
	})

	t.Run("invalid receiver", func(t *testing.T) {
		cAcc1.InvokeFail(t, vndtconst.ErrInvalidReceiver, "transfer",
			acc1.ScriptHash(), util.Uint160{}, tokens(1), nil)
	})

	t.Run("negative amount", func(t *testing.T) {
		cAcc1.InvokeFail(t, vndtconst.ErrNegativeAmount, "transfer",
			acc1.ScriptHash(), acc2.ScriptHash(), -1, nil)
	})

	t.Run("to itself", func(t *testing.T) {
		cAcc1.Invoke(t, true, "transfer", acc1.ScriptHash(), acc1.ScriptHash(), amount, nil)
		c.Invoke(t, amount, "balanceOf", acc1.ScriptHash())
	})

	cAcc1.Invoke(t, true, "transfer", acc1.ScriptHash(), acc2.ScriptHash(), amount, nil)
	c.Invoke(t, 0, "balanceOf", acc1.ScriptHash())
	c.Invoke(t, amount, "balanceOf", acc2.ScriptHash())
	c.Invoke(t, initialSupply(), "totalSupply")
}

func TestVNDTAllowance(t *testing.T) {
	c := newVNDTInvoker(t)
	spender := c.NewAccount(t)
	receiver := c.NewAccount(t)
	cSpender := c.WithSigners(spender)

	owner := c.CommitteeHash
	allowed := tokens(50)

	h := c.Invoke(t, true, "approve", owner, spender.ScriptHash(), allowed)
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "Approval",
		hashItem(owner), hashItem(spender.ScriptHash()), intItem(allowed))
	c.Invoke(t, allowed, "allowance", owner, spender.ScriptHash())

	t.Run("approve is not witnessed", func(t *testing.T) {
		cSpender.InvokeFail(t, "witness check failed", "approve", owner, spender.ScriptHash(), tokens(1000))
	})

	t.Run("exceeds allowance", func(t *testing.T) {
		cSpender.InvokeFail(t, vndtconst.ErrInsufficientAllowance, "transferFrom",
			spender.ScriptHash(), owner, receiver.ScriptHash(), tokens(51), nil)
	})

	t.Run("spender is not witnessed", func(t *testing.T) {
		c.WithSigners(receiver).InvokeFail(t, "witness check failed", "transferFrom",
			spender.ScriptHash(), owner, receiver.ScriptHash(), tokens(1), nil)
	})

	cSpender.Invoke(t, true, "transferFrom", spender.ScriptHash(), owner, receiver.ScriptHash(), tokens(20), nil)
	c.Invoke(t, tokens(20), "balanceOf", receiver.ScriptHash())
	c.Invoke(t, tokens(30), "allowance", owner, spender.ScriptHash())

	t.Run("exceeds balance", func(t *testing.T) {
		cReceiver := c.WithSigners(receiver)
		cReceiver.Invoke(t, true, "approve", receiver.ScriptHash(), spender.ScriptHash(), tokens(100))
		cSpender.InvokeFail(t, vndtconst.ErrInsufficientBalance, "transferFrom",
			spender.ScriptHash(), receiver.ScriptHash(), owner, tokens(21), nil)
		c.Invoke(t, tokens(100), "allowance", receiver.ScriptHash(), spender.ScriptHash())
	})

	// approve overwrites the previous value
	c.Invoke(t, true, "approve", owner, spender.ScriptHash(), tokens(5))
	c.Invoke(t, tokens(5), "allowance", owner, spender.ScriptHash())

	c.Invoke(t, true, "approve", owner, spender.ScriptHash(), 0)
	c.Invoke(t, 0, "allowance", owner, spender.ScriptHash())
}

func TestVNDTTransferOwnership(t *testing.T) {
	c := newVNDTInvoker(t)
	acc := c.NewAccount(t)

	c.WithSigners(acc).InvokeFail(t, vndtconst.ErrUnauthorizedAccount, "transferOwnership", acc.ScriptHash())
	c.InvokeFail(t, vndtconst.ErrInvalidOwner, "transferOwnership", util.Uint160{})

	h := c.Invoke(t, stackitem.Null{}, "transferOwnership", acc.ScriptHash())
	requireEvent(t, c.CheckHalt(t, h), c.Hash, "OwnershipTransferred",
		hashItem(c.CommitteeHash), hashItem(acc.ScriptHash()))
	requireHash(t, c, acc.ScriptHash(), "owner")

	c.InvokeFail(t, vndtconst.ErrUnauthorizedAccount, "mint", acc.ScriptHash(), 1)
	c.WithSigners(acc).Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), 1)
}
