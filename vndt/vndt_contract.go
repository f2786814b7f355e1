package vndt

import (
	"github.com/debank-vn/debank-contract/common"
	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ownerKey  = 'o'
	supplyKey = 's'

	balancePrefix   = 'b'
	allowancePrefix = 'l'
)

func _deploy(data interface{}, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	owner := common.TransactionSender()
	if data != nil {
		args := data.(struct {
			owner interop.Hash160
		})
		if args.owner != nil {
			owner = args.owner
		}
	}

	if common.IsNull(owner) {
		panic(vndtconst.ErrInvalidOwner)
	}

	storage.Put(ctx, ownerKey, owner)

	factor := vndtconst.DecimalsFactor
	mint(ctx, owner, vndtconst.InitialSupplyTokens*factor)

	runtime.Log("VNDT contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the token owner.
func Update(script []byte, manifest []byte, data interface{}) {
	ctx := storage.GetReadOnlyContext()
	checkOwner(ctx)

	common.UpdateContract(script, manifest, data)
	runtime.Log("VNDT contract updated")
}

// Symbol is a NEP-17 standard method that returns VNDT token symbol.
func Symbol() string {
	return vndtconst.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of VNDT
// balances.
func Decimals() int {
	return vndtconst.Decimals
}

// Name returns human-readable token name.
func Name() string {
	return vndtconst.Name
}

// TotalSupply is a NEP-17 standard method that returns total amount of
// VNDT tokens in circulation.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, supplyKey)
}

// BalanceOf is a NEP-17 standard method that returns VNDT balance of the
// specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return balanceOf(ctx, account)
}

// Owner returns the account allowed to mint, burn and update the token.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// Allowance returns the amount spender is still allowed to take from
// owner's balance with TransferFrom.
func Allowance(owner, spender interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, allowanceKey(owner, spender))
}

// Transfer is a NEP-17 standard method that transfers VNDT tokens from one
// account to another. It returns false if the sender has not enough tokens
// or did not witness the transaction.
func Transfer(from, to interop.Hash160, amount int, data interface{}) bool {
	ctx := storage.GetContext()

	if amount < 0 {
		panic(vndtconst.ErrNegativeAmount)
	}
	if len(from) != interop.Hash160Len {
		panic(vndtconst.ErrInvalidSender)
	}
	if common.IsNull(to) {
		panic(vndtconst.ErrInvalidReceiver)
	}

	if !common.IsUsableAddress(from) {
		runtime.Log("transfer not witnessed by the sender")
		return false
	}

	if !move(ctx, from, to, amount) {
		runtime.Log(vndtconst.ErrInsufficientBalance)
		return false
	}

	postTransfer(from, to, amount, data)
	return true
}

// Approve sets the amount spender can take from owner's balance. The new
// value replaces the previous one.
func Approve(owner, spender interop.Hash160, amount int) bool {
	ctx := storage.GetContext()

	if amount < 0 {
		panic(vndtconst.ErrNegativeAmount)
	}
	if len(owner) != interop.Hash160Len {
		panic(vndtconst.ErrInvalidApprover)
	}
	if common.IsNull(spender) {
		panic(vndtconst.ErrInvalidSpender)
	}

	common.CheckWitness(owner)

	setInt(ctx, allowanceKey(owner, spender), amount)
	runtime.Notify("Approval", owner, spender, amount)

	return true
}

// TransferFrom moves tokens from one account to another on behalf of the
// spender, consuming spender's allowance.
func TransferFrom(spender, from, to interop.Hash160, amount int, data interface{}) bool {
	ctx := storage.GetContext()

	if amount < 0 {
		panic(vndtconst.ErrNegativeAmount)
	}
	if len(from) != interop.Hash160Len {
		panic(vndtconst.ErrInvalidSender)
	}
	if common.IsNull(to) {
		panic(vndtconst.ErrInvalidReceiver)
	}

	common.CheckWitness(spender)

	key := allowanceKey(from, spender)
	allowed := common.GetInt(ctx, key)
	if allowed < amount {
		panic(vndtconst.ErrInsufficientAllowance)
	}

	if !move(ctx, from, to, amount) {
		panic(vndtconst.ErrInsufficientBalance)
	}

	setInt(ctx, key, allowed-amount)
	postTransfer(from, to, amount, data)

	return true
}

// Mint issues new tokens to the account. It can be invoked only by the
// token owner.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkOwner(ctx)

	if amount < 0 {
		panic(vndtconst.ErrNegativeAmount)
	}
	if common.IsNull(to) {
		panic(vndtconst.ErrInvalidReceiver)
	}

	mint(ctx, to, amount)
}

// Burn destroys tokens from the owner's own balance. It can be invoked only
// by the token owner.
func Burn(amount int) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)

	if amount < 0 {
		panic(vndtconst.ErrNegativeAmount)
	}

	balance := balanceOf(ctx, owner)
	if balance < amount {
		panic(vndtconst.ErrInsufficientBalance)
	}

	setInt(ctx, balanceKey(owner), balance-amount)
	setInt(ctx, []byte{supplyKey}, common.GetInt(ctx, supplyKey)-amount)

	var to interop.Hash160
	runtime.Notify("Transfer", owner, to, amount)
}

// TransferOwnership passes token ownership to another account. It can be
// invoked only by the current owner.
func TransferOwnership(newOwner interop.Hash160) {
	ctx := storage.GetContext()
	owner := checkOwner(ctx)

	if common.IsNull(newOwner) {
		panic(vndtconst.ErrInvalidOwner)
	}

	storage.Put(ctx, ownerKey, newOwner)
	runtime.Notify("OwnershipTransferred", owner, newOwner)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func mint(ctx storage.Context, to interop.Hash160, amount int) {
	setInt(ctx, balanceKey(to), balanceOf(ctx, to)+amount)
	setInt(ctx, []byte{supplyKey}, common.GetInt(ctx, supplyKey)+amount)

	var from interop.Hash160
	runtime.Notify("Transfer", from, to, amount)
	postTransfer(from, to, amount, nil)
}

func move(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	fromBalance := balanceOf(ctx, from)
	if fromBalance < amount {
		return false
	}

	if !from.Equals(to) && amount != 0 {
		setInt(ctx, balanceKey(from), fromBalance-amount)
		setInt(ctx, balanceKey(to), balanceOf(ctx, to)+amount)
	}

	runtime.Notify("Transfer", from, to, amount)
	return true
}

// postTransfer calls onNEP17Payment of the receiver if it is a contract.
func postTransfer(from, to interop.Hash160, amount int, data interface{}) {
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
}

func checkOwner(ctx storage.Context) interop.Hash160 {
	owner := getOwner(ctx)
	if !runtime.CheckWitness(owner) {
		panic(vndtconst.ErrUnauthorizedAccount + ": " + common.Address(common.TransactionSender()))
	}

	return owner
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	return common.GetInt(ctx, balanceKey(account))
}

// setInt removes zero values to keep storage clean.
func setInt(ctx storage.Context, key []byte, value int) {
	if value == 0 {
		storage.Delete(ctx, key)
		return
	}

	storage.Put(ctx, key, value)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	return append(append([]byte{allowancePrefix}, owner...), spender...)
}
