package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

var (
	// ErrWitnessFailed appears when the method must be called
	// by the account holder but was not.
	ErrWitnessFailed = "witness check failed"
)

// CheckWitness checks that the account either signed the transaction or
// is the contract calling the current one. It panics with ErrWitnessFailed
// message on fail.
func CheckWitness(account interop.Hash160) {
	if !IsUsableAddress(account) {
		panic(ErrWitnessFailed)
	}
}

// IsUsableAddress returns true if the account can be charged in the current
// invocation context.
func IsUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		// Check if a smart contract is calling script hash
		callingScriptHash := runtime.GetCallingScriptHash()
		if addr.Equals(callingScriptHash) {
			return true
		}
	}

	return false
}

// TransactionSender returns the account paying for the current transaction.
func TransactionSender() interop.Hash160 {
	return runtime.GetScriptContainer().Sender
}
