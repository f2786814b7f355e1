/*
Package vndtconst contains VNDT token constants shared between the contract
and off-chain code.
*/
package vndtconst

const (
	// Symbol is a NEP-17 token symbol.
	Symbol = "VNDT"
	// Name is a human-readable token name.
	Name = "Vietnam Dong Token"
	// Decimals is a token precision.
	Decimals = 18
	// DecimalsFactor is 10^Decimals.
	DecimalsFactor = 1_000_000_000_000_000_000
	// InitialSupplyTokens is the amount of whole tokens minted to the owner
	// on deploy.
	InitialSupplyTokens = 100_000_000
)

// Errors thrown by the token contract.
const (
	ErrNegativeAmount        = "negative amount"
	ErrInvalidSender         = "invalid sender"
	ErrInvalidReceiver       = "invalid receiver"
	ErrInvalidSpender        = "invalid spender"
	ErrInvalidApprover       = "invalid approver"
	ErrInvalidOwner          = "invalid owner"
	ErrInsufficientBalance   = "insufficient balance"
	ErrInsufficientAllowance = "insufficient allowance"
	ErrUnauthorizedAccount   = "unauthorized account"
)
