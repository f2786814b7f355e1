/*
Package debankconst contains DeBank ledger constants shared between the
contract and off-chain code.
*/
package debankconst

const (
	// TokenDecimalsFactor is 10^18, the precision of VNDT amounts.
	TokenDecimalsFactor = 1_000_000_000_000_000_000
	// DefaultDailyTransferLimitTokens is the initial per-account daily
	// transfer limit in whole tokens.
	DefaultDailyTransferLimitTokens = 1_000_000_000
	// DefaultTransferFeeRate is the initial transfer fee in basis points.
	DefaultTransferFeeRate = 10
	// FeeRateDenominator is the number of basis points in 100%.
	FeeRateDenominator = 10_000
	// SecondsPerDay is used to derive the day index of a timestamp.
	SecondsPerDay = 86_400

	// MinSavingsDuration and MaxSavingsDuration bound savings term in months.
	MinSavingsDuration = 1
	MaxSavingsDuration = 60
)

// Transaction history record types.
const (
	TxDeposit     = "Deposit"
	TxWithdraw    = "Withdraw"
	TxTransferOut = "TransferOut"
	TxTransferIn  = "TransferIn"
)

// Errors thrown by the ledger contract.
const (
	ErrZeroDeposit         = "Deposit amount must be greater than zero"
	ErrZeroWithdraw        = "Withdraw amount must be greater than zero"
	ErrZeroTransfer        = "Transfer amount must be greater than zero"
	ErrZeroSavings         = "Savings deposit amount must be greater than zero"
	ErrZeroRecover         = "Recover amount must be greater than zero"
	ErrInsufficientBalance = "Insufficient balance"
	ErrAccountNotExist     = "Account does not exist"
	ErrSelfTransfer        = "Cannot transfer to yourself"
	ErrInvalidRecipient    = "Zero address not allowed"
	ErrDailyLimitExceeded  = "Daily transfer limit exceeded"
	ErrOnlyOwner           = "Only bank owner can call this function"
	ErrNotEnoughToRecover  = "Not enough VNDT in contract to recover"
	ErrPaused              = "Pausable: paused"
	ErrNotPaused           = "Pausable: not paused"
	ErrInvalidLimit        = "Invalid daily transfer limit"
	ErrInvalidFeeRate      = "Invalid transfer fee rate"
	ErrInvalidFeeReceiver  = "Invalid fee receiver"
	ErrInvalidOwner        = "Invalid owner"
	ErrInvalidToken        = "Invalid token"
	ErrInvalidDuration     = "Savings duration must be between 1 and 60 months"
	ErrOnlyTokenAccepted   = "Only VNDT is accepted"
	ErrTokenTransferFailed = "VNDT transfer failed"
	ErrTxNotFound          = "Transaction not found"
)

// Ledger notification names.
const (
	EventAccountOpened             = "AccountOpened"
	EventDeposited                 = "Deposited"
	EventWithdrawn                 = "Withdrawn"
	EventTransferred               = "Transferred"
	EventSavingsDeposited          = "SavingsDeposited"
	EventDailyTransferLimitUpdated = "DailyTransferLimitUpdated"
	EventTransferFeeRateUpdated    = "TransferFeeRateUpdated"
	EventFeeReceiverUpdated        = "FeeReceiverUpdated"
	EventPaused                    = "Paused"
	EventUnpaused                  = "Unpaused"
	EventVNDTRecovered             = "VNDTRecovered"
	EventOwnershipTransferred      = "OwnershipTransferred"
)
