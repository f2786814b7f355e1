/*
Package debank implements DeBank contract which keeps custodial VNDT accounts.

Users deposit VNDT tokens into the ledger and then move funds between ledger
accounts without touching the token contract. Each transfer is charged a fee
in basis points which is paid out in VNDT to the fee receiver, and the total
amount an account sends during a UTC day is limited. Every deposit,
withdrawal and transfer leaves a record in the global history. Records are
numbered from 1 and each account keeps the list of its own records.

Deposits pull tokens with VNDT transferFrom, so the user approves the amount
for the ledger first. Savings deposits are accepted the same way but are kept
apart from the spendable balance.

The bank owner sets the daily limit, the fee rate and the fee receiver, can
pause the ledger and recover VNDT tokens held by the contract.

# Contract notifications

AccountOpened notification. It is produced when the account receives funds
in the ledger for the first time.

	AccountOpened:
	  - name: account
	    type: Hash160

Deposited notification. It is produced on successful deposit.

	Deposited:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: balance
	    type: Integer

Withdrawn notification. It is produced on successful withdrawal.

	Withdrawn:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: balance
	    type: Integer

Transferred notification. Amount is the gross value debited from the sender,
the recipient is credited with amount minus fee.

	Transferred:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: fee
	    type: Integer

SavingsDeposited notification.

	SavingsDeposited:
	  - name: account
	    type: Hash160
	  - name: id
	    type: Integer
	  - name: amount
	    type: Integer
	  - name: durationMonths
	    type: Integer

DailyTransferLimitUpdated, TransferFeeRateUpdated and FeeReceiverUpdated
notifications carry the new value.

	DailyTransferLimitUpdated:
	  - name: limit
	    type: Integer
	TransferFeeRateUpdated:
	  - name: rate
	    type: Integer
	FeeReceiverUpdated:
	  - name: receiver
	    type: Hash160

Paused and Unpaused notifications carry the bank owner.

	Paused:
	  - name: account
	    type: Hash160
	Unpaused:
	  - name: account
	    type: Hash160

VNDTRecovered notification.

	VNDTRecovered:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

OwnershipTransferred notification.

	OwnershipTransferred:
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160
*/
package debank
