/*
Package vndt implements VNDT token contract.

VNDT (Vietnam Dong Token) is a NEP-17 compatible token with 18 decimals used
as the settlement asset of the DeBank ledger. The whole initial supply is
minted to the owner on deploy; after that only the owner can mint new tokens
or burn tokens from its own balance.

In addition to NEP-17 methods the contract supports allowances: the account
holder approves an amount for a spender, and the spender moves tokens with
transferFrom. DeBank uses this to pull deposits from user accounts.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification. Mint is
reported with null sender, burn with null receiver.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. It is produced when the allowance is set.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer

OwnershipTransferred notification. It is produced when the owner passes the
token to another account.

	OwnershipTransferred:
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160
*/
package vndt
