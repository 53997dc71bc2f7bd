/*
Package b4real implements B4REAL token contract.

B4REAL is a NEP-17 compatible token with a transfer tax. The whole supply
(50 000 000 tokens with 18 decimals) is minted to the sender of the deploying
transaction, who also becomes the owner. There is no minting or burning after
that.

Every transfer withholds TaxFee/10^TaxFeeDecimals percent of the amount and
sends it to the tax address, the recipient gets the rest. The tax is skipped if
fees are waived with ToggleTransactionFees or if the sender or the recipient has
its whitelisted flag set to false. The flag is true for every account by default
and is switched by the owner:

	exemptFromFee(account) -> whitelisted(account) == false, transfers are not taxed
	includeInFee(account)  -> whitelisted(account) == true, transfers are taxed

The owner is the only holder of the owner role (see OwnerRole and HasRole). It
manages the tax parameters, the whitelist, updates the contract and can pass
the role to another account with TransferOwnership. Administrative methods
fail with "Address does not have admin permission" for any other caller.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification. Taxed transfer
produces two of them: the net amount to the recipient and the tax to the tax
address.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Approval notification. It is produced when an allowance is set.

	Approval:
	  - name: owner
	    type: Hash160
	  - name: spender
	    type: Hash160
	  - name: amount
	    type: Integer

RoleGranted and RoleRevoked notifications. They are produced on deployment and
on ownership transfer.

	RoleGranted:
	  - name: role
	    type: Integer
	  - name: account
	    type: Hash160
	RoleRevoked:
	  - name: role
	    type: Integer
	  - name: account
	    type: Hash160

TaxFeeChanged, TaxAddressChanged and TransactionFeesToggled notifications are
produced on tax parameter changes.

	TaxFeeChanged:
	  - name: taxFee
	    type: Integer
	  - name: taxFeeDecimals
	    type: Integer
	TaxAddressChanged:
	  - name: previous
	    type: Hash160
	  - name: current
	    type: Hash160
	TransactionFeesToggled:
	  - name: waiveFees
	    type: Boolean

WhitelistChanged notification. It carries the new whitelisted flag value.

	WhitelistChanged:
	  - name: account
	    type: Hash160
	  - name: whitelisted
	    type: Boolean

# Contract storage scheme

Balances are stored by 'a' prefix followed by account script hash, zero
balances are deleted. Allowances use 'l' prefix followed by owner and spender
script hashes. The owner role holder is stored by 'r' prefix followed by the
role number. Whitelist flags use 'w' prefix followed by account script hash
with single byte value, 1 for included and 0 for exempt accounts. Fee parameters are
stored as a serialized structure by 'p' key, total supply by 's' key.
*/
package b4real
