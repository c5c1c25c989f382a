/*
Package luna implements LUNA token contract.

LUNA is a fixed-supply NEP-17 token. The whole supply is minted once by
Deploy method to the account specified as the contract deployment data, and
that account becomes the contract owner. The owner can hand the ownership
over with TransferOwnership and replace contract code with Upgrade, contract
storage survives the upgrade.

Tokens can be moved by the holder account witness or by the holder contract
itself (calling script hash), so other contracts are able to own LUNA.
Soft failures (malformed addresses, insufficient funds, missing witness) are
reported with false result and a log message rather than an exception.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification. Sender is
empty only for the deployment mint.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package luna

/*
Contract storage model.

See lunaconst package for the key-value format.
*/
