/*
Package ledger implements LUNA token ledger outside of the Neo virtual machine.

It is the same fixed-supply token as the one provided by the contracts/luna
package, but with all the environment services passed in explicitly: every
operation receives the Store of the current invocation, the Invocation it
runs in provides witness checks and calling script hash, and the Token
instance is configured with Guard, PayableChecker, Emitter and Migrator
implementations. This makes it possible to run the ledger on a plain
key-value database (see host package) and to test every rule in isolation.

Storage layout is shared with the contract and described in the lunaconst
package.

Operations never return errors to the caller: like the contract, they report
failures with false (zero, empty) results and log the reason. The reasons are
the Err* values of this package.

Named operations with positional arguments are resolved into Operation
values by ParseOperation and executed by Token.Execute; Token.Invoke combines
both and handles trigger types.
*/
package ledger
