package ledger

import "errors"

var (
	// ErrInvalidAddress is a reason of failures caused by the account
	// identifier which is not 20 bytes long or is all-zero.
	ErrInvalidAddress = errors.New("account SHOULD be a legal address")

	// ErrInvalidAmount is a reason of transfers with non-positive amount.
	ErrInvalidAmount = errors.New("amount MUST be greater than 0")

	// ErrNotPayable is a reason of transfers to accounts that can't
	// receive tokens.
	ErrNotPayable = errors.New("receiver is not payable")

	// ErrUnauthorized is a reason of transfers not authorized by the sender.
	ErrUnauthorized = errors.New("not authorized by the sender")

	// ErrInsufficientFunds is a reason of transfers exceeding sender balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotOwner is a reason of privileged operations invoked on behalf of
	// somebody else than the owner.
	ErrNotOwner = errors.New("only allowed to be called by owner")

	// ErrAlreadyDeployed is a reason of repeated deployment.
	ErrAlreadyDeployed = errors.New("already deployed")

	// ErrNotDeployed is a reason of operations requiring deployed ledger.
	ErrNotDeployed = errors.New("not deployed")

	// ErrMigrationUnavailable is a reason of upgrades when no Migrator is
	// configured.
	ErrMigrationUnavailable = errors.New("code migration is not available")

	// ErrUnknownOperation is returned by ParseOperation for names outside of
	// the token interface.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArguments is returned by ParseOperation when positional
	// arguments do not match the operation.
	ErrInvalidArguments = errors.New("invalid arguments")
)
