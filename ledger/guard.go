package ledger

import "github.com/nspcc-dev/neo-go/pkg/util"

// Invocation describes the context of the currently executed operation
// provided by the host environment.
type Invocation interface {
	// CheckWitness reports whether the invocation carries a valid
	// cryptographic witness of the given account.
	CheckWitness(util.Uint160) bool
	// CallingScriptHash returns identifier of the program which directly
	// invoked the current operation. It is zero for external invocations.
	CallingScriptHash() util.Uint160
}

// Guard decides whether the invocation is entitled to act on behalf of the
// account.
type Guard interface {
	IsAuthorized(inv Invocation, account util.Uint160) bool
}

// WitnessGuard authorizes an invocation for the account if either the
// invocation is witnessed by the account or the account is the calling
// script, so contracts can spend their own funds.
type WitnessGuard struct{}

// IsAuthorized implements Guard.
func (WitnessGuard) IsAuthorized(inv Invocation, account util.Uint160) bool {
	return inv.CheckWitness(account) || inv.CallingScriptHash().Equals(account)
}

// PayableChecker tells whether the account can receive tokens.
type PayableChecker interface {
	IsPayable(util.Uint160) bool
}

type anyPayable struct{}

func (anyPayable) IsPayable(util.Uint160) bool { return true }
