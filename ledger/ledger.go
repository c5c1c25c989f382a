package ledger

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// BalanceOf returns token balance of the account. Malformed account
// identifiers have zero balance.
func (t *Token) BalanceOf(st Store, account []byte) *big.Int {
	if !IsAddress(account) {
		t.fail("balanceOf", ErrInvalidAddress)
		return big.NewInt(0)
	}

	return getBalance(st, accountFromBytes(account))
}

// Transfer moves amount of tokens from one account to another. Transfer
// must be authorized by the sender, see Guard. Store is not modified if the
// transfer fails. Transfer to the sender itself succeeds without any changes
// and notifications.
func (t *Token) Transfer(st Store, inv Invocation, from, to []byte, amount *big.Int) bool {
	if err := t.transfer(st, inv, from, to, amount); err != nil {
		return t.fail("transfer", err, zap.Stringer("amount", amount))
	}
	return true
}

func (t *Token) transfer(st Store, inv Invocation, rawFrom, rawTo []byte, amount *big.Int) error {
	if !IsAddress(rawFrom) || !IsAddress(rawTo) {
		return ErrInvalidAddress
	}

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	from, to := accountFromBytes(rawFrom), accountFromBytes(rawTo)

	if !t.payable.IsPayable(to) {
		return ErrNotPayable
	}

	if !t.guard.IsAuthorized(inv, from) {
		return ErrUnauthorized
	}

	if getBalance(st, from).Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	if from.Equals(to) {
		return nil
	}

	debit(st, from, amount)
	credit(st, to, amount)

	t.emitter.Emit(TransferEvent{
		From:   &from,
		To:     to,
		Amount: new(big.Int).Set(amount),
	})

	return nil
}

// credit increases account balance.
func credit(st Store, account util.Uint160, amount *big.Int) {
	putBalance(st, account, new(big.Int).Add(getBalance(st, account), amount))
}

// debit decreases account balance. Sufficiency must be checked by the
// caller, debit panics on negative result.
func debit(st Store, account util.Uint160, amount *big.Int) {
	putBalance(st, account, new(big.Int).Sub(getBalance(st, account), amount))
}
