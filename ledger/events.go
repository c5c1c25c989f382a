package ledger

import (
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// TransferEvent is a notification about tokens moved between accounts.
type TransferEvent struct {
	// From is nil for the tokens minted by deployment.
	From   *util.Uint160
	To     util.Uint160
	Amount *big.Int
}

// IsMint checks whether tokens were created rather than moved.
func (x TransferEvent) IsMint() bool {
	return x.From == nil
}

// Emitter passes transfer notifications to the external observers. Emit
// must not fail or block: the notification has no feedback into the ledger.
type Emitter interface {
	Emit(TransferEvent)
}

// EmitterFunc is a functional Emitter.
type EmitterFunc func(TransferEvent)

// Emit implements Emitter.
func (f EmitterFunc) Emit(e TransferEvent) { f(e) }

// NopEmitter drops all notifications.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(TransferEvent) {}
