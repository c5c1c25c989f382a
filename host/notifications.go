package host

import (
	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/luna-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// notifications buffers ledger events of the current invocation. They are
// released only if the invocation is committed.
type notifications struct {
	ledger util.Uint160
	events []state.NotificationEvent
}

// Emit implements ledger.Emitter.
func (x *notifications) Emit(e ledger.TransferEvent) {
	var from stackitem.Item = stackitem.Null{}
	if e.From != nil {
		from = stackitem.NewByteArray(e.From.BytesBE())
	}

	x.events = append(x.events, state.NotificationEvent{
		ScriptHash: x.ledger,
		Name:       lunaconst.TransferEvent,
		Item: stackitem.NewArray([]stackitem.Item{
			from,
			stackitem.NewByteArray(e.To.BytesBE()),
			stackitem.NewBigInteger(e.Amount),
		}),
	})
}
