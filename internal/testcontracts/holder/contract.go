package holder

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const receivedKey = "received"

// OnNEP17Payment accepts any NEP-17 token and accumulates received amount.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	var total int
	if v := storage.Get(ctx, receivedKey); v != nil {
		total = v.(int)
	}

	storage.Put(ctx, receivedKey, total+amount)
}

// Received returns the total amount of tokens paid to the contract.
func Received() int {
	v := storage.Get(storage.GetReadOnlyContext(), receivedKey)
	if v == nil {
		return 0
	}
	return v.(int)
}

// Send transfers contract funds of the given token without any witness.
func Send(token, to interop.Hash160, amount int) bool {
	return contract.Call(token, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), to, amount, nil).(bool)
}
