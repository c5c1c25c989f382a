package ledger

import (
	"math/big"

	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Store is a key-value storage of the ledger. Store is expected to be scoped
// to a single invocation: the substrate applies all changes made through it
// or none of them. Failures of the underlying database are not ledger
// failures, implementations may panic on them.
type Store interface {
	// Get returns value stored by key or nil if there is no such entry.
	Get(key []byte) []byte
	// Put saves value by key overwriting the previous one.
	Put(key, value []byte)
	// Delete removes the entry, missing entries are ignored.
	Delete(key []byte)
}

var (
	totalSupplyKey = []byte(lunaconst.TotalSupplyKey)
	ownerKey       = []byte(lunaconst.OwnerKey)
)

// BalanceKey returns storage key of the account balance.
func BalanceKey(account util.Uint160) []byte {
	return append([]byte{lunaconst.AssetPrefix}, account.BytesBE()...)
}

// getInt reads integer value in NeoVM encoding, missing entries are zero.
func getInt(st Store, key []byte) *big.Int {
	b := st.Get(key)
	if b == nil {
		return big.NewInt(0)
	}

	return bigint.FromBytes(b)
}

func putInt(st Store, key []byte, v *big.Int) {
	st.Put(key, bigint.ToBytes(v))
}

func getBalance(st Store, account util.Uint160) *big.Int {
	return getInt(st, BalanceKey(account))
}

// putBalance saves balance keeping storage sparse: zero balances are deleted.
func putBalance(st Store, account util.Uint160, v *big.Int) {
	switch v.Sign() {
	case 0:
		st.Delete(BalanceKey(account))
	case 1:
		putInt(st, BalanceKey(account), v)
	default:
		panic("negative balance of " + account.StringLE())
	}
}
