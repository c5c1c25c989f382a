package lunanext

import (
	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {}

// BalanceOf reads balances written by the previous contract version.
func BalanceOf(account interop.Hash160) int {
	v := storage.Get(storage.GetReadOnlyContext(), append([]byte{lunaconst.AssetPrefix}, account...))
	if v == nil {
		return 0
	}
	return v.(int)
}

// Revision distinguishes upgraded code from the first release.
func Revision() int {
	return 2
}
