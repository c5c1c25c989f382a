package ledger

import (
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// IsAddress checks that b can identify an account: it must be exactly
// util.Uint160Size bytes long and must not be all-zero.
func IsAddress(b []byte) bool {
	if len(b) != util.Uint160Size {
		return false
	}

	for i := range b {
		if b[i] != 0 {
			return true
		}
	}

	return false
}

// accountFromBytes decodes account previously checked by IsAddress. Account
// bytes are stored as is (big-endian) as it's done by NeoVM for Hash160.
func accountFromBytes(b []byte) util.Uint160 {
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		panic(err) // never happens after IsAddress
	}
	return u
}
