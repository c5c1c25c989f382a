package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// zeroAddress is a reserved script hash which never identifies an account.
const zeroAddress = "\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00"

// IsAddress checks that addr is a script hash of the proper length and is not
// the reserved all-zero one.
func IsAddress(addr interop.Hash160) bool {
	return len(addr) == interop.Hash160Len && !BytesEqual(addr, []byte(zeroAddress))
}

// IsAuthorized checks whether the current invocation acts on behalf of addr:
// either the carrier transaction is witnessed by addr or addr is the script
// hash of the calling contract. Malformed addresses are never authorized.
func IsAuthorized(addr interop.Hash160) bool {
	if !IsAddress(addr) {
		return false
	}

	if runtime.CheckWitness(addr) {
		return true
	}

	return runtime.GetCallingScriptHash().Equals(addr)
}

// BytesEqual compares two slice of bytes by wrapping them into strings,
// which is necessary with new util.Equal interop behaviour, see neo-go#1176.
func BytesEqual(a []byte, b []byte) bool {
	return util.Equals(string(a), string(b))
}
