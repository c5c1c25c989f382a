package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// parseArg converts 'type:value' command line argument into stack item.
// Supported types:
//
//	int     decimal integer
//	bool    true or false
//	string  UTF-8 string
//	bytes   hex-encoded bytes
//	addr    Neo address, encoded as 20-byte account
//	hash    LE hex script hash, encoded as 20-byte account
//
// Values without type are treated as strings.
func parseArg(s string) (stackitem.Item, error) {
	typ, val, ok := strings.Cut(s, ":")
	if !ok {
		return stackitem.NewByteArray([]byte(s)), nil
	}

	switch typ {
	case "int":
		n, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer '%s'", val)
		}
		return stackitem.NewBigInteger(n), nil
	case "bool":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean '%s': %w", val, err)
		}
		return stackitem.NewBool(b), nil
	case "string":
		return stackitem.NewByteArray([]byte(val)), nil
	case "bytes":
		b, err := hex.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("invalid hex '%s': %w", val, err)
		}
		return stackitem.NewByteArray(b), nil
	case "addr":
		h, err := address.StringToUint160(val)
		if err != nil {
			return nil, fmt.Errorf("invalid address '%s': %w", val, err)
		}
		return stackitem.NewByteArray(h.BytesBE()), nil
	case "hash":
		h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(val, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid script hash '%s': %w", val, err)
		}
		return stackitem.NewByteArray(h.BytesBE()), nil
	default:
		return nil, fmt.Errorf("unsupported argument type '%s'", typ)
	}
}

func parseArgs(ss []string) ([]stackitem.Item, error) {
	res := make([]stackitem.Item, len(ss))

	for i := range ss {
		var err error

		res[i], err = parseArg(ss[i])
		if err != nil {
			return nil, fmt.Errorf("argument #%d: %w", i, err)
		}
	}

	return res, nil
}

// parseAccount decodes Neo address or LE hex script hash.
func parseAccount(s string) (util.Uint160, error) {
	h, err := address.StringToUint160(s)
	if err == nil {
		return h, nil
	}

	h, err = util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, fmt.Errorf("'%s' is neither address nor script hash", s)
	}

	return h, nil
}
