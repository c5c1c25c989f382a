package host

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Transaction is a request to call the ledger.
type Transaction struct {
	// Trigger of the call, trigger.Application for operations.
	Trigger trigger.Type
	Method  string
	Args    []stackitem.Item

	// Caller is a hash of the contract calling the ledger, zero for direct
	// calls. Contracts spend their own tokens without their own witnesses,
	// but the call must be witnessed by the controller of the contract.
	Caller util.Uint160

	// Nonce makes otherwise equal transactions different.
	Nonce uint32

	Witnesses []Witness
}

// Witness proves that Transaction is authorized by the account of the
// public key.
type Witness struct {
	PublicKey *keys.PublicKey
	Signature []byte
}

// ErrInvalidWitness is returned for transactions with witnesses not
// matching the signed data.
var ErrInvalidWitness = errors.New("invalid witness")

// signedPart returns binary data covered by the witnesses. It's bound to
// the ledger so that transactions can't be replayed on another ledger.
func (tx *Transaction) signedPart(ledger util.Uint160) ([]byte, error) {
	w := io.NewBufBinWriter()

	w.WriteBytes(ledger.BytesBE())
	w.WriteB(byte(tx.Trigger))
	w.WriteString(tx.Method)
	w.WriteVarUint(uint64(len(tx.Args)))

	for i := range tx.Args {
		b, err := stackitem.Serialize(tx.Args[i])
		if err != nil {
			return nil, fmt.Errorf("serialize argument #%d: %w", i, err)
		}
		w.WriteVarBytes(b)
	}

	w.WriteBytes(tx.Caller.BytesBE())
	w.WriteU32LE(tx.Nonce)

	if w.Err != nil {
		return nil, w.Err
	}

	return w.Bytes(), nil
}

// Sign adds witness of the key to the Transaction addressed to the given
// ledger.
func (tx *Transaction) Sign(ledger util.Uint160, key *keys.PrivateKey) error {
	data, err := tx.signedPart(ledger)
	if err != nil {
		return err
	}

	tx.Witnesses = append(tx.Witnesses, Witness{
		PublicKey: key.PublicKey(),
		Signature: key.Sign(data),
	})

	return nil
}

// verifyWitnesses checks all the witnesses and returns accounts they
// belong to.
func (tx *Transaction) verifyWitnesses(ledger util.Uint160) ([]util.Uint160, error) {
	if len(tx.Witnesses) == 0 {
		return nil, nil
	}

	data, err := tx.signedPart(ledger)
	if err != nil {
		return nil, err
	}

	digest := hash.Sha256(data)
	res := make([]util.Uint160, 0, len(tx.Witnesses))

	for i := range tx.Witnesses {
		w := tx.Witnesses[i]
		if w.PublicKey == nil || !w.PublicKey.Verify(w.Signature, digest.BytesBE()) {
			return nil, fmt.Errorf("%w #%d", ErrInvalidWitness, i)
		}
		res = append(res, w.PublicKey.GetScriptHash())
	}

	return res, nil
}

// invocation implements ledger.Invocation for the verified Transaction.
type invocation struct {
	signers []util.Uint160
	caller  util.Uint160
}

func (x invocation) CheckWitness(acc util.Uint160) bool {
	for i := range x.signers {
		if x.signers[i].Equals(acc) {
			return true
		}
	}
	return false
}

func (x invocation) CallingScriptHash() util.Uint160 {
	return x.caller
}
