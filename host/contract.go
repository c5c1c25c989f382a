package host

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/luna-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Contract is a record of the contract known to the Host.
type Contract struct {
	ID            int32                `json:"id"`
	Hash          util.Uint160         `json:"hash"`
	Controller    util.Uint160         `json:"controller"`
	UpdateCounter uint16               `json:"updatecounter"`
	Properties    ledger.PropertyState `json:"properties"`

	Script        []byte `json:"script"`
	ParameterList []byte `json:"parameters"`
	ReturnType    byte   `json:"returntype"`

	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`
}

// ErrContractNotFound is returned for unknown contracts.
var ErrContractNotFound = errors.New("contract not found")

// ErrContractExists is returned on attempt to register contract twice.
var ErrContractExists = errors.New("contract already exists")

// ErrCallerNotWitnessed is returned for calls on behalf of the contract
// which are not witnessed by its controller. Contracts without controller
// never call the ledger.
var ErrCallerNotWitnessed = errors.New("calling contract is not witnessed by its controller")

// EncodeBinary implements io.Serializable.
func (c *Contract) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(uint32(c.ID))
	w.WriteBytes(c.Hash.BytesBE())
	w.WriteBytes(c.Controller.BytesBE())
	w.WriteU16LE(c.UpdateCounter)
	w.WriteB(byte(c.Properties))
	w.WriteVarBytes(c.Script)
	w.WriteVarBytes(c.ParameterList)
	w.WriteB(c.ReturnType)
	w.WriteString(c.Name)
	w.WriteString(c.Version)
	w.WriteString(c.Author)
	w.WriteString(c.Email)
	w.WriteString(c.Description)
}

// DecodeBinary implements io.Serializable.
func (c *Contract) DecodeBinary(r *io.BinReader) {
	c.ID = int32(r.ReadU32LE())
	r.ReadBytes(c.Hash[:])
	r.ReadBytes(c.Controller[:])
	c.UpdateCounter = r.ReadU16LE()
	c.Properties = ledger.PropertyState(r.ReadB())
	c.Script = r.ReadVarBytes()
	c.ParameterList = r.ReadVarBytes()
	c.ReturnType = r.ReadB()
	c.Name = r.ReadString()
	c.Version = r.ReadString()
	c.Author = r.ReadString()
	c.Email = r.ReadString()
	c.Description = r.ReadString()
}

func contractKey(h util.Uint160) []byte {
	return append([]byte{prefixContract}, h.BytesBE()...)
}

// getContract reads contract record from the storage.
func getContract(st storage.Store, h util.Uint160) (*Contract, error) {
	b, err := st.Get(contractKey(h))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrContractNotFound, h.StringLE())
		}
		return nil, fmt.Errorf("read contract record: %w", err)
	}

	var c Contract

	r := io.NewBinReaderFromBuf(b)
	c.DecodeBinary(r)
	if r.Err != nil {
		return nil, fmt.Errorf("decode contract record %s: %w", h.StringLE(), r.Err)
	}

	return &c, nil
}

func putContract(st *storage.MemCachedStore, c *Contract) error {
	w := io.NewBufBinWriter()
	c.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return fmt.Errorf("encode contract record: %w", w.Err)
	}

	st.Put(contractKey(c.Hash), w.Bytes())

	return nil
}

// listContracts returns all contract records ordered by hash.
func listContracts(st storage.Store) ([]Contract, error) {
	var (
		res []Contract
		err error
	)

	st.Seek(storage.SeekRange{Prefix: []byte{prefixContract}}, func(_, v []byte) bool {
		var c Contract

		r := io.NewBinReaderFromBuf(v)
		c.DecodeBinary(r)
		if r.Err != nil {
			err = fmt.Errorf("decode contract record: %w", r.Err)
			return false
		}

		res = append(res, c)

		return true
	})

	return res, err
}

// payability answers ledger.PayableChecker using contract records of the
// current invocation.
type payability struct {
	st storage.Store
}

func (x payability) IsPayable(acc util.Uint160) bool {
	c, err := getContract(x.st, acc)
	if err != nil {
		if errors.Is(err, ErrContractNotFound) {
			return true
		}
		panic(err)
	}

	return c.Properties.Has(ledger.Payable)
}

// migrator replaces ledger contract record in the invocation cache.
type migrator struct {
	cache  *storage.MemCachedStore
	ledger util.Uint160
}

func (x migrator) Migrate(_ ledger.Store, p ledger.UpgradeParams) error {
	if len(p.Script) == 0 {
		return errors.New("empty script")
	}

	c, err := getContract(x.cache, x.ledger)
	if err != nil {
		return err
	}

	c.UpdateCounter++
	c.Properties = p.Properties
	c.Script = p.Script
	c.ParameterList = p.ParameterList
	c.ReturnType = p.ReturnType
	c.Name = p.Name
	c.Version = p.Version
	c.Author = p.Author
	c.Email = p.Email
	c.Description = p.Description

	return putContract(x.cache, c)
}
