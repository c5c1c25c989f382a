/*
Package contracts reads compiled LUNA contracts and prepares them for
deployment and upgrades.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/nspcc-dev/luna-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	nefName      = "contract.nef"
	manifestName = "manifest.json"

	// payment callback of NEP-17 receivers
	paymentMethod = "onNEP17Payment"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Metadata is an optional information about the contract stored in the
// manifest 'extra' field.
type Metadata struct {
	Version     string `json:"Version"`
	Author      string `json:"Author"`
	Email       string `json:"Email"`
	Description string `json:"Description"`
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
)

// ReadDir reads contract compiled into the file system directory.
func ReadDir(dir string) (Contract, error) {
	return Read(os.DirFS(dir), ".")
}

// Read reads contract from the directory of the given fs.FS. The directory
// must contain 'contract.nef' and 'manifest.json' files.
func Read(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS uses "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := _fs.Open(path.Join(dir, nefName))
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(path.Join(dir, manifestName))
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}

// Bytes returns binary NEF and JSON manifest of the contract in the form
// accepted by the contract update methods.
func (c Contract) Bytes() ([]byte, []byte, error) {
	bNEF, err := c.NEF.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("encode NEF: %w", err)
	}

	jManifest, err := json.Marshal(c.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("encode manifest: %w", err)
	}

	return bNEF, jManifest, nil
}

// UpgradeParams converts the contract into the ledger code migration
// parameters. Contract is payable if it accepts NEP-17 payments, it is
// always declared to use storage.
func (c Contract) UpgradeParams() (ledger.UpgradeParams, error) {
	var meta Metadata

	if len(c.Manifest.Extra) > 0 && string(c.Manifest.Extra) != "null" {
		err := json.Unmarshal(c.Manifest.Extra, &meta)
		if err != nil {
			return ledger.UpgradeParams{}, fmt.Errorf("%w: decode extra: %v", errInvalidManifest, err)
		}
	}

	props := ledger.HasStorage
	if c.Manifest.ABI.GetMethod(paymentMethod, -1) != nil {
		props |= ledger.Payable
	}

	return ledger.UpgradeParams{
		Script:        c.NEF.Script,
		ParameterList: []byte{byte(smartcontract.StringType), byte(smartcontract.ArrayType)},
		ReturnType:    byte(smartcontract.AnyType),
		Properties:    props,
		Name:          c.Manifest.Name,
		Version:       meta.Version,
		Author:        meta.Author,
		Email:         meta.Email,
		Description:   meta.Description,
	}, nil
}
