package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/luna-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

const lunaDir = "luna"

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs, lunaDir)
	require.Error(t, err)

	// Missing manifest.
	_fs[lunaDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs, lunaDir)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = lunaDir + "/" + nefName
		manifestPath = lunaDir + "/" + manifestName
	)

	validNEF, bNEF := anyValidNEF(t)
	validManifest, jManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: bNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: jManifest}

	c, err := Read(_fs, lunaDir)
	require.NoError(t, err)
	require.Equal(t, validNEF.Script, c.NEF.Script)
	require.Equal(t, validManifest.Name, c.Manifest.Name)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: jManifest}

	_, err = Read(_fs, lunaDir)
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: bNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = Read(_fs, lunaDir)
	require.ErrorIs(t, err, errInvalidManifest)
}

func TestReadDir(t *testing.T) {
	_, err := ReadDir(t.TempDir())
	require.Error(t, err)
}

func TestContract_Bytes(t *testing.T) {
	_nef, bNEF := anyValidNEF(t)
	_manifest, jManifest := anyValidManifest(t, "LunaToken")

	b, j, err := Contract{NEF: _nef, Manifest: _manifest}.Bytes()
	require.NoError(t, err)
	require.Equal(t, bNEF, b)
	require.JSONEq(t, string(jManifest), string(j))
}

func TestContract_UpgradeParams(t *testing.T) {
	_nef, _ := anyValidNEF(t)
	_manifest, _ := anyValidManifest(t, "LunaToken")

	c := Contract{NEF: _nef, Manifest: _manifest}

	p, err := c.UpgradeParams()
	require.NoError(t, err)
	require.Equal(t, _nef.Script, p.Script)
	require.Equal(t, "LunaToken", p.Name)
	require.Equal(t, ledger.HasStorage, p.Properties)
	require.Equal(t, []byte{byte(smartcontract.StringType), byte(smartcontract.ArrayType)}, p.ParameterList)
	require.Empty(t, p.Author)

	c.Manifest.ABI.Methods = append(c.Manifest.ABI.Methods, manifest.Method{
		Name: paymentMethod,
		Parameters: []manifest.Parameter{
			manifest.NewParameter("from", smartcontract.Hash160Type),
			manifest.NewParameter("amount", smartcontract.IntegerType),
			manifest.NewParameter("data", smartcontract.AnyType),
		},
		ReturnType: smartcontract.VoidType,
	})
	c.Manifest.Extra = json.RawMessage(`{"Version":"2.0","Author":"author","Email":"author@example.com","Description":"next"}`)

	p, err = c.UpgradeParams()
	require.NoError(t, err)
	require.Equal(t, ledger.HasStorage|ledger.Payable, p.Properties)
	require.Equal(t, "2.0", p.Version)
	require.Equal(t, "author", p.Author)
	require.Equal(t, "author@example.com", p.Email)
	require.Equal(t, "next", p.Description)

	c.Manifest.Extra = json.RawMessage(`[]`)
	_, err = c.UpgradeParams()
	require.ErrorIs(t, err, errInvalidManifest)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
