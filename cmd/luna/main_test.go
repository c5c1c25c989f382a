package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

func init() {
	// exit errors must not terminate tests
	cli.OsExiter = func(int) {}
	cli.ErrWriter = io.Discard
}

func writeConfig(t *testing.T, dir, name string, owner *keys.PrivateKey) string {
	path := filepath.Join(dir, name+".yml")

	require.NoError(t, os.WriteFile(path, []byte(`Owner: `+address.Uint160ToString(owner.GetScriptHash())+`
LogLevel: error
Storage:
  Type: boltdb
  BoltDBOptions:
    FilePath: `+filepath.Join(dir, name+".bolt")+`
`), 0600))

	return path
}

func run(t *testing.T, args ...string) []byte {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run(append([]string{"luna"}, args...)))

	return out.Bytes()
}

func runInvoke(t *testing.T, args ...string) resultJSON {
	var res resultJSON

	require.NoError(t, json.Unmarshal(run(t, append([]string{"invoke"}, args...)...), &res))

	return res
}

func requireStack(t *testing.T, res resultJSON, exp string) {
	require.Equal(t, "HALT", res.State, res.FaultException)
	require.Len(t, res.Stack, 1)
	require.JSONEq(t, exp, string(res.Stack[0]))
}

func TestCommands(t *testing.T) {
	owner, err := keys.NewPrivateKey()
	require.NoError(t, err)

	alice, err := keys.NewPrivateKey()
	require.NoError(t, err)

	dir := t.TempDir()
	cfg := writeConfig(t, dir, "main", owner)

	res := runInvoke(t, "-c", cfg, "-w", alice.WIF(), "deploy")
	requireStack(t, res, `{"type":"Boolean","value":false}`)

	res = runInvoke(t, "-c", cfg, "-w", owner.WIF(), "deploy")
	requireStack(t, res, `{"type":"Boolean","value":true}`)
	require.Len(t, res.Events, 1)
	require.Equal(t, "Transfer", res.Events[0].Name)

	res = runInvoke(t, "-c", cfg, "-w", owner.WIF(), "transfer",
		"addr:"+address.Uint160ToString(owner.GetScriptHash()),
		"addr:"+address.Uint160ToString(alice.GetScriptHash()),
		"int:10")
	requireStack(t, res, `{"type":"Boolean","value":true}`)

	res = runInvoke(t, "-c", cfg, "balanceOf", "addr:"+address.Uint160ToString(alice.GetScriptHash()))
	requireStack(t, res, `{"type":"Integer","value":"10"}`)

	res = runInvoke(t, "-c", cfg, "--verify", "-w", owner.WIF(), "verify")
	requireStack(t, res, `{"type":"Boolean","value":true}`)

	res = runInvoke(t, "-c", cfg, "burn")
	require.Equal(t, "FAULT", res.State)
	require.NotEmpty(t, res.FaultException)

	dumps := filepath.Join(dir, "dumps")
	require.NoError(t, os.Mkdir(dumps, 0700))

	// both deploys, transfer and balanceOf are committed
	require.Contains(t, string(run(t, "dump", "-c", cfg, "-l", "test", dumps)), "test-4")

	restored := writeConfig(t, dir, "restored", owner)
	run(t, "restore", "-c", restored, "-l", "test", dumps, "4")

	res = runInvoke(t, "-c", restored, "balanceOf", "addr:"+address.Uint160ToString(alice.GetScriptHash()))
	requireStack(t, res, `{"type":"Integer","value":"10"}`)

	ledgerHash := state.CreateContractHash(owner.GetScriptHash(), 0, "LunaToken")

	t.Run("invalid", func(t *testing.T) {
		for _, args := range [][]string{
			{"invoke", "-c", cfg, "--caller", ledgerHash.StringLE(), "transfer",
				"hash:" + ledgerHash.StringLE(),
				"addr:" + address.Uint160ToString(alice.GetScriptHash()),
				"int:1"},
			{"invoke", "-c", cfg},
			{"invoke", "deploy"},
			{"invoke", "-c", cfg, "-w", "not a WIF", "deploy"},
			{"invoke", "-c", cfg, "balanceOf", "float:1"},
			{"dump", "-c", cfg},
			{"restore", "-c", restored, dumps, "many"},
			{"upgrade", "-c", cfg, filepath.Join(dir, "missing")},
			{"balance", "whoever"},
		} {
			app := newApp()
			app.Writer = new(bytes.Buffer)
			require.Error(t, app.Run(append([]string{"luna"}, args...)), args)
		}
	})
}
