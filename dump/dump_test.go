package dump_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/luna-contract/dump"
	"github.com/nspcc-dev/luna-contract/host"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newHost(t *testing.T, owner *keys.PrivateKey) *host.Host {
	h, err := host.New(storage.NewMemoryStore(), host.Options{
		Owner:  owner.GetScriptHash(),
		Logger: zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return h
}

func invoke(t *testing.T, h *host.Host, signer *keys.PrivateKey, method string, args ...any) stackitem.Item {
	tx := &host.Transaction{
		Trigger: trigger.Application,
		Method:  method,
	}
	for i := range args {
		tx.Args = append(tx.Args, stackitem.Make(args[i]))
	}

	if signer != nil {
		require.NoError(t, tx.Sign(h.Ledger(), signer))
	}

	res, err := h.Invoke(context.Background(), tx)
	require.NoError(t, err)
	require.Equal(t, vmstate.Halt, res.State, res.FaultException)

	return res.Stack[0]
}

func TestExportOpen(t *testing.T) {
	owner, err := keys.NewPrivateKey()
	require.NoError(t, err)

	alice := util.Uint160{1, 2, 3}

	h := newHost(t, owner)
	invoke(t, h, owner, "deploy")
	invoke(t, h, owner, "transfer", owner.GetScriptHash().BytesBE(), alice.BytesBE(), 100)

	_, err = h.RegisterContract(host.Contract{Hash: util.Uint160{4, 5, 6}, Controller: alice, Name: "holder"})
	require.NoError(t, err)

	s, err := h.Snapshot()
	require.NoError(t, err)

	dir := t.TempDir()

	id, err := dump.Export(dir, "local", s)
	require.NoError(t, err)
	require.Equal(t, dump.ID{Label: "local", Block: 2}, id)
	require.Equal(t, "local-2", id.String())

	require.FileExists(t, filepath.Join(dir, "local-2-contracts.json"))
	require.FileExists(t, filepath.Join(dir, "local-2-storage.csv"))

	_, err = dump.Export(dir, "local", s)
	require.ErrorIs(t, err, os.ErrExist)

	r, err := dump.Open(dir, id)
	require.NoError(t, err)
	require.Equal(t, id, r.ID())

	var names []string
	r.IterateContractStates(func(name string, _ host.Contract) {
		names = append(names, name)
	})
	require.ElementsMatch(t, []string{"LunaToken", "holder"}, names)

	var items int
	require.NoError(t, r.IterateContractStorages(func(contract util.Uint160, _, _ []byte) {
		require.Equal(t, h.Ledger(), contract)
		items++
	}))
	require.Equal(t, 4, items)

	loaded, err := r.Snapshot()
	require.NoError(t, err)

	restored := newHost(t, owner)
	require.NoError(t, restored.Restore(loaded))

	s2, err := restored.Snapshot()
	require.NoError(t, err)
	require.Equal(t, s, s2)

	n, err := invoke(t, restored, nil, "balanceOf", alice.BytesBE()).TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 100, n.Int64())
}

func TestIterateDumps(t *testing.T) {
	owner, err := keys.NewPrivateKey()
	require.NoError(t, err)

	h := newHost(t, owner)

	dir := t.TempDir()

	s, err := h.Snapshot()
	require.NoError(t, err)

	_, err = dump.Export(dir, "empty", s)
	require.NoError(t, err)

	invoke(t, h, owner, "deploy")

	s, err = h.Snapshot()
	require.NoError(t, err)

	_, err = dump.Export(dir, "deployed", s)
	require.NoError(t, err)

	found := make(map[dump.ID]int)
	require.NoError(t, dump.IterateDumps(dir, func(id dump.ID, r *dump.Reader) {
		s, err := r.Snapshot()
		require.NoError(t, err)
		found[id] = len(s.Storage)
	}))

	require.Equal(t, map[dump.ID]int{
		{Label: "empty", Block: 0}:    0,
		{Label: "deployed", Block: 1}: 1,
	}, found)

	require.NoError(t, dump.IterateDumps(filepath.Join(dir, "missing"), func(dump.ID, *dump.Reader) {
		t.Fatal("unexpected dump")
	}))
}

func TestOpenMissing(t *testing.T) {
	_, err := dump.Open(t.TempDir(), dump.ID{Label: "none", Block: 1})
	require.Error(t, err)
}
