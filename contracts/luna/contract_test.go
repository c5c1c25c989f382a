package luna_test

import (
	"encoding/json"
	"path"
	"testing"

	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	lunaPath       = "../luna"
	holderPath     = "../../internal/testcontracts/holder"
	nonPayablePath = "../../internal/testcontracts/nonpayable"
	lunaNextPath   = "../../internal/testcontracts/lunanext"
)

type env struct {
	e     *neotest.Executor
	hash  util.Uint160
	owner neotest.Signer
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func compile(t *testing.T, e *neotest.Executor, dir string) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, dir, path.Join(dir, "config.yml"))
}

func newEnv(t *testing.T) env {
	e := newExecutor(t)
	owner := e.NewAccount(t)

	c := compile(t, e, lunaPath)
	e.DeployContract(t, c, []any{owner.ScriptHash()})

	return env{e: e, hash: c.Hash, owner: owner}
}

func newDeployedEnv(t *testing.T) env {
	x := newEnv(t)
	x.as(x.owner).Invoke(t, true, "deploy")
	return x
}

func (x env) as(signers ...neotest.Signer) *neotest.ContractInvoker {
	return x.e.NewInvoker(x.hash, signers...)
}

func transferEvent(h util.Uint160, from, to util.Uint160, amount int64) state.NotificationEvent {
	return state.NotificationEvent{
		ScriptHash: h,
		Name:       lunaconst.TransferEvent,
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(from.BytesBE()),
			stackitem.NewByteArray(to.BytesBE()),
			stackitem.Make(amount),
		}),
	}
}

func TestLuna_Constants(t *testing.T) {
	x := newEnv(t)
	inv := x.as(x.owner)

	inv.Invoke(t, lunaconst.Name, "name")
	inv.Invoke(t, lunaconst.Symbol, "symbol")
	inv.Invoke(t, lunaconst.Decimals, "decimals")
}

func TestLuna_Deploy(t *testing.T) {
	x := newEnv(t)
	ownerInv := x.as(x.owner)
	stranger := x.e.NewAccount(t)

	ownerInv.Invoke(t, false, "isDeployed")
	ownerInv.Invoke(t, 0, "totalSupply")
	ownerInv.Invoke(t, stackitem.Null{}, "getOwner")

	x.as(stranger).Invoke(t, false, "deploy")
	ownerInv.Invoke(t, false, "isDeployed")

	h := ownerInv.Invoke(t, true, "deploy")
	x.e.CheckTxNotificationEvent(t, h, 0, state.NotificationEvent{
		ScriptHash: x.hash,
		Name:       lunaconst.TransferEvent,
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Null{},
			stackitem.NewByteArray(x.owner.ScriptHash().BytesBE()),
			stackitem.Make(lunaconst.TotalSupply),
		}),
	})

	ownerInv.Invoke(t, true, "isDeployed")
	ownerInv.Invoke(t, lunaconst.TotalSupply, "totalSupply")
	ownerInv.Invoke(t, x.owner.ScriptHash(), "getOwner")
	ownerInv.Invoke(t, lunaconst.TotalSupply, "balanceOf", x.owner.ScriptHash())
	ownerInv.Invoke(t, 0, "balanceOf", stranger.ScriptHash())

	t.Run("twice", func(t *testing.T) {
		h := ownerInv.Invoke(t, false, "deploy")
		require.Empty(t, x.e.GetTxExecResult(t, h).Events)

		ownerInv.Invoke(t, lunaconst.TotalSupply, "totalSupply")
		ownerInv.Invoke(t, x.owner.ScriptHash(), "getOwner")
		ownerInv.Invoke(t, lunaconst.TotalSupply, "balanceOf", x.owner.ScriptHash())
	})
}

func TestLuna_GetOwnerByteString(t *testing.T) {
	x := newDeployedEnv(t)

	x.as(x.owner).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)
		require.Equal(t, stackitem.ByteArrayT, stack[0].Type())
		require.Equal(t, x.owner.ScriptHash().BytesBE(), stack[0].Value())
	}, "getOwner")
}

func TestLuna_BalanceOfMalformed(t *testing.T) {
	x := newDeployedEnv(t)
	inv := x.as(x.owner)

	inv.Invoke(t, 0, "balanceOf", []byte{1, 2, 3})
	inv.Invoke(t, 0, "balanceOf", util.Uint160{})
}

func TestLuna_Transfer(t *testing.T) {
	x := newDeployedEnv(t)
	ownerInv := x.as(x.owner)
	ownerAcc := x.owner.ScriptHash()
	receiver := x.e.NewAccount(t).ScriptHash()

	const amount = 10

	checkUntouched := func(t *testing.T) {
		ownerInv.Invoke(t, lunaconst.TotalSupply, "balanceOf", ownerAcc)
		ownerInv.Invoke(t, 0, "balanceOf", receiver)
	}

	t.Run("malformed addresses", func(t *testing.T) {
		ownerInv.Invoke(t, false, "transfer", []byte{1, 2, 3}, receiver, amount, nil)
		ownerInv.Invoke(t, false, "transfer", ownerAcc, util.Uint160{}, amount, nil)
		checkUntouched(t)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		ownerInv.Invoke(t, false, "transfer", ownerAcc, receiver, 0, nil)
		ownerInv.Invoke(t, false, "transfer", ownerAcc, receiver, -1, nil)
		checkUntouched(t)
	})

	t.Run("non-payable contract", func(t *testing.T) {
		c := compile(t, x.e, nonPayablePath)
		x.e.DeployContract(t, c, nil)

		ownerInv.Invoke(t, false, "transfer", ownerAcc, c.Hash, amount, nil)
		checkUntouched(t)
	})

	t.Run("no witness", func(t *testing.T) {
		stranger := x.e.NewAccount(t)
		x.as(stranger).Invoke(t, false, "transfer", ownerAcc, receiver, amount, nil)
		checkUntouched(t)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		ownerInv.Invoke(t, false, "transfer", ownerAcc, receiver, lunaconst.TotalSupply+1, nil)
		checkUntouched(t)
	})

	t.Run("to itself", func(t *testing.T) {
		h := ownerInv.Invoke(t, true, "transfer", ownerAcc, ownerAcc, amount, nil)
		require.Empty(t, x.e.GetTxExecResult(t, h).Events)
		checkUntouched(t)
	})

	h := ownerInv.Invoke(t, true, "transfer", ownerAcc, receiver, amount, nil)
	x.e.CheckTxNotificationEvent(t, h, 0, transferEvent(x.hash, ownerAcc, receiver, amount))
	require.Len(t, x.e.GetTxExecResult(t, h).Events, 1)

	ownerInv.Invoke(t, lunaconst.TotalSupply-amount, "balanceOf", ownerAcc)
	ownerInv.Invoke(t, amount, "balanceOf", receiver)
	ownerInv.Invoke(t, lunaconst.TotalSupply, "totalSupply")
}

func TestLuna_TransferWholeBalance(t *testing.T) {
	x := newDeployedEnv(t)
	ownerAcc := x.owner.ScriptHash()
	receiver := x.e.NewAccount(t)

	x.as(x.owner).Invoke(t, true, "transfer", ownerAcc, receiver.ScriptHash(), lunaconst.TotalSupply, nil)

	cs := x.e.Chain.GetContractState(x.hash)
	require.NotNil(t, cs)
	require.Nil(t, x.e.Chain.GetStorageItem(cs.ID, append([]byte{lunaconst.AssetPrefix}, ownerAcc.BytesBE()...)),
		"zero balance must not be stored")

	x.as(receiver).Invoke(t, lunaconst.TotalSupply, "balanceOf", receiver.ScriptHash())
}

func TestLuna_ContractHolder(t *testing.T) {
	x := newDeployedEnv(t)
	ownerAcc := x.owner.ScriptHash()

	c := compile(t, x.e, holderPath)
	x.e.DeployContract(t, c, nil)
	holderInv := x.e.CommitteeInvoker(c.Hash)

	const amount = 100

	x.as(x.owner).Invoke(t, true, "transfer", ownerAcc, c.Hash, amount, nil)
	holderInv.Invoke(t, amount, "received")
	x.as(x.owner).Invoke(t, amount, "balanceOf", c.Hash)

	receiver := x.e.NewAccount(t).ScriptHash()

	// holder contract has no witness in the transaction, calling script hash
	// authorizes the transfer
	holderInv.Invoke(t, true, "send", x.hash, receiver, 40)
	x.as(x.owner).Invoke(t, amount-40, "balanceOf", c.Hash)
	x.as(x.owner).Invoke(t, 40, "balanceOf", receiver)

	// but nobody else can spend holder funds
	x.as(x.owner).Invoke(t, false, "transfer", c.Hash, receiver, 1, nil)
}

func TestLuna_TransferOwnership(t *testing.T) {
	x := newDeployedEnv(t)
	ownerInv := x.as(x.owner)
	stranger := x.e.NewAccount(t)
	newOwner := x.e.NewAccount(t)

	x.as(stranger).Invoke(t, false, "transferOwnership", stranger.ScriptHash())
	ownerInv.Invoke(t, x.owner.ScriptHash(), "getOwner")

	ownerInv.Invoke(t, false, "transferOwnership", []byte{1, 2, 3})
	ownerInv.Invoke(t, false, "transferOwnership", util.Uint160{})
	ownerInv.Invoke(t, x.owner.ScriptHash(), "getOwner")

	ownerInv.Invoke(t, true, "transferOwnership", newOwner.ScriptHash())
	ownerInv.Invoke(t, newOwner.ScriptHash(), "getOwner")

	// previous owner lost its privileges
	ownerInv.Invoke(t, false, "transferOwnership", x.owner.ScriptHash())
	x.as(newOwner).Invoke(t, true, "transferOwnership", x.owner.ScriptHash())

	// balances are not related to the ownership
	ownerInv.Invoke(t, lunaconst.TotalSupply, "balanceOf", x.owner.ScriptHash())
}

func TestLuna_Verify(t *testing.T) {
	x := newDeployedEnv(t)

	x.as(x.owner).Invoke(t, true, "verify")
	x.as(x.e.NewAccount(t)).Invoke(t, false, "verify")
}

func TestLuna_Upgrade(t *testing.T) {
	x := newDeployedEnv(t)
	receiver := x.e.NewAccount(t).ScriptHash()
	x.as(x.owner).Invoke(t, true, "transfer", x.owner.ScriptHash(), receiver, 10, nil)

	next := compile(t, x.e, lunaNextPath)

	bNEF, err := next.NEF.Bytes()
	require.NoError(t, err)

	jManifest, err := json.Marshal(next.Manifest)
	require.NoError(t, err)

	stranger := x.e.NewAccount(t)
	x.as(stranger).Invoke(t, false, "upgrade", bNEF, jManifest, nil)
	require.EqualValues(t, 0, x.e.Chain.GetContractState(x.hash).UpdateCounter)

	x.as(x.owner).Invoke(t, true, "upgrade", bNEF, jManifest, nil)
	require.EqualValues(t, 1, x.e.Chain.GetContractState(x.hash).UpdateCounter)

	inv := x.as(x.owner)
	inv.Invoke(t, 2, "revision")
	inv.Invoke(t, lunaconst.TotalSupply-10, "balanceOf", x.owner.ScriptHash())
	inv.Invoke(t, 10, "balanceOf", receiver)
}

func TestLuna_UpgradeSameVersion(t *testing.T) {
	x := newDeployedEnv(t)

	c := compile(t, x.e, lunaPath)

	bNEF, err := c.NEF.Bytes()
	require.NoError(t, err)

	jManifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	x.as(x.owner).InvokeFail(t, "contract is already of the latest version", "upgrade", bNEF, jManifest, nil)
}
