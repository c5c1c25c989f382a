package luna

import (
	"github.com/nspcc-dev/luna-contract/common"
	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const paymentCallback = "onNEP17Payment"

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	if data == nil {
		panic("missing deploy owner")
	}

	args := data.([]any)
	deployer := args[0].(interop.Hash160)
	if !common.IsAddress(deployer) {
		panic("incorrect deploy owner")
	}

	storage.Put(storage.GetContext(), lunaconst.DeployerKey, deployer)

	runtime.Log("luna contract initialized")
}

// Deploy mints the whole supply to the deploy-time owner and makes it the
// contract owner. It can be invoked only once and only on behalf of the
// account fixed at contract creation.
//
// It produces Transfer notification with empty sender.
func Deploy() bool {
	ctx := storage.GetContext()

	deployer := getHash(ctx, lunaconst.DeployerKey)
	if !common.IsAuthorized(deployer) {
		runtime.Log("only owner can deploy this contract")
		return false
	}

	if isDeployed(ctx) {
		runtime.Log("already deployed")
		return false
	}

	storage.Put(ctx, lunaconst.TotalSupplyKey, lunaconst.TotalSupply)
	storage.Put(ctx, lunaconst.OwnerKey, deployer)
	storage.Put(ctx, balanceKey(deployer), lunaconst.TotalSupply)

	var mint interop.Hash160
	runtime.Notify(lunaconst.TransferEvent, mint, deployer, lunaconst.TotalSupply)

	return true
}

// IsDeployed returns true if Deploy has been successfully called.
func IsDeployed() bool {
	return isDeployed(storage.GetReadOnlyContext())
}

// Name returns human-readable token name.
func Name() string {
	return lunaconst.Name
}

// Symbol is a NEP-17 standard method that returns LUNA token symbol.
func Symbol() string {
	return lunaconst.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of LUNA
// balances.
func Decimals() int {
	return lunaconst.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of minted
// tokens. It is zero until Deploy.
func TotalSupply() int {
	supply := storage.Get(storage.GetReadOnlyContext(), lunaconst.TotalSupplyKey)
	if supply == nil {
		return 0
	}

	return supply.(int)
}

// BalanceOf is a NEP-17 standard method that returns LUNA balance of the
// specified account. Malformed accounts have zero balance.
func BalanceOf(account interop.Hash160) int {
	if !common.IsAddress(account) {
		return 0
	}

	return balanceOf(storage.GetReadOnlyContext(), account)
}

// Transfer is a NEP-17 standard method that transfers LUNA from one account to
// another. It can be invoked by the owner of the sender account or by the
// sender contract itself.
//
// Transfer to the sender is a successful no-op. Otherwise, it produces
// Transfer notification and calls onNEP17Payment of the recipient contract.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if !common.IsAddress(from) || !common.IsAddress(to) {
		runtime.Log("the parameters from and to SHOULD be legal addresses")
		return false
	}

	if amount <= 0 {
		runtime.Log("the parameter amount MUST be greater than 0")
		return false
	}

	if !isPayable(to) {
		runtime.Log("the to account is not payable")
		return false
	}

	if !common.IsAuthorized(from) {
		runtime.Log("not authorized by the from account")
		return false
	}

	ctx := storage.GetContext()

	fromBalance := balanceOf(ctx, from)
	if fromBalance < amount {
		runtime.Log("insufficient funds")
		return false
	}

	if from.Equals(to) {
		return true
	}

	if fromBalance == amount {
		storage.Delete(ctx, balanceKey(from))
	} else {
		storage.Put(ctx, balanceKey(from), fromBalance-amount)
	}

	storage.Put(ctx, balanceKey(to), balanceOf(ctx, to)+amount)

	runtime.Notify(lunaconst.TransferEvent, from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, paymentCallback, contract.All, from, amount, data)
	}

	return true
}

// TransferOwnership replaces the contract owner. It can be invoked only on
// behalf of the current owner.
func TransferOwnership(newOwner interop.Hash160) bool {
	ctx := storage.GetContext()

	if !common.IsAuthorized(getOwner(ctx)) {
		runtime.Log("only allowed to be called by owner")
		return false
	}

	if !common.IsAddress(newOwner) {
		runtime.Log("the parameter newOwner SHOULD be a legal address")
		return false
	}

	storage.Put(ctx, lunaconst.OwnerKey, newOwner)

	return true
}

// GetOwner returns the current contract owner, nil before Deploy.
func GetOwner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// Upgrade method updates contract source code and manifest keeping the
// storage. It can be invoked only on behalf of the current owner.
func Upgrade(nefFile, manifest []byte, data any) bool {
	if !common.IsAuthorized(getOwner(storage.GetReadOnlyContext())) {
		runtime.Log("only allowed to be called by owner")
		return false
	}

	management.UpdateWithData(nefFile, manifest, common.AppendVersion(data))
	runtime.Log("contract upgraded")

	return true
}

// Verify checks whether carrier transaction is witnessed by the contract owner.
func Verify() bool {
	owner := getOwner(storage.GetReadOnlyContext())
	return common.IsAddress(owner) && runtime.CheckWitness(owner)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func isDeployed(ctx storage.Context) bool {
	return storage.Get(ctx, lunaconst.TotalSupplyKey) != nil
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return getHash(ctx, lunaconst.OwnerKey)
}

// getHash reads script hash stored by key as ByteString, type assertion
// would produce Buffer.
func getHash(ctx storage.Context, key string) interop.Hash160 {
	v := storage.Get(ctx, key)
	if v == nil {
		return nil
	}

	return interop.Hash160(v.([]byte))
}

// isPayable checks that the recipient is either a plain account or a contract
// accepting NEP-17 payments.
func isPayable(to interop.Hash160) bool {
	if management.GetContract(to) == nil {
		return true
	}

	return management.HasMethod(to, paymentCallback, 3)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{lunaconst.AssetPrefix}, account...)
}

func balanceOf(ctx storage.Context, account interop.Hash160) int {
	balance := storage.Get(ctx, balanceKey(account))
	if balance == nil {
		return 0
	}

	return balance.(int)
}
