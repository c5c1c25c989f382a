/*
Package lunaconst holds token parameters and the storage model shared by the
Luna contract and its off-chain ledger implementation.

# Summary
Key-value storage format:
  - 0x01 'totalSupply' -> int
    total amount of LUNA, fixed at deployment
  - 0x01 'owner' -> interop.Hash160
    account allowed to transfer ownership and upgrade the contract
  - 0x01 'deployer' -> interop.Hash160
    account fixed at contract creation which is allowed to call deploy
  - 0x02 <interop.Hash160> -> int
    balance sheet of all accounts, zero balances are never stored
*/
package lunaconst

const (
	// Name is a human-readable token name.
	Name = "LunaToken"
	// Symbol is a NEP-17 token symbol.
	Symbol = "LUNA"
	// Decimals is a NEP-17 token precision.
	Decimals = 8
	// TotalSupply is the amount of tokens minted by deployment:
	// 100 000 000 LUNA in Fixed8.
	TotalSupply = 100_000_000_0000_0000

	// ContractPrefix is a storage prefix of the contract-level entries.
	ContractPrefix = 0x01
	// AssetPrefix is a storage prefix of the account balances.
	AssetPrefix = 0x02

	// TotalSupplyKey is a storage key of the total supply.
	TotalSupplyKey = "\x01totalSupply"
	// OwnerKey is a storage key of the current owner.
	OwnerKey = "\x01owner"
	// DeployerKey is a storage key of the deploy-time owner.
	DeployerKey = "\x01deployer"

	// TransferEvent is a name of the NEP-17 transfer notification.
	TransferEvent = "Transfer"
)
