package ledger

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// PropertyState is a set of contract features declared on upgrade.
type PropertyState byte

// Contract features.
const (
	NoProperty       PropertyState = 0
	HasStorage       PropertyState = 1 << 0
	HasDynamicInvoke PropertyState = 1 << 1
	Payable          PropertyState = 1 << 2
)

// Has checks whether all the given features are set.
func (p PropertyState) Has(f PropertyState) bool {
	return p&f == f
}

// UpgradeParams describes new code of the ledger and its metadata.
type UpgradeParams struct {
	Script        []byte
	ParameterList []byte
	ReturnType    byte
	Properties    PropertyState

	Name        string
	Version     string
	Author      string
	Email       string
	Description string
}

// Migrator replaces executable code of the ledger keeping its storage.
type Migrator interface {
	// Migrate swaps the code. st is the ledger storage of the current
	// invocation, it must be carried over unchanged.
	Migrate(st Store, p UpgradeParams) error
}

// MigratorFunc is a functional Migrator.
type MigratorFunc func(Store, UpgradeParams) error

// Migrate implements Migrator.
func (f MigratorFunc) Migrate(st Store, p UpgradeParams) error { return f(st, p) }

// IsDeployed checks whether the ledger has been deployed.
func (t *Token) IsDeployed(st Store) bool {
	return st.Get(totalSupplyKey) != nil
}

// TotalSupply returns the amount of tokens minted on deployment, zero
// before it.
func (t *Token) TotalSupply(st Store) *big.Int {
	return getInt(st, totalSupplyKey)
}

// Owner returns current owner of the ledger. It's empty before the
// deployment.
func (t *Token) Owner(st Store) []byte {
	return st.Get(ownerKey)
}

func (t *Token) owner(st Store) (util.Uint160, error) {
	raw := st.Get(ownerKey)
	if raw == nil {
		return util.Uint160{}, ErrNotDeployed
	}
	if !IsAddress(raw) {
		return util.Uint160{}, fmt.Errorf("corrupted owner record: %w", ErrInvalidAddress)
	}
	return accountFromBytes(raw), nil
}

// Deploy initializes the ledger: mints the whole supply to the deploy owner
// and makes it the owner of the ledger. Deploy must be authorized by the
// deploy owner and succeeds only once.
func (t *Token) Deploy(st Store, inv Invocation) bool {
	if !t.guard.IsAuthorized(inv, t.deployOwner) {
		return t.fail("deploy", ErrNotOwner)
	}

	if t.IsDeployed(st) {
		return t.fail("deploy", ErrAlreadyDeployed)
	}

	supply := initialSupply()

	putInt(st, totalSupplyKey, supply)
	st.Put(ownerKey, t.deployOwner.BytesBE())
	credit(st, t.deployOwner, supply)

	t.emitter.Emit(TransferEvent{
		To:     t.deployOwner,
		Amount: supply,
	})

	t.log.Debug("ledger deployed", zap.Stringer("owner", t.deployOwner))

	return true
}

// TransferOwnership passes ownership of the ledger to another account.
// Must be authorized by the current owner.
func (t *Token) TransferOwnership(st Store, inv Invocation, newOwner []byte) bool {
	owner, err := t.owner(st)
	if err != nil {
		return t.fail("transferOwnership", err)
	}

	if !t.guard.IsAuthorized(inv, owner) {
		return t.fail("transferOwnership", ErrNotOwner)
	}

	if !IsAddress(newOwner) {
		return t.fail("transferOwnership", ErrInvalidAddress)
	}

	st.Put(ownerKey, newOwner)

	return true
}

// Upgrade replaces the code of the ledger using the configured Migrator.
// Must be authorized by the current owner. Migrator is not called if the
// upgrade isn't authorized.
func (t *Token) Upgrade(st Store, inv Invocation, p UpgradeParams) bool {
	owner, err := t.owner(st)
	if err != nil {
		return t.fail("upgrade", err)
	}

	if !t.guard.IsAuthorized(inv, owner) {
		return t.fail("upgrade", ErrNotOwner)
	}

	if t.migrator == nil {
		return t.fail("upgrade", ErrMigrationUnavailable)
	}

	if err := t.migrator.Migrate(st, p); err != nil {
		return t.fail("upgrade", fmt.Errorf("migrate: %w", err))
	}

	t.log.Info("ledger code upgraded",
		zap.String("name", p.Name), zap.String("version", p.Version))

	return true
}
