package ledger

import (
	"errors"
	"math/big"

	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Config groups parameters of the Token. Only DeployOwner is required.
type Config struct {
	// DeployOwner is the only account allowed to deploy the ledger, the
	// owner of all the tokens right after the deployment.
	DeployOwner util.Uint160

	// Guard decides whether invocation acts on behalf of an account.
	// Defaults to WitnessGuard.
	Guard Guard

	// Payable checks transfer recipients. All accounts are payable if not
	// set.
	Payable PayableChecker

	// Emitter receives transfer notifications. Defaults to NopEmitter.
	Emitter Emitter

	// Migrator replaces ledger code on upgrade. Upgrades fail with
	// ErrMigrationUnavailable if not set.
	Migrator Migrator

	// Logger receives failure reasons. Defaults to zap.NewNop().
	Logger *zap.Logger
}

// Token is a LUNA ledger bound to its environment services. Token has no
// state of its own, everything is kept in the Store passed to the operations,
// so single Token may serve any number of invocations. Token doesn't
// synchronize them, this is a responsibility of the caller.
type Token struct {
	deployOwner util.Uint160

	guard    Guard
	payable  PayableChecker
	emitter  Emitter
	migrator Migrator
	log      *zap.Logger
}

// New constructs Token from the given configuration.
func New(cfg Config) (*Token, error) {
	if !IsAddress(cfg.DeployOwner.BytesBE()) {
		return nil, errors.New("invalid deploy owner: zero account")
	}

	t := &Token{
		deployOwner: cfg.DeployOwner,
		guard:       cfg.Guard,
		payable:     cfg.Payable,
		emitter:     cfg.Emitter,
		migrator:    cfg.Migrator,
		log:         cfg.Logger,
	}

	if t.guard == nil {
		t.guard = WitnessGuard{}
	}
	if t.payable == nil {
		t.payable = anyPayable{}
	}
	if t.emitter == nil {
		t.emitter = NopEmitter{}
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}

	return t, nil
}

// DeployOwner returns the account allowed to deploy the ledger.
func (t *Token) DeployOwner() util.Uint160 {
	return t.deployOwner
}

// Name returns token name.
func (t *Token) Name() string { return lunaconst.Name }

// Symbol returns token symbol.
func (t *Token) Symbol() string { return lunaconst.Symbol }

// Decimals returns number of decimal places of the token amounts.
func (t *Token) Decimals() int { return lunaconst.Decimals }

// fail logs the reason of failed operation and returns false.
func (t *Token) fail(op string, err error, fields ...zap.Field) bool {
	t.log.Info("operation failed", append([]zap.Field{zap.String("operation", op), zap.Error(err)}, fields...)...)
	return false
}

func initialSupply() *big.Int {
	return big.NewInt(lunaconst.TotalSupply)
}
