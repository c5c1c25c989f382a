package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nspcc-dev/luna-contract/contracts/luna/lunaconst"
	"github.com/nspcc-dev/luna-contract/ledger"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"go.uber.org/zap"
)

// ledgerID is the ID of the ledger contract, other contracts get the
// subsequent ones.
const ledgerID = 1

// Options groups Host parameters.
type Options struct {
	// Owner is the account allowed to deploy the ledger. Required.
	Owner util.Uint160

	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// Host runs ledger transactions over the neo-go storage. Host is safe for
// concurrent use, transactions are executed sequentially.
type Host struct {
	mtx sync.Mutex

	store  storage.Store
	owner  util.Uint160
	ledger util.Uint160
	log    *zap.Logger
}

// Result is an outcome of the Transaction.
type Result struct {
	// ID identifies the invocation in the Host logs.
	ID uuid.UUID

	State vmstate.State
	// Stack holds single result item in HALT state.
	Stack []stackitem.Item
	// Events are the notifications of the committed invocation.
	Events []state.NotificationEvent
	// FaultException describes the failure in FAULT state.
	FaultException string
}

// New initializes Host on the given storage. Ledger contract record is
// created if it's missing.
func New(st storage.Store, opts Options) (*Host, error) {
	if !ledger.IsAddress(opts.Owner.BytesBE()) {
		return nil, errors.New("invalid owner: zero account")
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	h := &Host{
		store:  st,
		owner:  opts.Owner,
		ledger: state.CreateContractHash(opts.Owner, 0, lunaconst.Name),
		log:    opts.Logger,
	}

	_, err := getContract(st, h.ledger)
	if err == nil {
		return h, nil
	} else if !errors.Is(err, ErrContractNotFound) {
		return nil, err
	}

	cache := storage.NewMemCachedStore(st)

	err = putContract(cache, &Contract{
		ID:         ledgerID,
		Hash:       h.ledger,
		Properties: ledger.HasStorage | ledger.Payable,
		Name:       lunaconst.Name,
	})
	if err != nil {
		return nil, err
	}

	_, err = cache.Persist()
	if err != nil {
		return nil, fmt.Errorf("persist ledger contract record: %w", err)
	}

	h.log.Info("ledger contract initialized", zap.Stringer("hash", h.ledger))

	return h, nil
}

// Open opens the storage specified in the Config and initializes Host on it.
func Open(cfg Config, log *zap.Logger) (*Host, error) {
	owner, err := cfg.OwnerHash()
	if err != nil {
		return nil, err
	}

	st, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Type, err)
	}

	h, err := New(st, Options{Owner: owner, Logger: log})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return h, nil
}

// Close closes the underlying storage.
func (h *Host) Close() error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return h.store.Close()
}

// Ledger returns hash of the ledger contract.
func (h *Host) Ledger() util.Uint160 {
	return h.ledger
}

// Owner returns the account allowed to deploy the ledger.
func (h *Host) Owner() util.Uint160 {
	return h.owner
}

// Height returns the number of committed transactions.
func (h *Host) Height() (uint32, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return getHeight(h.store)
}

// Contract returns the record of the contract by its hash.
func (h *Host) Contract(hash util.Uint160) (*Contract, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return getContract(h.store, hash)
}

// RegisterContract adds contract record to the Host. ID of the contract is
// assigned by the Host and returned record contains it.
func (h *Host) RegisterContract(c Contract) (*Contract, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if !ledger.IsAddress(c.Hash.BytesBE()) {
		return nil, errors.New("invalid contract hash: zero")
	}

	cs, err := listContracts(h.store)
	if err != nil {
		return nil, err
	}

	c.ID = ledgerID
	for i := range cs {
		if cs[i].Hash.Equals(c.Hash) {
			return nil, fmt.Errorf("%w: %s", ErrContractExists, c.Hash.StringLE())
		}
		if cs[i].ID >= c.ID {
			c.ID = cs[i].ID + 1
		}
	}

	cache := storage.NewMemCachedStore(h.store)

	err = putContract(cache, &c)
	if err != nil {
		return nil, err
	}

	_, err = cache.Persist()
	if err != nil {
		return nil, fmt.Errorf("persist contract record: %w", err)
	}

	h.log.Debug("contract registered",
		zap.Stringer("hash", c.Hash), zap.Int32("id", c.ID), zap.String("name", c.Name))

	return &c, nil
}

// Invoke executes the Transaction. Errors are returned only if the
// Transaction can't be executed at all: it has invalid witnesses, its caller
// is unknown or isn't witnessed by the controller, the context is done or
// the storage fails to persist the changes. Failures of the execution itself
// result in FAULT.
func (h *Host) Invoke(ctx context.Context, tx *Transaction) (*Result, error) {
	signers, err := tx.verifyWitnesses(h.ledger)
	if err != nil {
		return nil, err
	}

	h.mtx.Lock()
	defer h.mtx.Unlock()

	err = ctx.Err()
	if err != nil {
		return nil, err
	}

	inv := invocation{signers: signers, caller: tx.Caller}

	if !tx.Caller.Equals(util.Uint160{}) {
		c, err := getContract(h.store, tx.Caller)
		if err != nil {
			return nil, fmt.Errorf("calling contract: %w", err)
		}

		if c.Controller.Equals(util.Uint160{}) || !inv.CheckWitness(c.Controller) {
			return nil, fmt.Errorf("%w: %s", ErrCallerNotWitnessed, tx.Caller.StringLE())
		}
	}

	res := &Result{ID: uuid.New()}
	log := h.log.With(zap.Stringer("invocation", res.ID), zap.String("method", tx.Method))

	cache := storage.NewMemCachedStore(h.store)
	events := &notifications{ledger: h.ledger}

	item, err := h.execute(cache, events, log, tx, inv)
	if err != nil {
		log.Info("invocation faulted", zap.Error(err))
		res.State = vmstate.Fault
		res.FaultException = err.Error()
		return res, nil
	}

	res.State = vmstate.Halt
	res.Stack = []stackitem.Item{item}

	if tx.Trigger != trigger.Application {
		return res, nil
	}

	height, err := getHeight(h.store)
	if err != nil {
		return nil, err
	}

	putHeight(cache, height+1)

	_, err = cache.Persist()
	if err != nil {
		return nil, fmt.Errorf("persist invocation changes: %w", err)
	}

	res.Events = events.events

	log.Debug("invocation committed", zap.Uint32("height", height+1), zap.Int("events", len(res.Events)))

	return res, nil
}

func (h *Host) execute(cache *storage.MemCachedStore, emitter ledger.Emitter, log *zap.Logger,
	tx *Transaction, inv invocation) (res stackitem.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	c, err := getContract(cache, h.ledger)
	if err != nil {
		return nil, fmt.Errorf("ledger contract: %w", err)
	}

	tok, err := ledger.New(ledger.Config{
		DeployOwner: h.owner,
		Guard:       ledger.WitnessGuard{},
		Payable:     payability{st: cache},
		Emitter:     emitter,
		Migrator:    migrator{cache: cache, ledger: h.ledger},
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	return tok.Invoke(newContractStorage(cache, c.ID), inv, tx.Trigger, tx.Method, tx.Args)
}

// Snapshot is a complete state of the Host.
type Snapshot struct {
	Height    uint32
	Contracts []Contract
	// Storage items by contract ID.
	Storage map[int32][]KeyValue
}

// Snapshot returns current state of the Host.
func (h *Host) Snapshot() (*Snapshot, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	var (
		res = &Snapshot{Storage: make(map[int32][]KeyValue)}
		err error
	)

	res.Height, err = getHeight(h.store)
	if err != nil {
		return nil, err
	}

	res.Contracts, err = listContracts(h.store)
	if err != nil {
		return nil, err
	}

	for i := range res.Contracts {
		id := res.Contracts[i].ID
		iterateStorage(h.store, id, func(k, v []byte) bool {
			res.Storage[id] = append(res.Storage[id], KeyValue{
				Key:   bytes.Clone(k),
				Value: bytes.Clone(v),
			})
			return true
		})
	}

	return res, nil
}

// Restore loads the Snapshot into the Host. Only Host without committed
// transactions can be restored, Snapshot must contain the ledger of the
// same owner.
func (h *Host) Restore(s *Snapshot) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	height, err := getHeight(h.store)
	if err != nil {
		return err
	}

	if height != 0 {
		return fmt.Errorf("host has %d committed transactions", height)
	}

	var found bool
	for i := range s.Contracts {
		if s.Contracts[i].Hash.Equals(h.ledger) {
			found = true
			break
		}
	}

	if !found {
		return fmt.Errorf("%w: ledger %s is missing in the snapshot", ErrContractNotFound, h.ledger.StringLE())
	}

	cache := storage.NewMemCachedStore(h.store)

	for i := range s.Contracts {
		err = putContract(cache, &s.Contracts[i])
		if err != nil {
			return err
		}

		st := newContractStorage(cache, s.Contracts[i].ID)
		for _, kv := range s.Storage[s.Contracts[i].ID] {
			st.Put(kv.Key, kv.Value)
		}
	}

	putHeight(cache, s.Height)

	_, err = cache.Persist()
	if err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}

	h.log.Info("state restored", zap.Uint32("height", s.Height), zap.Int("contracts", len(s.Contracts)))

	return nil
}
