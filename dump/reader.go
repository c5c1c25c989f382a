package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/luna-contract/host"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// IterateDumps iterates over all dumps collected by the Creator model in
// the specified directory, and passes ID and Reader of each dump into f.
func IterateDumps(dir string, f func(ID, *Reader)) error {
	var id ID

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}

		if e != nil {
			return e
		}

		if d.IsDir() {
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, statesFileSuffix) {
			return nil
		}

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", d.Name(), err)
		}

		r, err := Open(filepath.Dir(path), id)
		if err != nil {
			return fmt.Errorf("open dump ('%s'): %w", name, err)
		}

		f(id, r)

		return nil
	})
}

// Open reads the dump with the given ID from the directory.
func Open(dir string, id ID) (*Reader, error) {
	var streams dumpStreams

	err := initDumpStreams(&streams, dir, id, true)
	if err != nil {
		return nil, fmt.Errorf("init dump streams: %w", err)
	}

	defer streams.close()

	var r Reader

	err = r.fromDumpStreams(streams.contracts, streams.storageItems)
	if err != nil {
		return nil, fmt.Errorf("init dump reader: %w", err)
	}

	r.id = id

	return &r, nil
}

type kv struct{ k, v []byte }

// Reader reads contracts collected in the superior dump.
type Reader struct {
	id       ID
	states   []dumpContractState
	mStorage map[string][]kv
}

func (x *Reader) fromDumpStreams(rContracts, rStorageItems io.Reader) error {
	err := json.NewDecoder(rContracts).Decode(&x.states)
	if err != nil {
		return fmt.Errorf("decode contract states from JSON: %w", err)
	}

	var rec []string

	_csv := csv.NewReader(rStorageItems)
	_csv.FieldsPerRecord = 3
	_csv.ReuseRecord = true

	x.mStorage = make(map[string][]kv)

	for {
		rec, err = _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		var _kv kv

		// out-of-range safety guaranteed by csv settings
		_kv.k, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		_kv.v, err = _encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.mStorage[rec[0]] = append(x.mStorage[rec[0]], _kv)
	}
}

// ID returns identifier of the dump.
func (x *Reader) ID() ID {
	return x.id
}

// IterateContractStates iterates over all contracts from the superior dump and
// passes their states into f.
func (x *Reader) IterateContractStates(f func(name string, _state host.Contract)) {
	for i := range x.states {
		f(x.states[i].Name, x.states[i].State)
	}
}

// IterateContractStorages iterates over all contracts from the superior dump
// and passes their storage items into f.
func (x *Reader) IterateContractStorages(f func(contract util.Uint160, key, value []byte)) error {
	for hash, kvs := range x.mStorage {
		h, err := util.Uint160DecodeStringLE(hash)
		if err != nil {
			return fmt.Errorf("decode contract hash '%s': %w", hash, err)
		}

		for i := range kvs {
			f(h, kvs[i].k, kvs[i].v)
		}
	}
	return nil
}

// Snapshot assembles Host snapshot from the dump. Storage items of the
// contracts missing in the dump are rejected.
func (x *Reader) Snapshot() (*host.Snapshot, error) {
	res := &host.Snapshot{
		Height:    x.id.Block,
		Contracts: make([]host.Contract, 0, len(x.states)),
		Storage:   make(map[int32][]host.KeyValue),
	}

	ids := make(map[util.Uint160]int32, len(x.states))

	x.IterateContractStates(func(_ string, st host.Contract) {
		res.Contracts = append(res.Contracts, st)
		ids[st.Hash] = st.ID
	})

	var missing error

	err := x.IterateContractStorages(func(h util.Uint160, key, value []byte) {
		id, ok := ids[h]
		if !ok {
			if missing == nil {
				missing = fmt.Errorf("storage of unknown contract %s", h.StringLE())
			}
			return
		}

		res.Storage[id] = append(res.Storage[id], host.KeyValue{Key: key, Value: value})
	})
	if err != nil {
		return nil, err
	}

	if missing != nil {
		return nil, missing
	}

	return res, nil
}
