package dump

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Reader reads contract collected in the superior dump.
type Reader struct {
	contract state.Contract
	items    []kv
}

type kv struct{ k, v []byte }

// Open reads the dump with the given ID from the directory.
func Open(dir string, id ID) (*Reader, error) {
	statePath, storagePath := dumpPaths(dir, id)

	fState, err := openDumpFile(statePath, true)
	if err != nil {
		return nil, fmt.Errorf("open file with contract state: %w", err)
	}
	defer fState.Close()

	fStorage, err := openDumpFile(storagePath, true)
	if err != nil {
		return nil, fmt.Errorf("open file with storage items: %w", err)
	}
	defer fStorage.Close()

	var r Reader

	err = r.fromDumpStreams(fState, fStorage)
	if err != nil {
		return nil, fmt.Errorf("init dump reader (%s): %w", id, err)
	}

	return &r, nil
}

// IterateDumps iterates over all dumps created by the Creator in the specified
// directory, and passes ID and Reader of each dump into f. Iteration stops on
// the first f's error.
func IterateDumps(dir string, f func(ID, *Reader) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read dump directory: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, stateFileSuffix) {
			continue
		}

		id, err := ParseID(strings.TrimSuffix(name, stateFileSuffix))
		if err != nil {
			return fmt.Errorf("decode dump ID from file name '%s': %w", name, err)
		}

		r, err := Open(filepath.Clean(dir), id)
		if err != nil {
			return err
		}

		if err = f(id, r); err != nil {
			return err
		}
	}

	return nil
}

func (x *Reader) fromDumpStreams(rState, rStorageItems io.Reader) error {
	err := json.NewDecoder(rState).Decode(&x.contract)
	if err != nil {
		return fmt.Errorf("decode contract state from JSON: %w", err)
	}

	_csv := csv.NewReader(rStorageItems)
	_csv.FieldsPerRecord = 2
	_csv.ReuseRecord = true

	x.items = x.items[:0]

	for {
		rec, err := _csv.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		var _kv kv

		// out-of-range safety guaranteed by csv settings
		_kv.k, err = _encoding.DecodeString(rec[0])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		_kv.v, err = _encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.items = append(x.items, _kv)
	}
}

// Contract returns state of the dumped contract.
func (x *Reader) Contract() state.Contract {
	return x.contract
}

// IterateStorage passes storage items of the dumped contract into f in the
// order they were written. Iteration stops on the first f's error.
func (x *Reader) IterateStorage(f func(key, value []byte) error) error {
	for i := range x.items {
		if err := f(x.items[i].k, x.items[i].v); err != nil {
			return err
		}
	}
	return nil
}
