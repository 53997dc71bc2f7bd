package dump

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Creator dumps state of B4REAL contract. Output file format:
//
//	'<label>-<block>-contract.json': JSON of the contract state
//	'<label>-<block>-storage.csv': CSV of the contract storage
//
// Storage CSV are 'key,value' where binary key-value are base64-encoded.
//
// Use Open or IterateDumps to access existing dumps.
type Creator struct {
	stateFile, storageFile *os.File

	contract state.Contract

	storageItemsCSV *csv.Writer
}

// NewCreator returns Creator which dumps the contract into given directory.
// The dump is identified by specified ID. Resulting Creator should be closed
// when finished working with it.
//
// NewCreator fails if dump with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	statePath, storagePath := dumpPaths(dir, id)

	var err error
	res.storageFile, err = openDumpFile(storagePath, false)
	if err != nil {
		return nil, fmt.Errorf("open file with storage items: %w", err)
	}

	res.stateFile, err = openDumpFile(statePath, false)
	if err != nil {
		_ = res.storageFile.Close()
		return nil, fmt.Errorf("open file with contract state: %w", err)
	}

	res.storageItemsCSV = csv.NewWriter(res.storageFile)

	return &res, nil
}

// SetContract sets the state of the dumped contract.
func (x *Creator) SetContract(st state.Contract) {
	x.contract = st
}

// Write saves given binary key-value into the dump as storage item.
func (x *Creator) Write(key, value []byte) error {
	err := x.storageItemsCSV.Write([]string{
		_encoding.EncodeToString(key),
		_encoding.EncodeToString(value),
	})
	if err != nil {
		return fmt.Errorf("write storage item as CSV data: %w", err)
	}

	return nil
}

// Flush flushes accumulated dump to the file system.
func (x *Creator) Flush() error {
	jEnc := json.NewEncoder(x.stateFile)
	jEnc.SetIndent("", " ")

	err := jEnc.Encode(x.contract)
	if err != nil {
		return fmt.Errorf("encode contract state to JSON: %w", err)
	}

	x.storageItemsCSV.Flush()

	err = x.storageItemsCSV.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	_ = x.storageFile.Close()
	_ = x.stateFile.Close()
}
