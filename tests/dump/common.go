package dump

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ID is a unique identifier of the dump prepared according to the model
// described in the current package.
type ID struct {
	// Label of the dump source (e.g. testnet, mainnet).
	Label string
	// Blockchain height at which the state was pulled.
	Block uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

// ParseID decodes ID from its string form. Label may contain separators
// itself, so the block number is taken from the last item.
func ParseID(s string) (ID, error) {
	var x ID

	ss := strings.Split(s, sep)
	if len(ss) < 2 {
		return x, fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}

	last := len(ss) - 1

	n, err := strconv.ParseUint(ss[last], 10, 32)
	if err != nil {
		return x, fmt.Errorf("decode block number from '%s': %w", ss[last], err)
	}

	x.Label = strings.Join(ss[:last], sep)
	x.Block = uint32(n)

	return x, nil
}

// global encoding of binary values.
var _encoding = base64.StdEncoding

const (
	// word separator used in dump file naming
	sep = "-"
	// suffix of file with contract state
	stateFileSuffix = sep + "contract.json"
	// suffix of file with storage items
	storageFileSuffix = sep + "storage.csv"
)

func dumpPaths(dir string, id ID) (statePath, storagePath string) {
	return filepath.Join(dir, id.String()+stateFileSuffix), filepath.Join(dir, id.String()+storageFileSuffix)
}

// openDumpFile opens dump file for reading or creates it for writing. In the
// latter case the file must not exist.
func openDumpFile(p string, read bool) (*os.File, error) {
	if read {
		return os.Open(p)
	}

	if err := checkFileNotExists(p); err != nil {
		return nil, err
	}

	return os.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0600)
}
