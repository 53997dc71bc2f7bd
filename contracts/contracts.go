/*
Package contracts provides access to compiled B4REAL contract.

Contract source code lives in b4real subdirectory, `make` compiles it into
contract.nef and manifest.json files placed next to the sources (see DefaultDir).
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// DefaultDir is the location of compiled contract relative to the
	// repository root.
	DefaultDir = "contracts/b4real"

	// Name is the manifest name of the contract.
	Name = "B4REAL"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about compiled Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
	errUnexpectedName  = errors.New("unexpected contract name")
)

// Read reads compiled B4REAL contract from the directory holding contract.nef
// and manifest.json files.
func Read(dir string) (Contract, error) {
	c, err := read(os.DirFS(dir))
	if err != nil {
		return c, fmt.Errorf("read contract from %s: %w", dir, err)
	}

	return c, nil
}

// read same as Read but allows to override source fs.FS.
func read(_fs fs.FS) (Contract, error) {
	var c Contract

	// fs.FS always uses "/" separator, so path names are used as is.
	fNEF, err := _fs.Open(nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	if c.Manifest.Name != Name {
		return c, fmt.Errorf("%w: %q", errUnexpectedName, c.Manifest.Name)
	}

	return c, nil
}
