/*
Package contracts provides access to compiled DeBank contracts.

Contracts are built with `make build` which puts NEF and manifest files into
<name>/contract.nef and <name>/manifest.json next to this package.
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
	vndtDir   = "vndt"
	debankDir = "debank"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract stored in the current package.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Set is a full set of contracts needed to run the ledger.
type Set struct {
	VNDT   Contract
	DeBank Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	// deploy order, DeBank needs VNDT address.
	ledgerContracts = []string{
		vndtDir,
		debankDir,
	}
)

// Get reads the contracts from the file system.
func Get(fsys fs.FS) (Set, error) {
	cs, err := read(fsys, ledgerContracts)
	if err != nil {
		return Set{}, err
	}

	return Set{
		VNDT:   cs[0],
		DeBank: cs[1],
	}, nil
}

// GetDir reads the contracts from the build directory.
func GetDir(dir string) (Set, error) {
	return Get(os.DirFS(dir))
}

// read same as Get but allows to choose contracts.
func read(_fs fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(_fs, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(_fs fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths are always slash-separated, so filepath.Join() is not
	// applicable.
	fNEF, err := _fs.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := _fs.Open(dir + "/" + manifestName)
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

	return c, nil
}
