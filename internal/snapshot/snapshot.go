/*
Package snapshot persists states of the deployed DeBank contracts together
with their storage.

Snapshots make it possible to inspect ledger data offline and to reproduce it
in test chains. Each snapshot is a single human-readable JSON file named
'<label>-<block>.snapshot.json' with binary storage keys and values encoded
in base64.
*/
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

const (
	sep        = "-"
	fileSuffix = ".snapshot.json"
)

// ID identifies a snapshot.
type ID struct {
	// Label of the snapshot source (e.g. testnet, mainnet).
	Label string `json:"label"`
	// Blockchain height at which the state was pulled.
	Block uint32 `json:"block"`
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

func (x *ID) decodeString(s string) error {
	i := strings.LastIndex(s, sep)
	if i <= 0 {
		return fmt.Errorf("expected '<label>%s<block>', got '%s'", sep, s)
	}

	n, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return fmt.Errorf("decode block number from '%s': %w", s[i+1:], err)
	}

	x.Label = s[:i]
	x.Block = uint32(n)

	return nil
}

// Item is a contract storage item.
type Item struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// Contract is a named contract state with its storage.
type Contract struct {
	Name    string         `json:"name"`
	State   state.Contract `json:"state"`
	Storage []Item         `json:"storage"`
}

// Write appends storage item to the contract. It never fails and matches
// storage iteration callbacks.
func (c *Contract) Write(key, value []byte) error {
	c.Storage = append(c.Storage, Item{
		Key:   append([]byte(nil), key...),
		Value: append([]byte(nil), value...),
	})
	return nil
}

// Snapshot is a set of contracts pulled at the same height.
type Snapshot struct {
	ID        ID          `json:"id"`
	Contracts []*Contract `json:"contracts"`
}

// New returns empty snapshot with the given ID.
func New(id ID) *Snapshot {
	return &Snapshot{ID: id}
}

// AddContract adds contract state to the snapshot and returns it for storage
// writing.
func (x *Snapshot) AddContract(name string, st state.Contract) *Contract {
	c := &Contract{Name: name, State: st}
	x.Contracts = append(x.Contracts, c)
	return c
}

// Contract returns named contract or nil if it's missing.
func (x *Snapshot) Contract(name string) *Contract {
	for _, c := range x.Contracts {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Path returns snapshot file path in the given directory.
func Path(dir string, id ID) string {
	return filepath.Join(dir, id.String()+fileSuffix)
}

// Save writes snapshot into the directory. It fails if the snapshot with the
// same ID already exists.
func Save(dir string, x *Snapshot) (string, error) {
	p := Path(dir, x.ID)

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return p, fmt.Errorf("create snapshot file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")

	err = enc.Encode(x)
	if err != nil {
		_ = f.Close()
		return p, fmt.Errorf("encode snapshot: %w", err)
	}

	return p, f.Close()
}

// Load reads snapshot with the given ID from the directory.
func Load(dir string, id ID) (*Snapshot, error) {
	f, err := os.Open(Path(dir, id))
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	var x Snapshot

	err = json.NewDecoder(f).Decode(&x)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if x.ID != id {
		return nil, fmt.Errorf("snapshot file %s contains %s", id, x.ID)
	}

	return &x, nil
}

// List returns IDs of all snapshots in the directory ordered by label and
// height.
func List(dir string) ([]ID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var res []ID

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		var id ID

		err = id.decodeString(strings.TrimSuffix(name, fileSuffix))
		if err != nil {
			return nil, fmt.Errorf("invalid snapshot file name '%s': %w", name, err)
		}

		res = append(res, id)
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Label != res[j].Label {
			return res[i].Label < res[j].Label
		}
		return res[i].Block < res[j].Block
	})

	return res, nil
}
