package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	ctr := neotest.CompileFile(t, util.Uint160{}, "../../vndt", "../../vndt/config.yml")

	st := state.Contract{
		ContractBase: state.ContractBase{
			ID:       1,
			Hash:     ctr.Hash,
			NEF:      *ctr.NEF,
			Manifest: *ctr.Manifest,
		},
	}

	id := ID{Label: "test-net", Block: 42}
	x := New(id)

	c := x.AddContract("vndt", st)
	require.NoError(t, c.Write([]byte("o"), []byte{1, 2, 3}))
	require.NoError(t, c.Write([]byte("s"), []byte{4}))

	p, err := Save(dir, x)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "test-net-42.snapshot.json"), p)

	_, err = Save(dir, x)
	require.ErrorIs(t, err, os.ErrExist)

	loaded, err := Load(dir, id)
	require.NoError(t, err)
	require.Equal(t, id, loaded.ID)
	require.Nil(t, loaded.Contract("debank"))

	lc := loaded.Contract("vndt")
	require.NotNil(t, lc)
	require.Equal(t, ctr.Hash, lc.State.Hash)
	require.Equal(t, ctr.Manifest.Name, lc.State.Manifest.Name)
	require.Equal(t, []Item{
		{Key: []byte("o"), Value: []byte{1, 2, 3}},
		{Key: []byte("s"), Value: []byte{4}},
	}, lc.Storage)

	_, err = Load(dir, ID{Label: "main", Block: 1})
	require.Error(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()

	ids, err := List(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Empty(t, ids)

	for _, id := range []ID{{"testnet", 10}, {"mainnet", 7}, {"testnet", 2}} {
		_, err = Save(dir, New(id))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), nil, 0600))

	ids, err = List(dir)
	require.NoError(t, err)
	require.Equal(t, []ID{{"mainnet", 7}, {"testnet", 2}, {"testnet", 10}}, ids)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.snapshot.json"), nil, 0600))
	_, err = List(dir)
	require.Error(t, err)
}
