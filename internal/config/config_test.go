package config

import (
	"errors"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c := Load()
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, ":8080", c.ListenAddress)
	require.Equal(t, 10*time.Second, c.RPCTimeout)
	require.Equal(t, 20, c.PageSize)
	require.Equal(t, "contracts", c.ContractsDir)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DEBANK_LOG_LEVEL", "debug")
	t.Setenv("DEBANK_RPC_TIMEOUT", "1m")
	t.Setenv("DEBANK_PAGE_SIZE", "50")
	t.Setenv("DEBANK_READ_TIMEOUT", "not a duration")
	t.Setenv("DEBANK_CONTRACT_HASH", "abc")
	t.Setenv("DEBANK_VNDT_HASH", "def")

	c := Load()
	require.Equal(t, "debug", c.LogLevel)
	require.Equal(t, time.Minute, c.RPCTimeout)
	require.Equal(t, 50, c.PageSize)
	require.Equal(t, 5*time.Second, c.ReadTimeout)
	require.Equal(t, "abc", c.DeBankHash)
	require.Equal(t, "def", c.VNDTHash)
}

func TestParseHash(t *testing.T) {
	h := util.Uint160{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}

	actual, err := ParseHash(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, actual)

	actual, err = ParseHash(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, actual)

	_, err = ParseHash("")
	require.Error(t, err)

	_, err = ParseHash("definitely not a hash")
	require.Error(t, err)
}

func TestTokenHash(t *testing.T) {
	token := util.Uint160{1, 2, 3}
	fromLedger := func() (util.Uint160, error) { return util.Uint160{9}, nil }

	h, err := TokenHash(token.StringLE(), fromLedger)
	require.NoError(t, err)
	require.Equal(t, token, h)

	h, err = TokenHash("", fromLedger)
	require.NoError(t, err)
	require.Equal(t, util.Uint160{9}, h)

	_, err = TokenHash("", func() (util.Uint160, error) { return util.Uint160{}, errors.New("node is down") })
	require.ErrorContains(t, err, "node is down")

	_, err = TokenHash("bad", fromLedger)
	require.Error(t, err)
}
