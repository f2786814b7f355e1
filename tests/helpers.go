package tests

import (
	"math/big"
	"testing"
	"time"

	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// tokens converts whole VNDT tokens to the smallest units.
func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(vndtconst.DecimalsFactor))
}

// requireEvent checks that the execution result contains exactly one event
// with the given name emitted by the contract and compares its arguments.
func requireEvent(t testing.TB, aer *state.AppExecResult, contract util.Uint160, name string, args ...stackitem.Item) {
	var found []state.NotificationEvent
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) && ev.Name == name {
			found = append(found, ev)
		}
	}

	require.Len(t, found, 1, "event %s", name)
	require.Equal(t, stackitem.NewArray(args), found[0].Item, "event %s", name)
}

// requireNoEvent checks that the contract emitted no event with the given name.
func requireNoEvent(t testing.TB, aer *state.AppExecResult, contract util.Uint160, name string) {
	for _, ev := range aer.Events {
		if ev.ScriptHash.Equals(contract) && ev.Name == name {
			t.Fatalf("unexpected event %s", name)
		}
	}
}

// skipDays adds a block which is n days ahead of the current top block.
func skipDays(t testing.TB, e *neotest.Executor, n int64) {
	b := e.NewUnsignedBlock(t)
	b.Timestamp = e.TopBlock(t).Timestamp + uint64(n*msPerDay)
	require.NoError(t, e.Chain.AddBlock(e.SignBlock(b)))
}

// requireHash invokes the method and checks that it returns the given hash.
// Stored hashes come back as buffers, so the result is compared decoded.
func requireHash(t testing.TB, c *neotest.ContractInvoker, expected util.Uint160, method string, args ...any) {
	c.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)
		b, err := stack[0].TryBytes()
		require.NoError(t, err)
		actual, err := util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}, method, args...)
}

func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(h.BytesBE())
}

func intItem(v *big.Int) stackitem.Item {
	return stackitem.NewBigInteger(v)
}
