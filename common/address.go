package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
)

// addressVersion is a version byte of N3 addresses.
const addressVersion = 0x35

// Address returns base58check-encoded N3 address of the script hash.
func Address(h interop.Hash160) string {
	return std.Base58CheckEncode(append([]byte{addressVersion}, h...))
}

// IsNull returns true if h can't be used as a destination: it is either
// of a wrong length or consists of zero bytes only.
func IsNull(h interop.Hash160) bool {
	if len(h) != interop.Hash160Len {
		return true
	}

	for i := 0; i < len(h); i++ {
		if h[i] != 0 {
			return false
		}
	}

	return true
}
