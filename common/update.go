package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
)

// UpdateContract replaces executing contract code via native management
// contract. Current version is appended to data so that new code can check
// it in _deploy.
func UpdateContract(script []byte, manifest []byte, data interface{}) {
	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, AppendVersion(data))
}
