package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the ledger deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. It returns an error if the contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Settings groups ledger parameters applied right after deployment. Nil
// fields leave contract defaults.
type Settings struct {
	DailyTransferLimit *big.Int
	TransferFeeRate    *big.Int
	FeeReceiver        *util.Uint160
}

// Prm groups all parameters of the ledger deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It becomes the owner of both contracts.
	LocalAccount *wallet.Account

	VNDT   CommonDeployPrm
	DeBank CommonDeployPrm

	Settings Settings
}

// Result contains on-chain addresses of the deployed contracts.
type Result struct {
	VNDT   util.Uint160
	DeBank util.Uint160
}

var errFault = errors.New("transaction FAULTed")

// Deploy puts VNDT token and DeBank ledger contracts to the chain
// represented by given Prm.Blockchain and applies configured settings.
//
// Contract addresses depend on the deploying account only, so Deploy skips
// contracts which are already on the chain and can be safely repeated.
// Summary of stages:
//  1. VNDT deployment (the whole supply is minted to the local account)
//  2. DeBank deployment bound to VNDT
//  3. ledger settings update
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.LocalAccount == nil {
		return res, errors.New("missing local account")
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	owner := prm.LocalAccount.ScriptHash()

	prm.Logger.Info("synchronizing VNDT contract with the chain...")

	res.VNDT, err = syncContract(ctx, prm.Logger, prm.Blockchain, act, prm.VNDT, []any{owner})
	if err != nil {
		return res, fmt.Errorf("sync VNDT contract with the chain: %w", err)
	}

	prm.Logger.Info("VNDT contract successfully synchronized", zap.Stringer("address", res.VNDT))

	prm.Logger.Info("synchronizing DeBank contract with the chain...")

	res.DeBank, err = syncContract(ctx, prm.Logger, prm.Blockchain, act, prm.DeBank, []any{res.VNDT, owner})
	if err != nil {
		return res, fmt.Errorf("sync DeBank contract with the chain: %w", err)
	}

	prm.Logger.Info("DeBank contract successfully synchronized", zap.Stringer("address", res.DeBank))

	err = applySettings(ctx, prm.Logger, debank.New(act, res.DeBank), act, prm.Settings)
	if err != nil {
		return res, fmt.Errorf("apply DeBank settings: %w", err)
	}

	return res, nil
}

// syncContract deploys the contract unless it is already deployed by the
// local account and returns its address.
func syncContract(ctx context.Context, l *zap.Logger, b Blockchain, act *actor.Actor, prm CommonDeployPrm, data any) (util.Uint160, error) {
	addr := state.CreateContractHash(act.Sender(), prm.NEF.Checksum, prm.Manifest.Name)

	_, err := b.GetContractStateByHash(addr)
	if err == nil {
		l.Info("contract is already deployed, skip", zap.String("name", prm.Manifest.Name), zap.Stringer("address", addr))
		return addr, nil
	}

	l.Debug("contract is missing on the chain, deploying...", zap.String("name", prm.Manifest.Name), zap.Error(err))

	txHash, vub, err := management.New(act).Deploy(&prm.NEF, &prm.Manifest, data)
	if err != nil {
		return addr, fmt.Errorf("send deploy transaction: %w", err)
	}

	l.Info("deploy transaction sent, waiting for acceptance...",
		zap.String("name", prm.Manifest.Name), zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	err = await(ctx, act, txHash, vub)
	if err != nil {
		return addr, fmt.Errorf("deploy transaction %s: %w", txHash, err)
	}

	return addr, nil
}

func applySettings(ctx context.Context, l *zap.Logger, c *debank.Contract, act *actor.Actor, s Settings) error {
	type change struct {
		name string
		send func() (util.Uint256, uint32, error)
	}

	var changes []change

	if s.DailyTransferLimit != nil {
		changes = append(changes, change{"daily transfer limit", func() (util.Uint256, uint32, error) {
			return c.SetDailyTransferLimit(s.DailyTransferLimit)
		}})
	}
	if s.TransferFeeRate != nil {
		changes = append(changes, change{"transfer fee rate", func() (util.Uint256, uint32, error) {
			return c.SetTransferFeeRate(s.TransferFeeRate)
		}})
	}
	if s.FeeReceiver != nil {
		changes = append(changes, change{"fee receiver", func() (util.Uint256, uint32, error) {
			return c.SetFeeReceiver(*s.FeeReceiver)
		}})
	}

	for _, ch := range changes {
		txHash, vub, err := ch.send()
		if err != nil {
			return fmt.Errorf("set %s: %w", ch.name, err)
		}

		err = await(ctx, act, txHash, vub)
		if err != nil {
			return fmt.Errorf("set %s: transaction %s: %w", ch.name, txHash, err)
		}

		l.Info("DeBank setting updated", zap.String("setting", ch.name))
	}

	return nil
}

// await waits for the transaction to be accepted and checks that it HALTed.
func await(ctx context.Context, act *actor.Actor, txHash util.Uint256, vub uint32) error {
	aer, err := act.WaitAny(ctx, vub, txHash)
	if err != nil {
		return err
	}

	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("%w: %s", errFault, aer.FaultException)
	}

	return nil
}
