package main

import (
	"context"
	"fmt"
	"os"

	"github.com/debank-vn/debank-contract/internal/config"
	"github.com/debank-vn/debank-contract/internal/snapshot"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func dumpCommand(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:  "dump",
		Usage: "Save DeBank and VNDT states with storage into a snapshot file (requires state service)",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "debank", Usage: "DeBank contract hash or address", Value: cfg.DeBankHash},
			cli.StringFlag{Name: "label", Usage: "Label of the blockchain environment (e.g. 'testnet')"},
			cli.StringFlag{Name: "out, o", Usage: "Output directory", Value: "testdata"},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			label := c.String("label")
			if label == "" {
				return cli.NewExitError("missing blockchain label", 1)
			}

			ledger, err := config.ParseHash(c.String("debank"))
			if err != nil {
				return cli.NewExitError(fmt.Errorf("DeBank contract: %w", err), 1)
			}

			outDir := c.String("out")

			err = os.MkdirAll(outDir, 0700)
			if err != nil {
				return cli.NewExitError(fmt.Errorf("create output dir: %w", err), 1)
			}

			ctx, cancel := signalContext()
			defer cancel()

			b, err := newRemoteBlockchain(ctx, c.GlobalString("rpc"), cfg)
			if err != nil {
				return cli.NewExitError(fmt.Errorf("init remote blockchain: %w", err), 1)
			}
			defer b.close()

			x, err := b.snapshot(label, ledger)
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			p, err := snapshot.Save(outDir, x)
			if err != nil {
				return cli.NewExitError(fmt.Errorf("save snapshot: %w", err), 1)
			}

			log.Info("ledger contracts are successfully dumped", zap.String("file", p), zap.Uint32("block", x.ID.Block))

			return nil
		},
	}
}

// remoteBlockchain wraps RPC client providing services needed for dumping.
type remoteBlockchain struct {
	rpc *rpcclient.Client
}

func newRemoteBlockchain(ctx context.Context, endpoint string, cfg *config.Config) (*remoteBlockchain, error) {
	c, err := rpcclient.New(ctx, endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPCTimeout,
		RequestTimeout: cfg.RPCTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	return &remoteBlockchain{rpc: c}, nil
}

func (x *remoteBlockchain) close() {
	x.rpc.Close()
}

// snapshot pulls ledger and token contracts at the penult block which has a
// state root.
func (x *remoteBlockchain) snapshot(label string, ledger util.Uint160) (*snapshot.Snapshot, error) {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return nil, fmt.Errorf("get number of the latest block: %w", err)
	}
	if nLatestBlock < 2 {
		return nil, fmt.Errorf("chain is too short: %d blocks", nLatestBlock)
	}

	height := nLatestBlock - 1

	stateRoot, err := x.rpc.GetStateRootByHeight(height)
	if err != nil {
		return nil, fmt.Errorf("get state root at block #%d: %w", height, err)
	}

	token, err := debank.NewReader(invoker.NewHistoricAtHeight(height, x.rpc, nil), ledger).VndToken()
	if err != nil {
		return nil, fmt.Errorf("read VNDT address: %w", err)
	}

	res := snapshot.New(snapshot.ID{Label: label, Block: height})

	for _, ctr := range []struct {
		name string
		hash util.Uint160
	}{
		{"vndt", token},
		{"debank", ledger},
	} {
		st, err := x.rpc.GetContractStateByHash(ctr.hash)
		if err != nil {
			return nil, fmt.Errorf("get '%s' contract state: %w", ctr.name, err)
		}

		c := res.AddContract(ctr.name, *st)

		err = x.iterateContractStorage(stateRoot.Root, ctr.hash, c.Write)
		if err != nil {
			return nil, fmt.Errorf("iterate '%s' contract storage: %w", ctr.name, err)
		}
	}

	return res, nil
}

// iterateContractStorage passes all storage items of the contract at the
// given state root into f and breaks on f's error.
func (x *remoteBlockchain) iterateContractStorage(root util.Uint256, contract util.Uint160, f func(key, value []byte) error) error {
	var start []byte

	for {
		res, err := x.rpc.FindStates(root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items at state root '%s': %w", root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
