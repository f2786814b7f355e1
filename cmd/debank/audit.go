package main

import (
	"fmt"

	"github.com/debank-vn/debank-contract/contracts/vndt/vndtconst"
	"github.com/debank-vn/debank-contract/internal/audit"
	"github.com/debank-vn/debank-contract/internal/config"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/debank-vn/debank-contract/rpc/vndt"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func auditCommand(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:  "audit",
		Usage: "Check that ledger balances match its totals and held VNDT",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "debank", Usage: "DeBank contract hash or address", Value: cfg.DeBankHash},
			cli.StringFlag{Name: "vndt", Usage: "VNDT contract hash or address (read from DeBank if empty)", Value: cfg.VNDTHash},
			cli.IntFlag{Name: "max-accounts", Usage: "Maximum number of accounts to read", Value: 10_000},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ledger, err := config.ParseHash(c.String("debank"))
			if err != nil {
				return cli.NewExitError(fmt.Errorf("DeBank contract: %w", err), 1)
			}

			ctx, cancel := signalContext()
			defer cancel()

			rpc, err := rpcclient.New(ctx, c.GlobalString("rpc"), rpcclient.Options{
				DialTimeout:    cfg.RPCTimeout,
				RequestTimeout: cfg.RPCTimeout,
			})
			if err != nil {
				return cli.NewExitError(fmt.Errorf("RPC client dial: %w", err), 1)
			}
			defer rpc.Close()

			inv := invoker.New(rpc, nil)
			ledgerReader := debank.NewReader(inv, ledger)

			token, err := config.TokenHash(c.String("vndt"), ledgerReader.VndToken)
			if err != nil {
				return cli.NewExitError(fmt.Errorf("VNDT contract: %w", err), 1)
			}

			r, err := audit.Run(ledgerReader, ledger, vndt.NewReader(inv, token), c.Int("max-accounts"))
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			fields := []zap.Field{
				zap.Int("accounts", r.Accounts),
				zap.String("balances", fixedn.ToString(r.SumBalances, vndtconst.Decimals)),
				zap.String("deposits", fixedn.ToString(r.TotalDeposits, vndtconst.Decimals)),
				zap.String("savings", fixedn.ToString(r.TotalSavings, vndtconst.Decimals)),
				zap.String("custody", fixedn.ToString(r.Custody, vndtconst.Decimals)),
				zap.String("surplus", fixedn.ToString(r.Surplus(), vndtconst.Decimals)),
			}

			if !r.Consistent() {
				log.Error("account balances don't match total deposits", fields...)
				return cli.NewExitError("ledger is inconsistent", 2)
			}

			if r.Surplus().Sign() < 0 {
				log.Warn("ledger holds less VNDT than it owes", fields...)
			} else {
				log.Info("ledger is consistent", fields...)
			}

			return nil
		},
	}
}
