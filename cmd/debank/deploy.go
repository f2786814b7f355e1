package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/debank-vn/debank-contract/contracts"
	"github.com/debank-vn/debank-contract/deploy"
	"github.com/debank-vn/debank-contract/internal/config"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func deployCommand(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:  "deploy",
		Usage: "Deploy VNDT and DeBank contracts (skips already deployed ones)",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "wallet, w", Usage: "Path to the NEP-6 wallet", Value: cfg.WalletPath},
			cli.StringFlag{Name: "address, a", Usage: "Wallet account to deploy from (default account if empty)", Value: cfg.WalletAddress},
			cli.StringFlag{Name: "contracts", Usage: "Directory with compiled contracts", Value: cfg.ContractsDir},
			cli.StringFlag{Name: "daily-limit", Usage: "Initial daily transfer limit in VNDT base units"},
			cli.Int64Flag{Name: "fee-rate", Usage: "Initial transfer fee rate in basis points", Value: -1},
			cli.StringFlag{Name: "fee-receiver", Usage: "Initial fee receiver address"},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			acc, err := openAccount(c.String("wallet"), c.String("address"), cfg.WalletPassword)
			if err != nil {
				return cli.NewExitError(err, 1)
			}

			set, err := contracts.GetDir(c.String("contracts"))
			if err != nil {
				return cli.NewExitError(fmt.Errorf("read compiled contracts: %w", err), 1)
			}

			settings, err := parseSettings(c)
			if err != nil {
				return cli.NewExitError(err, 1)
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

			err = rpc.Init()
			if err != nil {
				return cli.NewExitError(fmt.Errorf("init RPC client: %w", err), 1)
			}

			res, err := deploy.Deploy(ctx, deploy.Prm{
				Logger:       log,
				Blockchain:   rpc,
				LocalAccount: acc,
				VNDT:         deploy.CommonDeployPrm{NEF: set.VNDT.NEF, Manifest: set.VNDT.Manifest},
				DeBank:       deploy.CommonDeployPrm{NEF: set.DeBank.NEF, Manifest: set.DeBank.Manifest},
				Settings:     settings,
			})
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return cli.NewExitError("interrupted", 1)
				}
				return cli.NewExitError(err, 1)
			}

			log.Info("ledger is deployed",
				zap.String("vndt", res.VNDT.StringLE()),
				zap.String("debank", res.DeBank.StringLE()))

			return nil
		},
	}
}

// openAccount finds the account in the wallet and decrypts it.
func openAccount(walletPath, addr, password string) (*wallet.Account, error) {
	if walletPath == "" {
		return nil, errors.New("missing wallet path")
	}

	w, err := wallet.NewWalletFromFile(walletPath)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account

	if addr == "" {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}

		acc = w.Accounts[0]
		for _, a := range w.Accounts {
			if a.Default {
				acc = a
				break
			}
		}
	} else {
		h, err := address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", addr)
		}
	}

	err = acc.Decrypt(password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

func parseSettings(c *cli.Context) (deploy.Settings, error) {
	var s deploy.Settings

	if v := c.String("daily-limit"); v != "" {
		limit, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return s, fmt.Errorf("invalid daily limit %q", v)
		}
		s.DailyTransferLimit = limit
	}

	if v := c.Int64("fee-rate"); v >= 0 {
		s.TransferFeeRate = big.NewInt(v)
	}

	if v := c.String("fee-receiver"); v != "" {
		h, err := address.StringToUint160(v)
		if err != nil {
			return s, fmt.Errorf("invalid fee receiver: %w", err)
		}
		s.FeeReceiver = &h
	}

	return s, nil
}
