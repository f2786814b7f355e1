package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/debank-vn/debank-contract/internal/config"
	"github.com/debank-vn/debank-contract/internal/gateway"
	"github.com/debank-vn/debank-contract/internal/observability"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func serveCommand(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:  "serve",
		Usage: "Serve read-only HTTP API over the DeBank ledger",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "listen, l", Usage: "HTTP listen address", Value: cfg.ListenAddress},
			cli.StringFlag{Name: "debank", Usage: "DeBank contract hash or address", Value: cfg.DeBankHash},
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

			metrics := observability.NewMetrics()
			svc := gateway.NewService(debank.NewReader(invoker.New(rpc, nil), ledger), metrics)

			srv := &http.Server{
				Addr:         c.String("listen"),
				Handler:      gateway.NewRouter(svc, metrics, log, cfg.PageSize),
				ReadTimeout:  cfg.ReadTimeout,
				WriteTimeout: cfg.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("gateway started", zap.String("address", srv.Addr), zap.String("debank", ledger.StringLE()))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err = <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return cli.NewExitError(fmt.Errorf("HTTP server: %w", err), 1)
				}
			case <-ctx.Done():
				log.Info("shutting down gateway...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				err = srv.Shutdown(shutdownCtx)
				if err != nil {
					log.Error("gateway shutdown", zap.Error(err))
				}
			}

			return nil
		},
	}
}
