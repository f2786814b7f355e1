package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/debank-vn/debank-contract/internal/config"
	"github.com/debank-vn/debank-contract/internal/events"
	"github.com/debank-vn/debank-contract/internal/observability"
	"github.com/debank-vn/debank-contract/rpc/debank"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func watchCommand(cfg *config.Config) cli.Command {
	return cli.Command{
		Name:  "watch",
		Usage: "Log DeBank and VNDT events (requires websocket RPC endpoint)",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "debank", Usage: "DeBank contract hash or address", Value: cfg.DeBankHash},
			cli.StringFlag{Name: "vndt", Usage: "VNDT contract hash or address (read from DeBank if empty)", Value: cfg.VNDTHash},
			cli.StringFlag{Name: "metrics", Usage: "Listen address of Prometheus metrics (disabled if empty)"},
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

			ws, err := rpcclient.NewWS(ctx, c.GlobalString("rpc"), rpcclient.WSOptions{
				Options: rpcclient.Options{
					DialTimeout:    cfg.RPCTimeout,
					RequestTimeout: cfg.RPCTimeout,
				},
			})
			if err != nil {
				return cli.NewExitError(fmt.Errorf("websocket RPC client dial: %w", err), 1)
			}
			defer ws.Close()

			err = ws.Init()
			if err != nil {
				return cli.NewExitError(fmt.Errorf("init RPC client: %w", err), 1)
			}

			token, err := config.TokenHash(c.String("vndt"), debank.NewReader(invoker.New(ws, nil), ledger).VndToken)
			if err != nil {
				return cli.NewExitError(fmt.Errorf("VNDT contract: %w", err), 1)
			}

			metrics := observability.NewMetrics()

			if addr := c.String("metrics"); addr != "" {
				srv := &http.Server{Addr: addr, Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})}
				defer func() { _ = srv.Close() }()

				go func() {
					err := srv.ListenAndServe()
					if err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server", zap.Error(err))
					}
				}()
			}

			d := events.Dispatcher{
				Ledger: ledger,
				Token:  token,
				Observer: events.Multi{
					events.LogObserver{Logger: log},
					metrics,
				},
			}

			log.Info("watching ledger events",
				zap.String("debank", ledger.StringLE()), zap.String("vndt", token.StringLE()))

			err = d.Watch(ctx, ws, func(n *state.ContainedNotificationEvent, err error) {
				if errors.Is(err, events.ErrUnknownEvent) {
					log.Debug("skip notification", zap.String("name", n.Name), zap.Stringer("tx", n.Container))
					return
				}
				log.Warn("undecodable notification", zap.String("name", n.Name), zap.Stringer("tx", n.Container), zap.Error(err))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return cli.NewExitError(err, 1)
			}

			return nil
		},
	}
}
