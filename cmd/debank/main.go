package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/debank-vn/debank-contract/common"
	"github.com/debank-vn/debank-contract/internal/config"
	"github.com/debank-vn/debank-contract/internal/observability"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	app := cli.NewApp()
	app.Name = "debank"
	app.Usage = "DeBank ledger tooling"
	app.Version = fmt.Sprintf("%d.%d.%d", common.Version/1_000_000, common.Version/1_000%1_000, common.Version%1_000)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Logging level (debug, info, warn, error)",
			Value: cfg.LogLevel,
		},
		cli.StringFlag{
			Name:  "rpc",
			Usage: "Neo RPC node endpoint",
			Value: cfg.RPCEndpoint,
		},
	}
	app.Commands = []cli.Command{
		deployCommand(cfg),
		serveCommand(cfg),
		watchCommand(cfg),
		dumpCommand(cfg),
		auditCommand(cfg),
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds logger of the level set by the global flag.
func newLogger(c *cli.Context) (*zap.Logger, error) {
	l, err := observability.NewLogger(c.GlobalString("log-level"))
	if err != nil {
		return nil, cli.NewExitError(fmt.Errorf("init logger: %w", err), 1)
	}
	return l, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
