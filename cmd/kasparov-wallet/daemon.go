package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kasparovwallet/kasparov/wallet"
	"github.com/kasparovwallet/kasparov/walletevents"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"
)

// daemonCommand runs a continuous sync and exposes /metrics (prometheus)
// and /events (the walletevents websocket bridge) for a UI process to
// observe, per SPEC_FULL.md's supplemented metrics-endpoint feature.
var daemonCommand = cli.Command{
	Name:  "daemon",
	Usage: "Run continuous sync and serve /metrics and /events.",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "listen", Value: "127.0.0.1:9191", Usage: "metrics/events HTTP listen address"},
	},
	Action: actionDecorator(daemonActionFn),
}

func daemonActionFn(c *cli.Context) error {
	w, err := openWallet(c)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := wallet.NewMetrics(reg)
	if err != nil {
		return err
	}
	metrics.Attach(w.Events())

	bridge := walletevents.NewWSBridge(w.Events())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/events", bridge)

	if err := w.Sync(context.Background(), false); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "listening on %s (/metrics, /events)\n", c.String("listen"))
	return http.ListenAndServe(c.String("listen"), mux)
}
