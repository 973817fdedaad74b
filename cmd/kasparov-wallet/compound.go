package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kasparovwallet/kasparov/wallet"
	"github.com/urfave/cli"
)

var compoundCommand = cli.Command{
	Name:  "compound",
	Usage: "Collapse small UTXOs into a single self-send.",
	Flags: []cli.Flag{
		cli.UintFlag{Name: "maxutxos", Usage: "maximum UTXOs to collapse (default 100)"},
		cli.Uint64Flag{Name: "fee", Usage: "priority fee in sompi"},
	},
	Action: actionDecorator(compoundActionFn),
}

func compoundActionFn(c *cli.Context) error {
	w, err := openWallet(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	txID, err := w.Compound(ctx, wallet.CompoundParams{
		MaxUtxoCount: c.Uint("maxutxos"),
		PriorityFee:  c.Uint64("fee"),
	})
	if err != nil {
		return err
	}
	if txID == "" {
		fmt.Fprintln(c.App.Writer, "submitted, no txid returned by node")
		return nil
	}
	fmt.Fprintln(c.App.Writer, txID)
	return nil
}
