package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kasparovwallet/kasparov/wallet"
	"github.com/urfave/cli"
)

var sendCommand = cli.Command{
	Name:      "send",
	Usage:     "Send an amount to an address.",
	ArgsUsage: "to-address amount",
	Flags: []cli.Flag{
		cli.Uint64Flag{Name: "fee", Usage: "priority fee in sompi"},
		cli.Uint64Flag{Name: "networkfeemax", Usage: "abort if the network fee would exceed this"},
		cli.BoolFlag{Name: "inclusivefee", Usage: "subtract the fee from amount instead of adding it"},
		cli.StringFlag{Name: "note", Usage: "optional note stored alongside this transaction"},
	},
	Action: actionDecorator(sendActionFn),
}

func sendActionFn(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "send")
	}

	toAddress := args.Get(0)
	amount, err := strconv.ParseUint(args.Get(1), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %v", err)
	}

	w, err := openWallet(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	txID, err := w.Send(ctx, wallet.SendParams{
		ToAddress:     toAddress,
		Amount:        amount,
		PriorityFee:   c.Uint64("fee"),
		InclusiveFee:  c.Bool("inclusivefee"),
		NetworkFeeMax: c.Uint64("networkfeemax"),
		Note:          c.String("note"),
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
