package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli"
)

var balanceCommand = cli.Command{
	Name:   "balance",
	Usage:  "Show confirmed and pending wallet balance.",
	Action: actionDecorator(balanceAction),
}

func balanceAction(c *cli.Context) error {
	w, err := openWallet(c)
	if err != nil {
		return err
	}

	bal := w.UtxoSet().Balance()

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Confirmed", "Pending", "Total", "Confirmed UTXOs"})
	t.AppendRow(table.Row{
		fmt.Sprintf("%d", bal.ConfirmedTotal),
		fmt.Sprintf("%d", bal.PendingTotal),
		fmt.Sprintf("%d", bal.Total),
		bal.ConfirmedUtxosCount,
	})
	c.App.Writer.Write([]byte(t.Render() + "\n"))
	return nil
}
