package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli"
)

var addressCommand = cli.Command{
	Name:  "address",
	Usage: "Show the next unused receive address.",
	Flags: []cli.Flag{
		cli.BoolFlag{Name: "change", Usage: "derive from the change chain instead"},
	},
	Action: actionDecorator(addressAction),
}

func addressAction(c *cli.Context) error {
	w, err := openWallet(c)
	if err != nil {
		return err
	}

	view := w.AddressManager().ReceiveAddress()
	if c.Bool("change") {
		view = w.AddressManager().ChangeAddress()
	}

	addr, err := view.Next()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Index", "Address"})
	t.AppendRow(table.Row{addr.Index, addr.AddressStr})
	c.App.Writer.Write([]byte(t.Render() + "\n"))
	return nil
}
