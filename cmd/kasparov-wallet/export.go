package main

import (
	"encoding/hex"
	"fmt"

	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/wallet"
	"github.com/urfave/cli"
)

// exportCommand bootstraps a new encrypted seed file. The BIP39 mnemonic
// encoder is an external collaborator (spec.md §1): this command accepts
// the already-generated seed phrase and the raw HD seed bytes it encodes
// (hex), rather than performing mnemonic generation itself.
var exportCommand = cli.Command{
	Name:      "export",
	Usage:     "Create a new encrypted seed file from a seed phrase and its raw seed.",
	ArgsUsage: "seed-hex seed-phrase...",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "out", Usage: "output path for the encrypted seed file"},
	},
	Action: actionDecorator(exportActionFn),
}

func exportActionFn(c *cli.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return cli.ShowCommandHelp(c, "export")
	}

	seed, err := hex.DecodeString(args.Get(0))
	if err != nil {
		return fmt.Errorf("invalid seed hex: %v", err)
	}
	seedPhrase := joinArgs(args[1:])

	out := c.String("out")
	if out == "" {
		out = c.GlobalString("seedfile")
	}
	if out == "" {
		return fmt.Errorf("no --out path given")
	}

	network := c.GlobalString("network")
	if network == "" {
		network = "mainnet"
	}
	params, err := chainparams.ParamsForNetwork(network)
	if err != nil {
		return err
	}

	password, err := promptPassword("new wallet password: ")
	if err != nil {
		return err
	}

	w, err := wallet.New(wallet.Config{
		Params: params,
		Rpc:    nopRpcClient{},
		Seed:   seed,
	})
	if err != nil {
		return err
	}

	enc, err := w.Export(password, seedPhrase)
	if err != nil {
		return err
	}

	if err := walletexportSave(enc, out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote encrypted seed to %s\n", out)
	return nil
}

func joinArgs(args []string) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += a
	}
	return s
}
