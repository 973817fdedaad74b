package main

import (
	"fmt"

	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/wallet"
	"github.com/kasparovwallet/kasparov/walletexport"
	"github.com/urfave/cli"
)

// importCommand decrypts an existing seed file, proves the round-trip by
// printing the wallet's UID, and optionally re-encrypts it under a new
// password (--out), exercising the same export(pwd) -> import(pwd) ->
// export(pwd) path Testable Property 5 describes.
var importCommand = cli.Command{
	Name:      "import",
	Usage:     "Decrypt a seed file and optionally re-encrypt it under a new password.",
	ArgsUsage: "seedfile-path",
	Flags: []cli.Flag{
		cli.StringFlag{Name: "out", Usage: "re-encrypt under a new password and write here"},
	},
	Action: actionDecorator(importActionFn),
}

func importActionFn(c *cli.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return cli.ShowCommandHelp(c, "import")
	}
	path := args.Get(0)

	enc, err := walletexport.LoadEncryptedSeed(path)
	if err != nil {
		return err
	}

	password, err := promptPassword("current wallet password: ")
	if err != nil {
		return err
	}

	network := c.GlobalString("network")
	if network == "" {
		network = "mainnet"
	}
	params, err := chainparams.ParamsForNetwork(network)
	if err != nil {
		return err
	}

	w, seedPhrase, err := wallet.Import(wallet.ImportConfig{
		Config: wallet.Config{
			Params: params,
			Rpc:    nopRpcClient{},
		},
		Encrypted: enc,
		Password:  password,
	})
	if err != nil {
		return err
	}

	uid, err := w.UID()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "uid: %s\n", uid)

	out := c.String("out")
	if out == "" {
		return nil
	}

	newPassword, err := promptPassword("new wallet password: ")
	if err != nil {
		return err
	}
	reEncrypted, err := w.Export(newPassword, seedPhrase)
	if err != nil {
		return err
	}
	if err := walletexportSave(reEncrypted, out); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote re-encrypted seed to %s\n", out)
	return nil
}
