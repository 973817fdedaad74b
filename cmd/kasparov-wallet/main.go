// kasparov-wallet is a command-line client over the wallet package,
// following the same one-command-per-subprocess shape as the teacher's
// dcrlncli (cmd/dcrlncli/cmd_query_probability.go): a urfave/cli.App with
// one cli.Command per file and actionDecorator translating returned errors
// into a clean CLI failure instead of a panic/stack dump.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "kasparov-wallet"
	app.Usage = "Kaspa HD wallet command-line client"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to kasparov-wallet.conf",
		},
		cli.StringFlag{
			Name:  "rpcserver",
			Usage: "kaspad gRPC host:port",
		},
		cli.StringFlag{
			Name:  "network",
			Value: "mainnet",
			Usage: "mainnet, testnet, simnet, or devnet",
		},
		cli.StringFlag{
			Name:  "seedfile",
			Usage: "path to the encrypted seed export",
		},
	}
	app.Commands = []cli.Command{
		addressCommand,
		balanceCommand,
		sendCommand,
		compoundCommand,
		exportCommand,
		importCommand,
		daemonCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[kasparov-wallet] %v\n", err)
		os.Exit(1)
	}
}

// actionDecorator wraps a cli action so library/internal errors surface as
// plain CLI failures, matching the teacher's cmd_query_probability.go
// pattern of wrapping QueryProbability's error without extra noise.
func actionDecorator(f func(*cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if err := f(c); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		return nil
	}
}
