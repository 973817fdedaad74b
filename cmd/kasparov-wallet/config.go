package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/rpcclient"
	"github.com/kasparovwallet/kasparov/wallet"
	"github.com/kasparovwallet/kasparov/walletexport"
	"github.com/urfave/cli"
)

// cliConfig is parsed twice: once implicitly by urfave/cli for flag/usage
// handling, and again here through go-flags against an optional config
// file, matching the split the teacher's daemon uses between CLI flags and
// a persistent .conf file.
type cliConfig struct {
	RPCServer string `long:"rpcserver"`
	Network   string `long:"network"`
	SeedFile  string `long:"seedfile"`
}

func loadConfigFile(path string, cfg *cliConfig) error {
	if path == "" {
		return nil
	}
	parser := flags.NewParser(cfg, flags.IgnoreUnknown)
	return flags.NewIniParser(parser).ParseFile(path)
}

// openWallet wires together chainparams, the RPC client, and a decrypted
// seed export into a connected, synced wallet.Wallet, the shared setup
// every command below needs before it can do anything useful.
func openWallet(c *cli.Context) (*wallet.Wallet, error) {
	cfg := cliConfig{
		RPCServer: c.GlobalString("rpcserver"),
		Network:   c.GlobalString("network"),
		SeedFile:  c.GlobalString("seedfile"),
	}
	if err := loadConfigFile(c.GlobalString("config"), &cfg); err != nil {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	params, err := chainparams.ParamsForNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	if cfg.SeedFile == "" {
		return nil, fmt.Errorf("no --seedfile given")
	}
	if cfg.RPCServer == "" {
		return nil, fmt.Errorf("no --rpcserver given")
	}

	enc, err := walletexport.LoadEncryptedSeed(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed file: %w", err)
	}

	password, err := promptPassword("wallet password: ")
	if err != nil {
		return nil, err
	}

	rpc, err := rpcclient.New(rpcclient.Config{
		Addr:              cfg.RPCServer,
		Insecure:          cfg.Network != "mainnet",
		ReconnectInterval: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("construct rpc client: %w", err)
	}

	w, _, err := wallet.Import(wallet.ImportConfig{
		Config: wallet.Config{
			Params: params,
			Rpc:    rpc,
		},
		Encrypted: enc,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("decrypt seed file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := w.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.RPCServer, err)
	}
	if err := w.Sync(ctx, true); err != nil {
		return nil, fmt.Errorf("sync: %w", err)
	}

	return w, nil
}

// promptPassword reads a line from stdin. The retrieval pack carries no
// terminal-echo-suppression dependency (no golang.org/x/term, no
// speakeasy), so this is a plain line read rather than a masked prompt.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return trimNewline(line), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
