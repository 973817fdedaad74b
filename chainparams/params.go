// Package chainparams defines the closed set of Kaspa networks this wallet
// can talk to, and the per-network constants (RPC port, address HRP, UTXO
// maturity rules) the rest of the module derives behavior from. It plays the
// same role here that github.com/decred/dcrd/chaincfg/v3 plays for the
// teacher: a single parameter struct threaded through every component that
// needs to know which network it's operating on.
package chainparams

import "fmt"

// Network identifies one of the Kaspa networks.
type Network string

// The closed set of supported networks, per spec §6.
const (
	Mainnet Network = "kaspa"
	Testnet Network = "kaspatest"
	Simnet  Network = "kaspasim"
	Devnet  Network = "kaspadev"
)

// aliases maps the friendlier bitcoin-core-style names to the canonical
// network identifiers, so config files can use either form.
var aliases = map[string]Network{
	"mainnet": Mainnet,
	"testnet": Testnet,
	"simnet":  Simnet,
	"devnet":  Devnet,
}

// Params holds the network-specific constants consumed by address encoding,
// RPC dialing, and UTXO maturity.
type Params struct {
	Net Network

	// Name is the canonical network name as it appears in addresses and
	// config files.
	Name string

	// AddressHRP is the bech32-style human-readable part used by the
	// default address codec (internal/addrcodec) for this network.
	AddressHRP string

	// DefaultRPCPort is the node's default gRPC listen port.
	DefaultRPCPort uint16

	// CoinbaseMaturity is the number of blue-score units a coinbase
	// output must age before it is spendable.
	CoinbaseMaturity uint64

	// TxMaturity is the number of blue-score units a regular
	// (non-coinbase) output must age before it is spendable.
	TxMaturity uint64
}

var (
	MainnetParams = Params{
		Net:              Mainnet,
		Name:             "kaspa",
		AddressHRP:       "kaspa",
		DefaultRPCPort:   16110,
		CoinbaseMaturity: 100,
		TxMaturity:       1,
	}
	TestnetParams = Params{
		Net:              Testnet,
		Name:             "kaspatest",
		AddressHRP:       "kaspatest",
		DefaultRPCPort:   16210,
		CoinbaseMaturity: 100,
		TxMaturity:       1,
	}
	SimnetParams = Params{
		Net:              Simnet,
		Name:             "kaspasim",
		AddressHRP:       "kaspasim",
		DefaultRPCPort:   16510,
		CoinbaseMaturity: 100,
		TxMaturity:       1,
	}
	DevnetParams = Params{
		Net:              Devnet,
		Name:             "kaspadev",
		AddressHRP:       "kaspadev",
		DefaultRPCPort:   16610,
		CoinbaseMaturity: 100,
		TxMaturity:       1,
	}
)

var byNetwork = map[Network]*Params{
	Mainnet: &MainnetParams,
	Testnet: &TestnetParams,
	Simnet:  &SimnetParams,
	Devnet:  &DevnetParams,
}

// ParamsForNetwork resolves a network name (canonical or alias) to its
// Params. An unrecognized name is a Configuration error.
func ParamsForNetwork(name string) (*Params, error) {
	net := Network(name)
	if alias, ok := aliases[name]; ok {
		net = alias
	}

	p, ok := byNetwork[net]
	if !ok {
		return nil, fmt.Errorf("unknown network %q: must be one of "+
			"kaspa, kaspatest, kaspasim, kaspadev (or their "+
			"mainnet/testnet/simnet/devnet aliases)", name)
	}
	return p, nil
}

// Maturity returns the number of blue-score units the given output kind must
// age before spendable.
func (p *Params) Maturity(isCoinbase bool) uint64 {
	if isCoinbase {
		return p.CoinbaseMaturity
	}
	return p.TxMaturity
}
