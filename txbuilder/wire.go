package txbuilder

// WireTransaction is the exact RPC submission payload described in spec.md
// §6. Field order and JSON tags mirror the node's expected shape; the values
// are otherwise opaque hex/decimal strings by design, since the transport
// itself is out of scope for this wallet.
type WireTransaction struct {
	Version      uint16       `json:"version"`
	Inputs       []WireInput  `json:"inputs"`
	Outputs      []WireOutput `json:"outputs"`
	LockTime     uint64       `json:"lockTime"`
	SubnetworkID string       `json:"subnetworkId"`
	PayloadHash  string       `json:"payloadHash"`
	Fee          uint64       `json:"fee"`
}

// WireInput is one spent outpoint plus its unlocking script.
type WireInput struct {
	PreviousOutpoint WireOutpoint `json:"previousOutpoint"`
	SignatureScript  string       `json:"signatureScript"`
	Sequence         uint64       `json:"sequence"`
}

// WireOutpoint names the previous transaction output being spent.
type WireOutpoint struct {
	TransactionID string `json:"transactionId"`
	Index         uint32 `json:"index"`
}

// WireOutput is one transaction output: an amount and a versioned locking
// script.
type WireOutput struct {
	Amount          uint64              `json:"amount"`
	ScriptPublicKey WireScriptPublicKey `json:"scriptPublicKey"`
}

// WireScriptPublicKey is the versioned scriptPubKey wrapper the node expects
// on every output.
type WireScriptPublicKey struct {
	Version         uint16 `json:"version"`
	ScriptPublicKey string `json:"scriptPublicKey"`
}

// zeroSubnetworkID is the fixed 40-hex-zero subnetwork used for ordinary
// sends (spec.md §6; non-zero subnetworks are an explicit open question this
// wallet does not exercise).
const zeroSubnetworkID = "0000000000000000000000000000000000000000"

// zeroPayloadHash is the fixed 32 zero bytes, hex-encoded, used whenever no
// payload is attached (spec.md §9 open questions).
const zeroPayloadHash = "0000000000000000000000000000000000000000000000000000000000000000"
