// Package utxoset implements the UtxoSet of spec.md §4.2: three keyed
// collections (confirmed, pending, used), an address index, and an in-use
// reservation list, kept consistent under blue-score-driven maturity
// recomputation and RPC add/remove notifications. Grounded on
// rpctest/memwallet.go's utxo bookkeeping
// (_examples/Abirdcfly-dcrd/rpctest/memwallet.go: the utxo struct,
// isMature, evalOutputs/evalInputs), generalized from a single flat map
// into the spec's three-way confirmed/pending/used split plus address
// index and reservation list, and from a block-height undo journal into
// blue-score-driven reclassification.
package utxoset

import "fmt"

// Outpoint identifies a UTXO by its originating transaction id and output
// index (spec.md §3).
type Outpoint struct {
	TxID  string
	Index uint32
}

// String is the outpoint's map key and the deterministic tiebreak used by
// selection ordering.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID, o.Index)
}

// Utxo is one unspent output as spec.md §3 defines it.
type Utxo struct {
	Outpoint       Outpoint
	Address        string
	Satoshis       uint64
	ScriptPubKey   []byte
	BlockBlueScore uint64
	IsCoinbase     bool
}

// isMatureAt reports whether the output is spendable once the chain's blue
// score reaches currentBlueScore, given the network's maturity rule.
func (u *Utxo) isMatureAt(currentBlueScore uint64, maturity uint64) bool {
	return currentBlueScore >= u.BlockBlueScore+maturity
}
