package rpcclient

import (
	"github.com/decred/dcrd/blockchain/standalone/v2"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
	"github.com/kasparovwallet/kasparov/txbuilder"
)

// classifyCoinbase reports which of block's transactions are coinbase
// transactions, using github.com/decred/dcrd/blockchain/standalone's
// structural check (no inputs reference a real previous output) rather than
// trusting a node-supplied flag. GetBlock's result is otherwise "unused by
// core but exposed" (spec.md §6); this is the one place in the wallet that
// decodes a full block's transactions rather than just the UTXOs spec.md's
// core actually needs, so it is also the only place standalone's coinbase
// check has a transaction to classify.
func classifyCoinbase(txs []txbuilder.WireTransaction) []bool {
	flags := make([]bool, len(txs))
	for i, tx := range txs {
		msg, err := toMsgTx(tx)
		if err != nil {
			continue
		}
		flags[i] = standalone.IsCoinBaseTx(msg)
	}
	return flags
}

func toMsgTx(tx txbuilder.WireTransaction) (*wire.MsgTx, error) {
	msg := wire.NewMsgTx()
	for _, in := range tx.Inputs {
		hash, err := chainhash.NewHashFromStr(in.PreviousOutpoint.TransactionID)
		if err != nil {
			return nil, err
		}
		prevOut := wire.NewOutPoint(hash, in.PreviousOutpoint.Index, wire.TxTreeRegular)
		msg.AddTxIn(wire.NewTxIn(prevOut, int64(0), nil))
	}
	for _, out := range tx.Outputs {
		msg.AddTxOut(wire.NewTxOut(int64(out.Amount), nil))
	}
	return msg, nil
}
