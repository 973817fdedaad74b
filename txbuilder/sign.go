package txbuilder

import (
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec"
	"github.com/decred/dcrd/txscript/v4"
	"github.com/decred/dcrd/txscript/v4/sign"
	"github.com/decred/dcrd/wire"
)

// signTx produces a SIGHASH_ALL Schnorr signature script for every input of
// tx, using the private key owning each selected UTXO's address. Grounded on
// lnwallet/dcrwallet/signer.go's ComputeInputScript
// (_examples/degeri-dcrlnd/lnwallet/dcrwallet/signer.go), generalized from a
// single-input lookup to the whole input set and from ECDSA to Schnorr per
// spec.md §4.3 ("Sign with Schnorr SIGHASH_ALL").
func signTx(candidate *ComposedTx) error {
	msg := wire.NewMsgTx()
	for _, in := range candidate.Inputs {
		hash, err := chainhash.NewHashFromStr(in.Utxo.Outpoint.TxID)
		if err != nil {
			return fmt.Errorf("txbuilder: sign: %w", err)
		}
		prevOut := wire.NewOutPoint(hash, in.Utxo.Outpoint.Index, wire.TxTreeRegular)
		msg.AddTxIn(wire.NewTxIn(prevOut, int64(in.Utxo.Satoshis), nil))
	}
	if candidate.ToOutput != nil {
		msg.AddTxOut(wire.NewTxOut(int64(candidate.ToOutput.Amount), candidate.ToOutput.ScriptPubKey))
	}
	if candidate.ChangeOutput != nil {
		msg.AddTxOut(wire.NewTxOut(int64(candidate.ChangeOutput.Amount), candidate.ChangeOutput.ScriptPubKey))
	}

	scripts := make([][]byte, len(candidate.Inputs))
	for i, in := range candidate.Inputs {
		privKey := in.Address.PrivateKey()

		sigScript, err := sign.SignatureScript(
			msg, i, in.Utxo.ScriptPubKey, txscript.SigHashAll,
			privKey.Serialize(), dcrec.STSchnorrSecp256k1, true,
		)
		if err != nil {
			return fmt.Errorf("txbuilder: sign input %d: %w", i, err)
		}
		scripts[i] = sigScript
	}

	candidate.SignatureScripts = scripts
	candidate.Signed = true
	return nil
}
