package txbuilder

import (
	"context"
	"fmt"

	"github.com/decred/slog"
	"github.com/kasparovwallet/kasparov/addrmgr"
	"github.com/kasparovwallet/kasparov/chainparams"
	"github.com/kasparovwallet/kasparov/internal/addrcodec"
	"github.com/kasparovwallet/kasparov/keychain"
	"github.com/kasparovwallet/kasparov/txstore"
	"github.com/kasparovwallet/kasparov/utxoset"
)

// Submitter is the narrow slice of the RPC client TxBuilder needs to submit
// a finished transaction (spec.md §6: "submitTransaction(tx) -> txid or
// error"), kept local here for the same import-cycle reasons utxoset keeps
// its own Subscriber interface.
type Submitter interface {
	SubmitTransaction(ctx context.Context, tx *WireTransaction) (string, error)
}

// Builder implements TxBuilder (spec.md §4.3): it consumes the UtxoSet and
// AddressManager to compose, estimate, sign, and submit transactions.
type Builder struct {
	utxoSet *utxoset.Set
	addrMgr *addrmgr.Manager
	codec   addrcodec.Codec
	store   *txstore.Store
	rpc     Submitter
	params  *chainparams.Params

	defaultFeePerByte uint64
}

// Config bundles Builder's construction-time dependencies.
type Config struct {
	UtxoSet           *utxoset.Set
	AddrMgr           *addrmgr.Manager
	Codec             addrcodec.Codec
	Store             *txstore.Store
	Rpc               Submitter
	Params            *chainparams.Params
	DefaultFeePerByte uint64
}

// New constructs a Builder.
func New(cfg Config) *Builder {
	return &Builder{
		utxoSet:           cfg.UtxoSet,
		addrMgr:           cfg.AddrMgr,
		codec:             cfg.Codec,
		store:             cfg.Store,
		rpc:               cfg.Rpc,
		params:            cfg.Params,
		defaultFeePerByte: cfg.DefaultFeePerByte,
	}
}

// ComposeTx assembles a candidate transaction per spec.md §4.3 steps 1-5:
// select inputs, derive (or reuse) a change address, assemble in/out sets,
// optionally sign, and roll back the change address reservation on any
// failure past that point.
func (b *Builder) ComposeTx(params ComposeParams, fee uint64) (_ *ComposedTx, err error) {
	var selection *utxoset.Selection
	var toAmount uint64

	if params.IsCompound {
		selection, err = b.utxoSet.CollectUtxos(params.MaxUtxoCount)
		if err != nil {
			return nil, err
		}
		if selection.TotalSelected < fee {
			return nil, &ErrNegativeChange{Inputs: selection.TotalSelected, AmountPlusFee: fee}
		}
		toAmount = 0 // compounding has no third-party recipient output
	} else {
		amount := params.Amount
		if params.InclusiveFee {
			if amount < fee {
				return nil, &ErrNegativeChange{Inputs: amount, AmountPlusFee: fee}
			}
			amount -= fee
		}
		target := params.Amount
		if !params.InclusiveFee {
			target = params.Amount + fee
		}

		selection, err = b.utxoSet.SelectUtxos(target)
		if err != nil {
			return nil, err
		}
		toAmount = amount
	}

	inputs := make([]*SelectedInput, len(selection.Utxos))
	for i, u := range selection.Utxos {
		inputs[i] = &SelectedInput{Utxo: u}
	}
	if err := b.resolveInputAddresses(inputs); err != nil {
		return nil, err
	}

	var changeAddr *addrmgr.Address
	reservedChange := false
	if params.ChangeAddressOverride == "" {
		changeAddr, err = b.addrMgr.ChangeAddress().Next()
		if err != nil {
			return nil, err
		}
		reservedChange = true
	}

	defer func() {
		if err != nil && reservedChange {
			b.addrMgr.ChangeAddress().Reverse()
			builderLog.Debugf("reversed change address reservation after compose failure: %v", err)
		}
	}()

	var amountPlusFee uint64
	if params.IsCompound {
		amountPlusFee = fee
	} else {
		amountPlusFee = toAmount + fee
	}
	if selection.TotalSelected < amountPlusFee {
		err = &ErrNegativeChange{Inputs: selection.TotalSelected, AmountPlusFee: amountPlusFee}
		return nil, err
	}
	change := selection.TotalSelected - amountPlusFee

	candidate := &ComposedTx{
		Inputs:        inputs,
		Fee:           fee,
		ChangeAddress: changeAddr,
	}

	changeOutput, changeErr := b.changeOutput(changeAddr, params.ChangeAddressOverride, change)
	if changeErr != nil {
		err = changeErr
		return nil, err
	}

	if params.IsCompound {
		candidate.ToOutput = changeOutput
		if err2 := signOrSkip(b, candidate, params); err2 != nil {
			err = err2
			return nil, err
		}
		return candidate, nil
	}

	toScript, scriptErr := scriptPubKeyFor(b.codec, params.ToAddress)
	if scriptErr != nil {
		err = scriptErr
		return nil, err
	}
	candidate.ToOutput = &TxOutput{Address: params.ToAddress, ScriptPubKey: toScript, Amount: toAmount}
	candidate.ChangeOutput = changeOutput

	if err2 := signOrSkip(b, candidate, params); err2 != nil {
		err = err2
		return nil, err
	}
	return candidate, nil
}

// changeOutput resolves the change destination's address string and script,
// covering both a freshly derived change address and a caller-supplied
// override, and returns nil if there is no change to pay out.
func (b *Builder) changeOutput(derived *addrmgr.Address, override string, change uint64) (*TxOutput, error) {
	if change == 0 {
		return nil, nil
	}

	if override != "" {
		script, err := scriptPubKeyFor(b.codec, override)
		if err != nil {
			return nil, err
		}
		return &TxOutput{Address: override, ScriptPubKey: script, Amount: change}, nil
	}

	return &TxOutput{Address: derived.AddressStr, ScriptPubKey: derived.ScriptPubKey, Amount: change}, nil
}

func signOrSkip(b *Builder, candidate *ComposedTx, params ComposeParams) error {
	if params.SkipSign {
		return nil
	}
	return signTx(candidate)
}

// resolveInputAddresses maps each selected UTXO back to the Address that
// derived it, so the signer can fetch its private key.
func (b *Builder) resolveInputAddresses(inputs []*SelectedInput) error {
	receive := b.addrMgr.All(keychain.ReceiveChain)
	change := b.addrMgr.All(keychain.ChangeChain)
	all := append(append([]*addrmgr.Address{}, receive...), change...)

	byAddr := make(map[string]*addrmgr.Address, len(all))
	for _, a := range all {
		byAddr[a.AddressStr] = a
	}

	for _, in := range inputs {
		addr, ok := byAddr[in.Utxo.Address]
		if !ok {
			return fmt.Errorf("txbuilder: no derived address found for utxo owner %q", in.Utxo.Address)
		}
		in.Address = addr
	}
	return nil
}

var builderLog = slog.Disabled

// UseLogger sets the package-wide logger used by Builder.
func UseLogger(logger slog.Logger) {
	builderLog = logger
}
